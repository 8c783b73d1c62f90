package domain

// PlaceholderImage is shown for products and cart lines with no image.
const PlaceholderImage = "/placeholder.svg"

// Variant is one purchasable option of a product.
type Variant struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Price     string `json:"price"`
	SKU       string `json:"sku,omitempty"`
	Available bool   `json:"available"`
	Inventory int    `json:"inventory_quantity,omitempty"`
}

// ProductImage is one catalog image.
type ProductImage struct {
	ID  string `json:"id"`
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

// Product is a catalog product with its variants and images.
type Product struct {
	ID          string         `json:"id"`
	Handle      string         `json:"handle"`
	Title       string         `json:"title"`
	Description string         `json:"body_html,omitempty"`
	Vendor      string         `json:"vendor,omitempty"`
	ProductType string         `json:"product_type,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Variants    []Variant      `json:"variants"`
	Images      []ProductImage `json:"images,omitempty"`
}

// MainImage returns the first image source or the placeholder.
func (p Product) MainImage() string {
	if len(p.Images) > 0 && p.Images[0].Src != "" {
		return p.Images[0].Src
	}
	return PlaceholderImage
}

// FirstAvailableVariant returns the first purchasable variant, falling back
// to the first variant when none report availability.
func (p Product) FirstAvailableVariant() *Variant {
	for i := range p.Variants {
		if p.Variants[i].Available {
			return &p.Variants[i]
		}
	}
	if len(p.Variants) > 0 {
		return &p.Variants[0]
	}
	return nil
}

// Collection is a named grouping of products.
type Collection struct {
	ID     string `json:"id"`
	Handle string `json:"handle"`
	Title  string `json:"title"`
	Image  string `json:"image,omitempty"`
}
