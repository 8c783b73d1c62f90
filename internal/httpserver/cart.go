package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"brassmart/internal/cart"
	"brassmart/internal/domain"
)

type productPayload struct {
	ProductID string `json:"productId"`
	Title     string `json:"title"`
	Price     string `json:"price"`
	Currency  string `json:"currency"`
	Image     string `json:"image"`
	Handle    string `json:"handle"`
}

func (p productPayload) toProductData() (cart.ProductData, error) {
	currency := p.Currency
	if currency == "" {
		currency = "INR"
	}
	// A missing price defaults to zero; only a malformed one is rejected.
	price := domain.Price{Currency: currency}
	if p.Price != "" {
		var err error
		price, err = domain.ParsePrice(p.Price, currency)
		if err != nil {
			return cart.ProductData{}, err
		}
	}
	return cart.ProductData{
		ProductID: p.ProductID,
		Title:     p.Title,
		Price:     price,
		Image:     p.Image,
		Handle:    p.Handle,
	}, nil
}

func sessionCart(c *gin.Context, carts *cart.Manager) *cart.Container {
	return carts.Session(c.Request.Context(), c.GetString(ctxSessionID))
}

func cartPayload(container *cart.Container) gin.H {
	total := container.TotalPrice()
	return gin.H{
		"items":      container.Lines(),
		"totalItems": container.TotalItems(),
		"totalPrice": total.Display(),
		"currency":   total.Currency,
	}
}

func getCartHandler(carts *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok(c, cartPayload(sessionCart(c, carts)))
	}
}

type addCartItemRequest struct {
	VariantID string         `json:"variantId" binding:"required"`
	Quantity  int            `json:"quantity"`
	Product   productPayload `json:"product"`
}

func addCartItemHandler(carts *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Variant id is required")
			return
		}
		data, err := req.Product.toProductData()
		if err != nil {
			fail(c, http.StatusBadRequest, "Invalid price")
			return
		}
		container := sessionCart(c, carts)
		container.AddItem(c.Request.Context(), req.VariantID, req.Quantity, data)
		ok(c, cartPayload(container))
	}
}

type updateCartItemRequest struct {
	VariantID string `json:"variantId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

func updateCartItemHandler(carts *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Variant id is required")
			return
		}
		container := sessionCart(c, carts)
		container.UpdateQuantity(c.Request.Context(), req.VariantID, req.Quantity)
		ok(c, cartPayload(container))
	}
}

func removeCartItemHandler(carts *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		container := sessionCart(c, carts)
		container.RemoveItem(c.Request.Context(), c.Param("variantId"))
		ok(c, cartPayload(container))
	}
}

func clearCartHandler(carts *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		container := sessionCart(c, carts)
		container.ClearCart(c.Request.Context())
		ok(c, cartPayload(container))
	}
}

func wishlistPayload(container *cart.Container) gin.H {
	return gin.H{"items": container.Wishlist()}
}

func getWishlistHandler(carts *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok(c, wishlistPayload(sessionCart(c, carts)))
	}
}

type addWishlistRequest struct {
	VariantID string         `json:"variantId"`
	Product   productPayload `json:"product" binding:"required"`
}

func addWishlistHandler(carts *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addWishlistRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Product is required")
			return
		}
		data, err := req.Product.toProductData()
		if err != nil {
			fail(c, http.StatusBadRequest, "Invalid price")
			return
		}
		container := sessionCart(c, carts)
		container.AddToWishlist(c.Request.Context(), req.VariantID, data)
		ok(c, wishlistPayload(container))
	}
}

func removeWishlistHandler(carts *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		container := sessionCart(c, carts)
		container.RemoveFromWishlist(c.Request.Context(), c.Param("productId"))
		ok(c, wishlistPayload(container))
	}
}

func clearWishlistHandler(carts *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		container := sessionCart(c, carts)
		container.ClearWishlist(c.Request.Context())
		ok(c, wishlistPayload(container))
	}
}

func moveToCartHandler(carts *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		container := sessionCart(c, carts)
		if _, moved := container.MoveToCart(c.Request.Context(), c.Param("productId")); !moved {
			fail(c, http.StatusNotFound, "Product not in wishlist")
			return
		}
		payload := cartPayload(container)
		payload["wishlist"] = container.Wishlist()
		ok(c, payload)
	}
}
