package httpserver

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"brassmart/internal/catalog"
	"brassmart/internal/domain"
	"brassmart/internal/pincode"
	"brassmart/internal/validate"
)

// CatalogClient is the slice of the catalog proxy the handlers use.
type CatalogClient interface {
	Products(ctx context.Context, in catalog.ListInput) ([]domain.Product, error)
	ProductByHandle(ctx context.Context, handle string) (*domain.Product, error)
	Collections(ctx context.Context) ([]domain.Collection, error)
}

// PincodeClient resolves pincodes for address autofill.
type PincodeClient interface {
	Lookup(ctx context.Context, pin string) pincode.Result
}

func productsHandler(svc CatalogClient, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))
		page, _ := strconv.Atoi(c.Query("page"))
		products, err := svc.Products(c.Request.Context(), catalog.ListInput{
			Limit:      limit,
			Page:       page,
			Collection: c.Query("collection"),
		})
		if err != nil {
			failFromError(c, logger, err)
			return
		}
		ok(c, gin.H{"products": products})
	}
}

func productByHandleHandler(svc CatalogClient, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := svc.ProductByHandle(c.Request.Context(), c.Param("handle"))
		if err != nil {
			failFromError(c, logger, err)
			return
		}
		ok(c, gin.H{"product": product})
	}
}

func collectionsHandler(svc CatalogClient, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		collections, err := svc.Collections(c.Request.Context())
		if err != nil {
			failFromError(c, logger, err)
			return
		}
		ok(c, gin.H{"collections": collections})
	}
}

func pincodeHandler(svc PincodeClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		pin := c.Query("pincode")
		if !validate.Pincode(pin) {
			fail(c, http.StatusBadRequest, "Invalid pincode format")
			return
		}
		res := svc.Lookup(c.Request.Context(), pin)
		if !res.Success {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": res.Message})
			return
		}
		ok(c, gin.H{"data": res.Data})
	}
}
