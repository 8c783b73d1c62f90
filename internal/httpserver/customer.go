package httpserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"brassmart/internal/auth"
)

func profileHandler(svc AuthService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		customer, err := svc.Profile(c.Request.Context(), c.GetString(ctxCustomerID))
		if err != nil {
			failFromError(c, logger, err)
			return
		}
		ok(c, gin.H{"customer": customer})
	}
}

type updateProfileRequest struct {
	FirstName        *string `json:"firstName"`
	LastName         *string `json:"lastName"`
	Phone            *string `json:"phone"`
	AcceptsMarketing *bool   `json:"acceptsMarketing"`
}

func updateProfileHandler(svc AuthService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Invalid profile payload")
			return
		}
		customer, err := svc.UpdateProfile(c.Request.Context(), c.GetString(ctxCustomerID), auth.UpdateProfileInput{
			FirstName:        req.FirstName,
			LastName:         req.LastName,
			Phone:            req.Phone,
			AcceptsMarketing: req.AcceptsMarketing,
		})
		if err != nil {
			failFromError(c, logger, err)
			return
		}
		ok(c, gin.H{"message": "Profile updated", "customer": customer})
	}
}

func ordersHandler(svc AuthService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svc.Orders(c.Request.Context(), c.GetString(ctxCustomerID))
		if err != nil {
			failFromError(c, logger, err)
			return
		}
		ok(c, gin.H{"orders": orders})
	}
}
