package httpserver

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"brassmart/internal/auth"
	"brassmart/internal/checkout"
	"brassmart/internal/domain"
)

// ok writes the success envelope with any extra payload fields.
func ok(c *gin.Context, payload gin.H) {
	if payload == nil {
		payload = gin.H{}
	}
	payload["success"] = true
	c.JSON(http.StatusOK, payload)
}

// fail writes the failure envelope.
func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// failFromError maps service errors to envelope responses. Unknown errors
// are logged and reported as a generic 500.
func failFromError(c *gin.Context, logger *log.Logger, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrInvalidPhone),
		errors.Is(err, auth.ErrInvalidPin),
		errors.Is(err, auth.ErrWrongState),
		errors.Is(err, checkout.ErrBadAmount):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrOTPInvalid):
		fail(c, http.StatusUnauthorized, "Invalid or expired OTP")
	case errors.Is(err, checkout.ErrBadSignature):
		fail(c, http.StatusBadRequest, "Payment verification failed")
	case errors.Is(err, checkout.ErrNotCaptured):
		fail(c, http.StatusBadRequest, "Payment not captured")
	case errors.Is(err, domain.ErrNotFound):
		fail(c, http.StatusNotFound, "Not found")
	case errors.Is(err, domain.ErrAlreadyExists):
		fail(c, http.StatusConflict, "Already exists")
	case errors.Is(err, domain.ErrConflict):
		fail(c, http.StatusConflict, "Conflicting update, please retry")
	case errors.Is(err, domain.ErrUnauthorized):
		fail(c, http.StatusUnauthorized, "Unauthorized")
	default:
		logger.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		fail(c, http.StatusInternalServerError, "Internal server error")
	}
}
