package httpserver

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"brassmart/internal/auth"
	"brassmart/internal/domain"
)

// AuthService is the slice of the auth service the handlers use.
type AuthService interface {
	SendOTP(ctx context.Context, email string) (*auth.SendOTPResult, error)
	VerifyOTP(ctx context.Context, email, code string) (*domain.Customer, string, error)
	SendVerification(ctx context.Context, email, firstName, lastName string) (string, error)
	VerifyEmail(ctx context.Context, email string) (*domain.Customer, error)
	CompleteRegistration(ctx context.Context, in auth.CompleteRegistrationInput) (*domain.Customer, error)
	Profile(ctx context.Context, customerID string) (*domain.Customer, error)
	UpdateProfile(ctx context.Context, customerID string, in auth.UpdateProfileInput) (*domain.Customer, error)
	Orders(ctx context.Context, customerID string) ([]domain.Order, error)
}

type emailRequest struct {
	Email string `json:"email" binding:"required"`
}

func sendOTPHandler(svc AuthService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req emailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Email is required")
			return
		}
		res, err := svc.SendOTP(c.Request.Context(), req.Email)
		if err != nil {
			failFromError(c, logger, err)
			return
		}
		ok(c, gin.H{"message": res.Message, "invited": res.Invited})
	}
}

type verifyOTPRequest struct {
	Email string `json:"email" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

func verifyOTPHandler(svc AuthService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req verifyOTPRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Email and OTP are required")
			return
		}
		customer, token, err := svc.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
		if err != nil {
			failFromError(c, logger, err)
			return
		}
		setCustomerCookie(c, token)
		ok(c, gin.H{"message": "Login successful", "customer": customer})
	}
}

type sendVerificationRequest struct {
	Email     string `json:"email" binding:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func sendVerificationHandler(svc AuthService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sendVerificationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Email is required")
			return
		}
		msg, err := svc.SendVerification(c.Request.Context(), req.Email, req.FirstName, req.LastName)
		if err != nil {
			failFromError(c, logger, err)
			return
		}
		ok(c, gin.H{"message": msg})
	}
}

func verifyEmailHandler(svc AuthService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req emailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Email is required")
			return
		}
		customer, err := svc.VerifyEmail(c.Request.Context(), req.Email)
		if err != nil {
			failFromError(c, logger, err)
			return
		}
		ok(c, gin.H{"message": "Email verified successfully", "customer": customer})
	}
}

type completeRegistrationRequest struct {
	Email   string          `json:"email" binding:"required"`
	Phone   string          `json:"phone" binding:"required"`
	Address *domain.Address `json:"address"`
}

func completeRegistrationHandler(svc AuthService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req completeRegistrationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Email and phone are required")
			return
		}
		customer, err := svc.CompleteRegistration(c.Request.Context(), auth.CompleteRegistrationInput{
			Email:   req.Email,
			Phone:   req.Phone,
			Address: req.Address,
		})
		if err != nil {
			failFromError(c, logger, err)
			return
		}
		ok(c, gin.H{"message": "Registration completed", "customer": customer})
	}
}

// logoutHandler clears the session cookie. The token itself stays valid
// until expiry; the backend keeps no session list to revoke from.
func logoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		clearCustomerCookie(c)
		ok(c, gin.H{"message": "Logged out"})
	}
}
