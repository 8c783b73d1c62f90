package httpserver

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/time/rate"

	"brassmart/internal/auth"
	"brassmart/internal/cart"
)

// Deps carries the services the router wires into handlers.
type Deps struct {
	Auth     AuthService
	Tokens   *auth.TokenManager
	Checkout CheckoutService
	Catalog  CatalogClient
	Pincode  PincodeClient
	Carts    *cart.Manager

	// AllowedOrigins configures CORS; empty allows all origins.
	AllowedOrigins []string
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(deps.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = deps.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowCredentials = !corsCfg.AllowAllOrigins
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Idempotency-Key")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")

	// One OTP or verification send per 20s per IP, with a small burst.
	sendLimiter := newIPLimiter(rate.Every(20*time.Second), 3)

	authGroup := api.Group("/auth")
	authGroup.POST("/send-otp", rateLimit(sendLimiter), sendOTPHandler(deps.Auth, logger))
	authGroup.POST("/verify-otp", verifyOTPHandler(deps.Auth, logger))
	authGroup.POST("/send-verification", rateLimit(sendLimiter), sendVerificationHandler(deps.Auth, logger))
	authGroup.POST("/verify-email", verifyEmailHandler(deps.Auth, logger))
	authGroup.POST("/complete-registration", completeRegistrationHandler(deps.Auth, logger))
	authGroup.POST("/logout", logoutHandler())

	customerGroup := api.Group("/customer", requireCustomer(deps.Tokens))
	customerGroup.GET("/profile", profileHandler(deps.Auth, logger))
	customerGroup.PUT("/profile", updateProfileHandler(deps.Auth, logger))
	customerGroup.GET("/orders", ordersHandler(deps.Auth, logger))

	paymentGroup := api.Group("/payment", requireCustomer(deps.Tokens))
	paymentGroup.POST("/create-order", createPaymentOrderHandler(deps.Checkout, logger))
	paymentGroup.POST("/verify", verifyPaymentHandler(deps.Checkout, logger))

	api.GET("/products", productsHandler(deps.Catalog, logger))
	api.GET("/products/:handle", productByHandleHandler(deps.Catalog, logger))
	api.GET("/collections", collectionsHandler(deps.Catalog, logger))
	api.GET("/pincode", pincodeHandler(deps.Pincode))

	cartGroup := api.Group("/cart", withSession())
	cartGroup.GET("", getCartHandler(deps.Carts))
	cartGroup.POST("", addCartItemHandler(deps.Carts))
	cartGroup.PUT("", updateCartItemHandler(deps.Carts))
	cartGroup.DELETE("", clearCartHandler(deps.Carts))
	cartGroup.DELETE("/:variantId", removeCartItemHandler(deps.Carts))

	wishlistGroup := api.Group("/wishlist", withSession())
	wishlistGroup.GET("", getWishlistHandler(deps.Carts))
	wishlistGroup.POST("", addWishlistHandler(deps.Carts))
	wishlistGroup.DELETE("", clearWishlistHandler(deps.Carts))
	wishlistGroup.DELETE("/:productId", removeWishlistHandler(deps.Carts))
	wishlistGroup.POST("/:productId/move-to-cart", moveToCartHandler(deps.Carts))

	return router
}
