package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"brassmart/internal/auth"
	"brassmart/internal/cart"
	"brassmart/internal/catalog"
	"brassmart/internal/checkout"
	"brassmart/internal/config"
	"brassmart/internal/db"
	"brassmart/internal/httpserver"
	"brassmart/internal/identity"
	"brassmart/internal/pincode"
	"brassmart/internal/razorpay"
	idemrepo "brassmart/internal/repository/idempotency"
	"brassmart/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is required")
	}

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	// Session state prefers Redis when configured, else the kv table.
	var sessionStore store.Store = store.NewPostgres(dbpool)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		sessionStore = store.NewRedis(rdb, 30*24*time.Hour)
	}

	var mailer auth.Mailer
	if cfg.SMTPAddr != "" {
		mailer = &auth.SMTPMailer{
			Addr:     cfg.SMTPAddr,
			From:     cfg.SMTPFrom,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			Host:     cfg.SMTPHost,
		}
	} else {
		mailer = &auth.LogMailer{Logger: logger}
	}

	identityClient := identity.New(cfg.IdentityAPIURL, cfg.IdentityToken, nil)
	tokens := auth.NewTokenManager(cfg.JWTSecret)
	authService := auth.NewService(identityClient, sessionStore, tokens, mailer, logger)

	gateway := razorpay.New(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.RazorpayBaseURL, nil)
	checkoutService := checkout.NewService(gateway, identityClient, idemrepo.NewPostgres(dbpool), logger)

	catalogClient := catalog.New(cfg.CatalogAPIURL, cfg.CatalogToken, cfg.EnforceInventory, nil)
	pincodeClient := pincode.New(cfg.PincodeAPIURL, nil, logger)
	carts := cart.NewManager(sessionStore, logger)

	srv := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Auth:           authService,
		Tokens:         tokens,
		Checkout:       checkoutService,
		Catalog:        catalogClient,
		Pincode:        pincodeClient,
		Carts:          carts,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
