package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/minimarket/storefront/internal/auth"
	"github.com/minimarket/storefront/internal/cart"
	"github.com/minimarket/storefront/internal/catalog"
	"github.com/minimarket/storefront/internal/config"
	"github.com/minimarket/storefront/internal/events"
	"github.com/minimarket/storefront/internal/httpserver"
	"github.com/minimarket/storefront/internal/logging"
	"github.com/minimarket/storefront/internal/store"
	"github.com/minimarket/storefront/internal/store/filestore"
	"github.com/minimarket/storefront/internal/store/gormstore"
	"github.com/minimarket/storefront/internal/tokens"
	"gorm.io/gorm"
)

type stores struct {
	Users store.UserStore
	Items store.ItemStore
	Carts store.CartStore
}

// openStores picks the backend. A postgres backend without a DSN is a
// warning, not a fatal: the server comes up on the file store instead.
func openStores(ctx context.Context, cfg *config.Config) (stores, *gorm.DB, error) {
	if cfg.StoreBackend == "postgres" {
		if cfg.DatabaseURL == "" {
			log.Printf("Warning: STORE_BACKEND=postgres but DATABASE_URL is empty, falling back to file store")
		} else {
			initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			s, err := gormstore.Open(initCtx, cfg.DatabaseURL)
			if err != nil {
				return stores{}, nil, err
			}
			return stores{Users: s, Items: s, Carts: s}, s.DB, nil
		}
	}

	s, err := filestore.Open(cfg.DataDir)
	if err != nil {
		return stores{}, nil, err
	}
	return stores{Users: s, Items: s, Carts: s}, nil, nil
}

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel)
	if cfg.JWTSecretDefault {
		logger.Warn("JWT_SECRET not set, using built-in default; do not run like this in production")
	}

	st, db, err := openStores(context.Background(), cfg)
	if err != nil {
		log.Fatalf("store init error: %v", err)
	}

	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
	} else {
		logger.Info("KAFKA_BROKERS not set, event publishing disabled")
	}

	issuer := &tokens.Issuer{Secret: cfg.JWTSecret}

	deps := httpserver.Deps{
		Auth:             &httpserver.AuthHandler{Svc: &auth.Service{Users: st.Users, Carts: st.Carts, Tokens: issuer, Producer: producer}},
		Items:            &httpserver.ItemsHandler{Svc: &catalog.Service{Items: st.Items, Producer: producer}},
		Cart:             &httpserver.CartHandler{Engine: &cart.Engine{Items: st.Items, Carts: st.Carts, Producer: producer}},
		Tokens:           issuer,
		CatalogAdminAuth: cfg.CatalogAdminAuth,
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.CORS())
	e.Use(httpserver.RequestLogger(logger))

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "backend", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.Error("db close error", "error", err)
			}
		}
	}

	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
