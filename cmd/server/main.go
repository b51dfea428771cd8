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

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/webshop/storefront/internal/config"
	"github.com/webshop/storefront/internal/es"
	"github.com/webshop/storefront/internal/handlers"
	"github.com/webshop/storefront/internal/logging"
	"github.com/webshop/storefront/internal/mykafka"
	"github.com/webshop/storefront/internal/repo"
	"github.com/webshop/storefront/internal/service"
	httpserver "github.com/webshop/storefront/internal/transport/http"
	"github.com/webshop/storefront/pkg/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LOG_LEVEL)

	ctx := context.Background()
	database, err := db.Open(ctx, cfg.DATABASE_URL)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		log.Fatalf("database migrate error: %v", err)
	}

	var producer *mykafka.Producer
	if cfg.KAFKA_ADDRESS != "" {
		producer = mykafka.NewProducer([]string{cfg.KAFKA_ADDRESS})
	}

	jwtSecret := []byte(cfg.JWT_SECRET)
	refreshSecret := []byte(cfg.REFRESH_SECRET)

	store := repo.New(database)
	authSvc := &service.AuthService{Repo: store, Producer: producer, JWTSecret: jwtSecret, RefreshSecret: refreshSecret}
	catalogSvc := &service.CatalogService{Repo: store, Producer: producer}
	cartSvc := &service.CartService{Repo: store}
	checkoutSvc := &service.CheckoutService{Repo: store, Producer: producer}

	deps := httpserver.Deps{
		AuthHandler:     &handlers.AuthHandler{Svc: authSvc},
		CategoryHandler: &handlers.CategoryHandler{Svc: catalogSvc},
		ProductHandler:  &handlers.ProductHandler{Svc: catalogSvc},
		CartHandler:     &handlers.CartHandler{Svc: cartSvc},
		OrderHandler:    &handlers.OrderHandler{Svc: checkoutSvc},
		JWTSecret:       jwtSecret,
	}

	if cfg.ES_URL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		deps.SearchHandler = &handlers.SearchHandler{ES: esClient, Index: cfg.ES_INDEX}
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), logger)))
			return next(c)
		}
	})

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         cfg.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
