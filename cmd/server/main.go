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

	"github.com/teguhsatriya/furnimart/internal/config"
	"github.com/teguhsatriya/furnimart/internal/es"
	"github.com/teguhsatriya/furnimart/internal/handlers"
	"github.com/teguhsatriya/furnimart/internal/logging"
	"github.com/teguhsatriya/furnimart/internal/mykafka"
	"github.com/teguhsatriya/furnimart/internal/service/address"
	"github.com/teguhsatriya/furnimart/internal/service/cart"
	"github.com/teguhsatriya/furnimart/internal/service/catalog"
	"github.com/teguhsatriya/furnimart/internal/service/order"
	"github.com/teguhsatriya/furnimart/internal/service/token"
	"github.com/teguhsatriya/furnimart/internal/service/wishlist"
	httpserver "github.com/teguhsatriya/furnimart/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmpty(configuration.JWT_SECRET, "JWT_SECRET")
	config.MustNonEmpty(configuration.REFRESH_SECRET, "REFRESH_SECRET")

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("db init: %v", err)
	}

	prod, err := mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
	if err != nil {
		log.Fatal(err)
	}

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatal(err)
	}

	tokens := &token.TokenService{
		DB:            db,
		JWTSecret:     []byte(configuration.JWT_SECRET),
		RefreshSecret: []byte(configuration.REFRESH_SECRET),
	}

	cartSvc := &cart.Service{DB: db}
	deps := httpserver.Deps{
		AuthHandler:     &handlers.AuthHandler{DB: db, Tokens: tokens, Producer: prod},
		CatalogHandler:  &handlers.CatalogHandler{Svc: &catalog.Service{DB: db}, Producer: prod, ES: esClient, Index: "product"},
		CartHandler:     &handlers.CartHandler{Svc: cartSvc, Producer: prod},
		WishlistHandler: &handlers.WishlistHandler{Svc: &wishlist.Service{DB: db}, Producer: prod},
		AddressHandler:  &handlers.AddressHandler{Svc: &address.Service{DB: db}},
		OrderHandler:    &handlers.OrderHandler{Svc: &order.Service{DB: db, Carts: cartSvc}, Carts: cartSvc, Producer: prod},
		SearchHandler:   &handlers.SearchHandler{ES: esClient, Index: "product"},
		Tokens:          tokens,
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := logging.IntoContext(c.Request().Context(), logger)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", configuration.SERVER_PORT),
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
