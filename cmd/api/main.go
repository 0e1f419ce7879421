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

	"acaihouse/internal/config"
	"acaihouse/internal/db"
	"acaihouse/internal/httpserver"
	cartrepo "acaihouse/internal/repository/cart"
	complementrepo "acaihouse/internal/repository/complement"
	deliveryrepo "acaihouse/internal/repository/delivery"
	orderrepo "acaihouse/internal/repository/order"
	productrepo "acaihouse/internal/repository/product"
	hoursrepo "acaihouse/internal/repository/storehours"
	tokenrepo "acaihouse/internal/repository/token"
	userrepo "acaihouse/internal/repository/user"
	accountsvc "acaihouse/internal/service/account"
	cartsvc "acaihouse/internal/service/cart"
	catalogsvc "acaihouse/internal/service/catalog"
	ordersvc "acaihouse/internal/service/order"
	hourssvc "acaihouse/internal/service/storehours"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	location, err := time.LoadLocation(cfg.StoreTimezone)
	if err != nil {
		logger.Printf("invalid STORE_TZ %q, falling back to UTC", cfg.StoreTimezone)
		location = time.UTC
	}

	productRepo := productrepo.NewPostgres(dbpool, logger)
	complementRepo := complementrepo.NewPostgres(dbpool)
	cartRepo := cartrepo.NewPostgres(dbpool)
	userRepo := userrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	deliveryRepo := deliveryrepo.NewPostgres(dbpool)
	hoursRepo := hoursrepo.NewPostgres(dbpool)

	accountService := accountsvc.New(userRepo, tokenRepo)
	catalogService := catalogsvc.New(productRepo, complementRepo)
	cartService := cartsvc.New(cartRepo, productRepo, complementRepo)
	hoursService := hourssvc.New(hoursRepo, location)
	orderService := ordersvc.New(orderRepo, cartRepo, deliveryRepo, hoursService)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		AccountSvc: accountService,
		CatalogSvc: catalogService,
		CartSvc:    cartService,
		OrderSvc:   orderService,
		HoursSvc:   hoursService,
		Deliveries: deliveryRepo,
		Products:   productRepo,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

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

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
