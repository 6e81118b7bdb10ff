package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"storefront-orders/internal/config"
	"storefront-orders/internal/db"
	"storefront-orders/internal/httpserver"
	addressrepo "storefront-orders/internal/repository/address"
	cartrepo "storefront-orders/internal/repository/cart"
	orderrepo "storefront-orders/internal/repository/order"
	tokenrepo "storefront-orders/internal/repository/token"
	userrepo "storefront-orders/internal/repository/user"
	addresssvc "storefront-orders/internal/service/address"
	checkoutsvc "storefront-orders/internal/service/checkout"
	identitysvc "storefront-orders/internal/service/identity"
	ordersvc "storefront-orders/internal/service/order"
	sessionsvc "storefront-orders/internal/service/session"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer dbpool.Close()

	userRepo := userrepo.NewPostgres(dbpool)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	addressRepo := addressrepo.NewPostgres(dbpool)
	cartRepo := cartrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool)

	sessionService := sessionsvc.New(tokenRepo, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	identityService := identitysvc.New(userRepo, sessionService)
	addressService := addresssvc.New(addressRepo)
	checkoutService := checkoutsvc.New(sessionService, addressService, orderRepo, cartRepo, cfg.DeliveryFeeCents, logger)
	orderService := ordersvc.New(orderRepo)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Identity: identityService,
		Sessions: sessionService,
		Carts:    cartRepo,
		Checkout: checkoutService,
		Orders:   orderService,
		Users:    userRepo,
	}, cfg.CORSOrigins)
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting http server", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}
