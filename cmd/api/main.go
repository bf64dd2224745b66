package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medistore/internal/changes"
	"medistore/internal/config"
	"medistore/internal/db"
	"medistore/internal/domain"
	"medistore/internal/httpserver"
	"medistore/internal/logging"
	"medistore/internal/migrate"
	bookingrepo "medistore/internal/repository/booking"
	cartrepo "medistore/internal/repository/cart"
	catalogrepo "medistore/internal/repository/catalog"
	medicinerepo "medistore/internal/repository/medicine"
	orderrepo "medistore/internal/repository/order"
	sessionrepo "medistore/internal/repository/session"
	settingsrepo "medistore/internal/repository/settings"
	userrepo "medistore/internal/repository/user"
	wholesalerepo "medistore/internal/repository/wholesale"
	adminsvc "medistore/internal/service/admin"
	authsvc "medistore/internal/service/auth"
	bookingsvc "medistore/internal/service/booking"
	cartsvc "medistore/internal/service/cart"
	catalogsvc "medistore/internal/service/catalog"
	dashboardsvc "medistore/internal/service/dashboard"
	identitysvc "medistore/internal/service/identity"
	ordersvc "medistore/internal/service/order"
	wholesalesvc "medistore/internal/service/wholesale"
	"medistore/internal/storage"
)

const (
	cartIdleTimeout   = 30 * time.Minute
	cartSweepInterval = 5 * time.Minute
	prescriptionStore = "prescriptions"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.AppEnv, "api")
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbpool, err := db.Connect(ctx, cfg.DBConnString, db.Options{}, logger)
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer dbpool.Close()

	if err := migrate.Apply(ctx, dbpool); err != nil {
		logger.Fatal("apply migrations", zap.Error(err))
	}

	userRepo := userrepo.NewPostgres(dbpool, logger)
	medicineRepo := medicinerepo.NewPostgres(dbpool, logger)
	catalogRepo := catalogrepo.NewPostgres(dbpool, logger)
	bookingRepo := bookingrepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	wholesaleRepo := wholesalerepo.NewPostgres(dbpool, logger)
	settingsRepo := settingsrepo.NewPostgres(dbpool)

	identityService := identitysvc.New(userRepo, sessionrepo.NewPostgres(dbpool), identitysvc.TokenConfig{
		Secret: cfg.JWTSecret,
		Issuer: cfg.JWTIssuer,
		TTL:    cfg.SessionTTL,
	}, logger)
	carts := cartsvc.NewManager(cartrepo.NewPostgres(dbpool, logger), logger)
	objects := storage.NewLocal(cfg.UploadDir, prescriptionStore, cfg.FileURLHost, logger)
	hub := changes.NewHub(32, logger)

	deps := httpserver.Deps{
		Identity: identityService,
		Auth:     authsvc.New(identityService, userRepo, logger),
		Catalog:  catalogsvc.New(medicineRepo, catalogRepo, cfg.CatalogPageLimit),
		Carts:    httpserver.Carts(carts),
		Orders: ordersvc.New(orderRepo, func(ctx context.Context, sess *domain.Session) (ordersvc.Cart, error) {
			s, err := carts.For(ctx, sess)
			if err != nil {
				return nil, err
			}
			return s, nil
		}, logger),
		Bookings:  bookingsvc.New(bookingRepo, catalogRepo, objects, cfg.MaxUploadBytes, logger),
		Wholesale: wholesalesvc.New(wholesaleRepo, cfg.CatalogPageLimit, logger),
		Dashboard: dashboardsvc.New(dashboardsvc.Deps{
			Orders:    orderRepo,
			Bookings:  bookingRepo,
			Doctors:   catalogRepo,
			Wholesale: wholesaleRepo,
			Users:     userRepo,
			Settings:  settingsRepo,
		}, logger),
		Admin:          adminsvc.New(settingsRepo, catalogRepo, medicineRepo, identityService, logger),
		Changes:        hub,
		UploadDir:      cfg.UploadDir,
		MaxUploadBytes: cfg.MaxUploadBytes,
		CORSOrigins:    cfg.CORSOrigins,
	}

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, deps)
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	go func() {
		if err := changes.NewListener(dbpool, hub, logger).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("change listener stopped", zap.Error(err))
		}
	}()
	go sweepCarts(ctx, carts, logger)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}

// sweepCarts disposes carts nobody has touched for cartIdleTimeout.
func sweepCarts(ctx context.Context, carts *cartsvc.Manager, logger *zap.Logger) {
	ticker := time.NewTicker(cartSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := carts.Sweep(cartIdleTimeout); n > 0 {
				logger.Debug("idle carts released", zap.Int("count", n), zap.Int("open", carts.Len()))
			}
		}
	}
}
