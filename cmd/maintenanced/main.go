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

	"github.com/SherClockHolmes/webpush-go"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"maintenance-tracker-backend/config"
	"maintenance-tracker-backend/internal/api"
	"maintenance-tracker-backend/internal/auth"
	"maintenance-tracker-backend/internal/db"
	"maintenance-tracker-backend/internal/kv"
	"maintenance-tracker-backend/internal/maintenance"
	"maintenance-tracker-backend/internal/notification"
	"maintenance-tracker-backend/internal/reminder"
	"maintenance-tracker-backend/internal/store"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		logrus.Debug("loaded environment from .env")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logrus.WithError(err).Fatalf("failed to load configuration from %s", configPath)
	}
	logrus.Infof("configuration loaded from %s", configPath)

	if cfg.Auth.JWTSecret == "" {
		logrus.Fatal("auth.jwt_secret (or JWT_SECRET) must be configured")
	}
	if cfg.Reminder.Enabled && (cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "") {
		logrus.Fatal("VAPID keys must be configured when the reminder scanner is enabled")
	}

	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize database")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	machineStore := store.NewMachineStore(kv.NewGormStore(gormDB), nil)
	if err := machineStore.Load(ctx); err != nil {
		logrus.WithError(err).Fatal("failed to load machine records")
	}
	logrus.Info("machine record store loaded")

	maintenanceSvc := maintenance.NewService(machineStore, nil)
	authSvc := auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.Expiry)

	workerPool := notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, &webpushOptions)
	reminderSvc := reminder.NewService(&cfg.Reminder, maintenanceSvc, workerPool)
	go reminderSvc.Run(ctx)

	router := api.NewRouter(cfg, gormDB, machineStore, maintenanceSvc, authSvc, &webpushOptions)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logrus.Infof("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("HTTP server ListenAndServe")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logrus.Info("shutdown signal received, stopping services")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Fatal("HTTP server shutdown")
	}

	logrus.Info("server gracefully stopped")
}
