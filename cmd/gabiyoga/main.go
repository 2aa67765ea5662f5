package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jlandron/GabiYogaWebsite-sub001/internal/auth"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/database"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/email"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/logging"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/model"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/payment"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/server"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/storage"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// buildBackend picks the storage backend from YOGA_STORAGE_MODE:
// "local" (default), "s3", or "s3-multi-region". The returned label is the
// region recorded on new gallery rows.
func buildBackend() (storage.Backend, string, error) {
	mode := envOr("YOGA_STORAGE_MODE", "local")

	primaryCfg := storage.S3Config{
		Endpoint:  os.Getenv("YOGA_S3_ENDPOINT"),
		Bucket:    os.Getenv("YOGA_S3_BUCKET"),
		AWSRegion: envOr("YOGA_S3_REGION", "us-east-1"),
		AccessKey: os.Getenv("YOGA_S3_ACCESS_KEY"),
		SecretKey: os.Getenv("YOGA_S3_SECRET_KEY"),
	}

	switch mode {
	case "local":
		root := envOr("YOGA_STORAGE_ROOT", "uploads")
		if err := os.MkdirAll(root, 0o755); err != nil {
			return nil, "", err
		}
		return storage.NewLocalBackend(root), string(storage.RegionLocal), nil
	case "s3":
		return storage.NewS3Backend(primaryCfg, storage.RegionUS), string(storage.RegionUS), nil
	case "s3-multi-region":
		euCfg := storage.S3Config{
			Endpoint:  os.Getenv("YOGA_S3_EU_ENDPOINT"),
			Bucket:    os.Getenv("YOGA_S3_EU_BUCKET"),
			AWSRegion: envOr("YOGA_S3_EU_REGION", "eu-north-1"),
			AccessKey: envOr("YOGA_S3_EU_ACCESS_KEY", primaryCfg.AccessKey),
			SecretKey: envOr("YOGA_S3_EU_SECRET_KEY", primaryCfg.SecretKey),
		}
		us := storage.NewS3Backend(primaryCfg, storage.RegionUS)
		eu := storage.NewS3Backend(euCfg, storage.RegionEU)
		return storage.NewMultiRegionBackend(us, eu), string(storage.RegionUS), nil
	}
	return nil, "", fmt.Errorf("unknown storage mode %q", mode)
}

// ensureAdmin creates the admin account named by YOGA_ADMIN_EMAIL /
// YOGA_ADMIN_PASSWORD if it does not exist yet. Registration only creates
// members, so this is the one way in.
func ensureAdmin(db *sql.DB, logger *slog.Logger) error {
	adminEmail := os.Getenv("YOGA_ADMIN_EMAIL")
	adminPassword := os.Getenv("YOGA_ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		return nil
	}

	users := store.NewUserStore(db)
	existing, err := users.GetByEmail(adminEmail)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if _, err := users.Create(adminEmail, string(hash), "Admin", model.RoleAdmin); err != nil {
		return err
	}
	logger.Info("admin user created", "email", adminEmail)
	return nil
}

func main() {
	logger := logging.Setup(os.Getenv("YOGA_LOG_LEVEL"), os.Getenv("YOGA_LOG_FORMAT"))

	port := envOr("YOGA_PORT", "8080")
	dbPath := envOr("YOGA_DB_PATH", "gabiyoga.db")

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("failed to open database", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := ensureAdmin(db, logger); err != nil {
		logger.Error("failed to seed admin user", "error", err)
		os.Exit(1)
	}

	backend, storageLabel, err := buildBackend()
	if err != nil {
		logger.Error("failed to configure storage", "mode", os.Getenv("YOGA_STORAGE_MODE"), "error", err)
		os.Exit(1)
	}

	jwtSecret := os.Getenv("YOGA_JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("YOGA_JWT_SECRET is required")
		os.Exit(1)
	}
	tokens := auth.NewTokenManager(jwtSecret, 24*time.Hour)

	stripeClient := payment.NewClient(payment.Config{
		SecretKey:      os.Getenv("STRIPE_SECRET_KEY"),
		WebhookSecret:  os.Getenv("STRIPE_WEBHOOK_SECRET"),
		MonthlyPriceID: os.Getenv("STRIPE_MONTHLY_PRICE_ID"),
		AnnualPriceID:  os.Getenv("STRIPE_ANNUAL_PRICE_ID"),
		SuccessURL:     envOr("YOGA_CHECKOUT_SUCCESS_URL", "http://localhost:"+port+"/checkout/success"),
		CancelURL:      envOr("YOGA_CHECKOUT_CANCEL_URL", "http://localhost:"+port+"/checkout/cancel"),
	})
	if !stripeClient.Configured() {
		logger.Warn("stripe not configured, payments disabled")
	}

	mailClient := email.NewClient(
		os.Getenv("POSTMARK_SERVER_TOKEN"),
		envOr("YOGA_FROM_EMAIL", "hello@gabi.yoga"),
	)
	if !mailClient.Configured() {
		logger.Warn("postmark not configured, email disabled")
	}

	srv := server.New(db, server.Config{
		Backend:      backend,
		StorageLabel: storageLabel,
		Stripe:       stripeClient,
		Email:        mailClient,
		Tokens:       tokens,
	}, logger)

	// Expired presigned URLs and idle rate-limit buckets accumulate; sweep
	// them hourly.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			dropped := srv.URLCache().Cleanup()
			srv.RateLimiter().Cleanup()
			logger.Debug("housekeeping sweep", "urls_dropped", dropped)
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("gabi yoga running", "port", port, "storage", envOr("YOGA_STORAGE_MODE", "local"))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
