// Command migrate-images is a one-shot job that moves legacy inline image
// blobs out of the database into the configured storage backend. It shares
// the server's YOGA_* environment. Safe to rerun: already-migrated rows are
// skipped and failed rows keep their blobs for the next run.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jlandron/GabiYogaWebsite-sub001/internal/database"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/imagemigrate"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/logging"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/storage"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

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

func main() {
	logger := logging.Setup(os.Getenv("YOGA_LOG_LEVEL"), os.Getenv("YOGA_LOG_FORMAT"))

	dbPath := envOr("YOGA_DB_PATH", "gabiyoga.db")
	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("failed to open database", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	backend, region, err := buildBackend()
	if err != nil {
		logger.Error("failed to configure storage", "error", err)
		os.Exit(1)
	}

	res, err := imagemigrate.New(db, backend, logger, region).Run(context.Background())
	if err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// Row-level failures are not fatal: those rows keep their blobs and the
	// next run picks them up.
	fmt.Printf("migrated %d images, %d failed\n", res.Migrated, res.Failed)
}
