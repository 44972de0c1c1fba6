package main

import (
	"fmt"
	"log"
	"net/http"

	"go.uber.org/zap"

	"agentdemo/internal/config"
	"agentdemo/internal/handler"
	"agentdemo/internal/logger"
	"agentdemo/internal/router"
	"agentdemo/internal/upload"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = zlog.Sync() }()

	uploader := upload.New(upload.Config{
		DefaultBucket: cfg.Storage.DefaultBucket,
		DefaultRegion: cfg.Storage.DefaultRegion,
		DefaultExpiry: cfg.Storage.PresignExpiry,
		BucketEnv:     cfg.Storage.BucketEnv,
		RegionEnv:     cfg.Storage.RegionEnv,
		AccessKeyEnv:  cfg.Storage.AccessKeyEnv,
		SecretKeyEnv:  cfg.Storage.SecretKeyEnv,
		IAMEndpoint:   cfg.Storage.IAMEndpoint,
	}, upload.WithLogger(zlog))

	uploadH := handler.NewUploadHandler(uploader, zlog)
	r := router.Setup(cfg, uploadH, zlog)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	zlog.Info("upload server starting", zap.String("addr", cfg.Server.Port))
	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
