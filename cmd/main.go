package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"flash-fileserver/internal/adapters/localstorage"
	"flash-fileserver/internal/adapters/scratch"
	"flash-fileserver/internal/adapters/server"
	"flash-fileserver/internal/config"
	"flash-fileserver/internal/metrics"
	"flash-fileserver/internal/usecases"
)

func main() {
	cfg := config.LoadConfig("config.yaml")
	setupLogging(cfg.Log)

	// сервер только читает, поэтому каталог не создаю: его отсутствие это ошибка монтирования.
	if info, err := os.Stat(cfg.Storage.BasePath); err != nil || !info.IsDir() {
		logrus.Fatalf("Storage base path %s is not a mounted directory: %v", cfg.Storage.BasePath, err)
	}

	buffers, err := scratch.New(cfg.Transfer.BufferPolicy, cfg.Transfer.BufferSize, cfg.Transfer.MaxConcurrent)
	if err != nil {
		logrus.Fatalf("Failed to set up scratch buffers: %v", err)
	}

	fileSystem := localstorage.NewLocalStorageService()
	downloadUsecase := usecases.NewFileDownloadUseCase(fileSystem, buffers, cfg)
	handler := server.NewHandler(downloadUsecase, cfg.Routes.Download)

	mux := http.NewServeMux()
	handler.Routes(mux)
	mux.Handle(cfg.Routes.Metrics, metrics.Handler())

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: metrics.Middleware(mux),
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"base_path":     cfg.Storage.BasePath,
			"buffer_policy": cfg.Transfer.BufferPolicy,
			"buffer_size":   cfg.Transfer.BufferSize,
		}).Infof("Server running on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server shutdown error: %v", err)
	} else {
		logrus.Info("Server stopped gracefully")
	}
}

func setupLogging(cfg config.LogConfig) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logrus.Warnf("Unknown log level %q, using info", cfg.Level)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if cfg.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}
