package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"go-tamper-inspector/internal/container"
	"go-tamper-inspector/internal/logger"
)

func main() {
	// Build the dependency graph from the environment
	c, err := container.NewContainer()
	if err != nil {
		logger.WithError(err).Error("Failed to initialize container")
		os.Exit(1)
	}

	cfg := c.Config()
	server := &http.Server{
		Addr:         cfg.ServerAddress(),
		Handler:      c.Handler(),
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
	}

	// Start server in a goroutine
	go func() {
		logger.WithFields(logrus.Fields{
			"address":         cfg.ServerAddress(),
			"timeout":         cfg.RequestTimeout.String(),
			"storage_backend": cfg.StorageBackend,
			"archive_enabled": cfg.ArchiveEnabled(),
		}).Info("Starting HTTP server")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	if err := c.Close(); err != nil {
		logger.WithError(err).Error("Failed to release resources")
	}

	logger.Info("Server exited")
}
