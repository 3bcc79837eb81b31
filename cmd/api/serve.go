package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"courier-backend/internal/client"
	"courier-backend/internal/logging"
	"courier-backend/internal/middleware"
	"courier-backend/internal/repository"
	"courier-backend/internal/server"
	"courier-backend/internal/service"

	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, db, err := openStore()
	if err != nil {
		return err
	}
	defer client.CloseDB(db)

	logger := logging.New(cfg.Log)

	gateway, err := client.NewPaymentGateway(&cfg.Payment)
	if err != nil {
		return err
	}

	verifier, err := client.NewTokenVerifier(cmd.Context(), &cfg.Identity)
	if err != nil {
		return err
	}

	parcelRepo := repository.NewParcelRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	riderRepo := repository.NewRiderRepository(db)
	userRepo := repository.NewUserRepository(db)

	srv := server.NewServer(cfg.HTTP, logger, middleware.NewIdentityGate(verifier), server.Services{
		Parcel:  service.NewParcelService(logger, parcelRepo),
		Payment: service.NewPaymentService(logger, gateway, cfg.Payment.DefaultCurrency, parcelRepo, paymentRepo),
		Rider:   service.NewRiderService(logger, riderRepo),
		User:    service.NewUserService(logger, userRepo),
	})

	serverAddr := cfg.HTTP.Address()
	errCh := make(chan error, 1)

	logger.Info("starting HTTP server",
		"address", serverAddr,
		"environment", cfg.Environment.Name,
		"provider", cfg.Payment.Provider,
		"database", cfg.Database.Driver,
	)
	go func() {
		if err := srv.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case err := <-errCh:
		logger.Error("HTTP server error", "error", err)
		return err
	case sig := <-sigChan:
		logger.Info("signal received, starting graceful shutdown", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	logger.Info("server stopped")
	return nil
}
