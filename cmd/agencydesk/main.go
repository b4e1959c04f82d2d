package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agencydesk/internal/config"
	"agencydesk/internal/models"
	"agencydesk/internal/server"
	"agencydesk/internal/storage/sqlite"
)

func main() {
	configFlag := flag.String("config", os.Getenv("AGENCYDESK_CONFIG"), "Path to YAML config file")
	addrFlag := flag.String("addr", "", "HTTP listen address (overrides config)")
	dbFlag := flag.String("db", "", "Path to sqlite database file (overrides config)")
	staticFlag := flag.String("static", "", "Directory with built frontend (overrides config)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configFlag)
	if err != nil {
		logger.Error("unable to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *addrFlag != "" {
		cfg.Addr = *addrFlag
	}
	if *dbFlag != "" {
		cfg.DBPath = *dbFlag
	}
	if *staticFlag != "" {
		cfg.StaticDir = *staticFlag
	}

	store, err := sqlite.Open(cfg.DBPath, logger)
	if err != nil {
		logger.Error("unable to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	if err := bootstrapAdmin(store, cfg, logger); err != nil {
		logger.Error("unable to bootstrap admin", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv := server.New(store, logger, server.Options{
		StaticDir:  cfg.StaticDir,
		SessionTTL: cfg.SessionTTL,
	})

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Engine(),
	}

	go func() {
		logger.Info("starting server", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}

// bootstrapAdmin creates the configured admin account when it does not
// exist yet so a fresh install has someone who can create projects.
func bootstrapAdmin(store *sqlite.Store, cfg config.Config, logger *slog.Logger) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	ctx := context.Background()
	if _, err := store.GetUserByEmail(ctx, cfg.AdminEmail); err == nil {
		return nil
	}

	user, err := store.CreateUser(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword, models.RoleAdmin)
	if err != nil {
		return err
	}
	logger.Info("created admin user", slog.String("email", user.Email))
	return nil
}
