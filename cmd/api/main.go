package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/accounthub/internal/config"
	httpx "github.com/geocoder89/accounthub/internal/http"
	"github.com/geocoder89/accounthub/internal/notifications"
	"github.com/geocoder89/accounthub/internal/observability"
	"github.com/geocoder89/accounthub/internal/repo/sqlite"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	// tracing is best-effort; the service runs without a collector
	shutdownTracer, err := observability.InitTracer(context.Background(), "accounthub", cfg.OTLPEndpoint)

	if err != nil {
		log.Warn("tracing disabled", "err", err)
		shutdownTracer = func(context.Context) error { return nil }
	}

	db, err := sqlite.Open(cfg.SQLitePath)

	if err != nil {
		log.Error("could not open database", "path", cfg.SQLitePath, "err", err)
		os.Exit(1)
	}

	defer db.Close()

	log.Info("connected to the sqlite database", "path", cfg.SQLitePath)

	prom := observability.NewProm(prometheus.NewRegistry())

	var notifier notifications.Notifier

	if cfg.EmailUser != "" && cfg.EmailPass != "" {
		smtp, err := notifications.NewSMTPNotifier(notifications.SMTPConfig{
			Host:      cfg.SMTPHost,
			Port:      cfg.SMTPPort,
			Username:  cfg.EmailUser,
			Password:  cfg.EmailPass,
			Recipient: cfg.NotifyRecipient,
		})

		if err != nil {
			log.Error("could not build smtp notifier", "err", err)
			os.Exit(1)
		}

		notifier = notifications.NewProtectedNotifier(smtp, notifications.ProtectedNotifierConfig{})
	} else {
		log.Warn("no mail credentials configured, notifications go to the log")
		notifier = notifications.NewLogNotifier()
	}

	router := httpx.NewRouter(log, db, cfg, prom, notifier)

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
			return
		}

		_ = shutdownTracer(ctx)
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
