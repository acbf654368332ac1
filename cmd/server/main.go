package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	webAdapter "support-console/internal/adapters/web"
	"support-console/internal/app"
	"support-console/internal/backend"
	"support-console/internal/config"
	"support-console/internal/kv"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	storage, err := kv.Open(ctx, cfg.Storage, cfg.Session.IdleTimeout)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer storage.Close()

	httpClient := &http.Client{Timeout: cfg.BackendTimeout}
	services := func(s kv.Storage) app.ApplicationService {
		return backend.New(cfg.APIBaseURL, backend.StorageTokens{Storage: s}, backend.WithHTTPClient(httpClient))
	}

	handler, err := webAdapter.NewHandler(webAdapter.Options{
		Services:       services,
		Storage:        storage,
		SessionSecret:  cfg.Session.Secret,
		SecureCookies:  cfg.Session.SecureCookie,
		PublicURL:      cfg.PublicURL,
		AllowedOrigins: cfg.AllowedOrigins,
		IdleTimeout:    cfg.Session.IdleTimeout,
		LoginRate:      cfg.LoginRatePerMinute,
	})
	if err != nil {
		log.Fatalf("web: %v", err)
	}
	defer handler.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("console starting on :%s (mode=%s, storage=%s, api=%s)", cfg.Port, cfg.AppMode, cfg.Storage.Driver, cfg.APIBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
