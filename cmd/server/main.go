// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jason-s-yu/matchcards/internal/auth"
	"github.com/jason-s-yu/matchcards/internal/broker"
	"github.com/jason-s-yu/matchcards/internal/cache"
	"github.com/jason-s-yu/matchcards/internal/config"
	"github.com/jason-s-yu/matchcards/internal/database"
	"github.com/jason-s-yu/matchcards/internal/game"
	"github.com/jason-s-yu/matchcards/internal/handlers"
	"github.com/jason-s-yu/matchcards/internal/logging"
	"github.com/jason-s-yu/matchcards/internal/theme"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config: %v", err)
	}
	if err := logging.Setup(cfg.Server.LogLevel, cfg.Server.LogFormat); err != nil {
		log.Fatalf("Logging: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("Server: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	var (
		themeStore theme.BlobStore = theme.NewMemoryStore()
		publishers []game.ActionPublisher
		results    game.ResultRecorder
		history    handlers.ResultLister
	)

	if cfg.Store.RedisURL != "" {
		rdb, err := cache.Connect(ctx, cfg.Store.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		publishers = append(publishers, cache.NewActionPublisher(rdb))
		if cfg.Store.Themes == "redis" {
			themeStore = cache.NewThemeStore(rdb)
		}
	}

	if cfg.Store.DatabaseURL != "" {
		pool, err := database.Connect(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := database.Migrate(ctx, pool); err != nil {
			return err
		}
		store := database.NewResultStore(pool)
		results, history = store, store
		if cfg.Store.Themes == "postgres" {
			themeStore = database.NewThemeStore(pool)
		}
	}

	if cfg.NATS.URL != "" {
		nc, err := broker.Connect(cfg.NATS.URL, "matchcards-server")
		if err != nil {
			return err
		}
		defer nc.Drain()
		publishers = append(publishers, broker.NewPublisher(nc))
	}

	chooser, err := theme.NewChooser(ctx, themeStore)
	if err != nil {
		return err
	}
	tickets, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TicketTTL)
	if err != nil {
		return err
	}

	srv := handlers.NewServer(chooser, game.NewRegistry(), tickets)
	srv.Publishers = publishers
	srv.Results = results
	srv.History = history
	srv.AllowedOrigins = cfg.Server.AllowedOrigins

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		// Sockets are hijacked, so cancelling their base context is what ends them.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server: listening on %s (themes: %s).", cfg.Server.Addr, cfg.Store.Themes)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Server: shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
