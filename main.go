package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configDir := flag.String("config", ".", "Directory containing rugby.json")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	flag.Parse()

	cfg, err := LoadConfig(*configDir)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	log := setupLogging(cfg.LogLevel, cfg.LogConsole)

	db, err := OpenDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	installID, err := db.InstallID()
	if err != nil {
		return err
	}
	log = log.With().Str("install", installID).Logger()

	metrics, err := NewMetrics()
	if err != nil {
		return err
	}
	auth, err := NewAuth(db, log)
	if err != nil {
		return err
	}
	rooms := NewRoomManager(RoomOptions{
		MaxRooms:      cfg.MaxRooms,
		IdleTimeout:   cfg.RoomIdleTimeout,
		MatchingDelay: cfg.MatchingDelay,
	}, log, metrics)
	defer rooms.StopAll()

	hub := NewHub(rooms, auth, metrics, cfg.BaseURL, log)
	server := &http.Server{Addr: cfg.Addr, Handler: SetupRoutes(hub, cfg.ClientDir)}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(ctx)
		return nil
	})
	g.Go(func() error {
		rooms.RunReaper(ctx)
		return nil
	})
	g.Go(func() error {
		log.Info().Str("addr", cfg.Addr).Str("client", cfg.ClientDir).Msg("server starting")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listening on %s: %w", cfg.Addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(sctx)
	})

	return g.Wait()
}
