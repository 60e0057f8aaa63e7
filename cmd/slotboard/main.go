package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"slotboard/infrastructure/audit"
	"slotboard/infrastructure/autofit"
	"slotboard/infrastructure/cache"
	"slotboard/infrastructure/config"
	httpserver "slotboard/infrastructure/http"
	"slotboard/infrastructure/snapshot"
	"slotboard/infrastructure/source"
	"slotboard/infrastructure/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := sqlite.OpenDB(cfg.SQLitePath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := sqlite.ApplyEmbeddedMigrations(context.Background(), db); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	store := source.NewStore(db)
	var locations source.LocationSource = store
	var occupancy source.OccupancySource = store
	if cfg.LocationsURL != "" {
		locations = source.NewHTTP(cfg.LocationsURL, cfg.FetchTimeout)
	}
	if cfg.OccupancyURL != "" {
		occupancy = source.NewHTTP(cfg.OccupancyURL, cfg.FetchTimeout)
	}

	sizer := autofit.NewSizer(cfg.Sizing, func(size int) {
		slog.Info("board cell size changed", slog.Int("cellSize", size))
	})
	viewport := autofit.NewScheduler(sizer, autofit.TimerFrame(autofit.FrameInterval))

	board := snapshot.NewService(locations, occupancy, snapshot.Options{
		FetchTimeout: cfg.FetchTimeout,
		Viewport:     viewport,
	})
	if cfg.ViewportWidth > 0 {
		viewport.Resize(cfg.ViewportWidth)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := board.Refresh(ctx); err != nil {
		slog.Warn("initial board refresh failed", slog.Any("error", err))
	}
	go board.Run(ctx, cfg.RefreshInterval)

	labelCache := cache.NewLabelCache()
	auditSvc := audit.NewService()

	server := httpserver.NewServer(cfg.Addr, db, board, viewport, labelCache, auditSvc)
	if err := server.Start(); err != nil {
		log.Fatalf("start server: %v", err)
	}
	log.Printf("slotboard listening on %s", server.ListenAddr())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	cancel()
	if err := server.Stop(); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}
