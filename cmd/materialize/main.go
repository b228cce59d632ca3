// Command materialize runs segment materialization once and exits. It is
// meant for cron-style scheduling alongside servers that run with the
// in-process ticker disabled.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ganot/activitylog/internal/config"
	"github.com/ganot/activitylog/internal/domain/activity"
	"github.com/ganot/activitylog/internal/domain/segment"
	"github.com/ganot/activitylog/internal/runlock"
	"github.com/ganot/activitylog/internal/sqlite"
)

func main() {
	dedup := flag.Bool("dedup", true, "skip subjects already credited by a segment")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	written, err := materialize(ctx, cfg, *dedup && cfg.Segments.Dedup, logger)
	if errors.Is(err, segment.ErrRunInProgress) {
		logger.Info("another run holds the lock")
		return
	}
	if err != nil {
		logger.Error("materialization failed", "written", written, "error", err)
		os.Exit(1)
	}
	logger.Info("materialization finished", "written", written)
}

func materialize(ctx context.Context, cfg config.Config, dedup bool, logger *slog.Logger) (int, error) {
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return 0, err
	}
	defer db.Close()
	if err := db.RunMigrations(); err != nil {
		return 0, err
	}

	locker, closeLocker, err := runlock.Open(cfg.Redis.URL, cfg.Redis.LockKey, cfg.Redis.LockTTL)
	if err != nil {
		return 0, err
	}
	defer closeLocker()

	activityRepo := sqlite.NewActivityRepository(db)
	opts := []segment.Option{
		segment.WithLocker(locker),
		segment.WithWorkers(cfg.Segments.Workers),
	}
	if dedup {
		opts = append(opts, segment.WithDedup(activityRepo))
	}

	m := segment.NewMaterializer(
		sqlite.NewSegmentRepository(db),
		sqlite.NewConditionEvaluator(db),
		activity.NewService(activityRepo, logger),
		logger,
		opts...,
	)
	return m.RunOnce(ctx)
}
