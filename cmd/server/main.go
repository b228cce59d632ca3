package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/ganot/activitylog/internal/config"
	"github.com/ganot/activitylog/internal/domain/activity"
	"github.com/ganot/activitylog/internal/domain/performer"
	"github.com/ganot/activitylog/internal/domain/segment"
	"github.com/ganot/activitylog/internal/domain/timeline"
	"github.com/ganot/activitylog/internal/mcp"
	"github.com/ganot/activitylog/internal/runlock"
	"github.com/ganot/activitylog/internal/sqlite"
	"github.com/ganot/activitylog/internal/telemetry"
	"github.com/ganot/activitylog/internal/transport"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "activitylog: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if logPath := os.Getenv("ACTIVITYLOG_LOG_PATH"); logPath != "" {
		fileWriter, err := newLogFileWriter(logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer fileWriter.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	recorder := telemetry.Recorder(telemetry.Noop{})
	if cfg.Telemetry.Enabled {
		spanExp, reader, err := telemetry.NewExport(ctx, telemetry.ExportConfig{
			Endpoint:       cfg.Telemetry.Endpoint,
			Insecure:       cfg.Telemetry.Insecure,
			MetricInterval: cfg.Telemetry.MetricInterval,
			Writer:         os.Stderr,
		})
		if err != nil {
			return fmt.Errorf("telemetry exporter: %w", err)
		}
		shutdown, err := telemetry.Setup(ctx, telemetry.ProviderConfig{
			ServiceName:  "activitylog",
			Version:      version,
			SpanExporter: spanExp,
			MetricReader: reader,
		})
		if err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(sctx); err != nil {
				logger.Warn("telemetry shutdown", "error", err)
			}
		}()
		logger.Info("telemetry enabled", "endpoint", cfg.Telemetry.Endpoint)
		if recorder, err = telemetry.NewRecorder(); err != nil {
			return fmt.Errorf("telemetry recorder: %w", err)
		}
	}

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.RunMigrations(); err != nil {
		return err
	}

	loc, err := time.LoadLocation(cfg.Timeline.Location)
	if err != nil {
		return fmt.Errorf("timeline location: %w", err)
	}

	users := sqlite.NewUserRepository(db)
	customers := sqlite.NewCustomerRepository(db)
	companies := sqlite.NewCompanyRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)
	apiKeys := sqlite.NewAPIKeyRepository(db)

	performers := performer.NewResolver(users, customers, logger)
	activitySvc := activity.NewService(activityRepo, logger, activity.WithRecorder(recorder))
	builder := activity.NewBuilder(activityRepo, customers, performers, logger,
		activity.WithLocation(loc),
		activity.WithRecorder(recorder),
	)
	timelineSvc := timeline.NewService(timeline.Stores{
		Customers: customers,
		Companies: companies,
		Notes:     sqlite.NewNoteRepository(db),
		Messages:  sqlite.NewMessageRepository(db),
	}, builder, activitySvc, performers, logger)

	locker, closeLocker, err := runlock.Open(cfg.Redis.URL, cfg.Redis.LockKey, cfg.Redis.LockTTL)
	if err != nil {
		return fmt.Errorf("run lock: %w", err)
	}
	defer closeLocker()

	materializerOpts := []segment.Option{
		segment.WithLocker(locker),
		segment.WithWorkers(cfg.Segments.Workers),
		segment.WithRecorder(recorder),
	}
	if cfg.Segments.Dedup {
		materializerOpts = append(materializerOpts, segment.WithDedup(activityRepo))
	}
	materializer := segment.NewMaterializer(sqlite.NewSegmentRepository(db), sqlite.NewConditionEvaluator(db), activitySvc, logger, materializerOpts...)

	mcpServer := mcp.NewServer(mcp.Config{
		Timeline:      timelineSvc,
		Resolver:      apiKeys,
		AuthEnabled:   cfg.Auth.Enabled,
		TransportMode: cfg.Transport.Mode,
		Version:       version,
		Logger:        logger,
	})

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Segments.Interval > 0 {
		g.Go(func() error {
			runMaterializer(ctx, logger, materializer, cfg.Segments.Interval)
			return nil
		})
	}

	if cfg.Transport.Mode == "stdio" {
		logger.Info("starting stdio transport", "auth", "disabled")
		g.Go(func() error {
			// Run blocks until stdin closes or ctx is canceled.
			err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{})
			stop()
			return err
		})
	} else {
		var auth func(http.Handler) http.Handler
		if cfg.Auth.Enabled {
			auth = transport.AuthMiddleware(apiKeys)
		}
		router := transport.NewServer(mcp.NewHandler(timelineSvc), auth, logger)
		mcpHandler := sdkmcp.NewStreamableHTTPHandler(
			func(r *http.Request) *sdkmcp.Server { return mcpServer },
			&sdkmcp.StreamableHTTPOptions{SessionTimeout: 30 * time.Minute},
		)
		router.Handle("/mcp", mcpHandler)
		router.Handle("/mcp/*", mcpHandler)

		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		httpServer := &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		g.Go(func() error {
			logger.Info("server listening", "addr", addr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			logger.Info("shutting down")
			return httpServer.Shutdown(sctx)
		})
	}

	return g.Wait()
}

// runMaterializer runs the segment materializer every interval until ctx is
// done. Overlapping runs are skipped rather than queued.
func runMaterializer(ctx context.Context, logger *slog.Logger, m *segment.Materializer, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			written, err := m.RunOnce(ctx)
			switch {
			case errors.Is(err, segment.ErrRunInProgress):
				logger.Debug("segment materialization skipped", "reason", "run in progress")
			case err != nil:
				logger.Error("segment materialization failed", "written", written, "error", err)
			default:
				logger.Info("segment materialization finished", "written", written)
			}
		}
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
