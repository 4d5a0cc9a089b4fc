package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crimson-sun/seizurewatch/internal/api"
	"github.com/crimson-sun/seizurewatch/internal/config"
	"github.com/crimson-sun/seizurewatch/internal/engine"
	"github.com/crimson-sun/seizurewatch/internal/engine/classifier"
	"github.com/crimson-sun/seizurewatch/internal/engine/predictor"
	"github.com/crimson-sun/seizurewatch/internal/eventlog"
	"github.com/crimson-sun/seizurewatch/internal/eventlog/async"
	"github.com/crimson-sun/seizurewatch/internal/eventlog/file"
	"github.com/crimson-sun/seizurewatch/internal/eventlog/multi"
	redislog "github.com/crimson-sun/seizurewatch/internal/eventlog/redis"
	"github.com/crimson-sun/seizurewatch/internal/eventlog/stdout"
	"github.com/crimson-sun/seizurewatch/internal/eventlog/webhook"
	"github.com/crimson-sun/seizurewatch/internal/logging"
	"github.com/crimson-sun/seizurewatch/internal/model"
	"github.com/crimson-sun/seizurewatch/internal/pipeline"
)

func main() {
	cfg := config.Load()
	logging.Init(cfg.Logging.Format, logging.ParseLevel(cfg.Logging.Level))

	if err := run(cfg); err != nil {
		slog.Error("seizurewatch exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load the model once; it is shared by every request.
	pred, err := predictor.NewONNX(cfg.Engine.ModelPath, cfg.Engine.RuntimeLibPath)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	eng, err := engine.New(pred, classifier.New(), cfg.Engine.SampleRate)
	if err != nil {
		pred.Close()
		return err
	}

	store, err := openStore(ctx, cfg.Log)
	if err != nil {
		eng.Close()
		return err
	}

	opts := []pipeline.Option{pipeline.WithDetails(cfg.Log.Details)}
	if sinks := openSinks(cfg.Sinks); sinks.Len() > 0 {
		opts = append(opts, pipeline.WithSinks(sinks))
	}
	p := pipeline.New(eng, store, opts...)
	defer func() {
		if err := p.Close(); err != nil {
			slog.Warn("shutdown", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:           cfg.Server.Addr,
		Handler:        api.NewRouter(api.NewHandler(p)),
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("seizurewatch listening",
			"addr", cfg.Server.Addr,
			"model", cfg.Engine.ModelPath,
			"log_backend", cfg.Log.Backend,
			"sample_rate", cfg.Engine.SampleRate,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func openStore(ctx context.Context, cfg config.EventLogConfig) (eventlog.Store, error) {
	switch cfg.Backend {
	case "redis":
		s, err := redislog.New(ctx, cfg.RedisAddr, cfg.RedisKey)
		if err != nil {
			return nil, fmt.Errorf("open redis log: %w", err)
		}
		return s, nil
	case "file", "":
		s := file.New(cfg.Path)
		if cfg.Init {
			created, err := s.Ensure()
			if err != nil {
				return nil, fmt.Errorf("init seizure log: %w", err)
			}
			if created {
				slog.Info("created empty seizure log", "path", cfg.Path)
			}
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown log backend %q", cfg.Backend)
	}
}

func openSinks(cfg config.SinkConfig) *multi.Multi {
	var sinks []eventlog.Recorder
	if cfg.WebhookURL != "" {
		onErr := func(err error) { slog.Warn("webhook delivery failed", "error", err) }
		sinks = append(sinks, async.New(
			webhook.New(cfg.WebhookURL, webhook.WithOnError(onErr)),
			async.WithDropOnFull(),
			async.WithOnError(onErr),
			async.WithOnDrop(func(e model.LogEntry) {
				slog.Error("seizure notification lost", "timestamp", e.Timestamp, "details", e.Details)
			}),
		))
	}
	if cfg.Stdout {
		sinks = append(sinks, stdout.New())
	}
	return multi.New(sinks...)
}
