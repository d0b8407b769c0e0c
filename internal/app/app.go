package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"go.uber.org/multierr"

	"github.com/neothan-dev/voice-ai-chat-agent-backend/internal/ctxlog"
	"github.com/neothan-dev/voice-ai-chat-agent-backend/internal/registry"
	"github.com/neothan-dev/voice-ai-chat-agent-backend/internal/staleness"
	"github.com/neothan-dev/voice-ai-chat-agent-backend/internal/table"
)

// App encapsulates the compiler's dependencies, configuration, and
// lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
}

// NewApp constructs the application with its own isolated logger, tracker,
// and registry.
func NewApp(outW io.Writer, cfg *Config, loader table.Loader) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	tracker := staleness.NewTracker(ctx, cfg.RecordFile)
	reg := registry.New(cfg.SourceDir, cfg.GeneratedDir, tracker, loader)

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
	}
}

// Registry exposes the config registry. The rest of the backend reads
// configuration through it.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Run executes the startup sequence and, when configured, keeps watching
// for source changes until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	if a.config.InitName != "" {
		path, err := table.WriteTemplate(a.config.SourceDir, a.config.InitName)
		if err != nil {
			return fmt.Errorf("creating template workbook: %w", err)
		}
		a.logger.Info("Template workbook created.", "path", path)
		fmt.Fprintf(a.outW, "created %s\n", path)
		return nil
	}

	if a.config.CheckOnly {
		return a.gate(ctx)
	}

	if err := a.boot(ctx); err != nil {
		return err
	}
	if a.config.Watch {
		return a.watch(ctx)
	}
	return nil
}

// boot compiles and reloads every discovered config, then gates on the
// aggregate up-to-date flag. A negative aggregate is fatal at startup.
func (a *App) boot(ctx context.Context) error {
	results := a.registry.ReloadAll(ctx)
	for name, ok := range results {
		if ok {
			a.logger.Info("Config ready.", "config", name)
		} else {
			a.logger.Error("Config failed to compile or load.", "config", name)
		}
	}
	return a.gate(ctx)
}

// gate runs the up-to-date check and converts a negative aggregate into a
// combined error naming every stale config.
func (a *App) gate(ctx context.Context) error {
	report := a.registry.CheckAllUpToDate(ctx)
	if report.AllUpToDate {
		a.logger.Info("All configs up to date.", "total", report.Total)
		return nil
	}

	var err error
	for _, name := range report.Outdated {
		err = multierr.Append(err, fmt.Errorf("config %q is outdated", name))
	}
	for _, name := range report.Missing {
		err = multierr.Append(err, fmt.Errorf("config %q has no generated artifact", name))
	}
	for _, name := range report.Orphaned {
		err = multierr.Append(err, fmt.Errorf("config %q has an orphaned artifact (source file removed)", name))
	}
	return fmt.Errorf("configs are not up to date: %w", err)
}
