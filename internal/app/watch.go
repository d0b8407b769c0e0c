package app

import (
	"context"
	"time"

	"github.com/neothan-dev/voice-ai-chat-agent-backend/internal/registry"
)

// watch polls the source directory on the configured interval and
// recompiles and reloads whatever changed. Staleness detected here is a
// retried condition, never fatal; the accessors keep serving the last
// good data in the meantime.
func (a *App) watch(ctx context.Context) error {
	a.logger.Info("Watching config sources.", "interval", a.config.PollInterval)

	ticker := time.NewTicker(a.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Watch loop stopped.")
			return nil
		case <-ticker.C:
			a.poll(ctx)
		}
	}
}

// poll runs one watch iteration.
func (a *App) poll(ctx context.Context) {
	report := a.registry.CheckAllUpToDate(ctx)
	if report.AllUpToDate {
		return
	}

	for name, status := range report.Configs {
		switch status.Status {
		case registry.StatusOutdated, registry.StatusMissingArtifact:
			a.logger.Info("Change detected, recompiling.", "config", name, "status", string(status.Status))
			if !a.registry.Reload(ctx, name) {
				a.logger.Warn("Recompile failed, previous data stays active.", "config", name)
			}
		case registry.StatusOrphaned:
			a.logger.Warn("Generated artifact has no source file.", "config", name)
			if err := a.registry.Forget(name); err != nil {
				a.logger.Warn("Could not drop staleness record.", "config", name, "error", err)
			}
		}
	}
}
