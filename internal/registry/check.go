package registry

import (
	"context"
	"sort"

	"github.com/neothan-dev/voice-ai-chat-agent-backend/internal/ctxlog"
	"github.com/neothan-dev/voice-ai-chat-agent-backend/internal/fsutil"
)

// Status classifies one config's freshness in an up-to-date report.
type Status string

const (
	StatusUpToDate        Status = "up_to_date"
	StatusOutdated        Status = "outdated"
	StatusMissingArtifact Status = "missing_artifact"
	StatusOrphaned        Status = "orphaned"
)

// ConfigStatus is the per-config detail of an up-to-date check.
type ConfigStatus struct {
	Name            string
	Status          Status
	SourceMtime     int64
	GeneratedMtime  int64
	FirstCompile    bool
	SourceChanged   bool
	ArtifactChanged bool
	ReloadPending   bool
}

// UpToDateReport aggregates freshness across every discovered config.
// The host process treats a false aggregate as fatal at boot and as a
// retried condition inside the watch loop.
type UpToDateReport struct {
	AllUpToDate bool
	Total       int
	UpToDate    int
	Outdated    []string
	Missing     []string
	Orphaned    []string
	Configs     map[string]ConfigStatus
}

// CheckAllUpToDate computes freshness for every discovered source file
// and flags missing artifacts, orphaned artifacts, and pending reloads.
// It only reads timestamps; it never triggers a compile.
func (r *Registry) CheckAllUpToDate(ctx context.Context) *UpToDateReport {
	logger := ctxlog.FromContext(ctx)
	report := &UpToDateReport{
		AllUpToDate: true,
		Configs:     make(map[string]ConfigStatus),
	}

	sources := r.discoverSources(ctx)
	report.Total = len(sources)

	for _, name := range sources {
		srcMtime := fsutil.Mtime(r.sourcePath(name))
		genMtime := fsutil.Mtime(r.artifactPath(name))

		status := ConfigStatus{
			Name:           name,
			SourceMtime:    srcMtime,
			GeneratedMtime: genMtime,
		}

		if genMtime == 0 {
			status.Status = StatusMissingArtifact
			report.Missing = append(report.Missing, name)
			report.AllUpToDate = false
			report.Configs[name] = status
			continue
		}

		f := r.tracker.Check(name, srcMtime, genMtime)
		status.FirstCompile = f.FirstCompile
		status.SourceChanged = f.SourceChanged
		status.ArtifactChanged = f.GeneratedChanged
		status.ReloadPending = f.ReloadPending

		if f.Stale() {
			status.Status = StatusOutdated
			report.Outdated = append(report.Outdated, name)
			report.AllUpToDate = false
		} else {
			status.Status = StatusUpToDate
			report.UpToDate++
		}
		report.Configs[name] = status
	}

	// Artifacts whose source file disappeared are still loadable but
	// flagged so operators notice the dangling state.
	sourceSet := make(map[string]struct{}, len(sources))
	for _, name := range sources {
		sourceSet[name] = struct{}{}
	}
	for _, name := range r.ListConfigs(ctx) {
		if _, ok := sourceSet[name]; ok {
			continue
		}
		report.Orphaned = append(report.Orphaned, name)
		report.AllUpToDate = false
		report.Configs[name] = ConfigStatus{
			Name:           name,
			Status:         StatusOrphaned,
			GeneratedMtime: fsutil.Mtime(r.artifactPath(name)),
		}
	}
	sort.Strings(report.Orphaned)

	logger.Debug("Up-to-date check complete.",
		"total", report.Total,
		"up_to_date", report.UpToDate,
		"outdated", len(report.Outdated),
		"missing", len(report.Missing),
		"orphaned", len(report.Orphaned),
		"aggregate", report.AllUpToDate,
	)
	return report
}
