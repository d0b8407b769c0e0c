// Package staleness decides when a config needs recompiling or reloading.
// It persists the source and generated-artifact mtimes seen at the last
// successful compile to a sidecar file surviving restarts; the loaded
// mtime is process-local and resets to zero on every start, so each
// config is loaded at least once per process lifetime.
package staleness

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/neothan-dev/voice-ai-chat-agent-backend/internal/ctxlog"
)

// DefaultRecordFile is the sidecar file name the original config pipeline
// used; kept so existing deployments carry their records forward.
const DefaultRecordFile = "convert_times.json"

// record is the persisted pair of mtimes (Unix nanoseconds) for one
// config. A missing file is represented as mtime 0 everywhere.
type record struct {
	Source    int64 `json:"source"`
	Generated int64 `json:"generated"`
}

// Freshness explains why a config is stale. All false means up to date.
type Freshness struct {
	FirstCompile     bool
	SourceChanged    bool
	GeneratedChanged bool
	ReloadPending    bool
}

// NeedsRecompile reports whether the source must be recompiled.
func (f Freshness) NeedsRecompile() bool {
	return f.FirstCompile || f.SourceChanged || f.GeneratedChanged
}

// Stale reports whether anything at all is pending for the config.
func (f Freshness) Stale() bool {
	return f.NeedsRecompile() || f.ReloadPending
}

// Tracker persists and compares modification timestamps across source,
// generated artifact, and in-process load.
type Tracker struct {
	path string

	mu      sync.Mutex
	records map[string]record
	loaded  map[string]int64
}

// NewTracker opens the sidecar record file at path, tolerating a missing
// or corrupt file with a logged warning; staleness then degrades to
// "recompile everything", which is always safe.
func NewTracker(ctx context.Context, path string) *Tracker {
	t := &Tracker{
		path:    path,
		records: make(map[string]record),
		loaded:  make(map[string]int64),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			ctxlog.FromContext(ctx).Warn("Could not read staleness record file.", "path", path, "error", err)
		}
		return t
	}
	if err := json.Unmarshal(data, &t.records); err != nil {
		ctxlog.FromContext(ctx).Warn("Staleness record file is corrupt, starting fresh.", "path", path, "error", err)
		t.records = make(map[string]record)
	}
	return t
}

// Check computes the full freshness picture for one config given the
// current source and generated-artifact mtimes (0 = missing).
func (t *Tracker) Check(name string, sourceMtime, generatedMtime int64) Freshness {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[name]
	f := Freshness{
		FirstCompile:  !ok,
		ReloadPending: generatedMtime > t.loaded[name],
	}
	if ok {
		f.SourceChanged = sourceMtime > rec.Source
		// A generated mtime newer than recorded means the artifact was
		// edited or replaced out-of-band; 0 means it was deleted.
		f.GeneratedChanged = generatedMtime == 0 || generatedMtime > rec.Generated
	}
	return f
}

// NeedsRecompile reports whether the config must be recompiled: first
// compile, source newer than recorded, or artifact touched/removed
// out-of-band.
func (t *Tracker) NeedsRecompile(name string, sourceMtime, generatedMtime int64) bool {
	return t.Check(name, sourceMtime, generatedMtime).NeedsRecompile()
}

// NeedsReload reports whether the generated artifact is newer than what
// this process has loaded. Independent of recompilation, so a restarted
// process picks up a current artifact without recompiling it.
func (t *Tracker) NeedsReload(name string, generatedMtime int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return generatedMtime > t.loaded[name]
}

// RecordCompiled persists the mtimes observed at a successful compile.
// The sidecar is only rewritten when the record actually changed, keeping
// no-op recompiles byte-stable on disk.
func (t *Tracker) RecordCompiled(name string, sourceMtime, generatedMtime int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := record{Source: sourceMtime, Generated: generatedMtime}
	if prev, ok := t.records[name]; ok && prev == next {
		return nil
	}
	t.records[name] = next
	return t.saveLocked()
}

// RecordLoaded marks the artifact mtime now loaded in this process.
func (t *Tracker) RecordLoaded(name string, generatedMtime int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loaded[name] = generatedMtime
}

// Forget drops the persisted record for a config. Used when a source file
// disappears and its record would otherwise shadow a future same-named
// config.
func (t *Tracker) Forget(name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.records[name]; !ok {
		return nil
	}
	delete(t.records, name)
	return t.saveLocked()
}

func (t *Tracker) saveLocked() error {
	data, err := json.MarshalIndent(t.records, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(t.path, data, 0o644)
}
