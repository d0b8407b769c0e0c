package registry

import (
	"context"
	"path/filepath"
	"sort"
	"sync"

	"github.com/neothan-dev/voice-ai-chat-agent-backend/internal/codegen"
	"github.com/neothan-dev/voice-ai-chat-agent-backend/internal/coerce"
	"github.com/neothan-dev/voice-ai-chat-agent-backend/internal/ctxlog"
	"github.com/neothan-dev/voice-ai-chat-agent-backend/internal/fsutil"
	"github.com/neothan-dev/voice-ai-chat-agent-backend/internal/staleness"
	"github.com/neothan-dev/voice-ai-chat-agent-backend/internal/table"
	"github.com/neothan-dev/voice-ai-chat-agent-backend/internal/validate"
)

// Registry is the explicit owner of all loaded configs.
type Registry struct {
	sourceDir    string
	generatedDir string
	loader       table.Loader
	tracker      *staleness.Tracker

	mu      sync.Mutex
	entries map[string]*entry
}

// entry is the per-config slot. Its mutex serializes the whole
// check-staleness -> recompile -> swap sequence so accessors never see a
// half-updated mapping.
type entry struct {
	mu     sync.Mutex
	state  State
	sheets map[string]*table.CompiledSheet
	order  []string
}

// New creates a registry over a source directory and a generated-artifact
// directory.
func New(sourceDir, generatedDir string, tracker *staleness.Tracker, loader table.Loader) *Registry {
	return &Registry{
		sourceDir:    sourceDir,
		generatedDir: generatedDir,
		loader:       loader,
		tracker:      tracker,
		entries:      make(map[string]*entry),
	}
}

func (r *Registry) sourcePath(name string) string {
	return filepath.Join(r.sourceDir, name+table.SourceExt)
}

func (r *Registry) artifactPath(name string) string {
	return filepath.Join(r.generatedDir, codegen.ArtifactName(name))
}

// entryFor returns the slot for a config, creating it on first sight.
func (r *Registry) entryFor(name string) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[name]
	if !ok {
		e = &entry{state: StateUncompiled, sheets: make(map[string]*table.CompiledSheet)}
		r.entries[name] = e
	}
	return e
}

// Value returns the attribute mapping for one key, recompiling and
// reloading first when the config is stale. The second result is false
// when the config, sheet, or key is absent.
func (r *Registry) Value(ctx context.Context, configName, sheetName, key string) (table.Attrs, bool) {
	sheet, ok := r.Sheet(ctx, configName, sheetName)
	if !ok {
		return nil, false
	}
	return sheet.Item(key)
}

// Sheet returns one compiled sheet, refreshing the config first. The
// second result is false when the config or sheet is absent.
func (r *Registry) Sheet(ctx context.Context, configName, sheetName string) (*table.CompiledSheet, bool) {
	e := r.entryFor(configName)
	e.mu.Lock()
	defer e.mu.Unlock()

	r.refreshLocked(ctx, configName, e)
	sheet, ok := e.sheets[sheetName]
	return sheet, ok
}

// Reload validates, regenerates, and reloads one config. On validation
// failure it logs the report, leaves any previously loaded mapping in
// place, and returns false. A config whose source file is gone can still
// reload from its orphaned artifact.
func (r *Registry) Reload(ctx context.Context, configName string) bool {
	e := r.entryFor(configName)
	e.mu.Lock()
	defer e.mu.Unlock()

	ok := true
	if fsutil.Mtime(r.sourcePath(configName)) > 0 {
		ok = r.compileLocked(ctx, configName, e)
	}
	loaded := r.loadLocked(ctx, configName, e)
	if !ok {
		// The old artifact may still have loaded, but the source is broken
		// and the state must keep saying so.
		e.state = StateInvalid
	}
	return ok && loaded
}

// ReloadAll runs Reload for every discovered source file and returns the
// per-config outcome.
func (r *Registry) ReloadAll(ctx context.Context) map[string]bool {
	logger := ctxlog.FromContext(ctx)
	results := make(map[string]bool)
	for _, name := range r.discoverSources(ctx) {
		results[name] = r.Reload(ctx, name)
	}
	logger.Debug("Reloaded all configs.", "count", len(results))
	return results
}

// ListConfigs enumerates configs by their generated artifacts, sorted.
func (r *Registry) ListConfigs(ctx context.Context) []string {
	files, err := fsutil.FindFilesByExtension(r.generatedDir, codegen.ArtifactSuffix)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Could not scan generated directory.", "dir", r.generatedDir, "error", err)
		return nil
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		if name, ok := codegen.ConfigNameFromArtifact(filepath.Base(f)); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ListSheets enumerates the sheet names of one config in artifact order.
func (r *Registry) ListSheets(ctx context.Context, configName string) []string {
	e := r.entryFor(configName)
	e.mu.Lock()
	defer e.mu.Unlock()

	r.refreshLocked(ctx, configName, e)
	return append([]string(nil), e.order...)
}

// StateOf reports the lifecycle state of a config without refreshing it.
func (r *Registry) StateOf(configName string) State {
	e := r.entryFor(configName)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Validate re-runs validation for one config and returns the per-sheet
// reports. The boolean result is false when the source is missing or any
// sheet has errors.
func (r *Registry) Validate(ctx context.Context, configName string) ([]validate.Report, bool) {
	srcPath := r.sourcePath(configName)
	if fsutil.Mtime(srcPath) == 0 {
		return []validate.Report{{
			Sheet:  configName,
			Errors: []validate.Issue{{Code: validate.CodeSchema, Message: "source file does not exist: " + srcPath}},
		}}, false
	}
	wb, err := r.loader.Load(ctx, srcPath)
	if err != nil {
		return []validate.Report{{
			Sheet:  configName,
			Errors: []validate.Issue{{Code: validate.CodeSchema, Message: err.Error()}},
		}}, false
	}
	return validate.Workbook(wb)
}

// Forget drops the persisted compile record of a config whose source file
// is gone. The loaded mapping and the orphaned artifact keep serving; the
// point is that a later re-created source with the same name compiles
// fresh instead of being compared against the dead record.
func (r *Registry) Forget(configName string) error {
	return r.tracker.Forget(configName)
}

// discoverSources lists config names with a source file, sorted.
func (r *Registry) discoverSources(ctx context.Context) []string {
	files, err := fsutil.FindFilesByExtension(r.sourceDir, table.SourceExt)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Could not scan source directory.", "dir", r.sourceDir, "error", err)
		return nil
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		base := filepath.Base(f)
		names = append(names, base[:len(base)-len(table.SourceExt)])
	}
	sort.Strings(names)
	return names
}

// refreshLocked brings one config up to date: recompile when the source
// or artifact moved past the persisted record, then reload when the
// artifact moved past what this process has in memory. Compile failures
// leave the previous mapping in place.
func (r *Registry) refreshLocked(ctx context.Context, name string, e *entry) {
	srcMtime := fsutil.Mtime(r.sourcePath(name))
	genPath := r.artifactPath(name)

	compiled := true
	if srcMtime > 0 && r.tracker.NeedsRecompile(name, srcMtime, fsutil.Mtime(genPath)) {
		compiled = r.compileLocked(ctx, name, e)
	}
	if genMtime := fsutil.Mtime(genPath); genMtime > 0 && r.tracker.NeedsReload(name, genMtime) {
		r.loadLocked(ctx, name, e)
	}
	if !compiled {
		e.state = StateInvalid
	}
}

// compileLocked runs validate -> generate -> record for one config. It
// returns false when validation fails or the artifact cannot be written.
func (r *Registry) compileLocked(ctx context.Context, name string, e *entry) bool {
	logger := ctxlog.FromContext(ctx).With("config", name)
	srcPath := r.sourcePath(name)
	srcMtime := fsutil.Mtime(srcPath)

	e.state = StateValidating
	wb, err := r.loader.Load(ctx, srcPath)
	if err != nil {
		logger.Error("Could not load source workbook.", "error", err)
		e.state = StateInvalid
		return false
	}

	reports, ok := validate.Workbook(wb)
	for i := range reports {
		reports[i].Log(ctx)
	}
	if !ok {
		logger.Error("Validation failed, keeping previous artifact and mapping.")
		e.state = StateInvalid
		return false
	}
	e.state = StateValid

	sheets := wb.CompilableSheets()
	compiled := make([]*table.CompiledSheet, 0, len(sheets))
	for _, s := range sheets {
		compiled = append(compiled, coerce.Sheet(s))
	}

	artifact, err := codegen.Generate(name, compiled)
	if err != nil {
		logger.Error("Artifact generation failed.", "error", err)
		e.state = StateInvalid
		return false
	}

	genPath := r.artifactPath(name)
	wrote, err := fsutil.WriteFileIfChanged(genPath, artifact)
	if err != nil {
		logger.Error("Could not write generated artifact.", "path", genPath, "error", err)
		e.state = StateInvalid
		return false
	}

	if err := r.tracker.RecordCompiled(name, srcMtime, fsutil.Mtime(genPath)); err != nil {
		// The compile itself succeeded; a record that could not be saved
		// only costs a spurious recompile after the next restart.
		logger.Warn("Could not persist staleness record.", "error", err)
	}
	e.state = StateCompiled
	logger.Info("Config compiled.", "sheets", len(compiled), "artifact_rewritten", wrote)
	return true
}

// loadLocked swaps the artifact's compiled sheets into memory.
func (r *Registry) loadLocked(ctx context.Context, name string, e *entry) bool {
	logger := ctxlog.FromContext(ctx).With("config", name)
	genPath := r.artifactPath(name)
	genMtime := fsutil.Mtime(genPath)
	if genMtime == 0 {
		logger.Warn("No generated artifact to load.", "path", genPath)
		return false
	}

	art, err := codegen.LoadArtifact(genPath)
	if err != nil {
		logger.Error("Could not load generated artifact.", "path", genPath, "error", err)
		return false
	}

	sheets := make(map[string]*table.CompiledSheet, len(art.Sheets))
	for _, s := range art.Sheets {
		sheets[s.Name] = s
	}
	e.sheets = sheets
	e.order = art.SheetNames()
	e.state = StateLoaded
	r.tracker.RecordLoaded(name, genMtime)
	logger.Debug("Config loaded into memory.", "sheets", len(sheets))
	return true
}
