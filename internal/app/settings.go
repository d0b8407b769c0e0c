package app

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// fileSettings is the optional HCL settings file. Every attribute is
// optional; flags override whatever the file sets.
//
//	source_dir    = "data/tables"
//	generated_dir = "data/generated"
//	record_file   = "data/generated/convert_times.json"
//	poll_interval = "2s"
//	log_level     = "info"
//	log_format    = "text"
type fileSettings struct {
	SourceDir    *string `hcl:"source_dir,optional"`
	GeneratedDir *string `hcl:"generated_dir,optional"`
	RecordFile   *string `hcl:"record_file,optional"`
	PollInterval *string `hcl:"poll_interval,optional"`
	LogLevel     *string `hcl:"log_level,optional"`
	LogFormat    *string `hcl:"log_format,optional"`
}

// ApplySettingsFile overlays values from an HCL settings file onto cfg,
// filling only the fields the caller left empty so CLI flags keep
// precedence.
func ApplySettingsFile(cfg *Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("settings file %s: %w", path, err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("parsing settings file %s: %w", path, diags)
	}

	var settings fileSettings
	if diags := gohcl.DecodeBody(file.Body, nil, &settings); diags.HasErrors() {
		return fmt.Errorf("decoding settings file %s: %w", path, diags)
	}

	if cfg.SourceDir == "" && settings.SourceDir != nil {
		cfg.SourceDir = *settings.SourceDir
	}
	if cfg.GeneratedDir == "" && settings.GeneratedDir != nil {
		cfg.GeneratedDir = *settings.GeneratedDir
	}
	if cfg.RecordFile == "" && settings.RecordFile != nil {
		cfg.RecordFile = *settings.RecordFile
	}
	if cfg.LogLevel == "" && settings.LogLevel != nil {
		cfg.LogLevel = *settings.LogLevel
	}
	if cfg.LogFormat == "" && settings.LogFormat != nil {
		cfg.LogFormat = *settings.LogFormat
	}
	if cfg.PollInterval == 0 && settings.PollInterval != nil {
		d, err := time.ParseDuration(*settings.PollInterval)
		if err != nil {
			return fmt.Errorf("settings file %s: invalid poll_interval: %w", path, err)
		}
		cfg.PollInterval = d
	}
	return nil
}
