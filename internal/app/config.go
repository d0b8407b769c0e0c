package app

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/neothan-dev/voice-ai-chat-agent-backend/internal/staleness"
)

// Config holds everything an App instance needs to run.
type Config struct {
	SourceDir    string // workbook source files
	GeneratedDir string // generated artifacts
	RecordFile   string // persisted staleness sidecar

	LogFormat    string
	LogLevel     string
	PollInterval time.Duration

	Watch     bool   // keep polling after startup
	CheckOnly bool   // run the up-to-date gate and exit
	InitName  string // scaffold a template workbook and exit
}

// NewConfig applies defaults and validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.SourceDir == "" {
		return nil, errors.New("SourceDir is a required configuration field and cannot be empty")
	}
	if cfg.GeneratedDir == "" {
		return nil, errors.New("GeneratedDir is a required configuration field and cannot be empty")
	}
	if cfg.RecordFile == "" {
		cfg.RecordFile = filepath.Join(cfg.GeneratedDir, staleness.DefaultRecordFile)
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	return &cfg, nil
}
