package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/neothan-dev/voice-ai-chat-agent-backend/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated
// app.Config, a boolean indicating whether the program should exit
// cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("configc", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
configc - compiles tabular configuration workbooks into typed, loadable artifacts.

Usage:
  configc [options]

Options:
`)
		flagSet.PrintDefaults()
	}

	sourceFlag := flagSet.String("source", "", "Directory containing workbook source files.")
	generatedFlag := flagSet.String("generated", "", "Directory for generated config artifacts.")
	recordFlag := flagSet.String("record", "", "Path of the persisted staleness record file.")
	settingsFlag := flagSet.String("settings", "", "Optional HCL settings file.")
	watchFlag := flagSet.Bool("watch", false, "Keep polling for source changes after startup.")
	intervalFlag := flagSet.Duration("interval", 0, "Poll interval for the watch loop.")
	checkFlag := flagSet.Bool("check", false, "Only run the up-to-date check; exit non-zero when stale.")
	initFlag := flagSet.String("init", "", "Create a template workbook with the given config name and exit.")
	logFormatFlag := flagSet.String("log-format", "", "Log output format. Options: 'text' or 'json'. Defaults to 'text'.")
	logLevelFlag := flagSet.String("log-level", "", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'. Defaults to 'info'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	cfg := app.Config{
		SourceDir:    *sourceFlag,
		GeneratedDir: *generatedFlag,
		RecordFile:   *recordFlag,
		LogFormat:    strings.ToLower(*logFormatFlag),
		LogLevel:     strings.ToLower(*logLevelFlag),
		PollInterval: *intervalFlag,
		Watch:        *watchFlag,
		CheckOnly:    *checkFlag,
		InitName:     *initFlag,
	}

	if *settingsFlag != "" {
		if err := app.ApplySettingsFile(&cfg, *settingsFlag); err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
	}

	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	if cfg.SourceDir == "" && cfg.GeneratedDir == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if *checkFlag && *watchFlag {
		return nil, false, &ExitError{Code: 2, Message: "-check and -watch are mutually exclusive"}
	}

	return config, false, nil
}
