package config

import (
	"flag"
	"fmt"
)

// flagFields maps global flag names to the config field they set.
var flagFields = map[string]string{
	"file":           "tasks_file",
	"schema":         "schema_file",
	"no-journal":     "journal",
	"journal-dir":    "journal_dir",
	"output":         "output",
	"color":          "color",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// parseFlags defines the global flags on fs and parses args.
// Only flags present on the command line override cfg; if sources is
// non-nil, each of them is attributed to SourceFlag.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("taskgraph", flag.ContinueOnError)
	}

	var (
		tasksFile     = cfg.TasksFile
		schemaFile    = cfg.SchemaFile
		noJournal     = !cfg.Journal
		journalDir    = cfg.JournalDir
		output        = cfg.Output
		color         = cfg.Color
		logLevel      = cfg.LogLevel
		logFormat     = cfg.LogFormat
		logTimestamps = cfg.LogTimestamps
		logCaller     = cfg.LogCaller
	)

	// Paths
	fs.StringVar(&tasksFile, "file", tasksFile, "Path to tasks file")
	fs.StringVar(&schemaFile, "schema", schemaFile, "Path to JSON Schema file (default: bundled schema)")

	// Journal
	fs.BoolVar(&noJournal, "no-journal", noJournal, "Do not record status changes in the journal")
	fs.StringVar(&journalDir, "journal-dir", journalDir, "Journal directory")

	// Output
	fs.StringVar(&output, "output", output, "Output format (text, json, yaml)")
	fs.StringVar(&color, "color", color, "Color mode (auto, always, never)")

	// Logging
	fs.StringVar(&logLevel, "log-level", logLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&logFormat, "log-format", logFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&logTimestamps, "log-timestamps", logTimestamps, "Show timestamps in logs")
	fs.BoolVar(&logCaller, "log-caller", logCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFlag, err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "file":
			cfg.TasksFile = tasksFile
		case "schema":
			cfg.SchemaFile = schemaFile
		case "no-journal":
			cfg.Journal = !noJournal
		case "journal-dir":
			cfg.JournalDir = journalDir
		case "output":
			cfg.Output = output
		case "color":
			cfg.Color = color
		case "log-level":
			cfg.LogLevel = logLevel
		case "log-format":
			cfg.LogFormat = logFormat
		case "log-timestamps":
			cfg.LogTimestamps = logTimestamps
		case "log-caller":
			cfg.LogCaller = logCaller
		}
		if sources == nil {
			return
		}
		if field, ok := flagFields[f.Name]; ok {
			sources[field] = SourceFlag
		}
	})

	return nil
}
