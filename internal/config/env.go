package config

import (
	"os"
	"strings"
)

// Environment variable names.
const (
	EnvTasksFile     = "TASKGRAPH_FILE"
	EnvSchemaFile    = "TASKGRAPH_SCHEMA"
	EnvJournal       = "TASKGRAPH_JOURNAL"
	EnvJournalDir    = "TASKGRAPH_JOURNAL_DIR"
	EnvOutput        = "TASKGRAPH_OUTPUT"
	EnvColor         = "TASKGRAPH_COLOR"
	EnvLogLevel      = "TASKGRAPH_LOG_LEVEL"
	EnvLogFormat     = "TASKGRAPH_LOG_FORMAT"
	EnvLogTimestamps = "TASKGRAPH_LOG_TIMESTAMPS"
	EnvLogCaller     = "TASKGRAPH_LOG_CALLER"
)

// loadFromEnv overrides config from environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	mark := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}
	str := func(name, field string, target *string) {
		if v := os.Getenv(name); v != "" {
			*target = v
			mark(field)
		}
	}
	boolean := func(name, field string, target *bool) {
		if v := os.Getenv(name); v != "" {
			*target = boolFromString(v)
			mark(field)
		}
	}

	str(EnvTasksFile, "tasks_file", &cfg.TasksFile)
	str(EnvSchemaFile, "schema_file", &cfg.SchemaFile)
	boolean(EnvJournal, "journal", &cfg.Journal)
	str(EnvJournalDir, "journal_dir", &cfg.JournalDir)
	str(EnvOutput, "output", &cfg.Output)
	str(EnvColor, "color", &cfg.Color)

	// Logging configuration
	str(EnvLogLevel, "log_level", &cfg.LogLevel)
	str(EnvLogFormat, "log_format", &cfg.LogFormat)
	boolean(EnvLogTimestamps, "log_timestamps", &cfg.LogTimestamps)
	boolean(EnvLogCaller, "log_caller", &cfg.LogCaller)
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
