package config

import "errors"

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource

	// Config files that were read, empty when absent.
	UserFile    string
	ProjectFile string
}

// Default values.
const (
	DefaultTasksFile  = "tasks/tasks.json"
	DefaultJournalDir = "~/.taskgraph"
	DefaultOutput     = OutputText
	DefaultColor      = ColorAuto
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
)

// Output formats for command results.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

var (
	// ErrInvalidFlag wraps command line parse failures.
	ErrInvalidFlag = errors.New("invalid flag")
	// ErrInvalidValue reports a setting outside its allowed values.
	ErrInvalidValue = errors.New("invalid value")
)

// Config holds the full configuration for taskgraph.
type Config struct {
	// Paths
	TasksFile  string `toml:"tasks_file"`
	SchemaFile string `toml:"schema_file"` // empty uses the bundled schema

	// Change journal
	Journal    bool   `toml:"journal"`
	JournalDir string `toml:"journal_dir"`

	// Output
	Output string `toml:"output"`
	Color  string `toml:"color"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}
