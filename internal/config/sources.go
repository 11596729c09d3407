package config

import "strconv"

// Entry is one effective setting and where it came from.
type Entry struct {
	Key    string       `json:"key" yaml:"key"`
	Value  string       `json:"value" yaml:"value"`
	Source ConfigSource `json:"source" yaml:"source"`
}

// Entries returns every setting in a stable order, for display.
func (cws *ConfigWithSources) Entries() []Entry {
	c := cws.Config
	values := map[string]string{
		"tasks_file":     c.TasksFile,
		"schema_file":    c.SchemaFile,
		"journal":        strconv.FormatBool(c.Journal),
		"journal_dir":    c.JournalDir,
		"output":         c.Output,
		"color":          c.Color,
		"log_level":      c.LogLevel,
		"log_format":     c.LogFormat,
		"log_timestamps": strconv.FormatBool(c.LogTimestamps),
		"log_caller":     strconv.FormatBool(c.LogCaller),
	}

	entries := make([]Entry, 0, len(values))
	for _, key := range configFields() {
		source := cws.Sources[key]
		if source == "" {
			source = SourceDefault
		}
		entries = append(entries, Entry{Key: key, Value: values[key], Source: source})
	}
	return entries
}
