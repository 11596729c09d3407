package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# taskgraph configuration file
# Values can be overridden by TASKGRAPH_* environment variables or CLI flags

# Tasks file (relative to the project root)
tasks_file = "tasks/tasks.json"

# JSON Schema used by "taskgraph validate" (empty uses the bundled schema)
schema_file = ""

# Record status changes in an append-only journal
journal = true

# Journal directory (supports ~ expansion and %VAR% on Windows)
journal_dir = "~/.taskgraph"

# Output format for list, next and show: text, json or yaml
output = "text"

# Styled output: auto, always or never
color = "auto"

# Diagnostics go to stderr
log_level = "info"       # debug, info, warn, error
log_format = "text"      # text, json, logfmt
log_timestamps = false
log_caller = false
`
}
