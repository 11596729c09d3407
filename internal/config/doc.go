// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.taskgraph/taskgraph.toml or OS-specific config directory)
// 3. Project config file (taskgraph.toml or .taskgraph.toml in the working directory)
// 4. Environment variables (TASKGRAPH_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.taskgraph/taskgraph.toml (preferred)
// - Windows: %APPDATA%\taskgraph\taskgraph.toml
// - macOS: ~/Library/Application Support/taskgraph/taskgraph.toml
// - Linux/BSD: $XDG_CONFIG_HOME/taskgraph/taskgraph.toml or ~/.config/taskgraph/taskgraph.toml
//
// Project-level config locations (overrides user config):
// - ./taskgraph.toml (preferred)
// - ./.taskgraph.toml
package config
