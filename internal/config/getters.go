package config

// ColorEnabled reports whether styled output should be used. Under "auto"
// the answer follows isTerminal.
func (c *Config) ColorEnabled(isTerminal bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return isTerminal
	}
}

// JournalEnabled reports whether status changes are recorded.
func (c *Config) JournalEnabled() bool {
	return c.Journal && c.JournalDir != ""
}
