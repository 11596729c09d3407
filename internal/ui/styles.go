package ui

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/nibzard/taskgraph/internal/tasks"
)

// Styles renders task fields for terminal output. The zero value renders
// plain text.
type Styles struct {
	enabled bool

	Title     lipgloss.Style
	Heading   lipgloss.Style
	Muted     lipgloss.Style
	Selected  lipgloss.Style
	ID        lipgloss.Style
	Done      lipgloss.Style
	Progress  lipgloss.Style
	Pending   lipgloss.Style
	Other     lipgloss.Style
	High      lipgloss.Style
	Medium    lipgloss.Style
	Low       lipgloss.Style
	ErrorText lipgloss.Style
}

// NewStyles returns styles bound to w. When enabled is false every style
// renders its input unchanged. When enabled is true and w is not a
// terminal, ANSI colors are forced.
func NewStyles(w io.Writer, enabled bool) Styles {
	if !enabled {
		return Styles{}
	}
	r := lipgloss.NewRenderer(w)
	if !IsTTY(w) {
		r.SetColorProfile(termenv.ANSI256)
	}
	return Styles{
		enabled:   true,
		Title:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Heading:   r.NewStyle().Bold(true),
		Muted:     r.NewStyle().Foreground(lipgloss.Color("8")),
		Selected:  r.NewStyle().Reverse(true),
		ID:        r.NewStyle().Foreground(lipgloss.Color("14")),
		Done:      r.NewStyle().Foreground(lipgloss.Color("10")),
		Progress:  r.NewStyle().Foreground(lipgloss.Color("11")),
		Pending:   r.NewStyle().Foreground(lipgloss.Color("7")),
		Other:     r.NewStyle().Foreground(lipgloss.Color("13")),
		High:      r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		Medium:    r.NewStyle().Foreground(lipgloss.Color("11")),
		Low:       r.NewStyle().Foreground(lipgloss.Color("8")),
		ErrorText: r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// Enabled reports whether styling is applied.
func (s Styles) Enabled() bool {
	return s.enabled
}

// Render applies style when styling is enabled.
func (s Styles) Render(style lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return style.Render(text)
}

// Status renders a status tag.
func (s Styles) Status(status tasks.Status) string {
	return s.StatusCell(status, 0)
}

// StatusCell renders a status tag padded to width.
func (s Styles) StatusCell(status tasks.Status, width int) string {
	var style lipgloss.Style
	switch status {
	case tasks.StatusDone:
		style = s.Done
	case tasks.StatusInProgress:
		style = s.Progress
	case tasks.StatusPending:
		style = s.Pending
	default:
		style = s.Other
	}
	return s.Render(style, pad(string(status), width))
}

// Priority renders a priority, or "-" when absent.
func (s Styles) Priority(p tasks.Priority) string {
	return s.PriorityCell(p, 0)
}

// PriorityCell renders a priority padded to width.
func (s Styles) PriorityCell(p tasks.Priority, width int) string {
	if p == "" {
		return s.Render(s.Muted, pad("-", width))
	}
	var style lipgloss.Style
	switch p {
	case tasks.PriorityHigh:
		style = s.High
	case tasks.PriorityMedium:
		style = s.Medium
	case tasks.PriorityLow:
		style = s.Low
	default:
		style = s.Other
	}
	return s.Render(style, pad(string(p), width))
}

func pad(text string, width int) string {
	if n := width - len(text); n > 0 {
		return text + strings.Repeat(" ", n)
	}
	return text
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
