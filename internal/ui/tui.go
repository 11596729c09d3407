// Package ui provides terminal styling and the interactive task browser.
package ui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/taskgraph/internal/tasks"
)

// DefaultRefreshInterval is how often the browser reloads the task file.
const DefaultRefreshInterval = 2 * time.Second

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

type tuiConfig struct {
	refresh time.Duration
	styles  Styles
}

// WithRefreshInterval sets how often the task file is reloaded.
// A non-positive interval disables periodic reloads.
func WithRefreshInterval(d time.Duration) TUIOption {
	return func(c *tuiConfig) {
		c.refresh = d
	}
}

// WithStyles sets the styles used to render the browser.
func WithStyles(s Styles) TUIOption {
	return func(c *tuiConfig) {
		c.styles = s
	}
}

// RunTUI starts a read-only browser over the task file at path.
func RunTUI(ctx context.Context, path string, opts ...TUIOption) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	model := newTUIModel(path, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type tuiModel struct {
	path         string
	styles       Styles
	tickInterval time.Duration

	file    *tasks.File
	loadErr error

	filter   tasks.Status
	cursor   int
	detail   bool
	showHelp bool
}

type tickMsg time.Time

func newTUIModel(path string, opts ...TUIOption) *tuiModel {
	c := &tuiConfig{refresh: DefaultRefreshInterval}
	for _, opt := range opts {
		opt(c)
	}
	return &tuiModel{
		path:         path,
		styles:       c.styles,
		tickInterval: c.refresh,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	m.refresh()
	if m.tickInterval <= 0 {
		return nil
	}
	return tickCmd(m.tickInterval)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "f5":
			m.refresh()
		case "h", "?":
			m.showHelp = !m.showHelp
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.visible())-1 {
				m.cursor++
			}
		case "enter":
			if len(m.visible()) > 0 {
				m.detail = !m.detail
			}
		case "esc":
			m.detail = false
			m.showHelp = false
		case "1":
			m.setFilter(tasks.StatusPending)
		case "2":
			m.setFilter(tasks.StatusInProgress)
		case "3":
			m.setFilter(tasks.StatusDone)
		case "0":
			m.setFilter("")
		}
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	}
	return m, nil
}

func (m *tuiModel) View() string {
	var b strings.Builder
	m.writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		m.writeFooter(&b)
		return b.String()
	}
	if m.loadErr != nil {
		b.WriteString(m.styles.Render(m.styles.ErrorText, "Error loading tasks file:") + "\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		m.writeFooter(&b)
		return b.String()
	}
	if m.file == nil {
		b.WriteString("Loading...\n\n")
		m.writeFooter(&b)
		return b.String()
	}

	m.writeOverview(&b)
	if m.filter != "" {
		fmt.Fprintf(&b, "Filter: %s (0 to clear)\n\n", m.filter)
	}
	visible := m.visible()
	if m.detail && len(visible) > 0 {
		m.writeDetail(&b, &visible[m.cursor])
	} else {
		m.writeList(&b, visible)
	}
	m.writeFooter(&b)
	return b.String()
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *tuiModel) refresh() {
	file, err := tasks.Load(m.path)
	if err != nil {
		m.loadErr = err
		m.file = nil
		return
	}
	m.loadErr = nil
	m.file = file
	m.clampCursor()
}

func (m *tuiModel) visible() []tasks.Task {
	if m.file == nil {
		return nil
	}
	return m.file.Filter(m.filter)
}

func (m *tuiModel) setFilter(status tasks.Status) {
	m.filter = status
	m.cursor = 0
	m.detail = false
}

func (m *tuiModel) clampCursor() {
	n := len(m.visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if n == 0 {
		m.detail = false
	}
}

func (m *tuiModel) writeTitle(b *strings.Builder) {
	title := "taskgraph"
	b.WriteString(m.styles.Render(m.styles.Title, title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func (m *tuiModel) writeOverview(b *strings.Builder) {
	stats := m.file.Stats()
	fmt.Fprintf(b, "Pending: %d  In progress: %d  Done: %d  Total: %d (%.0f%% done)\n",
		stats.ByStatus[tasks.StatusPending],
		stats.ByStatus[tasks.StatusInProgress],
		stats.ByStatus[tasks.StatusDone],
		stats.Total,
		stats.PercentDone,
	)
	if next := m.file.NextEligible(); next != nil {
		fmt.Fprintf(b, "Next: %s %s\n\n", m.styles.Render(m.styles.ID, fmt.Sprintf("#%d", next.ID)), next.Title)
	} else {
		b.WriteString("Next: none eligible\n\n")
	}
}

func (m *tuiModel) writeList(b *strings.Builder, visible []tasks.Task) {
	if len(visible) == 0 {
		b.WriteString("  No tasks.\n\n")
		return
	}
	for i := range visible {
		t := &visible[i]
		line := fmt.Sprintf("%4d  %-12s %-7s %s", t.ID, t.Status, priorityLabel(t.Priority), t.Title)
		if len(t.Subtasks) > 0 {
			line += fmt.Sprintf(" [%d/%d]", t.DoneSubtasks(), len(t.Subtasks))
		}
		if i == m.cursor {
			b.WriteString(m.styles.Render(m.styles.Selected, "> "+line) + "\n")
			continue
		}
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("\n")
}

func (m *tuiModel) writeDetail(b *strings.Builder, t *tasks.Task) {
	b.WriteString(m.styles.Render(m.styles.Heading, fmt.Sprintf("Task %d: %s", t.ID, t.Title)) + "\n\n")
	fmt.Fprintf(b, "  Status:       %s\n", m.styles.Status(t.Status))
	fmt.Fprintf(b, "  Priority:     %s\n", m.styles.Priority(t.Priority))
	fmt.Fprintf(b, "  Dependencies: %s\n", m.dependencyLine(t))
	if t.Description != "" {
		fmt.Fprintf(b, "  Description:  %s\n", t.Description)
	}
	if t.Details != "" {
		fmt.Fprintf(b, "  Details:      %s\n", truncate(t.Details, 200))
	}
	if t.TestStrategy != "" {
		fmt.Fprintf(b, "  Test:         %s\n", truncate(t.TestStrategy, 200))
	}
	b.WriteString("\n")
	if len(t.Subtasks) == 0 {
		b.WriteString("  No subtasks.\n\n")
		return
	}
	b.WriteString("  Subtasks\n")
	for i := range t.Subtasks {
		sub := &t.Subtasks[i]
		fmt.Fprintf(b, "    %d.%d  %-12s %s\n", t.ID, sub.ID, sub.DisplayStatus(), sub.Title)
	}
	b.WriteString("\n")
}

func (m *tuiModel) dependencyLine(t *tasks.Task) string {
	if len(t.Dependencies) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(t.Dependencies))
	for _, dep := range t.Dependencies {
		if d := m.file.Task(dep); d != nil {
			parts = append(parts, fmt.Sprintf("%d (%s)", dep, d.Status))
		} else {
			parts = append(parts, fmt.Sprintf("%d (missing)", dep))
		}
	}
	return strings.Join(parts, ", ")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  j, down      Move down\n")
	b.WriteString("  k, up        Move up\n")
	b.WriteString("  enter        Toggle task details\n")
	b.WriteString("  esc          Back to list\n")
	b.WriteString("  r, F5        Reload tasks file\n")
	b.WriteString("  h, ?         Toggle this help screen\n")
	b.WriteString("  1            Filter by pending\n")
	b.WriteString("  2            Filter by in-progress\n")
	b.WriteString("  3            Filter by done\n")
	b.WriteString("  0            Clear filter\n\n")
}

func (m *tuiModel) writeFooter(b *strings.Builder) {
	footer := "Press h for help | q to quit"
	if m.tickInterval > 0 {
		footer += fmt.Sprintf(" | Refreshing every %s", m.tickInterval)
	}
	b.WriteString(m.styles.Render(m.styles.Muted, footer) + "\n")
}

func priorityLabel(p tasks.Priority) string {
	if p == "" {
		return "-"
	}
	return string(p)
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
