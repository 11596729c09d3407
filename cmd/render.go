package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	json "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"gopkg.in/yaml.v3"

	"github.com/nibzard/taskgraph/internal/config"
	"github.com/nibzard/taskgraph/internal/tasks"
	"github.com/nibzard/taskgraph/internal/ui"
)

// checkOutput validates an output format given on the command line.
func checkOutput(command, format string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case config.OutputText, config.OutputJSON, config.OutputYAML:
		return format, nil
	}
	return "", fmt.Errorf("%w: %s: output %q (expected text, json or yaml)", config.ErrInvalidValue, command, format)
}

// encode writes v as indented JSON or YAML.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case config.OutputJSON:
		data, err := json.Marshal(v, jsontext.WithIndent("  "))
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		_, err = w.Write(append(data, '\n'))
		return err
	case config.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported output format %q", format)
}

// detailView is the structured form of next and show.
type detailView struct {
	Ref         string         `json:"ref" yaml:"ref"`
	Task        *tasks.Task    `json:"task" yaml:"task"`
	Subtask     *tasks.Subtask `json:"subtask,omitempty" yaml:"subtask,omitempty"`
	BlockedBy   []int          `json:"blockedBy,omitempty" yaml:"blockedBy,omitempty"`
	Suggestions []string       `json:"suggestions" yaml:"suggestions"`
}

func taskSuggestions(ref tasks.Ref, task *tasks.Task) []string {
	suggestions := []string{
		fmt.Sprintf("taskgraph set-status %s %s", ref, tasks.StatusInProgress),
		fmt.Sprintf("taskgraph set-status %s %s", ref, tasks.StatusDone),
	}
	if ref.IsSub() {
		return append(suggestions, fmt.Sprintf("taskgraph show %s", ref.ParentRef()))
	}
	if len(task.Subtasks) == 0 {
		suggestions = append(suggestions, fmt.Sprintf("expand task %d into subtasks before starting", task.ID))
	}
	return suggestions
}

// writeField writes an aligned label and value, indenting continuation
// lines of multi-line values.
func writeField(w io.Writer, label, value string) {
	const width = 15
	lines := strings.Split(strings.TrimRight(value, "\n"), "\n")
	fmt.Fprintf(w, "  %-*s%s\n", width, label+":", lines[0])
	for _, line := range lines[1:] {
		fmt.Fprintf(w, "  %-*s%s\n", width, "", line)
	}
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}

func orNone(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

func dependencyList(f *tasks.File, deps []int) string {
	if len(deps) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(deps))
	for _, dep := range deps {
		if d := f.Task(dep); d != nil {
			parts = append(parts, fmt.Sprintf("%d (%s)", dep, d.Status))
		} else {
			parts = append(parts, fmt.Sprintf("%d (missing)", dep))
		}
	}
	return strings.Join(parts, ", ")
}

func writeTaskDetail(w io.Writer, s ui.Styles, f *tasks.File, t *tasks.Task) {
	fmt.Fprintln(w, s.Render(s.Heading, fmt.Sprintf("Task %d: %s", t.ID, t.Title)))
	writeField(w, "Status", s.Status(t.Status))
	writeField(w, "Priority", s.Priority(t.Priority))
	writeField(w, "Dependencies", dependencyList(f, t.Dependencies))
	writeField(w, "Description", orNone(t.Description, "(none)"))
	writeField(w, "Details", orNone(t.Details, "(none)"))
	writeField(w, "Test strategy", orNone(t.TestStrategy, "(no test strategy provided)"))
	if len(t.Subtasks) == 0 {
		writeField(w, "Subtasks", "none")
		return
	}
	writeField(w, "Subtasks", fmt.Sprintf("%d/%d done", t.DoneSubtasks(), len(t.Subtasks)))
	for i := range t.Subtasks {
		sub := &t.Subtasks[i]
		fmt.Fprintf(w, "    %s  %s %s\n",
			s.Render(s.ID, fmt.Sprintf("%d.%d", t.ID, sub.ID)),
			s.StatusCell(sub.DisplayStatus(), 12),
			sub.Title)
	}
}

func writeSubtaskDetail(w io.Writer, s ui.Styles, parent *tasks.Task, sub *tasks.Subtask) {
	fmt.Fprintln(w, s.Render(s.Heading, fmt.Sprintf("Subtask %d.%d: %s", parent.ID, sub.ID, sub.Title)))
	writeField(w, "Parent", fmt.Sprintf("%d (%s)", parent.ID, parent.Title))
	writeField(w, "Status", s.Status(sub.DisplayStatus()))
	writeField(w, "Dependencies", orNone(joinInts(sub.Dependencies), "none"))
	writeField(w, "Description", orNone(sub.Description, "(none)"))
	writeField(w, "Details", orNone(sub.Details, "(none)"))
}

func writeSuggestions(w io.Writer, s ui.Styles, suggestions []string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, s.Render(s.Heading, "Suggested actions:"))
	for _, line := range suggestions {
		fmt.Fprintf(w, "  %s\n", line)
	}
}
