package tasks

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	json "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// CurrentSchemaVersion is written by new task files.
const CurrentSchemaVersion = 1

// Status represents a task status. Any string is accepted.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Priority represents a task priority. Unrecognized values rank lowest.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank returns the scheduling rank of the priority; lower ranks run first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Known reports whether p is one of high, medium or low.
func (p Priority) Known() bool {
	return p.Rank() < 3
}

// Subtask is a unit of work scoped to one parent task.
type Subtask struct {
	ID           int    `json:"id" yaml:"id"`
	Title        string `json:"title" yaml:"title"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
	Status       Status `json:"status,omitempty" yaml:"status,omitempty"`
	Dependencies []int  `json:"dependencies,omitzero" yaml:"dependencies,omitempty"`
	Details      string `json:"details,omitempty" yaml:"details,omitempty"`

	Unknown jsontext.Value `json:",unknown" yaml:"-"`
}

// DisplayStatus returns the subtask status, or "pending" when none is stored.
func (s *Subtask) DisplayStatus() Status {
	if s.Status == "" {
		return StatusPending
	}
	return s.Status
}

// Task is a top-level unit of work.
type Task struct {
	ID           int       `json:"id" yaml:"id"`
	Title        string    `json:"title" yaml:"title"`
	Description  string    `json:"description" yaml:"description"`
	Status       Status    `json:"status" yaml:"status"`
	Dependencies []int     `json:"dependencies" yaml:"dependencies"`
	Priority     Priority  `json:"priority,omitempty" yaml:"priority,omitempty"`
	Details      string    `json:"details" yaml:"details"`
	TestStrategy string    `json:"testStrategy,omitempty" yaml:"testStrategy,omitempty"`
	Subtasks     []Subtask `json:"subtasks,omitzero" yaml:"subtasks,omitempty"`

	Unknown jsontext.Value `json:",unknown" yaml:"-"`
}

// Subtask returns the subtask with the given id, or nil if not found.
func (t *Task) Subtask(id int) *Subtask {
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == id {
			return &t.Subtasks[i]
		}
	}
	return nil
}

// DoneSubtasks returns how many subtasks are done.
func (t *Task) DoneSubtasks() int {
	n := 0
	for i := range t.Subtasks {
		if t.Subtasks[i].Status == StatusDone {
			n++
		}
	}
	return n
}

// File represents the task file structure.
type File struct {
	SchemaVersion int    `json:"schemaVersion,omitzero" yaml:"schemaVersion,omitempty"`
	Tasks         []Task `json:"tasks" yaml:"tasks"`

	Unknown jsontext.Value `json:",unknown" yaml:"-"`

	// raw holds the document as last read or written. Marshal uses it to
	// keep member order and untouched values.
	raw []byte
}

// Load reads and parses a task file from path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tasks file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a task file. The document must be an object with a
// "tasks" array.
func Parse(data []byte) (*File, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse tasks file: %w", err)
	}
	if f.Tasks == nil {
		return nil, fmt.Errorf("parse tasks file: missing \"tasks\" array")
	}
	f.raw = bytes.Clone(data)
	return &f, nil
}

// Marshal encodes the file. A file that was parsed from a document keeps
// that document's member order, indentation and untouched values, so only
// modified fields differ. Other files use 2-space indentation and a trailing
// newline.
func (f *File) Marshal() ([]byte, error) {
	if f.raw == nil {
		data, err := json.Marshal(f, jsontext.WithIndent("  "))
		if err != nil {
			return nil, fmt.Errorf("marshal tasks file: %w", err)
		}
		return append(data, '\n'), nil
	}

	cur, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("marshal tasks file: %w", err)
	}
	if sameJSON(f.raw, cur) {
		return bytes.Clone(f.raw), nil
	}
	merged, err := mergeLayout(f.raw, cur)
	if err != nil {
		return nil, fmt.Errorf("marshal tasks file: %w", err)
	}
	if sameJSON(merged, f.raw) {
		return bytes.Clone(f.raw), nil
	}
	data, err := formatLike(merged, f.raw)
	if err != nil {
		return nil, fmt.Errorf("marshal tasks file: %w", err)
	}
	return data, nil
}

// Save writes the file to path, replacing any previous content in one step.
func (f *File) Save(path string) error {
	data, err := f.Marshal()
	if err != nil {
		return err
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("write tasks file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write tasks file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write tasks file: %w", err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("write tasks file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("write tasks file: %w", err)
	}
	f.raw = data
	return nil
}

// Task returns the top-level task with the given id, or nil if not found.
func (f *File) Task(id int) *Task {
	for i := range f.Tasks {
		if f.Tasks[i].ID == id {
			return &f.Tasks[i]
		}
	}
	return nil
}

// Filter returns tasks whose status equals status, in stored order.
// An empty status returns every task.
func (f *File) Filter(status Status) []Task {
	if status == "" {
		out := make([]Task, len(f.Tasks))
		copy(out, f.Tasks)
		return out
	}
	var out []Task
	for _, t := range f.Tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// Stats summarizes a task file.
type Stats struct {
	Total        int
	ByStatus     map[Status]int
	Subtasks     int
	SubtasksDone int
	PercentDone  float64
}

// Stats counts tasks per status and subtask completion.
func (f *File) Stats() Stats {
	s := Stats{
		Total:    len(f.Tasks),
		ByStatus: make(map[Status]int),
	}
	for i := range f.Tasks {
		t := &f.Tasks[i]
		s.ByStatus[t.Status]++
		s.Subtasks += len(t.Subtasks)
		s.SubtasksDone += t.DoneSubtasks()
	}
	if s.Total > 0 {
		s.PercentDone = float64(s.ByStatus[StatusDone]) * 100 / float64(s.Total)
	}
	return s
}
