package tasks

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Lookup failures. Use errors.Is to test for them.
var (
	ErrInvalidRef      = errors.New("invalid task id")
	ErrTaskNotFound    = errors.New("task not found")
	ErrNoSubtasks      = errors.New("task has no subtasks")
	ErrSubtaskNotFound = errors.New("subtask not found")
)

// Ref identifies either a top-level task ("7") or a subtask ("7.2").
type Ref struct {
	Parent int
	Sub    int // zero for a top-level ref
}

// Top returns a ref to a top-level task.
func Top(id int) Ref {
	return Ref{Parent: id}
}

// Sub returns a ref to subtask sub of task parent.
func Sub(parent, sub int) Ref {
	return Ref{Parent: parent, Sub: sub}
}

// IsSub reports whether r names a subtask.
func (r Ref) IsSub() bool {
	return r.Sub != 0
}

// ParentRef returns the top-level ref of r.
func (r Ref) ParentRef() Ref {
	return Top(r.Parent)
}

// String returns the bare or dotted form of r.
func (r Ref) String() string {
	if r.IsSub() {
		return fmt.Sprintf("%d.%d", r.Parent, r.Sub)
	}
	return strconv.Itoa(r.Parent)
}

// ParseRef parses a bare ("7") or dotted ("7.2") identifier. The input is
// split on the first dot and both parts must be positive integers.
func ParseRef(s string) (Ref, error) {
	s = strings.TrimSpace(s)
	left, right, dotted := strings.Cut(s, ".")

	parent, err := parsePositive(left)
	if err != nil {
		return Ref{}, &LookupError{Input: s, Err: ErrInvalidRef}
	}
	if !dotted {
		return Top(parent), nil
	}
	sub, err := parsePositive(right)
	if err != nil {
		return Ref{}, &LookupError{Input: s, Err: ErrInvalidRef}
	}
	return Sub(parent, sub), nil
}

// ParseRefList splits a comma-separated list of identifiers. Empty entries
// are skipped; entries are not parsed, so each can fail independently.
func ParseRefList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parsePositive(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("id must be positive, got %d", n)
	}
	return n, nil
}

// LookupError reports why an identifier could not be resolved.
type LookupError struct {
	Input string // identifier as given
	Ref   Ref
	Err   error // one of the Err* lookup sentinels
}

func (e *LookupError) Error() string {
	switch {
	case errors.Is(e.Err, ErrTaskNotFound):
		return fmt.Sprintf("Task %d not found", e.Ref.Parent)
	case errors.Is(e.Err, ErrNoSubtasks):
		return fmt.Sprintf("Task %d has no subtasks", e.Ref.Parent)
	case errors.Is(e.Err, ErrSubtaskNotFound):
		return fmt.Sprintf("Subtask %s not found", e.Ref)
	default:
		return fmt.Sprintf("%s: %q", e.Err, e.Input)
	}
}

// Unwrap returns the underlying sentinel.
func (e *LookupError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a task, subtask or no-subtasks failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTaskNotFound) ||
		errors.Is(err, ErrNoSubtasks) ||
		errors.Is(err, ErrSubtaskNotFound)
}

// Resolve finds the task named by ref and, for dotted refs, its subtask.
// The returned pointers alias the file's storage.
func (f *File) Resolve(ref Ref) (*Task, *Subtask, error) {
	task := f.Task(ref.Parent)
	if task == nil {
		return nil, nil, &LookupError{Input: ref.String(), Ref: ref, Err: ErrTaskNotFound}
	}
	if !ref.IsSub() {
		return task, nil, nil
	}
	if len(task.Subtasks) == 0 {
		return task, nil, &LookupError{Input: ref.String(), Ref: ref, Err: ErrNoSubtasks}
	}
	sub := task.Subtask(ref.Sub)
	if sub == nil {
		return task, nil, &LookupError{Input: ref.String(), Ref: ref, Err: ErrSubtaskNotFound}
	}
	return task, sub, nil
}

// Lookup parses id and resolves it.
func (f *File) Lookup(id string) (Ref, *Task, *Subtask, error) {
	ref, err := ParseRef(id)
	if err != nil {
		return Ref{}, nil, nil, err
	}
	task, sub, err := f.Resolve(ref)
	return ref, task, sub, err
}
