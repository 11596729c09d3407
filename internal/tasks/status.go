package tasks

import (
	"errors"
	"fmt"
)

// StatusChange records the outcome of one identifier in a status update.
type StatusChange struct {
	Input    string // identifier as given
	Ref      Ref
	From     Status
	To       Status
	Cascaded int   // subtasks forced to done, top-level refs only
	Err      error // nil when the change was applied
}

// Applied reports whether the change took effect.
func (c StatusChange) Applied() bool {
	return c.Err == nil
}

// StatusResult collects per-identifier outcomes of a status update.
type StatusResult struct {
	Status  Status
	Changes []StatusChange
}

// Applied returns how many identifiers were updated.
func (r *StatusResult) Applied() int {
	n := 0
	for _, c := range r.Changes {
		if c.Applied() {
			n++
		}
	}
	return n
}

// Failures returns the changes that could not be applied.
func (r *StatusResult) Failures() []StatusChange {
	var failed []StatusChange
	for _, c := range r.Changes {
		if !c.Applied() {
			failed = append(failed, c)
		}
	}
	return failed
}

// Err returns nil if at least one change applied, otherwise the joined
// per-identifier errors.
func (r *StatusResult) Err() error {
	if r.Applied() > 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Changes))
	for _, c := range r.Changes {
		errs = append(errs, c.Err)
	}
	if len(errs) == 0 {
		return errors.New("no task ids given")
	}
	return errors.Join(errs...)
}

// SetStatus applies status to every identifier in ids. Each identifier is
// resolved independently; a failure is recorded and the rest still run.
// Setting a top-level task to done also sets all of its subtasks to done.
// Setting a subtask never touches its parent.
func (f *File) SetStatus(ids []string, status Status) *StatusResult {
	result := &StatusResult{Status: status}
	for _, id := range ids {
		result.Changes = append(result.Changes, f.setOne(id, status))
	}
	return result
}

func (f *File) setOne(id string, status Status) StatusChange {
	change := StatusChange{Input: id, To: status}

	ref, task, sub, err := f.Lookup(id)
	change.Ref = ref
	if err != nil {
		change.Err = err
		return change
	}

	if sub != nil {
		change.From = sub.Status
		sub.Status = status
		return change
	}

	change.From = task.Status
	task.Status = status
	if status == StatusDone {
		for i := range task.Subtasks {
			task.Subtasks[i].Status = StatusDone
		}
		change.Cascaded = len(task.Subtasks)
	}
	return change
}

// WriteError reports that status changes were applied in memory but the
// task file could not be written back.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *WriteError) Unwrap() error {
	return e.Err
}

// ApplyStatus loads the file at path, applies status to ids and writes the
// file back once if at least one identifier was updated. Lookup failures
// are reported in the result; a failed write is returned as *WriteError.
func ApplyStatus(path string, ids []string, status Status) (*StatusResult, error) {
	f, err := Load(path)
	if err != nil {
		return nil, err
	}

	result := f.SetStatus(ids, status)
	if result.Applied() == 0 {
		return result, nil
	}
	if err := f.Save(path); err != nil {
		return result, &WriteError{Path: path, Err: err}
	}
	return result, nil
}
