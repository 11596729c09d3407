package tasks

import "sort"

// DependenciesSatisfied reports whether every dependency of t names an
// existing task whose status is done. A task with no dependencies is
// always satisfied.
func (f *File) DependenciesSatisfied(t *Task) bool {
	for _, depID := range t.Dependencies {
		dep := f.Task(depID)
		if dep == nil || dep.Status != StatusDone {
			return false
		}
	}
	return true
}

// Eligible reports whether t can be started now: it is pending and its
// dependencies are satisfied.
func (f *File) Eligible(t *Task) bool {
	return t.Status == StatusPending && f.DependenciesSatisfied(t)
}

// EligibleTasks returns every eligible top-level task in selection order.
// Subtasks are never candidates.
func (f *File) EligibleTasks() []*Task {
	var eligible []*Task
	for i := range f.Tasks {
		if f.Eligible(&f.Tasks[i]) {
			eligible = append(eligible, &f.Tasks[i])
		}
	}
	sortForSelection(eligible)
	return eligible
}

// NextEligible selects the next task to work on using a deterministic order:
// 1. Priority rank (high, medium, low, then anything else)
// 2. Fewer dependencies
// 3. Lower id
// Returns nil if no task is eligible.
func (f *File) NextEligible() *Task {
	eligible := f.EligibleTasks()
	if len(eligible) == 0 {
		return nil
	}
	return eligible[0]
}

// BlockedBy returns the dependency ids of t that are not yet satisfied,
// including ids that do not resolve to any task.
func (f *File) BlockedBy(t *Task) []int {
	var blocked []int
	for _, depID := range t.Dependencies {
		dep := f.Task(depID)
		if dep == nil || dep.Status != StatusDone {
			blocked = append(blocked, depID)
		}
	}
	return blocked
}

func sortForSelection(tasks []*Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		ri, rj := tasks[i].Priority.Rank(), tasks[j].Priority.Rank()
		if ri != rj {
			return ri < rj
		}
		di, dj := len(tasks[i].Dependencies), len(tasks[j].Dependencies)
		if di != dj {
			return di < dj
		}
		return tasks[i].ID < tasks[j].ID
	})
}
