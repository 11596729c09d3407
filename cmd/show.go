package cmd

import (
	"fmt"

	"github.com/nibzard/taskgraph/internal/config"
	"github.com/nibzard/taskgraph/internal/tasks"
)

func (a *app) nextCommand(args []string) error {
	fs := a.newFlagSet("next")
	all := fs.Bool("all", false, "List every eligible task in selection order")
	file := a.fileFlag(fs)
	output := a.outputFlag(fs)

	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return usageErrorf("next", "unexpected arguments: %v", fs.Args())
	}
	format, err := checkOutput("next", *output)
	if err != nil {
		return err
	}

	f, err := a.loadTasks(a.cfg.ResolvePath(*file))
	if err != nil {
		return err
	}

	if *all {
		return a.writeEligible(format, f)
	}

	next := f.NextEligible()
	if next == nil {
		a.logger.Debug("no eligible task")
		if format != config.OutputText {
			return encode(a.stdout, format, detailView{Suggestions: []string{}})
		}
		fmt.Fprintln(a.stdout, "No eligible tasks found.")
		return nil
	}
	a.logger.Debug("selected next task", "id", next.ID, "priority", next.Priority, "dependencies", len(next.Dependencies))

	ref := tasks.Top(next.ID)
	view := detailView{Ref: ref.String(), Task: next, Suggestions: taskSuggestions(ref, next)}
	if format != config.OutputText {
		return encode(a.stdout, format, view)
	}

	s := a.styles()
	fmt.Fprintln(a.stdout, s.Render(s.Title, "Next task"))
	fmt.Fprintln(a.stdout)
	writeTaskDetail(a.stdout, s, f, next)
	writeSuggestions(a.stdout, s, view.Suggestions)
	return nil
}

// writeEligible prints the eligible queue, first pick on top.
func (a *app) writeEligible(format string, f *tasks.File) error {
	eligible := f.EligibleTasks()
	a.logger.Debug("eligible tasks", "count", len(eligible))
	if format != config.OutputText {
		queue := make([]tasks.Task, 0, len(eligible))
		for _, t := range eligible {
			queue = append(queue, *t)
		}
		return encode(a.stdout, format, listView{Tasks: queue, Count: len(queue)})
	}
	if len(eligible) == 0 {
		fmt.Fprintln(a.stdout, "No eligible tasks found.")
		return nil
	}
	s := a.styles()
	for i, t := range eligible {
		fmt.Fprintf(a.stdout, "%2d. %s %s %s\n", i+1,
			s.Render(s.ID, fmt.Sprintf("%-5d", t.ID)),
			s.PriorityCell(t.Priority, 8),
			t.Title)
	}
	return nil
}

func (a *app) showCommand(args []string) error {
	fs := a.newFlagSet("show")
	id := fs.String("id", "", "Task id (7) or subtask id (7.2)")
	file := a.fileFlag(fs)
	output := a.outputFlag(fs)

	if err := parseFlags(fs, args); err != nil {
		return err
	}
	remaining := fs.Args()
	if *id == "" && len(remaining) > 0 {
		*id = remaining[0]
		remaining = remaining[1:]
	}
	if len(remaining) > 0 {
		return usageErrorf("show", "unexpected arguments: %v", remaining)
	}
	if *id == "" {
		return usageErrorf("show", "missing task id (use -id or a positional id)")
	}
	format, err := checkOutput("show", *output)
	if err != nil {
		return err
	}

	f, err := a.loadTasks(a.cfg.ResolvePath(*file))
	if err != nil {
		return err
	}

	ref, task, sub, err := f.Lookup(*id)
	if err != nil {
		return err
	}

	view := detailView{Ref: ref.String(), Task: task, Subtask: sub, Suggestions: taskSuggestions(ref, task)}
	if sub == nil {
		view.BlockedBy = f.BlockedBy(task)
	}
	if format != config.OutputText {
		return encode(a.stdout, format, view)
	}

	s := a.styles()
	if sub != nil {
		writeSubtaskDetail(a.stdout, s, task, sub)
	} else {
		writeTaskDetail(a.stdout, s, f, task)
	}
	writeSuggestions(a.stdout, s, view.Suggestions)
	return nil
}
