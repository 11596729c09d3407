package cmd

import (
	"fmt"

	"github.com/nibzard/taskgraph/internal/config"
	"github.com/nibzard/taskgraph/internal/tasks"
)

// listView is the structured form of list.
type listView struct {
	File  string       `json:"file,omitempty" yaml:"file,omitempty"`
	Tasks []tasks.Task `json:"tasks" yaml:"tasks"`
	Count int          `json:"count" yaml:"count"`
}

func (a *app) listCommand(args []string) error {
	fs := a.newFlagSet("list")
	statusFilter := fs.String("status", "", "Only list tasks with this exact status")
	withSubtasks := fs.Bool("with-subtasks", false, "Show subtasks beneath their parent")
	file := a.fileFlag(fs)
	output := a.outputFlag(fs)

	if err := parseFlags(fs, args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) >= 1 && *statusFilter == "" {
		*statusFilter = remaining[0]
		remaining = remaining[1:]
	}
	if len(remaining) > 0 {
		return usageErrorf("list", "unexpected arguments: %v", remaining)
	}
	format, err := checkOutput("list", *output)
	if err != nil {
		return err
	}

	path := a.cfg.ResolvePath(*file)
	f, err := a.loadTasks(path)
	if err != nil {
		return err
	}

	matched := f.Filter(tasks.Status(*statusFilter))
	a.logger.Debug("listed tasks", "filter", *statusFilter, "matched", len(matched))

	if format != config.OutputText {
		if !*withSubtasks {
			for i := range matched {
				matched[i].Subtasks = nil
			}
		}
		if matched == nil {
			matched = []tasks.Task{}
		}
		return encode(a.stdout, format, listView{File: path, Tasks: matched, Count: len(matched)})
	}

	s := a.styles()
	w := a.stdout
	if len(matched) == 0 {
		if *statusFilter != "" {
			fmt.Fprintf(w, "No tasks with status %q.\n", *statusFilter)
		} else {
			fmt.Fprintln(w, "No tasks found.")
		}
	} else {
		fmt.Fprintln(w, s.Render(s.Heading, fmt.Sprintf("%-7s %-12s %-8s %s", "ID", "STATUS", "PRIORITY", "TITLE")))
	}
	for i := range matched {
		t := &matched[i]
		title := t.Title
		if len(t.Dependencies) > 0 {
			title += s.Render(s.Muted, fmt.Sprintf("  (deps: %s)", joinInts(t.Dependencies)))
		}
		fmt.Fprintf(w, "%s %s %s %s\n",
			s.Render(s.ID, fmt.Sprintf("%-7d", t.ID)),
			s.StatusCell(t.Status, 12),
			s.PriorityCell(t.Priority, 8),
			title)
		if !*withSubtasks {
			continue
		}
		for j := range t.Subtasks {
			sub := &t.Subtasks[j]
			fmt.Fprintf(w, "  %s %s %s\n",
				s.Render(s.ID, fmt.Sprintf("%-5s", fmt.Sprintf("%d.%d", t.ID, sub.ID))),
				s.StatusCell(sub.DisplayStatus(), 12),
				sub.Title)
		}
	}
	fmt.Fprintf(w, "%d task(s)\n", len(matched))
	return nil
}

// loadTasks loads the tasks file, logging at debug level.
func (a *app) loadTasks(path string) (*tasks.File, error) {
	f, err := tasks.Load(path)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("loaded tasks", "path", path, "tasks", len(f.Tasks))
	return f, nil
}
