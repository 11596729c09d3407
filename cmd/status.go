package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nibzard/taskgraph/internal/config"
	"github.com/nibzard/taskgraph/internal/logging"
	"github.com/nibzard/taskgraph/internal/tasks"
)

func (a *app) setStatusCommand(args []string) error {
	fs := a.newFlagSet("set-status")
	idFlag := fs.String("id", "", "Task id(s), comma-separated (7, 7.2 or 3,7.2)")
	statusFlag := fs.String("status", "", "New status (any string, e.g. pending, in-progress, done)")
	file := a.fileFlag(fs)

	if err := parseFlags(fs, args); err != nil {
		return err
	}

	ids, status := *idFlag, *statusFlag
	remaining := fs.Args()
	if ids == "" && len(remaining) > 0 {
		ids = remaining[0]
		remaining = remaining[1:]
	}
	if status == "" && len(remaining) > 0 {
		status = remaining[0]
		remaining = remaining[1:]
	}
	if len(remaining) > 0 {
		return usageErrorf("set-status", "unexpected arguments: %v", remaining)
	}
	idList := tasks.ParseRefList(ids)
	if len(idList) == 0 {
		return usageErrorf("set-status", "missing task id (use -id or a positional id)")
	}
	if strings.TrimSpace(status) == "" {
		return usageErrorf("set-status", "missing status (use -status or a positional status)")
	}

	path := a.cfg.ResolvePath(*file)
	result, err := tasks.ApplyStatus(path, idList, tasks.Status(status))
	if err != nil {
		var we *tasks.WriteError
		if errors.As(err, &we) && result != nil {
			a.reportFailures(result)
		}
		return err
	}
	if err := result.Err(); err != nil {
		return err
	}

	a.reportFailures(result)
	s := a.styles()
	for _, c := range result.Changes {
		if !c.Applied() {
			continue
		}
		kind := "Task"
		if c.Ref.IsSub() {
			kind = "Subtask"
		}
		fmt.Fprintf(a.stdout, "%s %s: %s -> %s\n", kind, s.Render(s.ID, c.Ref.String()),
			s.Status(fromStatus(c)), s.Status(c.To))
		if c.Cascaded > 0 {
			fmt.Fprintf(a.stdout, "  %d subtask(s) also marked %s\n", c.Cascaded, tasks.StatusDone)
		}
	}
	fmt.Fprintf(a.stdout, "Updated %d of %d id(s) in %s\n", result.Applied(), len(result.Changes), path)
	a.logger.Debug("saved tasks", "path", path, "applied", result.Applied())

	a.recordChanges(path, result)
	return nil
}

// reportFailures prints every identifier that could not be updated.
func (a *app) reportFailures(result *tasks.StatusResult) {
	for _, c := range result.Failures() {
		a.logger.Warn("status not changed", "id", c.Input, "err", c.Err)
		fmt.Fprintf(a.stderr, "Error: %v\n", c.Err)
	}
}

// fromStatus is the previous status as shown to users. Subtasks without a
// stored status read as pending.
func fromStatus(c tasks.StatusChange) tasks.Status {
	if c.From == "" && c.Ref.IsSub() {
		return tasks.StatusPending
	}
	return c.From
}

// recordChanges appends applied changes to the journal. Failures are
// logged and never fail the command.
func (a *app) recordChanges(path string, result *tasks.StatusResult) {
	if !a.cfg.JournalEnabled() {
		return
	}
	j, err := logging.NewJournal(a.cfg.JournalDir, a.cfg.ProjectRoot)
	if err != nil {
		a.logger.Warn("journal unavailable", "err", err)
		return
	}
	entries := make([]logging.Entry, 0, len(result.Changes))
	for _, c := range result.Changes {
		if !c.Applied() {
			continue
		}
		entries = append(entries, logging.Entry{
			File:     path,
			Ref:      c.Ref.String(),
			From:     string(fromStatus(c)),
			To:       string(c.To),
			Cascaded: c.Cascaded,
		})
	}
	if err := j.Append(entries...); err != nil {
		a.logger.Warn("failed to record status change", "journal", j.Path, "err", err)
		return
	}
	a.logger.Debug("recorded status changes", "journal", j.Path, "entries", len(entries))
}

// historyView is the structured form of history.
type historyView struct {
	Journal string          `json:"journal" yaml:"journal"`
	Entries []logging.Entry `json:"entries" yaml:"entries"`
}

func (a *app) historyCommand(args []string) error {
	fs := a.newFlagSet("history")
	n := fs.Int("n", 20, "Number of entries to show (0 = all)")
	output := a.outputFlag(fs)

	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return usageErrorf("history", "unexpected arguments: %v", fs.Args())
	}
	format, err := checkOutput("history", *output)
	if err != nil {
		return err
	}
	if a.cfg.JournalDir == "" {
		return fmt.Errorf("journal dir is not configured")
	}

	j, err := logging.NewJournal(a.cfg.JournalDir, a.cfg.ProjectRoot)
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	entries, err := j.Recent(*n)
	if err != nil {
		return fmt.Errorf("reading journal: %w", err)
	}

	if format != config.OutputText {
		if entries == nil {
			entries = []logging.Entry{}
		}
		return encode(a.stdout, format, historyView{Journal: j.Path, Entries: entries})
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.stdout, "No status changes recorded.")
		return nil
	}
	s := a.styles()
	for _, e := range entries {
		line := fmt.Sprintf("%s  %-7s %s -> %s",
			e.Time.Local().Format("2006-01-02 15:04:05"),
			e.Ref,
			s.Status(tasks.Status(e.From)),
			s.Status(tasks.Status(e.To)))
		if e.Cascaded > 0 {
			line += fmt.Sprintf(" (+%d subtasks)", e.Cascaded)
		}
		fmt.Fprintln(a.stdout, line+s.Render(s.Muted, "  "+e.File))
	}
	return nil
}
