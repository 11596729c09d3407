package cmd

import (
	"fmt"

	"github.com/nibzard/taskgraph/internal/tasks"
)

func (a *app) validateCommand(args []string) error {
	fs := a.newFlagSet("validate")
	file := a.fileFlag(fs)
	schema := fs.String("schema", a.cfg.SchemaFile, "JSON Schema file (empty uses the bundled schema)")
	skipSchema := fs.Bool("skip-schema", false, "Only run structural and dependency graph checks")

	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return usageErrorf("validate", "unexpected arguments: %v", fs.Args())
	}

	path := a.cfg.ResolvePath(*file)
	f, err := a.loadTasks(path)
	if err != nil {
		return err
	}

	result := f.Validate(tasks.ValidationOptions{
		SchemaPath: a.cfg.ResolvePath(*schema),
		SkipSchema: *skipSchema,
	})
	a.logger.Debug("validated tasks", "path", path, "schema", result.UsedSchema,
		"errors", len(result.Errors), "warnings", len(result.Warnings))

	s := a.styles()
	w := a.stdout
	fmt.Fprintf(w, "Tasks file: %s\n", path)
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "  %s %s\n", s.Render(s.Medium, "warning:"), warning)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(w, "  %s %v\n", s.Render(s.ErrorText, "error:"), e)
	}
	if !result.Valid {
		return fmt.Errorf("validation failed: %d error(s)", len(result.Errors))
	}
	stats := f.Stats()
	fmt.Fprintf(w, "%s (%d tasks, %d subtasks, %d warning(s))\n",
		s.Render(s.Done, "Valid"), stats.Total, stats.Subtasks, len(result.Warnings))
	return nil
}
