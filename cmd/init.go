package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nibzard/taskgraph/internal/config"
	"github.com/nibzard/taskgraph/internal/tasks"
)

// schemaFileName is written beside the tasks file by init -with-schema.
const schemaFileName = "tasks.schema.json"

// exampleTasks seeds a new project with a small dependency chain.
func exampleTasks() *tasks.File {
	return &tasks.File{
		SchemaVersion: tasks.CurrentSchemaVersion,
		Tasks: []tasks.Task{
			{
				ID:           1,
				Title:        "Set up the project",
				Description:  "Create the repository layout and tooling.",
				Status:       tasks.StatusPending,
				Dependencies: []int{},
				Priority:     tasks.PriorityHigh,
				Details:      "Initialize version control and add a README.",
				TestStrategy: "The project builds from a clean checkout.",
				Subtasks: []tasks.Subtask{
					{ID: 1, Title: "Initialize version control", Status: tasks.StatusPending, Dependencies: []int{}},
					{ID: 2, Title: "Write the README", Status: tasks.StatusPending, Dependencies: []int{1}},
				},
			},
			{
				ID:           2,
				Title:        "Implement the first feature",
				Description:  "Build the smallest useful slice.",
				Status:       tasks.StatusPending,
				Dependencies: []int{1},
				Priority:     tasks.PriorityMedium,
				Details:      "Keep the change small enough to review in one sitting.",
			},
		},
	}
}

func (a *app) initCommand(args []string) error {
	fs := a.newFlagSet("init")
	force := fs.Bool("force", false, "Overwrite existing files")
	skipConfig := fs.Bool("skip-config", false, "Skip creating taskgraph.toml")
	withSchema := fs.Bool("with-schema", false, "Also write the bundled JSON Schema next to the tasks file")
	file := a.fileFlag(fs)

	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return usageErrorf("init", "unexpected arguments: %v", fs.Args())
	}

	tasksPath := a.cfg.ResolvePath(*file)
	if err := a.initFile(tasksPath, *force, func() error {
		if err := os.MkdirAll(filepath.Dir(tasksPath), 0755); err != nil {
			return err
		}
		return exampleTasks().Save(tasksPath)
	}); err != nil {
		return err
	}

	if *withSchema {
		schemaPath := filepath.Join(filepath.Dir(tasksPath), schemaFileName)
		if err := a.initFile(schemaPath, *force, func() error {
			return os.WriteFile(schemaPath, tasks.BundledSchema(), 0644)
		}); err != nil {
			return err
		}
	}

	if *skipConfig {
		return nil
	}
	configPath := filepath.Join(a.cfg.ProjectRoot, config.ProjectConfigFile)
	return a.initFile(configPath, *force, func() error {
		return os.WriteFile(configPath, []byte(config.ExampleConfig()), 0644)
	})
}

// initFile runs write unless path exists and force is false.
func (a *app) initFile(path string, force bool, write func() error) error {
	_, err := os.Stat(path)
	switch {
	case err == nil && !force:
		fmt.Fprintf(a.stdout, "Skipped %s (exists, use -force to overwrite)\n", path)
		return nil
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("checking %s: %w", path, err)
	}
	if err := write(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(a.stdout, "Created %s\n", path)
	return nil
}
