// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/go-json-experiment/json"
	"gopkg.in/yaml.v3"

	"github.com/nibzard/taskgraph/internal/config"
	"github.com/nibzard/taskgraph/internal/logging"
	"github.com/nibzard/taskgraph/internal/tasks"
)

const fixtureTasks = `{
  "tasks": [
    {
      "id": 1,
      "title": "Set up repo",
      "description": "Create the layout",
      "status": "done",
      "dependencies": [],
      "priority": "high",
      "details": "git init"
    },
    {
      "id": 2,
      "title": "Write parser",
      "description": "Parse input",
      "status": "pending",
      "dependencies": [1],
      "priority": "high",
      "details": "Use a hand-written lexer",
      "testStrategy": "Table tests",
      "subtasks": [
        {"id": 1, "title": "Lexer", "status": "done", "dependencies": []},
        {"id": 2, "title": "Grammar", "dependencies": [1]}
      ]
    },
    {
      "id": 3,
      "title": "Docs",
      "description": "",
      "status": "pending",
      "dependencies": [],
      "priority": "low",
      "details": ""
    }
  ]
}
`

// setup isolates config lookup and writes the fixture to tasks/tasks.json
// in a fresh project directory.
func setup(t *testing.T) (project, path string) {
	t.Helper()
	home := t.TempDir()
	project = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, key := range []string{
		config.EnvTasksFile, config.EnvSchemaFile, config.EnvJournal, config.EnvJournalDir, config.EnvOutput,
		config.EnvColor, config.EnvLogLevel, config.EnvLogFormat, config.EnvLogTimestamps, config.EnvLogCaller,
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv(config.EnvColor, "never")
	t.Setenv(config.EnvJournalDir, filepath.Join(home, "journal"))
	t.Chdir(project)
	// Match the project root the CLI derives from the working directory.
	project, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	path = filepath.Join(project, "tasks", "tasks.json")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(fixtureTasks), 0644); err != nil {
		t.Fatal(err)
	}
	return project, path
}

func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err = run(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), err
}

func TestRunHelpAndVersion(t *testing.T) {
	setup(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no command", nil, "Usage:"},
		{"help command", []string{"help"}, "Commands:"},
		{"help flag", []string{"-h"}, "Global Options:"},
		{"long help flag", []string{"--help"}, "Exit codes:"},
		{"unknown command", []string{"frobnicate"}, "Usage:"},
		{"version command", []string{"version"}, "taskgraph version dev"},
		{"version flag", []string{"-v"}, "taskgraph version dev"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runCLI(t, tt.args...)
			if err != nil {
				t.Fatalf("run(%v) error = %v", tt.args, err)
			}
			if ExitCode(err) != ExitOK {
				t.Errorf("ExitCode = %d, want 0", ExitCode(err))
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestRunSubcommandHelp(t *testing.T) {
	setup(t)
	_, stderr, err := runCLI(t, "list", "-h")
	if err != nil {
		t.Fatalf("list -h error = %v", err)
	}
	if !strings.Contains(stderr, "-with-subtasks") {
		t.Errorf("list -h should print its flags, got:\n%s", stderr)
	}
}

func TestListCommand(t *testing.T) {
	setup(t)

	t.Run("all tasks in stored order", func(t *testing.T) {
		out, _, err := runCLI(t, "list")
		if err != nil {
			t.Fatalf("list error = %v", err)
		}
		i1 := strings.Index(out, "Set up repo")
		i2 := strings.Index(out, "Write parser")
		i3 := strings.Index(out, "Docs")
		if i1 < 0 || i2 < i1 || i3 < i2 {
			t.Errorf("tasks not in stored order:\n%s", out)
		}
		if strings.Contains(out, "Lexer") {
			t.Error("subtasks listed without -with-subtasks")
		}
		if !strings.HasSuffix(out, "3 task(s)\n") {
			t.Errorf("missing trailing count:\n%s", out)
		}
	})

	t.Run("positional status filter", func(t *testing.T) {
		out, _, err := runCLI(t, "list", "pending")
		if err != nil {
			t.Fatalf("list pending error = %v", err)
		}
		if strings.Contains(out, "Set up repo") || !strings.Contains(out, "Docs") {
			t.Errorf("filter not applied:\n%s", out)
		}
		if !strings.HasSuffix(out, "2 task(s)\n") {
			t.Errorf("wrong count:\n%s", out)
		}
	})

	t.Run("filter is case-sensitive", func(t *testing.T) {
		out, _, err := runCLI(t, "list", "-status", "Pending")
		if err != nil {
			t.Fatalf("list error = %v", err)
		}
		if !strings.Contains(out, `No tasks with status "Pending".`) || !strings.HasSuffix(out, "0 task(s)\n") {
			t.Errorf("expected no matches:\n%s", out)
		}
	})

	t.Run("subtasks nested beneath parent", func(t *testing.T) {
		out, _, err := runCLI(t, "list", "-with-subtasks")
		if err != nil {
			t.Fatalf("list error = %v", err)
		}
		parent := strings.Index(out, "Write parser")
		lexer := strings.Index(out, "2.1")
		grammar := strings.Index(out, "2.2")
		docs := strings.Index(out, "Docs")
		if !(parent < lexer && lexer < grammar && grammar < docs) {
			t.Errorf("subtasks not nested in order:\n%s", out)
		}
		if !strings.Contains(out, "2.2   pending") {
			t.Errorf("absent subtask status should display as pending:\n%s", out)
		}
		if !strings.HasSuffix(out, "3 task(s)\n") {
			t.Errorf("count should not include subtasks:\n%s", out)
		}
	})

	t.Run("json output", func(t *testing.T) {
		out, _, err := runCLI(t, "-output", "json", "list", "done")
		if err != nil {
			t.Fatalf("list error = %v", err)
		}
		var view struct {
			Tasks []tasks.Task `json:"tasks"`
			Count int          `json:"count"`
		}
		if err := json.Unmarshal([]byte(out), &view); err != nil {
			t.Fatalf("invalid json: %v\n%s", err, out)
		}
		if view.Count != 1 || len(view.Tasks) != 1 || view.Tasks[0].ID != 1 {
			t.Errorf("unexpected view: %+v", view)
		}
	})

	t.Run("yaml output with subtasks", func(t *testing.T) {
		out, _, err := runCLI(t, "list", "-output", "yaml", "-with-subtasks", "-status", "pending")
		if err != nil {
			t.Fatalf("list error = %v", err)
		}
		var view struct {
			Tasks []tasks.Task `yaml:"tasks"`
			Count int          `yaml:"count"`
		}
		if err := yaml.Unmarshal([]byte(out), &view); err != nil {
			t.Fatalf("invalid yaml: %v\n%s", err, out)
		}
		if view.Count != 2 || len(view.Tasks[0].Subtasks) != 2 {
			t.Errorf("unexpected view: %+v", view)
		}
	})
}

func TestNextCommand(t *testing.T) {
	_, path := setup(t)

	out, _, err := runCLI(t, "next")
	if err != nil {
		t.Fatalf("next error = %v", err)
	}
	for _, want := range []string{
		"Task 2: Write parser",
		"Priority:      high",
		"Dependencies:  1 (done)",
		"Test strategy: Table tests",
		"2.1  done",
		"taskgraph set-status 2 in-progress",
		"taskgraph set-status 2 done",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("next output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "expand task") {
		t.Error("expand should not be suggested for a task with subtasks")
	}

	// Task 3 has no subtasks, so expansion is suggested once 2 is done.
	if _, err := tasks.ApplyStatus(path, []string{"2"}, tasks.StatusDone); err != nil {
		t.Fatal(err)
	}
	out, _, err = runCLI(t, "next", "-file", path)
	if err != nil {
		t.Fatalf("next error = %v", err)
	}
	if !strings.Contains(out, "Task 3: Docs") || !strings.Contains(out, "expand task 3 into subtasks") {
		t.Errorf("unexpected next output:\n%s", out)
	}
	if !strings.Contains(out, "Test strategy: (no test strategy provided)") {
		t.Errorf("missing test strategy placeholder:\n%s", out)
	}

	if _, err := tasks.ApplyStatus(path, []string{"3"}, tasks.StatusDone); err != nil {
		t.Fatal(err)
	}
	out, _, err = runCLI(t, "next")
	if err != nil {
		t.Fatalf("next error = %v", err)
	}
	if out != "No eligible tasks found.\n" {
		t.Errorf("next output = %q", out)
	}
}

func TestNextCommandJSON(t *testing.T) {
	setup(t)
	out, _, err := runCLI(t, "next", "-output", "json")
	if err != nil {
		t.Fatalf("next error = %v", err)
	}
	var view map[string]any
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, out)
	}
	if view["ref"] != "2" {
		t.Errorf("ref = %v, want 2", view["ref"])
	}
	task, _ := view["task"].(map[string]any)
	if task["title"] != "Write parser" {
		t.Errorf("task = %v", task)
	}
}

func TestShowCommand(t *testing.T) {
	setup(t)

	t.Run("task", func(t *testing.T) {
		out, _, err := runCLI(t, "show", "2")
		if err != nil {
			t.Fatalf("show error = %v", err)
		}
		if !strings.Contains(out, "Task 2: Write parser") || !strings.Contains(out, "Details:       Use a hand-written lexer") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("subtask by flag", func(t *testing.T) {
		out, _, err := runCLI(t, "show", "-id", "2.2")
		if err != nil {
			t.Fatalf("show error = %v", err)
		}
		for _, want := range []string{
			"Subtask 2.2: Grammar",
			"Parent:        2 (Write parser)",
			"Status:        pending",
			"Dependencies:  1",
			"taskgraph set-status 2.2 done",
			"taskgraph show 2",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("show output missing %q:\n%s", want, out)
			}
		}
	})

	tests := []struct {
		name    string
		args    []string
		wantErr string
		code    int
	}{
		{"missing id", []string{"show"}, "missing task id", ExitUsage},
		{"invalid id", []string{"show", "abc"}, "invalid task id", ExitUsage},
		{"unknown task", []string{"show", "9"}, "Task 9 not found", ExitNotFound},
		{"no subtasks", []string{"show", "3.1"}, "Task 3 has no subtasks", ExitNotFound},
		{"unknown subtask", []string{"show", "2.7"}, "Subtask 2.7 not found", ExitNotFound},
		{"extra args", []string{"show", "1", "2"}, "unexpected arguments", ExitUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runCLI(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want %q", err, tt.wantErr)
			}
			if got := ExitCode(err); got != tt.code {
				t.Errorf("ExitCode = %d, want %d", got, tt.code)
			}
			if out != "" {
				t.Errorf("failed show should print nothing, got:\n%s", out)
			}
		})
	}
}

func TestSetStatusCommand(t *testing.T) {
	t.Run("partial failure persists once", func(t *testing.T) {
		_, path := setup(t)
		out, stderr, err := runCLI(t, "set-status", "2,5", "done")
		if err != nil {
			t.Fatalf("set-status error = %v", err)
		}
		if !strings.Contains(out, "Task 2: pending -> done") || !strings.Contains(out, "2 subtask(s) also marked done") {
			t.Errorf("unexpected output:\n%s", out)
		}
		if !strings.Contains(out, "Updated 1 of 2 id(s)") {
			t.Errorf("missing summary:\n%s", out)
		}
		if !strings.Contains(stderr, "Task 5 not found") {
			t.Errorf("missing per-id failure on stderr:\n%s", stderr)
		}

		f, err := tasks.Load(path)
		if err != nil {
			t.Fatal(err)
		}
		task := f.Task(2)
		if task.Status != tasks.StatusDone || task.Subtasks[1].Status != tasks.StatusDone {
			t.Errorf("cascade not persisted: %+v", task)
		}
	})

	t.Run("flags and subtask", func(t *testing.T) {
		_, path := setup(t)
		out, _, err := runCLI(t, "set-status", "-id", "2.2", "-status", "in-progress", "-file", path)
		if err != nil {
			t.Fatalf("set-status error = %v", err)
		}
		if !strings.Contains(out, "Subtask 2.2: pending -> in-progress") {
			t.Errorf("unexpected output:\n%s", out)
		}
		f, _ := tasks.Load(path)
		if f.Task(2).Status != tasks.StatusPending {
			t.Error("subtask update changed the parent")
		}
	})

	t.Run("all ids fail", func(t *testing.T) {
		_, path := setup(t)
		before, _ := os.ReadFile(path)
		_, _, err := runCLI(t, "set-status", "8,9", "done")
		if err == nil {
			t.Fatal("expected error")
		}
		if ExitCode(err) != ExitNotFound {
			t.Errorf("ExitCode = %d, want %d", ExitCode(err), ExitNotFound)
		}
		after, _ := os.ReadFile(path)
		if !bytes.Equal(before, after) {
			t.Error("file rewritten although nothing applied")
		}
	})

	usage := []struct {
		name string
		args []string
		want string
	}{
		{"missing id", []string{"set-status"}, "missing task id"},
		{"missing status", []string{"set-status", "2"}, "missing status"},
		{"only commas", []string{"set-status", ",,", "done"}, "missing task id"},
		{"extra args", []string{"set-status", "2", "done", "now"}, "unexpected arguments"},
		{"bad flag", []string{"set-status", "-bogus"}, "invalid flag"},
	}
	for _, tt := range usage {
		t.Run(tt.name, func(t *testing.T) {
			setup(t)
			_, _, err := runCLI(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want %q", err, tt.want)
			}
			if ExitCode(err) != ExitUsage {
				t.Errorf("ExitCode = %d, want %d", ExitCode(err), ExitUsage)
			}
		})
	}

	t.Run("write failure still reports per-id errors", func(t *testing.T) {
		project, _ := setup(t)
		// The file itself fits, but the temp file beside it exceeds the
		// name length limit, so the write back fails.
		long := filepath.Join(project, strings.Repeat("t", 245)+".json")
		if err := os.WriteFile(long, []byte(fixtureTasks), 0644); err != nil {
			t.Fatal(err)
		}
		out, stderr, err := runCLI(t, "set-status", "-file", long, "2,5", "done")
		var we *tasks.WriteError
		if !errors.As(err, &we) {
			t.Fatalf("error = %v, want *tasks.WriteError", err)
		}
		if ExitCode(err) != ExitFailure {
			t.Errorf("ExitCode = %d, want %d", ExitCode(err), ExitFailure)
		}
		if !strings.Contains(stderr, "Task 5 not found") {
			t.Errorf("missing per-id failure on stderr:\n%s", stderr)
		}
		if strings.Contains(out, "Updated") {
			t.Errorf("summary printed although the write failed:\n%s", out)
		}
		data, _ := os.ReadFile(long)
		if string(data) != fixtureTasks {
			t.Error("file changed although the write failed")
		}
	})

	t.Run("unreadable file", func(t *testing.T) {
		project, _ := setup(t)
		_, _, err := runCLI(t, "set-status", "-file", filepath.Join(project, "nope.json"), "1", "done")
		if err == nil || ExitCode(err) != ExitFailure {
			t.Errorf("error = %v, ExitCode = %d", err, ExitCode(err))
		}
	})
}

func TestSetStatusRecordsHistory(t *testing.T) {
	project, _ := setup(t)

	if _, _, err := runCLI(t, "set-status", "2.2", "done"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := runCLI(t, "set-status", "2", "done"); err != nil {
		t.Fatal(err)
	}

	j, err := logging.NewJournal(os.Getenv(config.EnvJournalDir), project)
	if err != nil {
		t.Fatal(err)
	}
	entries, err := j.Recent(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("journal has %d entries, want 2", len(entries))
	}
	if entries[0].Ref != "2.2" || entries[0].From != "pending" || entries[0].To != "done" {
		t.Errorf("first entry = %+v", entries[0])
	}
	if entries[1].Ref != "2" || entries[1].Cascaded != 2 {
		t.Errorf("second entry = %+v", entries[1])
	}

	out, _, err := runCLI(t, "history", "-n", "1")
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	if !strings.Contains(out, "2       pending -> done (+2 subtasks)") || strings.Contains(out, "2.2") {
		t.Errorf("unexpected history:\n%s", out)
	}

	out, _, err = runCLI(t, "history", "-output", "json")
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	var view struct {
		Entries []logging.Entry `json:"entries"`
	}
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(view.Entries) != 2 {
		t.Errorf("history json has %d entries, want 2", len(view.Entries))
	}
}

func TestSetStatusWithoutJournal(t *testing.T) {
	project, _ := setup(t)
	if _, _, err := runCLI(t, "-no-journal", "set-status", "3", "done"); err != nil {
		t.Fatal(err)
	}
	j, err := logging.NewJournal(os.Getenv(config.EnvJournalDir), project)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(j.Path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("journal written with -no-journal: %v", err)
	}

	out, _, err := runCLI(t, "history")
	if err != nil {
		t.Fatal(err)
	}
	if out != "No status changes recorded.\n" {
		t.Errorf("history = %q", out)
	}
}

func TestValidateCommand(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		setup(t)
		out, _, err := runCLI(t, "validate")
		if err != nil {
			t.Fatalf("validate error = %v\n%s", err, out)
		}
		if !strings.Contains(out, "Valid (3 tasks, 2 subtasks, 0 warning(s))") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("cycle and dangling dependency", func(t *testing.T) {
		_, path := setup(t)
		doc := `{"tasks": [
  {"id": 1, "title": "A", "description": "", "status": "pending", "dependencies": [2], "details": ""},
  {"id": 2, "title": "B", "description": "", "status": "pending", "dependencies": [1, 42], "details": ""}
]}`
		if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
			t.Fatal(err)
		}
		out, _, err := runCLI(t, "validate")
		if err == nil {
			t.Fatalf("expected validation failure:\n%s", out)
		}
		if ExitCode(err) != ExitFailure {
			t.Errorf("ExitCode = %d, want 1", ExitCode(err))
		}
		if !strings.Contains(out, "cycle") || !strings.Contains(out, "missing task 42") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		_, path := setup(t)
		if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
			t.Fatal(err)
		}
		_, _, err := runCLI(t, "validate")
		if err == nil || !strings.Contains(err.Error(), "parse tasks file") {
			t.Errorf("error = %v", err)
		}
	})
}

func TestInitCommandCreatesFiles(t *testing.T) {
	project, _ := setup(t)
	path := filepath.Join(project, "work", "tasks.json")

	out, _, err := runCLI(t, "init", "-file", path)
	if err != nil {
		t.Fatalf("init error = %v", err)
	}
	if !strings.Contains(out, "Created "+path) {
		t.Errorf("unexpected output:\n%s", out)
	}

	f, err := tasks.Load(path)
	if err != nil {
		t.Fatalf("tasks.Load() error = %v", err)
	}
	if f.SchemaVersion != tasks.CurrentSchemaVersion {
		t.Errorf("SchemaVersion = %d, want %d", f.SchemaVersion, tasks.CurrentSchemaVersion)
	}
	if result := f.Validate(tasks.ValidationOptions{}); !result.Valid {
		t.Errorf("example tasks are invalid: %v", result.Errors)
	}
	if next := f.NextEligible(); next == nil || next.ID != 1 {
		t.Errorf("NextEligible() = %v, want task 1", next)
	}

	data, err := os.ReadFile(filepath.Join(project, config.ProjectConfigFile))
	if err != nil {
		t.Fatalf("ReadFile(config) error = %v", err)
	}
	if string(data) != config.ExampleConfig() {
		t.Error("config file does not match example config")
	}
}

func TestInitCommandSkipsExistingFiles(t *testing.T) {
	project, path := setup(t)

	out, _, err := runCLI(t, "init", "-skip-config")
	if err != nil {
		t.Fatalf("init error = %v", err)
	}
	if !strings.Contains(out, "Skipped "+path) {
		t.Errorf("unexpected output:\n%s", out)
	}
	data, _ := os.ReadFile(path)
	if string(data) != fixtureTasks {
		t.Error("tasks file overwritten without -force")
	}
	if _, err := os.Stat(filepath.Join(project, config.ProjectConfigFile)); !errors.Is(err, os.ErrNotExist) {
		t.Error("config written with -skip-config")
	}

	if _, _, err := runCLI(t, "init", "-force", "-skip-config"); err != nil {
		t.Fatalf("init -force error = %v", err)
	}
	f, err := tasks.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if f.SchemaVersion != tasks.CurrentSchemaVersion {
		t.Error("-force did not overwrite the tasks file")
	}
}

func TestConfigCommand(t *testing.T) {
	project, _ := setup(t)
	if err := os.WriteFile(filepath.Join(project, config.ProjectConfigFile), []byte("log_level = \"debug\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, "-output", "yaml", "config")
	if err != nil {
		t.Fatalf("config error = %v", err)
	}
	var view struct {
		ProjectFile string         `yaml:"projectFile"`
		Settings    []config.Entry `yaml:"settings"`
	}
	if err := yaml.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("invalid yaml: %v\n%s", err, out)
	}
	if view.ProjectFile != config.ProjectConfigFile {
		t.Errorf("ProjectFile = %q", view.ProjectFile)
	}
	sources := map[string]config.ConfigSource{}
	for _, e := range view.Settings {
		sources[e.Key] = e.Source
	}
	want := map[string]config.ConfigSource{
		"log_level":   config.SourceProjFile,
		"color":       config.SourceEnv,
		"output":      config.SourceFlag,
		"tasks_file":  config.SourceDefault,
		"journal_dir": config.SourceEnv,
	}
	for key, source := range want {
		if sources[key] != source {
			t.Errorf("source of %s = %q, want %q", key, sources[key], source)
		}
	}

	out, _, err = runCLI(t, "config")
	if err != nil {
		t.Fatalf("config error = %v", err)
	}
	if !strings.Contains(out, "Project config: taskgraph.toml") || !strings.Contains(out, `log_level       = "debug"`) {
		t.Errorf("unexpected text output:\n%s", out)
	}
}

func TestInvalidConfigIsUsageError(t *testing.T) {
	setup(t)
	tests := [][]string{
		{"-output", "xml", "list"},
		{"list", "-output", "xml"},
		{"-color", "sometimes", "list"},
		{"-bogus"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			_, _, err := runCLI(t, args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := ExitCode(err); got != ExitUsage {
				t.Errorf("ExitCode(%v) = %d, want %d", err, got, ExitUsage)
			}
		})
	}
}

func TestDebugLogsGoToStderr(t *testing.T) {
	setup(t)
	out, stderr, err := runCLI(t, "-log-level", "debug", "-log-format", "logfmt", "next")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "selected next task") {
		t.Error("diagnostics leaked to stdout")
	}
	if !strings.Contains(stderr, "selected next task") || !strings.Contains(stderr, "prefix=taskgraph") {
		t.Errorf("missing debug log on stderr:\n%s", stderr)
	}
}

func TestExitCode(t *testing.T) {
	lookup := &tasks.LookupError{Input: "9", Ref: tasks.Top(9), Err: tasks.ErrTaskNotFound}
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"usage", &UsageError{Command: "show", Msg: "missing task id"}, ExitUsage},
		{"invalid flag", fmt.Errorf("loading config: %w", config.ErrInvalidFlag), ExitUsage},
		{"invalid value", config.ErrInvalidValue, ExitUsage},
		{"not found", lookup, ExitNotFound},
		{"joined not found", errors.Join(lookup, lookup), ExitNotFound},
		{"invalid ref", &tasks.LookupError{Input: "x", Err: tasks.ErrInvalidRef}, ExitUsage},
		{"write", &tasks.WriteError{Path: "t.json", Err: errors.New("disk full")}, ExitFailure},
		{"other", errors.New("boom"), ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestUsageErrorMessage(t *testing.T) {
	err := usageErrorf("show", "missing %s", "task id")
	if err.Error() != "show: missing task id" {
		t.Errorf("Error() = %q", err.Error())
	}
	if (&UsageError{Msg: "bare"}).Error() != "bare" {
		t.Error("UsageError without command should print the message only")
	}
}

func TestNextAllListsQueue(t *testing.T) {
	setup(t)
	out, _, err := runCLI(t, "next", "-all")
	if err != nil {
		t.Fatalf("next -all error = %v", err)
	}
	first := strings.Index(out, " 1. 2")
	second := strings.Index(out, " 2. 3")
	if first < 0 || second < first {
		t.Errorf("eligible queue out of order:\n%s", out)
	}
	if strings.Contains(out, "Set up repo") {
		t.Error("done task listed as eligible")
	}
}

func TestInitWithSchema(t *testing.T) {
	project, _ := setup(t)
	path := filepath.Join(project, "fresh", "tasks.json")

	if _, _, err := runCLI(t, "init", "-file", path, "-with-schema", "-skip-config"); err != nil {
		t.Fatalf("init error = %v", err)
	}
	schemaPath := filepath.Join(project, "fresh", schemaFileName)
	data, err := os.ReadFile(schemaPath)
	if err != nil {
		t.Fatalf("schema not written: %v", err)
	}
	if !bytes.Equal(data, tasks.BundledSchema()) {
		t.Error("schema file does not match the bundled schema")
	}

	out, _, err := runCLI(t, "validate", "-file", path, "-schema", schemaPath)
	if err != nil {
		t.Fatalf("validate error = %v\n%s", err, out)
	}
	if !strings.Contains(out, "Valid (2 tasks, 2 subtasks, 0 warning(s))") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
