// Package cmd implements the CLI command structure for taskgraph.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskgraph/internal/config"
	"github.com/nibzard/taskgraph/internal/logging"
	"github.com/nibzard/taskgraph/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// app carries what every command needs for one invocation.
type app struct {
	cfg     *config.Config
	sources *config.ConfigWithSources
	logger  *log.Logger
	stdout  io.Writer
	stderr  io.Writer
}

// Run executes the taskgraph CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("taskgraph", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config

	a := &app{
		cfg:     cfg,
		sources: cws,
		logger:  logging.NewFromConfig(stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller),
		stdout:  stdout,
		stderr:  stderr,
	}

	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return a.versionCommand()
	}

	remainingArgs := fs.Args()
	if len(remainingArgs) == 0 {
		printUsage(fs, stdout)
		return nil
	}
	subcommand := remainingArgs[0]
	remainingArgs = remainingArgs[1:]

	var cmdErr error
	switch subcommand {
	case "list", "ls":
		cmdErr = a.listCommand(remainingArgs)
	case "next":
		cmdErr = a.nextCommand(remainingArgs)
	case "show":
		cmdErr = a.showCommand(remainingArgs)
	case "set-status", "status":
		cmdErr = a.setStatusCommand(remainingArgs)
	case "validate":
		cmdErr = a.validateCommand(remainingArgs)
	case "history":
		cmdErr = a.historyCommand(remainingArgs)
	case "tui":
		cmdErr = a.tuiCommand(ctx, remainingArgs)
	case "init":
		cmdErr = a.initCommand(remainingArgs)
	case "config":
		cmdErr = a.configCommand(remainingArgs)
	case "version":
		cmdErr = a.versionCommand()
	case "help":
		printUsage(fs, stdout)
	default:
		a.logger.Warn("unknown command", "command", subcommand)
		printUsage(fs, stdout)
	}

	if errors.Is(cmdErr, flag.ErrHelp) {
		return nil
	}
	return cmdErr
}

func (a *app) versionCommand() error {
	fmt.Fprintf(a.stdout, "taskgraph version %s\n", Version)
	return nil
}

// newFlagSet returns a subcommand flag set that reports errors to stderr.
func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("taskgraph "+name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// fileFlag registers -file defaulting to the configured tasks file.
func (a *app) fileFlag(fs *flag.FlagSet) *string {
	return fs.String("file", a.cfg.TasksFile, "Path to the tasks file")
}

// outputFlag registers -output defaulting to the configured format.
func (a *app) outputFlag(fs *flag.FlagSet) *string {
	return fs.String("output", a.cfg.Output, "Output format (text|json|yaml)")
}

func (a *app) styles() ui.Styles {
	return ui.NewStyles(a.stdout, a.cfg.ColorEnabled(ui.IsTTY(a.stdout)))
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "taskgraph - a file-backed task graph with dependency-aware selection")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  taskgraph [global options] <command> [options] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  list [status]             List tasks in stored order (-status, -with-subtasks)")
	fmt.Fprintln(w, "  next                      Show the next eligible task")
	fmt.Fprintln(w, "  show <id>                 Show a task (7) or subtask (7.2)")
	fmt.Fprintln(w, "  set-status <ids> <status> Set the status of one or more comma-separated ids")
	fmt.Fprintln(w, "  validate                  Check the tasks file against the schema and dependency graph")
	fmt.Fprintln(w, "  history                   Show recent status changes (-n)")
	fmt.Fprintln(w, "  tui                       Browse tasks in a terminal UI")
	fmt.Fprintln(w, "  init                      Create an example tasks file and taskgraph.toml")
	fmt.Fprintln(w, "  config                    Show effective configuration and value sources")
	fmt.Fprintln(w, "  version                   Show version information")
	fmt.Fprintln(w, "  help                      Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Every command that reads tasks accepts -file to override the tasks file.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  "+strings.Join([]string{
		config.EnvTasksFile, config.EnvSchemaFile, config.EnvJournal, config.EnvJournalDir, config.EnvOutput,
	}, ", "))
	fmt.Fprintln(w, "  "+strings.Join([]string{
		config.EnvColor, config.EnvLogLevel, config.EnvLogFormat, config.EnvLogTimestamps, config.EnvLogCaller,
	}, ", "))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Concurrent invocations against the same tasks file are not coordinated;")
	fmt.Fprintln(w, "the last write wins.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes: 0 success, 1 failure, 2 usage error, 3 not found.")
}
