package cmd

import (
	"errors"
	"flag"
	"fmt"

	"github.com/nibzard/taskgraph/internal/config"
	"github.com/nibzard/taskgraph/internal/tasks"
)

// Exit codes returned by ExitCode.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitUsage    = 2
	ExitNotFound = 3
)

// UsageError reports a missing or malformed command argument. It is
// raised before any work is attempted.
type UsageError struct {
	Command string
	Msg     string
}

func (e *UsageError) Error() string {
	if e.Command == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Command, e.Msg)
}

func usageErrorf(command, format string, args ...any) error {
	return &UsageError{Command: command, Msg: fmt.Sprintf(format, args...)}
}

// ExitCode maps an error returned by Run to a process exit code.
func ExitCode(err error) int {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return ExitOK
	}
	var usageErr *UsageError
	if errors.As(err, &usageErr) ||
		errors.Is(err, config.ErrInvalidFlag) ||
		errors.Is(err, config.ErrInvalidValue) {
		return ExitUsage
	}
	var writeErr *tasks.WriteError
	if errors.As(err, &writeErr) {
		return ExitFailure
	}
	if tasks.IsNotFound(err) {
		return ExitNotFound
	}
	if errors.Is(err, tasks.ErrInvalidRef) {
		return ExitUsage
	}
	return ExitFailure
}

// parseFlags parses command flags and tags parse failures as usage errors.
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %w", config.ErrInvalidFlag, err)
	}
	return nil
}
