package cmd

import (
	"context"
	"os"

	"github.com/nibzard/taskgraph/internal/ui"
)

func (a *app) tuiCommand(ctx context.Context, args []string) error {
	fs := a.newFlagSet("tui")
	file := a.fileFlag(fs)
	refresh := fs.Duration("refresh", ui.DefaultRefreshInterval, "Reload interval (0 disables)")

	if err := parseFlags(fs, args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) > 1 {
		return usageErrorf("tui", "unexpected arguments: %v", remaining[1:])
	}
	path := *file
	if len(remaining) == 1 {
		path = remaining[0]
	}
	path = a.cfg.ResolvePath(path)

	styles := ui.NewStyles(os.Stdout, a.cfg.ColorEnabled(ui.IsTTY(os.Stdout)))
	a.logger.Debug("starting tui", "path", path)
	return ui.RunTUI(ctx, path, ui.WithRefreshInterval(*refresh), ui.WithStyles(styles))
}
