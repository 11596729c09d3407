package cmd

import (
	"fmt"

	"github.com/nibzard/taskgraph/internal/config"
)

// configView is the structured form of config.
type configView struct {
	UserFile    string         `json:"userFile,omitempty" yaml:"userFile,omitempty"`
	ProjectFile string         `json:"projectFile,omitempty" yaml:"projectFile,omitempty"`
	Settings    []config.Entry `json:"settings" yaml:"settings"`
}

func (a *app) configCommand(args []string) error {
	fs := a.newFlagSet("config")
	output := a.outputFlag(fs)

	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return usageErrorf("config", "unexpected arguments: %v", fs.Args())
	}
	format, err := checkOutput("config", *output)
	if err != nil {
		return err
	}

	view := configView{
		UserFile:    a.sources.UserFile,
		ProjectFile: a.sources.ProjectFile,
		Settings:    a.sources.Entries(),
	}
	if format != config.OutputText {
		return encode(a.stdout, format, view)
	}

	s := a.styles()
	w := a.stdout
	fmt.Fprintf(w, "User config:    %s\n", orNone(view.UserFile, "(none)"))
	fmt.Fprintf(w, "Project config: %s\n", orNone(view.ProjectFile, "(none)"))
	fmt.Fprintln(w)
	for _, e := range view.Settings {
		fmt.Fprintf(w, "%-15s = %-30s %s\n", e.Key, fmt.Sprintf("%q", e.Value), s.Render(s.Muted, "("+string(e.Source)+")"))
	}
	return nil
}
