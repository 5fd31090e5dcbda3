package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/notion-bridge/internal/cmd/base"
	"github.com/hashicorp-forge/notion-bridge/internal/cmd/commands/check"
	configcmd "github.com/hashicorp-forge/notion-bridge/internal/cmd/commands/config"
	"github.com/hashicorp-forge/notion-bridge/internal/cmd/commands/serve"
	"github.com/hashicorp-forge/notion-bridge/internal/cmd/commands/version"
)

// Commands is the mapping of all available commands.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	b := base.NewCommand(log, ui)

	Commands = map[string]cli.CommandFactory{
		"serve": func() (cli.Command, error) {
			return &serve.Command{Command: b}, nil
		},
		"check": func() (cli.Command, error) {
			return &check.Command{Command: b}, nil
		},
		"config": func() (cli.Command, error) {
			return &configcmd.Command{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{Command: b}, nil
		},
	}
}
