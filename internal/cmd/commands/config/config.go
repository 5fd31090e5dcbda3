package config

import (
	"flag"
	"fmt"

	"github.com/spf13/afero"

	"github.com/hashicorp-forge/notion-bridge/internal/cmd/base"
	"github.com/hashicorp-forge/notion-bridge/internal/config"
)

type Command struct {
	*base.Command

	flagConfig string

	fs afero.Fs
}

func (c *Command) Synopsis() string {
	return "Print the effective configuration"
}

func (c *Command) Help() string {
	return `Usage: notion-bridge config [options]

  Load the configuration the same way serve does and print it as YAML. The
  API key is redacted.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("config", flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "Path to an HCL config file.",
	)

	return f
}

func (c *Command) Run(args []string) int {
	ui := c.UI

	f := c.Flags()
	if err := f.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	fs := c.fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	cfg, err := config.Load(fs, c.flagConfig)
	if err != nil {
		ui.Error(fmt.Sprintf("error loading configuration: %v", err))
		return 1
	}

	out, err := cfg.YAML()
	if err != nil {
		ui.Error(fmt.Sprintf("error encoding configuration: %v", err))
		return 1
	}

	ui.Output(string(out))
	return 0
}
