package check

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/spf13/afero"

	"github.com/hashicorp-forge/notion-bridge/internal/cmd/base"
	"github.com/hashicorp-forge/notion-bridge/internal/config"
	"github.com/hashicorp-forge/notion-bridge/pkg/notion"
)

type Command struct {
	*base.Command

	flagConfig  string
	flagTimeout time.Duration

	fs afero.Fs
}

func (c *Command) Synopsis() string {
	return "Verify the Notion API key and connectivity"
}

func (c *Command) Help() string {
	return `Usage: notion-bridge check [options]

  Load the configuration and run a minimal Notion search to verify that the
  API is reachable and the key is accepted.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("check", flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "Path to an HCL config file.",
	)
	f.DurationVar(
		&c.flagTimeout, "timeout", 15*time.Second,
		"Maximum time to wait for Notion.",
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
	logger := c.ConfigureLogger(cfg)

	nc, err := cfg.NotionConfig()
	if err != nil {
		ui.Error(err.Error())
		return 1
	}
	client, err := notion.NewClient(nc, logger.Named("notion"))
	if err != nil {
		ui.Error(fmt.Sprintf("error creating notion client: %v", err))
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.flagTimeout)
	defer cancel()
	if err := client.ValidateConnection(ctx); err != nil {
		if errors.Is(err, notion.ErrInvalidAPIKey) {
			ui.Error("Notion rejected the API key. Check NOTION_API_KEY.")
		}
		ui.Error(err.Error())
		return 1
	}

	ui.Output(fmt.Sprintf("Connected to Notion at %s", nc.BaseURL))
	return 0
}
