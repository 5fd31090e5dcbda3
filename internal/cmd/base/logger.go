package base

import (
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/notion-bridge/internal/config"
)

// ConfigureLogger returns a logger with the level and format from cfg. The
// command's logger keeps its name.
func (c *Command) ConfigureLogger(cfg *config.Config) hclog.Logger {
	name := "notion-bridge"
	if c.Log != nil && c.Log.Name() != "" {
		name = c.Log.Name()
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      cfg.Level(),
		JSONFormat: cfg.LogFormat == "json",
		Output:     os.Stderr,
	})
}
