package server

import (
	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/notion-bridge/internal/config"
	"github.com/hashicorp-forge/notion-bridge/pkg/notion"
)

// Server contains the server configuration. It is built once at startup and
// shared read-only by every request handler.
type Server struct {
	// Config is the config for the server.
	Config *config.Config

	// Notion is the upstream Notion API client.
	Notion notion.API

	// Logger is the logger for the server.
	Logger hclog.Logger
}

// MaxContentPages returns the cap on upstream pages followed when collecting
// page content.
func (s Server) MaxContentPages() int {
	if s.Config == nil || s.Config.Notion == nil || s.Config.Notion.MaxContentPages < 1 {
		return config.DefaultMaxContentPages
	}
	return s.Config.Notion.MaxContentPages
}
