package serve

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"

	"github.com/hashicorp-forge/notion-bridge/internal/api"
	"github.com/hashicorp-forge/notion-bridge/internal/cmd/base"
	"github.com/hashicorp-forge/notion-bridge/internal/config"
	"github.com/hashicorp-forge/notion-bridge/internal/server"
	"github.com/hashicorp-forge/notion-bridge/pkg/notion"
)

const (
	// shutdownTimeout bounds how long in-flight requests may run after a
	// shutdown signal.
	shutdownTimeout = 10 * time.Second

	checkTimeout = 15 * time.Second
)

type Command struct {
	*base.Command

	flagConfig          string
	flagCheckConnection bool

	// fs is the filesystem the config file is read from. Nil means the OS
	// filesystem.
	fs afero.Fs
}

func (c *Command) Synopsis() string {
	return "Run the Notion bridge HTTP server"
}

func (c *Command) Help() string {
	return `Usage: notion-bridge serve [options]

  Run the HTTP server that exposes search, page, page content and database
  query operations on top of the Notion API.

  Configuration is read from the optional HCL file, a .env file in the
  working directory and the environment, in increasing order of precedence.
  NOTION_API_KEY is required.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("serve", flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "Path to an HCL config file.",
	)
	f.BoolVar(
		&c.flagCheckConnection, "check-connection", false,
		"Verify the Notion API key with a minimal search before listening.",
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

	if c.flagCheckConnection {
		ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
		err := client.ValidateConnection(ctx)
		cancel()
		if err != nil {
			ui.Error(fmt.Sprintf("error validating notion connection: %v", err))
			return 1
		}
		logger.Info("notion connection validated")
	}

	// Bind before starting so a taken port fails the command immediately.
	ln, err := net.Listen("tcp", cfg.Address())
	if err != nil {
		ui.Error(fmt.Sprintf("error listening on %s: %v", cfg.Address(), err))
		return 1
	}

	srv := server.Server{
		Config: cfg,
		Notion: client,
		Logger: logger.Named("api"),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("listening",
		"address", ln.Addr().String(),
		"notion_base_url", nc.BaseURL,
		"notion_version", nc.Version,
	)
	if err := Serve(ctx, ln, api.NewHandler(srv), logger); err != nil {
		ui.Error(fmt.Sprintf("error running server: %v", err))
		return 1
	}

	return 0
}

// Serve serves handler on ln until ctx is done, then shuts down gracefully.
// It closes ln.
func Serve(ctx context.Context, ln net.Listener, handler http.Handler, logger hclog.Logger) error {
	httpSrv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          logger.StandardLogger(&hclog.StandardLoggerOptions{InferLevels: true}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	return nil
}
