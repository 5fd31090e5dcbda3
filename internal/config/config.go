package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/hashicorp-forge/notion-bridge/pkg/notion"
)

const (
	// DefaultPort is the listen port used when neither the config file nor
	// MCP_PORT sets one.
	DefaultPort = 3004

	// DefaultBindAddress only accepts local connections; the bridge is meant
	// for local tools.
	DefaultBindAddress = "127.0.0.1"

	// DefaultMaxContentPages caps how many upstream pages of block children
	// are followed for one page content request.
	DefaultMaxContentPages = 100

	redacted = "REDACTED"
)

// Config contains the bridge configuration. It is built once at startup and
// never mutated afterwards.
type Config struct {
	// LogLevel is the hclog level name (trace, debug, info, warn, error).
	LogLevel string `hcl:"log_level,optional" yaml:"log_level"`

	// LogFormat is "text" or "json".
	LogFormat string `hcl:"log_format,optional" yaml:"log_format"`

	// Server configures the HTTP listener.
	Server *Server `hcl:"server,block" yaml:"server"`

	// Notion configures the upstream client.
	Notion *Notion `hcl:"notion,block" yaml:"notion"`
}

// Server configures the HTTP listener.
type Server struct {
	BindAddress string `hcl:"bind_address,optional" yaml:"bind_address"`
	Port        int    `hcl:"port,optional" yaml:"port"`
}

// Notion configures the Notion API client.
type Notion struct {
	APIKey  string `hcl:"api_key,optional" yaml:"api_key"`
	BaseURL string `hcl:"base_url,optional" yaml:"base_url"`
	Version string `hcl:"version,optional" yaml:"version"`

	// Timeout is a Go duration string, e.g. "30s".
	Timeout string `hcl:"timeout,optional" yaml:"timeout"`

	MaxContentPages int `hcl:"max_content_pages,optional" yaml:"max_content_pages"`
}

// envOverrides holds the environment variables understood by the bridge. Nil
// fields were not set.
type envOverrides struct {
	APIKey          *string `env:"NOTION_API_KEY"`
	BaseURL         *string `env:"NOTION_BASE_URL"`
	Version         *string `env:"NOTION_API_VERSION"`
	Timeout         *string `env:"NOTION_TIMEOUT"`
	MaxContentPages *int    `env:"NOTION_MAX_CONTENT_PAGES"`
	Port            *int    `env:"MCP_PORT"`
	BindAddress     *string `env:"MCP_BIND_ADDRESS"`
	LogLevel        *string `env:"LOG_LEVEL"`
	LogFormat       *string `env:"LOG_FORMAT"`
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Server: &Server{
			BindAddress: DefaultBindAddress,
			Port:        DefaultPort,
		},
		Notion: &Notion{
			BaseURL:         notion.DefaultBaseURL,
			Version:         notion.DefaultVersion,
			Timeout:         notion.DefaultTimeout.String(),
			MaxContentPages: DefaultMaxContentPages,
		},
	}
}

// Load builds the configuration from defaults, the optional HCL file at
// path (skipped when path is empty), a .env file in the working directory and
// the process environment, in increasing order of precedence. The returned
// config has been validated.
func Load(fsys afero.Fs, path string) (*Config, error) {
	cfg := NewConfig()

	if path != "" {
		if err := cfg.decodeFile(fsys, path); err != nil {
			return nil, err
		}
	}

	// A missing .env file is not an error.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	if err := cfg.applyEnv(environ()); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// decodeFile decodes an HCL config file on top of the current values.
func (c *Config) decodeFile(fsys afero.Fs, path string) error {
	src, err := afero.ReadFile(fsys, path)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	fileCfg := NewConfig()
	if err := hclsimple.Decode(path, src, nil, fileCfg); err != nil {
		return fmt.Errorf("error decoding config file: %w", err)
	}

	// Omitted blocks decode to nil; keep the defaults for them.
	if fileCfg.Server == nil {
		fileCfg.Server = c.Server
	}
	if fileCfg.Notion == nil {
		fileCfg.Notion = c.Notion
	}
	fileCfg.fillDefaults()

	*c = *fileCfg
	return nil
}

// fillDefaults replaces zero values left by a partial config file.
func (c *Config) fillDefaults() {
	def := NewConfig()

	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = def.LogFormat
	}
	if c.Server.BindAddress == "" {
		c.Server.BindAddress = def.Server.BindAddress
	}
	if c.Server.Port == 0 {
		c.Server.Port = def.Server.Port
	}
	if c.Notion.BaseURL == "" {
		c.Notion.BaseURL = def.Notion.BaseURL
	}
	if c.Notion.Version == "" {
		c.Notion.Version = def.Notion.Version
	}
	if c.Notion.Timeout == "" {
		c.Notion.Timeout = def.Notion.Timeout
	}
	if c.Notion.MaxContentPages == 0 {
		c.Notion.MaxContentPages = def.Notion.MaxContentPages
	}
}

// applyEnv overrides values with the environment variables present in env.
func (c *Config) applyEnv(env map[string]string) error {
	var o envOverrides
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "env",
		WeaklyTypedInput: true,
		Result:           &o,
	})
	if err != nil {
		return fmt.Errorf("error creating environment decoder: %w", err)
	}

	// Only pass known, non-empty variables so unset ones stay nil.
	known := map[string]any{}
	for _, name := range []string{
		"NOTION_API_KEY", "NOTION_BASE_URL", "NOTION_API_VERSION",
		"NOTION_TIMEOUT", "NOTION_MAX_CONTENT_PAGES", "MCP_PORT",
		"MCP_BIND_ADDRESS", "LOG_LEVEL", "LOG_FORMAT",
	} {
		if v, ok := env[name]; ok && strings.TrimSpace(v) != "" {
			known[name] = strings.TrimSpace(v)
		}
	}

	if err := dec.Decode(known); err != nil {
		return fmt.Errorf("error reading environment: %w", err)
	}

	if o.APIKey != nil {
		c.Notion.APIKey = *o.APIKey
	}
	if o.BaseURL != nil {
		c.Notion.BaseURL = *o.BaseURL
	}
	if o.Version != nil {
		c.Notion.Version = *o.Version
	}
	if o.Timeout != nil {
		c.Notion.Timeout = *o.Timeout
	}
	if o.MaxContentPages != nil {
		c.Notion.MaxContentPages = *o.MaxContentPages
	}
	if o.Port != nil {
		c.Server.Port = *o.Port
	}
	if o.BindAddress != nil {
		c.Server.BindAddress = *o.BindAddress
	}
	if o.LogLevel != nil {
		c.LogLevel = *o.LogLevel
	}
	if o.LogFormat != nil {
		c.LogFormat = *o.LogFormat
	}

	return nil
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var result *multierror.Error

	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		result = multierror.Append(result,
			fmt.Errorf("invalid log level %q", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		result = multierror.Append(result,
			fmt.Errorf("invalid log format %q, must be \"text\" or \"json\"", c.LogFormat))
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		result = multierror.Append(result,
			fmt.Errorf("invalid port %d, must be between 1 and 65535", c.Server.Port))
	}

	if c.Notion.APIKey == "" {
		result = multierror.Append(result,
			fmt.Errorf("NOTION_API_KEY is required"))
	}
	if c.Notion.MaxContentPages < 1 {
		result = multierror.Append(result,
			fmt.Errorf("max_content_pages must be positive, got: %d", c.Notion.MaxContentPages))
	}

	if nc, err := c.parseNotion(); err != nil {
		result = multierror.Append(result, err)
	} else {
		// An empty key is reported above.
		if nc.APIKey == "" {
			nc.APIKey = redacted
		}
		if err := nc.Validate(); err != nil {
			result = multierror.Append(result,
				fmt.Errorf("invalid notion config: %w", err))
		}
	}

	return result.ErrorOrNil()
}

// NotionConfig converts the notion block into a validated client
// configuration.
func (c *Config) NotionConfig() (*notion.Config, error) {
	cfg, err := c.parseNotion()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid notion config: %w", err)
	}
	return cfg, nil
}

func (c *Config) parseNotion() (*notion.Config, error) {
	timeout, err := time.ParseDuration(c.Notion.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid notion timeout %q: %w", c.Notion.Timeout, err)
	}

	return &notion.Config{
		BaseURL: c.Notion.BaseURL,
		APIKey:  c.Notion.APIKey,
		Version: c.Notion.Version,
		Timeout: timeout,
	}, nil
}

// Address returns the listen address in host:port form.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// Level returns the parsed log level.
func (c *Config) Level() hclog.Level {
	return hclog.LevelFromString(c.LogLevel)
}

// YAML renders the configuration with the API key redacted.
func (c *Config) YAML() ([]byte, error) {
	out := *c
	server := *c.Server
	nc := *c.Notion
	if nc.APIKey != "" {
		nc.APIKey = redacted
	}
	out.Server = &server
	out.Notion = &nc

	return yaml.Marshal(&out)
}

func environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}
