package base

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagSetHelp(t *testing.T) {
	var (
		config string
		check  bool
	)
	f := NewFlagSet(flag.NewFlagSet("serve", flag.ContinueOnError))
	f.StringVar(&config, "config", "", "Path to an HCL `file`.")
	f.BoolVar(&check, "check-connection", false, "Check the key at startup.")

	help := f.Help()

	assert.Contains(t, help, "Options:")
	assert.Contains(t, help, "-config=<file>")
	assert.Contains(t, help, "-check-connection\n")
	assert.NotContains(t, help, "Default: false")
}

func TestFlagSetParseError(t *testing.T) {
	f := NewFlagSet(flag.NewFlagSet("serve", flag.ContinueOnError))

	err := f.Parse([]string{"-nope"})
	require.Error(t, err)
}

func TestFlagSetEmptyHelp(t *testing.T) {
	f := NewFlagSet(flag.NewFlagSet("version", flag.ContinueOnError))
	assert.Empty(t, f.Help())
}
