// Package config provides configuration management for yarn-autocomplete.
// Settings are read from an optional YAML file next to the store; anything
// not set there keeps its default.
package config

import (
	"fmt"
	"slices"
	"strings"
)

const (
	SubcommandSourceStatic = "static"
	SubcommandSourceHelp   = "help"
)

// DefaultSubcommands is the built-in allow-list of yarn subcommands recorded
// when populating a directory.
var DefaultSubcommands = []string{
	"add",
	"audit",
	"autoclean",
	"bin",
	"cache",
	"check",
	"config",
	"create",
	"dedupe",
	"dlx",
	"exec",
	"generate-lock-entry",
	"global",
	"help",
	"import",
	"info",
	"init",
	"install",
	"licenses",
	"link",
	"list",
	"login",
	"logout",
	"node",
	"outdated",
	"owner",
	"pack",
	"plugin",
	"policies",
	"publish",
	"rebuild",
	"remove",
	"run",
	"set",
	"tag",
	"team",
	"unlink",
	"unplug",
	"up",
	"upgrade",
	"upgrade-interactive",
	"version",
	"versions",
	"why",
	"workspace",
	"workspaces",
}

// Config holds all yarn-autocomplete settings.
type Config struct {
	// PackageManager is both the first argument that selects populate mode and
	// the program executed for introspection.
	PackageManager string `yaml:"packageManager"`

	// AutoFlag is the trailing argument that selects populate mode.
	AutoFlag string `yaml:"autoFlag"`

	// SubcommandSource selects how built-in subcommands are discovered:
	// "static" uses Subcommands, "help" scrapes the package manager's help text.
	SubcommandSource string `yaml:"subcommandSource"`

	// Subcommands replaces DefaultSubcommands for the static source.
	Subcommands []string `yaml:"subcommands"`

	LogLevel string `yaml:"logLevel"`

	// StoreFile overrides the default location of the command tree document.
	StoreFile string `yaml:"storeFile"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		PackageManager:   "yarn",
		AutoFlag:         "--auto",
		SubcommandSource: SubcommandSourceStatic,
		Subcommands:      slices.Clone(DefaultSubcommands),
		LogLevel:         "info",
	}
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.PackageManager) == "" {
		return fmt.Errorf("packageManager must not be empty")
	}
	if strings.TrimSpace(c.AutoFlag) == "" {
		return fmt.Errorf("autoFlag must not be empty")
	}
	switch c.SubcommandSource {
	case SubcommandSourceStatic, SubcommandSourceHelp:
	default:
		return fmt.Errorf("subcommandSource must be %q or %q, got %q",
			SubcommandSourceStatic, SubcommandSourceHelp, c.SubcommandSource)
	}
	return nil
}
