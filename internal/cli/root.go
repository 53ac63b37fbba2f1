// Package cli provides the Cobra command structure for liveedit.
package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dshills/liveedit/internal/config"
	"github.com/dshills/liveedit/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// env is the state shared by all subcommands once flags are parsed.
type env struct {
	configPath string
	logLevel   string
	info       BuildInfo

	cfg *config.Config
	log *log.Logger
}

// NewRootCommand creates the root liveedit command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	e := &env{info: info}

	rootCmd := &cobra.Command{
		Use:   "liveedit",
		Short: "Search, replace and expand snippets over text files",
		Long: `liveedit drives the live editing engine from the command line.

It searches files with plain, wildcard or regular expression patterns,
replaces every match with an expanded template, and expands named snippets
from YAML or TOML libraries, filling their fields from the command line.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.setup(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().StringVar(&e.configPath, "config", "",
		"path to config file (default ./"+config.DefaultFileName+")")
	rootCmd.PersistentFlags().StringVar(&e.logLevel, "log-level", "",
		"log level: debug, info, warn, error")

	rootCmd.AddCommand(newSearchCommand(e))
	rootCmd.AddCommand(newReplaceCommand(e))
	rootCmd.AddCommand(newSnippetCommand(e))
	rootCmd.AddCommand(newSnippetsCommand(e))
	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}

func (e *env) setup(cmd *cobra.Command) error {
	path := e.configPath
	if path == "" {
		path = config.DefaultFileName
	} else if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("config file: %w", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if e.logLevel != "" {
		cfg.Log.Level = e.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	e.cfg = cfg

	e.log = logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Log.Level)
	logging.SetDefault(e.log)
	e.log.Debug("config loaded",
		logging.FieldPath, path,
		logging.FieldVersion, e.info.Version,
		logging.FieldCommit, e.info.Commit)
	return nil
}
