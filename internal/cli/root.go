// Package cli implements the explorer command line.
package cli

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/garunski/api-explorer/pkg/explorer"
	"github.com/garunski/api-explorer/pkg/explorer/config"
	"github.com/garunski/api-explorer/pkg/explorer/logging"
)

const (
	// Version is the CLI version reported by --version
	Version = "0.1.0"
	Banner  = `API Explorer %s
`
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "explorer",
	Short: "Explore a learning API from a browser or the terminal",
	Long: `explorer serves a page that tests the connection to a base API URL
and fetches its root, ping, healthz and info endpoints with timeout and
retry. The check and fetch commands run the same checks in the terminal.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a YAML configuration file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate(fmt.Sprintf(Banner, Version))
}

// GetRootCmd returns the root command (used by tests)
func GetRootCmd() *cobra.Command {
	return rootCmd
}

// loadConfig reads --config when given and falls back to the environment.
func loadConfig() (explorer.Config, error) {
	cfg := explorer.DefaultConfig()
	if cfgFile != "" {
		var err error
		if cfg, err = config.LoadFile(cfgFile); err != nil {
			return cfg, err
		}
	}
	if debug {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// commandLogger returns a discarding logger unless --debug is set, so the
// terminal output stays readable.
func commandLogger(cfg explorer.Config) (logr.Logger, func(), error) {
	if !debug {
		return logr.Discard(), func() {}, nil
	}
	logs, err := logging.New(cfg.Logging)
	if err != nil {
		return logr.Discard(), nil, err
	}
	return logs.Logr(), func() { _ = logs.Close() }, nil
}
