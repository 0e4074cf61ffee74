package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/showcase-dev/showcase/internal/config"
)

var (
	flagDir    string
	flagConfig string
)

var rootCmd = &cobra.Command{
	Use:           "showcase",
	Short:         "Build a browsable index page of interactive projects",
	SilenceUsage:  true, // don't print usage on operational errors
	SilenceErrors: true,
	Long: `Showcase scans a projects tree (a grouped root of category/project
directories and a nested root of projects or category/project directories),
extracts each project's title, description and technologies from its
index.html, and writes a single index page.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", ".", "base directory to scan")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default is <dir>/showcase.yaml)")
}

// Execute is called by main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printErr("", err.Error())
		os.Exit(1)
	}
}

// loadConfig resolves configuration for the --dir/--config flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagDir, flagConfig)
	if err != nil {
		return nil, fmt.Errorf("cannot load config: %w", err)
	}
	return cfg, nil
}
