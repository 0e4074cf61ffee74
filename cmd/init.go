package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/showcase-dev/showcase/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default showcase.yaml and create the project roots",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, _ []string) error {
	printSection("Init")

	cfgPath := flagConfig
	if cfgPath == "" {
		cfgPath = config.ConfigPath(flagDir)
	}
	if _, err := os.Stat(cfgPath); err == nil {
		printInfo("", fmt.Sprintf("Config already exists: %s", cfgPath))
	} else {
		if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
			return fmt.Errorf("cannot create %s: %w", filepath.Dir(cfgPath), err)
		}
		if err := config.Save(config.DefaultConfig(), cfgPath); err != nil {
			return err
		}
		printOK("", fmt.Sprintf("Wrote %s", cfgPath))
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	for _, root := range []string{cfg.GroupedRoot, cfg.NestedRoot} {
		if root == "" {
			continue
		}
		dir := filepath.Join(cfg.BaseDir, root)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create %s: %w", dir, err)
		}
		printOK("", fmt.Sprintf("Project root ready: %s", relTo(cfg.BaseDir, dir)))
	}
	return nil
}
