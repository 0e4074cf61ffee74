package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/showcase-dev/showcase/internal/builder"
	"github.com/showcase-dev/showcase/internal/config"
	"github.com/showcase-dev/showcase/internal/render"
)

var (
	flagBuildForce bool
	flagBuildOut   string
	flagBuildCache string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Scan projects and regenerate the index page",
	Args:  cobra.NoArgs,
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().BoolVar(&flagBuildForce, "force", false, "Re-parse every manifest even if the cache is current")
	buildCmd.Flags().StringVar(&flagBuildOut, "out", "", "Output page path (overrides config)")
	buildCmd.Flags().StringVar(&flagBuildCache, "cache", "", "Cache file path (overrides config)")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagBuildOut != "" {
		cfg.OutputFile = flagBuildOut
	}
	if flagBuildCache != "" {
		cfg.CacheFile = flagBuildCache
	}
	b, err := newBuilder(cfg, flagBuildForce)
	if err != nil {
		return err
	}

	printSection("Build")
	printInfo("", fmt.Sprintf("Scanning %s", cfg.BaseDir))
	res, err := b.Build(buildContext(cmd))
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	printBuildResult(cfg, res)
	return nil
}

// newBuilder wires a Builder from cfg.
func newBuilder(cfg *config.Config, force bool) (*builder.Builder, error) {
	lockWait, err := cfg.LockWait()
	if err != nil {
		return nil, err
	}
	return builder.New(builder.Options{
		Layout:      cfg.Layout(),
		OutputFile:  cfg.OutputFile,
		CacheFile:   cfg.CacheFile,
		Page:        render.Options{SiteTitle: cfg.SiteTitle, Subtitle: cfg.SiteSubtitle},
		Force:       force,
		LockTimeout: lockWait,
	}, skipReporter{base: cfg.BaseDir})
}

func printBuildResult(cfg *config.Config, res *builder.Result) {
	printOK(shortID(res.RunID), fmt.Sprintf("Built %d projects in %d categories, %d technologies (parsed %d, cached %d, skipped %d) -> %s",
		res.Summary.Projects, res.Summary.Categories, res.Summary.Technologies,
		res.Parsed, res.Reused, res.Skipped, relTo(cfg.BaseDir, res.OutputFile)))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// relTo shortens path for display when it lives under base.
func relTo(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// buildContext is the context commands run under when cobra did not set one.
func buildContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
