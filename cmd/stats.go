package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/showcase-dev/showcase/internal/fsutil"
	"github.com/showcase-dev/showcase/internal/stats"
)

var (
	flagStatsFormat string
	flagStatsOutput string
	flagStatsStdout bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Write project statistics as JSON or Markdown",
	Long: `Scans the projects tree without using the build cache and writes
project, category and technology counts.

The report goes to <dir>/stats.json or <dir>/stats.md unless --output
or --stdout is given.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&flagStatsFormat, "format", "json", "Report format: json or markdown")
	statsCmd.Flags().StringVarP(&flagStatsOutput, "output", "o", "", "Output file (default stats.json / stats.md in --dir)")
	statsCmd.Flags().BoolVar(&flagStatsStdout, "stdout", false, "Print the report instead of writing a file")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	format, err := stats.ParseFormat(flagStatsFormat)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	report := stats.Collect(cfg.Layout(), skipReporter{base: cfg.BaseDir}, time.Now())
	data, err := report.Encode(format)
	if err != nil {
		return err
	}
	if flagStatsStdout {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	out := flagStatsOutput
	if out == "" {
		out = filepath.Join(cfg.BaseDir, format.DefaultFile())
	}
	if err := fsutil.WriteFileAtomic(out, data, 0o644); err != nil {
		return fmt.Errorf("cannot write stats: %w", err)
	}
	printOK("", fmt.Sprintf("%d projects in %d categories -> %s",
		report.TotalProjects, len(report.Categories), relTo(cfg.BaseDir, out)))
	return nil
}
