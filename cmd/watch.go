package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/showcase-dev/showcase/internal/builder"
	"github.com/showcase-dev/showcase/internal/watch"
)

var (
	flagWatchMode     string
	flagWatchInterval time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the index page whenever a project manifest changes",
	Long: `Builds once, then keeps the index page current until interrupted.

Modes:
  poll    stat every manifest each --interval (default)
  notify  react to filesystem events, debounced by watch_debounce`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&flagWatchMode, "mode", "", "Watch mode: poll or notify (overrides config)")
	watchCmd.Flags().DurationVar(&flagWatchInterval, "interval", 0, "Poll interval (overrides config)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagWatchMode != "" {
		cfg.WatchMode = flagWatchMode
	}
	if flagWatchInterval > 0 {
		cfg.WatchInterval = flagWatchInterval.String()
	}
	b, err := newBuilder(cfg, false)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(buildContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	onBuild := func(res *builder.Result, err error) {
		if err != nil {
			printErr("", fmt.Sprintf("build failed: %v", err))
			return
		}
		printBuildResult(cfg, res)
	}

	printSection("Watch")
	switch cfg.WatchMode {
	case "poll":
		interval, err := cfg.Interval()
		if err != nil {
			return err
		}
		printInfo("", fmt.Sprintf("Polling %s every %s (Ctrl+C to stop)", cfg.BaseDir, interval))
		p := &watch.Poller{Layout: cfg.Layout(), Interval: interval, Builder: b, OnBuild: onBuild}
		return finishWatch(ctx, p.Run(ctx))
	case "notify":
		debounce, err := cfg.Debounce()
		if err != nil {
			return err
		}
		printInfo("", fmt.Sprintf("Watching %s, debounce %s (Ctrl+C to stop)", cfg.BaseDir, debounce))
		n := &watch.Notifier{
			Layout:   cfg.Layout(),
			Debounce: debounce,
			Builder:  b,
			OnBuild:  onBuild,
			OnError:  func(err error) { printWarn("", err.Error()) },
		}
		return finishWatch(ctx, n.Run(ctx))
	default:
		return fmt.Errorf("unknown watch mode %q (want poll or notify)", cfg.WatchMode)
	}
}

func finishWatch(ctx context.Context, err error) error {
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		fmt.Println()
		printInfo("", "Stopped")
	}
	return nil
}

