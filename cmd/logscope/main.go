package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/logscope/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "logscope: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var opts app.Options

	cmd := &cobra.Command{
		Use:   "logscope [flags] [-- command args...]",
		Short: "Follow a logcat-style stream with filtering",
		Long: "logscope tails a logcat-style stream (the output of a command, or a file),\n" +
			"keeps the most recent traces that pass the filter, and shows them in a\n" +
			"terminal UI or prints them with --plain.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			opts.Command = args
			if flags.Changed("filter") {
				filter, _ := flags.GetString("filter")
				opts.Filter = &filter
			}
			if flags.Changed("max-traces") {
				n, _ := flags.GetInt("max-traces")
				opts.MaxTraces = &n
			}
			if flags.Changed("sampling") {
				d, _ := flags.GetDuration("sampling")
				opts.Sampling = &d
			}
			return app.Run(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.config/logscope/config.toml)")
	flags.StringVar(&opts.PrefsPath, "prefs", "", "preferences file (default ~/.config/logscope/prefs.toml)")
	flags.StringVarP(&opts.File, "file", "f", "", "tail a log file instead of running a command")
	flags.BoolVar(&opts.Plain, "plain", false, "print traces to stdout instead of starting the UI")
	flags.String("filter", "", "substring or regular expression traces must match")
	flags.StringVarP(&opts.Level, "level", "l", "", "minimum level (V, D, I, W, E, A, F or a name)")
	flags.Int("max-traces", 0, "number of traces to keep")
	flags.Duration("sampling", 150*time.Millisecond, "minimum time between delivered batches")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debug logging")
	return cmd
}
