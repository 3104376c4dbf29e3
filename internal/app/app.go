package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/five82/logscope/internal/config"
	"github.com/five82/logscope/internal/logtail"
	"github.com/five82/logscope/internal/prefs"
	"github.com/five82/logscope/internal/presenter"
	"github.com/five82/logscope/internal/reader"
	"github.com/five82/logscope/internal/state"
	"github.com/five82/logscope/internal/trace"
	"github.com/five82/logscope/internal/ui"
)

// Options configure the logscope application. Pointer fields override the
// config file only when set.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/logscope/prefs.toml

	Command []string // overrides the configured command
	File    string   // tail this file instead of running a command

	Filter    *string
	Level     string
	MaxTraces *int
	Sampling  *time.Duration

	Plain bool // print traces to Stdout instead of starting the TUI
	Debug bool

	Stdout io.Writer // plain mode output; nil uses os.Stdout
}

// Run boots logscope until the context is cancelled, the user quits, or (in
// plain mode) the stream ends.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Preferences only steer the interactive UI.
	userPrefs := prefs.Default()
	if !opts.Plain {
		userPrefs, _ = prefs.Load(opts.PrefsPath)
	}

	readerCfg, err := resolveReaderConfig(cfg.Reader, userPrefs, opts)
	if err != nil {
		return fmt.Errorf("reader config: %w", err)
	}

	log, err := buildLogger(cfg.LogFile, opts.Plain, opts.Debug)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	src, label := buildSource(cfg, opts, log)
	log.Info("starting",
		zap.String("source", label),
		zap.Bool("plain", opts.Plain),
		zap.Stringer("reader", readerCfg),
	)

	factory := func() *logtail.Tailer {
		return logtail.New(log.Named("tailer"), src)
	}

	if opts.Plain {
		out := opts.Stdout
		if out == nil {
			out = os.Stdout
		}
		return runPlain(ctx, log, factory, readerCfg, out)
	}
	return runUI(ctx, log, factory, readerCfg, userPrefs, opts.PrefsPath, label)
}

func runUI(ctx context.Context, log *zap.Logger, factory reader.TailerFactory, readerCfg config.ReaderConfig, userPrefs prefs.Prefs, prefsPath, label string) error {
	store := &state.Store{}
	dispatcher := ui.NewDispatcher(log.Named("dispatch"))
	defer dispatcher.Close()

	r := reader.New(log.Named("reader"), dispatcher, factory, reader.WithConfig(readerCfg))
	defer r.StopReading()

	pres, err := presenter.New(r, store, readerCfg.MaxTraces(), presenter.WithLogger(log.Named("presenter")))
	if err != nil {
		return err
	}

	uiCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(uiCtx)

	g.Go(func() error {
		return RunFlusher(gctx, r, flushInterval(readerCfg))
	})
	g.Go(func() error {
		defer cancel()
		return ui.Run(gctx, ui.Options{
			Store:      store,
			Controller: pres,
			Dispatcher: dispatcher,
			Log:        log.Named("ui"),
			Source:     label,
			Filter:     readerCfg.Filter(),
			Level:      readerCfg.Level(),
			ThemeName:  userPrefs.Theme,
			PrefsPath:  prefsPath,
		})
	})
	return g.Wait()
}

func runPlain(ctx context.Context, log *zap.Logger, factory reader.TailerFactory, readerCfg config.ReaderConfig, out io.Writer) error {
	queue := reader.NewQueue(log.Named("queue"))
	defer queue.Close()

	// Plain mode never restarts, so the first tailer is the only one.
	started := make(chan *logtail.Tailer, 1)
	tracked := func() *logtail.Tailer {
		t := factory()
		select {
		case started <- t:
		default:
		}
		return t
	}

	r := reader.New(log.Named("reader"), queue, tracked, reader.WithConfig(readerCfg))
	r.Register(newPrinter(out))
	r.StartReading()
	defer r.StopReading()

	interval := flushInterval(readerCfg)
	plainCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(plainCtx)

	g.Go(func() error {
		return RunFlusher(gctx, r, interval)
	})
	g.Go(func() error {
		defer cancel()
		var t *logtail.Tailer
		select {
		case <-gctx.Done():
			return nil
		case t = <-started:
		}
		select {
		case <-gctx.Done():
			return nil
		case <-t.Done():
		}
		// Let the sampling gate open once more so the tail is printed.
		timer := time.NewTimer(readerCfg.SamplingInterval() + time.Millisecond)
		defer timer.Stop()
		select {
		case <-gctx.Done():
		case <-timer.C:
		}
		r.Flush()
		log.Debug("stream finished")
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	// Drain posted batches before stopping, or they would be dropped as stale.
	queue.Close()
	r.StopReading()
	return nil
}

// resolveReaderConfig layers preferences and then command-line overrides on
// top of the config file.
func resolveReaderConfig(base config.ReaderConfig, p prefs.Prefs, opts Options) (config.ReaderConfig, error) {
	cfg := base
	var err error

	if p.Filter != "" {
		cfg = cfg.WithFilter(p.Filter)
	}
	if level, ok := p.MinLevel(); ok {
		if cfg, err = cfg.WithLevel(level); err != nil {
			return base, err
		}
	}

	if opts.Filter != nil {
		cfg = cfg.WithFilter(*opts.Filter)
	}
	if strings.TrimSpace(opts.Level) != "" {
		level, err := trace.LevelFromString(opts.Level)
		if err != nil {
			return base, err
		}
		if cfg, err = cfg.WithLevel(level); err != nil {
			return base, err
		}
	}
	if opts.MaxTraces != nil {
		if cfg, err = cfg.WithMaxTraces(*opts.MaxTraces); err != nil {
			return base, err
		}
	}
	if opts.Sampling != nil {
		cfg = cfg.WithSamplingInterval(*opts.Sampling)
	}
	return cfg, cfg.Validate()
}

// buildSource picks the file or command source and a label for display.
func buildSource(cfg config.Config, opts Options, log *zap.Logger) (logtail.Source, string) {
	file := cfg.File
	if strings.TrimSpace(opts.File) != "" {
		file = opts.File
		if expanded, err := config.ExpandPath(opts.File); err == nil {
			file = expanded
		}
	}
	if file != "" && len(opts.Command) == 0 {
		return logtail.FileSource{
			Path:    file,
			Backlog: cfg.Backlog,
			Poll:    cfg.Poll,
			Log:     log.Named("file"),
		}, file
	}

	argv := cfg.Command
	if len(opts.Command) > 0 {
		argv = opts.Command
	}
	return logtail.CommandSource{
		Argv: argv,
		Log:  log.Named("command"),
	}, strings.Join(argv, " ")
}
