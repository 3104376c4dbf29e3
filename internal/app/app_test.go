package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/five82/logscope/internal/config"
	"github.com/five82/logscope/internal/logtail"
	"github.com/five82/logscope/internal/prefs"
	"github.com/five82/logscope/internal/trace"
)

func ptr[T any](v T) *T { return &v }

func TestResolveReaderConfig_Precedence(t *testing.T) {
	base := config.NewReaderConfig().WithFilter("from-config")

	tests := []struct {
		name       string
		prefs      prefs.Prefs
		opts       Options
		wantFilter string
		wantLevel  trace.Level
		wantMax    int
	}{
		{
			name:       "config only",
			wantFilter: "from-config",
			wantLevel:  trace.Verbose,
			wantMax:    config.DefaultMaxTraces,
		},
		{
			name:       "prefs override config",
			prefs:      prefs.Prefs{Filter: "from-prefs", Level: "W"},
			wantFilter: "from-prefs",
			wantLevel:  trace.Warning,
			wantMax:    config.DefaultMaxTraces,
		},
		{
			name:  "flags override prefs",
			prefs: prefs.Prefs{Filter: "from-prefs", Level: "W"},
			opts: Options{
				Filter:    ptr(""),
				Level:     "error",
				MaxTraces: ptr(10),
			},
			wantFilter: "",
			wantLevel:  trace.Error,
			wantMax:    10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveReaderConfig(base, tt.prefs, tt.opts)
			if err != nil {
				t.Fatalf("resolveReaderConfig: %v", err)
			}
			if got.Filter() != tt.wantFilter {
				t.Fatalf("Filter() = %q, want %q", got.Filter(), tt.wantFilter)
			}
			if got.Level() != tt.wantLevel {
				t.Fatalf("Level() = %v, want %v", got.Level(), tt.wantLevel)
			}
			if got.MaxTraces() != tt.wantMax {
				t.Fatalf("MaxTraces() = %d, want %d", got.MaxTraces(), tt.wantMax)
			}
		})
	}
}

func TestResolveReaderConfig_RejectsBadFlags(t *testing.T) {
	base := config.NewReaderConfig()

	if _, err := resolveReaderConfig(base, prefs.Prefs{}, Options{Level: "loud"}); !errors.Is(err, trace.ErrInvalidLevel) {
		t.Fatalf("bad level err = %v, want ErrInvalidLevel", err)
	}
	if _, err := resolveReaderConfig(base, prefs.Prefs{}, Options{MaxTraces: ptr(0)}); !errors.Is(err, config.ErrInvalidMaxTraces) {
		t.Fatalf("bad max traces err = %v, want ErrInvalidMaxTraces", err)
	}
}

func TestResolveReaderConfig_Sampling(t *testing.T) {
	got, err := resolveReaderConfig(config.NewReaderConfig(), prefs.Prefs{}, Options{Sampling: ptr(20 * time.Millisecond)})
	if err != nil {
		t.Fatalf("resolveReaderConfig: %v", err)
	}
	if got.SamplingInterval() != 20*time.Millisecond {
		t.Fatalf("SamplingInterval() = %v", got.SamplingInterval())
	}
}

func TestBuildSource(t *testing.T) {
	cfg := config.Default()
	log := zap.NewNop()

	src, label := buildSource(cfg, Options{}, log)
	if _, ok := src.(logtail.CommandSource); !ok {
		t.Fatalf("default source = %T, want CommandSource", src)
	}
	if label != "logcat -v time" {
		t.Fatalf("label = %q", label)
	}

	path := filepath.Join(t.TempDir(), "device.log")
	src, label = buildSource(cfg, Options{File: path}, log)
	fs, ok := src.(logtail.FileSource)
	if !ok {
		t.Fatalf("file source = %T, want FileSource", src)
	}
	if fs.Path != path || label != path || fs.Backlog != cfg.Backlog {
		t.Fatalf("file source = %+v label %q", fs, label)
	}

	// An explicit command beats a configured file.
	cfg.File = path
	src, label = buildSource(cfg, Options{Command: []string{"adb", "logcat"}}, log)
	if cs, ok := src.(logtail.CommandSource); !ok || label != "adb logcat" || len(cs.Argv) != 2 {
		t.Fatalf("command override = %T %q", src, label)
	}
}

type countingFlusher struct{ n atomic.Int32 }

func (f *countingFlusher) Flush() { f.n.Add(1) }

func TestRunFlusher(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	f := &countingFlusher{}

	done := make(chan error, 1)
	go func() { done <- RunFlusher(ctx, f, time.Millisecond) }()

	deadline := time.Now().Add(5 * time.Second)
	for f.n.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("flusher did not tick")
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("RunFlusher returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("RunFlusher did not stop on cancel")
	}
}

func TestFlushInterval(t *testing.T) {
	if got := flushInterval(config.NewReaderConfig().WithSamplingInterval(0)); got != minFlushInterval {
		t.Fatalf("flushInterval(0) = %v, want %v", got, minFlushInterval)
	}
	if got := flushInterval(config.NewReaderConfig()); got != config.DefaultSamplingInterval {
		t.Fatalf("flushInterval(default) = %v", got)
	}
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf)

	if ack := p.OnNewTraces(nil); ack != "" {
		t.Fatalf("empty batch ack = %q", ack)
	}

	var batch []trace.Trace
	for _, line := range []string{
		"02-07 17:45:33.100 I/Tag first",
		"02-07 17:45:33.200 E/Tag second",
	} {
		tr, err := trace.Parse(line)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		batch = append(batch, tr)
	}

	ack := p.OnNewTraces(batch)
	if ack != batch[1].Plain() {
		t.Fatalf("ack = %q, want %q", ack, batch[1].Plain())
	}
	want := batch[0].Plain() + "\n" + batch[1].Plain() + "\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
}

func TestBuildLogger(t *testing.T) {
	log, err := buildLogger("", false, false)
	if err != nil {
		t.Fatalf("buildLogger: %v", err)
	}
	if log.Core().Enabled(zap.ErrorLevel) {
		t.Fatalf("empty log file should disable logging")
	}

	path := filepath.Join(t.TempDir(), "state", "logscope.log")
	log, err = buildLogger(path, false, true)
	if err != nil {
		t.Fatalf("buildLogger: %v", err)
	}
	log.Debug("hello", zap.String("k", "v"))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Fatalf("log file missing entry: %s", data)
	}
}

func TestRun_PlainCommand(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	cfgText := `command = ["sh", "-c", "printf '02-07 17:45:33.100 D/Tag quiet\n02-07 17:45:33.200 E/Tag loud\nnot a trace\n02-07 17:45:33.300 W/Tag careful\n'"]
log_file = ""

[reader]
level = "I"
sampling_ms = 10
`
	if err := os.WriteFile(cfgPath, []byte(cfgText), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var out bytes.Buffer
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := Run(ctx, Options{ConfigPath: cfgPath, Plain: true, Stdout: &out})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ctx.Err() != nil {
		t.Fatalf("Run did not return when the stream ended")
	}

	want := "E/ 02-07 17:45:33.200 Tag loud\nW/ 02-07 17:45:33.300 Tag careful\n"
	if out.String() != want {
		t.Fatalf("output = %q, want %q", out.String(), want)
	}
}
