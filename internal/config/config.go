package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/logscope/internal/trace"
)

// Config is the logscope configuration file.
type Config struct {
	Command []string
	File    string
	Backlog int
	Poll    bool
	LogFile string
	Reader  ReaderConfig
}

const (
	defaultConfigPath = "~/.config/logscope/config.toml"
	defaultLogFile    = "~/.local/state/logscope/logscope.log"
	defaultBacklog    = 200
)

// DefaultCommand is the stream logscope reads when no file is configured.
var DefaultCommand = []string{"logcat", "-v", "time"}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Command: append([]string(nil), DefaultCommand...),
		Backlog: defaultBacklog,
		LogFile: mustExpand(defaultLogFile),
		Reader:  NewReaderConfig(),
	}
}

type rawReader struct {
	MaxTraces  *int     `toml:"max_traces"`
	Filter     string   `toml:"filter"`
	Level      string   `toml:"level"`
	SamplingMS *int     `toml:"sampling_ms"`
	TextSize   *float64 `toml:"text_size"`
}

type rawConfig struct {
	Command []string  `toml:"command"`
	File    string    `toml:"file"`
	Backlog *int      `toml:"backlog"`
	Poll    bool      `toml:"poll"`
	LogFile *string   `toml:"log_file"`
	Reader  rawReader `toml:"reader"`
}

// Load reads the config at path (or the default location), falling back to
// defaults when the file is missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if cmd := trimArgs(raw.Command); len(cmd) > 0 {
		cfg.Command = cmd
	}
	if file := strings.TrimSpace(raw.File); file != "" {
		cfg.File = mustExpand(file)
	}
	if raw.Backlog != nil && *raw.Backlog >= 0 {
		cfg.Backlog = *raw.Backlog
	}
	cfg.Poll = raw.Poll
	if raw.LogFile != nil {
		// An explicit empty log_file disables logging.
		cfg.LogFile = strings.TrimSpace(*raw.LogFile)
		if cfg.LogFile != "" {
			cfg.LogFile = mustExpand(cfg.LogFile)
		}
	}

	reader, err := raw.Reader.apply(cfg.Reader)
	if err != nil {
		return Config{}, fmt.Errorf("reader config: %w", err)
	}
	cfg.Reader = reader

	return cfg, nil
}

func (r rawReader) apply(base ReaderConfig) (ReaderConfig, error) {
	cfg := base
	if r.MaxTraces != nil {
		next, err := cfg.WithMaxTraces(*r.MaxTraces)
		if err != nil {
			return base, err
		}
		cfg = next
	}
	cfg = cfg.WithFilter(r.Filter)
	if level := strings.TrimSpace(r.Level); level != "" {
		parsed, err := trace.LevelFromString(level)
		if err != nil {
			return base, err
		}
		if cfg, err = cfg.WithLevel(parsed); err != nil {
			return base, err
		}
	}
	if r.SamplingMS != nil {
		cfg = cfg.WithSamplingInterval(time.Duration(*r.SamplingMS) * time.Millisecond)
	}
	if r.TextSize != nil {
		cfg = cfg.WithTextSize(*r.TextSize)
	}
	return cfg, nil
}

func trimArgs(args []string) []string {
	var out []string
	for _, arg := range args {
		if trimmed := strings.TrimSpace(arg); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading "~" and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
