// Package filter decides which raw log lines are kept by the reader.
package filter

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/five82/logscope/internal/config"
	"github.com/five82/logscope/internal/trace"
)

// Filter holds the compiled matcher for one ReaderConfig. It is not safe for
// concurrent use; the reader guards it with its own mutex.
type Filter struct {
	log *zap.Logger

	cfg   config.ReaderConfig
	lower string
	regex *regexp.Regexp
}

// New builds a filter for cfg.
func New(cfg config.ReaderConfig, log *zap.Logger) *Filter {
	if log == nil {
		log = zap.NewNop()
	}
	f := &Filter{log: log}
	f.compile(cfg)
	return f
}

// Update applies cfg. The regular expression is recompiled only when the
// filter text changed.
func (f *Filter) Update(cfg config.ReaderConfig) {
	if cfg.Filter() == f.cfg.Filter() {
		f.cfg = cfg
		return
	}
	f.compile(cfg)
}

func (f *Filter) compile(cfg config.ReaderConfig) {
	f.cfg = cfg
	f.lower = strings.ToLower(cfg.Filter())
	f.regex = nil
	if f.lower == "" {
		return
	}
	re, err := regexp.Compile(f.lower)
	if err != nil {
		f.log.Debug("invalid regexp filter, using substring match", zap.String("filter", cfg.Filter()), zap.Error(err))
		return
	}
	f.regex = re
}

// HasRegex reports whether the filter text compiled as a regular expression.
func (f *Filter) HasRegex() bool {
	return f.regex != nil
}

// Retain reports whether line should be kept.
func (f *Filter) Retain(line string) bool {
	if len(line) < trace.MinTraceSize {
		return false
	}
	if !f.cfg.HasFilter() {
		return true
	}
	return f.matchesText(line) && f.matchesLevel(line)
}

func (f *Filter) matchesText(line string) bool {
	lower := strings.ToLower(line)
	if strings.Contains(lower, f.lower) {
		return true
	}
	return f.regex != nil && f.regex.MatchString(lower)
}

func (f *Filter) matchesLevel(line string) bool {
	min := f.cfg.Level()
	if min == trace.Verbose {
		return true
	}
	return trace.ParseLevel(line[trace.LevelIndex]) >= min
}
