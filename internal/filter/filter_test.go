package filter

import (
	"testing"

	"github.com/five82/logscope/internal/config"
	"github.com/five82/logscope/internal/trace"
)

const (
	debugLine = "02-07 17:45:33.014 D/Tag debug one"
	errorLine = "02-07 17:45:33.100 E/Tag error two"
)

func cfgWith(t *testing.T, filter string, level trace.Level) config.ReaderConfig {
	t.Helper()
	cfg, err := config.NewReaderConfig().WithFilter(filter).WithLevel(level)
	if err != nil {
		t.Fatalf("WithLevel(%v): %v", level, err)
	}
	return cfg
}

func TestRetain(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		level  trace.Level
		line   string
		want   bool
	}{
		{"no filter keeps debug", "", trace.Verbose, debugLine, true},
		{"no filter still drops short lines", "", trace.Verbose, "short line", false},
		{"case-insensitive substring", "tag", trace.Verbose, debugLine, true},
		{"upper filter text", "ERROR TWO", trace.Verbose, errorLine, true},
		{"substring miss", "zzz", trace.Verbose, errorLine, false},
		{"level below threshold", "", trace.Warning, debugLine, false},
		{"level at or above threshold", "", trace.Warning, errorLine, true},
		{"text and level both required", "debug", trace.Warning, debugLine, false},
		{"text and level both match", "error", trace.Warning, errorLine, true},
		{"regex match", "d/t.g", trace.Verbose, debugLine, true},
		{"regex anchored miss", "^tag", trace.Verbose, debugLine, false},
		{"invalid regex falls back to substring hit", "tag (", trace.Verbose, "02-07 17:45:33.100 I/tag (x)", true},
		{"invalid regex falls back to substring miss", "tag (", trace.Verbose, debugLine, false},
		{"short line rejected even when filter matches", "x", trace.Verbose, "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(cfgWith(t, tt.filter, tt.level), nil)
			if got := f.Retain(tt.line); got != tt.want {
				t.Fatalf("Retain(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestRetain_LevelAndRegex(t *testing.T) {
	lines := []string{debugLine, errorLine}

	keep := func(f *Filter) []string {
		var out []string
		for _, l := range lines {
			if f.Retain(l) {
				out = append(out, l)
			}
		}
		return out
	}

	if got := keep(New(cfgWith(t, "", trace.Warning), nil)); len(got) != 1 || got[0] != errorLine {
		t.Fatalf("level WARNING kept %q, want only the error line", got)
	}
	if got := keep(New(cfgWith(t, "tag", trace.Verbose), nil)); len(got) != 2 {
		t.Fatalf("filter tag kept %q, want both lines", got)
	}
	if got := keep(New(cfgWith(t, "zzz", trace.Verbose), nil)); len(got) != 0 {
		t.Fatalf("filter zzz kept %q, want none", got)
	}
}

func TestUpdate_RecompilesOnlyOnTextChange(t *testing.T) {
	f := New(cfgWith(t, "t.g", trace.Verbose), nil)
	if !f.HasRegex() {
		t.Fatalf("HasRegex = false, want compiled regex")
	}
	before := f.regex

	f.Update(cfgWith(t, "t.g", trace.Error))
	if f.regex != before {
		t.Fatalf("regex recompiled although filter text did not change")
	}
	if f.Retain(debugLine) {
		t.Fatalf("level update not applied")
	}

	f.Update(cfgWith(t, "[", trace.Verbose))
	if f.HasRegex() {
		t.Fatalf("HasRegex = true for invalid pattern")
	}

	f.Update(cfgWith(t, "", trace.Verbose))
	if f.HasRegex() {
		t.Fatalf("HasRegex = true for empty filter")
	}
	if !f.Retain(debugLine) {
		t.Fatalf("cleared filter should keep everything")
	}
}
