package main

import (
	"testing"
	"time"
)

func TestRootCmdFlags(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.ParseFlags([]string{"--plain", "--filter", "wifi", "-l", "warn", "--sampling", "20ms", "--max-traces", "10"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	flags := cmd.Flags()

	for _, name := range []string{"plain", "filter", "level", "sampling", "max-traces"} {
		if !flags.Changed(name) {
			t.Fatalf("flag %q not marked changed", name)
		}
	}
	if flags.Changed("config") || flags.Changed("file") {
		t.Fatalf("unset flags reported as changed")
	}
	if d, _ := flags.GetDuration("sampling"); d != 20*time.Millisecond {
		t.Fatalf("sampling = %v", d)
	}
	if n, _ := flags.GetInt("max-traces"); n != 10 {
		t.Fatalf("max-traces = %d", n)
	}
}
