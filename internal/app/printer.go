package app

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/logscope/internal/trace"
)

// printer is the plain-mode listener. It writes each trace on its own line,
// coloring the level when out is a color terminal.
type printer struct {
	mu     sync.Mutex
	out    io.Writer
	levels [trace.Fatal + 1]lipgloss.Style
}

var plainLevelColors = [trace.Fatal + 1]string{
	trace.Verbose: "8",
	trace.Debug:   "6",
	trace.Info:    "2",
	trace.Warning: "3",
	trace.Error:   "1",
	trace.Assert:  "5",
	trace.Fatal:   "9",
}

func newPrinter(out io.Writer) *printer {
	renderer := lipgloss.NewRenderer(out)
	p := &printer{out: out}
	for lvl, color := range plainLevelColors {
		p.levels[lvl] = renderer.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
	}
	return p
}

func (p *printer) OnNewTraces(traces []trace.Trace) string {
	if len(traces) == 0 {
		return ""
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, tr := range traces {
		code := tr.Level().Code() + "/"
		if lvl := tr.Level(); lvl.Valid() {
			code = p.levels[lvl].Render(code)
		}
		_, _ = fmt.Fprintf(p.out, "%s %s\n", code, tr.Message())
	}
	return traces[len(traces)-1].Plain()
}
