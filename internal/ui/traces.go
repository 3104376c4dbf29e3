package ui

import (
	"strings"

	"github.com/five82/logscope/internal/trace"
)

// renderContent rebuilds the viewport content from the current snapshot.
func (m *Model) renderContent() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTraces(m.snapshot.Traces))
	if m.follow {
		m.viewport.GotoBottom()
	}
}

// renderTraces colors each trace by level on the viewport background.
func (m *Model) renderTraces(traces []trace.Trace) string {
	bg := NewBgStyle(m.theme.FocusBg)
	width := m.viewport.Width

	if len(traces) == 0 {
		msg := "Waiting for traces..."
		if m.filter != "" || m.level != trace.Verbose {
			msg = "No traces match the current filter"
		}
		return bg.FillLine(bg.Render(msg, m.styles.MutedText), width)
	}

	var b strings.Builder
	b.Grow(len(traces) * 96)
	for i, t := range traces {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(bg.FillLine(m.renderTrace(t, bg), width))
	}
	return b.String()
}

func (m *Model) renderTrace(t trace.Trace, bg BgStyle) string {
	style := m.styles.Level(t.Level())
	return bg.Render(t.Level().Code(), style.Bold(true)) +
		bg.Render(" │ ", m.styles.FaintText) +
		bg.Render(t.Message(), style)
}
