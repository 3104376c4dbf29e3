package ui

import (
	"fmt"
	"strings"
)

// renderHeader renders the title line: logo, source and active filter.
func (m Model) renderHeader() string {
	bg := NewBgStyle(m.theme.Surface)
	styles := m.styles

	parts := []string{bg.Render("logscope", styles.Logo)}
	if m.source != "" {
		parts = append(parts, bg.Render(truncate(m.source, m.width/3), styles.MutedText))
	}
	parts = append(parts, bg.Render("level≥"+m.level.Code(), styles.Level(m.level)))
	if m.filter != "" {
		parts = append(parts, bg.Render("filter: "+truncate(m.filter, m.width/4), styles.AccentText))
	}

	sep := bg.Space() + bg.Render("•", styles.FaintText) + bg.Space()
	return bg.FillLine(bg.Space()+strings.Join(parts, sep), m.width)
}

// renderFooter renders the filter input while editing, otherwise the status
// bar.
func (m Model) renderFooter() string {
	bg := NewBgStyle(m.theme.Surface)
	if m.editing {
		return bg.FillLine(m.input.View(), m.width)
	}
	return bg.FillLine(m.renderStatus(bg), m.width)
}

func (m Model) renderStatus(bg BgStyle) string {
	styles := m.styles

	follow := "off"
	if m.follow {
		follow = "on"
	}
	parts := []string{
		bg.Render(fmt.Sprintf("%d traces", len(m.snapshot.Traces)), styles.FaintText),
	}
	if m.snapshot.TotalRemoved > 0 {
		parts = append(parts, bg.Render(fmt.Sprintf("%d dropped", m.snapshot.TotalRemoved), styles.MutedText))
	}
	parts = append(parts, bg.Render("follow "+follow, styles.FaintText))
	if !m.snapshot.LastUpdated.IsZero() {
		parts = append(parts, bg.Render(m.snapshot.LastUpdated.Format("15:04:05"), styles.FaintText))
	}

	if m.status != "" {
		style := styles.AccentText
		if m.statusErr {
			style = styles.DangerText
		}
		parts = append(parts, bg.Render(m.status, style))
	} else {
		parts = append(parts, bg.Render("? for help", styles.MutedText))
	}

	sep := bg.Space() + bg.Render("•", styles.FaintText) + bg.Space()
	return bg.Space() + strings.Join(parts, sep)
}

// truncate shortens s to at most max runes, ending with an ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}
