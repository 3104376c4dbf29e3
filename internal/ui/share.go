package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
)

// writeClipboard is swapped in tests.
var writeClipboard = clipboard.WriteAll

// share copies the retained window to the system clipboard.
func (m *Model) share() {
	if m.ctrl == nil {
		return
	}
	text := m.ctrl.Share()
	if text == "" {
		m.setStatus("nothing to copy", false)
		return
	}
	if err := writeClipboard(text); err != nil {
		m.log.Warn("clipboard write failed", zap.Error(err))
		m.setStatus(fmt.Sprintf("copy failed: %v", err), true)
		return
	}
	m.setStatus(fmt.Sprintf("copied %d traces", strings.Count(text, "\n")+1), false)
}
