package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/logscope/internal/prefs"
	"github.com/five82/logscope/internal/state"
	"github.com/five82/logscope/internal/trace"
)

// Controller is the presenter surface driven by key handling.
type Controller interface {
	Resume()
	Pause()
	UpdateFilter(filter string) error
	UpdateFilterLevel(level trace.Level) error
	Share() string
}

// Options configures the UI.
type Options struct {
	Store      *state.Store
	Controller Controller
	Dispatcher *Dispatcher
	Log        *zap.Logger

	Source    string // shown in the header
	Filter    string
	Level     trace.Level
	ThemeName string
	PrefsPath string
}

// statusTTL is how long transient status messages stay visible.
const statusTTL = 4 * time.Second

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	store     *state.Store
	ctrl      Controller
	log       *zap.Logger
	keys      keyMap
	prefsPath string
	source    string

	// UI state
	theme    Theme
	styles   Styles
	width    int
	height   int
	ready    bool
	showHelp bool
	help     help.Model

	// Trace view
	viewport viewport.Model
	follow   bool
	snapshot state.Snapshot
	rendered uint64 // snapshot version currently in the viewport

	// Filter state
	filter    string
	level     trace.Level
	editing   bool
	input     textinput.Model
	status    string
	statusErr bool
	statusAt  time.Time
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	level := opts.Level
	if !level.Valid() {
		level = trace.Verbose
	}

	ti := textinput.New()
	ti.Placeholder = "substring or regexp"
	ti.Prompt = "filter: "
	ti.CharLimit = 200

	theme := GetTheme(themeName)
	return Model{
		store:     opts.Store,
		ctrl:      opts.Controller,
		log:       log,
		keys:      DefaultKeyMap(),
		prefsPath: prefsPath,
		source:    opts.Source,
		theme:     theme,
		styles:    theme.Styles(),
		help:      help.New(),
		follow:    true,
		filter:    opts.Filter,
		level:     level,
		input:     ti,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return startMsg{} }
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case startMsg:
		if m.ctrl != nil {
			m.ctrl.Resume()
		}
		return m, tickCmd()

	case runMsg:
		msg()
		m.refresh()
		return m, nil

	case tickMsg:
		if m.status != "" && time.Since(m.statusAt) > statusTTL {
			m.status = ""
		}
		m.refresh()
		return m, tickCmd()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-12, 10)
		if !m.ready {
			m.viewport = viewport.New(m.width, m.viewportHeight())
		}
		m.ready = true
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.editing {
		return m.handleFilterInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.ctrl != nil {
			m.ctrl.Pause()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.styles = m.theme.Styles()
		m.savePrefs()
		m.renderContent()
		return m, nil

	case key.Matches(msg, m.keys.EditFilter):
		m.editing = true
		m.input.SetValue(m.filter)
		m.input.CursorEnd()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.ClearFilter):
		m.applyFilter("")
		return m, nil

	case key.Matches(msg, m.keys.LevelUp):
		m.applyLevel(m.level.Next())
		return m, nil

	case key.Matches(msg, m.keys.LevelDown):
		m.applyLevel(m.level.Prev())
		return m, nil

	case key.Matches(msg, m.keys.ToggleFollow):
		m.follow = !m.follow
		if m.follow {
			m.viewport.GotoBottom()
		}
		return m, nil

	case key.Matches(msg, m.keys.Share):
		m.share()
		return m, nil
	}

	return m.handleScrollKey(msg)
}

// handleScrollKey moves the viewport. Scrolling away from the bottom stops
// following; reaching it again resumes.
func (m Model) handleScrollKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.viewport.HalfViewUp()
	case key.Matches(msg, m.keys.HalfPageDown):
		m.viewport.HalfViewDown()
	default:
		return m, nil
	}
	m.follow = m.viewport.AtBottom()
	return m, nil
}

// handleFilterInput routes keys to the filter text input.
func (m Model) handleFilterInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.editing = false
		m.input.Blur()
		m.applyFilter(strings.TrimSpace(m.input.Value()))
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.editing = false
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) applyFilter(filter string) {
	if filter == m.filter {
		return
	}
	if m.ctrl != nil {
		if err := m.ctrl.UpdateFilter(filter); err != nil {
			m.setStatus(fmt.Sprintf("filter rejected: %v", err), true)
			return
		}
	}
	m.filter = filter
	m.follow = true
	m.savePrefs()
	m.refresh()
}

func (m *Model) applyLevel(level trace.Level) {
	if m.ctrl != nil {
		if err := m.ctrl.UpdateFilterLevel(level); err != nil {
			m.setStatus(fmt.Sprintf("level rejected: %v", err), true)
			return
		}
	}
	m.level = level
	m.follow = true
	m.savePrefs()
	m.refresh()
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, Filter: m.filter}
	if m.level != trace.Verbose {
		p.Level = m.level.Code()
	}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.log.Warn("save prefs failed", zap.Error(err))
	}
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
	m.statusAt = time.Now()
}

// refresh pulls a new snapshot when the store changed.
func (m *Model) refresh() {
	if m.store == nil || m.store.Version() == m.rendered {
		return
	}
	m.snapshot = m.store.Snapshot()
	m.rendered = m.snapshot.Version
	m.renderContent()
}

func (m *Model) viewportHeight() int {
	// header + footer
	return max(m.height-2, 1)
}

func (m *Model) layout() {
	m.viewport.Width = m.width
	m.viewport.Height = m.viewportHeight()
	m.renderContent()
}

// Messages

type startMsg struct{}

type tickMsg time.Time

// Commands

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Run starts the Bubble Tea program and blocks until it exits or ctx is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if opts.Dispatcher != nil {
		opts.Dispatcher.Attach(p)
	}
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		if opts.Controller != nil {
			opts.Controller.Pause()
		}
		return nil
	}
	return err
}
