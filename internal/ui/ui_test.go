package ui

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/logscope/internal/prefs"
	"github.com/five82/logscope/internal/state"
	"github.com/five82/logscope/internal/trace"
)

type fakeController struct {
	resumed, paused int
	filters         []string
	levels          []trace.Level
	shareText       string
	levelErr        error
}

func (c *fakeController) Resume() { c.resumed++ }
func (c *fakeController) Pause()  { c.paused++ }

func (c *fakeController) UpdateFilter(filter string) error {
	c.filters = append(c.filters, filter)
	return nil
}

func (c *fakeController) UpdateFilterLevel(level trace.Level) error {
	if c.levelErr != nil {
		return c.levelErr
	}
	c.levels = append(c.levels, level)
	return nil
}

func (c *fakeController) Share() string { return c.shareText }

func newTestModel(t *testing.T, ctrl Controller, store *state.Store) (Model, string) {
	t.Helper()
	prefsPath := filepath.Join(t.TempDir(), "prefs.toml")
	m := New(Options{
		Store:      store,
		Controller: ctrl,
		Source:     "logcat -v time",
		PrefsPath:  prefsPath,
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	return next.(Model), prefsPath
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func mustTrace(t *testing.T, line string) trace.Trace {
	t.Helper()
	tr, err := trace.Parse(line)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return tr
}

func TestModel_StartResumesController(t *testing.T) {
	ctrl := &fakeController{}
	m, _ := newTestModel(t, ctrl, &state.Store{})

	if msg := m.Init()(); msg != (startMsg{}) {
		t.Fatalf("Init() message = %#v, want startMsg", msg)
	}
	send(m, startMsg{})
	if ctrl.resumed != 1 {
		t.Fatalf("Resume calls = %d, want 1", ctrl.resumed)
	}
}

func TestModel_RunMsgRendersStoreChanges(t *testing.T) {
	store := &state.Store{}
	m, _ := newTestModel(t, &fakeController{}, store)

	if !strings.Contains(m.View(), "Waiting for traces") {
		t.Fatalf("empty view missing placeholder:\n%s", m.View())
	}

	tr := mustTrace(t, "02-07 17:45:33.100 E/Tag: disk on fire")
	m = send(m, runMsg(func() { store.ShowTraces([]trace.Trace{tr}, 0) }))

	view := m.View()
	if !strings.Contains(view, "disk on fire") {
		t.Fatalf("view missing trace:\n%s", view)
	}
	if !strings.Contains(view, "1 traces") {
		t.Fatalf("status bar missing count:\n%s", view)
	}
	if m.rendered != store.Version() {
		t.Fatalf("rendered version = %d, want %d", m.rendered, store.Version())
	}
}

func TestModel_FilterEditing(t *testing.T) {
	ctrl := &fakeController{}
	m, prefsPath := newTestModel(t, ctrl, &state.Store{})

	m = send(m, keyRunes("/"))
	if !m.editing {
		t.Fatalf("editing = false after /")
	}
	m = send(m, keyRunes("wifi"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.editing {
		t.Fatalf("editing = true after enter")
	}
	if len(ctrl.filters) != 1 || ctrl.filters[0] != "wifi" {
		t.Fatalf("filters = %q, want [wifi]", ctrl.filters)
	}
	if !strings.Contains(m.View(), "filter: wifi") {
		t.Fatalf("header missing filter:\n%s", m.View())
	}

	saved, err := prefs.Load(prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if saved.Filter != "wifi" {
		t.Fatalf("saved filter = %q, want wifi", saved.Filter)
	}

	// esc abandons the edit.
	m = send(m, keyRunes("/"), keyRunes("x"), tea.KeyMsg{Type: tea.KeyEsc})
	if len(ctrl.filters) != 1 || m.filter != "wifi" {
		t.Fatalf("cancelled edit applied: filters=%q filter=%q", ctrl.filters, m.filter)
	}

	m = send(m, keyRunes("x"))
	if len(ctrl.filters) != 2 || ctrl.filters[1] != "" {
		t.Fatalf("clear filter not applied: %q", ctrl.filters)
	}
}

func TestModel_LevelCycling(t *testing.T) {
	ctrl := &fakeController{}
	m, _ := newTestModel(t, ctrl, &state.Store{})

	m = send(m, keyRunes("L"), keyRunes("L"), keyRunes("l"))
	want := []trace.Level{trace.Debug, trace.Info, trace.Debug}
	if len(ctrl.levels) != len(want) {
		t.Fatalf("levels = %v, want %v", ctrl.levels, want)
	}
	for i := range want {
		if ctrl.levels[i] != want[i] {
			t.Fatalf("levels = %v, want %v", ctrl.levels, want)
		}
	}
	if m.level != trace.Debug {
		t.Fatalf("level = %v, want debug", m.level)
	}

	ctrl.levelErr = errors.New("nope")
	m = send(m, keyRunes("L"))
	if m.level != trace.Debug || !m.statusErr {
		t.Fatalf("rejected level changed state: level=%v statusErr=%v", m.level, m.statusErr)
	}
}

func TestModel_ShareCopiesToClipboard(t *testing.T) {
	var copied string
	orig := writeClipboard
	writeClipboard = func(text string) error {
		copied = text
		return nil
	}
	t.Cleanup(func() { writeClipboard = orig })

	ctrl := &fakeController{shareText: "E/ one\nW/ two"}
	m, _ := newTestModel(t, ctrl, &state.Store{})
	m = send(m, keyRunes("s"))

	if copied != ctrl.shareText {
		t.Fatalf("clipboard = %q, want %q", copied, ctrl.shareText)
	}
	if m.status != "copied 2 traces" {
		t.Fatalf("status = %q", m.status)
	}
}

func TestModel_FollowAndQuit(t *testing.T) {
	ctrl := &fakeController{}
	m, _ := newTestModel(t, ctrl, &state.Store{})

	m = send(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if m.follow {
		t.Fatalf("follow = true after toggle")
	}
	m = send(m, keyRunes("G"))
	if !m.follow {
		t.Fatalf("follow = false after jumping to the bottom")
	}

	_, cmd := m.Update(keyRunes("q"))
	if cmd == nil {
		t.Fatalf("quit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("quit command did not quit")
	}
	if ctrl.paused != 1 {
		t.Fatalf("Pause calls = %d, want 1", ctrl.paused)
	}
}

func TestModel_HelpOverlay(t *testing.T) {
	m, _ := newTestModel(t, &fakeController{}, &state.Store{})
	m = send(m, keyRunes("?"))
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help overlay not shown")
	}
	m = send(m, keyRunes("j"))
	if m.showHelp {
		t.Fatalf("help still shown after a key")
	}
}

func TestModel_ThemeCycleSavesPrefs(t *testing.T) {
	m, prefsPath := newTestModel(t, &fakeController{}, &state.Store{})
	m = send(m, keyRunes("T"))
	if m.theme.Name != "Nightfox" {
		t.Fatalf("theme = %q, want Nightfox", m.theme.Name)
	}
	saved, _ := prefs.Load(prefsPath)
	if saved.Theme != "Nightfox" {
		t.Fatalf("saved theme = %q, want Nightfox", saved.Theme)
	}
}

type fakeSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
	got  chan struct{}
}

func (s *fakeSender) Send(msg tea.Msg) {
	s.mu.Lock()
	s.msgs = append(s.msgs, msg)
	s.mu.Unlock()
	s.got <- struct{}{}
}

func TestDispatcher_ForwardsInOrderAfterAttach(t *testing.T) {
	d := NewDispatcher(nil)
	defer d.Close()

	var order []int
	for i := 0; i < 3; i++ {
		i := i
		d.Post(func() { order = append(order, i) })
	}

	s := &fakeSender{got: make(chan struct{}, 3)}
	d.Attach(s)
	for i := 0; i < 3; i++ {
		select {
		case <-s.got:
		case <-time.After(5 * time.Second):
			t.Fatalf("message %d not forwarded", i)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, msg := range s.msgs {
		run, ok := msg.(runMsg)
		if !ok {
			t.Fatalf("forwarded %T, want runMsg", msg)
		}
		run()
	}
	if len(order) != 3 || order[0] != 0 || order[1] != 1 || order[2] != 2 {
		t.Fatalf("order = %v, want [0 1 2]", order)
	}
}

func TestDispatcher_CloseBeforeAttachDropsWork(t *testing.T) {
	d := NewDispatcher(nil)
	d.Post(func() { t.Errorf("work ran after Close") })

	closed := make(chan struct{})
	go func() {
		d.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatalf("Close blocked waiting for a program")
	}
}

func TestThemes(t *testing.T) {
	names := ThemeNames()
	if len(names) != 4 || names[0] != "Dracula" {
		t.Fatalf("ThemeNames() = %v", names)
	}
	for i, name := range names {
		if got := GetTheme(name).Name; got != name {
			t.Fatalf("GetTheme(%q).Name = %q", name, got)
		}
		if want := names[(i+1)%len(names)]; NextTheme(name) != want {
			t.Fatalf("NextTheme(%q) = %q, want %q", name, NextTheme(name), want)
		}
	}
	if got := GetTheme("Unknown").Name; got != "Dracula" {
		t.Fatalf("GetTheme(Unknown).Name = %q, want Dracula", got)
	}
	if got := NextTheme("Unknown"); got != "Dracula" {
		t.Fatalf("NextTheme(Unknown) = %q, want Dracula", got)
	}

	th := GetTheme("Slate")
	if th.LevelColor(trace.Error) != "#ef4444" {
		t.Fatalf("LevelColor(Error) = %q", th.LevelColor(trace.Error))
	}
	if th.LevelColor(trace.Level(99)) != th.Text {
		t.Fatalf("LevelColor(invalid) should fall back to Text")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"too long", 5, "too …"},
		{"x", 0, ""},
		{"ab", 1, "…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
