package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gtd/internal/config"
	"gtd/internal/gtd"
)

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func newTestModel(t *testing.T) (Model, *Session) {
	t.Helper()
	s, _ := newTestSession(t)
	return New(s, config.Default(t.TempDir())), s
}

func TestModel_QuickAdd(t *testing.T) {
	m, s := newTestModel(t)

	m = press(t, m, "n")
	assert.True(t, m.input.Focused())

	m = press(t, m, "Buy milk", "enter")

	assert.False(t, m.input.Focused())
	require.Equal(t, 1, s.Store().Len())
	assert.Equal(t, "Buy milk", s.Store().Items()[0].Text)
	require.Len(t, m.frame.Rows, 1)
	assert.Contains(t, m.View(), "Buy milk")
}

func TestModel_QuickAddBlank(t *testing.T) {
	m, s := newTestModel(t)

	m = press(t, m, "n", "enter")

	assert.Equal(t, 0, s.Store().Len())
	assert.Equal(t, "Title cannot be empty", m.status)
}

func TestModel_QuickAddFromOtherList(t *testing.T) {
	m, s := newTestModel(t)

	m = press(t, m, "tab")
	require.Equal(t, gtd.ListNext, s.ActiveList())

	press(t, m, "n", "Read book", "enter")

	assert.Equal(t, gtd.ListInbox, s.ActiveList())
}

func TestModel_KeysWhileTypingGoToInput(t *testing.T) {
	m, s := newTestModel(t)

	m = press(t, m, "n", "?", "q")

	assert.False(t, s.ShortcutsOpen(), "help key is text while typing")
	assert.Equal(t, "?q", m.input.Value())
}

func TestModel_EscCancelsQuickAdd(t *testing.T) {
	m, s := newTestModel(t)

	m = press(t, m, "n", "abc", "esc")

	assert.False(t, m.input.Focused())
	assert.Empty(t, m.input.Value())
	assert.Equal(t, 0, s.Store().Len())
}

func TestModel_ToggleAndCursor(t *testing.T) {
	m, s := newTestModel(t)
	s.SubmitNewTask("first")
	second, _ := s.SubmitNewTask("second")
	m.refresh()

	m = press(t, m, "x")

	got, _ := s.Store().Get(second.ID)
	assert.True(t, got.Done, "newest task is on top")

	m = press(t, m, "j", "j", "j")
	assert.Equal(t, 1, m.cursor, "cursor stops at the last row")
}

func TestModel_MoveWithDigit(t *testing.T) {
	m, s := newTestModel(t)
	task, _ := s.SubmitNewTask("a")
	m.refresh()

	m = press(t, m, "m")
	require.True(t, s.MoveOpen())

	m = press(t, m, "2")

	assert.False(t, s.MoveOpen())
	got, _ := s.Store().Get(task.ID)
	assert.Equal(t, gtd.ListNext, got.List)
	assert.Empty(t, m.frame.Rows)
}

func TestModel_MoveWithCursor(t *testing.T) {
	m, s := newTestModel(t)
	task, _ := s.SubmitNewTask("a")
	m.refresh()

	press(t, m, "m", "j", "j", "enter")

	got, _ := s.Store().Get(task.ID)
	assert.Equal(t, gtd.ListProject, got.List)
}

func TestModel_MoveCancel(t *testing.T) {
	m, s := newTestModel(t)
	task, _ := s.SubmitNewTask("a")
	m.refresh()

	press(t, m, "m", "esc")

	assert.False(t, s.MoveOpen())
	got, _ := s.Store().Get(task.ID)
	assert.Equal(t, gtd.ListInbox, got.List)
}

func TestModel_DeleteConfirm(t *testing.T) {
	m, s := newTestModel(t)
	s.SubmitNewTask("a")
	m.refresh()

	m = press(t, m, "d")
	require.True(t, s.DeleteOpen())
	assert.Contains(t, m.View(), "Delete")

	m = press(t, m, "n")
	assert.False(t, s.DeleteOpen())
	assert.Equal(t, 1, s.Store().Len())

	press(t, m, "d", "y")
	assert.Equal(t, 0, s.Store().Len())
}

func TestModel_DeleteFromEditor(t *testing.T) {
	m, s := newTestModel(t)
	s.SubmitNewTask("a")
	m.refresh()

	m = press(t, m, "e")
	require.True(t, s.EditOpen())

	m = press(t, m, "ctrl+d")
	require.True(t, s.DeleteOpen())

	press(t, m, "enter")

	assert.False(t, s.AnyModalOpen())
	assert.Equal(t, 0, s.Store().Len())
}

func TestModel_EscClosesEditorFirst(t *testing.T) {
	m, s := newTestModel(t)
	s.SubmitNewTask("a")
	m.refresh()

	m = press(t, m, "e", "ctrl+d", "esc")

	assert.False(t, s.EditOpen())
	assert.True(t, s.DeleteOpen())

	press(t, m, "esc")
	assert.False(t, s.AnyModalOpen())
	assert.Equal(t, 1, s.Store().Len())
}

func TestModel_EditCancel(t *testing.T) {
	m, s := newTestModel(t)
	task, _ := s.SubmitNewTask("a")
	m.refresh()

	m = press(t, m, "e")
	assert.NotEmpty(t, m.View())
	press(t, m, "esc")

	assert.False(t, s.EditOpen())
	got, _ := s.Store().Get(task.ID)
	assert.Equal(t, "a", got.Text)
}

func TestModel_Shortcuts(t *testing.T) {
	m, s := newTestModel(t)

	m = press(t, m, "?")
	require.True(t, s.ShortcutsOpen())
	assert.Contains(t, m.View(), "Keyboard shortcuts")

	press(t, m, "esc")
	assert.False(t, s.ShortcutsOpen())
}

func TestModel_FiltersAndReview(t *testing.T) {
	m, s := newTestModel(t)
	s.SubmitNewTask("a")
	m.refresh()

	m = press(t, m, "w")
	assert.Equal(t, gtd.FilterWeek, s.ActiveFilter())
	assert.Empty(t, m.frame.Rows)

	m = press(t, m, "c")
	assert.Equal(t, gtd.FilterContext, s.ActiveFilter())
	assert.Equal(t, gtd.ContextWork, s.ActiveContext())

	m = press(t, m, "r")
	require.NotNil(t, m.frame.Review)
	view := m.View()
	assert.Contains(t, view, "By priority")
	assert.Contains(t, view, gtd.NoProjectLabel)

	m = press(t, m, "r")
	assert.Equal(t, gtd.FilterContext, s.ActiveFilter(), "leaving review restores the previous filter")
	assert.Equal(t, gtd.ContextWork, s.ActiveContext())
	assert.Nil(t, m.frame.Review)
}

func TestModel_ReviewBlocksRowActions(t *testing.T) {
	m, s := newTestModel(t)
	task, _ := s.SubmitNewTask("hidden")
	m.refresh()

	m = press(t, m, "r")
	require.NotNil(t, m.frame.Review)
	assert.Empty(t, m.frame.Rows)

	m = press(t, m, "x", "m", "e", "d", "y")

	assert.False(t, s.AnyModalOpen())
	require.Equal(t, 1, s.Store().Len())
	got, _ := s.Store().Get(task.ID)
	assert.False(t, got.Done)
	assert.Equal(t, gtd.ListInbox, got.List)

	press(t, m, "r", "x")
	got, _ = s.Store().Get(task.ID)
	assert.True(t, got.Done, "row actions work again after review")
}

func TestModel_TabsShowOpenCounts(t *testing.T) {
	m, s := newTestModel(t)
	a, _ := s.SubmitNewTask("a")
	s.SubmitNewTask("b")
	s.ToggleTask(a.ID)
	m.refresh()

	view := m.View()
	assert.Contains(t, view, "Inbox (1)")
	assert.Contains(t, view, "Next actions")
	assert.NotContains(t, view, "(0)", "empty lists show no count")
}

func TestModel_ClearCompletedAndTheme(t *testing.T) {
	m, s := newTestModel(t)
	a, _ := s.SubmitNewTask("a")
	s.ToggleTask(a.ID)
	m.refresh()

	m = press(t, m, "C")
	assert.Equal(t, 0, s.Store().Len())
	assert.Equal(t, "Cleared 1 completed", m.status)

	press(t, m, "T")
	assert.False(t, s.DarkMode())
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
