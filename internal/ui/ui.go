package ui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"gtd/internal/config"
	"gtd/internal/gtd"
)

type Model struct {
	session *Session
	keys    keyMap
	styles  styles
	help    help.Model
	input   textinput.Model
	edit    editForm
	frame   Frame
	cursor  int
	moveIdx int
	width   int
	status  string
}

// New builds the root model. The session's store must already be loaded.
func New(session *Session, cfg config.Config) Model {
	ti := textinput.New()
	ti.Placeholder = "Add a task to the inbox"
	ti.CharLimit = 256
	ti.Width = 40

	m := Model{
		session: session,
		keys:    newKeyMap(cfg.Keys),
		styles:  newStyles(session.DarkMode()),
		help:    help.New(),
		input:   ti,
		status:  fmt.Sprintf("Press '%s' to add a task, '%s' for shortcuts.", cfg.Keys.Add, cfg.Keys.Help),
	}
	m.refresh()
	return m
}

func Run(session *Session, cfg config.Config) error {
	_, err := tea.NewProgram(New(session, cfg), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

// refresh re-derives the frame and keeps the cursor on a visible row.
func (m *Model) refresh() {
	m.frame = m.session.Frame()
	m.cursor = clampCursor(m.cursor, len(m.frame.Rows))
}

func (m Model) selected() (gtd.Row, bool) {
	if len(m.frame.Rows) == 0 {
		return gtd.Row{}, false
	}
	return m.frame.Rows[clampCursor(m.cursor, len(m.frame.Rows))], true
}

// inText reports whether a text field currently has focus.
func (m Model) inText() bool {
	return m.input.Focused() || m.session.EditOpen()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-10, 10)
		m.help.Width = msg.Width
		return m, nil
	}
	if m.session.EditOpen() {
		return m.updateEditor(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch {
	case m.session.DeleteOpen():
		return m.updateDeleteConfirm(msg)
	case m.session.EditOpen():
		return m.updateEditor(msg)
	case m.session.MoveOpen():
		return m.updateMoveMode(msg)
	case m.session.ShortcutsOpen():
		if key.Matches(msg, m.keys.Cancel, m.keys.Help, m.keys.Confirm) {
			m.session.Escape()
		}
		return m, nil
	case m.input.Focused():
		return m.updateAddMode(msg)
	}
	return m.updateListMode(msg)
}

func (m Model) updateAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		if _, ok := m.session.SubmitNewTask(m.input.Value()); !ok {
			m.status = "Title cannot be empty"
			return m, nil
		}
		m.input.SetValue("")
		m.input.Blur()
		m.cursor = 0
		m.refresh()
		m.status = "Added task"
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateListMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		m.cursor = clampCursor(m.cursor+1, len(m.frame.Rows))
	case key.Matches(msg, m.keys.Up):
		m.cursor = clampCursor(m.cursor-1, len(m.frame.Rows))
	case key.Matches(msg, m.keys.Add):
		if m.session.FocusQuickAdd(m.inText()) {
			m.status = "Type a title and press Enter"
			cmd := m.input.Focus()
			return m, cmd
		}
	case key.Matches(msg, m.keys.Help):
		m.session.ShowShortcuts(m.inText())
	case key.Matches(msg, m.keys.Cancel):
		m.session.Escape()
	case key.Matches(msg, m.keys.NextList):
		m.switchList(1)
	case key.Matches(msg, m.keys.PrevList):
		m.switchList(-1)
	case key.Matches(msg, m.keys.FilterAll):
		m.session.ApplyFilter(gtd.FilterAll, "")
		m.cursor = 0
	case key.Matches(msg, m.keys.FilterToday):
		m.session.ApplyFilter(gtd.FilterToday, "")
		m.cursor = 0
	case key.Matches(msg, m.keys.FilterWeek):
		m.session.ApplyFilter(gtd.FilterWeek, "")
		m.cursor = 0
	case key.Matches(msg, m.keys.FilterContext):
		m.session.CycleContext()
		m.cursor = 0
	case key.Matches(msg, m.keys.Review):
		m.session.ToggleReview()
		m.cursor = 0
	case key.Matches(msg, m.keys.ClearCompleted):
		n := m.session.ClearCompleted()
		m.status = fmt.Sprintf("Cleared %d completed", n)
	case key.Matches(msg, m.keys.Theme):
		m.session.ToggleTheme()
		m.styles = newStyles(m.session.DarkMode())
	case key.Matches(msg, m.keys.Toggle):
		if row, ok := m.selected(); ok {
			m.session.ToggleTask(row.ID)
			m.status = "Toggled task"
		}
	case key.Matches(msg, m.keys.Move):
		if row, ok := m.selected(); ok && m.session.OpenMove(row.ID) {
			m.moveIdx = m.moveIndex()
			m.status = "Move to: 1-5 or j/k and Enter"
		}
	case key.Matches(msg, m.keys.Delete):
		if row, ok := m.selected(); ok && m.session.OpenDelete(row.ID) {
			m.status = fmt.Sprintf("Delete %q? y/n", row.Text)
		}
	case key.Matches(msg, m.keys.Edit):
		if row, ok := m.selected(); ok {
			return m.startEdit(row.ID)
		}
	}
	m.refresh()
	return m, nil
}

func (m *Model) switchList(step int) {
	idx := 0
	for i, l := range gtd.Lists {
		if l == m.session.ActiveList() {
			idx = i
			break
		}
	}
	idx = wrapIndex(idx+step, len(gtd.Lists))
	m.session.SwitchList(gtd.Lists[idx])
	m.cursor = 0
}

func (m Model) startEdit(id string) (tea.Model, tea.Cmd) {
	t, ok := m.session.Store().Get(id)
	if !ok || !m.session.OpenEdit(id) {
		return m, nil
	}
	m.edit = newEditForm(t, m.width)
	m.status = "Editing task: esc cancels, ctrl+d deletes"
	return m, m.edit.Init()
}

func (m Model) updateEditor(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, m.keys.Cancel):
			m.session.Escape()
			m.edit = editForm{}
			m.status = "Edit cancelled"
			return m, nil
		case key.Matches(km, m.keys.DeleteInEditor):
			if t, ok := m.session.Store().Get(m.session.EditingID()); ok && m.session.OpenDelete(t.ID) {
				m.status = fmt.Sprintf("Delete %q? y/n", t.Text)
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.edit, cmd = m.edit.Update(msg)
	if m.edit.Completed() {
		m.session.SubmitEdit(m.edit.Patch())
		m.edit = editForm{}
		m.refresh()
		m.status = "Task saved"
		return m, nil
	}
	return m, cmd
}

func (m Model) updateMoveMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.session.Escape()
		m.status = "Move cancelled"
	case key.Matches(msg, m.keys.Down):
		m.moveIdx = wrapIndex(m.moveIdx+1, len(gtd.Lists))
	case key.Matches(msg, m.keys.Up):
		m.moveIdx = wrapIndex(m.moveIdx-1, len(gtd.Lists))
	case key.Matches(msg, m.keys.Confirm):
		m.confirmMove(gtd.Lists[clampCursor(m.moveIdx, len(gtd.Lists))])
	default:
		if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= len(gtd.Lists) {
			m.confirmMove(gtd.Lists[n-1])
		}
	}
	m.refresh()
	return m, nil
}

// moveIndex is the position of the move target's current list.
func (m Model) moveIndex() int {
	t, ok := m.session.Store().Get(m.session.MoveTargetID())
	if !ok {
		return 0
	}
	for i, l := range gtd.Lists {
		if l == t.List {
			return i
		}
	}
	return 0
}

func (m *Model) confirmMove(target gtd.List) {
	if m.session.ConfirmMove(target) {
		m.status = "Moved to " + target.Label()
	}
}

func (m Model) updateDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "n", "N":
		m.session.CloseDelete()
		m.status = "Delete cancelled"
	case "y", "Y":
		m.deleteConfirmed()
	default:
		switch {
		case key.Matches(msg, m.keys.Confirm):
			m.deleteConfirmed()
		case key.Matches(msg, m.keys.Cancel):
			// Escape closes the editor first when delete was opened from it.
			m.session.Escape()
			if !m.session.EditOpen() {
				m.edit = editForm{}
			}
			if !m.session.DeleteOpen() {
				m.status = "Delete cancelled"
			}
		}
	}
	m.refresh()
	return m, nil
}

func (m *Model) deleteConfirmed() {
	if m.session.ConfirmDelete() {
		m.status = "Deleted task"
	}
	m.edit = editForm{}
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
