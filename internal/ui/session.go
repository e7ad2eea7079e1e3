package ui

import (
	"log/slog"
	"strings"
	"time"

	"gtd/internal/gtd"
)

// Session is the interaction layer: it owns the transient view state and
// turns user intents into store operations. Only the theme is persisted.
type Session struct {
	store *gtd.Store
	prefs gtd.KV
	app   string
	log   *slog.Logger
	now   func() time.Time

	activeList    gtd.List
	activeFilter  gtd.Filter
	activeContext gtd.Context
	// filterBeforeReview is restored when review mode is left.
	filterBeforeReview gtd.Filter

	editingID      string
	moveTargetID   string
	deleteTargetID string

	editOpen      bool
	moveOpen      bool
	deleteOpen    bool
	shortcutsOpen bool

	darkMode bool
}

// Frame is everything one render needs.
type Frame struct {
	List    gtd.List
	Filter  gtd.Filter
	Context gtd.Context
	// Rows is empty while the review filter is active.
	Rows   []gtd.Row
	Counts map[gtd.List]int
	// Review is set only while the review filter is active.
	Review *gtd.Review
}

// NewSession starts on startList (inbox when invalid) with the persisted
// theme. prefs is the slot store for the theme, usually the same backend
// as the task store.
func NewSession(store *gtd.Store, prefs gtd.KV, app string, startList gtd.List, log *slog.Logger) *Session {
	if !startList.Valid() {
		startList = gtd.ListInbox
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Session{
		store:        store,
		prefs:        prefs,
		app:          app,
		log:          log,
		now:          time.Now,
		activeList:   startList,
		activeFilter: gtd.FilterAll,
		darkMode:     gtd.LoadTheme(prefs, app) == gtd.ThemeDark,
	}
}

func (s *Session) Store() *gtd.Store          { return s.store }
func (s *Session) ActiveList() gtd.List       { return s.activeList }
func (s *Session) ActiveFilter() gtd.Filter   { return s.activeFilter }
func (s *Session) ActiveContext() gtd.Context { return s.activeContext }
func (s *Session) DarkMode() bool             { return s.darkMode }
func (s *Session) EditingID() string          { return s.editingID }
func (s *Session) MoveTargetID() string       { return s.moveTargetID }
func (s *Session) DeleteTargetID() string     { return s.deleteTargetID }
func (s *Session) EditOpen() bool             { return s.editOpen }
func (s *Session) MoveOpen() bool             { return s.moveOpen }
func (s *Session) DeleteOpen() bool           { return s.deleteOpen }
func (s *Session) ShortcutsOpen() bool        { return s.shortcutsOpen }

func (s *Session) AnyModalOpen() bool {
	return s.editOpen || s.moveOpen || s.deleteOpen || s.shortcutsOpen
}

func (s *Session) today() gtd.Date { return gtd.DateOf(s.now()) }

// Query is the projection currently selected.
func (s *Session) Query() gtd.Query {
	return gtd.Query{List: s.activeList, Filter: s.activeFilter, Context: s.activeContext}
}

// Frame recomputes the projection from scratch.
func (s *Session) Frame() Frame {
	items := s.store.Items()
	today := s.today()
	f := Frame{
		List:    s.activeList,
		Filter:  s.activeFilter,
		Context: s.activeContext,
		Counts:  gtd.ListCounts(items),
	}
	if s.activeFilter == gtd.FilterReview {
		r := gtd.Summarize(items, today)
		f.Review = &r
		f.Rows = []gtd.Row{}
		return f
	}
	f.Rows = gtd.Rows(gtd.Project(items, s.Query(), today))
	return f
}

// SubmitNewTask switches to the inbox first when another list is active,
// so the new task is visible. Blank text changes nothing.
func (s *Session) SubmitNewTask(text string) (gtd.Task, bool) {
	if strings.TrimSpace(text) == "" {
		return gtd.Task{}, false
	}
	if s.activeList != gtd.ListInbox {
		s.SwitchList(gtd.ListInbox)
	}
	return s.store.Add(text)
}

func (s *Session) ToggleTask(id string) bool { return s.store.ToggleDone(id) }

func (s *Session) DeleteTask(id string) bool { return s.store.Remove(id) }

func (s *Session) MoveTask(id string, target gtd.List) bool { return s.store.Move(id, target) }

func (s *Session) EditTask(id string, p gtd.Patch) bool { return s.store.Update(id, p) }

func (s *Session) ClearCompleted() int { return s.store.ClearCompleted() }

// SwitchList resets the filter to all and clears the context.
func (s *Session) SwitchList(l gtd.List) {
	if !l.Valid() {
		return
	}
	s.activeList = l
	s.activeFilter = gtd.FilterAll
	s.activeContext = ""
}

// ApplyFilter sets the secondary filter. A context is recorded only when
// one is given.
func (s *Session) ApplyFilter(f gtd.Filter, c gtd.Context) {
	if !f.Valid() {
		return
	}
	if f == gtd.FilterReview && s.activeFilter != gtd.FilterReview {
		s.filterBeforeReview = s.activeFilter
	}
	s.activeFilter = f
	if c != "" && c.Valid() {
		s.activeContext = c
	}
}

// ToggleReview enters review mode, or leaves it for the filter that was
// active before.
func (s *Session) ToggleReview() {
	if s.activeFilter != gtd.FilterReview {
		s.ApplyFilter(gtd.FilterReview, "")
		return
	}
	prev := s.filterBeforeReview
	if !prev.Valid() {
		prev = gtd.FilterAll
	}
	s.ApplyFilter(prev, "")
}

// CycleContext applies the context filter with the next context in order.
func (s *Session) CycleContext() {
	next := gtd.Contexts[0]
	if s.activeFilter == gtd.FilterContext {
		for i, c := range gtd.Contexts {
			if c == s.activeContext {
				next = gtd.Contexts[(i+1)%len(gtd.Contexts)]
				break
			}
		}
	}
	s.ApplyFilter(gtd.FilterContext, next)
}

func (s *Session) ToggleTheme() {
	s.darkMode = !s.darkMode
	gtd.SaveTheme(s.prefs, s.app, gtd.ThemeFor(s.darkMode), s.log)
}

// FocusQuickAdd reports whether the add shortcut should move focus to the
// quick-add input. Nothing happens while a text field has focus.
func (s *Session) FocusQuickAdd(inText bool) bool {
	return !inText
}

// ShowShortcuts opens the help dialog under the same focus guard.
func (s *Session) ShowShortcuts(inText bool) bool {
	if inText {
		return false
	}
	s.OpenShortcuts()
	return true
}

func (s *Session) exists(id string) bool {
	_, ok := s.store.Get(id)
	return ok
}

func (s *Session) OpenEdit(id string) bool {
	if !s.exists(id) {
		return false
	}
	s.editingID = id
	s.editOpen = true
	return true
}

func (s *Session) CloseEdit() {
	s.editingID = ""
	s.editOpen = false
}

// SubmitEdit applies p to the task being edited and closes the dialog.
func (s *Session) SubmitEdit(p gtd.Patch) bool {
	if !s.editOpen {
		return false
	}
	ok := s.store.Update(s.editingID, p)
	s.CloseEdit()
	return ok
}

func (s *Session) OpenMove(id string) bool {
	if !s.exists(id) {
		return false
	}
	s.moveTargetID = id
	s.moveOpen = true
	return true
}

func (s *Session) CloseMove() {
	s.moveTargetID = ""
	s.moveOpen = false
}

func (s *Session) ConfirmMove(target gtd.List) bool {
	if !s.moveOpen {
		return false
	}
	ok := s.store.Move(s.moveTargetID, target)
	s.CloseMove()
	return ok
}

func (s *Session) OpenDelete(id string) bool {
	if !s.exists(id) {
		return false
	}
	s.deleteTargetID = id
	s.deleteOpen = true
	return true
}

func (s *Session) CloseDelete() {
	s.deleteTargetID = ""
	s.deleteOpen = false
}

// ConfirmDelete removes the target and closes the delete and edit dialogs,
// since deletion can be started from inside the editor.
func (s *Session) ConfirmDelete() bool {
	if !s.deleteOpen {
		return false
	}
	ok := s.store.Remove(s.deleteTargetID)
	s.CloseDelete()
	s.CloseEdit()
	return ok
}

func (s *Session) OpenShortcuts()  { s.shortcutsOpen = true }
func (s *Session) CloseShortcuts() { s.shortcutsOpen = false }

// Escape closes one dialog, checking edit, move, delete, then shortcuts.
func (s *Session) Escape() bool {
	switch {
	case s.editOpen:
		s.CloseEdit()
	case s.moveOpen:
		s.CloseMove()
	case s.deleteOpen:
		s.CloseDelete()
	case s.shortcutsOpen:
		s.CloseShortcuts()
	default:
		return false
	}
	return true
}
