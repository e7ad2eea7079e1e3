package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"gtd/internal/config"
)

type keyMap struct {
	Quit           key.Binding
	Add            key.Binding
	Up             key.Binding
	Down           key.Binding
	Toggle         key.Binding
	Delete         key.Binding
	Edit           key.Binding
	Move           key.Binding
	Help           key.Binding
	Confirm        key.Binding
	Cancel         key.Binding
	NextList       key.Binding
	PrevList       key.Binding
	FilterAll      key.Binding
	FilterToday    key.Binding
	FilterWeek     key.Binding
	FilterContext  key.Binding
	Review         key.Binding
	ClearCompleted key.Binding
	Theme          key.Binding
	DeleteInEditor key.Binding
}

func bind(keys []string, help string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help))
}

// newKeyMap turns the configured key names into bindings. Arrow keys are
// always accepted for movement.
func newKeyMap(k config.Keymap) keyMap {
	return keyMap{
		Quit:           bind([]string{k.Quit, "ctrl+c"}, "quit"),
		Add:            bind([]string{k.Add}, "new task"),
		Up:             bind([]string{k.Up, "up"}, "up"),
		Down:           bind([]string{k.Down, "down"}, "down"),
		Toggle:         bind([]string{k.Toggle}, "toggle done"),
		Delete:         bind([]string{k.Delete}, "delete"),
		Edit:           bind([]string{k.Edit}, "edit"),
		Move:           bind([]string{k.Move}, "move"),
		Help:           bind([]string{k.Help}, "shortcuts"),
		Confirm:        bind([]string{k.Confirm}, "confirm"),
		Cancel:         bind([]string{k.Cancel}, "close"),
		NextList:       bind([]string{k.NextList, "right"}, "next list"),
		PrevList:       bind([]string{k.PrevList, "left"}, "previous list"),
		FilterAll:      bind([]string{k.FilterAll}, "all"),
		FilterToday:    bind([]string{k.FilterToday}, "due today"),
		FilterWeek:     bind([]string{k.FilterWeek}, "due this week"),
		FilterContext:  bind([]string{k.FilterContext}, "cycle context"),
		Review:         bind([]string{k.Review}, "review"),
		ClearCompleted: bind([]string{k.ClearCompleted}, "clear completed"),
		Theme:          bind([]string{k.Theme}, "theme"),
		DeleteInEditor: bind([]string{"ctrl+d"}, "delete (in editor)"),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Edit, k.Move, k.Delete, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextList, k.PrevList, k.Quit},
		{k.Add, k.Toggle, k.Edit, k.Move, k.Delete, k.DeleteInEditor},
		{k.FilterAll, k.FilterToday, k.FilterWeek, k.FilterContext, k.Review},
		{k.ClearCompleted, k.Theme, k.Help, k.Cancel},
	}
}
