package ui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"gtd/internal/gtd"
)

// editBindings lives on the heap so huh's Value pointers stay valid across
// Bubble Tea model copies.
type editBindings struct {
	text        string
	description string
	priority    gtd.Priority
	due         string
	project     string
	contexts    []gtd.Context
	tags        string
}

type editForm struct {
	form *huh.Form
	fb   *editBindings
}

func newEditForm(t gtd.Task, width int) editForm {
	fb := &editBindings{
		text:        t.Text,
		description: t.Description,
		priority:    t.Priority,
		project:     t.Project,
		contexts:    append([]gtd.Context{}, t.Contexts...),
		tags:        strings.Join(t.Tags, ", "),
	}
	if t.DueDate != nil {
		fb.due = t.DueDate.String()
	}

	priorities := make([]huh.Option[gtd.Priority], 0, len(gtd.Priorities))
	for _, p := range gtd.Priorities {
		priorities = append(priorities, huh.NewOption(p.Label(), p))
	}
	contexts := make([]huh.Option[gtd.Context], 0, len(gtd.Contexts))
	for _, c := range gtd.Contexts {
		contexts = append(contexts, huh.NewOption(c.Label(), c))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fb.text).
				Validate(validateRequired),
			huh.NewText().
				Title("Description").
				Placeholder("Optional details...").
				Value(&fb.description),
			huh.NewSelect[gtd.Priority]().
				Title("Priority").
				Options(priorities...).
				Value(&fb.priority),
			huh.NewInput().
				Title("Due date").
				Placeholder("YYYY-MM-DD (optional)").
				Value(&fb.due).
				Validate(validateOptionalDate),
			huh.NewInput().
				Title("Project").
				Value(&fb.project),
			huh.NewMultiSelect[gtd.Context]().
				Title("Contexts").
				Options(contexts...).
				Value(&fb.contexts),
			huh.NewInput().
				Title("Tags").
				Placeholder("comma, separated").
				Value(&fb.tags),
		),
	).WithWidth(formWidth(width)).WithShowHelp(true)

	return editForm{form: form, fb: fb}
}

func (e editForm) Init() tea.Cmd {
	if e.form == nil {
		return nil
	}
	return e.form.Init()
}

func (e editForm) Update(msg tea.Msg) (editForm, tea.Cmd) {
	if e.form == nil {
		return e, nil
	}
	mdl, cmd := e.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		e.form = f
	}
	return e, cmd
}

func (e editForm) Completed() bool {
	return e.form != nil && e.form.State == huh.StateCompleted
}

func (e editForm) View() string {
	if e.form == nil {
		return ""
	}
	return e.form.View()
}

// Patch converts the bound values. The due date was validated by the form;
// an empty value clears it.
func (e editForm) Patch() gtd.Patch {
	return e.fb.patch()
}

func (fb *editBindings) patch() gtd.Patch {
	text := fb.text
	description := fb.description
	priority := fb.priority
	project := fb.project
	p := gtd.Patch{
		Text:        &text,
		Description: &description,
		Priority:    &priority,
		Project:     &project,
		Contexts:    append([]gtd.Context{}, fb.contexts...),
		Tags:        gtd.SplitTags(fb.tags),
	}
	if strings.TrimSpace(fb.due) == "" {
		p.ClearDueDate = true
	} else if d, err := gtd.ParseDate(fb.due); err == nil {
		p.DueDate = &d
	}
	return p
}

func formWidth(width int) int {
	w := width - 8
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("title is required")
	}
	return nil
}

func validateOptionalDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	_, err := gtd.ParseDate(s)
	return err
}
