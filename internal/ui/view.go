package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gtd/internal/gtd"
)

const barWidth = 20

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("GTD Pro"))
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.renderFilters())
	b.WriteString("\n\n")

	switch {
	case m.session.DeleteOpen():
		b.WriteString(m.renderDeleteConfirm())
	case m.session.EditOpen():
		b.WriteString(m.styles.Modal.Render(m.edit.View()))
	case m.session.MoveOpen():
		b.WriteString(m.renderMoveDialog())
	case m.session.ShortcutsOpen():
		b.WriteString(m.styles.Modal.Render("Keyboard shortcuts\n\n" + m.help.FullHelpView(m.keys.FullHelp())))
	case m.frame.Review != nil:
		b.WriteString(m.renderReview(*m.frame.Review))
	default:
		b.WriteString(m.renderRows())
	}

	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.styles.Status.Render(m.status))
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))

	return b.String()
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, len(gtd.Lists))
	for _, l := range gtd.Lists {
		label := l.Label()
		if n := m.frame.Counts[l]; n > 0 {
			label = fmt.Sprintf("%s (%d)", label, n)
		}
		if l == m.frame.List {
			tabs = append(tabs, m.styles.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, m.styles.Tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderFilters() string {
	parts := make([]string, 0, len(gtd.Filters))
	for _, f := range gtd.Filters {
		label := string(f)
		if f == gtd.FilterContext {
			label = "@context"
			if m.frame.Context != "" {
				label = m.frame.Context.Label()
			}
		}
		if f == m.frame.Filter {
			parts = append(parts, m.styles.Active.Render(label))
		} else {
			parts = append(parts, m.styles.Filter.Render(label))
		}
	}
	return strings.Join(parts, m.styles.Filter.Render(" · "))
}

func (m Model) renderRows() string {
	if len(m.frame.Rows) == 0 {
		return m.styles.Dim.Render("Nothing here. Press '" + m.keys.Add.Help().Key + "' to capture a task.")
	}
	var b strings.Builder
	for i, row := range m.frame.Rows {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderRow(row, i == m.cursor))
	}
	return b.String()
}

func (m Model) renderRow(row gtd.Row, selected bool) string {
	box := "[ ]"
	if row.Done {
		box = "[x]"
	}
	text := row.Text
	if row.Done {
		text = m.styles.Done.Render(text)
	}
	line := box + " " + text
	for _, badge := range row.Badges {
		line += " " + m.styles.badge(badge).Render(badge.Label)
	}
	if row.Description != "" {
		line += "\n    " + m.styles.Dim.Render(firstLine(row.Description))
	}
	if selected {
		return m.styles.Selected.Render(line)
	}
	return m.styles.Row.Render(line)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}

func (m Model) renderReview(r gtd.Review) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total %d   Active %d   Completed %d   Completion %d%%   Due this week %d\n",
		r.Total, r.Active, r.Completed, r.CompletionRate, r.DueThisWeek)

	sections := []struct {
		title   string
		buckets []gtd.Bucket
	}{
		{"By priority", r.ByPriority},
		{"By context", r.ByContext},
		{"By project", r.ByProject},
		{"By list", r.ByList},
	}
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(m.styles.Title.Render(sec.title))
		b.WriteString("\n")
		for _, bucket := range sec.buckets {
			b.WriteString(m.renderBucket(bucket))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderBucket(bucket gtd.Bucket) string {
	if bucket.Placeholder {
		return "  " + m.styles.Dim.Render(bucket.Label)
	}
	filled := bucket.Percent * barWidth / 100
	bar := m.styles.Bar.Render(strings.Repeat("█", filled)) +
		m.styles.Dim.Render(strings.Repeat("░", barWidth-filled))
	return fmt.Sprintf("  %-12s %s %d", bucket.Label, bar, bucket.Count)
}

func (m Model) renderMoveDialog() string {
	var b strings.Builder
	b.WriteString("Move to list\n\n")
	for i, l := range gtd.Lists {
		line := fmt.Sprintf("%d. %s", i+1, l.Label())
		if i == m.moveIdx {
			b.WriteString(m.styles.Active.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n" + m.styles.Dim.Render("enter confirms, esc cancels"))
	return m.styles.Modal.Render(b.String())
}

func (m Model) renderDeleteConfirm() string {
	text := "this task"
	if t, ok := m.session.Store().Get(m.session.DeleteTargetID()); ok {
		text = fmt.Sprintf("%q", t.Text)
	}
	return m.styles.Modal.Render(fmt.Sprintf("Delete %s?\n\n%s", text, m.styles.Dim.Render("y/enter deletes, n/esc cancels")))
}
