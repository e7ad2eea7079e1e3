package ui

import (
	"github.com/charmbracelet/lipgloss"

	"gtd/internal/gtd"
)

// Color pairs (dark theme value, light theme value).
var (
	colorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	colorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	colorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	colorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	colorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	colorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	colorText    = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	colorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
)

// styles resolves the palette for one theme. The theme is chosen by the
// user rather than detected from the terminal.
type styles struct {
	Title     lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Filter    lipgloss.Style
	Active    lipgloss.Style
	Row       lipgloss.Style
	Selected  lipgloss.Style
	Done      lipgloss.Style
	Badge     lipgloss.Style
	Due       lipgloss.Style
	High      lipgloss.Style
	Low       lipgloss.Style
	Context   lipgloss.Style
	Project   lipgloss.Style
	Dim       lipgloss.Style
	Modal     lipgloss.Style
	Bar       lipgloss.Style
	Status    lipgloss.Style
}

func pick(c lipgloss.AdaptiveColor, dark bool) lipgloss.Color {
	if dark {
		return lipgloss.Color(c.Dark)
	}
	return lipgloss.Color(c.Light)
}

func newStyles(dark bool) styles {
	fg := func(c lipgloss.AdaptiveColor) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(pick(c, dark))
	}
	return styles{
		Title:     fg(colorText).Bold(true),
		Tab:       fg(colorGray).Padding(0, 1),
		ActiveTab: fg(colorText).Background(pick(colorBlue, dark)).Bold(true).Padding(0, 1),
		Filter:    fg(colorGray),
		Active:    fg(colorBlue).Bold(true).Underline(true),
		Row:       fg(colorText).PaddingLeft(2),
		Selected:  fg(colorBlue).Bold(true).PaddingLeft(1).Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(pick(colorBlue, dark)),
		Done:      fg(colorGray).Strikethrough(true),
		Badge:     fg(colorGray),
		Due:       fg(colorYellow),
		High:      fg(colorRed).Bold(true),
		Low:       fg(colorBlue),
		Context:   fg(colorGreen),
		Project:   fg(colorMagenta),
		Dim:       fg(colorGray).Italic(true),
		Modal:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(pick(colorBorder, dark)).Padding(1, 2),
		Bar:       fg(colorBlue),
		Status:    fg(colorGray),
	}
}

func (s styles) badge(b gtd.Badge) lipgloss.Style {
	switch b.Kind {
	case gtd.BadgeDue:
		return s.Due
	case gtd.BadgePriority:
		if b.Value == string(gtd.PriorityHigh) {
			return s.High
		}
		return s.Low
	case gtd.BadgeContext:
		return s.Context
	case gtd.BadgeProject:
		return s.Project
	default:
		return s.Badge
	}
}
