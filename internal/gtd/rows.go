package gtd

type BadgeKind string

const (
	BadgeDue      BadgeKind = "due"
	BadgePriority BadgeKind = "priority"
	BadgeContext  BadgeKind = "context"
	BadgeProject  BadgeKind = "project"
	BadgeTag      BadgeKind = "tag"
)

type Badge struct {
	Kind  BadgeKind
	Label string
	// Value is the raw enum value for priority and context badges.
	Value string
}

// Row is the view-model of one visible task.
type Row struct {
	ID          string
	Text        string
	Description string
	Done        bool
	Badges      []Badge
}

// RowOf lists badges in display order: due date, non-default priority,
// contexts, project, tags.
func RowOf(t Task) Row {
	row := Row{ID: t.ID, Text: t.Text, Description: t.Description, Done: t.Done}
	if t.DueDate != nil {
		row.Badges = append(row.Badges, Badge{Kind: BadgeDue, Label: t.DueDate.String()})
	}
	if t.Priority != PriorityMedium {
		row.Badges = append(row.Badges, Badge{Kind: BadgePriority, Label: t.Priority.Label(), Value: string(t.Priority)})
	}
	for _, c := range t.Contexts {
		row.Badges = append(row.Badges, Badge{Kind: BadgeContext, Label: c.Label(), Value: string(c)})
	}
	if t.Project != "" {
		row.Badges = append(row.Badges, Badge{Kind: BadgeProject, Label: t.Project})
	}
	for _, tag := range t.Tags {
		row.Badges = append(row.Badges, Badge{Kind: BadgeTag, Label: "#" + tag})
	}
	return row
}

func Rows(tasks []Task) []Row {
	rows := make([]Row, len(tasks))
	for i, t := range tasks {
		rows[i] = RowOf(t)
	}
	return rows
}
