// Package gtd holds the task collection, its persistence mirror and the
// pure projections (filtered views, review statistics, tab counts) derived
// from it.
package gtd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type List string

const (
	ListInbox   List = "inbox"
	ListNext    List = "next"
	ListProject List = "project"
	ListWaiting List = "waiting"
	ListSomeday List = "someday"
)

// Lists is the fixed tab order.
var Lists = []List{ListInbox, ListNext, ListProject, ListWaiting, ListSomeday}

var listLabels = map[List]string{
	ListInbox:   "Inbox",
	ListNext:    "Next actions",
	ListProject: "Projects",
	ListWaiting: "Waiting",
	ListSomeday: "Someday",
}

func (l List) Valid() bool {
	_, ok := listLabels[l]
	return ok
}

func (l List) Label() string {
	if label, ok := listLabels[l]; ok {
		return label
	}
	return string(l)
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Rank orders priorities for sorting: high=0, medium=1, low=2.
// Unknown values sort with medium.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

func (p Priority) Valid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	default:
		return string(p)
	}
}

type Context string

const (
	ContextWork     Context = "work"
	ContextHome     Context = "home"
	ContextPhone    Context = "phone"
	ContextComputer Context = "computer"
)

var Contexts = []Context{ContextWork, ContextHome, ContextPhone, ContextComputer}

var contextLabels = map[Context]string{
	ContextWork:     "@work",
	ContextHome:     "@home",
	ContextPhone:    "@phone",
	ContextComputer: "@computer",
}

func (c Context) Valid() bool {
	_, ok := contextLabels[c]
	return ok
}

func (c Context) Label() string {
	if label, ok := contextLabels[c]; ok {
		return label
	}
	return "@" + string(c)
}

// ParseList, ParsePriority and ParseContext accept the lower-case names
// used in the persisted blob and on the command line.
func ParseList(s string) (List, error) {
	l := List(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("unknown list %q", s)
	}
	return l, nil
}

func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority %q", s)
	}
	return p, nil
}

func ParseContext(s string) (Context, error) {
	c := Context(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "@")))
	if !c.Valid() {
		return "", fmt.Errorf("unknown context %q", s)
	}
	return c, nil
}

const dateLayout = "2006-01-02"

// Date is a calendar date without time of day. It is stored as UTC midnight
// and serialized as "YYYY-MM-DD".
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return Date{t: t}, nil
}

func (d Date) String() string { return d.t.Format(dateLayout) }

func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// DaysSince returns the whole number of days from other to d.
func (d Date) DaysSince(other Date) int {
	return int(d.t.Sub(other.t) / (24 * time.Hour))
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d Date) MarshalYAML() (any, error) {
	return d.String(), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Task is the only entity. CreatedAt and UpdatedAt are milliseconds since
// the Unix epoch.
type Task struct {
	ID          string    `json:"id" yaml:"id"`
	Text        string    `json:"text" yaml:"text"`
	Description string    `json:"description" yaml:"description"`
	List        List      `json:"list" yaml:"list"`
	Done        bool      `json:"done" yaml:"done"`
	Priority    Priority  `json:"priority" yaml:"priority"`
	DueDate     *Date     `json:"dueDate" yaml:"dueDate"`
	Project     string    `json:"project" yaml:"project"`
	Contexts    []Context `json:"contexts" yaml:"contexts"`
	Tags        []string  `json:"tags" yaml:"tags"`
	CreatedAt   int64     `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   int64     `json:"updatedAt" yaml:"updatedAt"`

	// badDue holds an unparsable dueDate seen while decoding, so the store
	// can report it. It is cleared on load.
	badDue string
}

// UnmarshalJSON decodes a task leniently: a dueDate that is not a
// "YYYY-MM-DD" string is dropped instead of failing the whole collection.
func (t *Task) UnmarshalJSON(data []byte) error {
	type plain Task
	aux := struct {
		*plain
		DueDate json.RawMessage `json:"dueDate"`
	}{plain: (*plain)(t)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	t.DueDate = nil
	raw := strings.TrimSpace(string(aux.DueDate))
	if raw == "" || raw == "null" {
		return nil
	}
	var d Date
	if err := json.Unmarshal(aux.DueDate, &d); err != nil {
		t.badDue = raw
		return nil
	}
	t.DueDate = &d
	return nil
}

// NewTask builds an inbox task with default fields. text must already be
// trimmed and non-empty.
func NewTask(id, text string, now time.Time) Task {
	ms := now.UnixMilli()
	return Task{
		ID:        id,
		Text:      text,
		List:      ListInbox,
		Priority:  PriorityMedium,
		Contexts:  []Context{},
		Tags:      []string{},
		CreatedAt: ms,
		UpdatedAt: ms,
	}
}

func (t Task) HasContext(c Context) bool {
	for _, have := range t.Contexts {
		if have == c {
			return true
		}
	}
	return false
}

func (t Task) Created() time.Time { return time.UnixMilli(t.CreatedAt) }

// clone copies the slices so callers cannot alias store state.
func (t Task) clone() Task {
	t.Contexts = append([]Context{}, t.Contexts...)
	t.Tags = append([]string{}, t.Tags...)
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	return t
}

// normalize fills fields a hand-edited or older blob may lack.
func (t *Task) normalize() {
	if t.Contexts == nil {
		t.Contexts = []Context{}
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if t.List == "" {
		t.List = ListInbox
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
}

func dedupeContexts(in []Context) []Context {
	out := make([]Context, 0, len(in))
	for _, c := range in {
		if !c.Valid() {
			continue
		}
		dup := false
		for _, have := range out {
			if have == c {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, c)
		}
	}
	return out
}

// SplitTags turns "a, b,,c" into [a b c].
func SplitTags(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
