package gtd

import (
	"slices"
)

type Filter string

const (
	FilterAll     Filter = "all"
	FilterToday   Filter = "today"
	FilterWeek    Filter = "week"
	FilterContext Filter = "context"
	FilterReview  Filter = "review"
)

var Filters = []Filter{FilterAll, FilterToday, FilterWeek, FilterContext, FilterReview}

func (f Filter) Valid() bool {
	return slices.Contains(Filters, f)
}

// Query selects the visible part of the collection.
type Query struct {
	List    List
	Filter  Filter
	Context Context
}

// weekSpan is the inclusive upper bound, in days from today, of the week filter.
const weekSpan = 7

func DueToday(due *Date, today Date) bool {
	return due != nil && *due == today
}

// DueWithinWeek reports whether due falls in [today, today+7].
func DueWithinWeek(due *Date, today Date) bool {
	if due == nil {
		return false
	}
	days := due.DaysSince(today)
	return days >= 0 && days <= weekSpan
}

// Project returns the tasks of q.List that pass q.Filter, ordered by
// priority rank and then newest first. items is not modified.
func Project(items []Task, q Query, today Date) []Task {
	out := make([]Task, 0, len(items))
	for _, t := range items {
		if t.List != q.List {
			continue
		}
		if !q.matches(t, today) {
			continue
		}
		out = append(out, t.clone())
	}
	slices.SortStableFunc(out, compareTasks)
	return out
}

func (q Query) matches(t Task, today Date) bool {
	switch q.Filter {
	case FilterToday:
		return !t.Done && DueToday(t.DueDate, today)
	case FilterWeek:
		return !t.Done && DueWithinWeek(t.DueDate, today)
	case FilterContext:
		if q.Context == "" {
			return true
		}
		return t.HasContext(q.Context)
	default:
		return true
	}
}

func compareTasks(a, b Task) int {
	if d := a.Priority.Rank() - b.Priority.Rank(); d != 0 {
		return d
	}
	switch {
	case a.CreatedAt > b.CreatedAt:
		return -1
	case a.CreatedAt < b.CreatedAt:
		return 1
	default:
		return 0
	}
}

// ListCounts returns the number of open tasks per list, for the tab labels.
func ListCounts(items []Task) map[List]int {
	counts := make(map[List]int, len(Lists))
	for _, l := range Lists {
		counts[l] = 0
	}
	for _, t := range items {
		if !t.Done {
			counts[t.List]++
		}
	}
	return counts
}
