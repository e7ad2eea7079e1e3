package gtd

import "math"

// NoProjectLabel is shown when no open task carries a project.
const NoProjectLabel = "no project"

// Bucket is one bar of a breakdown. Percent is relative to the largest
// bucket of the same breakdown.
type Bucket struct {
	Key         string
	Label       string
	Count       int
	Percent     int
	Placeholder bool
}

// Review is the summary shown in review mode. The breakdowns count open
// tasks only; DueThisWeek counts every task.
type Review struct {
	Total          int
	Active         int
	Completed      int
	CompletionRate int
	DueThisWeek    int
	ByPriority     []Bucket
	ByContext      []Bucket
	ByProject      []Bucket
	ByList         []Bucket
}

func Summarize(items []Task, today Date) Review {
	r := Review{Total: len(items)}

	priorityCounts := map[Priority]int{}
	contextCounts := map[Context]int{}
	listCounts := map[List]int{}
	projectCounts := map[string]int{}
	var projectOrder []string

	for _, t := range items {
		if DueWithinWeek(t.DueDate, today) {
			r.DueThisWeek++
		}
		if t.Done {
			r.Completed++
			continue
		}
		r.Active++
		priorityCounts[t.Priority]++
		for _, c := range t.Contexts {
			contextCounts[c]++
		}
		listCounts[t.List]++
		if t.Project != "" {
			if _, seen := projectCounts[t.Project]; !seen {
				projectOrder = append(projectOrder, t.Project)
			}
			projectCounts[t.Project]++
		}
	}
	r.CompletionRate = percent(r.Completed, r.Total)

	for _, p := range Priorities {
		r.ByPriority = append(r.ByPriority, Bucket{Key: string(p), Label: p.Label(), Count: priorityCounts[p]})
	}
	for _, c := range Contexts {
		r.ByContext = append(r.ByContext, Bucket{Key: string(c), Label: c.Label(), Count: contextCounts[c]})
	}
	for _, l := range Lists {
		r.ByList = append(r.ByList, Bucket{Key: string(l), Label: l.Label(), Count: listCounts[l]})
	}
	for _, name := range projectOrder {
		r.ByProject = append(r.ByProject, Bucket{Key: name, Label: name, Count: projectCounts[name]})
	}

	scale(r.ByPriority)
	scale(r.ByContext)
	scale(r.ByList)
	scale(r.ByProject)
	if len(r.ByProject) == 0 {
		r.ByProject = []Bucket{{Label: NoProjectLabel, Placeholder: true}}
	}
	return r
}

func scale(buckets []Bucket) {
	maxCount := 0
	for _, b := range buckets {
		maxCount = max(maxCount, b.Count)
	}
	for i := range buckets {
		buckets[i].Percent = percent(buckets[i].Count, maxCount)
	}
}

func percent(n, of int) int {
	if of <= 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(of) * 100))
}
