package draft

import "time"

const dayKeyFormat = "2006-01-02"

// Stats are derived read-only statistics over the draft list.
type Stats struct {
	TotalDrafts       int            `json:"totalDrafts"`
	ThisWeek          int            `json:"thisWeek"`
	LastWeek          int            `json:"lastWeek"`
	TemplateUsage     map[string]int `json:"templateUsage"`
	DraftsByDay       map[string]int `json:"draftsByDay"`
	Streak            int            `json:"streak"`
	MostProductiveDay string         `json:"mostProductiveDay,omitempty"`
}

// Analyze computes statistics over drafts relative to now.
func Analyze(drafts []Draft, now time.Time) Stats {
	stats := Stats{
		TotalDrafts:   len(drafts),
		TemplateUsage: make(map[string]int),
		DraftsByDay:   make(map[string]int),
	}

	weekAgo := now.AddDate(0, 0, -7)
	twoWeeksAgo := now.AddDate(0, 0, -14)

	for _, d := range drafts {
		if d.CreatedAt.After(weekAgo) {
			stats.ThisWeek++
		} else if d.CreatedAt.After(twoWeeksAgo) {
			stats.LastWeek++
		}

		tmpl := d.Template
		if tmpl == "" {
			tmpl = DefaultTemplate
		}
		stats.TemplateUsage[tmpl]++

		stats.DraftsByDay[d.CreatedAt.UTC().Format(dayKeyFormat)]++
	}

	stats.Streak = streak(stats.DraftsByDay, now)

	best := 0
	for day, count := range stats.DraftsByDay {
		if count > best || (count == best && day > stats.MostProductiveDay) {
			best = count
			stats.MostProductiveDay = day
		}
	}

	return stats
}

// streak walks backward day-by-day from today, counting consecutive days
// with at least one draft. A draftless today doesn't break the walk, it just
// doesn't count.
func streak(byDay map[string]int, now time.Time) int {
	day := now.UTC()
	count := 0

	if byDay[day.Format(dayKeyFormat)] == 0 {
		day = day.AddDate(0, 0, -1)
	}
	for byDay[day.Format(dayKeyFormat)] > 0 {
		count++
		day = day.AddDate(0, 0, -1)
	}
	return count
}
