// Package feed filters and orders topics for presentation.
package feed

import (
	"sort"

	"github.com/thoughtpipe/thought-pipeline/internal/prefs"
	"github.com/thoughtpipe/thought-pipeline/internal/topic"
)

// Rank produces the consumption feed: skipped and deleted topics are dropped,
// interested topics float to the top, recorded topics sink to the bottom, and
// everything else keeps its original relative order.
func Rank(topics []topic.Topic, rec prefs.Record) []topic.Topic {
	out := make([]topic.Topic, 0, len(topics))
	for _, t := range topics {
		if rec.IsSkipped(t.ID) || rec.IsDeleted(t.ID) {
			continue
		}
		out = append(out, t)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return rankClass(out[i], rec) < rankClass(out[j], rec)
	})
	return out
}

// rankClass orders interested (0) before untouched (1) before recorded (2).
func rankClass(t topic.Topic, rec prefs.Record) int {
	switch {
	case rec.IsInterested(t.ID):
		return 0
	case rec.IsRecorded(t.ID):
		return 2
	default:
		return 1
	}
}

// Browse is the unfiltered listing used for general browsing: only deleted
// topics are hidden.
func Browse(topics []topic.Topic, rec prefs.Record) []topic.Topic {
	out := make([]topic.Topic, 0, len(topics))
	for _, t := range topics {
		if rec.IsDeleted(t.ID) {
			continue
		}
		out = append(out, t)
	}
	return out
}
