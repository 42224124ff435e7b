package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoughtpipe/thought-pipeline/internal/prefs"
	"github.com/thoughtpipe/thought-pipeline/internal/topic"
)

func ids(topics []topic.Topic) []string {
	out := make([]string, len(topics))
	for i, t := range topics {
		out[i] = t.ID
	}
	return out
}

func TestRankOrdering(t *testing.T) {
	topics := []topic.Topic{
		{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"},
	}
	rec := prefs.Record{
		Interested: []string{"a"},
		Recorded:   []string{"c"},
	}

	ranked := Rank(topics, rec)
	assert.Equal(t, []string{"a", "b", "d", "c"}, ids(ranked))
}

func TestRankFiltersSkippedAndDeleted(t *testing.T) {
	topics := []topic.Topic{
		{ID: "a"}, {ID: "b"}, {ID: "c"},
	}
	rec := prefs.Record{
		Skipped: []string{"a"},
		Deleted: []string{"c"},
	}

	ranked := Rank(topics, rec)
	assert.Equal(t, []string{"b"}, ids(ranked))
}

func TestRankStableWithinClass(t *testing.T) {
	topics := []topic.Topic{
		{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"},
	}
	rec := prefs.Record{Interested: []string{"b", "d"}}

	ranked := Rank(topics, rec)
	require.Equal(t, []string{"b", "d", "a", "c"}, ids(ranked))
}

func TestBrowseHidesDeletedOnly(t *testing.T) {
	topics := []topic.Topic{
		{ID: "a"}, {ID: "b"}, {ID: "c"},
	}
	rec := prefs.Record{
		Skipped: []string{"a"},
		Deleted: []string{"b"},
	}

	listed := Browse(topics, rec)
	assert.Equal(t, []string{"a", "c"}, ids(listed))
}
