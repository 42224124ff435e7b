// Package similar scores lexical relatedness between topics using cosine
// similarity over term-frequency vectors.
package similar

import (
	"math"
	"sort"
	"strings"

	"github.com/thoughtpipe/thought-pipeline/internal/topic"
)

const (
	// scoreThreshold is the minimum similarity for a topic to count as
	// related.
	scoreThreshold = 0.15

	// maxMatches caps how many related topics are returned.
	maxMatches = 5
)

// Match pairs a related topic with its similarity score.
type Match struct {
	Topic topic.Topic `json:"topic"`
	Score float64     `json:"score"`
}

// termFreq lowercases and whitespace-tokenizes text, dropping tokens of
// length <= 2, and counts occurrences per term.
func termFreq(text string) map[string]int {
	freq := make(map[string]int)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		if len(tok) <= 2 {
			continue
		}
		freq[tok]++
	}
	return freq
}

// Score computes the cosine similarity between two text blobs. Symmetric and
// bounded to [0, 1]; 0 when either blob has no usable terms.
func Score(a, b string) float64 {
	fa := termFreq(a)
	fb := termFreq(b)

	var dot, magA, magB float64
	for term, ca := range fa {
		magA += float64(ca * ca)
		if cb, ok := fb[term]; ok {
			dot += float64(ca * cb)
		}
	}
	for _, cb := range fb {
		magB += float64(cb * cb)
	}

	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// FindSimilar scores the named topic against every other topic and returns
// up to the five best matches above the threshold, highest first. Ties keep
// the original topic order.
func FindSimilar(topics []topic.Topic, topicID string) ([]Match, error) {
	var target *topic.Topic
	for i := range topics {
		if topics[i].ID == topicID {
			target = &topics[i]
			break
		}
	}
	if target == nil {
		return nil, topic.ErrNotFound
	}

	blob := target.Blob()
	matches := make([]Match, 0, len(topics))
	for _, t := range topics {
		if t.ID == topicID {
			continue
		}
		score := Score(blob, t.Blob())
		if score > scoreThreshold {
			matches = append(matches, Match{Topic: t, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > maxMatches {
		matches = matches[:maxMatches]
	}
	return matches, nil
}
