package topic

import (
	"crypto/md5"
	"fmt"
	"strings"
	"time"
)

// Topic source values.
const (
	SourceScout = "scout"
	SourceUser  = "user"
)

// Topic is a candidate subject for a piece of content, either ingested from
// a scout document or submitted by the user.
type Topic struct {
	ID          string    `json:"id"`
	Index       int       `json:"index,omitempty"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Details     string    `json:"details"`
	Link        string    `json:"link"`
	PostWorthy  string    `json:"postWorthy"`
	Source      string    `json:"source,omitempty"`
	TopicSource string    `json:"topicSource"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
}

// TitleID derives a stable topic id from a title: the first 8 hex characters
// of the md5 of the trimmed title. The same title always produces the same
// id, regardless of which document it appeared in.
func TitleID(title string) string {
	sum := md5.Sum([]byte(strings.TrimSpace(title)))
	return fmt.Sprintf("%x", sum)[:8]
}

// UserTopicID derives an id for a user-submitted topic. The creation instant
// is mixed in so resubmitting the same idea yields a fresh topic.
func UserTopicID(title string, createdAt time.Time) string {
	sum := md5.Sum([]byte(title + createdAt.Format(time.RFC3339Nano)))
	return fmt.Sprintf("%x", sum)[:8]
}

// Blob concatenates the text fields used for similarity scoring.
func (t Topic) Blob() string {
	return t.Title + " " + t.Summary + " " + t.Details
}

// Dedupe removes topics whose id was already seen earlier in the list,
// preserving order. Earliest occurrence wins.
func Dedupe(topics []Topic) []Topic {
	seen := make(map[string]bool, len(topics))
	out := make([]Topic, 0, len(topics))
	for _, t := range topics {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out
}
