// Package draft manages generated drafts: storage, version history,
// publish scheduling, and derived statistics.
package draft

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/thoughtpipe/thought-pipeline/internal/prefs"
	"github.com/thoughtpipe/thought-pipeline/internal/storage"
)

// ErrNotFound is returned when a draft id resolves to nothing.
var ErrNotFound = errors.New("draft not found")

// DefaultTemplate is the style tag applied when none is given.
const DefaultTemplate = "default"

// Draft is one generated piece of writing tied to a topic, or to a merged
// set of topics when IsThread is set.
type Draft struct {
	ID             string    `json:"id"`
	TopicID        string    `json:"topicId"`
	TopicTitle     string    `json:"topicTitle"`
	Transcript     string    `json:"transcript,omitempty"`
	Draft          string    `json:"draft"`
	Template       string    `json:"template,omitempty"`
	IsThread       bool      `json:"isThread,omitempty"`
	ThreadPosts    []string  `json:"threadData,omitempty"`
	MergedTopicIDs []string  `json:"mergedTopicIds,omitempty"`
	BatchSessionID string    `json:"batchSessionId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Store persists the draft list, newest first.
type Store struct {
	docs  storage.Store
	prefs *prefs.Store
}

// NewStore creates a draft store over docs. Deletes cascade into the
// preference record via p.
func NewStore(docs storage.Store, p *prefs.Store) *Store {
	return &Store{docs: docs, prefs: p}
}

// List returns all drafts, newest first.
func (s *Store) List() ([]Draft, error) {
	var drafts []Draft
	if _, err := s.docs.Load(storage.KindDrafts, &drafts); err != nil {
		return nil, err
	}
	return drafts, nil
}

// Get resolves a draft by id.
func (s *Store) Get(id string) (Draft, error) {
	drafts, err := s.List()
	if err != nil {
		return Draft{}, err
	}
	for _, d := range drafts {
		if d.ID == id {
			return d, nil
		}
	}
	return Draft{}, ErrNotFound
}

// Add prepends a new draft.
func (s *Store) Add(d Draft) error {
	drafts, err := s.List()
	if err != nil {
		return err
	}
	drafts = append([]Draft{d}, drafts...)
	if err := s.docs.Save(storage.KindDrafts, drafts); err != nil {
		return fmt.Errorf("save drafts: %w", err)
	}
	return nil
}

// UpdateText replaces the draft body of an existing draft.
func (s *Store) UpdateText(id, text string) (Draft, error) {
	drafts, err := s.List()
	if err != nil {
		return Draft{}, err
	}
	for i := range drafts {
		if drafts[i].ID == id {
			drafts[i].Draft = text
			if err := s.docs.Save(storage.KindDrafts, drafts); err != nil {
				return Draft{}, fmt.Errorf("save drafts: %w", err)
			}
			return drafts[i], nil
		}
	}
	return Draft{}, ErrNotFound
}

// Delete removes a draft and clears its topic id (each merged topic id for
// threads) from the recorded preference set so the topic resurfaces in the
// feed.
func (s *Store) Delete(id string) error {
	drafts, err := s.List()
	if err != nil {
		return err
	}

	var deleted Draft
	found := false
	kept := make([]Draft, 0, len(drafts))
	for _, d := range drafts {
		if d.ID == id {
			deleted = d
			found = true
			continue
		}
		kept = append(kept, d)
	}
	if !found {
		return ErrNotFound
	}

	if err := s.docs.Save(storage.KindDrafts, kept); err != nil {
		return fmt.Errorf("save drafts: %w", err)
	}

	for _, topicID := range strings.Split(deleted.TopicID, ",") {
		topicID = strings.TrimSpace(topicID)
		if topicID == "" {
			continue
		}
		if err := s.prefs.RemoveRecorded(topicID); err != nil {
			return err
		}
	}
	return nil
}
