// Package prefs tracks per-topic preference state: which topics the user
// skipped, marked interesting, recorded a draft for, or deleted outright.
package prefs

import (
	"fmt"

	"github.com/thoughtpipe/thought-pipeline/internal/storage"
)

// Status is a preference status a topic can be moved into.
type Status string

const (
	StatusSkipped    Status = "skipped"
	StatusInterested Status = "interested"
	StatusRecorded   Status = "recorded"

	// StatusReset clears a topic from all three status sets without
	// inserting it anywhere.
	StatusReset Status = "reset"
)

// Record holds the four per-topic id sets. A topic id appears in at most one
// of Skipped/Interested/Recorded; Deleted is independent and permanent.
type Record struct {
	Skipped    []string `json:"skipped"`
	Interested []string `json:"interested"`
	Recorded   []string `json:"recorded"`
	Deleted    []string `json:"deleted"`
}

// IsDeleted reports whether id is in the deleted set.
func (r Record) IsDeleted(id string) bool { return contains(r.Deleted, id) }

// IsSkipped reports whether id is in the skipped set.
func (r Record) IsSkipped(id string) bool { return contains(r.Skipped, id) }

// IsInterested reports whether id is in the interested set.
func (r Record) IsInterested(id string) bool { return contains(r.Interested, id) }

// IsRecorded reports whether id is in the recorded set.
func (r Record) IsRecorded(id string) bool { return contains(r.Recorded, id) }

// Store reads and mutates the persisted preference record.
type Store struct {
	docs storage.Store
}

// NewStore creates a preference store over docs.
func NewStore(docs storage.Store) *Store {
	return &Store{docs: docs}
}

// Read returns the current record. Absent or corrupt persisted state yields
// the zero record rather than an error.
func (s *Store) Read() Record {
	var rec Record
	if _, err := s.docs.Load(storage.KindPreferences, &rec); err != nil {
		return Record{}
	}
	return rec
}

// SetStatus moves a topic id into the named status set. The id is removed
// from all three status sets first, so the sets stay mutually exclusive.
// StatusReset removes without reinserting.
func (s *Store) SetStatus(topicID string, status Status) (Record, error) {
	rec := s.Read()
	rec.Skipped = remove(rec.Skipped, topicID)
	rec.Interested = remove(rec.Interested, topicID)
	rec.Recorded = remove(rec.Recorded, topicID)

	switch status {
	case StatusSkipped:
		rec.Skipped = append(rec.Skipped, topicID)
	case StatusInterested:
		rec.Interested = append(rec.Interested, topicID)
	case StatusRecorded:
		rec.Recorded = append(rec.Recorded, topicID)
	case StatusReset:
		// Cleared from all three.
	default:
		return rec, fmt.Errorf("unknown status %q", status)
	}

	if err := s.docs.Save(storage.KindPreferences, rec); err != nil {
		return rec, fmt.Errorf("save preferences: %w", err)
	}
	return rec, nil
}

// Delete permanently marks a topic id deleted and clears it from the status
// sets. Idempotent: the deleted set never holds duplicates. There is no
// undelete.
func (s *Store) Delete(topicID string) (Record, error) {
	rec := s.Read()
	rec.Skipped = remove(rec.Skipped, topicID)
	rec.Interested = remove(rec.Interested, topicID)
	rec.Recorded = remove(rec.Recorded, topicID)
	if !contains(rec.Deleted, topicID) {
		rec.Deleted = append(rec.Deleted, topicID)
	}

	if err := s.docs.Save(storage.KindPreferences, rec); err != nil {
		return rec, fmt.Errorf("save preferences: %w", err)
	}
	return rec, nil
}

// RemoveRecorded clears a topic id from the recorded set only. Used when a
// draft is deleted so its topic surfaces in the feed again.
func (s *Store) RemoveRecorded(topicID string) error {
	rec := s.Read()
	rec.Recorded = remove(rec.Recorded, topicID)
	if err := s.docs.Save(storage.KindPreferences, rec); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
