package draft

import (
	"fmt"
	"time"

	"github.com/thoughtpipe/thought-pipeline/internal/storage"
)

// Scheduled is a pending publish schedule for one draft. A draft has at most
// one; rescheduling replaces the entry in place.
type Scheduled struct {
	DraftID       string    `json:"draftId"`
	TopicTitle    string    `json:"topicTitle"`
	Draft         string    `json:"draft"`
	ScheduledDate string    `json:"scheduledDate"`
	ScheduledTime string    `json:"scheduledTime"`
	ScheduledAt   time.Time `json:"scheduledAt"`
	Notified      bool      `json:"notified"`
}

// Scheduler tracks pending publish schedules.
type Scheduler struct {
	docs   storage.Store
	drafts *Store
	now    func() time.Time
}

// NewScheduler creates a scheduler over docs, validating draft ids against
// drafts.
func NewScheduler(docs storage.Store, drafts *Store) *Scheduler {
	return &Scheduler{docs: docs, drafts: drafts, now: time.Now}
}

// WithClock overrides the clock. Test hook.
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// List returns all pending schedules.
func (s *Scheduler) List() ([]Scheduled, error) {
	var entries []Scheduled
	if _, err := s.docs.Load(storage.KindScheduledDrafts, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Schedule upserts the schedule for draftID: the existing entry is replaced
// in place, otherwise a new one is appended. The draft's current text is
// snapshotted into the entry.
func (s *Scheduler) Schedule(draftID, date, timeOfDay string) (Scheduled, error) {
	d, err := s.drafts.Get(draftID)
	if err != nil {
		return Scheduled{}, err
	}

	entry := Scheduled{
		DraftID:       draftID,
		TopicTitle:    d.TopicTitle,
		Draft:         d.Draft,
		ScheduledDate: date,
		ScheduledTime: timeOfDay,
		ScheduledAt:   s.now(),
		Notified:      false,
	}

	entries, err := s.List()
	if err != nil {
		return Scheduled{}, err
	}

	replaced := false
	for i := range entries {
		if entries[i].DraftID == draftID {
			entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, entry)
	}

	if err := s.docs.Save(storage.KindScheduledDrafts, entries); err != nil {
		return Scheduled{}, fmt.Errorf("save scheduled drafts: %w", err)
	}
	return entry, nil
}

// Unschedule removes any pending schedule for draftID. No-op when none
// exists.
func (s *Scheduler) Unschedule(draftID string) error {
	entries, err := s.List()
	if err != nil {
		return err
	}

	kept := entries[:0]
	for _, e := range entries {
		if e.DraftID != draftID {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return nil
	}

	if err := s.docs.Save(storage.KindScheduledDrafts, kept); err != nil {
		return fmt.Errorf("save scheduled drafts: %w", err)
	}
	return nil
}
