package draft

import (
	"fmt"
	"time"

	"github.com/thoughtpipe/thought-pipeline/internal/storage"
)

// maxVersions caps how many snapshots are kept per draft; oldest dropped
// first.
const maxVersions = 20

// Version is one snapshot of a draft's text.
type Version struct {
	Draft     string    `json:"draft"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int       `json:"version"`
}

// VersionLog is the append-only, size-capped revision history, keyed by
// draft id.
type VersionLog struct {
	docs storage.Store
	now  func() time.Time
}

// NewVersionLog creates a version log over docs.
func NewVersionLog(docs storage.Store) *VersionLog {
	return &VersionLog{docs: docs, now: time.Now}
}

// WithClock overrides the clock. Test hook.
func (l *VersionLog) WithClock(now func() time.Time) *VersionLog {
	l.now = now
	return l
}

func (l *VersionLog) load() (map[string][]Version, error) {
	byDraft := make(map[string][]Version)
	if _, err := l.docs.Load(storage.KindDraftVersions, &byDraft); err != nil {
		return nil, err
	}
	return byDraft, nil
}

// Append records a new snapshot for draftID. Version numbers keep counting
// up even after old entries are truncated away.
func (l *VersionLog) Append(draftID, text string) error {
	byDraft, err := l.load()
	if err != nil {
		return err
	}

	versions := byDraft[draftID]
	next := 1
	if len(versions) > 0 {
		next = versions[len(versions)-1].Version + 1
	}
	versions = append(versions, Version{
		Draft:     text,
		CreatedAt: l.now(),
		Version:   next,
	})
	if len(versions) > maxVersions {
		versions = versions[len(versions)-maxVersions:]
	}
	byDraft[draftID] = versions

	if err := l.docs.Save(storage.KindDraftVersions, byDraft); err != nil {
		return fmt.Errorf("save draft versions: %w", err)
	}
	return nil
}

// List returns the stored snapshots for draftID, oldest first. Empty when
// none exist.
func (l *VersionLog) List(draftID string) ([]Version, error) {
	byDraft, err := l.load()
	if err != nil {
		return nil, err
	}
	return byDraft[draftID], nil
}

// Drop discards all snapshots for draftID. Called when the draft itself is
// deleted.
func (l *VersionLog) Drop(draftID string) error {
	byDraft, err := l.load()
	if err != nil {
		return err
	}
	if _, ok := byDraft[draftID]; !ok {
		return nil
	}
	delete(byDraft, draftID)
	if err := l.docs.Save(storage.KindDraftVersions, byDraft); err != nil {
		return fmt.Errorf("save draft versions: %w", err)
	}
	return nil
}
