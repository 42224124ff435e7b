package draft

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoughtpipe/thought-pipeline/internal/prefs"
	"github.com/thoughtpipe/thought-pipeline/internal/storage"
)

func newTestScheduler(t *testing.T) (*Scheduler, *Store) {
	t.Helper()
	mem := storage.NewMemory()
	drafts := NewStore(mem, prefs.NewStore(mem))
	sched := NewScheduler(mem, drafts).WithClock(func() time.Time {
		return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	})
	return sched, drafts
}

func TestScheduleUpsert(t *testing.T) {
	sched, drafts := newTestScheduler(t)
	require.NoError(t, drafts.Add(Draft{ID: "d1", TopicTitle: "Topic A", Draft: "text"}))

	_, err := sched.Schedule("d1", "2025-06-02", "09:00")
	require.NoError(t, err)

	entry, err := sched.Schedule("d1", "2025-06-03", "18:30")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-03", entry.ScheduledDate)
	assert.Equal(t, "18:30", entry.ScheduledTime)
	assert.Equal(t, "Topic A", entry.TopicTitle)
	assert.False(t, entry.Notified)

	entries, err := sched.List()
	require.NoError(t, err)
	require.Len(t, entries, 1, "rescheduling replaces in place")
	assert.Equal(t, "2025-06-03", entries[0].ScheduledDate)
}

func TestScheduleUnknownDraft(t *testing.T) {
	sched, _ := newTestScheduler(t)

	_, err := sched.Schedule("missing", "2025-06-02", "09:00")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnschedule(t *testing.T) {
	sched, drafts := newTestScheduler(t)
	require.NoError(t, drafts.Add(Draft{ID: "d1", TopicTitle: "Topic A"}))

	_, err := sched.Schedule("d1", "2025-06-02", "09:00")
	require.NoError(t, err)
	require.NoError(t, sched.Unschedule("d1"))

	entries, err := sched.List()
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Unscheduling again is a no-op.
	require.NoError(t, sched.Unschedule("d1"))
}
