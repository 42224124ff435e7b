package batch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoughtpipe/thought-pipeline/internal/draft"
	"github.com/thoughtpipe/thought-pipeline/internal/prefs"
	"github.com/thoughtpipe/thought-pipeline/internal/storage"
	"github.com/thoughtpipe/thought-pipeline/internal/topic"
)

type stubTranscriber struct {
	calls  int
	failAt int
}

func (s *stubTranscriber) Transcribe(_ context.Context, audioPath string) (string, error) {
	s.calls++
	if s.failAt == s.calls {
		return "", errors.New("transcription failed")
	}
	return "transcript of " + filepath.Base(audioPath), nil
}

type stubGenerator struct {
	reply string
	err   error
}

func (s *stubGenerator) Complete(_ context.Context, _, _ string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

type fixture struct {
	mgr     *Manager
	catalog *topic.Catalog
	drafts  *draft.Store
	prefs   *prefs.Store
}

func newFixture(t *testing.T, transcriber *stubTranscriber, generator *stubGenerator) fixture {
	t.Helper()

	mem := storage.NewMemory()
	catalog := topic.NewCatalog(filepath.Join(t.TempDir(), "scout"), mem)
	p := prefs.NewStore(mem)
	drafts := draft.NewStore(mem, p)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mgr := NewManager(mem, catalog, drafts, p, transcriber, generator, t.TempDir(), logger)
	return fixture{mgr: mgr, catalog: catalog, drafts: drafts, prefs: p}
}

func addTopics(t *testing.T, catalog *topic.Catalog, ids ...string) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, catalog.AddUserTopic(topic.Topic{ID: id, Title: "Topic " + id}))
	}
}

func TestStartSession(t *testing.T) {
	f := newFixture(t, &stubTranscriber{}, &stubGenerator{reply: "draft"})

	session, err := f.mgr.Start()
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, StatusRecording, session.Status)
	assert.Empty(t, session.Recordings)

	got, err := f.mgr.Get(session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
}

func TestGetUnknownSession(t *testing.T) {
	f := newFixture(t, &stubTranscriber{}, &stubGenerator{})

	_, err := f.mgr.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddRecording(t *testing.T) {
	f := newFixture(t, &stubTranscriber{}, &stubGenerator{})
	addTopics(t, f.catalog, "t1")

	session, err := f.mgr.Start()
	require.NoError(t, err)

	session, err = f.mgr.AddRecording(session.ID, "t1", "Topic t1", strings.NewReader("audio bytes"), "wav")
	require.NoError(t, err)
	require.Len(t, session.Recordings, 1)

	rec := session.Recordings[0]
	assert.Equal(t, "t1", rec.TopicID)
	assert.True(t, strings.HasSuffix(rec.AudioPath, ".wav"))

	body, err := os.ReadFile(rec.AudioPath)
	require.NoError(t, err)
	assert.Equal(t, "audio bytes", string(body))
}

func TestAddRecordingMissingAudio(t *testing.T) {
	f := newFixture(t, &stubTranscriber{}, &stubGenerator{})

	session, err := f.mgr.Start()
	require.NoError(t, err)

	_, err = f.mgr.AddRecording(session.ID, "t1", "Topic t1", nil, "wav")
	assert.ErrorIs(t, err, ErrMissingAudio)
}

func TestAddRecordingUnknownSession(t *testing.T) {
	f := newFixture(t, &stubTranscriber{}, &stubGenerator{})

	_, err := f.mgr.AddRecording("missing", "t1", "Topic t1", strings.NewReader("audio"), "wav")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProcessPartialFailure(t *testing.T) {
	f := newFixture(t, &stubTranscriber{failAt: 2}, &stubGenerator{reply: "generated draft"})
	addTopics(t, f.catalog, "t1", "t2", "t3")

	session, err := f.mgr.Start()
	require.NoError(t, err)
	for _, id := range []string{"t1", "t2", "t3"} {
		session, err = f.mgr.AddRecording(session.ID, id, "Topic "+id, strings.NewReader("audio"), "wav")
		require.NoError(t, err)
	}
	audioPaths := make([]string, 0, 3)
	for _, rec := range session.Recordings {
		audioPaths = append(audioPaths, rec.AudioPath)
	}

	session, err = f.mgr.Process(context.Background(), session.ID)
	require.NoError(t, err)

	assert.Equal(t, StatusProcessed, session.Status)
	require.NotNil(t, session.ProcessedAt)
	require.Len(t, session.Results, 3)

	assert.True(t, session.Results[0].Success)
	assert.NotEmpty(t, session.Results[0].DraftID)

	assert.False(t, session.Results[1].Success)
	assert.Equal(t, "transcription failed", session.Results[1].Error)
	assert.Empty(t, session.Results[1].DraftID)

	assert.True(t, session.Results[2].Success)

	drafts, err := f.drafts.List()
	require.NoError(t, err)
	require.Len(t, drafts, 2, "only successful recordings produce drafts")
	for _, d := range drafts {
		assert.Equal(t, session.ID, d.BatchSessionID)
		assert.Equal(t, "generated draft", d.Draft)
	}

	rec := f.prefs.Read()
	assert.True(t, rec.IsRecorded("t1"))
	assert.False(t, rec.IsRecorded("t2"))
	assert.True(t, rec.IsRecorded("t3"))

	for _, p := range audioPaths {
		_, err := os.Stat(p)
		assert.True(t, os.IsNotExist(err), "audio cleaned up after processing")
	}
}

func TestProcessUnknownTopic(t *testing.T) {
	f := newFixture(t, &stubTranscriber{}, &stubGenerator{reply: "draft"})

	session, err := f.mgr.Start()
	require.NoError(t, err)
	_, err = f.mgr.AddRecording(session.ID, "nope", "Ghost Topic", strings.NewReader("audio"), "wav")
	require.NoError(t, err)

	session, err = f.mgr.Process(context.Background(), session.ID)
	require.NoError(t, err)

	require.Len(t, session.Results, 1)
	assert.False(t, session.Results[0].Success)
	assert.Equal(t, "Topic not found", session.Results[0].Error)
	assert.Equal(t, "Ghost Topic", session.Results[0].TopicTitle)
}

func TestProcessUnknownSession(t *testing.T) {
	f := newFixture(t, &stubTranscriber{}, &stubGenerator{})

	_, err := f.mgr.Process(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProcessEmptySession(t *testing.T) {
	f := newFixture(t, &stubTranscriber{}, &stubGenerator{})

	session, err := f.mgr.Start()
	require.NoError(t, err)

	session, err = f.mgr.Process(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusProcessed, session.Status)
	assert.Empty(t, session.Results)
}
