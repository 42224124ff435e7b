// Package batch drives the multi-recording capture-then-process workflow:
// record several voice notes against topics, then convert them all to drafts
// in one run with per-item failure handling.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/thoughtpipe/thought-pipeline/internal/ai"
	"github.com/thoughtpipe/thought-pipeline/internal/draft"
	"github.com/thoughtpipe/thought-pipeline/internal/prefs"
	"github.com/thoughtpipe/thought-pipeline/internal/storage"
	"github.com/thoughtpipe/thought-pipeline/internal/topic"
)

var (
	// ErrNotFound is returned when a session id resolves to nothing.
	ErrNotFound = errors.New("batch session not found")

	// ErrMissingAudio is returned when a recording is added without audio.
	ErrMissingAudio = errors.New("no audio supplied")
)

// Session states. A session starts recording and ends processed; there is no
// reverse transition.
const (
	StatusRecording = "recording"
	StatusProcessed = "processed"
)

// Recording references one captured voice note within a session.
type Recording struct {
	ID         string    `json:"id"`
	TopicID    string    `json:"topicId"`
	TopicTitle string    `json:"topicTitle"`
	AudioPath  string    `json:"audioPath"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Result is the per-recording outcome of processing.
type Result struct {
	Success    bool   `json:"success"`
	TopicTitle string `json:"topicTitle"`
	DraftID    string `json:"draftId,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Session is one capture-then-process run.
type Session struct {
	ID          string      `json:"id"`
	CreatedAt   time.Time   `json:"createdAt"`
	Status      string      `json:"status"`
	Recordings  []Recording `json:"recordings"`
	Results     []Result    `json:"results,omitempty"`
	ProcessedAt *time.Time  `json:"processedAt,omitempty"`
}

// Manager owns batch sessions end to end.
//
// Note: AddRecording does not reject additions to an already processed
// session, matching the original behavior; a hardened version would return
// an invalid-state error there.
type Manager struct {
	docs          storage.Store
	catalog       *topic.Catalog
	drafts        *draft.Store
	prefs         *prefs.Store
	transcriber   ai.Transcriber
	generator     ai.Generator
	recordingsDir string
	logger        *slog.Logger
	now           func() time.Time
	newID         func() string
}

// NewManager wires a manager over its collaborators.
func NewManager(docs storage.Store, catalog *topic.Catalog, drafts *draft.Store, p *prefs.Store, transcriber ai.Transcriber, generator ai.Generator, recordingsDir string, logger *slog.Logger) *Manager {
	return &Manager{
		docs:          docs,
		catalog:       catalog,
		drafts:        drafts,
		prefs:         p,
		transcriber:   transcriber,
		generator:     generator,
		recordingsDir: recordingsDir,
		logger:        logger,
		now:           time.Now,
		newID:         uuid.NewString,
	}
}

// WithClock overrides the clock. Test hook.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

func (m *Manager) load() ([]Session, error) {
	var sessions []Session
	if _, err := m.docs.Load(storage.KindBatchSessions, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (m *Manager) save(sessions []Session) error {
	if err := m.docs.Save(storage.KindBatchSessions, sessions); err != nil {
		return fmt.Errorf("save batch sessions: %w", err)
	}
	return nil
}

// Start creates a new session in the recording state.
func (m *Manager) Start() (Session, error) {
	session := Session{
		ID:         m.newID(),
		CreatedAt:  m.now(),
		Status:     StatusRecording,
		Recordings: []Recording{},
	}

	sessions, err := m.load()
	if err != nil {
		return Session{}, err
	}
	sessions = append([]Session{session}, sessions...)
	if err := m.save(sessions); err != nil {
		return Session{}, err
	}
	return session, nil
}

// Get resolves a session by id.
func (m *Manager) Get(id string) (Session, error) {
	sessions, err := m.load()
	if err != nil {
		return Session{}, err
	}
	for _, s := range sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return Session{}, ErrNotFound
}

// AddRecording stores the audio stream as a file under the recordings dir
// and appends a recording reference to the session.
func (m *Manager) AddRecording(sessionID, topicID, topicTitle string, audio io.Reader, ext string) (Session, error) {
	if audio == nil {
		return Session{}, ErrMissingAudio
	}

	sessions, err := m.load()
	if err != nil {
		return Session{}, err
	}

	idx := -1
	for i := range sessions {
		if sessions[i].ID == sessionID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return Session{}, ErrNotFound
	}

	rec := Recording{
		ID:         m.newID(),
		TopicID:    topicID,
		TopicTitle: topicTitle,
		CreatedAt:  m.now(),
	}
	rec.AudioPath = filepath.Join(m.recordingsDir, rec.ID+"."+ext)

	if err := os.MkdirAll(m.recordingsDir, 0o755); err != nil {
		return Session{}, fmt.Errorf("create recordings dir: %w", err)
	}
	f, err := os.Create(rec.AudioPath)
	if err != nil {
		return Session{}, fmt.Errorf("create recording file: %w", err)
	}
	if _, err := io.Copy(f, audio); err != nil {
		f.Close()
		return Session{}, fmt.Errorf("write recording file: %w", err)
	}
	if err := f.Close(); err != nil {
		return Session{}, fmt.Errorf("close recording file: %w", err)
	}

	sessions[idx].Recordings = append(sessions[idx].Recordings, rec)
	if err := m.save(sessions); err != nil {
		return Session{}, err
	}
	return sessions[idx], nil
}

// Process converts every recording in the session to a draft, strictly in
// order. One recording's failure never aborts the batch: the error is
// captured in that recording's result and the loop moves on. Afterwards the
// session is marked processed with the full results array attached.
func (m *Manager) Process(ctx context.Context, sessionID string) (Session, error) {
	session, err := m.Get(sessionID)
	if err != nil {
		return Session{}, err
	}

	results := make([]Result, 0, len(session.Recordings))
	for _, rec := range session.Recordings {
		results = append(results, m.processRecording(ctx, session.ID, rec))

		// Temp audio cleanup is best-effort.
		if err := os.Remove(rec.AudioPath); err != nil && !os.IsNotExist(err) {
			m.logger.Warn("failed to remove recording audio", "path", rec.AudioPath, "error", err)
		}
	}

	sessions, err := m.load()
	if err != nil {
		return Session{}, err
	}
	processedAt := m.now()
	for i := range sessions {
		if sessions[i].ID == sessionID {
			sessions[i].Status = StatusProcessed
			sessions[i].Results = results
			sessions[i].ProcessedAt = &processedAt
			session = sessions[i]
			break
		}
	}
	if err := m.save(sessions); err != nil {
		return Session{}, err
	}
	return session, nil
}

// processRecording runs transcribe -> resolve -> generate -> persist for one
// recording and folds any failure into the result.
func (m *Manager) processRecording(ctx context.Context, sessionID string, rec Recording) Result {
	transcript, err := m.transcriber.Transcribe(ctx, rec.AudioPath)
	if err != nil {
		return Result{TopicTitle: rec.TopicTitle, Error: err.Error()}
	}

	t, err := m.catalog.Find(rec.TopicID)
	if err != nil {
		if errors.Is(err, topic.ErrNotFound) {
			return Result{TopicTitle: rec.TopicTitle, Error: "Topic not found"}
		}
		return Result{TopicTitle: rec.TopicTitle, Error: err.Error()}
	}

	system, user := ai.DraftPrompt(t, transcript)
	text, err := m.generator.Complete(ctx, system, user)
	if err != nil {
		return Result{TopicTitle: rec.TopicTitle, Error: err.Error()}
	}

	d := draft.Draft{
		ID:             m.newID(),
		TopicID:        t.ID,
		TopicTitle:     t.Title,
		Transcript:     transcript,
		Draft:          text,
		Template:       draft.DefaultTemplate,
		BatchSessionID: sessionID,
		CreatedAt:      m.now(),
	}
	if err := m.drafts.Add(d); err != nil {
		return Result{TopicTitle: rec.TopicTitle, Error: err.Error()}
	}
	if _, err := m.prefs.SetStatus(t.ID, prefs.StatusRecorded); err != nil {
		m.logger.Warn("failed to mark topic recorded", "topicId", t.ID, "error", err)
	}

	return Result{Success: true, TopicTitle: rec.TopicTitle, DraftID: d.ID}
}
