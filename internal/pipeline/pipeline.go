// Package pipeline orchestrates the single-item flows: researching a
// suggested topic, turning one voice note into a draft, merging topics into
// a thread, and on-demand text-to-speech. Any external-service failure
// aborts the whole operation; no partial state is written.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/thoughtpipe/thought-pipeline/internal/ai"
	"github.com/thoughtpipe/thought-pipeline/internal/draft"
	"github.com/thoughtpipe/thought-pipeline/internal/prefs"
	"github.com/thoughtpipe/thought-pipeline/internal/topic"
)

var (
	// ErrMissingInput is returned when neither text nor audio is supplied.
	ErrMissingInput = errors.New("provide text or audio")

	// ErrInsufficientTopics is returned when a merge resolves fewer than
	// two topics.
	ErrInsufficientTopics = errors.New("at least two resolvable topics required")
)

// Pipeline wires the core stores and AI collaborators together.
type Pipeline struct {
	Catalog     *topic.Catalog
	Prefs       *prefs.Store
	Drafts      *draft.Store
	Transcriber ai.Transcriber
	Generator   ai.Generator
	Speaker     ai.Speaker
	AudioDir    string
	Logger      *slog.Logger

	// Now and NewID are overridable for tests.
	Now   func() time.Time
	NewID func() string
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *Pipeline) newID() string {
	if p.NewID != nil {
		return p.NewID()
	}
	return uuid.NewString()
}

// Suggest turns a topic idea (text, or a voice note at audioPath) into a
// researched user topic. TTS for the new topic is generated in the
// background, best effort.
func (p *Pipeline) Suggest(ctx context.Context, text, audioPath string) (topic.Topic, error) {
	idea := strings.TrimSpace(text)
	if audioPath != "" {
		transcript, err := p.Transcriber.Transcribe(ctx, audioPath)
		if err != nil {
			return topic.Topic{}, err
		}
		idea = transcript
	}
	if idea == "" {
		return topic.Topic{}, ErrMissingInput
	}

	system, user := ai.ResearchPrompt(idea)
	raw, err := p.Generator.Complete(ctx, system, user)
	if err != nil {
		return topic.Topic{}, err
	}

	var researched ai.ResearchedTopic
	if err := ai.DecodeObject(raw, &researched); err != nil {
		return topic.Topic{}, err
	}

	createdAt := p.now()
	t := topic.Topic{
		ID:          topic.UserTopicID(researched.Title, createdAt),
		Title:       researched.Title,
		Summary:     researched.Summary,
		Details:     researched.Details,
		Link:        researched.Link,
		PostWorthy:  researched.PostWorthy,
		TopicSource: topic.SourceUser,
		CreatedAt:   createdAt,
	}
	if err := p.Catalog.AddUserTopic(t); err != nil {
		return topic.Topic{}, err
	}

	go func() {
		outPath := filepath.Join(p.AudioDir, t.ID+".mp3")
		if err := p.Speaker.Speak(context.Background(), ai.SpokenText(t), outPath); err != nil {
			p.Logger.Warn("tts for suggested topic failed", "topicId", t.ID, "error", err)
		}
	}()

	return t, nil
}

// Record converts one voice note about a topic into a draft and marks the
// topic recorded.
func (p *Pipeline) Record(ctx context.Context, topicID, audioPath string) (draft.Draft, error) {
	t, err := p.Catalog.Find(topicID)
	if err != nil {
		return draft.Draft{}, err
	}

	transcript, err := p.Transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return draft.Draft{}, err
	}

	system, user := ai.DraftPrompt(t, transcript)
	text, err := p.Generator.Complete(ctx, system, user)
	if err != nil {
		return draft.Draft{}, err
	}

	d := draft.Draft{
		ID:         p.newID(),
		TopicID:    t.ID,
		TopicTitle: t.Title,
		Transcript: transcript,
		Draft:      text,
		Template:   draft.DefaultTemplate,
		CreatedAt:  p.now(),
	}
	if err := p.Drafts.Add(d); err != nil {
		return draft.Draft{}, err
	}
	if _, err := p.Prefs.SetStatus(t.ID, prefs.StatusRecorded); err != nil {
		return draft.Draft{}, err
	}
	return d, nil
}

// Merge weaves two or more topics into a thread draft. Unresolvable ids are
// silently dropped; fewer than two survivors is an input error.
func (p *Pipeline) Merge(ctx context.Context, topicIDs []string, title string) (draft.Draft, error) {
	var topics []topic.Topic
	for _, id := range topicIDs {
		t, err := p.Catalog.Find(id)
		if err != nil {
			if errors.Is(err, topic.ErrNotFound) {
				continue
			}
			return draft.Draft{}, err
		}
		topics = append(topics, t)
	}
	if len(topics) < 2 {
		return draft.Draft{}, ErrInsufficientTopics
	}

	system, user := ai.ThreadPrompt(topics, title)
	raw, err := p.Generator.Complete(ctx, system, user)
	if err != nil {
		return draft.Draft{}, err
	}

	var thread ai.Thread
	if err := ai.DecodeObject(raw, &thread); err != nil {
		return draft.Draft{}, err
	}

	ids := make([]string, len(topics))
	for i, t := range topics {
		ids[i] = t.ID
	}

	threadTitle := thread.Title
	if title != "" {
		threadTitle = title
	}

	d := draft.Draft{
		ID:             p.newID(),
		TopicID:        strings.Join(ids, ","),
		TopicTitle:     threadTitle,
		Draft:          strings.Join(thread.Posts, "\n\n---\n\n"),
		Template:       draft.DefaultTemplate,
		IsThread:       true,
		ThreadPosts:    thread.Posts,
		MergedTopicIDs: ids,
		CreatedAt:      p.now(),
	}
	if err := p.Drafts.Add(d); err != nil {
		return draft.Draft{}, err
	}
	return d, nil
}

// Speak generates (or reuses) the spoken audio for a topic and returns the
// audio file name under the audio dir.
func (p *Pipeline) Speak(ctx context.Context, topicID string) (string, error) {
	t, err := p.Catalog.Find(topicID)
	if err != nil {
		return "", err
	}

	fileName := t.ID + ".mp3"
	outPath := filepath.Join(p.AudioDir, fileName)
	if _, err := os.Stat(outPath); err == nil {
		return fileName, nil
	}

	if err := p.Speaker.Speak(ctx, ai.SpokenText(t), outPath); err != nil {
		return "", fmt.Errorf("generate tts: %w", err)
	}
	return fileName, nil
}
