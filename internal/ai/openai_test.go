package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIMissingCredential(t *testing.T) {
	client := NewOpenAI("http://unused", "", "gpt-4o-mini", "whisper-1", time.Second)

	_, err := client.Complete(context.Background(), "sys", "user")
	assert.ErrorIs(t, err, ErrMissingCredential)

	_, err = client.Transcribe(context.Background(), "unused.wav")
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestOpenAIComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "gpt-4o-mini", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "generated text"}},
			},
		})
	}))
	defer srv.Close()

	client := NewOpenAI(srv.URL, "test-key", "gpt-4o-mini", "whisper-1", time.Second)
	text, err := client.Complete(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, "generated text", text)
}

func TestOpenAICompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	client := NewOpenAI(srv.URL, "test-key", "gpt-4o-mini", "whisper-1", time.Second)
	_, err := client.Complete(context.Background(), "sys", "user")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestOpenAICompleteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewOpenAI(srv.URL, "test-key", "gpt-4o-mini", "whisper-1", time.Second)
	_, err := client.Complete(context.Background(), "sys", "user")
	assert.ErrorIs(t, err, ErrExternalService)
}

func TestOpenAITranscribe(t *testing.T) {
	audioPath := filepath.Join(t.TempDir(), "note.wav")
	require.NoError(t, os.WriteFile(audioPath, []byte("fake audio"), 0o644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "note.wav", header.Filename)

		json.NewEncoder(w).Encode(map[string]string{"text": "the transcript"})
	}))
	defer srv.Close()

	client := NewOpenAI(srv.URL, "test-key", "gpt-4o-mini", "whisper-1", time.Second)
	text, err := client.Transcribe(context.Background(), audioPath)
	require.NoError(t, err)
	assert.Equal(t, "the transcript", text)
}
