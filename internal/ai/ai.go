// Package ai holds the external AI collaborators: speech transcription,
// text generation, and text-to-speech. Only their input/output shape matters
// to the rest of the pipeline.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingCredential means a required service credential is absent.
	// Surfaced before any external call is attempted.
	ErrMissingCredential = errors.New("missing service credential")

	// ErrExternalService means a transcription/generation/TTS call failed
	// or timed out.
	ErrExternalService = errors.New("external service failure")

	// ErrMalformedResponse means the generation service returned text that
	// could not be parsed into the expected structure.
	ErrMalformedResponse = errors.New("malformed service response")
)

// Transcriber converts a stored audio artifact into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Generator produces text from a system instruction and user content.
type Generator interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Speaker renders text to an audio artifact at outPath.
type Speaker interface {
	Speak(ctx context.Context, text, outPath string) error
}

// StripFences removes markdown code fences from generated text. Models
// sometimes wrap JSON answers in ```json fences despite being told not to.
func StripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// DecodeObject parses generated text as JSON into v, stripping fences first.
// Parse failures are malformed-response errors.
func DecodeObject(text string, v any) error {
	if err := json.Unmarshal([]byte(StripFences(text)), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
