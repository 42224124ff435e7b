package ai

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// EdgeTTS renders text to speech by invoking the edge-tts binary.
type EdgeTTS struct {
	voice string
}

// NewEdgeTTS creates a speaker using the given voice.
func NewEdgeTTS(voice string) *EdgeTTS {
	return &EdgeTTS{voice: voice}
}

// Speak writes spoken audio for text to outPath. The text goes through a
// temp file so it never touches a shell.
func (t *EdgeTTS) Speak(ctx context.Context, text, outPath string) error {
	tmp, err := os.CreateTemp("", "tts-*.txt")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create audio dir: %w", err)
	}

	cmd := exec.CommandContext(ctx, "edge-tts", "-f", tmp.Name(), "--write-media", outPath, "--voice", t.voice)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: edge-tts: %v: %s", ErrExternalService, err, out)
	}
	return nil
}
