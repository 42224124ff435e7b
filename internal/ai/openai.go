package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// OpenAI talks to an OpenAI-compatible API for transcription and chat
// completion.
type OpenAI struct {
	baseURL         string
	apiKey          string
	chatModel       string
	transcribeModel string
	client          *http.Client
}

// NewOpenAI creates a client. The timeout bounds every call; there is no
// retry.
func NewOpenAI(baseURL, apiKey, chatModel, transcribeModel string, timeout time.Duration) *OpenAI {
	return &OpenAI{
		baseURL:         baseURL,
		apiKey:          apiKey,
		chatModel:       chatModel,
		transcribeModel: transcribeModel,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// checkCredential fails fast when no API key is configured, before any
// network traffic.
func (o *OpenAI) checkCredential() error {
	if o.apiKey == "" {
		return fmt.Errorf("%w: OPENAI_API_KEY not set", ErrMissingCredential)
	}
	return nil
}

// transcribeResponse is the response format of the audio transcription
// endpoint.
type transcribeResponse struct {
	Text string `json:"text"`
}

// Transcribe sends the audio file at audioPath for speech-to-text.
func (o *OpenAI) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if err := o.checkCredential(); err != nil {
		return "", err
	}

	file, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("open audio: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("copy audio: %w", err)
	}
	if err := writer.WriteField("model", o.transcribeModel); err != nil {
		return "", fmt.Errorf("write model field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/audio/transcriptions", &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: transcription: %v", ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: transcription status %d: %s", ErrExternalService, resp.StatusCode, string(respBody))
	}

	var tr transcribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("%w: decode transcription: %v", ErrMalformedResponse, err)
	}
	return tr.Text, nil
}

// chatRequest is the request format of the chat completions endpoint.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the response format of the chat completions endpoint.
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete runs a chat completion with a system instruction and user content
// and returns the generated text.
func (o *OpenAI) Complete(ctx context.Context, system, user string) (string, error) {
	if err := o.checkCredential(); err != nil {
		return "", err
	}

	payload := chatRequest{
		Model: o.chatModel,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: chat completion: %v", ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: chat completion status %d: %s", ErrExternalService, resp.StatusCode, string(respBody))
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("%w: decode chat completion: %v", ErrMalformedResponse, err)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrMalformedResponse)
	}
	return cr.Choices[0].Message.Content, nil
}
