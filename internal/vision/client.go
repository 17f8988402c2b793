// Package vision wraps the vision-language captioning endpoint behind a
// small stateless client: one image plus one task prompt in, one caption out.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/paultsoi1014/document-parser/internal/domain"
)

const (
	// DefaultTaskPrompt is used whenever callers do not supply a prompt.
	DefaultTaskPrompt = "<MORE_DETAILED_CAPTION>"

	defaultBaseURL = "https://openrouter.ai/api/v1/chat/completions"
	defaultModel   = "x-ai/grok-4.1-fast:free"

	// Inference parameters are fixed, not per-call configurable.
	maxCompletionTokens = 1024
	temperature         = 0.0
)

// CaptionResult is the model output keyed by task prompt. Callers consume
// only the entry for the prompt they requested.
type CaptionResult map[string]string

// Client handles communication with an OpenAI-compatible vision endpoint.
// It holds no per-request state and is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// Config holds client construction options. Zero values fall back to the
// public OpenRouter endpoint and default model.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Message represents a chat message.
type Message struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// ContentPart represents a part of message content (text or image).
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL represents an image URL in the message.
type ImageURL struct {
	URL string `json:"url"`
}

// Request represents the API request structure.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// Response represents the API response structure.
type Response struct {
	ID      string   `json:"id"`
	Choices []Choice `json:"choices"`
}

// Choice represents a single completion choice.
type Choice struct {
	Message      ChoiceMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

// ChoiceMessage carries the completion content.
type ChoiceMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewClient creates a new captioning client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 2 * time.Minute
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Describe runs the captioning model over img with the given task prompt and
// returns the prompt-keyed caption text.
func (c *Client) Describe(ctx context.Context, img image.Image, taskPrompt string) (CaptionResult, error) {
	if taskPrompt == "" {
		taskPrompt = DefaultTaskPrompt
	}

	req, err := c.buildRequest(img, taskPrompt)
	if err != nil {
		return nil, domain.APIError("failed to build caption request", err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, domain.APIError("failed to marshal caption request", err)
	}

	resp, err := c.retryWithBackoff(ctx, func() (*http.Response, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}

		httpReq.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		return c.httpClient.Do(httpReq)
	})
	if err != nil {
		return nil, domain.APIError("failed to send caption request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, domain.APIError(fmt.Sprintf("vision endpoint returned status %d: %s", resp.StatusCode, string(bodyBytes)), nil)
	}

	caption, err := parseCaption(resp.Body)
	if err != nil {
		return nil, err
	}

	return CaptionResult{taskPrompt: caption}, nil
}

// buildRequest constructs the API request with the image inlined as a
// base64 data URI.
func (c *Client) buildRequest(img image.Image, taskPrompt string) (*Request, error) {
	encoded, err := domain.EncodeImageBase64(img)
	if err != nil {
		return nil, err
	}
	imageURL := "data:image/jpeg;base64," + encoded

	msg := Message{
		Role: "user",
		Content: []ContentPart{
			{
				Type: "text",
				Text: buildCaptionInstruction(taskPrompt),
			},
			{
				Type:     "image_url",
				ImageURL: &ImageURL{URL: imageURL},
			},
		},
	}

	return &Request{
		Model:       c.model,
		Messages:    []Message{msg},
		MaxTokens:   maxCompletionTokens,
		Temperature: temperature,
	}, nil
}

// buildCaptionInstruction maps a task prompt to the instruction sent to the
// model. Unknown prompts are forwarded verbatim.
func buildCaptionInstruction(taskPrompt string) string {
	switch taskPrompt {
	case "<CAPTION>":
		return "Describe this image in one short sentence. Output only the description, no preamble."
	case "<DETAILED_CAPTION>":
		return "Describe this image in a few sentences. Output only the description, no preamble."
	case "<MORE_DETAILED_CAPTION>":
		return "Describe this image in detail, covering every visible element, any text it contains and the overall layout. Output only the description, no preamble."
	case "<OCR>":
		return "Transcribe all text visible in this image exactly as written. Output only the transcription."
	default:
		return taskPrompt
	}
}

// parseCaption extracts the completion text from the response body.
func parseCaption(body io.Reader) (string, error) {
	bodyBytes, err := io.ReadAll(body)
	if err != nil {
		return "", domain.APIError("failed to read caption response", err)
	}

	var apiResp Response
	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		return "", domain.APIError("failed to parse caption response", err)
	}

	if len(apiResp.Choices) == 0 {
		return "", domain.APIError("no choices in caption response", nil)
	}

	return strings.TrimSpace(apiResp.Choices[0].Message.Content), nil
}
