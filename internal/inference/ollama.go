package inference

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"
)

// Ollama defaults.
const (
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultOllamaModel = "llava"

	// maxResponseSize bounds the response body read into memory.
	maxResponseSize = 10 << 20
)

// OllamaClient analyzes images with a locally hosted model through the
// Ollama chat API.
type OllamaClient struct {
	httpClient *http.Client
	baseURL    string
	model      string
}

// OllamaSettings holds the connection settings for NewOllamaClient.
type OllamaSettings struct {
	URL     string        // empty: DefaultOllamaURL
	Model   string        // empty: DefaultOllamaModel
	Timeout time.Duration // zero: no client-side timeout
}

// NewOllamaClient creates an OllamaClient.
func NewOllamaClient(s OllamaSettings) *OllamaClient {
	if s.URL == "" {
		s.URL = DefaultOllamaURL
	}
	if s.Model == "" {
		s.Model = DefaultOllamaModel
	}
	return &OllamaClient{
		httpClient: &http.Client{Timeout: s.Timeout},
		baseURL:    strings.TrimRight(s.URL, "/"),
		model:      s.Model,
	}
}

type ollamaMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

// ollamaChatResponse uses pointers so absent fields are distinguishable
// from empty ones.
type ollamaChatResponse struct {
	Model   string `json:"model"`
	Message *struct {
		Role    string  `json:"role"`
		Content *string `json:"content"`
	} `json:"message"`
	DoneReason      string `json:"done_reason"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
	Error           string `json:"error"`
}

// Model returns the configured model identifier.
func (c *OllamaClient) Model() string { return c.model }

// Analyze sends the image and instruction as a single user message and
// extracts message.content from the reply.
func (c *OllamaClient) Analyze(ctx context.Context, img image.Image, instruction string) Result {
	data, err := EncodePNG(img)
	if err != nil {
		return failure(c.model, err)
	}

	body, err := json.Marshal(ollamaChatRequest{
		Model: c.model,
		Messages: []ollamaMessage{{
			Role:    "user",
			Images:  []string{base64.StdEncoding.EncodeToString(data)},
			Content: instruction,
		}},
		Stream: false,
	})
	if err != nil {
		return failure(c.model, fmt.Errorf("%w: marshal request: %v", ErrEncode, err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return transportFailure(c.model, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportFailure(c.model, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return transportFailure(c.model, fmt.Errorf("reading response: %v", err))
	}

	var parsed ollamaChatResponse
	decodeErr := json.Unmarshal(raw, &parsed)

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(parsed.Error)
		if decodeErr != nil || msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return transportFailure(c.model, &StatusError{Code: resp.StatusCode, Message: msg})
	}
	if decodeErr != nil {
		return failure(c.model, fmt.Errorf("%w: invalid JSON: %v", ErrResponseShape, decodeErr))
	}

	return c.extract(&parsed)
}

func (c *OllamaClient) extract(r *ollamaChatResponse) Result {
	if r.Error != "" {
		return transportFailure(c.model, errors.New(r.Error))
	}
	if r.Message == nil {
		return shapeFailure(c.model, "message")
	}
	if r.Message.Content == nil {
		return shapeFailure(c.model, "message.content")
	}
	if strings.TrimSpace(*r.Message.Content) == "" {
		return shapeFailure(c.model, "message.content (empty)")
	}

	model := r.Model
	if model == "" {
		model = c.model
	}
	return Result{
		Text:       *r.Message.Content,
		Model:      model,
		StopReason: r.DoneReason,
		Usage: Usage{
			InputTokens:  r.PromptEvalCount,
			OutputTokens: r.EvalCount,
			TotalTokens:  r.PromptEvalCount + r.EvalCount,
		},
	}
}

// StatusError is a non-200 reply from an HTTP inference service.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("status %d", e.Code)
	}
	return fmt.Sprintf("status %d: %s", e.Code, e.Message)
}

// Compile-time interface check.
var _ Analyzer = (*OllamaClient)(nil)
