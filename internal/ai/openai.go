package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/jobsieve/jobsieve/internal/model"
)

// ErrNoAPIKey is returned by Complete when the client was built without
// credentials. Checked with errors.Is.
var ErrNoAPIKey = errors.New("no API key configured")

// ResponseError reports a 200 response whose body is structurally unusable:
// an error payload where choices belong, an empty choice list, or a body that
// is not the chat-completions shape at all. Retrying the same request will
// not produce a different structure, so callers treat these as hard failures.
type ResponseError struct {
	Msg string
	Err error
}

func (e *ResponseError) Error() string {
	if e.Err != nil {
		return "llm response: " + e.Msg + ": " + e.Err.Error()
	}
	return "llm response: " + e.Msg
}

func (e *ResponseError) Unwrap() error { return e.Err }

// Finish reasons reported by the chat-completions API that the pipeline
// inspects. Anything else is treated as a normal stop.
const (
	FinishStop          = "stop"
	FinishLength        = "length"
	FinishContentFilter = "content_filter"
)

// Request describes one chat-completions call. System and User become the two
// messages of the conversation; JSONObject requests the json_object response
// format so the service commits to returning a single JSON document.
type Request struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
	JSONObject  bool
}

// Completion is the portion of the service response the pipeline consumes:
// raw content plus the finish reason from response metadata. Truncation and
// content-policy rejection are detected from FinishReason, never by guessing
// from the content.
type Completion struct {
	Content      string
	FinishReason string
}

// OpenAIClient calls an OpenAI-compatible /chat/completions endpoint.
type OpenAIClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewOpenAIClient creates a client targeting the given API base URL.
func NewOpenAIClient(baseURL, apiKey, model string, httpClient *http.Client) *OpenAIClient {
	return &OpenAIClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: httpClient,
	}
}

// chatRequest mirrors the /chat/completions request body.
type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// chatResponse mirrors the relevant fields of the service response.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends the request and returns the first choice. Transport and
// status failures come back as *model.HTTPError so callers can classify them;
// a 429 carries the Retry-After duration when the service provides one.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (*Completion, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.JSONObject {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal llm request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create llm request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("llm request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read llm response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: retryAfter(resp),
			Err:        fmt.Errorf("llm returned HTTP %d: %s", resp.StatusCode, truncateBody(respBytes)),
		}
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBytes, &chatResp); err != nil {
		return nil, &ResponseError{Msg: "not a chat-completions body", Err: err}
	}

	if chatResp.Error != nil {
		return nil, &ResponseError{Msg: fmt.Sprintf("error payload (%s): %s", chatResp.Error.Type, chatResp.Error.Message)}
	}

	if len(chatResp.Choices) == 0 {
		return nil, &ResponseError{Msg: "no choices"}
	}

	choice := chatResp.Choices[0]
	return &Completion{
		Content:      choice.Message.Content,
		FinishReason: choice.FinishReason,
	}, nil
}

// retryAfter reads the Retry-After header as whole seconds.
func retryAfter(resp *http.Response) time.Duration {
	secs, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
	if secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// truncateBody keeps error messages readable when the service returns a page of HTML.
func truncateBody(b []byte) string {
	const max = 500
	if len(b) <= max {
		return string(b)
	}
	return string(b[:max]) + "..."
}
