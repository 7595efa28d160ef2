// ABOUTME: HTTP client for the hosted Gemini generateContent endpoint.
// ABOUTME: Retries rate limits and server errors with exponential backoff.

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultModel   = "gemini-2.0-flash"
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	geminiMaxRetries   = 3
	geminiInitialDelay = 1 * time.Second
)

var (
	// ErrNoAPIKey is returned when a model call is attempted without a key.
	ErrNoAPIKey = errors.New("no AI API key configured")

	// ErrMalformedResponse wraps model output that could not be decoded.
	ErrMalformedResponse = errors.New("malformed model response")

	// ErrEmptyInput is returned when there is no text to send.
	ErrEmptyInput = errors.New("input text is required")
)

// Model generates text from a prompt.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config configures a GeminiClient.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// GeminiClient calls the Gemini REST API.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	client     *http.Client
	retryDelay time.Duration
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// NewGeminiClient creates a client. Empty Model and BaseURL use the defaults.
func NewGeminiClient(cfg Config) *GeminiClient {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &GeminiClient{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		client:     &http.Client{Timeout: cfg.Timeout},
		retryDelay: geminiInitialDelay,
	}
}

// Generate sends prompt as a single user turn and returns the concatenated
// text of the first candidate.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)

	var lastErr error
	for attempt := 0; attempt < geminiMaxRetries; attempt++ {
		if attempt > 0 {
			// 1x then 2x the initial delay
			delay := time.Duration(math.Pow(2, float64(attempt-1))) * c.retryDelay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("create request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("x-goog-api-key", c.apiKey)

		resp, err := c.client.Do(httpReq)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			lastErr = fmt.Errorf("gemini request: %w", err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response body: %w", err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			var gErr geminiError
			if json.Unmarshal(respBody, &gErr) == nil && gErr.Error.Message != "" {
				lastErr = fmt.Errorf("gemini API error (%d): %s", resp.StatusCode, gErr.Error.Message)
			} else {
				lastErr = fmt.Errorf("gemini API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
			}

			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				continue
			}
			return "", lastErr
		}

		var gResp geminiResponse
		if err := json.Unmarshal(respBody, &gResp); err != nil {
			return "", fmt.Errorf("%w: decode envelope: %v", ErrMalformedResponse, err)
		}
		if len(gResp.Candidates) == 0 {
			return "", fmt.Errorf("%w: no candidates", ErrMalformedResponse)
		}

		var sb strings.Builder
		for _, p := range gResp.Candidates[0].Content.Parts {
			sb.WriteString(p.Text)
		}
		return sb.String(), nil
	}

	return "", fmt.Errorf("max retries (%d) exceeded: %w", geminiMaxRetries, lastErr)
}
