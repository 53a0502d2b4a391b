package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/seoscope/seoscope/analyzer"
)

// AnalyzeRequest is the JSON body of POST /api/analyze.
type AnalyzeRequest struct {
	URL               string `json:"url" binding:"required"`
	IncludeAIAnalysis bool   `json:"include_ai_analysis"`
	AnalysisDepth     string `json:"analysis_depth"`
}

// ResponseError carries the server-provided failure message.
type ResponseError struct {
	Message string `json:"message"`
}

// AnalyzeResponse is the envelope returned by the analysis API. On
// success the analysis fields are flattened alongside the success flag.
type AnalyzeResponse struct {
	Success bool           `json:"success"`
	Error   *ResponseError `json:"error,omitempty"`
	analyzer.SEOAnalysis
}

// APIError is returned when the server completed the request but
// reported a failure in the envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("analysis failed (status %d)", e.StatusCode)
}

// Client is a single-shot client for the analysis API. It makes exactly
// one attempt per call and adds no retry or backoff.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the API at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			// Analysis of a slow page can legitimately take a while;
			// this only bounds a hung connection.
			Timeout: 2 * time.Minute,
		},
	}
}

// Analyze submits req and returns the parsed envelope. A server-side
// failure surfaces as *APIError; a transport or decode failure as a
// plain error.
func (c *Client) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var envelope AnalyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}

	if !envelope.Success {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if envelope.Error != nil {
			apiErr.Message = envelope.Error.Message
		}
		return nil, apiErr
	}

	return &envelope, nil
}
