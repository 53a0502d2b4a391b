package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// Insights is the AI-generated commentary attached to an analysis when
// the caller opts in.
type Insights struct {
	Summary       string   `json:"summary"`
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	PriorityFixes []string `json:"priorityFixes"`
}

// Client talks to an OpenRouter-compatible chat completions API.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient creates an insight client. baseURL should point at the API
// root (e.g. https://openrouter.ai/api/v1).
func NewClient(apiKey, baseURL, model string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

const systemPrompt = `You are an experienced SEO consultant reviewing an automated audit of a web page.
Given the audit data, return JSON:
{
  "summary": "2-3 sentence overall assessment of the page's SEO health",
  "strengths": ["up to 3 things the page does well"],
  "weaknesses": ["up to 3 most significant problems"],
  "priorityFixes": ["up to 3 concrete fixes ordered by expected impact"]
}
Return ONLY JSON.`

// Generate produces insights from a compact text digest of an analysis.
func (c *Client) Generate(ctx context.Context, digest string) (*Insights, error) {
	response, err := c.chat(ctx, systemPrompt, digest)
	if err != nil {
		return nil, err
	}

	var insights Insights
	if err := json.Unmarshal([]byte(extractJSON(response)), &insights); err != nil {
		// Model returned prose instead of JSON. Degrade to using the
		// raw text as the summary rather than failing the analysis.
		return &Insights{Summary: strings.TrimSpace(response)}, nil
	}
	return &insights, nil
}

func (c *Client) chat(ctx context.Context, system, user string) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("insight API returned status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no response from model")
	}

	return chatResp.Choices[0].Message.Content, nil
}

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// extractJSON pulls a JSON object out of a model response that may wrap
// it in markdown code fences or surrounding prose.
func extractJSON(response string) string {
	if matches := fenceRe.FindStringSubmatch(response); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start != -1 && end > start {
		return response[start : end+1]
	}

	return response
}
