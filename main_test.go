package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/seoscope/seoscope/analyzer"
	"github.com/seoscope/seoscope/cache"
	"github.com/seoscope/seoscope/logging"
	"github.com/seoscope/seoscope/middleware"
	"github.com/seoscope/seoscope/stats"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	statsStorage, err := stats.NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create stats storage: %v", err)
	}

	store := cache.NewMemoryStore(100)
	t.Cleanup(func() { store.Close() })

	seoAnalyzer := analyzer.New(store, statsStorage, nil)
	t.Cleanup(func() { seoAnalyzer.Shutdown() })

	usage := logging.Initialize(t.TempDir())
	limiter := middleware.NewRateLimiter(1000, 1000)

	return setupRouter(seoAnalyzer, usage, limiter)
}

func postAnalyze(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("Unexpected health payload: %v", resp)
	}
}

func TestAnalyzeEndpointRejectsBadInput(t *testing.T) {
	r := newTestRouter(t)

	cases := map[string]string{
		"MalformedJSON": `{`,
		"MissingURL":    `{}`,
		"NotAURL":       `{"url": "not a url"}`,
		"NoHost":        `{"url": "http://"}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := postAnalyze(r, body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("Expected 400, got %d", w.Code)
			}

			var envelope struct {
				Success bool `json:"success"`
				Error   *struct {
					Message string `json:"message"`
				} `json:"error"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
				t.Fatalf("Failed to decode envelope: %v", err)
			}
			if envelope.Success {
				t.Error("Expected success=false")
			}
			if envelope.Error == nil || envelope.Error.Message != "Invalid URL provided" {
				t.Errorf("Unexpected error payload: %+v", envelope.Error)
			}
		})
	}
}

func TestAnalyzeEndpointSuccess(t *testing.T) {
	r := newTestRouter(t)

	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		fmt.Fprint(w, `<!DOCTYPE html><html><head><title>A perfectly reasonable page title here</title></head><body><h1>Hello</h1></body></html>`)
	}))
	defer page.Close()

	w := postAnalyze(r, fmt.Sprintf(`{"url": %q, "analysis_depth": "basic"}`, page.URL))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var envelope struct {
		Success       bool    `json:"success"`
		URL           string  `json:"url"`
		AnalysisDepth string  `json:"analysisDepth"`
		Score         float64 `json:"score"`
		Title         struct {
			HasTitle bool `json:"hasTitle"`
		} `json:"title"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("Failed to decode envelope: %v", err)
	}

	if !envelope.Success {
		t.Error("Expected success=true")
	}
	if envelope.URL != page.URL {
		t.Errorf("Unexpected url: %q", envelope.URL)
	}
	if envelope.AnalysisDepth != "basic" {
		t.Errorf("Unexpected depth: %q", envelope.AnalysisDepth)
	}
	if !envelope.Title.HasTitle {
		t.Error("Expected title to be analyzed")
	}
}

func TestAnalyzeEndpointUpstreamFailure(t *testing.T) {
	r := newTestRouter(t)

	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {}))
	page.Close() // Unreachable target site.

	w := postAnalyze(r, fmt.Sprintf(`{"url": %q}`, page.URL))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", w.Code)
	}

	var envelope struct {
		Success bool `json:"success"`
		Error   *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("Failed to decode envelope: %v", err)
	}
	if envelope.Success || envelope.Error == nil {
		t.Errorf("Expected failure envelope, got: %s", w.Body.String())
	}
	if !strings.HasPrefix(envelope.Error.Message, "Failed to analyze URL") {
		t.Errorf("Unexpected message: %q", envelope.Error.Message)
	}
}

func TestIsValidURL(t *testing.T) {
	valid := []string{"http://example.com", "https://example.com/path?q=1"}
	invalid := []string{"", "not a url", "ftp://example.com", "http://", "example.com"}

	for _, u := range valid {
		if !isValidURL(u) {
			t.Errorf("Expected %q to be valid", u)
		}
	}
	for _, u := range invalid {
		if isValidURL(u) {
			t.Errorf("Expected %q to be invalid", u)
		}
	}
}
