package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAnalyzeSuccess(t *testing.T) {
	var received AnalyzeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/analyze" || r.Method != http.MethodPost {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}

		fmt.Fprint(w, `{"success": true, "url": "https://example.com", "score": 72.5,
			"title": {"title": "Example", "length": 7, "hasTitle": true, "score": 50}}`)
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.Analyze(context.Background(), AnalyzeRequest{
		URL:               "https://example.com",
		IncludeAIAnalysis: true,
		AnalysisDepth:     "deep",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if received.URL != "https://example.com" {
		t.Errorf("Unexpected url in request body: %q", received.URL)
	}
	if !received.IncludeAIAnalysis {
		t.Error("include_ai_analysis flag not carried in request body")
	}
	if received.AnalysisDepth != "deep" {
		t.Errorf("Unexpected analysis_depth: %q", received.AnalysisDepth)
	}

	if !resp.Success {
		t.Error("Expected success envelope")
	}
	if resp.URL != "https://example.com" || resp.Score != 72.5 {
		t.Errorf("Payload not carried through: url=%q score=%f", resp.URL, resp.Score)
	}
	if resp.Title.Title != "Example" {
		t.Errorf("Nested payload not carried through: %+v", resp.Title)
	}
}

func TestAnalyzeServerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"success": false, "error": {"message": "Invalid URL provided"}}`)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Analyze(context.Background(), AnalyzeRequest{URL: "nope"})
	if err == nil {
		t.Fatal("Expected an error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Message != "Invalid URL provided" {
		t.Errorf("Unexpected message: %q", apiErr.Message)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("Unexpected status: %d", apiErr.StatusCode)
	}
}

func TestAnalyzeFailureWithoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"success": false}`)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Analyze(context.Background(), AnalyzeRequest{URL: "https://example.com"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Error() != "analysis failed (status 500)" {
		t.Errorf("Unexpected fallback message: %q", apiErr.Error())
	}
}

func TestAnalyzeTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // Closed before use.

	c := New(srv.URL)
	_, err := c.Analyze(context.Background(), AnalyzeRequest{URL: "https://example.com"})
	if err == nil {
		t.Fatal("Expected an error for an unreachable server")
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Error("Transport failures must not be typed as *APIError")
	}
}

func TestAnalyzeMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	}))
	defer srv.Close()

	c := New(srv.URL)
	if _, err := c.Analyze(context.Background(), AnalyzeRequest{URL: "https://example.com"}); err == nil {
		t.Fatal("Expected a decode error")
	}
}
