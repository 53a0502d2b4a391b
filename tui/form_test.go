package tui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/seoscope/seoscope/client"
)

func keyMsg(t tea.KeyType) tea.Msg {
	return tea.KeyMsg(tea.Key{Type: t})
}

// runSubmit presses enter and resolves the returned command batch into
// its messages.
func runSubmit(t *testing.T, m FormModel) (FormModel, []tea.Msg) {
	t.Helper()

	m, cmd := m.Update(keyMsg(tea.KeyEnter))
	if cmd == nil {
		return m, nil
	}

	var msgs []tea.Msg
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, sub := range msg {
			if sub != nil {
				msgs = append(msgs, sub())
			}
		}
	default:
		msgs = append(msgs, msg)
	}
	return m, msgs
}

func TestSubmitEmptyURL(t *testing.T) {
	for _, value := range []string{"", "   ", "\t"} {
		m := NewForm(client.New("http://127.0.0.1:1"), "standard", "")
		m.urlInput.SetValue(value)

		m, cmd := m.Update(keyMsg(tea.KeyEnter))
		if cmd != nil {
			t.Errorf("Submit with %q must not issue any command", value)
		}
		if m.ErrMsg() != "Please enter a valid URL" {
			t.Errorf("Expected validation message, got %q", m.ErrMsg())
		}
	}
}

func TestSubmitUnparseableURLIsDisabled(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer srv.Close()

	m := NewForm(client.New(srv.URL), "standard", "")
	m.urlInput.SetValue("not a url")

	if m.CanSubmit() {
		t.Error("Analyze control should be disabled for an unparseable URL")
	}

	m, cmd := m.Update(keyMsg(tea.KeyEnter))
	if cmd != nil {
		t.Error("Enter must be a no-op while the control is disabled")
	}
	if m.ErrMsg() != "" {
		t.Errorf("Disabled submit must not set an error, got %q", m.ErrMsg())
	}
	if requests.Load() != 0 {
		t.Errorf("Expected no network call, saw %d", requests.Load())
	}
}

func TestSubmitSuccessForwardsPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success": true, "url": "https://example.com", "score": 88,
			"title": {"title": "Example Domain", "hasTitle": true, "score": 70}}`)
	}))
	defer srv.Close()

	m := NewForm(client.New(srv.URL), "standard", "https://example.com")
	m.errMsg = "stale error from a previous attempt"

	m, msgs := runSubmit(t, m)
	if len(msgs) != 2 {
		t.Fatalf("Expected start-loading plus one result message, got %d", len(msgs))
	}
	if m.ErrMsg() != "" {
		t.Errorf("Error must be cleared at the start of an attempt, got %q", m.ErrMsg())
	}

	var started, completed bool
	var payload *client.AnalyzeResponse
	for _, msg := range msgs {
		switch msg := msg.(type) {
		case analysisStartedMsg:
			started = true
		case analysisCompletedMsg:
			completed = true
			payload = msg.resp
		default:
			t.Errorf("Unexpected message %T", msg)
		}
	}
	if !started || !completed {
		t.Fatalf("Expected both start and completion messages (started=%t completed=%t)", started, completed)
	}

	if payload.URL != "https://example.com" || payload.Score != 88 {
		t.Errorf("Payload altered in transit: %+v", payload)
	}
	if payload.Title.Title != "Example Domain" {
		t.Errorf("Nested payload altered: %+v", payload.Title)
	}

	// The parent stores the payload verbatim and no error is set.
	app := App{form: m}
	model, _ := app.Update(analysisCompletedMsg{resp: payload})
	app = model.(App)
	if app.Result() != payload {
		t.Error("Parent must receive the exact payload")
	}
	if app.form.ErrMsg() != "" {
		t.Errorf("No error expected on success, got %q", app.form.ErrMsg())
	}
}

func TestSubmitServerReportedFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"success": false, "error": {"message": "X"}}`)
	}))
	defer srv.Close()

	m := NewForm(client.New(srv.URL), "standard", "https://example.com")
	m, msgs := runSubmit(t, m)

	var failed *analysisFailedMsg
	for _, msg := range msgs {
		if f, ok := msg.(analysisFailedMsg); ok {
			failed = &f
		}
		if _, ok := msg.(analysisCompletedMsg); ok {
			t.Error("Completion must not fire for a failure envelope")
		}
	}
	if failed == nil {
		t.Fatal("Expected a failure message")
	}

	m, _ = m.Update(*failed)
	if m.ErrMsg() != "X" {
		t.Errorf("Expected server-provided message, got %q", m.ErrMsg())
	}

	// The parent clears loading but keeps no result.
	app := App{form: m, isLoading: true}
	model, _ := app.Update(*failed)
	app = model.(App)
	if app.isLoading {
		t.Error("Loading must clear on failure")
	}
	if app.Result() != nil {
		t.Error("No result expected on failure")
	}
}

func TestSubmitTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // Closed before use.

	m := NewForm(client.New(srv.URL), "standard", "https://example.com")
	m, msgs := runSubmit(t, m)

	var failed *analysisFailedMsg
	for _, msg := range msgs {
		if f, ok := msg.(analysisFailedMsg); ok {
			failed = &f
		}
	}
	if failed == nil {
		t.Fatal("Expected a failure message")
	}

	m, _ = m.Update(*failed)
	if m.ErrMsg() != msgNetworkError {
		t.Errorf("Expected generic network message, got %q", m.ErrMsg())
	}
}

func TestCheckboxTogglesRequestFlag(t *testing.T) {
	bodies := make(chan client.AnalyzeRequest, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req client.AnalyzeRequest
		json.NewDecoder(r.Body).Decode(&req)
		bodies <- req
		fmt.Fprint(w, `{"success": true}`)
	}))
	defer srv.Close()

	m := NewForm(client.New(srv.URL), "deep", "https://example.com")

	m, _ = runSubmit(t, m)
	first := <-bodies
	if first.IncludeAIAnalysis {
		t.Error("Flag should default to false")
	}
	if first.AnalysisDepth != "deep" {
		t.Errorf("Unexpected depth: %q", first.AnalysisDepth)
	}

	// Toggle the checkbox: tab to it, then space.
	m, _ = m.Update(keyMsg(tea.KeyTab))
	m, _ = m.Update(keyMsg(tea.KeySpace))
	if !m.IncludeAI() {
		t.Fatal("Checkbox did not toggle")
	}

	m, _ = runSubmit(t, m)
	second := <-bodies
	if !second.IncludeAIAnalysis {
		t.Error("Toggled flag not carried in the next request body")
	}

	// Nothing else changed.
	if second.URL != first.URL || second.AnalysisDepth != first.AnalysisDepth {
		t.Errorf("Toggle must change only the flag: %+v vs %+v", first, second)
	}
}

func TestParentSuppressesInputWhileLoading(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success": true}`)
	}))
	defer srv.Close()

	app := NewApp(client.New(srv.URL), "standard", "https://example.com")

	model, _ := app.Update(analysisStartedMsg{})
	app = model.(App)
	if !app.isLoading {
		t.Fatal("Start message must set loading")
	}

	model, cmd := app.Update(keyMsg(tea.KeyEnter))
	app = model.(App)
	if cmd != nil {
		t.Error("Key input while loading must not produce a command")
	}
}
