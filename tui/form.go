package tui

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/seoscope/seoscope/client"
)

const (
	msgEmptyURL     = "Please enter a valid URL"
	msgNetworkError = "Could not reach the analysis server. Please try again."
)

// analysisStartedMsg tells the parent a request is about to fire. It is
// emitted exactly once per attempt.
type analysisStartedMsg struct{}

// analysisCompletedMsg carries the parsed response of a successful
// analysis, untouched.
type analysisCompletedMsg struct {
	resp *client.AnalyzeResponse
}

// analysisFailedMsg carries the error of a failed attempt.
type analysisFailedMsg struct {
	err error
}

// FormModel collects a URL and the AI-analysis flag and submits them to
// the analysis API. The parent owns the loading state and suppresses
// input while a request is outstanding; the form itself issues exactly
// one request per submission and never retries or cancels.
type FormModel struct {
	urlInput   textinput.Model
	includeAI  bool
	errMsg     string
	depth      string
	focusIndex int // 0 = url input, 1 = AI checkbox
	api        *client.Client
}

// NewForm creates a form submitting to api with the given analysis
// depth. initialURL may be empty.
func NewForm(api *client.Client, depth, initialURL string) FormModel {
	urlInput := textinput.New()
	urlInput.Placeholder = "https://example.com"
	urlInput.Prompt = "URL: "
	urlInput.Width = 50
	urlInput.SetValue(initialURL)
	urlInput.Focus()

	return FormModel{
		urlInput: urlInput,
		depth:    depth,
		api:      api,
	}
}

func (m FormModel) Init() tea.Cmd {
	return textinput.Blink
}

// IncludeAI reports the current state of the AI-analysis checkbox.
func (m FormModel) IncludeAI() bool {
	return m.includeAI
}

// ErrMsg returns the current validation or request error, empty when
// the last attempt did not fail.
func (m FormModel) ErrMsg() string {
	return m.errMsg
}

// CanSubmit reports whether the Analyze control is enabled: the entered
// text must parse as a URL with a scheme and host.
func (m FormModel) CanSubmit() bool {
	return isParseableURL(strings.TrimSpace(m.urlInput.Value()))
}

func isParseableURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func (m FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab":
			m.focusIndex = 1 - m.focusIndex
			if m.focusIndex == 0 {
				m.urlInput.Focus()
			} else {
				m.urlInput.Blur()
			}
			return m, nil

		case " ":
			if m.focusIndex == 1 {
				m.includeAI = !m.includeAI
				return m, nil
			}

		case "enter":
			return m.submit()
		}

	case analysisCompletedMsg:
		return m, nil

	case analysisFailedMsg:
		var apiErr *client.APIError
		if errors.As(msg.err, &apiErr) {
			m.errMsg = apiErr.Error()
		} else {
			m.errMsg = msgNetworkError
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.urlInput, cmd = m.urlInput.Update(msg)
	return m, cmd
}

// submit validates the URL and, when valid, clears the error and kicks
// off one request. An empty URL sets a local error without any network
// activity; an unparseable one makes the control a no-op.
func (m FormModel) submit() (FormModel, tea.Cmd) {
	trimmed := strings.TrimSpace(m.urlInput.Value())
	if trimmed == "" {
		m.errMsg = msgEmptyURL
		return m, nil
	}
	if !isParseableURL(trimmed) {
		return m, nil
	}

	m.errMsg = ""
	return m, tea.Batch(
		func() tea.Msg { return analysisStartedMsg{} },
		m.analyzeCmd(trimmed),
	)
}

// analyzeCmd issues the analysis request. The request body is built
// fresh from the form state at submission time.
func (m FormModel) analyzeCmd(pageURL string) tea.Cmd {
	req := client.AnalyzeRequest{
		URL:               pageURL,
		IncludeAIAnalysis: m.includeAI,
		AnalysisDepth:     m.depth,
	}
	api := m.api
	return func() tea.Msg {
		resp, err := api.Analyze(context.Background(), req)
		if err != nil {
			return analysisFailedMsg{err: err}
		}
		return analysisCompletedMsg{resp: resp}
	}
}

var (
	formTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).MarginBottom(1)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	focusedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	buttonStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("10")).
			Foreground(lipgloss.Color("10")).
			Padding(0, 1)
	buttonDisabledStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("8")).
				Foreground(lipgloss.Color("8")).
				Padding(0, 1)
)

func (m FormModel) View() string {
	var b strings.Builder

	b.WriteString(formTitleStyle.Render("SEO Analysis"))
	b.WriteString("\n\n")
	b.WriteString(m.urlInput.View())
	b.WriteString("\n\n")

	checkbox := "[ ]"
	if m.includeAI {
		checkbox = "[x]"
	}
	checkboxLine := checkbox + " Include AI-powered analysis"
	if m.focusIndex == 1 {
		checkboxLine = focusedStyle.Render("> " + checkboxLine)
	} else {
		checkboxLine = "  " + checkboxLine
	}
	b.WriteString(checkboxLine)
	b.WriteString("\n\n")

	if m.CanSubmit() {
		b.WriteString(buttonStyle.Render("Analyze"))
	} else {
		b.WriteString(buttonDisabledStyle.Render("Analyze"))
	}
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString("\n" + errorStyle.Render(m.errMsg) + "\n")
	}

	b.WriteString("\n" + dimStyle.Render("Tab: switch field • Space: toggle • Enter: analyze • Esc: quit"))

	return b.String()
}
