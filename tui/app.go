package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/seoscope/seoscope/client"
)

type viewState int

const (
	viewForm viewState = iota
	viewResults
)

// App is the root model. It hosts the form, owns the loading flag and
// suppresses duplicate submissions while a request is in flight. When a
// completed analysis arrives it stores the payload and switches to the
// results view.
type App struct {
	form     FormModel
	spinner  spinner.Model
	viewport viewport.Model
	ready    bool

	state     viewState
	isLoading bool
	result    *client.AnalyzeResponse

	width  int
	height int
}

// NewApp creates the terminal application around an analysis API client.
func NewApp(api *client.Client, depth, initialURL string) App {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	return App{
		form:    NewForm(api, depth, initialURL),
		spinner: s,
	}
}

func (a App) Init() tea.Cmd {
	return a.form.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if !a.ready {
			a.viewport = viewport.New(msg.Width-4, msg.Height-6)
			a.ready = true
		} else {
			a.viewport.Width = msg.Width - 4
			a.viewport.Height = msg.Height - 6
		}
		if a.result != nil {
			a.viewport.SetContent(renderResult(a.result, a.viewport.Width))
		}
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "esc":
			if a.state == viewResults {
				// Back to the form with its state intact.
				a.state = viewForm
				return a, nil
			}
			return a, tea.Quit
		}

		// The form signals start-loading once per attempt but does not
		// guard against overlapping submissions; that is our job.
		if a.isLoading {
			return a, nil
		}

		if a.state == viewResults {
			var cmd tea.Cmd
			a.viewport, cmd = a.viewport.Update(msg)
			return a, cmd
		}

		var cmd tea.Cmd
		a.form, cmd = a.form.Update(msg)
		return a, cmd

	case analysisStartedMsg:
		a.isLoading = true
		return a, a.spinner.Tick

	case analysisCompletedMsg:
		a.isLoading = false
		a.result = msg.resp
		a.state = viewResults
		if a.ready {
			a.viewport.SetContent(renderResult(a.result, a.viewport.Width))
			a.viewport.GotoTop()
		}
		var cmd tea.Cmd
		a.form, cmd = a.form.Update(msg)
		return a, cmd

	case analysisFailedMsg:
		a.isLoading = false
		var cmd tea.Cmd
		a.form, cmd = a.form.Update(msg)
		return a, cmd

	case spinner.TickMsg:
		if !a.isLoading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.form, cmd = a.form.Update(msg)
	return a, cmd
}

// Result returns the last completed analysis, nil before the first one.
func (a App) Result() *client.AnalyzeResponse {
	return a.result
}

func (a App) View() string {
	if a.state == viewResults && a.result != nil {
		if !a.ready {
			return "Loading..."
		}
		footer := dimStyle.Render("↑/↓: scroll • Esc: back to form • Ctrl+C: quit")
		return a.viewport.View() + "\n\n" + footer
	}

	view := a.form.View()
	if a.isLoading {
		view += "\n\n" + a.spinner.View() + " Analyzing..."
	}
	return view
}

var (
	resultTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	sectionStyle     = lipgloss.NewStyle().Bold(true)
	scoreGoodStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	scoreWarnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	scoreBadStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func scoreStyle(score float64) lipgloss.Style {
	switch {
	case score >= 80:
		return scoreGoodStyle
	case score >= 50:
		return scoreWarnStyle
	default:
		return scoreBadStyle
	}
}

// renderResult formats a completed analysis for the results viewport.
func renderResult(resp *client.AnalyzeResponse, width int) string {
	var b strings.Builder

	b.WriteString(resultTitleStyle.Render("Analysis: "+resp.URL) + "\n")
	b.WriteString(fmt.Sprintf("HTML version: %s • depth: %s\n\n", resp.HTMLVersion, resp.AnalysisDepth))

	overall := scoreStyle(resp.Score).Render(fmt.Sprintf("%.0f/100", resp.Score))
	b.WriteString(sectionStyle.Render("Overall score: ") + overall + "\n\n")

	section := func(name string, score int, detail string) {
		styled := scoreStyle(float64(score)).Render(fmt.Sprintf("%3d", score))
		b.WriteString(fmt.Sprintf("%s %-12s %s\n", styled, name, detail))
	}

	section("Title", resp.Title.Score, fmt.Sprintf("%q (%d chars)", resp.Title.Title, resp.Title.Length))
	section("Meta", resp.Meta.Score, fmt.Sprintf("description %d chars", resp.Meta.DescriptionLen))
	section("Headers", resp.Headers.Score, fmt.Sprintf("%d h1, %d h2, %d h3", resp.Headers.H1Count, resp.Headers.H2Count, resp.Headers.H3Count))
	section("Content", resp.Content.Score, fmt.Sprintf("%d words, %d/%d images with alt", resp.Content.WordCount, resp.Content.ImagesWithAlt, resp.Content.TotalImages))
	section("Performance", resp.Performance.Score, fmt.Sprintf("%dKB, %dms, mobile: %t", resp.Performance.PageSize/1024, resp.Performance.LoadTime, resp.Performance.MobileOptimized))
	section("Links", resp.Links.Score, fmt.Sprintf("%d internal, %d external, %d broken", resp.Links.InternalLinks, resp.Links.ExternalLinks, resp.Links.BrokenLinks))

	if len(resp.Content.KeywordDensity) > 0 {
		b.WriteString("\n" + sectionStyle.Render("Top keywords") + "\n")
		keywords := make([]string, 0, len(resp.Content.KeywordDensity))
		for word := range resp.Content.KeywordDensity {
			keywords = append(keywords, word)
		}
		sort.Slice(keywords, func(i, j int) bool {
			return resp.Content.KeywordDensity[keywords[i]] > resp.Content.KeywordDensity[keywords[j]]
		})
		for _, word := range keywords {
			b.WriteString(fmt.Sprintf("  %-20s %.2f%%\n", word, resp.Content.KeywordDensity[word]))
		}
	}

	if len(resp.Recommendations) > 0 {
		b.WriteString("\n" + sectionStyle.Render("Recommendations") + "\n")
		for _, rec := range resp.Recommendations {
			b.WriteString("  • " + rec + "\n")
		}
	}

	if resp.AI != nil {
		b.WriteString("\n" + sectionStyle.Render("AI insights") + "\n")
		if resp.AI.Summary != "" {
			b.WriteString(wrap(resp.AI.Summary, width-2) + "\n")
		}
		writeList := func(label string, items []string) {
			if len(items) == 0 {
				return
			}
			b.WriteString("  " + label + "\n")
			for _, item := range items {
				b.WriteString("    - " + item + "\n")
			}
		}
		writeList("Strengths:", resp.AI.Strengths)
		writeList("Weaknesses:", resp.AI.Weaknesses)
		writeList("Priority fixes:", resp.AI.PriorityFixes)
	}

	return b.String()
}

// wrap breaks text into lines no longer than width.
func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	words := strings.Fields(text)
	var lines []string
	var line string
	for _, word := range words {
		if line == "" {
			line = word
		} else if len(line)+1+len(word) <= width {
			line += " " + word
		} else {
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
