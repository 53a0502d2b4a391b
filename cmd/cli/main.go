package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/seoscope/seoscope/analyzer"
	"github.com/seoscope/seoscope/client"
	"github.com/seoscope/seoscope/tui"
)

func main() {
	server := flag.String("server", "http://localhost:8082", "base URL of the analysis API")
	depth := flag.String("depth", analyzer.DepthStandard, "analysis depth: basic, standard or deep")
	initialURL := flag.String("url", "", "URL to prefill in the form")
	flag.Parse()

	if d := analyzer.NormalizeDepth(*depth); d != *depth {
		fmt.Fprintf(os.Stderr, "unknown depth %q, using %q\n", *depth, d)
		*depth = d
	}

	api := client.New(*server)
	app := tui.NewApp(api, *depth, *initialURL)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatal("Failed to run UI:", err)
	}
}
