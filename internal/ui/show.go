package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	stepStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	addStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	removeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hunkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

func ShowHeader(w io.Writer, id int64, location string) {
	fmt.Fprintln(w, ID(id)+"  "+headerStyle.Render(location))
}

// ShowGherkin prints raw Gherkin text, highlighting tag lines.
func ShowGherkin(w io.Writer, content string) {
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "@") {
			fmt.Fprintln(w, tagStyle.Render(line))
			continue
		}
		fmt.Fprintln(w, line)
	}
}

// ShowExample prints one expanded outline example.
func ShowExample(w io.Writer, index int, name string, line int) {
	fmt.Fprintf(w, "  %s  %s %s\n", idStyle.Render(fmt.Sprintf("%d.", index)), name, trkStyle.Render(fmt.Sprintf("(line %d)", line)))
}

// Step prints a step line at the given depth.
func Step(w io.Writer, depth int, keyword, text string) {
	fmt.Fprintf(w, "%s%s %s\n", strings.Repeat("  ", depth), stepStyle.Render(strings.TrimSpace(keyword)), text)
}

// Diff prints a unified diff with added and removed lines colored.
func Diff(w io.Writer, diff string) {
	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		text := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(text, "+++"), strings.HasPrefix(text, "---"):
			fmt.Fprintln(w, headerStyle.Render(text))
		case strings.HasPrefix(text, "@@"):
			fmt.Fprintln(w, hunkStyle.Render(text))
		case strings.HasPrefix(text, "+"):
			fmt.Fprintln(w, addStyle.Render(text))
		case strings.HasPrefix(text, "-"):
			fmt.Fprintln(w, removeStyle.Render(text))
		default:
			fmt.Fprintln(w, text)
		}
	}
}
