// Package ui renders command output.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	newStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	updStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	delStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	trkStyle     = lipgloss.NewStyle().Faint(true)
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	keywordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	tagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	idStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
)

// ChangeLine prints one file of an index run, prefixed with a short
// change label such as "new", "upd", "del" or "trk".
func ChangeLine(w io.Writer, change, path string) {
	var label string
	switch change {
	case "new":
		label = newStyle.Render(change)
	case "upd":
		label = updStyle.Render(change)
	case "del":
		label = delStyle.Render(change)
	default:
		label = trkStyle.Render(change)
	}
	fmt.Fprintln(w, label+"  "+path)
}

func SummaryLine(w io.Writer, verb string, count int) {
	fmt.Fprintf(w, "%s %d files\n", verb, count)
}

// ErrorLine prints a file that could not be processed.
func ErrorLine(w io.Writer, path string, err error) {
	fmt.Fprintln(w, errStyle.Render("err")+"  "+path+": "+err.Error())
}

// Keyword renders a Gherkin keyword with its trailing colon.
func Keyword(kw string) string {
	return keywordStyle.Render(kw + ":")
}

// Tags renders tags in source form, e.g. "@smoke @web".
func Tags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return tagStyle.Render("@" + strings.Join(tags, " @"))
}

// ID renders a scenario id as shown by list and accepted by show.
func ID(id int64) string {
	return idStyle.Render(fmt.Sprintf("#%d", id))
}
