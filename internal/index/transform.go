// Package index flattens parsed features into searchable records and keeps
// them in the sqlite database.
package index

import (
	"slices"
	"strings"

	"github.com/chriserin/gherkin/node"
)

const (
	KindScenario = "scenario"
	KindOutline  = "outline"
)

// File is the indexed form of one feature file.
type File struct {
	Path       string
	Title      string
	Language   string
	Background string // raw text of the Background section, if any
	Content    string
	Scenarios  []Scenario
}

// Scenario represents a single scenario or outline of a feature file.
type Scenario struct {
	Name     string
	Kind     string
	Tags     []string // feature tags followed by the scenario's own
	Content  string   // raw text from the heading line to the end of the scenario
	Line     int      // 1-based line number of the heading
	Examples []Example
}

// Example is one expanded outline row.
type Example struct {
	Index int
	Name  string
	Line  int
}

// Transform converts a parsed feature and its source text into a File.
func Transform(f *node.Feature, content string) *File {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	file := &File{
		Path:     f.File(),
		Title:    f.Title(),
		Language: f.Language(),
		Content:  content,
	}

	scenarios := f.Scenarios()
	// Section boundaries: every scenario heading, plus the end of the file.
	starts := make([]int, 0, len(scenarios)+1)
	for _, s := range scenarios {
		starts = append(starts, s.Line())
	}
	starts = append(starts, len(lines)+1)

	if bg := f.Background(); bg != nil {
		end := len(lines)
		if len(scenarios) > 0 {
			end = sectionEnd(lines, bg.Line(), scenarios[0].Line())
		}
		file.Background = extract(lines, bg.Line(), end)
	}

	for i, s := range scenarios {
		end := sectionEnd(lines, s.Line(), starts[i+1])
		sc := Scenario{
			Name:    s.Title(),
			Kind:    KindScenario,
			Tags:    mergeTags(f.Tags(), s.Tags()),
			Content: extract(lines, s.Line(), end),
			Line:    s.Line(),
		}
		if o, ok := s.(*node.Outline); ok {
			sc.Kind = KindOutline
			for _, ex := range o.Examples() {
				sc.Examples = append(sc.Examples, Example{Index: ex.Index(), Name: ex.Name(), Line: ex.Line()})
			}
		}
		file.Scenarios = append(file.Scenarios, sc)
	}
	return file
}

// sectionEnd returns the 0-based exclusive end of the section starting at
// line start when the next section's heading is on line next. Tag, comment
// and blank lines directly above the next heading belong to it.
func sectionEnd(lines []string, start, next int) int {
	end := min(next-1, len(lines))
	for end > start {
		t := strings.TrimSpace(lines[end-1])
		if t == "" || strings.HasPrefix(t, "@") || strings.HasPrefix(t, "#") {
			end--
		} else {
			break
		}
	}
	return end
}

func extract(lines []string, line, end int) string {
	start := line - 1
	if start < 0 || start >= len(lines) || end <= start {
		return ""
	}
	return strings.Join(lines[start:end], "\n")
}

func mergeTags(feature, own []string) []string {
	out := slices.Clone(feature)
	for _, t := range own {
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}
