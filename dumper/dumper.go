// Package dumper writes a feature back out as Gherkin text.
package dumper

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/chriserin/gherkin/keywords"
	"github.com/chriserin/gherkin/node"
)

const indentUnit = "  "

var cellEscaper = strings.NewReplacer(`\`, `\\`, `|`, `\|`)

// Dumper renders features using a keyword table to decide how step keywords
// are separated from their text.
type Dumper struct {
	table keywords.Table
}

func New(table keywords.Table) *Dumper {
	return &Dumper{table: table}
}

// Dump renders f. The output parses back into an equal feature.
func (d *Dumper) Dump(f *node.Feature) string {
	w := &writer{}
	if f.Language() != "" && f.Language() != keywords.DefaultLanguage {
		w.line(0, "# language: "+f.Language())
	}
	w.tags(0, f.Tags())
	w.heading(0, f.Keyword(), f.Title())
	if f.HasDescription() {
		for _, l := range strings.Split(f.Description(), "\n") {
			w.line(1, l)
		}
	}

	if bg := f.Background(); bg != nil {
		w.blank()
		w.heading(1, bg.Keyword(), bg.Title())
		d.steps(w, f.Language(), bg.Steps())
	}

	for _, s := range f.Scenarios() {
		w.blank()
		w.tags(1, s.Tags())
		w.heading(1, s.Keyword(), s.Title())
		d.steps(w, f.Language(), s.Steps())
		if o, ok := s.(*node.Outline); ok {
			for _, t := range o.ExampleTables() {
				w.blank()
				w.tags(2, t.Tags())
				w.line(2, t.Keyword()+":")
				w.table(3, t.Table)
			}
		}
	}
	return w.String()
}

func (d *Dumper) steps(w *writer, language string, steps []*node.Step) {
	for _, s := range steps {
		w.line(2, d.stepKeyword(language, s.Keyword())+s.Text())
		switch arg := s.Argument().(type) {
		case *node.Table:
			w.table(3, arg)
		case *node.DocString:
			w.line(3, `"""`)
			for _, l := range arg.Lines() {
				w.line(3, l)
			}
			w.line(3, `"""`)
		}
	}
}

// stepKeyword writes a single separating space unless the keyword is glued
// to the step text in its language.
func (d *Dumper) stepKeyword(language, kw string) string {
	kw = strings.TrimSpace(kw)
	for _, role := range keywords.StepRoles {
		for _, known := range d.table.Keywords(language, role) {
			if bare, ok := keywords.IsNoSpace(known); ok && bare == kw {
				return kw
			}
		}
	}
	return kw + " "
}

type writer struct {
	b strings.Builder
}

func (w *writer) line(depth int, text string) {
	if text != "" {
		w.b.WriteString(strings.Repeat(indentUnit, depth))
		w.b.WriteString(text)
	}
	w.b.WriteString("\n")
}

func (w *writer) blank() {
	w.b.WriteString("\n")
}

func (w *writer) tags(depth int, tags []string) {
	if len(tags) == 0 {
		return
	}
	w.line(depth, "@"+strings.Join(tags, " @"))
}

// heading writes a keyword line; further title lines go one level deeper.
func (w *writer) heading(depth int, keyword, title string) {
	lines := strings.Split(title, "\n")
	head := keyword + ":"
	if lines[0] != "" {
		head += " " + lines[0]
	}
	w.line(depth, head)
	for _, l := range lines[1:] {
		w.line(depth+1, l)
	}
}

func (w *writer) table(depth int, t *node.Table) {
	rows := t.Rows()
	if len(rows) == 0 {
		return
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for col, cell := range row {
			widths[col] = max(widths[col], uniseg.StringWidth(cellEscaper.Replace(cell)))
		}
	}
	for _, row := range rows {
		var b strings.Builder
		b.WriteString("|")
		for col, cell := range row {
			cell = cellEscaper.Replace(cell)
			b.WriteString(" ")
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", widths[col]-uniseg.StringWidth(cell)+1))
			b.WriteString("|")
		}
		w.line(depth, b.String())
	}
}

func (w *writer) String() string {
	return w.b.String()
}
