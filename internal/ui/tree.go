package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/chriserin/gherkin/node"
)

// Tree prints the structure of a parsed feature.
func Tree(w io.Writer, f *node.Feature) {
	p := &treePrinter{w: w}
	p.tags(0, f.Tags())
	p.heading(0, f.Keyword(), f.Title(), f.Line())
	if f.HasDescription() {
		for _, l := range strings.Split(f.Description(), "\n") {
			p.line(1, trkStyle.Render(l))
		}
	}
	if bg := f.Background(); bg != nil {
		p.heading(1, bg.Keyword(), bg.Title(), bg.Line())
		p.steps(2, bg.Steps())
	}
	for _, s := range f.Scenarios() {
		p.tags(1, s.Tags())
		p.heading(1, s.Keyword(), s.Title(), s.Line())
		p.steps(2, s.Steps())
		if o, ok := s.(*node.Outline); ok {
			for _, t := range o.ExampleTables() {
				p.tags(2, t.Tags())
				p.heading(2, t.Keyword(), "", t.Line())
				p.table(3, t.Table)
			}
		}
	}
}

type treePrinter struct {
	w io.Writer
}

func (p *treePrinter) line(depth int, text string) {
	fmt.Fprintln(p.w, strings.Repeat("  ", depth)+text)
}

func (p *treePrinter) tags(depth int, tags []string) {
	if len(tags) > 0 {
		p.line(depth, Tags(tags))
	}
}

func (p *treePrinter) heading(depth int, keyword, title string, line int) {
	first, rest, _ := strings.Cut(title, "\n")
	text := Keyword(keyword)
	if first != "" {
		text += " " + first
	}
	p.line(depth, text+" "+trkStyle.Render(fmt.Sprintf("(line %d)", line)))
	if rest != "" {
		for _, l := range strings.Split(rest, "\n") {
			p.line(depth+1, l)
		}
	}
}

func (p *treePrinter) steps(depth int, steps []*node.Step) {
	for _, s := range steps {
		Step(p.w, depth, s.Keyword(), s.Text())
		switch arg := s.Argument().(type) {
		case *node.Table:
			p.table(depth+1, arg)
		case *node.DocString:
			p.line(depth+1, `"""`)
			for _, l := range arg.Lines() {
				p.line(depth+1, l)
			}
			p.line(depth+1, `"""`)
		}
	}
}

func (p *treePrinter) table(depth int, t *node.Table) {
	for i := range t.Len() {
		row, _ := t.RowString(i)
		p.line(depth, row)
	}
}
