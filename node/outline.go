package node

import (
	"slices"
	"sync"
)

// ExampleTable is one Examples block of an outline.
type ExampleTable struct {
	*Table
	keyword string
	tags    []string
}

func NewExampleTable(table *Table, keyword string, tags []string) *ExampleTable {
	return &ExampleTable{Table: table, keyword: keyword, tags: slices.Clone(tags)}
}

func (e *ExampleTable) NodeType() string       { return "ExampleTable" }
func (e *ExampleTable) Keyword() string        { return e.keyword }
func (e *ExampleTable) Tags() []string         { return slices.Clone(e.tags) }
func (e *ExampleTable) HasTag(tag string) bool { return slices.Contains(e.tags, tag) }

// Outline is a scenario template expanded once per example row.
type Outline struct {
	title   string
	tags    []string
	steps   []*Step
	tables  []*ExampleTable
	keyword string
	line    int

	once     sync.Once
	examples []*Example
}

func NewOutline(title string, tags []string, steps []*Step, tables []*ExampleTable, keyword string, line int) *Outline {
	return &Outline{
		title:   title,
		tags:    slices.Clone(tags),
		steps:   slices.Clone(steps),
		tables:  slices.Clone(tables),
		keyword: keyword,
		line:    line,
	}
}

func (o *Outline) NodeType() string       { return "Outline" }
func (o *Outline) Title() string          { return o.title }
func (o *Outline) Tags() []string         { return slices.Clone(o.tags) }
func (o *Outline) HasTag(tag string) bool { return slices.Contains(o.tags, tag) }
func (o *Outline) Steps() []*Step         { return slices.Clone(o.steps) }
func (o *Outline) Keyword() string        { return o.keyword }
func (o *Outline) Line() int              { return o.line }

func (o *Outline) ExampleTables() []*ExampleTable { return slices.Clone(o.tables) }

func (o *Outline) HasExamples() bool { return len(o.tables) > 0 }

// Examples expands the outline into one example per data row of every
// example table. The result is computed on first use.
func (o *Outline) Examples() []*Example {
	o.once.Do(func() {
		o.examples = o.expand()
	})
	return slices.Clone(o.examples)
}

func (o *Outline) expand() []*Example {
	var (
		out   []*Example
		index int
	)
	for _, table := range o.tables {
		hashes := table.ColumnsHash()
		for row, tokens := range hashes {
			index++
			text, _ := table.RowString(row + 1)
			line, _ := table.RowLine(row + 1)
			tags := append(slices.Clone(o.tags), table.tags...)
			out = append(out, newExample(text, tags, o.steps, tokens, line, o.title, index))
		}
	}
	return out
}
