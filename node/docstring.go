package node

import "strings"

// DocString is a multi-line string argument of a step.
type DocString struct {
	lines []string
	line  int
	src   Source
}

// NewDocString builds a docstring from its content lines and the line of the
// opening delimiter.
func NewDocString(lines []string, line int) *DocString {
	return &DocString{lines: append([]string(nil), lines...), line: line}
}

func (d *DocString) NodeType() string { return "PyString" }

func (d *DocString) Lines() []string { return append([]string(nil), d.lines...) }

func (d *DocString) Line() int { return d.line }

func (d *DocString) Language() string { return d.src.Language }

func (d *DocString) File() string { return d.src.File }

// Raw joins the content lines with newlines.
func (d *DocString) Raw() string { return strings.Join(d.lines, "\n") }

func (d *DocString) String() string { return d.Raw() }

func (d *DocString) argument() {}

func (d *DocString) withSource(src Source) Argument {
	c := *d
	c.src = src
	return &c
}
