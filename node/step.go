package node

import (
	"fmt"
	"strings"
)

// StepType is the effective type of a step once And/But are resolved.
type StepType string

const (
	Given StepType = "Given"
	When  StepType = "When"
	Then  StepType = "Then"
	And   StepType = "And"
	But   StepType = "But"
)

// Argument is a multi-line step argument: a *Table or a *DocString.
type Argument interface {
	NodeType() string
	Line() int
	Language() string
	File() string
	argument()
	withSource(src Source) Argument
}

// Step is a single Given/When/Then line.
type Step struct {
	keyword     string
	keywordType StepType
	text        string
	argument    Argument
	line        int
	src         Source
}

// NewStep builds a step. A step carries at most one argument.
func NewStep(keyword string, keywordType StepType, text string, args []Argument, line int) (*Step, error) {
	s := &Step{keyword: keyword, keywordType: keywordType, text: text, line: line}
	switch len(args) {
	case 0:
	case 1:
		s.argument = args[0]
	default:
		return nil, errorf("Steps could have only one argument, but `%s %s` have %d.", strings.TrimSpace(keyword), text, len(args))
	}
	return s, nil
}

func (s *Step) NodeType() string { return "Step" }

// Keyword is the keyword as written in the source with its trailing
// whitespace, e.g. "And ".
func (s *Step) Keyword() string { return s.keyword }

// Type is the normalized keyword type.
func (s *Step) Type() StepType { return s.keywordType }

func (s *Step) Text() string { return s.text }

func (s *Step) Line() int { return s.line }

func (s *Step) Language() string { return s.src.Language }

func (s *Step) File() string { return s.src.File }

func (s *Step) HasArgument() bool { return s.argument != nil }

// Argument returns the table or docstring argument, or nil.
func (s *Step) Argument() Argument { return s.argument }

// WithSource returns a copy of the step and its argument attributed to src.
func (s *Step) WithSource(src Source) *Step {
	c := *s
	c.src = src
	if c.argument != nil {
		c.argument = c.argument.withSource(src)
	}
	return &c
}

// WithType returns a copy of the step carrying a different keyword type.
func (s *Step) WithType(t StepType) *Step {
	c := *s
	c.keywordType = t
	return &c
}

func (s *Step) String() string {
	return fmt.Sprintf("%s %s", strings.TrimSpace(s.keyword), s.text)
}
