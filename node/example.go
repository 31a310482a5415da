package node

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"
)

// Example is one concrete scenario derived from an outline row.
type Example struct {
	text         string
	tags         []string
	outlineSteps []*Step
	tokens       map[string]string
	line         int
	outlineTitle string
	index        int
	replacer     *strings.Replacer

	once  sync.Once
	steps []*Step
}

func newExample(text string, tags []string, outlineSteps []*Step, tokens map[string]string, line int, outlineTitle string, index int) *Example {
	return &Example{
		text:         text,
		tags:         tags,
		outlineSteps: outlineSteps,
		tokens:       tokens,
		line:         line,
		outlineTitle: outlineTitle,
		index:        index,
		replacer:     tokenReplacer(tokens),
	}
}

// tokenReplacer substitutes every "<name>" in a single pass, so values that
// themselves look like tokens are left alone.
func tokenReplacer(tokens map[string]string) *strings.Replacer {
	names := slices.Collect(maps.Keys(tokens))
	// Longest first so that overlapping names resolve deterministically.
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	pairs := make([]string, 0, 2*len(names))
	for _, name := range names {
		pairs = append(pairs, "<"+name+">", tokens[name])
	}
	return strings.NewReplacer(pairs...)
}

func (e *Example) NodeType() string { return "Example" }

func (e *Example) Keyword() string { return "Example" }

// Title is the rendered table row the example was built from.
func (e *Example) Title() string { return e.text }

// Name is the outline title with tokens substituted, followed by the example
// ordinal. Untitled outlines are named after the row instead.
func (e *Example) Name() string {
	if e.outlineTitle == "" {
		return e.text
	}
	return fmt.Sprintf("%s #%d", e.replacer.Replace(e.outlineTitle), e.index)
}

// OutlineTitle is the raw title of the originating outline.
func (e *Example) OutlineTitle() string { return e.outlineTitle }

// Index is the 1-based ordinal of the example within its outline.
func (e *Example) Index() int { return e.index }

func (e *Example) Tags() []string         { return slices.Clone(e.tags) }
func (e *Example) HasTag(tag string) bool { return slices.Contains(e.tags, tag) }
func (e *Example) Line() int              { return e.line }

// Tokens maps column names to the row values.
func (e *Example) Tokens() map[string]string { return maps.Clone(e.tokens) }

// Steps returns the outline steps with every token substituted.
func (e *Example) Steps() []*Step {
	e.once.Do(func() {
		e.steps = make([]*Step, len(e.outlineSteps))
		for i, s := range e.outlineSteps {
			e.steps[i] = &Step{
				keyword:     s.keyword,
				keywordType: s.keywordType,
				text:        e.replacer.Replace(s.text),
				argument:    e.replaceArgument(s.argument),
				line:        s.line,
				src:         s.src,
			}
		}
	})
	return slices.Clone(e.steps)
}

func (e *Example) replaceArgument(arg Argument) Argument {
	switch arg := arg.(type) {
	case *Table:
		return arg.mapCells(e.replacer.Replace)
	case *DocString:
		lines := make([]string, len(arg.lines))
		for i, l := range arg.lines {
			lines[i] = e.replacer.Replace(l)
		}
		return &DocString{lines: lines, line: arg.line, src: arg.src}
	}
	return arg
}
