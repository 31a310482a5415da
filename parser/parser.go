// Package parser builds a node.Feature from Gherkin text.
//
// Parsing is recursive descent over the lexer's token stream with one token
// of lookahead. A Parser keeps per-document state and must not be used by
// more than one goroutine at a time.
package parser

import (
	"slices"
	"strings"
	"unicode"

	"github.com/go-logr/logr"

	"github.com/chriserin/gherkin/keywords"
	"github.com/chriserin/gherkin/lexer"
	"github.com/chriserin/gherkin/node"
)

// construct is the kind of node currently being parsed.
type construct int

const (
	inDocument construct = iota
	inFeature
	inBackground
	inScenario
	inOutline
	inStep
)

// tagFollowers lists, per open construct, the tokens a tag line may precede
// and still belong to that construct. Constructs without an entry accept any
// tag line into the buffer.
var tagFollowers = map[construct][]lexer.Kind{
	inOutline: {lexer.KindExamples, lexer.KindStep, lexer.KindTag},
}

var stepTypes = map[keywords.Role]node.StepType{
	keywords.Given: node.Given,
	keywords.When:  node.When,
	keywords.Then:  node.Then,
	keywords.And:   node.And,
	keywords.But:   node.But,
}

type tagResult int

const (
	tagsBuffered tagResult = iota
	tagsDeferred
	tagsInert
)

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger receiving deprecation warnings and debug output.
func WithLogger(log logr.Logger) Option {
	return func(p *Parser) {
		p.log = log
	}
}

// WithLanguage sets the language assumed until a "# language:" directive.
func WithLanguage(language string) Option {
	return func(p *Parser) {
		p.language = language
	}
}

// Parser turns Gherkin text into a feature.
type Parser struct {
	table    keywords.Table
	log      logr.Logger
	language string
	lexer    *lexer.Lexer

	input    string
	file     string
	tags     []string
	langLine int
	open     []construct
}

func New(table keywords.Table, opts ...Option) *Parser {
	p := &Parser{
		table:    table,
		log:      logr.Discard(),
		language: keywords.DefaultLanguage,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.lexer = lexer.New(table, p.log)
	return p
}

// Parse parses input, naming file in errors and on the resulting feature.
// A document without a feature yields a nil feature and no error.
func (p *Parser) Parse(input, file string) (*node.Feature, error) {
	p.input = input
	p.file = file
	p.tags = nil
	p.langLine = 0
	p.open = nil

	if err := p.lexer.Analyse(input, p.language); err != nil {
		return nil, &Error{Message: `Lexer exception "` + err.Error() + `" thrown`, File: file, Err: err}
	}

	var feature *node.Feature
	for {
		switch tok := p.lexer.Predict().(type) {
		case lexer.EOS:
			return feature, nil
		case lexer.Language:
			if err := p.parseLanguage(); err != nil {
				return nil, err
			}
		case lexer.Comment, lexer.Newline:
			p.lexer.Next()
		case lexer.Tag:
			p.parseTags(false)
		case lexer.Feature:
			if feature != nil {
				return nil, p.errorf(tok.Line(), "Only one feature is allowed per feature file, but got another %q on line: %d (first on line: %d)", tok.Keyword, tok.Line(), feature.Line())
			}
			f, err := p.parseFeature()
			if err != nil {
				return nil, err
			}
			feature = f
		case lexer.Text:
			return nil, p.errorf(tok.Line(), "Expected Feature, but got text: %q on line: %d", strings.TrimSpace(tok.Text), tok.Line())
		default:
			return nil, p.errorf(tok.Line(), "Expected Feature, but got %s on line: %d", tok.Kind(), tok.Line())
		}
	}
}

// parseLanguage restarts the lexer under the first declared language. The
// restart produces the same directive again, which is then skipped.
func (p *Parser) parseLanguage() error {
	tok := p.lexer.Next().(lexer.Language)
	switch {
	case p.langLine == 0:
		p.langLine = tok.Line()
		if !p.table.HasLanguage(tok.Code) {
			p.log.Info("unknown language, using default keywords", "language", tok.Code, "line", tok.Line())
		}
		p.tags = nil
		if err := p.lexer.Analyse(p.input, tok.Code); err != nil {
			return p.wrap(err, tok.Line())
		}
	case tok.Line() != p.langLine:
		return p.errorf(tok.Line(), "Ambiguous language specifiers on lines: %d and %d", p.langLine, tok.Line())
	}
	return nil
}

func (p *Parser) parseFeature() (*node.Feature, error) {
	tok := p.lexer.Next().(lexer.Feature)
	tags := p.popTags()
	p.push(inFeature)
	defer p.pop()

	var (
		description = newBlock(tok.Indent, "")
		background  *node.Background
		scenarios   []node.ScenarioLike
	)
	for {
		switch next := p.lexer.Predict().(type) {
		case lexer.EOS, lexer.Feature:
			return p.newFeature(tok, description.String(), tags, background, scenarios)
		case lexer.Comment:
			p.lexer.Next()
		case lexer.Newline:
			description.add(p.lexer.Next())
		case lexer.Text:
			if background != nil || len(scenarios) > 0 {
				return nil, p.errorf(next.Line(), "Expected Scenario, Outline or Background, but got text: %q on line: %d", strings.TrimSpace(next.Text), next.Line())
			}
			description.add(p.lexer.Next())
		case lexer.Tag:
			p.parseTags(false)
		case lexer.Background:
			if background != nil {
				return nil, p.errorf(next.Line(), "Each Feature could have only one Background, but found multiple on lines %d and %d", background.Line(), next.Line())
			}
			bg, err := p.parseBackground()
			if err != nil {
				return nil, err
			}
			background = bg
		case lexer.Scenario:
			s, err := p.parseScenario()
			if err != nil {
				return nil, err
			}
			scenarios = append(scenarios, s)
		case lexer.Outline:
			o, err := p.parseOutline()
			if err != nil {
				return nil, err
			}
			scenarios = append(scenarios, o)
		default:
			return nil, p.errorf(next.Line(), "Expected Scenario, Outline or Background, but got %s on line: %d", next.Kind(), next.Line())
		}
	}
}

func (p *Parser) newFeature(tok lexer.Feature, description string, tags []string, background *node.Background, scenarios []node.ScenarioLike) (*node.Feature, error) {
	f, err := node.NewFeature(
		strings.TrimSpace(tok.Title),
		description,
		tags,
		background,
		scenarios,
		tok.Keyword,
		p.lexer.Language(),
		p.file,
		tok.Line(),
	)
	if err != nil {
		return nil, p.wrap(err, tok.Line())
	}
	return f, nil
}

func (p *Parser) parseBackground() (*node.Background, error) {
	tok := p.lexer.Next().(lexer.Background)
	if len(p.popTags()) > 0 {
		return nil, p.errorf(tok.Line(), "Background can not be tagged, but it is on line: %d", tok.Line())
	}
	p.push(inBackground)
	defer p.pop()

	title := newBlock(tok.Indent, tok.Title)
	steps, err := p.parseSteps(title, "Expected Step")
	if err != nil {
		return nil, err
	}
	return node.NewBackground(title.String(), steps, tok.Keyword, tok.Line()), nil
}

func (p *Parser) parseScenario() (*node.Scenario, error) {
	tok := p.lexer.Next().(lexer.Scenario)
	tags := p.popTags()
	p.push(inScenario)
	defer p.pop()

	title := newBlock(tok.Indent, tok.Title)
	steps, err := p.parseSteps(title, "Expected Step")
	if err != nil {
		return nil, err
	}
	return node.NewScenario(title.String(), tags, steps, tok.Keyword, tok.Line()), nil
}

// parseSteps reads the title continuation and steps of a background or
// scenario. Text is only allowed before the first step.
func (p *Parser) parseSteps(title *block, expected string) ([]*node.Step, error) {
	var steps []*node.Step
	for {
		switch next := p.lexer.Predict().(type) {
		case lexer.Step:
			s, err := p.parseStep()
			if err != nil {
				return nil, err
			}
			steps = append(steps, normalize(s, steps))
		case lexer.Comment:
			p.lexer.Next()
		case lexer.Newline:
			tok := p.lexer.Next()
			if len(steps) == 0 {
				title.add(tok)
			}
		case lexer.Text:
			if len(steps) > 0 {
				return nil, p.errorf(next.Line(), "%s, but got text: %q on line: %d", expected, strings.TrimSpace(next.Text), next.Line())
			}
			title.add(p.lexer.Next())
		default:
			return steps, nil
		}
	}
}

func (p *Parser) parseOutline() (*node.Outline, error) {
	tok := p.lexer.Next().(lexer.Outline)
	tags := p.popTags()
	p.push(inOutline)
	defer p.pop()

	var (
		title  = newBlock(tok.Indent, tok.Title)
		steps  []*node.Step
		tables []*node.ExampleTable
	)
loop:
	for {
		switch next := p.lexer.Predict().(type) {
		case lexer.Step:
			s, err := p.parseStep()
			if err != nil {
				return nil, err
			}
			steps = append(steps, normalize(s, steps))
		case lexer.Examples:
			t, err := p.parseExamples()
			if err != nil {
				return nil, err
			}
			tables = append(tables, t)
		case lexer.Comment:
			p.lexer.Next()
		case lexer.Newline:
			tok := p.lexer.Next()
			if len(steps) == 0 && len(tables) == 0 {
				title.add(tok)
			}
		case lexer.Text:
			if len(steps) > 0 || len(tables) > 0 {
				return nil, p.errorf(next.Line(), "Expected Step or Examples table, but got text: %q on line: %d", strings.TrimSpace(next.Text), next.Line())
			}
			title.add(p.lexer.Next())
		case lexer.Tag:
			switch p.parseTags(len(steps) > 0 || len(tables) > 0) {
			case tagsDeferred:
				break loop
			case tagsInert:
				if len(steps) == 0 && len(tables) == 0 {
					title.blank()
				}
			}
		default:
			break loop
		}
	}

	if len(tables) == 0 {
		return nil, p.errorf(tok.Line(), "Outline should have examples table, but got none for outline %q on line: %d", title.String(), tok.Line())
	}
	return node.NewOutline(title.String(), tags, steps, tables, tok.Keyword, tok.Line()), nil
}

func (p *Parser) parseExamples() (*node.ExampleTable, error) {
	tok := p.lexer.Next().(lexer.Examples)
	tags := p.popTags()
	table, err := p.parseTable()
	if err != nil {
		return nil, err
	}
	return node.NewExampleTable(table, tok.Keyword, tags), nil
}

func (p *Parser) parseStep() (*node.Step, error) {
	tok := p.lexer.Next().(lexer.Step)
	p.push(inStep)
	defer p.pop()

	var args []node.Argument
loop:
	for {
		switch p.lexer.Predict().(type) {
		case lexer.Newline, lexer.Comment:
			p.lexer.Next()
		case lexer.TableRow:
			t, err := p.parseTable()
			if err != nil {
				return nil, err
			}
			args = append(args, t)
		case lexer.DocStringOp:
			d, err := p.parseDocString()
			if err != nil {
				return nil, err
			}
			args = append(args, d)
		default:
			break loop
		}
	}

	s, err := node.NewStep(tok.Keyword, stepTypes[tok.Type], strings.TrimSpace(tok.Text), args, tok.Line())
	if err != nil {
		return nil, p.wrap(err, tok.Line())
	}
	return s.WithSource(node.Source{Language: p.lexer.Language(), File: p.file}), nil
}

// parseTable reads consecutive table rows, skipping blank lines and comments
// between them.
func (p *Parser) parseTable() (*node.Table, error) {
	var (
		rows  []node.Row
		first int
	)
	for {
		switch tok := p.lexer.Predict().(type) {
		case lexer.Newline, lexer.Comment:
			p.lexer.Next()
		case lexer.TableRow:
			p.lexer.Next()
			if first == 0 {
				first = tok.Line()
			}
			rows = append(rows, node.Row{Line: tok.Line(), Cells: tok.Cells})
		default:
			t, err := node.NewTable(rows)
			if err != nil {
				return nil, p.wrap(err, first)
			}
			return t, nil
		}
	}
}

func (p *Parser) parseDocString() (*node.DocString, error) {
	open := p.lexer.Next()
	var lines []string
	for {
		switch tok := p.lexer.Predict().(type) {
		case lexer.Text:
			p.lexer.Next()
			lines = append(lines, tok.Text)
		case lexer.DocStringOp:
			p.lexer.Next()
			return node.NewDocString(lines, open.Line()), nil
		default:
			return nil, p.errorf(tok.Line(), "Expected %s token, but got %s on line: %d", lexer.KindDocStringOp, tok.Kind(), tok.Line())
		}
	}
}

// parseTags consumes a tag line. Inside constructs listed in tagFollowers
// the line is only kept when it precedes an allowed token; before a heading
// it is handed back to the lexer for the enclosing construct, and otherwise
// it is inert text. With skipBlank the lookahead also passes over blank
// lines.
func (p *Parser) parseTags(skipBlank bool) tagResult {
	tok := p.lexer.Next().(lexer.Tag)
	followers, ok := tagFollowers[p.current()]
	if !ok {
		p.tags = append(p.tags, tok.Tags...)
		return tagsBuffered
	}

	next := p.lexer.Predict()
	for next.Kind() == lexer.KindComment || skipBlank && next.Kind() == lexer.KindNewline {
		p.lexer.Next()
		next = p.lexer.Predict()
	}
	switch {
	case slices.Contains(followers, next.Kind()):
		p.tags = append(p.tags, tok.Tags...)
		return tagsBuffered
	case isHeading(next.Kind()):
		p.lexer.Defer(tok)
		return tagsDeferred
	default:
		p.log.V(1).Info("ignoring tag line", "line", tok.Line(), "tags", tok.Tags)
		return tagsInert
	}
}

func isHeading(k lexer.Kind) bool {
	switch k {
	case lexer.KindFeature, lexer.KindBackground, lexer.KindScenario, lexer.KindOutline:
		return true
	}
	return false
}

func (p *Parser) popTags() []string {
	tags := p.tags
	p.tags = nil
	return tags
}

func (p *Parser) push(c construct) {
	p.open = append(p.open, c)
}

func (p *Parser) pop() {
	p.open = p.open[:len(p.open)-1]
}

func (p *Parser) current() construct {
	if len(p.open) == 0 {
		return inDocument
	}
	return p.open[len(p.open)-1]
}

// normalize gives And/But steps the type of the previous step, or Given.
func normalize(s *node.Step, previous []*node.Step) *node.Step {
	if t := s.Type(); t != node.And && t != node.But {
		return s
	}
	if len(previous) == 0 {
		return s.WithType(node.Given)
	}
	return s.WithType(previous[len(previous)-1].Type())
}

// block accumulates free text lines below a keyword line. Up to indent+2
// leading whitespace characters are removed from every line.
type block struct {
	strip int
	lines []string
}

func newBlock(indent int, first string) *block {
	b := &block{strip: indent + 2}
	if first = strings.TrimSpace(first); first != "" {
		b.lines = append(b.lines, first)
	}
	return b
}

func (b *block) add(tok lexer.Token) {
	switch tok := tok.(type) {
	case lexer.Text:
		b.lines = append(b.lines, strings.TrimRightFunc(swallow(tok.Text, b.strip), unicode.IsSpace))
	case lexer.Newline:
		b.blank()
	}
}

func (b *block) blank() {
	b.lines = append(b.lines, "")
}

// String joins the lines, dropping leading blank lines and trailing
// whitespace.
func (b *block) String() string {
	s := strings.Join(b.lines, "\n")
	return strings.TrimRightFunc(strings.TrimLeft(s, "\n"), unicode.IsSpace)
}

func swallow(line string, n int) string {
	for i, r := range line {
		if n == 0 || !unicode.IsSpace(r) {
			return line[i:]
		}
		n--
	}
	return ""
}
