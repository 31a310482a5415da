package node

import "slices"

// ScenarioLike is implemented by *Scenario, *Outline and *Example.
type ScenarioLike interface {
	NodeType() string
	Title() string
	Tags() []string
	HasTag(tag string) bool
	Steps() []*Step
	Keyword() string
	Line() int
}

// Background holds the steps run before every scenario of a feature.
// Backgrounds are never tagged.
type Background struct {
	title   string
	steps   []*Step
	keyword string
	line    int
}

func NewBackground(title string, steps []*Step, keyword string, line int) *Background {
	return &Background{title: title, steps: slices.Clone(steps), keyword: keyword, line: line}
}

func (b *Background) NodeType() string { return "Background" }
func (b *Background) Title() string    { return b.title }
func (b *Background) Steps() []*Step   { return slices.Clone(b.steps) }
func (b *Background) Keyword() string  { return b.keyword }
func (b *Background) Line() int        { return b.line }

// Scenario is a plain scenario.
type Scenario struct {
	title   string
	tags    []string
	steps   []*Step
	keyword string
	line    int
}

func NewScenario(title string, tags []string, steps []*Step, keyword string, line int) *Scenario {
	return &Scenario{
		title:   title,
		tags:    slices.Clone(tags),
		steps:   slices.Clone(steps),
		keyword: keyword,
		line:    line,
	}
}

func (s *Scenario) NodeType() string       { return "Scenario" }
func (s *Scenario) Title() string          { return s.title }
func (s *Scenario) Tags() []string         { return slices.Clone(s.tags) }
func (s *Scenario) HasTag(tag string) bool { return slices.Contains(s.tags, tag) }
func (s *Scenario) Steps() []*Step         { return slices.Clone(s.steps) }
func (s *Scenario) Keyword() string        { return s.keyword }
func (s *Scenario) Line() int              { return s.line }
