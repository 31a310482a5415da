package node

import (
	"path/filepath"
	"slices"
)

// Feature is the root of a parsed document.
type Feature struct {
	title       string
	description string
	tags        []string
	background  *Background
	scenarios   []ScenarioLike
	keyword     string
	language    string
	file        string
	line        int
}

// NewFeature builds a feature. file may be empty; otherwise it must be an
// absolute path.
func NewFeature(title, description string, tags []string, background *Background, scenarios []ScenarioLike, keyword, language, file string, line int) (*Feature, error) {
	if file != "" && !filepath.IsAbs(file) {
		return nil, errorf("Feature file must be an absolute path, got %q", file)
	}
	return &Feature{
		title:       title,
		description: description,
		tags:        slices.Clone(tags),
		background:  background,
		scenarios:   slices.Clone(scenarios),
		keyword:     keyword,
		language:    language,
		file:        file,
		line:        line,
	}, nil
}

func (f *Feature) NodeType() string       { return "Feature" }
func (f *Feature) Title() string          { return f.title }
func (f *Feature) Description() string    { return f.description }
func (f *Feature) HasDescription() bool   { return f.description != "" }
func (f *Feature) Tags() []string         { return slices.Clone(f.tags) }
func (f *Feature) HasTag(tag string) bool { return slices.Contains(f.tags, tag) }
func (f *Feature) Background() *Background {
	return f.background
}
func (f *Feature) HasBackground() bool { return f.background != nil }

// Scenarios returns the scenarios and outlines in file order.
func (f *Feature) Scenarios() []ScenarioLike { return slices.Clone(f.scenarios) }
func (f *Feature) Keyword() string           { return f.keyword }
func (f *Feature) Language() string          { return f.language }
func (f *Feature) File() string              { return f.file }
func (f *Feature) Line() int                 { return f.line }
