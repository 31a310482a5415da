package lexer

import "github.com/chriserin/gherkin/keywords"

// Kind identifies the variant of a Token.
type Kind int

const (
	KindEOS Kind = iota
	KindLanguage
	KindComment
	KindDocStringOp
	KindTableRow
	KindTag
	KindNewline
	KindText
	KindFeature
	KindBackground
	KindScenario
	KindOutline
	KindExamples
	KindStep
)

var kindNames = [...]string{
	KindEOS:         "EOS",
	KindLanguage:    "Language",
	KindComment:     "Comment",
	KindDocStringOp: "PyStringOp",
	KindTableRow:    "TableRow",
	KindTag:         "Tag",
	KindNewline:     "Newline",
	KindText:        "Text",
	KindFeature:     "Feature",
	KindBackground:  "Background",
	KindScenario:    "Scenario",
	KindOutline:     "Outline",
	KindExamples:    "Examples",
	KindStep:        "Step",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Token is one lexical unit. The concrete types below are the only
// implementations.
type Token interface {
	Kind() Kind
	Line() int
	token()
}

type at struct {
	line int
}

func (a at) Line() int { return a.line }
func (at) token()      {}

// EOS terminates every token stream.
type EOS struct{ at }

// Language is a "# language: xx" directive.
type Language struct {
	at
	Code string
}

// Comment is a "#" line outside docstrings.
type Comment struct {
	at
	Text string
}

// DocStringOp opens or closes a docstring.
type DocStringOp struct {
	at
	Delimiter string
}

// TableRow is a "| a | b |" line.
type TableRow struct {
	at
	Cells []string
}

// Tag is a line of "@tag" names, stored without the "@".
type Tag struct {
	at
	Tags []string
}

// Newline is a blank line.
type Newline struct {
	at
	Width int
}

// Text is any other line, kept verbatim. Docstring content arrives as Text
// with the delimiter indentation removed.
type Text struct {
	at
	Text string
}

// Heading carries the fields shared by keyword lines ending in a colon.
type Heading struct {
	at
	Keyword string
	Title   string
	Indent  int
}

type (
	Feature    struct{ Heading }
	Background struct{ Heading }
	Scenario   struct{ Heading }
	Outline    struct{ Heading }
	Examples   struct{ Heading }
)

// Step is a step line. Keyword keeps the whitespace separating it from
// Text. Type is the role of the keyword before And/But normalization.
type Step struct {
	at
	Keyword string
	Type    keywords.Role
	Text    string
}

func (EOS) Kind() Kind         { return KindEOS }
func (Language) Kind() Kind    { return KindLanguage }
func (Comment) Kind() Kind     { return KindComment }
func (DocStringOp) Kind() Kind { return KindDocStringOp }
func (TableRow) Kind() Kind    { return KindTableRow }
func (Tag) Kind() Kind         { return KindTag }
func (Newline) Kind() Kind     { return KindNewline }
func (Text) Kind() Kind        { return KindText }
func (Feature) Kind() Kind     { return KindFeature }
func (Background) Kind() Kind  { return KindBackground }
func (Scenario) Kind() Kind    { return KindScenario }
func (Outline) Kind() Kind     { return KindOutline }
func (Examples) Kind() Kind    { return KindExamples }
func (Step) Kind() Kind        { return KindStep }
