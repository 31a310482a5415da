// Package lexer splits Gherkin text into line tokens.
//
// The lexer is pull based: the parser asks for the next token with Next or
// peeks at it with Predict. Which recognizer fires for a line depends on a
// small amount of mode state (docstring mode, whether steps or multi-line
// arguments are expected, whether the Feature keyword was already seen), so
// a Lexer must not be shared between concurrent parses.
package lexer

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-logr/logr"

	"github.com/chriserin/gherkin/keywords"
)

var (
	languagePattern   = regexp.MustCompile(`^\s*#\s*language:\s*([\w_\-]+)\s*$`)
	tagCommentPattern = regexp.MustCompile(`^(.*?)\s+#.*$`)
	lineEndings       = strings.NewReplacer("\r\n", "\n", "\r", "\n")
	docDelimiters     = []string{`"""`, "```"}
)

// Error is returned for input that cannot be tokenized at all.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

type state struct {
	inDocString             bool
	docDelimiter            string
	docIndent               int
	allowMultilineArguments bool
	allowSteps              bool
	featureStarted          bool
}

// Lexer tokenizes one document at a time.
type Lexer struct {
	table keywords.Table
	log   logr.Logger

	language string
	lines    []string
	lineNo   int
	pending  []Token
	state    state

	headings map[keywords.Role]*regexp.Regexp
	step     *regexp.Regexp
	scanners []func(line, trimmed string) Token
}

// New returns a lexer resolving keywords through table. Deprecation warnings
// are reported to log.
func New(table keywords.Table, log logr.Logger) *Lexer {
	l := &Lexer{table: table, log: log}
	l.scanners = []func(line, trimmed string) Token{
		l.scanLanguage,
		l.scanComment,
		l.scanDocStringOp,
		l.scanDocStringContent,
		l.scanStep,
		l.scanHeading(keywords.Scenario),
		l.scanHeading(keywords.Background),
		l.scanHeading(keywords.Outline),
		l.scanHeading(keywords.Examples),
		l.scanHeading(keywords.Feature),
		l.scanTags,
		l.scanTableRow,
		l.scanNewline,
		l.scanText,
	}
	return l
}

// Analyse (re)starts tokenization of input from its first line, recognizing
// keywords of language. Cached keyword patterns of a previous run are
// discarded.
func (l *Lexer) Analyse(input, language string) error {
	if !utf8.ValidString(input) {
		return &Error{Message: "Feature file is not in UTF8 encoding"}
	}
	input = strings.TrimPrefix(input, "\uFEFF")

	if l.language != "" && l.language != language {
		l.log.V(1).Info("restarting lexer", "from", l.language, "to", language)
	}
	l.language = language
	l.lines = strings.Split(lineEndings.Replace(input), "\n")
	l.lineNo = 1
	l.pending = nil
	l.state = state{}
	l.headings = make(map[keywords.Role]*regexp.Regexp)
	l.step = nil
	return nil
}

// Language is the language keywords are currently recognized in.
func (l *Lexer) Language() string {
	return l.language
}

// Next consumes and returns the next token, deferred tokens first.
func (l *Lexer) Next() Token {
	if len(l.pending) > 0 {
		tok := l.pending[0]
		l.pending = l.pending[1:]
		return tok
	}
	return l.scan()
}

// Predict returns the next token without consuming it.
func (l *Lexer) Predict() Token {
	if len(l.pending) == 0 {
		l.pending = append(l.pending, l.scan())
	}
	return l.pending[0]
}

// Defer pushes an already consumed token back onto the front of the stream.
// It is returned again before any predicted token.
func (l *Lexer) Defer(tok Token) {
	l.pending = append([]Token{tok}, l.pending...)
}

func (l *Lexer) scan() Token {
	if l.lineNo > len(l.lines) {
		return EOS{at{l.lineNo}}
	}
	line := l.lines[l.lineNo-1]
	trimmed := strings.TrimSpace(line)
	for _, scan := range l.scanners {
		if tok := scan(line, trimmed); tok != nil {
			l.lineNo++
			return tok
		}
	}
	// scanText always matches.
	panic("unreachable")
}

func (l *Lexer) here() at {
	return at{l.lineNo}
}

func (l *Lexer) scanLanguage(line, trimmed string) Token {
	if l.state.featureStarted || l.state.inDocString || !strings.HasPrefix(trimmed, "#") {
		return nil
	}
	m := languagePattern.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	return Language{at: l.here(), Code: m[1]}
}

func (l *Lexer) scanComment(_, trimmed string) Token {
	if l.state.inDocString || !strings.HasPrefix(trimmed, "#") {
		return nil
	}
	return Comment{at: l.here(), Text: trimmed}
}

func (l *Lexer) scanDocStringOp(line, trimmed string) Token {
	if !l.state.allowMultilineArguments {
		return nil
	}
	if l.state.inDocString {
		if !strings.HasPrefix(trimmed, l.state.docDelimiter) {
			return nil
		}
		l.state.inDocString = false
		return DocStringOp{at: l.here(), Delimiter: l.state.docDelimiter}
	}
	for _, delim := range docDelimiters {
		if strings.HasPrefix(trimmed, delim) {
			l.state.inDocString = true
			l.state.docDelimiter = delim
			l.state.docIndent = indentOf(line)
			return DocStringOp{at: l.here(), Delimiter: delim}
		}
	}
	return nil
}

func (l *Lexer) scanDocStringContent(line, _ string) Token {
	if !l.state.inDocString {
		return nil
	}
	return Text{at: l.here(), Text: swallow(line, l.state.docIndent)}
}

func (l *Lexer) scanStep(line, _ string) Token {
	if !l.state.allowSteps {
		return nil
	}
	re := l.stepPattern()
	if re == nil {
		return nil
	}
	m := re.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	l.state.allowMultilineArguments = true
	return Step{
		at:      l.here(),
		Keyword: m[1],
		Type:    keywords.StepType(l.table, l.language, strings.TrimSpace(m[1])),
		Text:    m[2],
	}
}

func (l *Lexer) scanHeading(role keywords.Role) func(line, trimmed string) Token {
	return func(line, _ string) Token {
		re := l.headingPattern(role)
		if re == nil {
			return nil
		}
		m := re.FindStringSubmatch(line)
		if m == nil {
			return nil
		}
		h := Heading{at: l.here(), Keyword: m[2], Title: m[3], Indent: utf8.RuneCountInString(m[1])}

		switch role {
		case keywords.Feature:
			l.state.featureStarted = true
			l.state.allowMultilineArguments = false
			return Feature{h}
		case keywords.Background:
			l.state.allowMultilineArguments = false
			l.state.allowSteps = true
			return Background{h}
		case keywords.Scenario:
			l.state.allowMultilineArguments = false
			l.state.allowSteps = true
			return Scenario{h}
		case keywords.Outline:
			l.state.allowMultilineArguments = false
			l.state.allowSteps = true
			return Outline{h}
		default:
			l.state.allowMultilineArguments = true
			return Examples{h}
		}
	}
}

func (l *Lexer) scanTags(_, trimmed string) Token {
	if !strings.HasPrefix(trimmed, "@") {
		return nil
	}
	if m := tagCommentPattern.FindStringSubmatch(trimmed); m != nil {
		trimmed = m[1]
	}
	var tags []string
	for _, tag := range strings.Split(trimmed[1:], "@") {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if strings.IndexFunc(tag, unicode.IsSpace) >= 0 {
			l.log.Info("whitespace in tags is deprecated", "tag", tag, "line", l.lineNo)
		}
		tags = append(tags, tag)
	}
	return Tag{at: l.here(), Tags: tags}
}

func (l *Lexer) scanTableRow(_, trimmed string) Token {
	if !l.state.allowMultilineArguments || !strings.HasPrefix(trimmed, "|") {
		return nil
	}
	return TableRow{at: l.here(), Cells: splitCells(trimmed[1:])}
}

func (l *Lexer) scanNewline(line, trimmed string) Token {
	if trimmed != "" {
		return nil
	}
	return Newline{at: l.here(), Width: utf8.RuneCountInString(line)}
}

func (l *Lexer) scanText(line, _ string) Token {
	return Text{at: l.here(), Text: line}
}

func (l *Lexer) headingPattern(role keywords.Role) *regexp.Regexp {
	if re, ok := l.headings[role]; ok {
		return re
	}
	var re *regexp.Regexp
	if alt := alternation(l.table.Keywords(l.language, role), quoteHeading); alt != "" {
		re = regexp.MustCompile(`^(\s*)(` + alt + `):\s*(.*)$`)
	}
	l.headings[role] = re
	return re
}

func (l *Lexer) stepPattern() *regexp.Regexp {
	if l.step != nil {
		return l.step
	}
	var kws []string
	for _, role := range keywords.StepRoles {
		kws = append(kws, l.table.Keywords(l.language, role)...)
	}
	if alt := alternation(kws, quoteStep); alt != "" {
		l.step = regexp.MustCompile(`^\s*(` + alt + `)(\S.*)$`)
	}
	return l.step
}

func quoteHeading(kw string) string {
	return regexp.QuoteMeta(kw)
}

// quoteStep requires whitespace after the keyword unless the keyword carries
// the no-space marker.
func quoteStep(kw string) string {
	if bare, ok := keywords.IsNoSpace(kw); ok {
		return regexp.QuoteMeta(bare) + `\s*`
	}
	return regexp.QuoteMeta(kw) + `\s+`
}

// alternation joins unique keywords longest first so that a keyword never
// shadows a longer one sharing its prefix.
func alternation(kws []string, quote func(string) string) string {
	seen := make(map[string]bool, len(kws))
	var uniq []string
	for _, kw := range kws {
		if !seen[kw] {
			seen[kw] = true
			uniq = append(uniq, kw)
		}
	}
	sort.SliceStable(uniq, func(i, j int) bool {
		return utf8.RuneCountInString(uniq[i]) > utf8.RuneCountInString(uniq[j])
	})
	parts := make([]string, len(uniq))
	for i, kw := range uniq {
		parts[i] = quote(kw)
	}
	return strings.Join(parts, "|")
}

func indentOf(line string) int {
	n := 0
	for _, r := range line {
		if !unicode.IsSpace(r) {
			break
		}
		n++
	}
	return n
}

// swallow removes up to n leading whitespace runes.
func swallow(line string, n int) string {
	for i, r := range line {
		if n == 0 || !unicode.IsSpace(r) {
			return line[i:]
		}
		n--
	}
	return ""
}

// splitCells splits the remainder of a table row (after its leading pipe) on
// unescaped pipes. "\|" and "\\" are unescaped; a trailing empty segment
// after the closing pipe is dropped.
func splitCells(row string) []string {
	var (
		cells []string
		cell  strings.Builder
	)
	runes := []rune(row)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\\' && i+1 < len(runes) && (runes[i+1] == '|' || runes[i+1] == '\\'):
			cell.WriteRune(runes[i+1])
			i++
		case r == '|':
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		default:
			cell.WriteRune(r)
		}
	}
	if rest := strings.TrimSpace(cell.String()); rest != "" {
		cells = append(cells, rest)
	}
	return cells
}
