package lexer

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/gherkin/keywords"
)

func analyse(t *testing.T, input, lang string) *Lexer {
	t.Helper()
	l := New(keywords.Default(), logr.Discard())
	require.NoError(t, l.Analyse(input, lang))
	return l
}

func drain(l *Lexer) []Token {
	var toks []Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind() == KindEOS {
			return toks
		}
	}
}

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind()
	}
	return out
}

func TestLexer_BasicFeature(t *testing.T) {
	toks := drain(analyse(t, `@smoke
Feature: Login
  In order to work

  Background:
    Given a user

  Scenario: Logs in
    When they log in
    Then they see a dashboard`, "en"))

	assert.Equal(t, []Kind{
		KindTag, KindFeature, KindText, KindNewline,
		KindBackground, KindStep, KindNewline,
		KindScenario, KindStep, KindStep, KindEOS,
	}, kinds(toks))

	feature := toks[1].(Feature)
	assert.Equal(t, "Feature", feature.Keyword)
	assert.Equal(t, "Login", feature.Title)
	assert.Equal(t, 0, feature.Indent)
	assert.Equal(t, 2, feature.Line())

	bg := toks[4].(Background)
	assert.Equal(t, 2, bg.Indent)

	step := toks[8].(Step)
	assert.Equal(t, "When ", step.Keyword)
	assert.Equal(t, keywords.When, step.Type)
	assert.Equal(t, "they log in", step.Text)
	assert.Equal(t, 9, step.Line())
}

func TestLexer_StepsOnlyAfterScenario(t *testing.T) {
	toks := drain(analyse(t, "Feature: F\n  Given this is description\n", "en"))
	assert.Equal(t, []Kind{KindFeature, KindText, KindNewline, KindEOS}, kinds(toks))
}

func TestLexer_StepKeywordRequiresSpace(t *testing.T) {
	toks := drain(analyse(t, "Scenario: S\n  Givenup\n  * star step\n", "en"))
	require.Equal(t, []Kind{KindScenario, KindText, KindStep, KindNewline, KindEOS}, kinds(toks))
	star := toks[2].(Step)
	assert.Equal(t, "* ", star.Keyword)
	assert.Equal(t, keywords.And, star.Type)
}

func TestLexer_NoSpaceKeywords(t *testing.T) {
	toks := drain(analyse(t, "シナリオ: 買い物\n  前提商品がある\n  もし 購入する\n", "ja"))
	require.Equal(t, []Kind{KindScenario, KindStep, KindStep, KindNewline, KindEOS}, kinds(toks))
	given := toks[1].(Step)
	assert.Equal(t, "前提", given.Keyword)
	assert.Equal(t, "もし ", toks[2].(Step).Keyword)
	assert.Equal(t, keywords.Given, given.Type)
	assert.Equal(t, "商品がある", given.Text)
	when := toks[2].(Step)
	assert.Equal(t, "購入する", when.Text)
	assert.Equal(t, keywords.When, when.Type)
}

func TestLexer_LongestKeywordWins(t *testing.T) {
	toks := drain(analyse(t, "Scénario: S\n  Et que tout va bien\n", "fr"))
	step := toks[1].(Step)
	assert.Equal(t, "Et que ", step.Keyword)
	assert.Equal(t, "tout va bien", step.Text)
}

func TestLexer_LanguageOnlyBeforeFeature(t *testing.T) {
	toks := drain(analyse(t, "# language: fr\nFeature: F\n# language: de\n", "en"))
	require.Equal(t, []Kind{KindLanguage, KindFeature, KindComment, KindNewline, KindEOS}, kinds(toks))
	assert.Equal(t, "fr", toks[0].(Language).Code)
	assert.Equal(t, "# language: de", toks[2].(Comment).Text)
}

func TestLexer_DocString(t *testing.T) {
	input := `Scenario: S
  Given a doc
    """
    first
      indented
    # not a comment
    Given not a step
    """
`
	toks := drain(analyse(t, input, "en"))
	require.Equal(t, []Kind{
		KindScenario, KindStep, KindDocStringOp,
		KindText, KindText, KindText, KindText,
		KindDocStringOp, KindNewline, KindEOS,
	}, kinds(toks))
	assert.Equal(t, "first", toks[3].(Text).Text)
	assert.Equal(t, "  indented", toks[4].(Text).Text)
	assert.Equal(t, "# not a comment", toks[5].(Text).Text)
	assert.Equal(t, "Given not a step", toks[6].(Text).Text)
}

func TestLexer_FencedDocStringIgnoresOtherDelimiter(t *testing.T) {
	input := "Scenario: S\n  Given code\n    ```\n    \"\"\"\n    ```\n"
	toks := drain(analyse(t, input, "en"))
	require.Equal(t, []Kind{KindScenario, KindStep, KindDocStringOp, KindText, KindDocStringOp, KindNewline, KindEOS}, kinds(toks))
	assert.Equal(t, "```", toks[2].(DocStringOp).Delimiter)
	assert.Equal(t, `"""`, toks[3].(Text).Text)
}

func TestLexer_TableRows(t *testing.T) {
	input := "Scenario: S\n  Given a table\n    | a | b\\|c | d\\\\e |\n    |  x  |  | z |\n"
	toks := drain(analyse(t, input, "en"))
	require.Equal(t, []Kind{KindScenario, KindStep, KindTableRow, KindTableRow, KindNewline, KindEOS}, kinds(toks))
	assert.Equal(t, []string{"a", "b|c", `d\e`}, toks[2].(TableRow).Cells)
	assert.Equal(t, []string{"x", "", "z"}, toks[3].(TableRow).Cells)
}

func TestLexer_TableRowsNeedArgumentContext(t *testing.T) {
	toks := drain(analyse(t, "Feature: F\n  | a |\n", "en"))
	assert.Equal(t, []Kind{KindFeature, KindText, KindNewline, KindEOS}, kinds(toks))
}

func TestLexer_BackgroundEndsExamplesTable(t *testing.T) {
	input := "Scenario Outline: O\n  Given <a>\n  Examples:\n    | a |\n    | 1 |\nBackground:\n  | x |\n"
	toks := drain(analyse(t, input, "en"))
	assert.Equal(t, []Kind{
		KindOutline, KindStep, KindExamples, KindTableRow, KindTableRow,
		KindBackground, KindText, KindNewline, KindEOS,
	}, kinds(toks))
}

func TestLexer_Tags(t *testing.T) {
	toks := drain(analyse(t, "@a @b:1   @c # trailing comment\nFeature: F", "en"))
	assert.Equal(t, []string{"a", "b:1", "c"}, toks[0].(Tag).Tags)
}

func TestLexer_TagWithWhitespaceWarns(t *testing.T) {
	var logged []string
	log := funcr.New(func(prefix, args string) {
		logged = append(logged, args)
	}, funcr.Options{})

	l := New(keywords.Default(), log)
	require.NoError(t, l.Analyse("@tag with space\nFeature: F", "en"))
	tok := l.Next().(Tag)

	assert.Equal(t, []string{"tag with space"}, tok.Tags)
	require.Len(t, logged, 1)
	assert.Contains(t, logged[0], "whitespace in tags is deprecated")
}

func TestLexer_PredictAndDefer(t *testing.T) {
	l := analyse(t, "@a\nFeature: F\n", "en")

	assert.Equal(t, KindTag, l.Predict().Kind())
	assert.Equal(t, KindTag, l.Predict().Kind())
	tag := l.Next()
	require.Equal(t, KindTag, tag.Kind())

	assert.Equal(t, KindFeature, l.Predict().Kind())
	l.Defer(tag)
	assert.Equal(t, KindTag, l.Next().Kind())
	assert.Equal(t, KindFeature, l.Next().Kind())
	assert.Equal(t, KindNewline, l.Next().Kind())
	assert.Equal(t, KindEOS, l.Next().Kind())
	assert.Equal(t, KindEOS, l.Next().Kind())
}

func TestLexer_LineEndings(t *testing.T) {
	toks := drain(analyse(t, "Feature: F\r\n\r\n  text\rmore", "en"))
	assert.Equal(t, []Kind{KindFeature, KindNewline, KindText, KindText, KindEOS}, kinds(toks))
	assert.Equal(t, 4, toks[3].Line())
}

func TestLexer_InvalidUTF8(t *testing.T) {
	l := New(keywords.Default(), logr.Discard())
	err := l.Analyse("Feature: \xff\xfe", "en")
	var lexErr *Error
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, "Feature file is not in UTF8 encoding", lexErr.Message)
}

func TestLexer_AnalyseRestarts(t *testing.T) {
	l := analyse(t, "# language: fr\nFonctionnalité: F\n", "en")
	assert.Equal(t, KindLanguage, l.Next().Kind())
	assert.Equal(t, KindText, l.Next().Kind())

	require.NoError(t, l.Analyse("# language: fr\nFonctionnalité: F\n", "fr"))
	assert.Equal(t, "fr", l.Language())
	assert.Equal(t, KindLanguage, l.Next().Kind())
	feature := l.Next().(Feature)
	assert.Equal(t, "Fonctionnalité", feature.Keyword)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "PyStringOp", KindDocStringOp.String())
	assert.Equal(t, "Outline", KindOutline.String())
	assert.Equal(t, "Unknown", Kind(99).String())
}
