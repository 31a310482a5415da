// Package keywords holds the per-language Gherkin keyword tables.
package keywords

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLanguage is used whenever a document does not declare one.
const DefaultLanguage = "en"

// NoSpaceMarker terminates step keywords that may be glued to the step text.
const NoSpaceMarker = "<"

// Role is the grammatical role a keyword plays.
type Role string

const (
	Feature    Role = "feature"
	Background Role = "background"
	Scenario   Role = "scenario"
	Outline    Role = "scenario_outline"
	Examples   Role = "examples"
	Given      Role = "given"
	When       Role = "when"
	Then       Role = "then"
	And        Role = "and"
	But        Role = "but"
)

// StepRoles lists the step roles in classification order.
var StepRoles = []Role{Given, When, Then, And, But}

// Table maps a language and a role to the literal keywords of that role.
type Table interface {
	Keywords(language string, role Role) []string
	HasLanguage(language string) bool
	Languages() []string
}

//go:embed i18n.yml
var builtin []byte

type language struct {
	Name   string
	Native string
	Roles  map[Role][]string
}

// Dictionary is a Table backed by a YAML keyword file.
type Dictionary struct {
	langs map[string]language
}

// Default returns the dictionary shipped with the module.
func Default() *Dictionary {
	d, err := Load(bytes.NewReader(builtin))
	if err != nil {
		panic(fmt.Sprintf("keywords: embedded dictionary is invalid: %v", err))
	}
	return d
}

// Load reads a dictionary whose top-level keys are language codes and whose
// values map role names to "|" separated keyword lists.
func Load(r io.Reader) (*Dictionary, error) {
	var raw map[string]map[string]string
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding keyword dictionary: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("keyword dictionary is empty")
	}

	d := &Dictionary{langs: make(map[string]language, len(raw))}
	for code, entries := range raw {
		lang := language{Roles: make(map[Role][]string)}
		for key, value := range entries {
			switch key {
			case "name":
				lang.Name = value
			case "native":
				lang.Native = value
			default:
				lang.Roles[Role(key)] = split(value)
			}
		}
		d.langs[code] = lang
	}
	if _, ok := d.langs[DefaultLanguage]; !ok {
		return nil, fmt.Errorf("keyword dictionary has no %q language", DefaultLanguage)
	}
	return d, nil
}

func split(value string) []string {
	var out []string
	for _, kw := range strings.Split(value, "|") {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

// Keywords returns the keywords of role in language, falling back to English
// when the language or the role is unknown.
func (d *Dictionary) Keywords(language string, role Role) []string {
	if lang, ok := d.langs[language]; ok {
		if kws, ok := lang.Roles[role]; ok {
			return kws
		}
	}
	return d.langs[DefaultLanguage].Roles[role]
}

func (d *Dictionary) HasLanguage(language string) bool {
	_, ok := d.langs[language]
	return ok
}

func (d *Dictionary) Languages() []string {
	codes := make([]string, 0, len(d.langs))
	for code := range d.langs {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Describe returns the English and native names of a language.
func (d *Dictionary) Describe(language string) (name, native string) {
	lang := d.langs[language]
	return lang.Name, lang.Native
}

// IsNoSpace reports whether kw is written without a space before the step
// text, and returns the keyword with the marker removed.
func IsNoSpace(kw string) (string, bool) {
	if strings.HasSuffix(kw, NoSpaceMarker) {
		return strings.TrimSuffix(kw, NoSpaceMarker), true
	}
	return kw, false
}

// StepType classifies a literal step keyword of language into one of the step
// roles. "*" counts as And so that it takes the type of the previous step.
// Unknown keywords are classified as Given.
func StepType(t Table, language, keyword string) Role {
	if keyword == "*" {
		return And
	}
	for _, role := range StepRoles {
		for _, kw := range t.Keywords(language, role) {
			if kw == keyword || kw == keyword+NoSpaceMarker {
				return role
			}
		}
	}
	return Given
}
