// Package language holds the table of localized Gherkin keywords.
//
// The table is decoded once from an embedded JSON file and never mutated
// afterwards, so lookups are safe from any goroutine.
package language

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// DefaultCode is the language used when a document carries no directive.
const DefaultCode = "en"

// Wildcard is the step keyword accepted in every language.
const Wildcard = "* "

//go:embed languages.json
var languagesJSON []byte

// Role identifies which grammar production a keyword spelling introduces.
type Role int

const (
	RoleFeature Role = iota
	RoleBackground
	RoleScenario
	RoleScenarioOutline
	RoleExamples
	RoleRule
	RoleGiven
	RoleWhen
	RoleThen
	RoleAnd
	RoleBut
)

// StructuralRoles are the roles whose spellings are followed by a colon.
var StructuralRoles = []Role{RoleFeature, RoleBackground, RoleScenario, RoleScenarioOutline, RoleExamples, RoleRule}

// StepRoles are the roles whose spellings prefix step text.
var StepRoles = []Role{RoleGiven, RoleWhen, RoleThen, RoleAnd, RoleBut}

func (r Role) String() string {
	switch r {
	case RoleFeature:
		return "feature"
	case RoleBackground:
		return "background"
	case RoleScenario:
		return "scenario"
	case RoleScenarioOutline:
		return "scenarioOutline"
	case RoleExamples:
		return "examples"
	case RoleRule:
		return "rule"
	case RoleGiven:
		return "given"
	case RoleWhen:
		return "when"
	case RoleThen:
		return "then"
	case RoleAnd:
		return "and"
	case RoleBut:
		return "but"
	default:
		return "unknown"
	}
}

// Keywords lists the accepted spellings per role, in preference order.
// Step spellings keep their trailing separator (usually a space).
type Keywords struct {
	Feature         []string `json:"feature"`
	Background      []string `json:"background"`
	Scenario        []string `json:"scenario"`
	ScenarioOutline []string `json:"scenarioOutline"`
	Examples        []string `json:"examples"`
	Rule            []string `json:"rule"`
	Given           []string `json:"given"`
	When            []string `json:"when"`
	Then            []string `json:"then"`
	And             []string `json:"and"`
	But             []string `json:"but"`
}

// Spellings returns the spellings registered for role.
func (k *Keywords) Spellings(role Role) []string {
	switch role {
	case RoleFeature:
		return k.Feature
	case RoleBackground:
		return k.Background
	case RoleScenario:
		return k.Scenario
	case RoleScenarioOutline:
		return k.ScenarioOutline
	case RoleExamples:
		return k.Examples
	case RoleRule:
		return k.Rule
	case RoleGiven:
		return k.Given
	case RoleWhen:
		return k.When
	case RoleThen:
		return k.Then
	case RoleAnd:
		return k.And
	case RoleBut:
		return k.But
	default:
		return nil
	}
}

// Language is one entry of the table.
type Language struct {
	Code     string
	Name     string
	Native   string
	Keywords Keywords

	// Matchers sorted longest spelling first, so a spelling that is a
	// prefix of another never shadows it.
	structural []Match
	steps      []Match
}

// Match pairs a spelling with the role it introduces.
type Match struct {
	Role     Role
	Spelling string
}

type entry struct {
	Name   string `json:"name"`
	Native string `json:"native"`
	Keywords
}

var (
	table map[string]*Language
	codes []string
)

func init() {
	var raw map[string]entry
	if err := json.Unmarshal(languagesJSON, &raw); err != nil {
		panic(fmt.Sprintf("language: decoding embedded table: %v", err))
	}

	table = make(map[string]*Language, len(raw))
	for code, e := range raw {
		lang := &Language{
			Code:     code,
			Name:     e.Name,
			Native:   e.Native,
			Keywords: e.Keywords,
		}
		for _, role := range StructuralRoles {
			for _, s := range lang.Keywords.Spellings(role) {
				lang.structural = append(lang.structural, Match{Role: role, Spelling: strings.TrimSpace(s)})
			}
		}
		for _, role := range StepRoles {
			for _, s := range lang.Keywords.Spellings(role) {
				lang.steps = append(lang.steps, Match{Role: role, Spelling: s})
			}
		}
		sortMatches(lang.structural)
		sortMatches(lang.steps)
		table[code] = lang
		codes = append(codes, code)
	}
	sort.Strings(codes)
}

// sortMatches orders by descending spelling length; ties keep role order so
// a spelling registered under two roles resolves to the earlier role.
func sortMatches(m []Match) {
	sort.SliceStable(m, func(i, j int) bool {
		return len(m[i].Spelling) > len(m[j].Spelling)
	})
}

// Lookup returns the language registered under code.
func Lookup(code string) (*Language, bool) {
	lang, ok := table[code]
	return lang, ok
}

// Default returns the English table entry.
func Default() *Language {
	return table[DefaultCode]
}

// All returns every language, sorted by code.
func All() []*Language {
	out := make([]*Language, 0, len(codes))
	for _, code := range codes {
		out = append(out, table[code])
	}
	return out
}

// MatchStructural reports whether line starts with a structural keyword
// followed by a colon, returning the role and the trimmed text after the colon.
func (l *Language) MatchStructural(line string) (Role, string, bool) {
	for _, m := range l.structural {
		if !strings.HasPrefix(line, m.Spelling) {
			continue
		}
		rest := line[len(m.Spelling):]
		if strings.HasPrefix(rest, ":") {
			return m.Role, strings.TrimSpace(rest[1:]), true
		}
	}
	return 0, "", false
}

// MatchStep reports whether line starts with a step keyword. The wildcard
// is reported with ok set and wildcard true; role is then meaningless. A
// line holding only a keyword matches with empty text.
func (l *Language) MatchStep(line string) (role Role, text string, wildcard bool, ok bool) {
	padded := line + " "
	if strings.HasPrefix(padded, Wildcard) {
		return 0, strings.TrimSpace(padded[len(Wildcard):]), true, true
	}
	for _, m := range l.steps {
		if strings.HasPrefix(padded, m.Spelling) {
			return m.Role, strings.TrimSpace(padded[len(m.Spelling):]), false, true
		}
	}
	return 0, "", false, false
}

// Keyword returns the spelling used when writing role back out: the first
// registered spelling that matches back to the same role. Structural
// spellings are returned without the colon.
func (l *Language) Keyword(role Role) string {
	spellings := l.Keywords.Spellings(role)
	for _, s := range spellings {
		if l.resolves(role, s) {
			if role >= RoleGiven {
				return s
			}
			return strings.TrimSpace(s)
		}
	}
	if len(spellings) > 0 {
		return spellings[0]
	}
	return ""
}

func (l *Language) resolves(role Role, spelling string) bool {
	if role < RoleGiven {
		got, _, ok := l.MatchStructural(strings.TrimSpace(spelling) + ": x")
		return ok && got == role
	}
	got, _, wildcard, ok := l.MatchStep(spelling + "x")
	return ok && !wildcard && got == role
}
