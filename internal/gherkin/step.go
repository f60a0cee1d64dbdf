package gherkin

import (
	"fmt"

	"github.com/chriserin/gherkin-gen/internal/language"
)

// StepKeyword is the raw keyword a step was written with.
type StepKeyword int

const (
	Given StepKeyword = iota
	When
	Then
	And
	But
	Wildcard
)

var stepKeywordNames = [...]string{"given", "when", "then", "and", "but", "wildcard"}

func (k StepKeyword) String() string {
	if k >= 0 && int(k) < len(stepKeywordNames) {
		return stepKeywordNames[k]
	}
	return "unknown"
}

// ParseStepKeyword is the inverse of String.
func ParseStepKeyword(s string) (StepKeyword, error) {
	for i, name := range stepKeywordNames {
		if name == s {
			return StepKeyword(i), nil
		}
	}
	return 0, fmt.Errorf("unknown step keyword %q", s)
}

// Primary reports whether the keyword carries its own meaning.
func (k StepKeyword) Primary() bool {
	return k == Given || k == When || k == Then
}

// Role maps the keyword to its language table role. Wildcard has none.
func (k StepKeyword) Role() (language.Role, bool) {
	switch k {
	case Given:
		return language.RoleGiven, true
	case When:
		return language.RoleWhen, true
	case Then:
		return language.RoleThen, true
	case And:
		return language.RoleAnd, true
	case But:
		return language.RoleBut, true
	default:
		return 0, false
	}
}

// KeywordForRole maps a language step role back to a StepKeyword.
func KeywordForRole(r language.Role) (StepKeyword, bool) {
	switch r {
	case language.RoleGiven:
		return Given, true
	case language.RoleWhen:
		return When, true
	case language.RoleThen:
		return Then, true
	case language.RoleAnd:
		return And, true
	case language.RoleBut:
		return But, true
	default:
		return 0, false
	}
}

// Step is one line of a scenario. At most one of DataTable and DocString is set.
type Step struct {
	Keyword   StepKeyword
	Text      string
	DataTable *DataTable
	DocString *DocString
}

// ResolveRoles returns, for each step, the primary keyword it stands for.
// And, But and * take the role of the nearest preceding primary step; before
// any primary step they keep their own keyword.
func ResolveRoles(steps []Step) []StepKeyword {
	roles := make([]StepKeyword, len(steps))
	current, seen := Given, false
	for i, s := range steps {
		if s.Keyword.Primary() {
			current, seen = s.Keyword, true
		}
		if seen {
			roles[i] = current
		} else {
			roles[i] = s.Keyword
		}
	}
	return roles
}
