// Package validator checks a parsed document for structural and semantic
// defects the grammar alone cannot catch.
//
// Each check is a Rule: a pure function of the document. A Validator runs an
// ordered list of rules and concatenates their findings in rule order.
package validator

import (
	"fmt"
	"strings"

	"github.com/chriserin/gherkin-gen/internal/gherkin"
)

// Rule is one independent check.
type Rule interface {
	Name() string
	Validate(doc *gherkin.Document) []Error
}

// DefaultRules returns a fresh copy of the standard rule set, in order.
func DefaultRules() []Rule {
	return []Rule{
		StructureRule{},
		CoherenceRule{},
		TagFormatRule{},
		TableConsistencyRule{},
		OutlinePlaceholderRule{},
	}
}

// RuleNames lists the names accepted by RulesByName, in default order.
func RuleNames() []string {
	var names []string
	for _, r := range DefaultRules() {
		names = append(names, r.Name())
	}
	return names
}

// RulesByName resolves names to rules, keeping the given order. No names
// means the default set.
func RulesByName(names []string) ([]Rule, error) {
	if len(names) == 0 {
		return DefaultRules(), nil
	}
	byName := make(map[string]Rule)
	for _, r := range DefaultRules() {
		byName[r.Name()] = r
	}
	var rules []Rule
	for _, name := range names {
		r, ok := byName[strings.TrimSpace(name)]
		if !ok {
			return nil, fmt.Errorf("unknown rule %q (known: %s)", name, strings.Join(RuleNames(), ", "))
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// Validator runs a fixed list of rules. It holds no state between calls and
// may be shared across goroutines.
type Validator struct {
	rules []Rule
}

// New returns a Validator for rules, or for DefaultRules when none are given.
func New(rules ...Rule) *Validator {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Validator{rules: rules}
}

// Rules returns the configured rules.
func (v *Validator) Rules() []Rule {
	return v.rules
}

// CollectErrors runs every rule and returns all findings.
func (v *Validator) CollectErrors(doc *gherkin.Document) []Error {
	var errs []Error
	for _, r := range v.rules {
		errs = append(errs, r.Validate(doc)...)
	}
	return errs
}

// Validate returns nil for a clean document, otherwise an *AggregateError
// holding every finding.
func (v *Validator) Validate(doc *gherkin.Document) error {
	errs := v.CollectErrors(doc)
	if len(errs) == 0 {
		return nil
	}
	return &AggregateError{Errors: errs}
}

// CollectErrors runs rules, or the default set, over doc.
func CollectErrors(doc *gherkin.Document, rules ...Rule) []Error {
	return New(rules...).CollectErrors(doc)
}

// Validate runs rules, or the default set, over doc.
func Validate(doc *gherkin.Document, rules ...Rule) error {
	return New(rules...).Validate(doc)
}
