package validator

import (
	"fmt"
	"strings"
)

// Kind enumerates the findings a rule can report.
type Kind int

const (
	KindMissingGiven Kind = iota
	KindMissingThen
	KindDuplicateConsecutiveStep
	KindInvalidTagFormat
	KindInconsistentTableColumns
	KindEmptyTableCell
	KindUndefinedPlaceholder
)

var kindNames = [...]string{
	"missingGiven",
	"missingThen",
	"duplicateConsecutiveStep",
	"invalidTagFormat",
	"inconsistentTableColumns",
	"emptyTableCell",
	"undefinedPlaceholder",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Error is a single finding. Only the fields meaningful for Kind are set,
// so two findings compare equal with == exactly when they describe the
// same defect.
type Error struct {
	Kind Kind

	Scenario    string // scenario, outline or owning node title
	Background  bool   // Scenario names the owner of a Background
	Step        string
	Tag         string
	Placeholder string

	Expected int
	Found    int
	Row      int // zero-based among data rows
	Column   int
}

func MissingGiven(scenario string) Error {
	return Error{Kind: KindMissingGiven, Scenario: scenario}
}

func MissingThen(scenario string) Error {
	return Error{Kind: KindMissingThen, Scenario: scenario}
}

// DuplicateConsecutiveStep reports step text repeated with the same keyword
// on adjacent lines of owner.
func DuplicateConsecutiveStep(step, owner string) Error {
	return Error{Kind: KindDuplicateConsecutiveStep, Step: step, Scenario: owner}
}

// DuplicateBackgroundStep is DuplicateConsecutiveStep for a Background, where
// owner is the Background name or the title of its Feature or Rule.
func DuplicateBackgroundStep(step, owner string) Error {
	return Error{Kind: KindDuplicateConsecutiveStep, Step: step, Scenario: owner, Background: true}
}

// InvalidTagFormat takes the rendered tag, marker included.
func InvalidTagFormat(tag string) Error {
	return Error{Kind: KindInvalidTagFormat, Tag: tag}
}

func InconsistentTableColumns(expected, found, row int) Error {
	return Error{Kind: KindInconsistentTableColumns, Expected: expected, Found: found, Row: row}
}

func EmptyTableCell(row, column int) Error {
	return Error{Kind: KindEmptyTableCell, Row: row, Column: column}
}

func UndefinedPlaceholder(name, outline string) Error {
	return Error{Kind: KindUndefinedPlaceholder, Placeholder: name, Scenario: outline}
}

func (e Error) Error() string {
	switch e.Kind {
	case KindMissingGiven:
		return fmt.Sprintf("scenario %q has no Given step", e.Scenario)
	case KindMissingThen:
		return fmt.Sprintf("scenario %q has no Then step", e.Scenario)
	case KindDuplicateConsecutiveStep:
		return fmt.Sprintf("step %q is repeated consecutively in %q", e.Step, e.Scenario)
	case KindInvalidTagFormat:
		return fmt.Sprintf("invalid tag %q: tags must be non-empty and contain no whitespace", e.Tag)
	case KindInconsistentTableColumns:
		return fmt.Sprintf("table row %d has %d cells, expected %d", e.Row, e.Found, e.Expected)
	case KindEmptyTableCell:
		return fmt.Sprintf("table row %d, column %d is empty", e.Row, e.Column)
	case KindUndefinedPlaceholder:
		return fmt.Sprintf("placeholder <%s> in outline %q is not defined by any Examples table", e.Placeholder, e.Scenario)
	default:
		return "unknown validation error"
	}
}

// AggregateError carries every finding of a failed Validate call, in the
// order CollectErrors produced them.
type AggregateError struct {
	Errors []Error
}

// First returns the earliest finding.
func (e *AggregateError) First() Error {
	return e.Errors[0]
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d validation errors: %s", len(e.Errors), strings.Join(msgs, "; "))
}

func (e *AggregateError) Unwrap() []error {
	out := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		out[i] = err
	}
	return out
}
