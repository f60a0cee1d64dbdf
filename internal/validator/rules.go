package validator

import (
	"regexp"

	"github.com/chriserin/gherkin-gen/internal/gherkin"
)

// StructureRule requires every scenario and outline to have a step that
// resolves to Given and one that resolves to Then. Backgrounds are exempt.
type StructureRule struct{}

func (StructureRule) Name() string { return "structure" }

func (StructureRule) Validate(doc *gherkin.Document) []Error {
	var errs []Error
	for _, o := range owners(doc) {
		if !o.isTest {
			continue
		}
		var hasGiven, hasThen bool
		for _, role := range gherkin.ResolveRoles(o.steps) {
			switch role {
			case gherkin.Given:
				hasGiven = true
			case gherkin.Then:
				hasThen = true
			}
		}
		if !hasGiven {
			errs = append(errs, MissingGiven(o.title))
		}
		if !hasThen {
			errs = append(errs, MissingThen(o.title))
		}
	}
	return errs
}

// CoherenceRule flags adjacent steps written with the same keyword and the
// same text. Keywords compare as written, so And after Given never matches.
// A run of N identical steps yields N-1 findings.
type CoherenceRule struct{}

func (CoherenceRule) Name() string { return "coherence" }

func (CoherenceRule) Validate(doc *gherkin.Document) []Error {
	var errs []Error
	for _, o := range owners(doc) {
		for i := 1; i < len(o.steps); i++ {
			prev, cur := o.steps[i-1], o.steps[i]
			if prev.Keyword != cur.Keyword || prev.Text != cur.Text {
				continue
			}
			if o.isTest {
				errs = append(errs, DuplicateConsecutiveStep(cur.Text, o.title))
			} else {
				errs = append(errs, DuplicateBackgroundStep(cur.Text, o.title))
			}
		}
	}
	return errs
}

// TagFormatRule rejects empty tags and tags containing whitespace.
type TagFormatRule struct{}

func (TagFormatRule) Name() string { return "tag-format" }

func (TagFormatRule) Validate(doc *gherkin.Document) []Error {
	var errs []Error
	for _, t := range tags(doc) {
		if !t.Valid() {
			errs = append(errs, InvalidTagFormat(t.String()))
		}
	}
	return errs
}

// TableConsistencyRule checks every data row against the header width and
// reports empty cells. Rows are numbered from zero after the header.
type TableConsistencyRule struct{}

func (TableConsistencyRule) Name() string { return "table-consistency" }

func (TableConsistencyRule) Validate(doc *gherkin.Document) []Error {
	var errs []Error
	for _, table := range tables(doc) {
		width := len(table.Header())
		for row, cells := range table.DataRows() {
			if len(cells) != width {
				errs = append(errs, InconsistentTableColumns(width, len(cells), row))
			}
			for col, cell := range cells {
				if cell == "" {
					errs = append(errs, EmptyTableCell(row, col))
				}
			}
		}
	}
	return errs
}

var placeholderPattern = regexp.MustCompile(`<([^<>]+)>`)

// OutlinePlaceholderRule requires every <name> used in an outline's steps to
// be a column of at least one of its Examples tables.
type OutlinePlaceholderRule struct{}

func (OutlinePlaceholderRule) Name() string { return "outline-placeholder" }

func (OutlinePlaceholderRule) Validate(doc *gherkin.Document) []Error {
	var errs []Error
	for _, o := range owners(doc) {
		if o.outline == nil {
			continue
		}
		defined := make(map[string]bool)
		for _, ex := range o.outline.Examples {
			for _, col := range ex.Table.Header() {
				defined[col] = true
			}
		}
		reported := make(map[string]bool)
		for _, name := range placeholders(o.outline.Steps) {
			if defined[name] || reported[name] {
				continue
			}
			reported[name] = true
			errs = append(errs, UndefinedPlaceholder(name, o.title))
		}
	}
	return errs
}

// placeholders returns the <name> tokens referenced in step texts, in first
// reference order.
func placeholders(steps []gherkin.Step) []string {
	var names []string
	for _, s := range steps {
		for _, m := range placeholderPattern.FindAllStringSubmatch(s.Text, -1) {
			names = append(names, m[1])
		}
	}
	return names
}
