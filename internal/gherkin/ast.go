// Package gherkin defines the document tree produced by the parser and read
// by the validator and the exporters. Nothing in this package mutates a tree
// after it has been built.
package gherkin

import (
	"strings"
	"unicode"

	"github.com/chriserin/gherkin-gen/internal/language"
)

// TagMarker prefixes every tag in source text.
const TagMarker = "@"

// Document is the root of a parsed .feature file: exactly one Feature.
type Document struct {
	Language    *language.Language
	Title       string
	Description string
	Tags        []Tag
	Background  *Background
	Children    []Child
}

// Lang returns the document language, falling back to English.
func (d *Document) Lang() *language.Language {
	if d.Language == nil {
		return language.Default()
	}
	return d.Language
}

// Scenarios returns the top-level scenarios in source order.
func (d *Document) Scenarios() []*Scenario {
	var out []*Scenario
	for _, c := range d.Children {
		if s, ok := c.(*Scenario); ok {
			out = append(out, s)
		}
	}
	return out
}

// Outlines returns the top-level scenario outlines in source order.
func (d *Document) Outlines() []*ScenarioOutline {
	var out []*ScenarioOutline
	for _, c := range d.Children {
		if o, ok := c.(*ScenarioOutline); ok {
			out = append(out, o)
		}
	}
	return out
}

// Rules returns the rules in source order.
func (d *Document) Rules() []*Rule {
	var out []*Rule
	for _, c := range d.Children {
		if r, ok := c.(*Rule); ok {
			out = append(out, r)
		}
	}
	return out
}

// Tag is a label such as @smoke. Name excludes the marker.
type Tag struct {
	Name string
}

func (t Tag) String() string {
	return TagMarker + t.Name
}

// Valid reports whether the name is non-empty and free of whitespace.
func (t Tag) Valid() bool {
	return t.Name != "" && !strings.ContainsFunc(t.Name, unicode.IsSpace)
}

// Child is one of *Scenario, *ScenarioOutline or *Rule.
type Child interface {
	child()
}

// RuleChild is one of *Scenario or *ScenarioOutline.
type RuleChild interface {
	Child
	ruleChild()
}

type Background struct {
	Name  string
	Steps []Step
}

type Scenario struct {
	Title       string
	Tags        []Tag
	Description string
	Steps       []Step
}

type ScenarioOutline struct {
	Title       string
	Tags        []Tag
	Description string
	Steps       []Step
	Examples    []Examples
}

type Examples struct {
	Name  string
	Tags  []Tag
	Table DataTable
}

type Rule struct {
	Title       string
	Tags        []Tag
	Description string
	Background  *Background
	Children    []RuleChild
}

func (*Scenario) child()            {}
func (*Scenario) ruleChild()        {}
func (*ScenarioOutline) child()     {}
func (*ScenarioOutline) ruleChild() {}
func (*Rule) child()                {}

// DataTable holds rows of cells. When non-empty the first row is the header.
type DataTable struct {
	Rows [][]string
}

// Header returns the first row, or nil for an empty table.
func (t DataTable) Header() []string {
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[0]
}

// DataRows returns every row after the header.
func (t DataTable) DataRows() [][]string {
	if len(t.Rows) < 2 {
		return nil
	}
	return t.Rows[1:]
}

// DocString is a multi-line step argument. MediaType is optional.
type DocString struct {
	Content   string
	MediaType string
}
