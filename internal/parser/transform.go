package parser

import "github.com/chriserin/gherkin-gen/internal/gherkin"

// Scenario kinds recorded in the catalog.
const (
	KindScenario = "scenario"
	KindOutline  = "outline"
)

// ParsedFile is the flat catalog view of a parsed document.
type ParsedFile struct {
	Name      string // Feature title
	Language  string // language code
	Scenarios []ParsedScenario
}

// ParsedScenario is one Scenario or Scenario Outline, wherever it is nested.
type ParsedScenario struct {
	Kind     string
	Title    string
	Rule     string // enclosing Rule title, empty at the top level
	Tags     []string
	Steps    int
	Examples int // data rows across all Examples tables
}

// Transform flattens doc into a ParsedFile. Scenarios appear in source
// order; those inside a Rule carry its title.
func Transform(doc *gherkin.Document) *ParsedFile {
	pf := &ParsedFile{
		Name:     doc.Title,
		Language: doc.Lang().Code,
	}

	for _, c := range doc.Children {
		switch c := c.(type) {
		case *gherkin.Rule:
			for _, rc := range c.Children {
				pf.Scenarios = append(pf.Scenarios, flatten(rc, c.Title))
			}
		case gherkin.RuleChild:
			pf.Scenarios = append(pf.Scenarios, flatten(c, ""))
		}
	}
	return pf
}

func flatten(c gherkin.RuleChild, rule string) ParsedScenario {
	switch c := c.(type) {
	case *gherkin.ScenarioOutline:
		ps := ParsedScenario{
			Kind:  KindOutline,
			Title: c.Title,
			Rule:  rule,
			Tags:  tagNames(c.Tags),
			Steps: len(c.Steps),
		}
		for _, ex := range c.Examples {
			ps.Examples += len(ex.Table.DataRows())
		}
		return ps
	case *gherkin.Scenario:
		return ParsedScenario{
			Kind:  KindScenario,
			Title: c.Title,
			Rule:  rule,
			Tags:  tagNames(c.Tags),
			Steps: len(c.Steps),
		}
	}
	return ParsedScenario{}
}

func tagNames(tags []gherkin.Tag) []string {
	var names []string
	for _, t := range tags {
		names = append(names, t.String())
	}
	return names
}
