package validator

import "github.com/chriserin/gherkin-gen/internal/gherkin"

// stepOwner is any node that carries a run of steps.
type stepOwner struct {
	title   string
	steps   []gherkin.Step
	outline *gherkin.ScenarioOutline
	isTest  bool // scenario or outline, as opposed to a background
}

// owners lists every step-bearing node in encounter order: the Feature
// background, then each child, with a Rule contributing its background
// followed by its own children.
func owners(doc *gherkin.Document) []stepOwner {
	var out []stepOwner
	if doc.Background != nil {
		out = append(out, backgroundOwner(doc.Background, doc.Title))
	}
	for _, c := range doc.Children {
		switch c := c.(type) {
		case *gherkin.Rule:
			if c.Background != nil {
				out = append(out, backgroundOwner(c.Background, c.Title))
			}
			for _, rc := range c.Children {
				out = append(out, testOwner(rc))
			}
		case gherkin.RuleChild:
			out = append(out, testOwner(c))
		}
	}
	return out
}

// backgroundOwner names an unnamed background after its parent.
func backgroundOwner(bg *gherkin.Background, parent string) stepOwner {
	title := bg.Name
	if title == "" {
		title = parent
	}
	return stepOwner{title: title, steps: bg.Steps}
}

func testOwner(c gherkin.RuleChild) stepOwner {
	switch c := c.(type) {
	case *gherkin.Scenario:
		return stepOwner{title: c.Title, steps: c.Steps, isTest: true}
	case *gherkin.ScenarioOutline:
		return stepOwner{title: c.Title, steps: c.Steps, outline: c, isTest: true}
	}
	return stepOwner{}
}

// tables lists every data table in encounter order: step tables in the
// order owners visits them, with an outline's Examples tables after its steps.
func tables(doc *gherkin.Document) []gherkin.DataTable {
	var out []gherkin.DataTable
	for _, o := range owners(doc) {
		for _, s := range o.steps {
			if s.DataTable != nil {
				out = append(out, *s.DataTable)
			}
		}
		if o.outline != nil {
			for _, ex := range o.outline.Examples {
				out = append(out, ex.Table)
			}
		}
	}
	return out
}

// tags lists every tag in encounter order: Feature, then each child, with
// an outline's Examples tags after its own and a Rule's tags before its
// children.
func tags(doc *gherkin.Document) []gherkin.Tag {
	out := append([]gherkin.Tag(nil), doc.Tags...)
	var visit func(c gherkin.Child)
	visit = func(c gherkin.Child) {
		switch c := c.(type) {
		case *gherkin.Scenario:
			out = append(out, c.Tags...)
		case *gherkin.ScenarioOutline:
			out = append(out, c.Tags...)
			for _, ex := range c.Examples {
				out = append(out, ex.Tags...)
			}
		case *gherkin.Rule:
			out = append(out, c.Tags...)
			for _, rc := range c.Children {
				visit(rc)
			}
		}
	}
	for _, c := range doc.Children {
		visit(c)
	}
	return out
}
