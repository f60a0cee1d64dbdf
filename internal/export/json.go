package export

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/chriserin/gherkin-gen/internal/gherkin"
	"github.com/chriserin/gherkin-gen/internal/language"
)

// Wire types. Fields are declared in alphabetical JSON-key order so the
// encoder emits sorted keys.

type jsonDocument struct {
	Background  *jsonBackground `json:"background,omitempty"`
	Children    []jsonChild     `json:"children"`
	Description string          `json:"description,omitempty"`
	Language    string          `json:"language"`
	Tags        []string        `json:"tags"`
	Title       string          `json:"title"`
}

// jsonChild holds exactly one variant.
type jsonChild struct {
	Outline  *jsonOutline  `json:"outline,omitempty"`
	Rule     *jsonRule     `json:"rule,omitempty"`
	Scenario *jsonScenario `json:"scenario,omitempty"`
}

type jsonBackground struct {
	Name  string     `json:"name,omitempty"`
	Steps []jsonStep `json:"steps"`
}

type jsonScenario struct {
	Description string     `json:"description,omitempty"`
	Steps       []jsonStep `json:"steps"`
	Tags        []string   `json:"tags"`
	Title       string     `json:"title"`
}

type jsonOutline struct {
	Description string         `json:"description,omitempty"`
	Examples    []jsonExamples `json:"examples"`
	Steps       []jsonStep     `json:"steps"`
	Tags        []string       `json:"tags"`
	Title       string         `json:"title"`
}

type jsonExamples struct {
	Name  string    `json:"name,omitempty"`
	Table jsonTable `json:"table"`
	Tags  []string  `json:"tags"`
}

type jsonRule struct {
	Background  *jsonBackground `json:"background,omitempty"`
	Children    []jsonChild     `json:"children"`
	Description string          `json:"description,omitempty"`
	Tags        []string        `json:"tags"`
	Title       string          `json:"title"`
}

type jsonStep struct {
	DataTable *jsonTable     `json:"dataTable,omitempty"`
	DocString *jsonDocString `json:"docString,omitempty"`
	Keyword   string         `json:"keyword"`
	Text      string         `json:"text"`
}

type jsonTable struct {
	Rows [][]string `json:"rows"`
}

type jsonDocString struct {
	Content   string `json:"content"`
	MediaType string `json:"mediaType,omitempty"`
}

// EncodeJSON renders doc as indented JSON with sorted keys and without
// HTML escaping. The output ends with a newline.
func EncodeJSON(doc *gherkin.Document) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toJSONDocument(doc)); err != nil {
		return "", fmt.Errorf("encoding json: %w", err)
	}
	return buf.String(), nil
}

// DecodeJSON rebuilds a document from EncodeJSON output.
func DecodeJSON(data []byte) (*gherkin.Document, error) {
	var wire jsonDocument
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decoding json: %w", err)
	}

	lang := language.Default()
	if wire.Language != "" {
		found, ok := language.Lookup(wire.Language)
		if !ok {
			return nil, fmt.Errorf("decoding json: unknown language %q", wire.Language)
		}
		lang = found
	}
	if wire.Title == "" {
		return nil, errors.New("decoding json: feature title is empty")
	}

	doc := &gherkin.Document{
		Language:    lang,
		Title:       wire.Title,
		Description: wire.Description,
		Tags:        fromJSONTags(wire.Tags),
	}
	var err error
	if doc.Background, err = fromJSONBackground(wire.Background); err != nil {
		return nil, fmt.Errorf("decoding json: background: %w", err)
	}
	seenRule := false
	for i, c := range wire.Children {
		child, err := fromJSONChild(c, true)
		if err != nil {
			return nil, fmt.Errorf("decoding json: child %d: %w", i, err)
		}
		// Feature text cannot return to the Feature level once a Rule opens.
		_, isRule := child.(*gherkin.Rule)
		if seenRule && !isRule {
			return nil, fmt.Errorf("decoding json: child %d: scenario follows a rule", i)
		}
		seenRule = seenRule || isRule
		doc.Children = append(doc.Children, child)
	}
	return doc, nil
}

func toJSONDocument(doc *gherkin.Document) jsonDocument {
	out := jsonDocument{
		Background:  toJSONBackground(doc.Background),
		Children:    []jsonChild{},
		Description: doc.Description,
		Language:    doc.Lang().Code,
		Tags:        toJSONTags(doc.Tags),
		Title:       doc.Title,
	}
	for _, c := range doc.Children {
		out.Children = append(out.Children, toJSONChild(c))
	}
	return out
}

func toJSONChild(c gherkin.Child) jsonChild {
	switch c := c.(type) {
	case *gherkin.Scenario:
		return jsonChild{Scenario: &jsonScenario{
			Description: c.Description,
			Steps:       toJSONSteps(c.Steps),
			Tags:        toJSONTags(c.Tags),
			Title:       c.Title,
		}}
	case *gherkin.ScenarioOutline:
		o := &jsonOutline{
			Description: c.Description,
			Examples:    []jsonExamples{},
			Steps:       toJSONSteps(c.Steps),
			Tags:        toJSONTags(c.Tags),
			Title:       c.Title,
		}
		for _, ex := range c.Examples {
			o.Examples = append(o.Examples, jsonExamples{
				Name:  ex.Name,
				Table: toJSONTable(ex.Table),
				Tags:  toJSONTags(ex.Tags),
			})
		}
		return jsonChild{Outline: o}
	case *gherkin.Rule:
		r := &jsonRule{
			Background:  toJSONBackground(c.Background),
			Children:    []jsonChild{},
			Description: c.Description,
			Tags:        toJSONTags(c.Tags),
			Title:       c.Title,
		}
		for _, rc := range c.Children {
			r.Children = append(r.Children, toJSONChild(rc))
		}
		return jsonChild{Rule: r}
	}
	return jsonChild{}
}

func toJSONBackground(bg *gherkin.Background) *jsonBackground {
	if bg == nil {
		return nil
	}
	return &jsonBackground{Name: bg.Name, Steps: toJSONSteps(bg.Steps)}
}

func toJSONSteps(steps []gherkin.Step) []jsonStep {
	out := make([]jsonStep, 0, len(steps))
	for _, s := range steps {
		js := jsonStep{Keyword: s.Keyword.String(), Text: s.Text}
		if s.DataTable != nil {
			t := toJSONTable(*s.DataTable)
			js.DataTable = &t
		}
		if s.DocString != nil {
			js.DocString = &jsonDocString{Content: s.DocString.Content, MediaType: s.DocString.MediaType}
		}
		out = append(out, js)
	}
	return out
}

func toJSONTable(t gherkin.DataTable) jsonTable {
	rows := make([][]string, 0, len(t.Rows))
	rows = append(rows, t.Rows...)
	return jsonTable{Rows: rows}
}

func toJSONTags(tags []gherkin.Tag) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.Name)
	}
	return out
}

// The decoders below map empty JSON arrays back to nil slices, matching
// what the parser produces.

func fromJSONChild(c jsonChild, allowRule bool) (gherkin.Child, error) {
	set := 0
	for _, present := range []bool{c.Scenario != nil, c.Outline != nil, c.Rule != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("expected exactly one of scenario, outline or rule, found %d", set)
	}

	switch {
	case c.Scenario != nil:
		if c.Scenario.Title == "" {
			return nil, errors.New("scenario title is empty")
		}
		steps, err := fromJSONSteps(c.Scenario.Steps)
		if err != nil {
			return nil, err
		}
		return &gherkin.Scenario{
			Title:       c.Scenario.Title,
			Tags:        fromJSONTags(c.Scenario.Tags),
			Description: c.Scenario.Description,
			Steps:       steps,
		}, nil
	case c.Outline != nil:
		if c.Outline.Title == "" {
			return nil, errors.New("outline title is empty")
		}
		steps, err := fromJSONSteps(c.Outline.Steps)
		if err != nil {
			return nil, err
		}
		o := &gherkin.ScenarioOutline{
			Title:       c.Outline.Title,
			Tags:        fromJSONTags(c.Outline.Tags),
			Description: c.Outline.Description,
			Steps:       steps,
		}
		for i, ex := range c.Outline.Examples {
			if len(ex.Table.Rows) == 0 {
				return nil, fmt.Errorf("examples %d: table has no rows", i)
			}
			o.Examples = append(o.Examples, gherkin.Examples{
				Name:  ex.Name,
				Tags:  fromJSONTags(ex.Tags),
				Table: fromJSONTable(ex.Table),
			})
		}
		return o, nil
	default:
		if !allowRule {
			return nil, errors.New("a rule cannot contain another rule")
		}
		if c.Rule.Title == "" {
			return nil, errors.New("rule title is empty")
		}
		bg, err := fromJSONBackground(c.Rule.Background)
		if err != nil {
			return nil, fmt.Errorf("background: %w", err)
		}
		r := &gherkin.Rule{
			Title:       c.Rule.Title,
			Tags:        fromJSONTags(c.Rule.Tags),
			Description: c.Rule.Description,
			Background:  bg,
		}
		for i, rc := range c.Rule.Children {
			child, err := fromJSONChild(rc, false)
			if err != nil {
				return nil, fmt.Errorf("child %d: %w", i, err)
			}
			r.Children = append(r.Children, child.(gherkin.RuleChild))
		}
		return r, nil
	}
}

func fromJSONBackground(bg *jsonBackground) (*gherkin.Background, error) {
	if bg == nil {
		return nil, nil
	}
	steps, err := fromJSONSteps(bg.Steps)
	if err != nil {
		return nil, err
	}
	return &gherkin.Background{Name: bg.Name, Steps: steps}, nil
}

func fromJSONSteps(steps []jsonStep) ([]gherkin.Step, error) {
	var out []gherkin.Step
	for i, s := range steps {
		kw, err := gherkin.ParseStepKeyword(s.Keyword)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		switch {
		case strings.TrimSpace(s.Text) == "":
			return nil, fmt.Errorf("step %d: text is empty", i)
		case s.DataTable != nil && s.DocString != nil:
			return nil, fmt.Errorf("step %d: has both a data table and a doc string", i)
		case s.DataTable != nil && len(s.DataTable.Rows) == 0:
			return nil, fmt.Errorf("step %d: data table has no rows", i)
		}
		step := gherkin.Step{Keyword: kw, Text: s.Text}
		if s.DataTable != nil {
			t := fromJSONTable(*s.DataTable)
			step.DataTable = &t
		}
		if s.DocString != nil {
			step.DocString = &gherkin.DocString{Content: s.DocString.Content, MediaType: s.DocString.MediaType}
		}
		out = append(out, step)
	}
	return out, nil
}

func fromJSONTable(t jsonTable) gherkin.DataTable {
	if len(t.Rows) == 0 {
		return gherkin.DataTable{}
	}
	return gherkin.DataTable{Rows: t.Rows}
}

func fromJSONTags(names []string) []gherkin.Tag {
	var out []gherkin.Tag
	for _, n := range names {
		out = append(out, gherkin.Tag{Name: n})
	}
	return out
}
