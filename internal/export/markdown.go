package export

import (
	"strings"

	"github.com/chriserin/gherkin-gen/internal/gherkin"
)

// RenderMarkdown renders a readable projection of doc. Headings, step
// keywords and section names are always English. The output is stable but
// cannot be parsed back.
func RenderMarkdown(doc *gherkin.Document) string {
	var lines []string
	add := func(l ...string) { lines = append(lines, l...) }

	add(markdownTags(doc.Tags)...)
	add("# Feature: "+doc.Title, "")
	if doc.Description != "" {
		add(doc.Description, "")
	}
	if doc.Background != nil {
		add(markdownBackground(doc.Background)...)
	}
	for _, c := range doc.Children {
		add(markdownChild(c)...)
	}
	return strings.Join(lines, "\n") + "\n"
}

func markdownTags(tags []gherkin.Tag) []string {
	if len(tags) == 0 {
		return nil
	}
	spans := make([]string, len(tags))
	for i, t := range tags {
		spans[i] = "`" + t.String() + "`"
	}
	return []string{strings.Join(spans, " "), ""}
}

func markdownHeading(level, keyword, text string) string {
	if text == "" {
		return level + " " + keyword
	}
	return level + " " + keyword + ": " + text
}

func markdownBackground(bg *gherkin.Background) []string {
	lines := []string{markdownHeading("###", "Background", bg.Name), ""}
	lines = append(lines, markdownSteps(bg.Steps)...)
	return append(lines, "")
}

func markdownChild(c gherkin.Child) []string {
	var lines []string
	switch c := c.(type) {
	case *gherkin.Scenario:
		lines = append(lines, markdownTags(c.Tags)...)
		lines = append(lines, markdownHeading("##", "Scenario", c.Title), "")
		if c.Description != "" {
			lines = append(lines, c.Description, "")
		}
		lines = append(lines, markdownSteps(c.Steps)...)
		lines = append(lines, "")
	case *gherkin.ScenarioOutline:
		lines = append(lines, markdownTags(c.Tags)...)
		lines = append(lines, markdownHeading("##", "Scenario Outline", c.Title), "")
		if c.Description != "" {
			lines = append(lines, c.Description, "")
		}
		lines = append(lines, markdownSteps(c.Steps)...)
		lines = append(lines, "")
		for _, ex := range c.Examples {
			lines = append(lines, markdownTags(ex.Tags)...)
			lines = append(lines, markdownHeading("###", "Examples", ex.Name), "")
			lines = append(lines, markdownTable(ex.Table)...)
			lines = append(lines, "")
		}
	case *gherkin.Rule:
		lines = append(lines, markdownTags(c.Tags)...)
		lines = append(lines, markdownHeading("##", "Rule", c.Title), "")
		if c.Description != "" {
			lines = append(lines, c.Description, "")
		}
		if c.Background != nil {
			lines = append(lines, markdownBackground(c.Background)...)
		}
		for _, rc := range c.Children {
			lines = append(lines, markdownChild(rc)...)
		}
	}
	return lines
}

var markdownKeywords = map[gherkin.StepKeyword]string{
	gherkin.Given:    "Given",
	gherkin.When:     "When",
	gherkin.Then:     "Then",
	gherkin.And:      "And",
	gherkin.But:      "But",
	gherkin.Wildcard: "*",
}

func markdownSteps(steps []gherkin.Step) []string {
	var lines []string
	for _, s := range steps {
		lines = append(lines, "- **"+markdownKeywords[s.Keyword]+"** "+s.Text)
		if s.DataTable != nil {
			lines = append(lines, "")
			lines = append(lines, markdownTable(*s.DataTable)...)
		}
		if s.DocString != nil {
			lines = append(lines, "", "```"+s.DocString.MediaType, s.DocString.Content, "```")
		}
	}
	return lines
}

var markdownCellEscaper = strings.NewReplacer(`|`, `\|`, "\n", "<br>")

// markdownTable renders the header, a dash separator at least three wide
// per column, and the data rows. An empty table renders nothing.
func markdownTable(t gherkin.DataTable) []string {
	header := t.Header()
	if header == nil {
		return nil
	}
	row := func(cells []string) string {
		escaped := make([]string, len(cells))
		for i, c := range cells {
			escaped[i] = markdownCellEscaper.Replace(c)
		}
		return "| " + strings.Join(escaped, " | ") + " |"
	}

	lines := []string{row(header)}
	dashes := make([]string, len(header))
	for i, h := range header {
		dashes[i] = strings.Repeat("-", max(len([]rune(h)), 3))
	}
	lines = append(lines, "| "+strings.Join(dashes, " | ")+" |")
	for _, r := range t.DataRows() {
		lines = append(lines, row(r))
	}
	return lines
}
