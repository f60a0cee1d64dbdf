package export

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/chriserin/gherkin-gen/internal/gherkin"
	"github.com/chriserin/gherkin-gen/internal/language"
)

const indentUnit = "  "

// FormatDocument renders doc as canonical .feature text in the document's
// own language. Parsing the result yields a document equal to doc, and
// formatting that document again yields the same bytes.
func FormatDocument(doc *gherkin.Document) string {
	lang := doc.Lang()
	w := &featureWriter{lang: lang}

	if lang.Code != language.DefaultCode {
		w.line(0, "# language: "+lang.Code)
	}
	w.tags(0, doc.Tags)
	w.line(0, w.title(language.RoleFeature, doc.Title))
	w.description(1, doc.Description)

	if doc.Background != nil {
		w.blank()
		w.background(1, doc.Background)
	}
	for _, c := range doc.Children {
		w.blank()
		w.child(1, c)
	}
	return w.String()
}

// featureWriter accumulates lines. blank requests a separator that is only
// written if another line follows.
type featureWriter struct {
	lang    *language.Language
	b       strings.Builder
	pending bool
}

func (w *featureWriter) String() string {
	return w.b.String()
}

func (w *featureWriter) blank() {
	if w.b.Len() > 0 {
		w.pending = true
	}
}

func (w *featureWriter) line(depth int, s string) {
	if w.pending {
		w.b.WriteByte('\n')
		w.pending = false
	}
	if s != "" {
		w.b.WriteString(strings.Repeat(indentUnit, depth))
		w.b.WriteString(s)
	}
	w.b.WriteByte('\n')
}

// title renders "Keyword: text", omitting the space when text is empty.
func (w *featureWriter) title(role language.Role, text string) string {
	kw := w.lang.Keyword(role) + ":"
	if text == "" {
		return kw
	}
	return kw + " " + text
}

func (w *featureWriter) tags(depth int, tags []gherkin.Tag) {
	if len(tags) == 0 {
		return
	}
	rendered := make([]string, len(tags))
	for i, t := range tags {
		rendered[i] = t.String()
	}
	w.line(depth, strings.Join(rendered, " "))
}

func (w *featureWriter) description(depth int, text string) {
	if text == "" {
		return
	}
	for _, l := range strings.Split(text, "\n") {
		w.line(depth, strings.TrimSpace(l))
	}
}

func (w *featureWriter) background(depth int, bg *gherkin.Background) {
	w.line(depth, w.title(language.RoleBackground, bg.Name))
	w.steps(depth+1, bg.Steps)
}

func (w *featureWriter) child(depth int, c gherkin.Child) {
	switch c := c.(type) {
	case *gherkin.Scenario:
		w.tags(depth, c.Tags)
		w.line(depth, w.title(language.RoleScenario, c.Title))
		w.description(depth+1, c.Description)
		w.steps(depth+1, c.Steps)
	case *gherkin.ScenarioOutline:
		w.tags(depth, c.Tags)
		w.line(depth, w.title(language.RoleScenarioOutline, c.Title))
		w.description(depth+1, c.Description)
		w.steps(depth+1, c.Steps)
		for _, ex := range c.Examples {
			w.blank()
			w.tags(depth+1, ex.Tags)
			w.line(depth+1, w.title(language.RoleExamples, ex.Name))
			w.table(depth+2, ex.Table)
		}
	case *gherkin.Rule:
		w.tags(depth, c.Tags)
		w.line(depth, w.title(language.RoleRule, c.Title))
		w.description(depth+1, c.Description)
		if c.Background != nil {
			w.blank()
			w.background(depth+1, c.Background)
		}
		for _, rc := range c.Children {
			w.blank()
			w.child(depth+1, rc)
		}
	}
}

func (w *featureWriter) steps(depth int, steps []gherkin.Step) {
	for _, s := range steps {
		w.line(depth, w.stepKeyword(s.Keyword)+s.Text)
		if s.DataTable != nil {
			w.table(depth+1, *s.DataTable)
		}
		if s.DocString != nil {
			w.docString(depth+1, s.DocString)
		}
	}
}

func (w *featureWriter) stepKeyword(k gherkin.StepKeyword) string {
	role, ok := k.Role()
	if !ok {
		return language.Wildcard
	}
	return w.lang.Keyword(role)
}

// table pads every column to its widest cell, measured in display columns.
func (w *featureWriter) table(depth int, t gherkin.DataTable) {
	escaped := make([][]string, len(t.Rows))
	var widths []int
	for i, row := range t.Rows {
		escaped[i] = make([]string, len(row))
		for j, cell := range row {
			e := escapeCell(cell)
			escaped[i][j] = e
			if j >= len(widths) {
				widths = append(widths, 0)
			}
			widths[j] = max(widths[j], runewidth.StringWidth(e))
		}
	}
	for _, row := range escaped {
		var b strings.Builder
		b.WriteString("|")
		for j, cell := range row {
			b.WriteString(" ")
			b.WriteString(runewidth.FillRight(cell, widths[j]))
			b.WriteString(" |")
		}
		w.line(depth, b.String())
	}
}

var cellEscaper = strings.NewReplacer(`\`, `\\`, `|`, `\|`, "\n", `\n`)

func escapeCell(s string) string {
	return cellEscaper.Replace(s)
}

func (w *featureWriter) docString(depth int, d *gherkin.DocString) {
	delim := docStringDelimiter(d.Content)
	w.line(depth, delim+d.MediaType)
	for _, l := range strings.Split(d.Content, "\n") {
		w.line(depth, l)
	}
	w.line(depth, delim)
}

// docStringDelimiter prefers """ and falls back to ''' when a content line
// would otherwise close the block early.
func docStringDelimiter(content string) string {
	for _, l := range strings.Split(content, "\n") {
		if strings.TrimSpace(l) == `"""` {
			return `'''`
		}
	}
	return `"""`
}
