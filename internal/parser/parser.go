// Package parser turns .feature source text into a gherkin.Document.
//
// Parsing happens in two passes: lex classifies every significant line
// against the active language, then a recursive-descent parser consumes the
// tokens without backtracking. Any grammar violation aborts the whole parse
// with a *ParseError; no partial document is returned.
package parser

import (
	"strings"

	"github.com/chriserin/gherkin-gen/internal/gherkin"
	"github.com/chriserin/gherkin-gen/internal/language"
)

// Option adjusts a single Parse call.
type Option func(*options)

type options struct {
	lang *language.Language
}

// WithDefaultLanguage sets the language used when the source has no
// "# language:" directive. A directive always wins. A nil lang is ignored.
func WithDefaultLanguage(lang *language.Language) Option {
	return func(o *options) {
		if lang != nil {
			o.lang = lang
		}
	}
}

// Parse parses one feature file.
func Parse(content []byte, opts ...Option) (*gherkin.Document, error) {
	o := options{lang: language.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	tokens, lang, err := lex(content, o.lang)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}
	doc, err := p.parseDocument()
	if err != nil {
		return nil, err
	}
	doc.Language = lang
	return doc, nil
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokenEOF {
		p.pos++
	}
	return tok
}

// peekPastTags returns the kind of the first token after any run of tag
// lines at the current position.
func (p *parser) peekPastTags() tokenKind {
	for i := p.pos; i < len(p.tokens); i++ {
		if p.tokens[i].kind != tokenTags {
			return p.tokens[i].kind
		}
	}
	return tokenEOF
}

func (p *parser) parseDocument() (*gherkin.Document, error) {
	if p.peek().kind == tokenEOF {
		return nil, newError(p.peek().line, "", ErrEmptyDocument, "document has no content")
	}

	tags := p.parseTags()
	tok := p.next()
	if tok.kind != tokenFeature {
		if tok.kind == tokenEOF {
			return nil, newError(tok.line, "", ErrMissingFeature, "tags are not followed by a Feature line")
		}
		return nil, newError(tok.line, tok.raw, ErrMissingFeature, "expected a Feature line")
	}
	if tok.text == "" {
		return nil, newError(tok.line, tok.raw, ErrEmptyTitle, "Feature needs a title")
	}

	doc := &gherkin.Document{
		Title:       tok.text,
		Tags:        tags,
		Description: p.parseDescription(),
	}

	if p.peek().kind == tokenBackground {
		doc.Background = p.parseBackground()
		if err := p.fillSteps(&doc.Background.Steps); err != nil {
			return nil, err
		}
	}

	for p.peek().kind != tokenEOF {
		child, err := p.parseChild(true)
		if err != nil {
			return nil, err
		}
		doc.Children = append(doc.Children, child)
	}
	return doc, nil
}

func (p *parser) parseTags() []gherkin.Tag {
	var tags []gherkin.Tag
	for p.peek().kind == tokenTags {
		tags = append(tags, p.next().tags...)
	}
	return tags
}

func (p *parser) parseDescription() string {
	var lines []string
	for p.peek().kind == tokenText {
		lines = append(lines, p.next().text)
	}
	return strings.Join(lines, "\n")
}

func (p *parser) parseBackground() *gherkin.Background {
	tok := p.next()
	return &gherkin.Background{Name: tok.text}
}

// parseChild parses one Scenario, Scenario Outline or, when allowRule is
// set, Rule, including its leading tags.
func (p *parser) parseChild(allowRule bool) (gherkin.Child, error) {
	switch p.peekPastTags() {
	case tokenScenario:
		return p.parseScenario()
	case tokenOutline:
		return p.parseOutline()
	case tokenRule:
		if allowRule {
			return p.parseRule()
		}
	}

	for p.peek().kind == tokenTags {
		last := p.next()
		if p.peek().kind == tokenEOF {
			return nil, newError(last.line, last.raw, ErrUnexpectedLine, "tags are not followed by a keyword")
		}
	}
	return nil, p.unexpected(p.peek())
}

func (p *parser) parseScenario() (*gherkin.Scenario, error) {
	tags := p.parseTags()
	tok := p.next()
	if tok.text == "" {
		return nil, newError(tok.line, tok.raw, ErrEmptyTitle, "Scenario needs a title")
	}
	s := &gherkin.Scenario{
		Title:       tok.text,
		Tags:        tags,
		Description: p.parseDescription(),
	}
	if err := p.fillSteps(&s.Steps); err != nil {
		return nil, err
	}
	return s, nil
}

func (p *parser) parseOutline() (*gherkin.ScenarioOutline, error) {
	tags := p.parseTags()
	tok := p.next()
	if tok.text == "" {
		return nil, newError(tok.line, tok.raw, ErrEmptyTitle, "Scenario Outline needs a title")
	}
	o := &gherkin.ScenarioOutline{
		Title:       tok.text,
		Tags:        tags,
		Description: p.parseDescription(),
	}
	if err := p.fillSteps(&o.Steps); err != nil {
		return nil, err
	}
	for p.peekPastTags() == tokenExamples {
		ex, err := p.parseExamples()
		if err != nil {
			return nil, err
		}
		o.Examples = append(o.Examples, ex)
	}
	return o, nil
}

func (p *parser) parseExamples() (gherkin.Examples, error) {
	tags := p.parseTags()
	tok := p.next()
	ex := gherkin.Examples{Name: tok.text, Tags: tags}
	if p.peek().kind != tokenTableRow {
		next := p.peek()
		if next.kind == tokenEOF {
			return ex, newError(tok.line, tok.raw, ErrUnexpectedLine, "Examples needs a table")
		}
		return ex, newError(next.line, next.raw, ErrUnexpectedLine, "Examples needs a table")
	}
	ex.Table = p.parseTable()
	return ex, nil
}

func (p *parser) parseRule() (*gherkin.Rule, error) {
	tags := p.parseTags()
	tok := p.next()
	if tok.text == "" {
		return nil, newError(tok.line, tok.raw, ErrEmptyTitle, "Rule needs a title")
	}
	r := &gherkin.Rule{
		Title:       tok.text,
		Tags:        tags,
		Description: p.parseDescription(),
	}
	if p.peek().kind == tokenBackground {
		r.Background = p.parseBackground()
		if err := p.fillSteps(&r.Background.Steps); err != nil {
			return nil, err
		}
	}
	for p.peek().kind != tokenEOF && p.peekPastTags() != tokenRule {
		child, err := p.parseChild(false)
		if err != nil {
			return nil, err
		}
		r.Children = append(r.Children, child.(gherkin.RuleChild))
	}
	return r, nil
}

// fillSteps consumes a run of steps, attaching a directly following table or
// doc string to the step before it.
func (p *parser) fillSteps(steps *[]gherkin.Step) error {
	for p.peek().kind == tokenStep {
		tok := p.next()
		if tok.text == "" {
			return newError(tok.line, tok.raw, ErrEmptyTitle, "step needs text")
		}
		step := gherkin.Step{Keyword: tok.step, Text: tok.text}
		switch p.peek().kind {
		case tokenTableRow:
			table := p.parseTable()
			step.DataTable = &table
		case tokenDocString:
			step.DocString = p.next().doc
		}
		if k := p.peek().kind; k == tokenTableRow || k == tokenDocString {
			return p.unexpected(p.peek())
		}
		*steps = append(*steps, step)
	}
	return nil
}

func (p *parser) parseTable() gherkin.DataTable {
	var table gherkin.DataTable
	for p.peek().kind == tokenTableRow {
		table.Rows = append(table.Rows, p.next().cells)
	}
	return table
}

func (p *parser) unexpected(tok token) error {
	switch tok.kind {
	case tokenTableRow:
		return newError(tok.line, tok.raw, ErrUnexpectedLine, "table row is not attached to a step")
	case tokenDocString:
		return newError(tok.line, tok.raw, ErrUnexpectedLine, "doc string is not attached to a step")
	case tokenStep:
		return newError(tok.line, tok.raw, ErrUnexpectedLine, "step outside of a Scenario or Background")
	case tokenText:
		return newError(tok.line, tok.raw, ErrUnexpectedLine, "unrecognized line")
	case tokenFeature:
		return newError(tok.line, tok.raw, ErrUnexpectedLine, "a document holds a single Feature")
	case tokenBackground:
		return newError(tok.line, tok.raw, ErrUnexpectedLine, "Background must come before any Scenario")
	case tokenExamples:
		return newError(tok.line, tok.raw, ErrUnexpectedLine, "Examples outside of a Scenario Outline")
	case tokenRule:
		return newError(tok.line, tok.raw, ErrUnexpectedLine, "a Rule cannot contain another Rule")
	default:
		return newError(tok.line, tok.raw, ErrUnexpectedLine, "unexpected line")
	}
}
