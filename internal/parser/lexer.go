package parser

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"github.com/chriserin/gherkin-gen/internal/gherkin"
	"github.com/chriserin/gherkin-gen/internal/language"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenTags
	tokenFeature
	tokenBackground
	tokenScenario
	tokenOutline
	tokenExamples
	tokenRule
	tokenStep
	tokenTableRow
	tokenDocString
	tokenText
)

// token is one classified logical line. A doc string spans several source
// lines but is a single token positioned at its opening delimiter.
type token struct {
	kind  tokenKind
	line  int
	raw   string
	text  string
	tags  []gherkin.Tag
	step  gherkin.StepKeyword
	cells []string
	doc   *gherkin.DocString
}

var languagePattern = regexp.MustCompile(`^#\s*language\s*:\s*(\S+)\s*$`)

var docStringDelimiters = []string{`"""`, `'''`}

// lex drops blank and comment lines, applies a leading language directive
// and classifies every remaining line. The returned slice always ends with
// a tokenEOF.
func lex(content []byte, lang *language.Language) ([]token, *language.Language, error) {
	src := strings.TrimPrefix(string(content), "\uFEFF")
	src = strings.ReplaceAll(src, "\r\n", "\n")
	lines := strings.Split(src, "\n")

	var tokens []token
	seenContent := false

	for i := 0; i < len(lines); i++ {
		raw := lines[i]
		lineNo := i + 1
		trimmed := strings.TrimSpace(raw)

		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			if !seenContent {
				if m := languagePattern.FindStringSubmatch(trimmed); m != nil {
					found, ok := language.Lookup(m[1])
					if !ok {
						return nil, nil, newError(lineNo, raw, ErrUnknownLanguage, "unknown language %q", m[1])
					}
					lang = found
				}
			}
			continue
		}
		seenContent = true

		if tags, ok := tagLine(trimmed); ok {
			tokens = append(tokens, token{kind: tokenTags, line: lineNo, raw: raw, tags: tags})
			continue
		}

		if role, title, ok := lang.MatchStructural(trimmed); ok {
			tokens = append(tokens, token{kind: structuralKind(role), line: lineNo, raw: raw, text: title})
			continue
		}

		if role, text, wildcard, ok := lang.MatchStep(trimmed); ok {
			kw := gherkin.Wildcard
			if !wildcard {
				kw, _ = gherkin.KeywordForRole(role)
			}
			tokens = append(tokens, token{kind: tokenStep, line: lineNo, raw: raw, text: text, step: kw})
			continue
		}

		if strings.HasPrefix(trimmed, "|") {
			cells, err := splitCells(trimmed)
			if err != nil {
				return nil, nil, newError(lineNo, raw, ErrMalformedTable, "%s", err.Error())
			}
			tokens = append(tokens, token{kind: tokenTableRow, line: lineNo, raw: raw, cells: cells})
			continue
		}

		if delim, ok := docStringDelimiter(trimmed); ok {
			mediaType := strings.TrimSpace(trimmed[len(delim):])
			if strings.ContainsFunc(mediaType, unicode.IsSpace) {
				return nil, nil, newError(lineNo, raw, ErrUnexpectedLine, "doc string media type must be a single token")
			}
			end := -1
			for j := i + 1; j < len(lines); j++ {
				if strings.TrimSpace(lines[j]) == delim {
					end = j
					break
				}
			}
			if end < 0 {
				return nil, nil, newError(lineNo, raw, ErrUnclosedDocString, "doc string is not closed with %s", delim)
			}
			doc := &gherkin.DocString{
				Content:   dedent(lines[i+1 : end]),
				MediaType: mediaType,
			}
			tokens = append(tokens, token{kind: tokenDocString, line: lineNo, raw: raw, doc: doc})
			i = end
			continue
		}

		tokens = append(tokens, token{kind: tokenText, line: lineNo, raw: raw, text: trimmed})
	}

	tokens = append(tokens, token{kind: tokenEOF, line: len(lines)})
	return tokens, lang, nil
}

func structuralKind(role language.Role) tokenKind {
	switch role {
	case language.RoleFeature:
		return tokenFeature
	case language.RoleBackground:
		return tokenBackground
	case language.RoleScenario:
		return tokenScenario
	case language.RoleScenarioOutline:
		return tokenOutline
	case language.RoleExamples:
		return tokenExamples
	default:
		return tokenRule
	}
}

// tagLine accepts whitespace separated @tokens, optionally followed by a
// trailing comment.
func tagLine(trimmed string) ([]gherkin.Tag, bool) {
	if !strings.HasPrefix(trimmed, gherkin.TagMarker) {
		return nil, false
	}
	var tags []gherkin.Tag
	for _, field := range strings.Fields(trimmed) {
		if strings.HasPrefix(field, "#") {
			break
		}
		if !strings.HasPrefix(field, gherkin.TagMarker) {
			return nil, false
		}
		tags = append(tags, gherkin.Tag{Name: strings.TrimPrefix(field, gherkin.TagMarker)})
	}
	return tags, len(tags) > 0
}

func docStringDelimiter(trimmed string) (string, bool) {
	for _, d := range docStringDelimiters {
		if strings.HasPrefix(trimmed, d) {
			return d, true
		}
	}
	return "", false
}

var errUnterminatedRow = errors.New("table row must end with an unescaped |")

// splitCells splits a row on unescaped pipes. Each raw cell is trimmed before
// the \|, \n and \\ escapes are applied; any other backslash is kept as is.
func splitCells(row string) ([]string, error) {
	body := row[1:]
	var (
		cells []string
		cur   strings.Builder
	)
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\\' && i+1 < len(body):
			cur.WriteByte(c)
			cur.WriteByte(body[i+1])
			i++
		case c == '|':
			cells = append(cells, unescapeCell(strings.TrimSpace(cur.String())))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	if strings.TrimSpace(cur.String()) != "" || len(cells) == 0 {
		return nil, errUnterminatedRow
	}
	return cells, nil
}

func unescapeCell(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case '|':
				b.WriteByte('|')
				i++
				continue
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case '\\':
				b.WriteByte('\\')
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// dedent removes the indentation common to every non-blank line. Blank
// lines come out empty.
func dedent(lines []string) string {
	indent := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		out[i] = l[indent:]
	}
	return strings.Join(out, "\n")
}
