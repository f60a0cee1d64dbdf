package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/gherkin-gen/internal/gherkin"
	"github.com/chriserin/gherkin-gen/internal/language"
)

func kinds(tokens []token) []tokenKind {
	var out []tokenKind
	for _, tok := range tokens {
		out = append(out, tok.kind)
	}
	return out
}

func TestLex_Classification(t *testing.T) {
	content := []byte(`# a comment
@tag
Feature: F
  free text
  Background:
    Given a
      | x |
  Scenario Outline: O
    * b
      """
      body
      """
    Examples:
      | x |
  Rule: R
`)
	tokens, lang, err := lex(content, language.Default())
	require.NoError(t, err)
	assert.Equal(t, "en", lang.Code)
	assert.Equal(t, []tokenKind{
		tokenTags, tokenFeature, tokenText, tokenBackground, tokenStep, tokenTableRow,
		tokenOutline, tokenStep, tokenDocString, tokenExamples, tokenTableRow, tokenRule, tokenEOF,
	}, kinds(tokens))
	assert.Equal(t, 3, tokens[1].line)
	assert.Equal(t, gherkin.Wildcard, tokens[7].step)
	assert.Equal(t, "body", tokens[8].doc.Content)
}

func TestLex_TagLineRequiresOnlyTags(t *testing.T) {
	_, ok := tagLine("@a @b")
	assert.True(t, ok)

	_, ok = tagLine("@a and more")
	assert.False(t, ok)

	tags, ok := tagLine("@a # trailing")
	require.True(t, ok)
	assert.Equal(t, []gherkin.Tag{{Name: "a"}}, tags)
}

func TestLex_StructuralNeedsColon(t *testing.T) {
	tokens, _, err := lex([]byte("Feature without colon\n"), language.Default())
	require.NoError(t, err)
	assert.Equal(t, tokenText, tokens[0].kind)
}

func TestSplitCells(t *testing.T) {
	cells, err := splitCells(`| a | b \| c |   |`)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b | c", ""}, cells)

	_, err = splitCells(`| a | b`)
	assert.ErrorIs(t, err, errUnterminatedRow)

	_, err = splitCells(`|`)
	assert.ErrorIs(t, err, errUnterminatedRow)
}

func TestDedent(t *testing.T) {
	assert.Equal(t, "a\n  b\n\nc", dedent([]string{"    a", "      b", "  ", "    c"}))
	assert.Equal(t, "\n", dedent([]string{"   ", ""}))
	assert.Equal(t, "", dedent(nil))
}
