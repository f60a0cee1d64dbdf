package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/gherkin-gen/internal/gherkin"
	"github.com/chriserin/gherkin-gen/internal/language"
)

func TestParse_SingleScenario(t *testing.T) {
	content := []byte("Feature: Login\n  Scenario: Success\n    Given a valid account\n    When the user logs in\n    Then dashboard is displayed\n")
	doc, err := Parse(content)
	require.NoError(t, err)

	assert.Equal(t, "Login", doc.Title)
	assert.Equal(t, "en", doc.Lang().Code)
	scenarios := doc.Scenarios()
	require.Len(t, scenarios, 1)
	assert.Equal(t, "Success", scenarios[0].Title)
	assert.Equal(t, []gherkin.Step{
		{Keyword: gherkin.Given, Text: "a valid account"},
		{Keyword: gherkin.When, Text: "the user logs in"},
		{Keyword: gherkin.Then, Text: "dashboard is displayed"},
	}, scenarios[0].Steps)
}

func TestParse_MultipleScenarios(t *testing.T) {
	content := []byte(`Feature: Login
  Scenario: User logs in
    Given a user

  Scenario: User fails login
    Given a user
`)
	doc, err := Parse(content)
	require.NoError(t, err)
	require.Len(t, doc.Children, 2)
	assert.Equal(t, "User logs in", doc.Scenarios()[0].Title)
	assert.Equal(t, "User fails login", doc.Scenarios()[1].Title)
}

func TestParse_Background(t *testing.T) {
	content := []byte(`Feature: Login
  Background: Accounts
    Given a registered user

  Scenario: User logs in
    When they log in
    Then they see the dashboard
`)
	doc, err := Parse(content)
	require.NoError(t, err)
	require.NotNil(t, doc.Background)
	assert.Equal(t, "Accounts", doc.Background.Name)
	assert.Equal(t, []gherkin.Step{{Keyword: gherkin.Given, Text: "a registered user"}}, doc.Background.Steps)
	require.Len(t, doc.Scenarios(), 1)
}

func TestParse_Description(t *testing.T) {
	content := []byte(`Feature: Login
  As a user
    I want to log in

  Scenario: User logs in
    A short note
    Given a user
`)
	doc, err := Parse(content)
	require.NoError(t, err)
	assert.Equal(t, "As a user\nI want to log in", doc.Description)
	assert.Equal(t, "A short note", doc.Scenarios()[0].Description)
}

func TestParse_Tags(t *testing.T) {
	content := []byte(`@smoke @cart
Feature: Cart
  @fast
  @wip # not done
  Scenario: Add item
    Given an empty cart
`)
	doc, err := Parse(content)
	require.NoError(t, err)
	assert.Equal(t, []gherkin.Tag{{Name: "smoke"}, {Name: "cart"}}, doc.Tags)
	assert.Equal(t, []gherkin.Tag{{Name: "fast"}, {Name: "wip"}}, doc.Scenarios()[0].Tags)
}

func TestParse_AndButWildcard(t *testing.T) {
	content := []byte(`Feature: Steps
  Scenario: Mixed
    Given a
    And b
    But c
    * d
`)
	doc, err := Parse(content)
	require.NoError(t, err)
	steps := doc.Scenarios()[0].Steps
	require.Len(t, steps, 4)
	assert.Equal(t, gherkin.And, steps[1].Keyword)
	assert.Equal(t, gherkin.But, steps[2].Keyword)
	assert.Equal(t, gherkin.Wildcard, steps[3].Keyword)
	assert.Equal(t, "d", steps[3].Text)
}

func TestParse_ScenarioOutline(t *testing.T) {
	content := []byte(`Feature: Eating
  Scenario Outline: Eat <eat> of <start>
    Given there are <start> cucumbers
    When I eat <eat> cucumbers
    Then I should have <left> cucumbers

    @small
    Examples: Few
      | start | eat | left |
      | 12    | 5   | 7    |

    Examples:
      | start | eat | left |
      | 20    | 5   | 15   |
`)
	doc, err := Parse(content)
	require.NoError(t, err)
	outlines := doc.Outlines()
	require.Len(t, outlines, 1)
	o := outlines[0]
	assert.Equal(t, "Eat <eat> of <start>", o.Title)
	require.Len(t, o.Examples, 2)
	assert.Equal(t, "Few", o.Examples[0].Name)
	assert.Equal(t, []gherkin.Tag{{Name: "small"}}, o.Examples[0].Tags)
	assert.Equal(t, []string{"start", "eat", "left"}, o.Examples[0].Table.Header())
	assert.Equal(t, [][]string{{"20", "5", "15"}}, o.Examples[1].Table.DataRows())
	assert.Empty(t, o.Examples[1].Name)
}

func TestParse_TaggedScenarioAfterExamples(t *testing.T) {
	content := []byte(`Feature: Eating
  Scenario Outline: Eat
    Given <n> cucumbers
    Examples:
      | n |
      | 1 |

  @next
  Scenario: After
    Given something
`)
	doc, err := Parse(content)
	require.NoError(t, err)
	require.Len(t, doc.Children, 2)
	require.Len(t, doc.Outlines()[0].Examples, 1)
	assert.Equal(t, []gherkin.Tag{{Name: "next"}}, doc.Scenarios()[0].Tags)
}

func TestParse_Rules(t *testing.T) {
	content := []byte(`Feature: Accounts
  Scenario: Top level
    Given a

  @billing
  Rule: Billing
    Only paid accounts

    Background:
      Given a paid account

    Scenario: Invoice
      Then an invoice exists

    Scenario Outline: Plans
      Given plan <p>
      Examples:
        | p |
        | x |

  Rule: Support
    Scenario: Ticket
      Given a ticket
`)
	doc, err := Parse(content)
	require.NoError(t, err)
	require.Len(t, doc.Children, 3)
	rules := doc.Rules()
	require.Len(t, rules, 2)

	billing := rules[0]
	assert.Equal(t, "Billing", billing.Title)
	assert.Equal(t, "Only paid accounts", billing.Description)
	assert.Equal(t, []gherkin.Tag{{Name: "billing"}}, billing.Tags)
	require.NotNil(t, billing.Background)
	assert.Empty(t, billing.Background.Name)
	require.Len(t, billing.Children, 2)
	assert.IsType(t, &gherkin.Scenario{}, billing.Children[0])
	assert.IsType(t, &gherkin.ScenarioOutline{}, billing.Children[1])

	require.Len(t, rules[1].Children, 1)
	assert.Nil(t, rules[1].Background)
}

func TestParse_DataTable(t *testing.T) {
	content := []byte(`Feature: Tables
  Scenario: Users
    Given these users:
      | name  | note        |
      | alice | a \| b      |
      | bob   | line\nbreak |
      | carol | back\\slash |
      | dave  | keep \x     |
    Then done
`)
	doc, err := Parse(content)
	require.NoError(t, err)
	steps := doc.Scenarios()[0].Steps
	require.Len(t, steps, 2)
	require.NotNil(t, steps[0].DataTable)
	assert.Nil(t, steps[1].DataTable)
	assert.Equal(t, [][]string{
		{"name", "note"},
		{"alice", "a | b"},
		{"bob", "line\nbreak"},
		{"carol", `back\slash`},
		{"dave", `keep \x`},
	}, steps[0].DataTable.Rows)
}

func TestParse_EmptyCells(t *testing.T) {
	content := []byte(`Feature: Tables
  Scenario: Blank
    Given rows:
      | a | b |
      |   | 2 |
`)
	doc, err := Parse(content)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"", "2"}}, doc.Scenarios()[0].Steps[0].DataTable.Rows)
}

func TestParse_DocString(t *testing.T) {
	content := []byte(`Feature: Docs
  Scenario: Payload
    Given the body:
      """json
      {
        "a": 1
      }

      """
    When sent
    Then a reply:
      '''
      contains """ quotes
      '''
`)
	doc, err := Parse(content)
	require.NoError(t, err)
	steps := doc.Scenarios()[0].Steps
	require.NotNil(t, steps[0].DocString)
	assert.Equal(t, "json", steps[0].DocString.MediaType)
	assert.Equal(t, "{\n  \"a\": 1\n}\n", steps[0].DocString.Content)
	require.NotNil(t, steps[2].DocString)
	assert.Equal(t, `contains """ quotes`, steps[2].DocString.Content)
	assert.Empty(t, steps[2].DocString.MediaType)
}

func TestParse_CRLFAndBOM(t *testing.T) {
	content := []byte("\uFEFFFeature: Login\r\n  Scenario: One\r\n    Given a\r\n")
	doc, err := Parse(content)
	require.NoError(t, err)
	assert.Equal(t, "Login", doc.Title)
	assert.Equal(t, "a", doc.Scenarios()[0].Steps[0].Text)
}

func TestParse_LanguageDirective(t *testing.T) {
	content := []byte(`# language: fr
Fonctionnalité: Connexion
  Scénario: Succès
    Soit un compte valide
    Quand l'utilisateur se connecte
    Alors le tableau de bord est affiché
`)
	doc, err := Parse(content)
	require.NoError(t, err)
	assert.Equal(t, "fr", doc.Lang().Code)
	assert.Equal(t, "Connexion", doc.Title)
	steps := doc.Scenarios()[0].Steps
	require.Len(t, steps, 3)
	assert.Equal(t, gherkin.Given, steps[0].Keyword)
	assert.Equal(t, "un compte valide", steps[0].Text)
	assert.Equal(t, gherkin.When, steps[1].Keyword)
	assert.Equal(t, gherkin.Then, steps[2].Keyword)
}

func TestParse_German(t *testing.T) {
	content := []byte(`# language: de
Funktionalität: Anmeldung
  Szenariogrundriss: Versuch
    Angenommen ein Konto <k>
    Wenn ich mich anmelde
    Dann sehe ich <s>
    Beispiele:
      | k | s |
      | a | b |
`)
	doc, err := Parse(content)
	require.NoError(t, err)
	assert.Equal(t, "de", doc.Lang().Code)
	require.Len(t, doc.Outlines(), 1)
	assert.Len(t, doc.Outlines()[0].Examples, 1)
}

func TestParse_DefaultLanguageOption(t *testing.T) {
	fr, ok := language.Lookup("fr")
	require.True(t, ok)

	doc, err := Parse([]byte("Fonctionnalité: X\n  Scénario: Y\n    Soit z\n"), WithDefaultLanguage(fr))
	require.NoError(t, err)
	assert.Equal(t, "fr", doc.Lang().Code)

	doc, err = Parse([]byte("# language: en\nFeature: X\n"), WithDefaultLanguage(fr))
	require.NoError(t, err)
	assert.Equal(t, "en", doc.Lang().Code)
}

func TestParse_DirectiveAfterContentIsComment(t *testing.T) {
	content := []byte(`Feature: Login
# language: fr
  Scenario: One
    Given a
`)
	doc, err := Parse(content)
	require.NoError(t, err)
	assert.Equal(t, "en", doc.Lang().Code)
}

func TestParse_UnknownLanguage(t *testing.T) {
	_, err := Parse([]byte("# language: xx\nFeature: Login\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownLanguage)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 1, pe.Line)
	assert.Equal(t, "# language: xx", pe.Text)
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    error
		line    int
	}{
		{"empty", "", ErrEmptyDocument, 1},
		{"only comments", "# nothing\n\n", ErrEmptyDocument, 3},
		{"no feature", "Scenario: A\n  Given b\n", ErrMissingFeature, 1},
		{"tags only", "@a\n", ErrMissingFeature, 2},
		{"feature without title", "Feature:\n", ErrEmptyTitle, 1},
		{"scenario without title", "Feature: F\n  Scenario:\n", ErrEmptyTitle, 2},
		{"rule without title", "Feature: F\n  Rule:\n", ErrEmptyTitle, 2},
		{"table without step", "Feature: F\n  Scenario: S\n    | a |\n", ErrUnexpectedLine, 3},
		{"doc string without step", "Feature: F\n  Scenario: S\n    \"\"\"\n    x\n    \"\"\"\n", ErrUnexpectedLine, 3},
		{"table and doc string", "Feature: F\n  Scenario: S\n    Given a\n      | a |\n      \"\"\"\n      x\n      \"\"\"\n", ErrUnexpectedLine, 5},
		{"unclosed doc string", "Feature: F\n  Scenario: S\n    Given a\n      \"\"\"\n      x\n", ErrUnclosedDocString, 4},
		{"ragged row", "Feature: F\n  Scenario: S\n    Given a\n      | a | b\n", ErrMalformedTable, 4},
		{"escaped closing pipe", "Feature: F\n  Scenario: S\n    Given a\n      | a \\|\n", ErrMalformedTable, 4},
		{"second feature", "Feature: F\nFeature: G\n", ErrUnexpectedLine, 2},
		{"late background", "Feature: F\n  Scenario: S\n    Given a\n  Background:\n", ErrUnexpectedLine, 4},
		{"dangling tags", "Feature: F\n  Scenario: S\n    Given a\n  @x\n", ErrUnexpectedLine, 4},
		{"text after steps", "Feature: F\n  Scenario: S\n    Given a\n    stray words\n", ErrUnexpectedLine, 4},
		{"examples without table", "Feature: F\n  Scenario Outline: S\n    Given <a>\n    Examples:\n", ErrUnexpectedLine, 4},
		{"examples in scenario", "Feature: F\n  Scenario: S\n    Given a\n    Examples:\n      | a |\n", ErrUnexpectedLine, 4},
		{"step before scenario", "Feature: F\n  Given a\n", ErrUnexpectedLine, 2},
		{"bare step keyword", "Feature: F\n  Scenario: S\n    Given a\n    Then\n", ErrEmptyTitle, 4},
		{"bare wildcard", "Feature: F\n  Background:\n    *\n", ErrEmptyTitle, 3},
		{"media type with spaces", "Feature: F\n  Scenario: S\n    Given a\n      \"\"\"json extra\n      x\n      \"\"\"\n", ErrUnexpectedLine, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := Parse([]byte(tc.content))
			require.Error(t, err)
			assert.Nil(t, doc)
			assert.ErrorIs(t, err, tc.want)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tc.line, pe.Line)
		})
	}
}

func TestParseError_Message(t *testing.T) {
	_, err := Parse([]byte("Feature: F\n  Scenario: S\n    | a |\n"))
	require.Error(t, err)
	assert.Equal(t, `line 3: table row is not attached to a step: "| a |"`, err.Error())

	_, err = Parse(nil)
	require.Error(t, err)
	assert.Equal(t, "line 1: document has no content", err.Error())
}

func TestParseError_BareStepKeywordNamesTheStep(t *testing.T) {
	_, err := Parse([]byte("Feature: F\n  Scenario: S\n    Given\n"))
	require.Error(t, err)
	assert.Equal(t, `line 3: step needs text: "Given"`, err.Error())
}

func TestParse_StructureOnlyNoSemanticChecks(t *testing.T) {
	content := []byte(`Feature: Loose
  Scenario: Only a when
    When something happens
    When something happens
  Scenario: No steps
`)
	doc, err := Parse(content)
	require.NoError(t, err)
	require.Len(t, doc.Scenarios(), 2)
	assert.Nil(t, doc.Scenarios()[1].Steps)
}
