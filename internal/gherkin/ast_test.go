package gherkin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTag_Valid(t *testing.T) {
	assert.True(t, Tag{Name: "smoke"}.Valid())
	assert.True(t, Tag{Name: "ft:42"}.Valid())
	assert.False(t, Tag{Name: ""}.Valid())
	assert.False(t, Tag{Name: "two words"}.Valid())
	assert.False(t, Tag{Name: "tab\there"}.Valid())
}

func TestTag_String(t *testing.T) {
	assert.Equal(t, "@smoke", Tag{Name: "smoke"}.String())
	assert.Equal(t, "@", Tag{}.String())
}

func TestDataTable_HeaderAndRows(t *testing.T) {
	var empty DataTable
	assert.Nil(t, empty.Header())
	assert.Nil(t, empty.DataRows())

	table := DataTable{Rows: [][]string{{"a", "b"}, {"1", "2"}, {"3", "4"}}}
	assert.Equal(t, []string{"a", "b"}, table.Header())
	assert.Equal(t, [][]string{{"1", "2"}, {"3", "4"}}, table.DataRows())

	headerOnly := DataTable{Rows: [][]string{{"a"}}}
	assert.Nil(t, headerOnly.DataRows())
}

func TestDocument_ChildrenByKind(t *testing.T) {
	s := &Scenario{Title: "s"}
	o := &ScenarioOutline{Title: "o"}
	r := &Rule{Title: "r", Children: []RuleChild{&Scenario{Title: "inner"}}}
	doc := &Document{Title: "F", Children: []Child{s, r, o}}

	assert.Equal(t, []*Scenario{s}, doc.Scenarios())
	assert.Equal(t, []*ScenarioOutline{o}, doc.Outlines())
	assert.Equal(t, []*Rule{r}, doc.Rules())
}

func TestDocument_LangDefaultsToEnglish(t *testing.T) {
	doc := &Document{}
	assert.Equal(t, "en", doc.Lang().Code)
}
