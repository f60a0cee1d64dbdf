package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/gherkin-gen/internal/config"
)

func runFindings(t *testing.T, kind string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunFindings(&buf, config.Default(), kind))
	return buf.String()
}

func TestFindings_NoneRecorded(t *testing.T) {
	inTempDir(t)
	runInit(t)
	assert.Equal(t, "no findings\n", runFindings(t, ""))
}

func TestFindings_ListsEveryFinding(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", loginFeature)
	writeFeature(t, "features/tables.feature", `Feature: Tables
  Scenario: Prices
    Given prices
      | item | price |
      | tea  |       |
    Then a total
`)
	runSync(t)
	id := scenarioID(t, "Wrong password")

	out := runFindings(t, "")
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 2)

	assert.True(t, strings.HasPrefix(lines[0], "features/login.feature"))
	assert.Contains(t, lines[0], "#"+id)
	assert.Contains(t, lines[0], "missingThen")
	assert.True(t, strings.HasSuffix(lines[0], `scenario "Wrong password" has no Then step`))

	assert.True(t, strings.HasPrefix(lines[1], "features/tables.feature"))
	assert.Contains(t, lines[1], "  -  ")
	assert.Contains(t, lines[1], "emptyTableCell")
	assert.True(t, strings.HasSuffix(lines[1], "table row 0, column 1 is empty"))
}

func TestFindings_FilterByKind(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", loginFeature)
	runSync(t)

	assert.Equal(t, "no findings\n", runFindings(t, "emptyTableCell"))
	assert.Contains(t, runFindings(t, "missingThen"), "Wrong password")
}
