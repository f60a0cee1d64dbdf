package cmd

import (
	"bytes"
	"database/sql"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/gherkin-gen/internal/config"
	"github.com/chriserin/gherkin-gen/internal/db"
)

const loginFeature = `Feature: Login
  Scenario: User logs in
    Given a registered user
    When they submit valid credentials
    Then they see the dashboard

  Scenario: Wrong password
    Given a registered user
    When they submit a wrong password
`

func runSync(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunSync(&buf, config.Default(), nopLog, ""))
	return buf.String()
}

func openTestCatalog(t *testing.T) *sql.DB {
	t.Helper()
	sqlDB, err := db.Open(config.Default().Catalog)
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return sqlDB
}

func TestSync_RequiresInit(t *testing.T) {
	inTempDir(t)
	var buf bytes.Buffer
	err := RunSync(&buf, config.Default(), nopLog, "")
	assert.ErrorIs(t, err, errNotInitialized)
}

func TestSync_RegisterNewFile(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", loginFeature)

	out := runSync(t)

	sqlDB := openTestCatalog(t)
	var feature, lang string
	require.NoError(t, sqlDB.QueryRow(`SELECT feature, language FROM files WHERE file_path = ?`, "features/login.feature").Scan(&feature, &lang))
	assert.Equal(t, "Login", feature)
	assert.Equal(t, "en", lang)
	assert.Contains(t, out, "new  features/login.feature")
	assert.Contains(t, out, "synced 1 files, 1 failing")
}

func TestSync_RecordsScenarios(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", loginFeature)
	runSync(t)

	sqlDB := openTestCatalog(t)
	rows, err := sqlDB.Query(`SELECT kind, title, steps FROM scenarios ORDER BY position`)
	require.NoError(t, err)
	defer rows.Close()

	type row struct {
		kind, title string
		steps       int
	}
	var got []row
	for rows.Next() {
		var r row
		require.NoError(t, rows.Scan(&r.kind, &r.title, &r.steps))
		got = append(got, r)
	}
	assert.Equal(t, []row{
		{"scenario", "User logs in", 3},
		{"scenario", "Wrong password", 2},
	}, got)
}

func TestSync_RecordsFindingsAgainstScenario(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", loginFeature)
	runSync(t)

	sqlDB := openTestCatalog(t)
	var title, kind, message string
	require.NoError(t, sqlDB.QueryRow(`
		SELECT s.title, n.kind, n.message
		FROM findings n JOIN scenarios s ON n.scenario_id = s.id
	`).Scan(&title, &kind, &message))
	assert.Equal(t, "Wrong password", title)
	assert.Equal(t, "missingThen", kind)
	assert.Equal(t, `scenario "Wrong password" has no Then step`, message)
}

func TestSync_BackgroundFindingsStayOnTheFile(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/checkout.feature", `Feature: Checkout
  Background:
    Given a cart
    Given a cart

  Scenario: Checkout
    Given a paid order
    Then a receipt
`)
	runSync(t)

	sqlDB := openTestCatalog(t)
	var scenarioID sql.NullInt64
	var message string
	require.NoError(t, sqlDB.QueryRow(`SELECT scenario_id, message FROM findings WHERE kind = 'duplicateConsecutiveStep'`).Scan(&scenarioID, &message))
	assert.False(t, scenarioID.Valid)
	assert.Equal(t, `step "a cart" is repeated consecutively in "Checkout"`, message)
}

func TestSync_ShowAlreadyTrackedFile(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", loginFeature)
	runSync(t)

	out := runSync(t)
	assert.Contains(t, out, "trk  features/login.feature")
	assert.NotContains(t, out, "new  features/login.feature")
}

func TestSync_KeepsScenarioIDsAcrossEdits(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", loginFeature)
	runSync(t)

	sqlDB := openTestCatalog(t)
	var before int64
	require.NoError(t, sqlDB.QueryRow(`SELECT id FROM scenarios WHERE title = 'Wrong password'`).Scan(&before))

	writeFeature(t, "features/login.feature", `Feature: Login
  Scenario: Locked out
    Given a locked account
    Then login is refused

  Scenario: Wrong password
    Given a registered user
    When they submit a wrong password
    Then they see an error
`)
	out := runSync(t)

	var after, position int64
	require.NoError(t, sqlDB.QueryRow(`SELECT id, position FROM scenarios WHERE title = 'Wrong password'`).Scan(&after, &position))
	assert.Equal(t, before, after)
	assert.Equal(t, int64(1), position)

	var count int
	require.NoError(t, sqlDB.QueryRow(`SELECT COUNT(*) FROM scenarios WHERE title = 'User logs in'`).Scan(&count))
	assert.Equal(t, 0, count)
	require.NoError(t, sqlDB.QueryRow(`SELECT COUNT(*) FROM findings`).Scan(&count))
	assert.Equal(t, 0, count)
	assert.Contains(t, out, "synced 1 files\n")
}

func TestSync_RecordsParseError(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/broken.feature", "Scenario: no feature\n")

	out := runSync(t)

	sqlDB := openTestCatalog(t)
	var parseError string
	require.NoError(t, sqlDB.QueryRow(`SELECT parse_error FROM files`).Scan(&parseError))
	assert.Contains(t, parseError, "line 1")

	var kind string
	var scenarioID sql.NullInt64
	require.NoError(t, sqlDB.QueryRow(`SELECT kind, scenario_id FROM findings`).Scan(&kind, &scenarioID))
	assert.Equal(t, parseErrorKind, kind)
	assert.False(t, scenarioID.Valid)
	assert.Contains(t, out, "synced 1 files, 1 failing")
}

func TestSync_ParseErrorKeepsPreviousScenarios(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", loginFeature)
	runSync(t)

	writeFeature(t, "features/login.feature", loginFeature+"Feature: Again\n")
	runSync(t)

	sqlDB := openTestCatalog(t)
	var count int
	require.NoError(t, sqlDB.QueryRow(`SELECT COUNT(*) FROM scenarios`).Scan(&count))
	assert.Equal(t, 2, count)
	require.NoError(t, sqlDB.QueryRow(`SELECT COUNT(*) FROM findings WHERE kind = ?`, parseErrorKind).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestSync_RemovesDeletedFiles(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", loginFeature)
	runSync(t)

	require.NoError(t, os.Remove("features/login.feature"))
	out := runSync(t)

	sqlDB := openTestCatalog(t)
	var count int
	require.NoError(t, sqlDB.QueryRow(`SELECT COUNT(*) FROM scenarios`).Scan(&count))
	assert.Equal(t, 0, count)
	assert.Contains(t, out, "del  features/login.feature")
	assert.Contains(t, out, "synced 0 files")
}

func TestSync_ScansNestedDirectoriesInOrder(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/b.feature", "Feature: B\n")
	writeFeature(t, "features/a/z.feature", "Feature: Z\n")
	writeFeature(t, "features/notes.txt", "not gherkin")

	out := runSync(t)

	assert.Equal(t, "new  features/a/z.feature\nnew  features/b.feature\nsynced 2 files\n", out)
}

func TestSync_ExplicitDirectory(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "other/x.feature", "Feature: X\n")

	var buf bytes.Buffer
	require.NoError(t, RunSync(&buf, config.Default(), nopLog, "other"))
	assert.Contains(t, buf.String(), "new  other/x.feature")
}

func TestSync_UsesConfiguredLanguage(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/fr.feature", "Fonctionnalité: Panier\n  Scénario: Ajout\n    Soit un panier\n    Alors il contient un article\n")

	cfg := config.Default()
	cfg.Language = "fr"
	var buf bytes.Buffer
	require.NoError(t, RunSync(&buf, cfg, nopLog, ""))

	sqlDB := openTestCatalog(t)
	var lang string
	require.NoError(t, sqlDB.QueryRow(`SELECT language FROM files`).Scan(&lang))
	assert.Equal(t, "fr", lang)
	assert.Contains(t, buf.String(), "synced 1 files\n")
}
