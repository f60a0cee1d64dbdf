package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chriserin/gherkin-gen/internal/config"
	"github.com/chriserin/gherkin-gen/internal/parser"
	"github.com/chriserin/gherkin-gen/internal/ui"
	"github.com/chriserin/gherkin-gen/internal/validator"
)

const parseErrorKind = "parseError"

var syncCmd = &cobra.Command{
	Use:   "sync [dir]",
	Short: "Scan for feature files and record them in the catalog",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := settings(cmd)
		if err != nil {
			return err
		}
		dir := ""
		if len(args) == 1 {
			dir = args[0]
		}
		return RunSync(cmd.OutOrStdout(), cfg, log, dir)
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

// RunSync records every feature file under dir, or the configured features
// directory when dir is empty. Catalogued files that no longer exist are
// dropped.
func RunSync(w io.Writer, cfg *config.Config, log *zap.Logger, dir string) error {
	if dir == "" {
		dir = cfg.FeaturesDir
	}
	rules, err := cfg.ValidationRules()
	if err != nil {
		return err
	}
	v := validator.New(rules...)

	sqlDB, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("%s does not exist", dir)
	}
	matches, err := findFeatureFiles([]string{dir})
	if err != nil {
		return err
	}

	count, failing := 0, 0
	for _, path := range matches {
		isNew, failed, err := syncFile(sqlDB, cfg, log, v, path)
		if err != nil {
			return err
		}
		if isNew {
			ui.NewLine(w, path)
		} else {
			ui.TrkLine(w, path)
		}
		count++
		if failed {
			failing++
		}
	}

	if err := pruneFiles(w, sqlDB); err != nil {
		return err
	}

	ui.SummaryLine(w, count, failing)
	return nil
}

// syncFile parses and validates path, then replaces its catalog entry in one
// transaction. A file that fails to parse keeps its previous scenarios and
// records the parse error as its only finding.
func syncFile(sqlDB *sql.DB, cfg *config.Config, log *zap.Logger, v *validator.Validator, path string) (isNew, failed bool, err error) {
	doc, _, parseErr := parseFile(cfg, log, path)
	var perr *parser.ParseError
	if parseErr != nil && !errors.As(parseErr, &perr) {
		return false, false, parseErr
	}

	tx, err := sqlDB.Begin()
	if err != nil {
		return false, false, fmt.Errorf("beginning sync of %s: %w", path, err)
	}
	defer tx.Rollback()

	var pf *parser.ParsedFile
	feature, lang, parseMsg := "", "", ""
	if perr != nil {
		parseMsg = perr.Error()
	} else {
		pf = parser.Transform(doc)
		feature, lang = pf.Name, pf.Language
	}

	var fileID int64
	err = tx.QueryRow(`SELECT id FROM files WHERE file_path = ?`, path).Scan(&fileID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		var res sql.Result
		res, err = tx.Exec(`INSERT INTO files (file_path, feature, language, parse_error) VALUES (?, ?, ?, ?)`,
			path, feature, lang, parseMsg)
		if err == nil {
			fileID, err = res.LastInsertId()
		}
		isNew = true
	case err != nil:
		return false, false, fmt.Errorf("querying %s: %w", path, err)
	case perr != nil:
		_, err = tx.Exec(`UPDATE files SET parse_error = ?, updated_at = datetime('now') WHERE id = ?`, parseMsg, fileID)
	default:
		_, err = tx.Exec(`UPDATE files SET feature = ?, language = ?, parse_error = '', updated_at = datetime('now') WHERE id = ?`,
			feature, lang, fileID)
	}
	if err != nil {
		return false, false, fmt.Errorf("updating %s: %w", path, err)
	}

	if _, err := tx.Exec(`DELETE FROM findings WHERE file_id = ?`, fileID); err != nil {
		return false, false, fmt.Errorf("clearing findings of %s: %w", path, err)
	}

	if perr != nil {
		if _, err := tx.Exec(`INSERT INTO findings (file_id, kind, message) VALUES (?, ?, ?)`,
			fileID, parseErrorKind, parseMsg); err != nil {
			return false, false, fmt.Errorf("recording parse error of %s: %w", path, err)
		}
		return isNew, true, tx.Commit()
	}

	byTitle, err := syncScenarios(tx, fileID, pf)
	if err != nil {
		return false, false, fmt.Errorf("syncing scenarios of %s: %w", path, err)
	}

	findings := v.CollectErrors(doc)
	for _, f := range findings {
		var scenarioID sql.NullInt64
		if id, ok := byTitle[f.Scenario]; ok && !f.Background {
			scenarioID = sql.NullInt64{Int64: id, Valid: true}
		}
		if _, err := tx.Exec(`INSERT INTO findings (file_id, scenario_id, kind, message) VALUES (?, ?, ?, ?)`,
			fileID, scenarioID, f.Kind.String(), f.Error()); err != nil {
			return false, false, fmt.Errorf("recording findings of %s: %w", path, err)
		}
	}
	log.Debug("synced", zap.String("file", path), zap.Int("findings", len(findings)))

	return isNew, len(findings) > 0, tx.Commit()
}

// syncScenarios updates the scenario rows of a file in place. A scenario
// keeps its id for as long as its kind, rule and title stay the same. The
// returned map gives the first id recorded for each title.
func syncScenarios(tx *sql.Tx, fileID int64, pf *parser.ParsedFile) (map[string]int64, error) {
	rows, err := tx.Query(`SELECT id, kind, rule, title FROM scenarios WHERE file_id = ? ORDER BY position, id`, fileID)
	if err != nil {
		return nil, err
	}
	existing := map[string][]int64{}
	for rows.Next() {
		var id int64
		var kind, rule, title string
		if err := rows.Scan(&id, &kind, &rule, &title); err != nil {
			rows.Close()
			return nil, err
		}
		key := scenarioKey(kind, rule, title)
		existing[key] = append(existing[key], id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	byTitle := map[string]int64{}
	for pos, s := range pf.Scenarios {
		tags := strings.Join(s.Tags, " ")
		key := scenarioKey(s.Kind, s.Rule, s.Title)

		var id int64
		if ids := existing[key]; len(ids) > 0 {
			id, existing[key] = ids[0], ids[1:]
			_, err = tx.Exec(`UPDATE scenarios SET tags = ?, steps = ?, examples = ?, position = ?, updated_at = datetime('now') WHERE id = ?`,
				tags, s.Steps, s.Examples, pos, id)
			if err != nil {
				return nil, err
			}
		} else {
			res, err := tx.Exec(`INSERT INTO scenarios (file_id, kind, rule, title, tags, steps, examples, position) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				fileID, s.Kind, s.Rule, s.Title, tags, s.Steps, s.Examples, pos)
			if err != nil {
				return nil, err
			}
			if id, err = res.LastInsertId(); err != nil {
				return nil, err
			}
		}
		if _, ok := byTitle[s.Title]; !ok {
			byTitle[s.Title] = id
		}
	}

	for _, ids := range existing {
		for _, id := range ids {
			if _, err := tx.Exec(`DELETE FROM scenarios WHERE id = ?`, id); err != nil {
				return nil, err
			}
		}
	}
	return byTitle, nil
}

func scenarioKey(kind, rule, title string) string {
	return kind + "\x00" + rule + "\x00" + title
}

func pruneFiles(w io.Writer, sqlDB *sql.DB) error {
	rows, err := sqlDB.Query(`SELECT id, file_path FROM files ORDER BY file_path`)
	if err != nil {
		return fmt.Errorf("querying files: %w", err)
	}
	type gone struct {
		id   int64
		path string
	}
	var missing []gone
	for rows.Next() {
		var g gone
		if err := rows.Scan(&g.id, &g.path); err != nil {
			rows.Close()
			return fmt.Errorf("scanning file row: %w", err)
		}
		if _, err := os.Stat(g.path); os.IsNotExist(err) {
			missing = append(missing, g)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating files: %w", err)
	}

	for _, g := range missing {
		if _, err := sqlDB.Exec(`DELETE FROM files WHERE id = ?`, g.id); err != nil {
			return fmt.Errorf("removing %s: %w", g.path, err)
		}
		ui.DelLine(w, g.path)
	}
	return nil
}
