package cmd

import (
	"database/sql"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/gherkin-gen/internal/config"
	"github.com/chriserin/gherkin-gen/internal/ui"
)

var findingKindFlag string

var findingsCmd = &cobra.Command{
	Use:   "findings",
	Short: "List the findings recorded by the last sync",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := settings(cmd)
		if err != nil {
			return err
		}
		return RunFindings(cmd.OutOrStdout(), cfg, findingKindFlag)
	},
}

func init() {
	findingsCmd.Flags().StringVar(&findingKindFlag, "kind", "", "Filter by finding kind, e.g. missingThen")
	rootCmd.AddCommand(findingsCmd)
}

type findingRow struct {
	path     string
	scenario string
	kind     string
	message  string
}

// RunFindings prints one line per finding: file, scenario id (or "-" for
// findings not tied to a scenario), kind and message.
func RunFindings(w io.Writer, cfg *config.Config, kind string) error {
	sqlDB, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	rows, err := sqlDB.Query(`
		SELECT f.file_path, n.scenario_id, n.kind, n.message
		FROM findings n
		JOIN files f ON n.file_id = f.id
		WHERE ? = '' OR n.kind = ?
		ORDER BY f.file_path, n.id
	`, kind, kind)
	if err != nil {
		return fmt.Errorf("querying findings: %w", err)
	}
	defer rows.Close()

	var results []findingRow
	for rows.Next() {
		var r findingRow
		var scenarioID sql.NullInt64
		if err := rows.Scan(&r.path, &scenarioID, &r.kind, &r.message); err != nil {
			return fmt.Errorf("scanning finding: %w", err)
		}
		r.scenario = "-"
		if scenarioID.Valid {
			r.scenario = fmt.Sprintf("#%d", scenarioID.Int64)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating findings: %w", err)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "no findings")
		return nil
	}

	widths := make([]int, 3)
	for _, r := range results {
		widths[0] = max(widths[0], ui.Width(r.path))
		widths[1] = max(widths[1], ui.Width(r.scenario))
		widths[2] = max(widths[2], ui.Width(r.kind))
	}
	for _, r := range results {
		ui.Row(w, widths, r.path, r.scenario, r.kind, r.message)
	}
	return nil
}
