package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/gherkin-gen/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarize the catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := settings(cmd)
		if err != nil {
			return err
		}
		return RunStatus(cmd.OutOrStdout(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func RunStatus(w io.Writer, cfg *config.Config) error {
	sqlDB, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	var files, unparsable int
	err = sqlDB.QueryRow(`SELECT COUNT(*), COUNT(NULLIF(parse_error, '')) FROM files`).Scan(&files, &unparsable)
	if err != nil {
		return fmt.Errorf("counting files: %w", err)
	}
	fmt.Fprintf(w, "Files: %d\n", files)
	if unparsable > 0 {
		fmt.Fprintf(w, "  unparsable: %d\n", unparsable)
	}

	var scenarios, failing int
	err = sqlDB.QueryRow(`
		SELECT COUNT(*),
			COUNT(CASE WHEN EXISTS (SELECT 1 FROM findings WHERE scenario_id = s.id) THEN 1 END)
		FROM scenarios s
	`).Scan(&scenarios, &failing)
	if err != nil {
		return fmt.Errorf("counting scenarios: %w", err)
	}
	fmt.Fprintf(w, "Scenarios: %d\n", scenarios)
	if scenarios > 0 {
		fmt.Fprintf(w, "  passing: %d\n", scenarios-failing)
		fmt.Fprintf(w, "  failing: %d\n", failing)
	}

	var findings int
	if err := sqlDB.QueryRow(`SELECT COUNT(*) FROM findings`).Scan(&findings); err != nil {
		return fmt.Errorf("counting findings: %w", err)
	}
	fmt.Fprintf(w, "Findings: %d\n", findings)
	if findings == 0 {
		return nil
	}

	rows, err := sqlDB.Query(`
		SELECT kind, COUNT(*) AS cnt
		FROM findings
		GROUP BY kind
		ORDER BY cnt DESC, kind
	`)
	if err != nil {
		return fmt.Errorf("querying finding counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var cnt int
		if err := rows.Scan(&kind, &cnt); err != nil {
			return fmt.Errorf("scanning finding row: %w", err)
		}
		fmt.Fprintf(w, "  %s: %d\n", kind, cnt)
	}

	return rows.Err()
}
