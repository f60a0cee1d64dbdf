package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chriserin/gherkin-gen/internal/config"
	"github.com/chriserin/gherkin-gen/internal/parser"
	"github.com/chriserin/gherkin-gen/internal/ui"
)

var (
	kindFlag    string
	failingFlag bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all catalogued scenarios",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := settings(cmd)
		if err != nil {
			return err
		}
		return RunList(cmd.OutOrStdout(), cfg, kindFlag, failingFlag)
	},
}

func init() {
	listCmd.Flags().StringVar(&kindFlag, "kind", "", "Filter by kind: scenario or outline")
	listCmd.Flags().BoolVar(&failingFlag, "failing", false, "Show only scenarios with findings")
	rootCmd.AddCommand(listCmd)
}

type listRow struct {
	id       int64
	fileName string
	title    string
	kind     string
	findings int
}

func RunList(w io.Writer, cfg *config.Config, kindFilter string, failing bool) error {
	if kindFilter != "" && kindFilter != parser.KindScenario && kindFilter != parser.KindOutline {
		return fmt.Errorf("unknown kind %q (want %s or %s)", kindFilter, parser.KindScenario, parser.KindOutline)
	}

	sqlDB, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	rows, err := sqlDB.Query(`
		SELECT s.id, f.file_path, s.title, s.kind,
			(SELECT COUNT(*) FROM findings WHERE scenario_id = s.id) AS findings
		FROM scenarios s
		JOIN files f ON s.file_id = f.id
		ORDER BY f.file_path, s.position, s.id
	`)
	if err != nil {
		return fmt.Errorf("querying scenarios: %w", err)
	}
	defer rows.Close()

	var results []listRow
	for rows.Next() {
		var r listRow
		var filePath string
		if err := rows.Scan(&r.id, &filePath, &r.title, &r.kind, &r.findings); err != nil {
			return fmt.Errorf("scanning row: %w", err)
		}
		r.fileName = filepath.Base(filePath)

		if kindFilter != "" && r.kind != kindFilter {
			continue
		}
		if failing && r.findings == 0 {
			continue
		}

		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating rows: %w", err)
	}

	if len(results) == 0 {
		return nil
	}

	// Compute column widths
	idWidth, fileWidth, titleWidth := 0, 0, 0
	for _, r := range results {
		idWidth = max(idWidth, ui.Width(fmt.Sprintf("#%d", r.id)))
		fileWidth = max(fileWidth, ui.Width(r.fileName))
		titleWidth = max(titleWidth, ui.Width(r.title))
	}

	for _, r := range results {
		ui.ListRow(w, r.id, r.fileName, r.title, r.kind, r.findings, idWidth, fileWidth, titleWidth)
	}

	return nil
}
