package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chriserin/gherkin-gen/internal/config"
	"github.com/chriserin/gherkin-gen/internal/export"
	"github.com/chriserin/gherkin-gen/internal/gherkin"
	"github.com/chriserin/gherkin-gen/internal/parser"
	"github.com/chriserin/gherkin-gen/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a catalogued scenario by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := settings(cmd)
		if err != nil {
			return err
		}
		return RunShow(cmd.OutOrStdout(), cfg, log, args[0])
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func RunShow(w io.Writer, cfg *config.Config, log *zap.Logger, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	sqlDB, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	var kind, rule, title, filePath string
	err = sqlDB.QueryRow(`
		SELECT s.kind, s.rule, s.title, f.file_path
		FROM scenarios s
		JOIN files f ON s.file_id = f.id
		WHERE s.id = ?
	`, id).Scan(&kind, &rule, &title, &filePath)
	if err != nil {
		return fmt.Errorf("scenario %d not found", id)
	}

	rows, err := sqlDB.Query(`SELECT message FROM findings WHERE scenario_id = ? ORDER BY id`, id)
	if err != nil {
		return fmt.Errorf("querying findings: %w", err)
	}
	var messages []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			rows.Close()
			return fmt.Errorf("scanning finding: %w", err)
		}
		messages = append(messages, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating findings: %w", err)
	}

	doc, _, err := parseFile(cfg, log, filePath)
	if err != nil {
		return err
	}
	sub := excerpt(doc, kind, rule, title)
	if sub == nil {
		return fmt.Errorf("scenario %d not found in file %s, run sync", id, filePath)
	}

	ui.ShowHeader(w, id, filepath.Base(filePath), kind)
	ui.ShowFindings(w, messages)
	fmt.Fprintln(w)
	fmt.Fprint(w, export.FormatDocument(sub))
	return nil
}

// excerpt returns a document holding only the matching scenario and the
// backgrounds that apply to it, or nil when doc has no such scenario.
func excerpt(doc *gherkin.Document, kind, rule, title string) *gherkin.Document {
	out := &gherkin.Document{
		Language:   doc.Language,
		Title:      doc.Title,
		Background: doc.Background,
	}

	for _, c := range doc.Children {
		switch c := c.(type) {
		case *gherkin.Rule:
			if rule == "" || c.Title != rule {
				continue
			}
			for _, rc := range c.Children {
				if matches(rc, kind, title) {
					out.Children = []gherkin.Child{&gherkin.Rule{
						Title:      c.Title,
						Tags:       c.Tags,
						Background: c.Background,
						Children:   []gherkin.RuleChild{rc},
					}}
					return out
				}
			}
		case gherkin.RuleChild:
			if rule == "" && matches(c, kind, title) {
				out.Children = []gherkin.Child{c}
				return out
			}
		}
	}
	return nil
}

func matches(c gherkin.RuleChild, kind, title string) bool {
	switch c := c.(type) {
	case *gherkin.Scenario:
		return kind == parser.KindScenario && c.Title == title
	case *gherkin.ScenarioOutline:
		return kind == parser.KindOutline && c.Title == title
	}
	return false
}
