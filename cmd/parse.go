package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chriserin/gherkin-gen/internal/config"
	"github.com/chriserin/gherkin-gen/internal/export"
	"github.com/chriserin/gherkin-gen/internal/gherkin"
	"github.com/chriserin/gherkin-gen/internal/ui"
)

var parseFormat string

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a feature file and display its structure",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := settings(cmd)
		if err != nil {
			return err
		}
		return RunParse(cmd.OutOrStdout(), cfg, log, args[0], parseFormat)
	},
}

func init() {
	parseCmd.Flags().StringVar(&parseFormat, "format", "summary", "Output format: summary or json")
	rootCmd.AddCommand(parseCmd)
}

func RunParse(w io.Writer, cfg *config.Config, log *zap.Logger, path, format string) error {
	if format != "summary" && format != "json" {
		return fmt.Errorf("unknown format %q (want summary or json)", format)
	}

	doc, _, err := parseFile(cfg, log, path)
	if err != nil {
		return err
	}

	if format == "json" {
		out, err := export.Render(doc, export.FormatJSON)
		if err != nil {
			return err
		}
		fmt.Fprint(w, out)
		return nil
	}

	printSummary(w, doc)
	return nil
}

func printSummary(w io.Writer, doc *gherkin.Document) {
	lang := doc.Lang()
	ui.Field(w, "Feature", doc.Title)
	ui.Field(w, "Language", fmt.Sprintf("%s (%s)", lang.Name, lang.Code))
	ui.Field(w, "Scenarios", strconv.Itoa(len(doc.Scenarios())))
	ui.Field(w, "Outlines", strconv.Itoa(len(doc.Outlines())))
	ui.Field(w, "Rules", strconv.Itoa(len(doc.Rules())))

	if len(doc.Tags) > 0 {
		names := make([]string, len(doc.Tags))
		for i, t := range doc.Tags {
			names[i] = t.String()
		}
		ui.Field(w, "Tags", strings.Join(names, ", "))
	}
	if doc.Description != "" {
		ui.Field(w, "Description", doc.Description)
	}
}
