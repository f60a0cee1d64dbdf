package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chriserin/gherkin-gen/internal/config"
	"github.com/chriserin/gherkin-gen/internal/export"
	"github.com/chriserin/gherkin-gen/internal/ui"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Render a feature file as feature text, JSON or Markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := settings(cmd)
		if err != nil {
			return err
		}
		return RunExport(cmd.OutOrStdout(), cfg, log, args[0], exportFormat, exportOutput)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "feature", "Output format: feature, json or markdown")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to this file, or into this directory, instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func RunExport(w io.Writer, cfg *config.Config, log *zap.Logger, path, format, output string) error {
	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}

	doc, _, err := parseFile(cfg, log, path)
	if err != nil {
		return err
	}

	if output == "" {
		out, err := export.Render(doc, f)
		if err != nil {
			return err
		}
		fmt.Fprint(w, out)
		return nil
	}

	output = outputPath(output, path, f)
	if err := export.Export(doc, output, f); err != nil {
		return err
	}
	log.Debug("exported", zap.String("file", path), zap.String("output", output), zap.Stringer("format", f))
	ui.DoneLine(w, "exported to "+output)
	return nil
}

// outputPath names the export after its source when output is a directory
// or ends with a separator.
func outputPath(output, source string, f export.Format) string {
	if !strings.HasSuffix(output, string(filepath.Separator)) {
		if info, err := os.Stat(output); err != nil || !info.IsDir() {
			return output
		}
	}
	base := filepath.Base(source)
	return filepath.Join(output, strings.TrimSuffix(base, filepath.Ext(base))+f.Extension())
}
