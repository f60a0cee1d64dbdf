package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chriserin/gherkin-gen/internal/export"
	"github.com/chriserin/gherkin-gen/internal/ui"
)

var convertOutput string

var convertCmd = &cobra.Command{
	Use:   "convert <file.json>",
	Short: "Turn a JSON document back into a feature file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, err := settings(cmd)
		if err != nil {
			return err
		}
		return RunConvert(cmd.OutOrStdout(), log, args[0], convertOutput)
	},
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "Write to this file instead of stdout")
	rootCmd.AddCommand(convertCmd)
}

func RunConvert(w io.Writer, log *zap.Logger, path, output string) error {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".json" {
		return fmt.Errorf("convert reads .json files, got %q", ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := export.DecodeJSON(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	log.Debug("decoded", zap.String("file", path), zap.Int("children", len(doc.Children)))

	if output == "" {
		fmt.Fprint(w, export.FormatDocument(doc))
		return nil
	}
	if err := export.Export(doc, output, export.FormatFeature); err != nil {
		return err
	}
	ui.DoneLine(w, "converted to "+output)
	return nil
}
