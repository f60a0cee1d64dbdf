package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chriserin/gherkin-gen/internal/config"
	"github.com/chriserin/gherkin-gen/internal/export"
	"github.com/chriserin/gherkin-gen/internal/ui"
)

var (
	fmtCheck bool
	fmtWrite bool
)

var fmtCmd = &cobra.Command{
	Use:   "fmt <path>...",
	Short: "Rewrite feature files in canonical form",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := settings(cmd)
		if err != nil {
			return err
		}
		return RunFmt(cmd.OutOrStdout(), cfg, log, args, fmtCheck, fmtWrite)
	},
}

func init() {
	fmtCmd.Flags().BoolVar(&fmtCheck, "check", false, "Show a diff and fail if any file is not canonical")
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "Rewrite files in place")
	rootCmd.AddCommand(fmtCmd)
}

// RunFmt prints the canonical text of each file, or with check or write set,
// compares it to the file or rewrites the file.
func RunFmt(w io.Writer, cfg *config.Config, log *zap.Logger, paths []string, check, write bool) error {
	if check && write {
		return errors.New("--check and --write cannot be combined")
	}

	files, err := findFeatureFiles(paths)
	if err != nil {
		return err
	}

	unformatted := 0
	for _, path := range files {
		doc, content, err := parseFile(cfg, log, path)
		if err != nil {
			return err
		}
		formatted := export.FormatDocument(doc)

		switch {
		case check:
			lines := export.Diff(string(content), formatted)
			if !export.Changed(lines) {
				continue
			}
			unformatted++
			ui.FailLine(w, path)
			for _, l := range lines {
				ui.DiffLine(w, l.String())
			}
		case write:
			if string(content) == formatted {
				log.Debug("already canonical", zap.String("file", path))
				continue
			}
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			if err := os.WriteFile(path, []byte(formatted), info.Mode().Perm()); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			ui.DoneLine(w, "formatted "+path)
		default:
			fmt.Fprint(w, formatted)
		}
	}

	if unformatted > 0 {
		return fmt.Errorf("%d of %d files are not formatted", unformatted, len(files))
	}
	return nil
}
