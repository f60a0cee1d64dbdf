package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chriserin/gherkin-gen/internal/config"
	"github.com/chriserin/gherkin-gen/internal/ui"
	"github.com/chriserin/gherkin-gen/internal/validator"
)

var (
	validateRules    []string
	validateFailFast bool
)

var validateCmd = &cobra.Command{
	Use:   "validate <path>...",
	Short: "Check feature files against the validation rules",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := settings(cmd)
		if err != nil {
			return err
		}
		return RunValidate(cmd.OutOrStdout(), cfg, log, args, validateRules, validateFailFast)
	},
}

func init() {
	validateCmd.Flags().StringSliceVar(&validateRules, "rules", nil, "Comma separated rules to run (default: config, then all)")
	validateCmd.Flags().BoolVar(&validateFailFast, "fail-fast", false, "Report only the first error of each file")
	rootCmd.AddCommand(validateCmd)
}

func RunValidate(w io.Writer, cfg *config.Config, log *zap.Logger, paths, names []string, failFast bool) error {
	rules, err := cfg.ValidationRules()
	if len(names) > 0 {
		rules, err = validator.RulesByName(names)
	}
	if err != nil {
		return err
	}
	v := validator.New(rules...)
	log.Debug("validating", zap.Strings("rules", ruleNames(v)))

	files, err := findFeatureFiles(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no %s files found", featureExt)
	}

	failed := 0
	for _, path := range files {
		doc, _, err := parseFile(cfg, log, path)
		if err != nil {
			ui.FailLine(w, path)
			ui.FindingLine(w, errors.Unwrap(err).Error())
			failed++
			continue
		}

		var findings []validator.Error
		if failFast {
			var agg *validator.AggregateError
			if errors.As(v.Validate(doc), &agg) {
				findings = []validator.Error{agg.First()}
			}
		} else {
			findings = v.CollectErrors(doc)
		}
		log.Debug("validated", zap.String("file", path), zap.Int("findings", len(findings)))

		if len(findings) == 0 {
			ui.OkLine(w, path)
			continue
		}
		ui.FailLine(w, path)
		for _, f := range findings {
			ui.FindingLine(w, f.Error())
		}
		failed++
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed validation", failed, len(files))
	}
	return nil
}

func ruleNames(v *validator.Validator) []string {
	var names []string
	for _, r := range v.Rules() {
		names = append(names, r.Name())
	}
	return names
}
