package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/gherkin-gen/internal/language"
	"github.com/chriserin/gherkin-gen/internal/ui"
)

var languagesCode string

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported languages, or the keywords of one",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunLanguages(cmd.OutOrStdout(), languagesCode)
	},
}

func init() {
	languagesCmd.Flags().StringVar(&languagesCode, "code", "", "Show the keywords of this language")
	rootCmd.AddCommand(languagesCmd)
}

var keywordLabels = []struct {
	role  language.Role
	label string
}{
	{language.RoleFeature, "Feature"},
	{language.RoleBackground, "Background"},
	{language.RoleScenario, "Scenario"},
	{language.RoleScenarioOutline, "Scenario Outline"},
	{language.RoleExamples, "Examples"},
	{language.RoleRule, "Rule"},
	{language.RoleGiven, "Given"},
	{language.RoleWhen, "When"},
	{language.RoleThen, "Then"},
	{language.RoleAnd, "And"},
	{language.RoleBut, "But"},
}

func RunLanguages(w io.Writer, code string) error {
	if code == "" {
		all := language.All()
		codeWidth, nameWidth := 0, 0
		for _, l := range all {
			codeWidth = max(codeWidth, ui.Width(l.Code))
			nameWidth = max(nameWidth, ui.Width(l.Name))
		}
		for _, l := range all {
			ui.Row(w, []int{codeWidth, nameWidth}, l.Code, l.Name, l.Native)
		}
		return nil
	}

	lang, ok := language.Lookup(code)
	if !ok {
		return fmt.Errorf("unknown language %q", code)
	}
	ui.Field(w, "Language", fmt.Sprintf("%s (%s)", lang.Name, lang.Code))
	ui.Field(w, "Native", lang.Native)
	for _, k := range keywordLabels {
		var spellings []string
		for _, s := range lang.Keywords.Spellings(k.role) {
			spellings = append(spellings, strings.TrimSpace(s))
		}
		ui.Field(w, k.label, strings.Join(spellings, ", "))
	}
	return nil
}
