package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/gherkin/keywords"
)

var i18nCmd = &cobra.Command{
	Use:   "i18n [language]",
	Short: "List supported languages or the keywords of one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return err
		}
		if len(args) == 0 {
			return RunLanguages(cmd.OutOrStdout(), env)
		}
		return RunKeywords(cmd.OutOrStdout(), env, args[0])
	},
}

func init() {
	rootCmd.AddCommand(i18nCmd)
}

var roleOrder = []keywords.Role{
	keywords.Feature,
	keywords.Background,
	keywords.Scenario,
	keywords.Outline,
	keywords.Examples,
	keywords.Given,
	keywords.When,
	keywords.Then,
	keywords.And,
	keywords.But,
}

func RunLanguages(w io.Writer, env Env) error {
	langs := env.Table.Languages()
	width := 0
	for _, lang := range langs {
		width = max(width, len(lang))
	}
	for _, lang := range langs {
		name, native := env.Table.Describe(lang)
		fmt.Fprintf(w, "%-*s  %s (%s)\n", width, lang, name, native)
	}
	return nil
}

func RunKeywords(w io.Writer, env Env, language string) error {
	if !env.Table.HasLanguage(language) {
		return fmt.Errorf("unknown language %q", language)
	}
	for _, role := range roleOrder {
		fmt.Fprintf(w, "%-16s  %s\n", role, strings.Join(env.Table.Keywords(language, role), " | "))
	}
	return nil
}
