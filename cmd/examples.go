package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/gherkin/internal/ui"
	"github.com/chriserin/gherkin/node"
)

var examplesCmd = &cobra.Command{
	Use:   "examples [path...]",
	Short: "Expand scenario outlines into their examples",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return err
		}
		return RunExamples(cmd.Context(), cmd.OutOrStdout(), env, args)
	},
}

func init() {
	rootCmd.AddCommand(examplesCmd)
}

func RunExamples(ctx context.Context, w io.Writer, env Env, paths []string) error {
	results, err := load(ctx, env, paths)
	if err != nil {
		return err
	}
	for _, r := range results {
		if r.Err != nil {
			ui.ErrorLine(w, r.Path, r.Err)
			continue
		}
		if r.Feature == nil {
			continue
		}
		for _, s := range r.Feature.Scenarios() {
			o, ok := s.(*node.Outline)
			if !ok {
				continue
			}
			for _, ex := range o.Examples() {
				fmt.Fprintf(w, "%s:%d\n", r.Path, ex.Line())
				if tags := ex.Tags(); len(tags) > 0 {
					fmt.Fprintln(w, "  "+ui.Tags(tags))
				}
				fmt.Fprintln(w, "  "+ui.Keyword(ex.Keyword())+" "+ex.Name())
				for _, step := range ex.Steps() {
					ui.Step(w, 2, step.Keyword(), step.Text())
					if arg := step.Argument(); arg != nil {
						fmt.Fprintln(w, indent(3, fmt.Sprint(arg)))
					}
				}
				fmt.Fprintln(w)
			}
		}
	}
	return failures(results)
}
