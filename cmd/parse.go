package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/gherkin/internal/loader"
	"github.com/chriserin/gherkin/internal/ui"
)

var parseCmd = &cobra.Command{
	Use:   "parse [path...]",
	Short: "Parse feature files and print their structure",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return err
		}
		return RunParse(cmd.Context(), cmd.OutOrStdout(), env, args)
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

// RunParse parses every feature file under paths, or the current directory
// when none are given.
func RunParse(ctx context.Context, w io.Writer, env Env, paths []string) error {
	results, err := load(ctx, env, paths)
	if err != nil {
		return err
	}
	for _, r := range results {
		switch {
		case r.Err != nil:
			ui.ErrorLine(w, r.Path, r.Err)
		case r.Feature == nil:
			fmt.Fprintln(w, r.Path+": empty")
		default:
			fmt.Fprintln(w, r.Path)
			ui.Tree(w, r.Feature)
		}
		fmt.Fprintln(w)
	}
	return failures(results)
}

func load(ctx context.Context, env Env, paths []string) ([]loader.Result, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	results, err := loader.Load(ctx, env.Table, loader.Options{Language: env.Language, Log: env.Log}, paths...)
	if err != nil {
		return nil, fmt.Errorf("loading features: %w", err)
	}
	return results, nil
}

func failures(results []loader.Result) error {
	if failed := loader.Failed(results); len(failed) > 0 {
		return fmt.Errorf("%d of %d files failed to parse", len(failed), len(results))
	}
	return nil
}
