package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/chriserin/gherkin/dumper"
	"github.com/chriserin/gherkin/internal/ui"
	"github.com/chriserin/gherkin/lexer"
)

var (
	checkFlag bool
	diffFlag  bool
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [path...]",
	Short: "Rewrite feature files in canonical layout",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return err
		}
		return RunFmt(cmd.Context(), cmd.OutOrStdout(), env, args, FmtOptions{Check: checkFlag, Diff: diffFlag})
	},
}

func init() {
	fmtCmd.Flags().BoolVar(&checkFlag, "check", false, "List files that need formatting and fail instead of writing them")
	fmtCmd.Flags().BoolVar(&diffFlag, "diff", false, "Print a diff of the changes instead of writing them")
	rootCmd.AddCommand(fmtCmd)
}

type FmtOptions struct {
	Check bool
	Diff  bool
}

// RunFmt reformats feature files in place. Files containing comments are
// skipped since the parsed form does not keep them.
func RunFmt(ctx context.Context, w io.Writer, env Env, paths []string, opts FmtOptions) error {
	results, err := load(ctx, env, paths)
	if err != nil {
		return err
	}
	d := dumper.New(env.Table)

	pending := 0
	for _, r := range results {
		if r.Err != nil {
			ui.ErrorLine(w, r.Path, r.Err)
			continue
		}
		if r.Feature == nil {
			continue
		}
		if hasComments(env, r.Content) {
			ui.ChangeLine(w, "skip", r.Path+" (contains comments)")
			continue
		}

		formatted := d.Dump(r.Feature)
		if formatted == r.Content {
			continue
		}
		pending++

		switch {
		case opts.Diff:
			diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
				A:        difflib.SplitLines(r.Content),
				B:        difflib.SplitLines(formatted),
				FromFile: r.Path,
				ToFile:   r.Path + " (formatted)",
				Context:  3,
			})
			if err != nil {
				return fmt.Errorf("diffing %s: %w", r.Path, err)
			}
			ui.Diff(w, diff)
		case opts.Check:
			ui.ChangeLine(w, "fmt", r.Path)
		default:
			fi, err := os.Stat(r.Path)
			if err != nil {
				return err
			}
			if err := os.WriteFile(r.Path, []byte(formatted), fi.Mode().Perm()); err != nil {
				return fmt.Errorf("writing %s: %w", r.Path, err)
			}
			env.Log.V(1).Info("formatted file", "file", r.Path)
			ui.ChangeLine(w, "upd", r.Path)
		}
	}

	if err := failures(results); err != nil {
		return err
	}
	if opts.Check && pending > 0 {
		return fmt.Errorf("%d files need formatting", pending)
	}
	return nil
}

// hasComments reports whether content has a comment line outside docstrings.
func hasComments(env Env, content string) bool {
	lx := lexer.New(env.Table, env.Log)
	if err := lx.Analyse(content, env.Language); err != nil {
		return false
	}
	restarted := false
	for {
		switch tok := lx.Next().(type) {
		case lexer.EOS:
			return false
		case lexer.Comment:
			return true
		case lexer.Language:
			if !restarted && env.Table.HasLanguage(tok.Code) {
				restarted = true
				if err := lx.Analyse(content, tok.Code); err != nil {
					return false
				}
			}
		}
	}
}

func indent(depth int, text string) string {
	prefix := strings.Repeat("  ", depth)
	return prefix + strings.ReplaceAll(text, "\n", "\n"+prefix)
}
