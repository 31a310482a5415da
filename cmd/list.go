package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/gherkin/internal/db"
	"github.com/chriserin/gherkin/internal/index"
	"github.com/chriserin/gherkin/internal/ui"
)

var tagFlag string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed scenarios",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return err
		}
		return RunList(cmd.Context(), cmd.OutOrStdout(), env, tagFlag)
	},
}

func init() {
	listCmd.Flags().StringVar(&tagFlag, "tag", "", "Only list scenarios carrying this tag")
	rootCmd.AddCommand(listCmd)
}

func RunList(ctx context.Context, w io.Writer, env Env, tag string) error {
	if _, err := os.Stat(env.DBPath); os.IsNotExist(err) {
		return fmt.Errorf("run `gherkin index` first")
	}

	sqlDB, err := db.Open(env.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer sqlDB.Close()

	rows, err := index.NewStore(sqlDB, env.Log).List(ctx, tag)
	if err != nil {
		return err
	}

	out := make([]ui.ListRow, len(rows))
	for i, r := range rows {
		out[i] = ui.ListRow{
			ID:       r.ID,
			Location: fmt.Sprintf("%s:%d", displayPath(r.Path), r.Line),
			Name:     firstLine(r.Name),
			Tags:     r.Tags,
		}
	}
	ui.List(w, out)
	return nil
}

// displayPath shortens path relative to the working directory when it lies
// below it.
func displayPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil || !filepath.IsLocal(rel) {
		return path
	}
	return rel
}

func firstLine(s string) string {
	first, _, _ := strings.Cut(s, "\n")
	return first
}
