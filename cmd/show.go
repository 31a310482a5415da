package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/gherkin/internal/db"
	"github.com/chriserin/gherkin/internal/index"
	"github.com/chriserin/gherkin/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show an indexed scenario by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return err
		}
		return RunShow(cmd.Context(), cmd.OutOrStdout(), env, args[0])
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func RunShow(ctx context.Context, w io.Writer, env Env, rawID string) error {
	// Accept the "#12" form printed by list.
	rawID = strings.TrimPrefix(rawID, "#")
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid scenario ID: %s", rawID)
	}

	if _, err := os.Stat(env.DBPath); os.IsNotExist(err) {
		return fmt.Errorf("run `gherkin index` first")
	}

	sqlDB, err := db.Open(env.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer sqlDB.Close()

	d, err := index.NewStore(sqlDB, env.Log).Get(ctx, id)
	if err != nil {
		return err
	}

	ui.ShowHeader(w, d.ID, fmt.Sprintf("%s:%d", displayPath(d.Path), d.Line))
	if len(d.Tags) > 0 {
		fmt.Fprintln(w, ui.Tags(d.Tags))
	}

	if d.Background != "" {
		fmt.Fprintln(w)
		ui.ShowGherkin(w, d.Background)
	}

	fmt.Fprintln(w)
	ui.ShowGherkin(w, d.Content)

	if len(d.Examples) > 0 {
		fmt.Fprintln(w)
		for _, ex := range d.Examples {
			ui.ShowExample(w, ex.Index, ex.Name, ex.Line)
		}
	}
	return nil
}
