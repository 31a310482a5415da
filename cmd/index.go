package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/chriserin/gherkin/internal/db"
	"github.com/chriserin/gherkin/internal/index"
	"github.com/chriserin/gherkin/internal/loader"
	"github.com/chriserin/gherkin/internal/ui"
)

var watchFlag bool

var indexCmd = &cobra.Command{
	Use:   "index [path...]",
	Short: "Store parsed scenarios in the index database",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return err
		}
		if err := RunIndex(cmd.Context(), cmd.OutOrStdout(), env, args); err != nil && !watchFlag {
			return err
		}
		if watchFlag {
			return RunWatch(cmd.Context(), cmd.OutOrStdout(), env, args)
		}
		return nil
	},
}

func init() {
	indexCmd.Flags().BoolVar(&watchFlag, "watch", false, "Keep running and re-index files as they change")
	rootCmd.AddCommand(indexCmd)
}

// RunIndex parses every feature file under paths and stores the result.
// Indexed files that no longer exist are dropped.
func RunIndex(ctx context.Context, w io.Writer, env Env, paths []string) error {
	sqlDB, err := db.Open(env.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer sqlDB.Close()
	store := index.NewStore(sqlDB, env.Log)

	results, err := load(ctx, env, paths)
	if err != nil {
		return err
	}

	count := 0
	for _, r := range results {
		if r.Err != nil {
			ui.ErrorLine(w, r.Path, r.Err)
			continue
		}
		if r.Feature == nil {
			continue
		}
		change, err := store.Save(ctx, index.Transform(r.Feature, r.Content))
		if err != nil {
			return err
		}
		ui.ChangeLine(w, change.String(), r.Path)
		count++
	}

	if err := prune(ctx, w, store); err != nil {
		return err
	}
	ui.SummaryLine(w, "indexed", count)
	return failures(results)
}

func prune(ctx context.Context, w io.Writer, store *index.Store) error {
	indexed, err := store.Paths(ctx)
	if err != nil {
		return err
	}
	for _, p := range indexed {
		if _, err := os.Stat(p); !errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if _, err := store.Remove(ctx, p); err != nil {
			return err
		}
		ui.ChangeLine(w, "del", p)
	}
	return nil
}

// RunWatch re-indexes feature files under paths whenever they change, until
// ctx is cancelled.
func RunWatch(ctx context.Context, w io.Writer, env Env, paths []string) error {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	sqlDB, err := db.Open(env.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer sqlDB.Close()
	store := index.NewStore(sqlDB, env.Log)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer watcher.Close()

	var roots []string
	for _, p := range paths {
		root, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		roots = append(roots, root)
		if err := watchTree(watcher, root); err != nil {
			return err
		}
	}
	env.Log.Info("watching for changes", "roots", roots)

	opts := loader.Options{Language: env.Language, Log: env.Log}
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			env.Log.Error(err, "watching feature files")
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if err := handleEvent(ctx, w, store, watcher, env, opts, roots, event); err != nil {
				env.Log.Error(err, "re-indexing", "file", event.Name)
			}
		}
	}
}

func handleEvent(ctx context.Context, w io.Writer, store *index.Store, watcher *fsnotify.Watcher, env Env, opts loader.Options, roots []string, event fsnotify.Event) error {
	path, err := filepath.Abs(event.Name)
	if err != nil {
		return err
	}

	if event.Has(fsnotify.Create) {
		if fi, err := os.Stat(path); err == nil && fi.IsDir() {
			return watchTree(watcher, path)
		}
	}
	if !underRoots(roots, path) {
		return nil
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		removed, err := store.Remove(ctx, path)
		if err != nil {
			return err
		}
		if removed {
			ui.ChangeLine(w, "del", path)
		}
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		r := loader.ParseFile(env.Table, opts, path)
		if r.Err != nil {
			ui.ErrorLine(w, r.Path, r.Err)
			return nil
		}
		if r.Feature == nil {
			return nil
		}
		change, err := store.Save(ctx, index.Transform(r.Feature, r.Content))
		if err != nil {
			return err
		}
		if change != index.Unchanged {
			ui.ChangeLine(w, change.String(), path)
		}
	}
	return nil
}

func underRoots(roots []string, path string) bool {
	for _, root := range roots {
		if root == path || loader.IsFeatureFile(root, "", path) {
			return true
		}
	}
	return false
}

// watchTree adds root and every directory below it to the watcher.
func watchTree(watcher *fsnotify.Watcher, root string) error {
	fi, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return watcher.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(p)
		}
		return nil
	})
}
