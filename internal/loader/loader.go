// Package loader finds feature files on disk and parses them in parallel.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/chriserin/gherkin/keywords"
	"github.com/chriserin/gherkin/node"
	"github.com/chriserin/gherkin/parser"
)

const DefaultPattern = "**/*.feature"

type Options struct {
	// Pattern selects files below a root directory. Defaults to
	// DefaultPattern.
	Pattern string
	// Workers bounds the number of files parsed at once. Defaults to
	// GOMAXPROCS.
	Workers int
	// Language is used for files without a language directive.
	Language string
	Log      logr.Logger
}

// Result is the outcome of parsing one file. Err is set when the file could
// not be read or did not parse; Feature is nil for an empty document.
type Result struct {
	Path    string
	Content string
	Feature *node.Feature
	Err     error
}

// Discover returns the absolute, sorted paths of the files under root that
// match pattern. A root that names a file is returned as is.
func Discover(root, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return []string{abs}, nil
	}

	matches, err := doublestar.Glob(os.DirFS(abs), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", abs, err)
	}
	paths := make([]string, len(matches))
	for i, m := range matches {
		paths[i] = filepath.Join(abs, filepath.FromSlash(m))
	}
	slices.Sort(paths)
	return paths, nil
}

// Load discovers and parses every feature file under each root.
func Load(ctx context.Context, table keywords.Table, opts Options, roots ...string) ([]Result, error) {
	var paths []string
	for _, root := range roots {
		found, err := Discover(root, opts.Pattern)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}
	slices.Sort(paths)
	return ParseFiles(ctx, table, opts, slices.Compact(paths)...)
}

// ParseFiles parses paths concurrently. Results come back in the order of
// paths. Only cancellation of ctx fails the whole call.
func ParseFiles(ctx context.Context, table keywords.Table, opts Options, paths ...string) ([]Result, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]Result, len(paths))

	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(workers)
	for i, path := range paths {
		grp.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = ParseFile(table, opts, path)
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ParseFile reads and parses a single file. Parsers are not shared, so it is
// safe to call from several goroutines.
func ParseFile(table keywords.Table, opts Options, path string) Result {
	log := opts.Log.WithValues("file", path)

	abs, err := filepath.Abs(path)
	if err != nil {
		return Result{Path: path, Err: err}
	}
	res := Result{Path: abs}

	data, err := os.ReadFile(abs)
	if err != nil {
		res.Err = err
		return res
	}
	res.Content = string(data)

	popts := []parser.Option{parser.WithLogger(log)}
	if opts.Language != "" {
		popts = append(popts, parser.WithLanguage(opts.Language))
	}
	res.Feature, res.Err = parser.New(table, popts...).Parse(res.Content, abs)
	if res.Err != nil {
		log.V(1).Info("parse failed", "error", res.Err)
	}
	return res
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// IsFeatureFile reports whether path matches pattern relative to root.
func IsFeatureFile(root, pattern, path string) bool {
	if pattern == "" {
		pattern = DefaultPattern
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	ok, _ := doublestar.Match(pattern, filepath.ToSlash(rel))
	return ok
}
