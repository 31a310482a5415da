package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/gherkin/keywords"
)

func generateFeature(name string, scenarioCount int) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "@%s\nFeature: %s\n", name, name)
	buf.WriteString("  Background:\n")
	buf.WriteString("    Given the system is running\n\n")
	for i := 1; i <= scenarioCount; i++ {
		if i%5 == 0 {
			fmt.Fprintf(&buf, "  Scenario Outline: %s outline %d with <value>\n", name, i)
			buf.WriteString("    Given the value <value>\n\n")
			buf.WriteString("    Examples:\n      | value |\n      | 1     |\n      | 2     |\n\n")
			continue
		}
		fmt.Fprintf(&buf, "  @smoke\n  Scenario: %s scenario %d\n", name, i)
		fmt.Fprintf(&buf, "    Given precondition %d\n", i)
		fmt.Fprintf(&buf, "    When action %d is taken\n", i)
		fmt.Fprintf(&buf, "    Then result %d is observed\n\n", i)
	}
	return buf.String()
}

func setupBenchProject(b *testing.B, fileCount, scenariosPerFile int) Env {
	b.Helper()
	dir := b.TempDir()
	orig, err := os.Getwd()
	require.NoError(b, err)
	require.NoError(b, os.Chdir(dir))
	b.Cleanup(func() { os.Chdir(orig) })

	for i := 0; i < fileCount; i++ {
		name := fmt.Sprintf("feature_%d", i)
		content := generateFeature(name, scenariosPerFile)
		require.NoError(b, os.WriteFile(filepath.Join(dir, name+".feature"), []byte(content), 0o644))
	}
	return Env{
		Table:    keywords.Default(),
		Log:      logr.Discard(),
		Language: keywords.DefaultLanguage,
		DBPath:   filepath.Join(dir, "gherkin.db"),
	}
}

// BenchmarkParse_Large: 50 files, 50 scenarios each
func BenchmarkParse_Large(b *testing.B) {
	env := setupBenchProject(b, 50, 50)
	var buf bytes.Buffer
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		require.NoError(b, RunParse(ctx, &buf, env, nil))
	}
}

// BenchmarkIndex_Incremental_Small: 5 files, 10 scenarios each, no changes
func BenchmarkIndex_Incremental_Small(b *testing.B) {
	env := setupBenchProject(b, 5, 10)
	var buf bytes.Buffer
	require.NoError(b, RunIndex(ctx, &buf, env, nil))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		require.NoError(b, RunIndex(ctx, &buf, env, nil))
	}
}

// BenchmarkIndex_Incremental_Large: 50 files, 50 scenarios each, no changes
func BenchmarkIndex_Incremental_Large(b *testing.B) {
	env := setupBenchProject(b, 50, 50)
	var buf bytes.Buffer
	require.NoError(b, RunIndex(ctx, &buf, env, nil))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		require.NoError(b, RunIndex(ctx, &buf, env, nil))
	}
}

// BenchmarkIndex_FirstRun_Large: initial index of 50 files, 50 scenarios each
func BenchmarkIndex_FirstRun_Large(b *testing.B) {
	env := setupBenchProject(b, 50, 50)
	var buf bytes.Buffer
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		if err := os.Remove(env.DBPath); err != nil && !os.IsNotExist(err) {
			b.Fatal(err)
		}
		buf.Reset()
		b.StartTimer()
		require.NoError(b, RunIndex(ctx, &buf, env, nil))
	}
}
