package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/gherkin/keywords"
)

func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(orig) })
	return dir
}

func testEnv(t *testing.T, dir string) Env {
	t.Helper()
	return Env{
		Table:    keywords.Default(),
		Log:      logr.Discard(),
		Language: keywords.DefaultLanguage,
		DBPath:   filepath.Join(dir, "gherkin.db"),
	}
}

func writeFeature(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

var ctx = context.Background()

const loginFeature = `@web
Feature: Login
  Background:
    Given the system is up

  @smoke
  Scenario: User logs in
    Given a user
    When they log in
    Then they see the dashboard

  Scenario Outline: Greet <name>
    Given a person called <name>

    Examples:
      | name |
      | Ann  |
      | Bob  |
`
