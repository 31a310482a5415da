package cmd

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const messyFeature = `Feature:   Login
    Scenario: User logs in
      Given a user
          | name | role |
          | Ann | admin |
      When they log in
`

const tidyFeature = `Feature: Login

  Scenario: User logs in
    Given a user
      | name | role  |
      | Ann  | admin |
    When they log in
`

func TestFmt_RewritesFile(t *testing.T) {
	dir := inTempDir(t)
	path := writeFeature(t, dir, "login.feature", messyFeature)

	var buf bytes.Buffer
	require.NoError(t, RunFmt(ctx, &buf, testEnv(t, dir), nil, FmtOptions{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, tidyFeature, string(data))
	assert.Contains(t, buf.String(), "upd  "+path)
}

func TestFmt_FormattedFileUntouched(t *testing.T) {
	dir := inTempDir(t)
	writeFeature(t, dir, "login.feature", tidyFeature)

	var buf bytes.Buffer
	require.NoError(t, RunFmt(ctx, &buf, testEnv(t, dir), nil, FmtOptions{Check: true}))
	assert.Empty(t, buf.String())
}

func TestFmt_Check(t *testing.T) {
	dir := inTempDir(t)
	path := writeFeature(t, dir, "login.feature", messyFeature)

	var buf bytes.Buffer
	err := RunFmt(ctx, &buf, testEnv(t, dir), nil, FmtOptions{Check: true})
	assert.EqualError(t, err, "1 files need formatting")
	assert.Contains(t, buf.String(), "fmt  "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, messyFeature, string(data))
}

func TestFmt_Diff(t *testing.T) {
	dir := inTempDir(t)
	writeFeature(t, dir, "login.feature", messyFeature)

	var buf bytes.Buffer
	require.NoError(t, RunFmt(ctx, &buf, testEnv(t, dir), nil, FmtOptions{Diff: true}))
	out := buf.String()

	assert.Contains(t, out, "-Feature:   Login")
	assert.Contains(t, out, "+Feature: Login")
	assert.Contains(t, out, "+      | Ann  | admin |")
}

func TestFmt_SkipsFilesWithComments(t *testing.T) {
	dir := inTempDir(t)
	content := "Feature: Login\n  # keep me\n    Scenario: One\n      Given a user\n"
	path := writeFeature(t, dir, "login.feature", content)

	var buf bytes.Buffer
	require.NoError(t, RunFmt(ctx, &buf, testEnv(t, dir), nil, FmtOptions{}))
	assert.Contains(t, buf.String(), "skip  "+path+" (contains comments)")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestFmt_HashInsideDocStringIsNotAComment(t *testing.T) {
	dir := inTempDir(t)
	path := writeFeature(t, dir, "doc.feature", `# language: fr
Fonctionnalité: Doc
  Scénario: Un
    Soit un texte
      """
      # titre
      """
`)

	var buf bytes.Buffer
	require.NoError(t, RunFmt(ctx, &buf, testEnv(t, dir), nil, FmtOptions{}))
	assert.NotContains(t, buf.String(), "skip")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# language: fr\nFonctionnalité: Doc\n")
	assert.Contains(t, string(data), "      # titre\n")
}
