package index

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/gherkin/internal/db"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	sqlDB, err := db.Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return NewStore(sqlDB, logr.Discard())
}

const loginFeature = `@web
Feature: Login
  Background:
    Given the system is up

  @smoke
  Scenario: User logs in
    Given a user

  Scenario Outline: Role <role>
    Given a <role>

    Examples:
      | role  |
      | admin |
`

func TestStore_SaveAndList(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	change, err := store.Save(ctx, transform(t, loginFeature))
	require.NoError(t, err)
	assert.Equal(t, Created, change)

	rows, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "User logs in", rows[0].Name)
	assert.Equal(t, KindScenario, rows[0].Kind)
	assert.Equal(t, []string{"web", "smoke"}, rows[0].Tags)
	assert.Equal(t, "/features/login.feature", rows[0].Path)
	assert.Equal(t, KindOutline, rows[1].Kind)
	assert.Equal(t, []string{"web"}, rows[1].Tags)
}

func TestStore_ListByTag(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	_, err := store.Save(ctx, transform(t, loginFeature))
	require.NoError(t, err)

	rows, err := store.List(ctx, "@smoke")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "User logs in", rows[0].Name)

	rows, err = store.List(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestStore_SaveUnchangedAndUpdated(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	_, err := store.Save(ctx, transform(t, loginFeature))
	require.NoError(t, err)

	change, err := store.Save(ctx, transform(t, loginFeature))
	require.NoError(t, err)
	assert.Equal(t, Unchanged, change)

	change, err = store.Save(ctx, transform(t, "Feature: Login\n  Scenario: Only one\n    Given a user\n"))
	require.NoError(t, err)
	assert.Equal(t, Updated, change)

	rows, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Only one", rows[0].Name)
	assert.Empty(t, rows[0].Tags)
}

func TestStore_Get(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	_, err := store.Save(ctx, transform(t, loginFeature))
	require.NoError(t, err)

	rows, err := store.List(ctx, "")
	require.NoError(t, err)

	d, err := store.Get(ctx, rows[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Role <role>", d.Name)
	assert.Equal(t, "en", d.Language)
	assert.Equal(t, "  Background:\n    Given the system is up", d.Background)
	assert.Equal(t, []Example{{Index: 1, Name: "Role admin #1", Line: 15}}, d.Examples)
	assert.Equal(t, []string{"web"}, d.Tags)
}

func TestStore_GetMissing(t *testing.T) {
	_, err := openTestStore(t).Get(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_RemoveAndPaths(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	_, err := store.Save(ctx, transform(t, loginFeature))
	require.NoError(t, err)

	paths, err := store.Paths(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"/features/login.feature"}, paths)

	removed, err := store.Remove(ctx, "/features/login.feature")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.Remove(ctx, "/features/login.feature")
	require.NoError(t, err)
	assert.False(t, removed)

	rows, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
