package uploads

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T, maxBytes int64) *Store {
	store, err := NewStore(t.TempDir(), maxBytes)
	require.NoError(t, err)
	return store
}

func TestStore_Save(t *testing.T) {
	store := setupTestStore(t, 1024)

	filename, err := store.Save(strings.NewReader("fake image bytes"), "cover.png")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "cover_"))
	assert.True(t, strings.HasSuffix(filename, ".png"))

	data, err := os.ReadFile(filepath.Join(store.Dir(), filename))
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(data))
}

func TestStore_Save_UppercaseExtension(t *testing.T) {
	store := setupTestStore(t, 1024)

	filename, err := store.Save(strings.NewReader("fake image bytes"), "COVER.JPG")

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(filename, ".jpg"))
}

func TestStore_Save_UnsupportedType(t *testing.T) {
	store := setupTestStore(t, 1024)

	_, err := store.Save(strings.NewReader("#!/bin/sh"), "cover.sh")

	assert.ErrorIs(t, err, ErrUnsupportedType)

	// Nothing persisted, temp file included
	names, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestStore_Save_TooLarge(t *testing.T) {
	store := setupTestStore(t, 8)

	_, err := store.Save(strings.NewReader("definitely more than eight bytes"), "cover.png")

	assert.ErrorIs(t, err, ErrTooLarge)

	names, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestStore_Remove(t *testing.T) {
	store := setupTestStore(t, 1024)

	filename, err := store.Save(strings.NewReader("fake image bytes"), "cover.png")
	require.NoError(t, err)

	err = store.Remove(filename)

	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(store.Dir(), filename))
	assert.True(t, os.IsNotExist(err))
}

func TestStore_Remove_Missing(t *testing.T) {
	store := setupTestStore(t, 1024)

	assert.NoError(t, store.Remove("cover_missing.png"))
}

func TestStore_Remove_PathTraversal(t *testing.T) {
	store := setupTestStore(t, 1024)

	assert.Error(t, store.Remove("../escape.png"))
}

func TestStore_Seed(t *testing.T) {
	store := setupTestStore(t, 1024)

	src := filepath.Join(t.TempDir(), "placeholder.png")
	require.NoError(t, os.WriteFile(src, []byte("original"), 0644))

	require.NoError(t, store.Seed(src, "placeholder.png"))

	// Seeding again never overwrites
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "placeholder.png"), []byte("modified"), 0644))
	require.NoError(t, store.Seed(src, "placeholder.png"))

	data, err := os.ReadFile(filepath.Join(store.Dir(), "placeholder.png"))
	require.NoError(t, err)
	assert.Equal(t, "modified", string(data))
}

func TestStore_List(t *testing.T) {
	store := setupTestStore(t, 1024)

	first, err := store.Save(strings.NewReader("one"), "a.png")
	require.NoError(t, err)
	second, err := store.Save(strings.NewReader("two"), "b.jpg")
	require.NoError(t, err)

	names, err := store.List()

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{first, second}, names)
}
