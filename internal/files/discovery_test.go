package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string, mod time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	require.NoError(t, os.Chtimes(path, mod, mod))
	return path
}

func TestFindWorkbooks(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	touch(t, dir, "old.xlsx", now.Add(-2*time.Hour))
	touch(t, dir, "new.xlsx", now)
	touch(t, dir, "mid.XLSM", now.Add(-time.Hour))
	touch(t, dir, "notes.txt", now)
	touch(t, dir, "~$new.xlsx", now)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	files, err := FindWorkbooks(dir)
	require.NoError(t, err)
	require.Len(t, files, 3)

	// newest first, lock files and non-workbooks excluded
	assert.Equal(t, "new.xlsx", files[0].Name)
	assert.Equal(t, "mid.XLSM", files[1].Name)
	assert.Equal(t, "old.xlsx", files[2].Name)
}

func TestFindWorkbooks_MissingDir(t *testing.T) {
	_, err := FindWorkbooks(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestLatestWorkbook(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	touch(t, dir, "a.xlsx", now.Add(-time.Hour))
	want := touch(t, dir, "b.xlsx", now)

	latest, err := LatestWorkbook(dir)
	require.NoError(t, err)
	assert.Equal(t, want, latest.Path)
}

func TestLatestWorkbook_Empty(t *testing.T) {
	_, err := LatestWorkbook(t.TempDir())
	assert.Error(t, err)
}
