package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStorage(t *testing.T) *DirStorage {
	t.Helper()
	st, err := NewDirStorage(t.TempDir())
	require.NoError(t, err)
	return st
}

func TestListSkipsHiddenAndDirs(t *testing.T) {
	st := newStorage(t)

	require.NoError(t, st.Write("a.js", []byte("x")))
	require.NoError(t, st.Write(".manifest.json", []byte("{}")))
	require.NoError(t, st.MkdirAll("sub"))

	files, err := st.List()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "a.js", files[0].Name)
	assert.EqualValues(t, 1, files[0].Size)
	assert.False(t, files[0].LastModified.IsZero())
}

func TestReadWriteExists(t *testing.T) {
	st := newStorage(t)

	assert.False(t, st.Exists("a.js"))
	require.NoError(t, st.Write("a.js", []byte("body")))
	assert.True(t, st.Exists("a.js"))

	data, err := st.Read("a.js")
	require.NoError(t, err)
	assert.Equal(t, "body", string(data))

	_, err = st.Read("missing.js")
	assert.Error(t, err)
}

func TestTrashMovesFile(t *testing.T) {
	st := newStorage(t)

	require.NoError(t, st.Write("a.js", []byte("x")))
	require.NoError(t, st.Trash("a.js"))

	assert.False(t, st.Exists("a.js"))
	assert.True(t, st.Exists(filepath.Join(TrashDir, "a.js")))
}

func TestTrashCollisionKeepsBoth(t *testing.T) {
	st := newStorage(t)

	require.NoError(t, st.Write("a.js", []byte("first")))
	require.NoError(t, st.Trash("a.js"))
	require.NoError(t, st.Write("a.js", []byte("second")))
	require.NoError(t, st.Trash("a.js"))

	entries, err := os.ReadDir(filepath.Join(st.Root(), TrashDir))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRemoveDirTree(t *testing.T) {
	st := newStorage(t)

	require.NoError(t, st.MkdirAll(filepath.Join(".require", "a.js")))
	require.NoError(t, st.Write(filepath.Join(".require", "a.js", "dep.js"), []byte("x")))

	require.NoError(t, st.Remove(filepath.Join(".require", "a.js")))
	assert.False(t, st.Exists(filepath.Join(".require", "a.js")))

	// removing something absent is not an error
	assert.NoError(t, st.Remove("nope"))
}
