package filesystem

import (
	"errors"
	"io"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFileSystem_ReadFile(t *testing.T) {
	mfs := NewMemoryFileSystem("/packages")
	mfs.AddFile("pkg/METS.abc.xml", "<mets/>")

	content, err := mfs.ReadFile("/packages/pkg/METS.abc.xml")
	require.NoError(t, err)
	require.Equal(t, "<mets/>", string(content))

	content, err = mfs.ReadFile("pkg/METS.abc.xml")
	require.NoError(t, err)
	require.Equal(t, "<mets/>", string(content))
}

func TestMemoryFileSystem_MissingPathIsNotExist(t *testing.T) {
	mfs := NewMemoryFileSystem("/packages")

	_, err := mfs.ReadFile("/packages/none.xml")
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	_, err = mfs.ReadDir("/packages/pkg/objects")
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	_, err = mfs.Stat("/nowhere")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestMemoryFileSystem_ReadDir(t *testing.T) {
	mfs := NewMemoryFileSystem("/")
	mfs.AddFile("/pkg/objects/b.tif", "b")
	mfs.AddFile("/pkg/objects/a.tif", "a")
	mfs.AddFile("/pkg/objects/nested/c.txt", "c")
	mfs.AddDir("/pkg/thumbnails")

	entries, err := mfs.ReadDir("/pkg/objects")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "a.tif", entries[0].Name())
	assert.Equal(t, "b.tif", entries[1].Name())
	assert.Equal(t, "nested", entries[2].Name())
	assert.True(t, entries[2].IsDir())

	entries, err = mfs.ReadDir("/pkg")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "thumbnails", entries[1].Name())
}

func TestMemoryFileSystem_ReadDirOnFile(t *testing.T) {
	mfs := NewMemoryFileSystem("/")
	mfs.AddFile("/pkg/file.txt", "x")

	_, err := mfs.ReadDir("/pkg/file.txt")
	require.Error(t, err)
}

func TestMemoryFileSystem_OpenFile(t *testing.T) {
	mfs := NewMemoryFileSystem("/")
	mfs.AddBytes("/pkg/objects/a.bin", []byte{0x00, 0x01, 0x02})

	rc, err := mfs.OpenFile("/pkg/objects/a.bin")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x01, 0x02}, data)
}

func TestMemoryFileSystem_Stat(t *testing.T) {
	mfs := NewMemoryFileSystem("/packages")
	mfs.AddFile("pkg/METS.abc.xml", "<mets/>")

	info, err := mfs.Stat("/packages/pkg/METS.abc.xml")
	require.NoError(t, err)
	require.False(t, info.IsDir())
	require.Equal(t, int64(7), info.Size())

	info, err = mfs.Stat("/packages/pkg")
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestMemoryFileSystem_Walk(t *testing.T) {
	mfs := NewMemoryFileSystem("/batch")
	mfs.AddFile("one/METS.1.xml", "")
	mfs.AddFile("one/objects/x.tif", "")
	mfs.AddFile("two/METS.2.xml", "")

	dir, err := mfs.Open("/batch")
	require.NoError(t, err)

	var visited []string
	err = dir.Walk(func(f File, err error) error {
		require.NoError(t, err)
		visited = append(visited, f.RelativePath())
		if f.Info().IsDir() && f.RelativePath() == "one/objects" {
			return fs.SkipDir
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{".", "one", "one/METS.1.xml", "one/objects", "two", "two/METS.2.xml"}, visited)
}

func TestMemoryFileSystem_WalkRecoversPanic(t *testing.T) {
	mfs := NewMemoryFileSystem("/")
	mfs.AddFile("/a/b.txt", "")

	dir, err := mfs.Open("/a")
	require.NoError(t, err)

	err = dir.Walk(func(f File, err error) error {
		panic("boom")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
}

func TestMemoryFileSystem_OpenRejectsFile(t *testing.T) {
	mfs := NewMemoryFileSystem("/")
	mfs.AddFile("/a/b.txt", "")

	_, err := mfs.Open("/a/b.txt")
	require.Error(t, err)
}
