package storage_test

import (
	"errors"
	"io"
	"os"
	"regexp"
	"strings"
	"testing"
	"testing/iotest"

	"blog/pkg/storage"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const uuidPattern = `[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`

func TestUniqueName(t *testing.T) {
	cases := map[string]string{
		"photo.png":         `^photo` + uuidPattern + `\.png$`,
		"my.holiday.jpeg":   `^my` + uuidPattern + `\.jpeg$`,
		"../../etc/cat.gif": `^cat` + uuidPattern + `\.gif$`,
		`C:\tmp\dog.webp`:   `^dog` + uuidPattern + `\.webp$`,
		"noext":             `^noext` + uuidPattern + `$`,
	}
	for in, pattern := range cases {
		assert.Regexp(t, regexp.MustCompile(pattern), storage.UniqueName(in), in)
	}
	assert.NotEqual(t, storage.UniqueName("a.png"), storage.UniqueName("a.png"))
}

func TestAssetStore_SaveRemove(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := storage.NewAssetStore(fs)

	name, err := store.Save(storage.Upload{Filename: "thumb.png", Size: 5, Content: strings.NewReader("bytes")})
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, name)
	require.NoError(t, err)
	assert.Equal(t, "bytes", string(data))

	ok, err := store.Exists(name)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Remove(name))
	ok, err = store.Exists(name)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, store.Remove(name), os.ErrNotExist)
}

func TestAssetStore_RejectsTraversal(t *testing.T) {
	store := storage.NewAssetStore(afero.NewMemMapFs())

	assert.ErrorIs(t, store.Remove("../secret"), storage.ErrInvalidName)
	assert.ErrorIs(t, store.Remove(""), storage.ErrInvalidName)
	_, err := store.Exists("a/b.png")
	assert.ErrorIs(t, err, storage.ErrInvalidName)

	_, err = store.Save(storage.Upload{Filename: "x.png"})
	assert.Error(t, err)
}

func TestNewDiskAssetStore(t *testing.T) {
	dir := t.TempDir() + "/uploads"
	store, err := storage.NewDiskAssetStore(dir)
	require.NoError(t, err)

	name, err := store.Save(storage.Upload{Filename: "a.txt", Content: strings.NewReader("hi")})
	require.NoError(t, err)
	_, err = os.Stat(dir + "/" + name)
	assert.NoError(t, err)
}

func TestAssetStore_SaveFailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewDiskAssetStore(dir)
	require.NoError(t, err)

	content := io.MultiReader(strings.NewReader("partial"), iotest.ErrReader(errors.New("connection reset")))
	name, err := store.Save(storage.Upload{Filename: "cut.png", Size: 100, Content: content})
	require.Error(t, err)
	assert.Empty(t, name)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
