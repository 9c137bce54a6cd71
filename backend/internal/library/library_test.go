package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"vincit.fi/picture-triage/api/apitype"
)

func touch(t *testing.T, parts ...string) string {
	t.Helper()
	path := filepath.Join(parts...)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	return path
}

func paths(files []*apitype.ImageFile) []string {
	var result []string
	for _, f := range files {
		result = append(result, f.Path())
	}
	return result
}

func TestIsSupported(t *testing.T) {
	a := assert.New(t)

	for _, name := range []string{"a.jpg", "a.JPEG", "a.png", "a.Gif", "a.bmp", "a.webp", "a.SVG"} {
		a.True(IsSupported(name), name)
	}
	for _, name := range []string{"a.txt", "a", "jpg", "a.jpg.bak", "a.tiff"} {
		a.False(IsSupported(name), name)
	}
}

func TestLoadImageFiles(t *testing.T) {
	t.Run("Recurses and filters by extension", func(t *testing.T) {
		a := assert.New(t)
		root := t.TempDir()
		b := touch(t, root, "b.png")
		a1 := touch(t, root, "a.JPG")
		nested := touch(t, root, "sub", "deeper", "c.gif")
		touch(t, root, "notes.txt")
		touch(t, root, "sub", "readme.md")

		lib, err := NewImageLibrary(nil)
		require.NoError(t, err)

		a.Equal([]string{a1, b, nested}, paths(lib.LoadImageFiles(root)))
	})
	t.Run("Empty directory", func(t *testing.T) {
		lib, err := NewImageLibrary(nil)
		require.NoError(t, err)

		assert.Empty(t, lib.LoadImageFiles(t.TempDir()))
	})
	t.Run("Missing directory yields nothing", func(t *testing.T) {
		lib, err := NewImageLibrary(nil)
		require.NoError(t, err)

		assert.Empty(t, lib.LoadImageFiles(filepath.Join(t.TempDir(), "missing")))
	})
	t.Run("Excluded paths are skipped", func(t *testing.T) {
		a := assert.New(t)
		root := t.TempDir()
		kept := touch(t, root, "keep.png")
		touch(t, root, "save", "old.png")
		touch(t, root, "delete", "nested", "old.jpg")
		touch(t, root, "skip-me.jpg")

		lib, err := NewImageLibrary([]string{"save", "delete", "skip-*"})
		require.NoError(t, err)

		a.Equal([]string{kept}, paths(lib.LoadImageFiles(root)))
	})
	t.Run("ImageFile has directory and name", func(t *testing.T) {
		a := assert.New(t)
		root := t.TempDir()
		touch(t, root, "sub", "x.webp")

		lib, err := NewImageLibrary(nil)
		require.NoError(t, err)
		files := lib.LoadImageFiles(root)

		if a.Len(files, 1) {
			a.Equal(filepath.Join(root, "sub"), files[0].Directory())
			a.Equal("x.webp", files[0].FileName())
		}
	})
}

func TestNewImageLibrary_InvalidPattern(t *testing.T) {
	_, err := NewImageLibrary([]string{"[unclosed"})
	assert.Error(t, err)
}
