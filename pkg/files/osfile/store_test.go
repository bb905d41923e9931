package osfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/filetug/filepick/pkg/files"
	"github.com/stretchr/testify/assert"
)

func TestNewStore(t *testing.T) {
	origHostname := osHostname
	defer func() { osHostname = origHostname }()

	t.Run("valid_root", func(t *testing.T) {
		osHostname = func() (string, error) {
			return "test-host", nil
		}
		s := NewStore("/tmp")
		assert.NotNil(t, s)
		assert.Equal(t, "/tmp", s.root)
		assert.Equal(t, "🖥️test-host", s.title)
	})

	t.Run("hostname_error", func(t *testing.T) {
		osHostname = func() (string, error) {
			return "", errors.New("hostname error")
		}
		s := NewStore("/tmp")
		assert.NotNil(t, s)
		assert.Equal(t, "🖥️hostname error", s.title)
	})

	t.Run("empty_root_defaults_to_slash", func(t *testing.T) {
		s := NewStore("")
		assert.Equal(t, "/", s.root)
	})
}

func TestStore_RootURL(t *testing.T) {
	s := NewStore("/tmp")
	u := s.RootURL()
	assert.Equal(t, "file", u.Scheme)
	assert.Equal(t, "/tmp", u.Path)
}

func TestStore_RootTitle(t *testing.T) {
	s := Store{title: "my-host.station"}
	assert.Equal(t, "my-host", s.RootTitle())

	s = Store{title: "my-host"}
	assert.Equal(t, "my-host", s.RootTitle())
}

func newTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	assert.NoError(t, os.Mkdir(filepath.Join(root, "docs"), 0755))
	assert.NoError(t, os.WriteFile(filepath.Join(root, "readme.txt"), make([]byte, 120), 0644))
	assert.NoError(t, os.WriteFile(filepath.Join(root, "docs", "a.elf"), []byte("elf"), 0644))
	return root
}

func readAll(t *testing.T, s *Store, path string) []files.DirEntry {
	t.Helper()
	ctx := context.Background()
	h, err := s.OpenDir(ctx, path)
	if !assert.NoError(t, err) {
		return nil
	}
	defer func() {
		assert.NoError(t, h.Close())
	}()
	n, err := h.Count(ctx)
	assert.NoError(t, err)
	entries, err := h.Read(ctx, n)
	assert.NoError(t, err)
	return entries
}

func TestStore_OpenDir(t *testing.T) {
	root := newTree(t)
	s := NewStore(root)

	t.Run("root", func(t *testing.T) {
		entries := readAll(t, s, "/")
		assert.Len(t, entries, 2)
		byName := map[string]files.DirEntry{}
		for _, e := range entries {
			byName[e.Name()] = e
		}
		assert.Equal(t, files.KindDirectory, byName["docs"].Kind())
		assert.Equal(t, files.KindFile, byName["readme.txt"].Kind())
		assert.Equal(t, int64(120), byName["readme.txt"].Size())
	})

	t.Run("subdir", func(t *testing.T) {
		entries := readAll(t, s, "/docs/")
		if assert.Len(t, entries, 1) {
			assert.Equal(t, "a.elf", entries[0].Name())
		}
	})

	t.Run("read_less_than_count", func(t *testing.T) {
		ctx := context.Background()
		h, err := s.OpenDir(ctx, "/")
		assert.NoError(t, err)
		defer func() { _ = h.Close() }()
		entries, err := h.Read(ctx, 1)
		assert.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("not_a_directory", func(t *testing.T) {
		h, err := s.OpenDir(context.Background(), "/readme.txt")
		assert.ErrorIs(t, err, files.ErrNotDirectory)
		assert.Nil(t, h)
	})

	t.Run("missing", func(t *testing.T) {
		h, err := s.OpenDir(context.Background(), "/nope/")
		assert.Error(t, err)
		assert.True(t, os.IsNotExist(err))
		assert.Nil(t, h)
	})

	t.Run("context_cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		h, err := s.OpenDir(ctx, "/")
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, h)
	})

	t.Run("open_error", func(t *testing.T) {
		origOsOpen := osOpen
		defer func() { osOpen = origOsOpen }()
		osOpen = func(name string) (*os.File, error) {
			return nil, errors.New("open error")
		}
		h, err := s.OpenDir(context.Background(), "/")
		assert.EqualError(t, err, "open error")
		assert.Nil(t, h)
	})
}
