package fsutils

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

type sample struct {
	Name  string `yaml:"name" toml:"name"`
	Count int    `yaml:"count" toml:"count"`
}

func writeTemp(t *testing.T, pattern, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), pattern)
	assert.NoError(t, err)
	_, err = tmpFile.WriteString(content)
	assert.NoError(t, err)
	assert.NoError(t, tmpFile.Close())
	return tmpFile.Name()
}

func TestReadYAMLFile(t *testing.T) {
	t.Run("empty_not_required", func(t *testing.T) {
		var s sample
		err := ReadYAMLFile("", false, &s)
		assert.NoError(t, err)
	})

	t.Run("not_found_not_required", func(t *testing.T) {
		var s sample
		err := ReadYAMLFile("non_existent.yaml", false, &s)
		assert.NoError(t, err)
	})

	t.Run("not_found_required", func(t *testing.T) {
		var s sample
		err := ReadYAMLFile("non_existent.yaml", true, &s)
		assert.Error(t, err)
	})

	t.Run("success", func(t *testing.T) {
		var s sample
		err := ReadYAMLFile(writeTemp(t, "*.yaml", "name: sd\ncount: 3\n"), true, &s)
		assert.NoError(t, err)
		assert.Equal(t, sample{Name: "sd", Count: 3}, s)
	})

	t.Run("empty_file", func(t *testing.T) {
		s := sample{Name: "kept"}
		err := ReadYAMLFile(writeTemp(t, "*.yaml", ""), true, &s)
		assert.NoError(t, err)
		assert.Equal(t, "kept", s.Name)
	})

	t.Run("invalid_yaml", func(t *testing.T) {
		var s sample
		err := ReadYAMLFile(writeTemp(t, "*.yaml", "name: [unclosed"), true, &s)
		assert.Error(t, err)
	})
}

func TestReadTOMLFile(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var s sample
		err := ReadTOMLFile(writeTemp(t, "*.toml", "name = \"sd\"\ncount = 2\n"), true, &s)
		assert.NoError(t, err)
		assert.Equal(t, sample{Name: "sd", Count: 2}, s)
	})

	t.Run("unknown_field", func(t *testing.T) {
		var s sample
		err := ReadTOMLFile(writeTemp(t, "*.toml", "nmae = \"sd\"\n"), true, &s)
		assert.Error(t, err)
	})
}

type mockDecoder struct {
	err error
}

func (m mockDecoder) Decode(interface{}) error {
	return m.err
}

func TestReadFile_DecoderError(t *testing.T) {
	name := writeTemp(t, "*.yaml", "x")
	decodeErr := errors.New("decode failed")
	err := ReadFile(name, true, nil, func(r io.Reader) Decoder {
		return mockDecoder{err: decodeErr}
	})
	assert.IsError(t, err, decodeErr)
}

func TestDirExists(t *testing.T) {
	dir := t.TempDir()
	exists, err := DirExists(dir)
	assert.NoError(t, err)
	assert.True(t, exists)

	exists, err = DirExists(filepath.Join(dir, "missing"))
	assert.NoError(t, err)
	assert.False(t, exists)

	_, err = DirExists("path\x00with-null")
	assert.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	orig := osUserHomeDir
	defer func() { osUserHomeDir = orig }()
	osUserHomeDir = func() (string, error) { return "/home/u", nil }

	assert.Equal(t, "", ExpandHome(""))
	assert.Equal(t, "/home/u", ExpandHome("~"))
	assert.Equal(t, filepath.Join("/home/u", ".filepick"), ExpandHome("~/.filepick"))
	assert.Equal(t, "/etc", ExpandHome("/etc"))

	osUserHomeDir = func() (string, error) { return "", errors.New("no home") }
	assert.Equal(t, "~/x", ExpandHome("~/x"))
}
