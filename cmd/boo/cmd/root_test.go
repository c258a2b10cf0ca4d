package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadSourcePrefersEvalOverFileArgument(t *testing.T) {
	source, label, err := readSource("1 + 2", []string{"ignored.boo"})
	require.NoError(t, err)
	require.Equal(t, "1 + 2", source)
	require.Equal(t, "<eval>", label)
}

func TestReadSourceReadsTheGivenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.boo")
	require.NoError(t, os.WriteFile(path, []byte("print(\"hi\")"), 0o644))

	source, label, err := readSource("", []string{path})
	require.NoError(t, err)
	require.Equal(t, "print(\"hi\")", source)
	require.Equal(t, path, label)
}

func TestReadSourceOnMissingFileIsAnError(t *testing.T) {
	_, _, err := readSource("", []string{filepath.Join(t.TempDir(), "missing.boo")})
	require.Error(t, err)
}

func TestReadSourceWithNeitherEvalNorFileIsAnError(t *testing.T) {
	_, _, err := readSource("", nil)
	require.Error(t, err)
}
