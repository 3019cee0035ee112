package wordlist

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeList(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadTrimsAndDedupes(t *testing.T) {
	path := writeList(t, "list.txt", "alpha\n  beta  \n\nalpha\ngamma\nbeta\n")

	words, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, words)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestLoadFilesConcatenatesInOrder(t *testing.T) {
	a := writeList(t, "a.txt", "one\ntwo\n")
	b := writeList(t, "b.txt", "three\ntwo\nfour\n")

	words, err := LoadFiles(context.Background(), []string{a, b})
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three", "four"}, words)
}

func TestLoadFilesEmptyInput(t *testing.T) {
	words, err := LoadFiles(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, words)
}

func TestLoadFilesPropagatesErrors(t *testing.T) {
	a := writeList(t, "a.txt", "one\n")
	_, err := LoadFiles(context.Background(), []string{a, filepath.Join(t.TempDir(), "nope.txt")})
	assert.Error(t, err)
}

func TestLoadFilesManyFiles(t *testing.T) {
	// More files than the open-file cap still load, in order.
	paths := make([]string, 10)
	var want []string
	for i := range paths {
		word := string(rune('a' + i))
		paths[i] = writeList(t, word+".txt", word+"\n")
		want = append(want, word)
	}

	words, err := LoadFiles(context.Background(), paths)
	require.NoError(t, err)
	assert.Equal(t, want, words)
}
