package storage

import (
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("stream interrupted")
}

func TestGenerateNameStripsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name := store.GenerateName("../../etc/passwd")
	assert.NotContains(t, name, "..")
	assert.NotContains(t, name, "/")
	assert.Contains(t, name, "passwd")
}

func TestGenerateNameUnique(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	a := store.GenerateName("scan.pdf")
	b := store.GenerateName("scan.pdf")
	assert.NotEqual(t, a, b)
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "file", SanitizeName(""))
	assert.Equal(t, "file", SanitizeName("."))
	assert.Equal(t, "passwd", SanitizeName("..\\..\\etc\\passwd"))
	assert.Equal(t, "informe.pdf", SanitizeName("informe.pdf"))
}

func TestSaveOpenDeleteRoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name := store.GenerateName("acta.txt")
	_, err = store.SaveStream(name, strings.NewReader("contenido"))
	require.NoError(t, err)

	file, err := store.Open(name)
	require.NoError(t, err)
	data, err := io.ReadAll(file)
	require.NoError(t, err)
	require.NoError(t, file.Close())
	assert.Equal(t, "contenido", string(data))

	require.NoError(t, store.Delete(name))

	_, err = store.Open(name)
	assert.Error(t, err)
}

func TestSaveStreamCopyFailureRemovesPartialFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	name := store.GenerateName("acta.txt")
	_, err = store.SaveStream(name, failingReader{})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDeleteMissingFileIsNotFatal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Delete("never-stored.bin"))
}
