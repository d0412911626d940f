package ingestion

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDocumentText_Txt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.txt")
	require.NoError(t, os.WriteFile(path, []byte("Ada Lovelace\r\n\r\n\r\nPython:  advanced"), 0o644))

	text, err := ExtractDocumentText(path)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace\n\nPython: advanced", text)
}

func TestExtractDocumentText_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.odp")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := ExtractDocumentText(path)
	require.Error(t, err)

	var unsupported *UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, ".odp", unsupported.Ext)
}

func TestExtractDocumentText_MissingFile(t *testing.T) {
	_, err := ExtractDocumentText(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestExtractUploadText_Txt(t *testing.T) {
	text, err := ExtractUploadText(t.TempDir(), "cv.txt", strings.NewReader("Ada Lovelace"))
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", text)
}

func TestExtractUploadText_RejectsUnknownExtensionBeforeSaving(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")

	_, err := ExtractUploadText(dir, "cv.exe", strings.NewReader("x"))
	require.Error(t, err)

	var unsupported *UnsupportedFormatError
	assert.ErrorAs(t, err, &unsupported)

	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr), "upload dir should not be created for rejected formats")
}

func TestExtractUploadText_CleansUpTempFile(t *testing.T) {
	dir := t.TempDir()

	_, err := ExtractUploadText(dir, "cv.txt", strings.NewReader("some text"))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temp upload should be removed after extraction")
}
