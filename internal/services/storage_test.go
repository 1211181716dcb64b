package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageService_SaveAndDelete(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	storage := NewStorageService(dir)

	name, path, err := storage.SaveFile("My CV.DOCX", []byte("content"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(name, "resume_"))
	assert.True(t, strings.HasSuffix(name, ".docx"))
	assert.Equal(t, filepath.Join(dir, name), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))

	require.NoError(t, storage.DeleteFile(name))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestStorageService_RejectsOtherExtensions(t *testing.T) {
	storage := NewStorageService(t.TempDir())

	_, _, err := storage.SaveFile("notes.txt", []byte("x"))
	assert.ErrorContains(t, err, "invalid file extension: .txt")
}

func TestStorageService_GetFilePathStaysInUploadDir(t *testing.T) {
	storage := NewStorageService("/uploads")
	assert.Equal(t, "/uploads/passwd", storage.GetFilePath("../../etc/passwd"))
}
