package localstorage

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flash-fileserver/internal/domain"
)

func TestLocalStorageService_Stat(t *testing.T) {
	tmpDir := t.TempDir()
	service := NewLocalStorageService()

	t.Run("file", func(t *testing.T) {
		filePath := filepath.Join(tmpDir, "a.txt")
		require.NoError(t, os.WriteFile(filePath, []byte("0123456789"), 0o644))

		info, err := service.Stat(filePath)
		require.NoError(t, err)
		assert.Equal(t, "a.txt", info.Name)
		assert.Equal(t, int64(10), info.Size)
		assert.False(t, info.IsDir)
	})

	t.Run("directory", func(t *testing.T) {
		dirPath := filepath.Join(tmpDir, "sub")
		require.NoError(t, os.Mkdir(dirPath, 0o755))

		info, err := service.Stat(dirPath + "/")
		require.NoError(t, err)
		assert.True(t, info.IsDir)
	})

	t.Run("nonexistent", func(t *testing.T) {
		_, err := service.Stat(filepath.Join(tmpDir, "missing"))
		assert.True(t, os.IsNotExist(err))
	})
}

func TestLocalStorageService_Open(t *testing.T) {
	tmpDir := t.TempDir()
	service := NewLocalStorageService()

	t.Run("success", func(t *testing.T) {
		content := strings.Repeat("x", 1024*64)
		filePath := filepath.Join(tmpDir, "large.bin")
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))

		rc, err := service.Open(filePath)
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, content, string(data))
	})

	t.Run("nonexistent", func(t *testing.T) {
		_, err := service.Open(filepath.Join(tmpDir, "missing"))
		assert.Error(t, err)
	})
}

func TestLocalStorageService_ReadDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	service := NewLocalStorageService()

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "a.txt"), []byte("content"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "sub"), 0o755))
	// битая ссылка перечисляется, но stat по ней падает.
	require.NoError(t, os.Symlink(filepath.Join(tmpDir, "gone"), filepath.Join(tmpDir, "broken")))

	t.Run("lists all entries without stat", func(t *testing.T) {
		entries, err := service.ReadDirectory(tmpDir + "/")
		require.NoError(t, err)
		require.Len(t, entries, 3)

		byName := make(map[string]domain.DirEntry, len(entries))
		for _, e := range entries {
			byName[e.Name] = e
		}
		assert.False(t, byName["a.txt"].IsDir)
		assert.True(t, byName["sub"].IsDir)
		assert.Equal(t, domain.KindDirectory, byName["sub"].Kind())
		assert.Equal(t, domain.KindFile, byName["broken"].Kind())

		_, statErr := service.Stat(filepath.Join(tmpDir, "broken"))
		assert.Error(t, statErr)
	})

	t.Run("nonexistent directory", func(t *testing.T) {
		_, err := service.ReadDirectory(filepath.Join(tmpDir, "missing") + "/")
		assert.Error(t, err)
	})

	t.Run("file is not a directory", func(t *testing.T) {
		_, err := service.ReadDirectory(filepath.Join(tmpDir, "a.txt"))
		assert.Error(t, err)
	})
}
