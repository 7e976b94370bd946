package usecases

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"flash-fileserver/internal/domain"
)

func TestFileDownloadUseCase_ResolvePath(t *testing.T) {
	tests := []struct {
		name     string
		basePath string
		uri      string
		want     string
		wantErr  error
	}{
		{"directory keeps trailing separator", "/data", "/dl/reports/", "/data/reports/", nil},
		{"file", "/data", "/dl/reports/a.txt", "/data/reports/a.txt", nil},
		{"root listing", "/data", "/dl/", "/data/", nil},
		{"base with trailing separator", "/data/", "/dl/a.txt", "/data/a.txt", nil},
		{"dots inside names are fine", "/data", "/dl/..hidden/a..b", "/data/..hidden/a..b", nil},
		{"parent segment", "/data", "/dl/../secret", "", domain.ErrPathTraversal},
		{"trailing parent segment", "/data", "/dl/reports/..", "", domain.ErrPathTraversal},
		{"NUL byte", "/data", "/dl/a\x00.txt", "", domain.ErrPathTraversal},
		{"exactly at limit", "/data", "/dl/" + strings.Repeat("a", 58), "/data/" + strings.Repeat("a", 58), nil},
		{"one over limit", "/data", "/dl/" + strings.Repeat("a", 59), "", domain.ErrPathTooLong},
		{"missing prefix", "/data", "/reports/a.txt", "", domain.ErrFileNotFound},
		{"prefix is only a name prefix", "/data", "/dlx/a.txt", "", domain.ErrFileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Storage.BasePath = tt.basePath
			uc := NewFileDownloadUseCase(&mockFileSystem{}, &stubBuffers{}, cfg)

			result, err := uc.ResolvePath(tt.uri)
			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "expected error %v, got %v", tt.wantErr, err)
				assert.Empty(t, result.FullPath)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, result.FullPath)
			assert.Equal(t, tt.uri, result.URI)
			assert.LessOrEqual(t, len(result.FullPath), cfg.Storage.MaxPathLength)
		})
	}
}

func TestResolvedPath_IsDirectory(t *testing.T) {
	assert.True(t, domain.ResolvedPath{URI: "/dl/"}.IsDirectory())
	assert.True(t, domain.ResolvedPath{URI: "/dl/reports/"}.IsDirectory())
	assert.False(t, domain.ResolvedPath{URI: "/dl/reports"}.IsDirectory())
	assert.False(t, domain.ResolvedPath{URI: ""}.IsDirectory())
}
