package localstorage

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"flash-fileserver/internal/domain"
)

// LocalStorageService смонтированная файловая система хоста. Пути приходят уже полными.
type LocalStorageService struct{}

func NewLocalStorageService() *LocalStorageService {
	return &LocalStorageService{}
}

func (s *LocalStorageService) Stat(path string) (domain.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.FileInfo{}, err
	}
	return domain.FileInfo{
		Name:  info.Name(),
		Size:  info.Size(),
		IsDir: info.IsDir(),
	}, nil
}

func (s *LocalStorageService) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// ReadDirectory порядок такой, какой отдаёт ОС. Не сортирую: os.ReadDir сортирует, поэтому через File.ReadDir.
func (s *LocalStorageService) ReadDirectory(path string) ([]domain.DirEntry, error) {
	dir, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := dir.Close(); closeErr != nil {
			logrus.Warnf("Failed to close directory %s: %v", path, closeErr)
		}
	}()

	entries, err := dir.ReadDir(-1)
	if err != nil {
		return nil, err
	}

	result := make([]domain.DirEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, domain.DirEntry{
			Name:  e.Name(),
			IsDir: e.IsDir(),
		})
	}

	return result, nil
}
