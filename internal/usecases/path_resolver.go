package usecases

import (
	"fmt"
	"strings"

	"flash-fileserver/internal/domain"
)

// ResolvePath строит путь в файловой системе из URI запроса.
// Префикс маршрута отрезается, остаток дописывается к базовому пути как есть,
// завершающий разделитель сохраняется. Никаких обращений к файловой системе здесь нет.
func (uc *FileDownloadUseCase) ResolvePath(uri string) (domain.ResolvedPath, error) {
	prefix := uc.cfg.Routes.Download
	if !strings.HasPrefix(uri, prefix) {
		return domain.ResolvedPath{}, fmt.Errorf("uri '%s' is outside of '%s': %w", uri, prefix, domain.ErrFileNotFound)
	}

	suffix := uri[len(prefix):]
	if suffix != domain.PathEmpty && !strings.HasPrefix(suffix, domain.PathSeparator) {
		return domain.ResolvedPath{}, fmt.Errorf("uri '%s' is outside of '%s': %w", uri, prefix, domain.ErrFileNotFound)
	}

	if strings.ContainsRune(suffix, 0) {
		return domain.ResolvedPath{}, fmt.Errorf("uri contains NUL: %w", domain.ErrPathTraversal)
	}
	for _, segment := range strings.Split(suffix, domain.PathSeparator) {
		if segment == domain.PathTraversalPrefix {
			return domain.ResolvedPath{}, fmt.Errorf("path traversal detected in '%s': %w", uri, domain.ErrPathTraversal)
		}
	}

	base := strings.TrimRight(uc.cfg.Storage.BasePath, domain.PathSeparator)
	fullPath := base + suffix
	if err := uc.checkPathLength(fullPath); err != nil {
		return domain.ResolvedPath{}, err
	}

	return domain.ResolvedPath{URI: uri, FullPath: fullPath}, nil
}

// checkPathLength путь длиннее лимита это ошибка, не обрезаю.
func (uc *FileDownloadUseCase) checkPathLength(fullPath string) error {
	if limit := uc.cfg.Storage.MaxPathLength; len(fullPath) > limit {
		return fmt.Errorf("path '%s' too long (%d > %d): %w", fullPath, len(fullPath), limit, domain.ErrPathTooLong)
	}
	return nil
}
