package domain

import (
	"context"
	"io"
)

// FileInfo то, что файловая система знает о пути.
type FileInfo struct {
	Name  string
	Size  int64
	IsDir bool
}

// DirEntry элемент перечисления директории, без stat.
type DirEntry struct {
	Name  string
	IsDir bool
}

// Kind строка типа для строки листинга.
func (e DirEntry) Kind() string {
	if e.IsDir {
		return KindDirectory
	}
	return KindFile
}

// ResolvedPath полный путь в файловой системе вместе с исходным URI запроса.
type ResolvedPath struct {
	URI      string
	FullPath string
}

// IsDirectory запрос листинга определяется только завершающим разделителем.
func (p ResolvedPath) IsDirectory() bool {
	return len(p.URI) > 0 && p.URI[len(p.URI)-1] == PathSeparator[0]
}

// FileSystem смонтированная файловая система, только чтение.
type FileSystem interface {
	Stat(path string) (FileInfo, error)
	Open(path string) (io.ReadCloser, error)
	ReadDirectory(path string) ([]DirEntry, error)
}

// ResponseSink то, куда пишется ответ.
// SendChunk не должен удерживать переданный срез после возврата: буфер переиспользуется.
// Пустой чанк завершает тело и отправляется ровно один раз.
type ResponseSink interface {
	SetStatus(code int)
	SetContentType(contentType string)
	SendChunk(chunk []byte) error
	Send(body string) error
}

// ScratchBuffers источник буферов для передачи файлов.
// release обязательно вызвать после передачи.
type ScratchBuffers interface {
	Acquire(ctx context.Context) (buf []byte, release func(), err error)
	Size() int
}

// FileDownload сценарий скачивания, единственная точка входа.
type FileDownload interface {
	Download(ctx context.Context, sink ResponseSink, uri string)
}
