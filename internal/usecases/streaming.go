package usecases

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"flash-fileserver/internal/domain"
	"flash-fileserver/internal/metrics"
)

// streamFile отдаёт файл чанками через scratch-буфер. Файл и буфер освобождаются на любом выходе.
func (uc *FileDownloadUseCase) streamFile(ctx context.Context, sink domain.ResponseSink, path domain.ResolvedPath) {
	info, err := uc.fs.Stat(path.FullPath)
	if err != nil {
		metrics.RecordDownload(0, metrics.StatusNotFound)
		uc.respondError(sink, fmt.Errorf("failed to stat file '%s': %w: %w", path.FullPath, domain.ErrFileNotFound, err))
		return
	}
	if info.IsDir {
		metrics.RecordDownload(0, metrics.StatusNotFound)
		uc.respondError(sink, fmt.Errorf("'%s' is a directory: %w", path.FullPath, domain.ErrFileNotFound))
		return
	}

	file, err := uc.fs.Open(path.FullPath)
	if err != nil {
		metrics.RecordDownload(0, metrics.StatusError)
		uc.respondError(sink, fmt.Errorf("failed to read existing file '%s': %w: %w", path.FullPath, domain.ErrOpenFailed, err))
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			logrus.Warnf("Failed to close file %s: %v", path.FullPath, closeErr)
		}
	}()

	buf, release, err := uc.buffers.Acquire(ctx)
	if err != nil {
		metrics.RecordDownload(0, metrics.StatusRejected)
		uc.respondError(sink, err)
		return
	}
	defer release()

	logrus.WithFields(logrus.Fields{
		"path": path.FullPath,
		"size": info.Size,
	}).Infof("Sending file : %s (%s)...", path.FullPath, humanize.Bytes(uint64(info.Size)))
	sink.SetContentType(ContentTypeFor(path.FullPath))

	sent, err := sendChunks(sink, file, buf)
	if err != nil {
		metrics.RecordDownload(sent, metrics.StatusAborted)
		logrus.Errorf("File sending failed after %d bytes: %v", sent, err)

		// передача прерывается, повторов нет.
		if termErr := sink.SendChunk(nil); termErr != nil {
			logrus.Debugf("Failed to terminate aborted transfer: %v", termErr)
		}
		uc.respondError(sink, err)
		return
	}

	if termErr := sink.SendChunk(nil); termErr != nil {
		logrus.Warnf("Failed to terminate transfer of %s: %v", path.FullPath, termErr)
	}
	metrics.RecordDownload(sent, metrics.StatusSuccess)
	logrus.Info("File sending complete")
}

// sendChunks каждое заполнение буфера уходит одним чанком: ceil(size/len(buf)) чанков данных.
// Завершающий пустой чанк отправляет вызывающий.
func sendChunks(sink domain.ResponseSink, r io.Reader, buf []byte) (int64, error) {
	var sent int64
	for {
		n, readErr := io.ReadFull(r, buf)
		if n > 0 {
			if err := sink.SendChunk(buf[:n]); err != nil {
				return sent, fmt.Errorf("sending chunk: %w: %w", domain.ErrTransferAborted, err)
			}
			sent += int64(n)
		}

		switch {
		case readErr == nil:
			continue
		case errors.Is(readErr, io.EOF) || errors.Is(readErr, io.ErrUnexpectedEOF):
			return sent, nil
		default:
			return sent, fmt.Errorf("reading file: %w: %w", domain.ErrTransferAborted, readErr)
		}
	}
}

