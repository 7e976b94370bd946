package usecases

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"flash-fileserver/internal/config"
	"flash-fileserver/internal/domain"
)

type FileDownloadUseCase struct {
	fs      domain.FileSystem
	buffers domain.ScratchBuffers
	cfg     *config.Config
}

// NewFileDownloadUseCase буферы передаются снаружи: политика их разделения задаётся конфигом.
func NewFileDownloadUseCase(fs domain.FileSystem, buffers domain.ScratchBuffers, cfg *config.Config) *FileDownloadUseCase {
	return &FileDownloadUseCase{
		fs:      fs,
		buffers: buffers,
		cfg:     cfg,
	}
}

// Download единственная точка входа. URI с завершающим разделителем это листинг, иначе файл.
// Ошибки наружу не возвращаются, всё уходит статусом HTTP через sink.
func (uc *FileDownloadUseCase) Download(ctx context.Context, sink domain.ResponseSink, uri string) {
	path, err := uc.ResolvePath(uri)
	if err != nil {
		uc.respondError(sink, err)
		return
	}

	if path.IsDirectory() {
		uc.listDirectory(sink, path)
		return
	}
	uc.streamFile(ctx, sink, path)
}

type errorType int

const (
	errorTypeBadRequest errorType = iota
	errorTypeNotFound
	errorTypeUnavailable
	errorTypeReadFailed
	errorTypeSendFailed
)

// getErrorType сопоставляет доменные ошибки с HTTP-кодами статуса.
func getErrorType(err error) errorType {
	switch {
	case errors.Is(err, domain.ErrPathTraversal) || errors.Is(err, domain.ErrPathTooLong):
		return errorTypeBadRequest
	case errors.Is(err, domain.ErrFileNotFound):
		return errorTypeNotFound
	case errors.Is(err, domain.ErrBufferUnavailable):
		return errorTypeUnavailable
	case errors.Is(err, domain.ErrTransferAborted):
		return errorTypeSendFailed
	default:
		return errorTypeReadFailed
	}
}

func (uc *FileDownloadUseCase) errorResponse(err error) (int, string) {
	switch getErrorType(err) {
	case errorTypeBadRequest:
		return http.StatusBadRequest, uc.cfg.Messages.BadRequest
	case errorTypeNotFound:
		return http.StatusNotFound, uc.cfg.Messages.NotFound
	case errorTypeUnavailable:
		return http.StatusServiceUnavailable, uc.cfg.Messages.Busy
	case errorTypeSendFailed:
		return http.StatusInternalServerError, uc.cfg.Messages.SendFailed
	default:
		return http.StatusInternalServerError, uc.cfg.Messages.ReadFailed
	}
}

func (uc *FileDownloadUseCase) respondError(sink domain.ResponseSink, err error) {
	status, message := uc.errorResponse(err)

	logrus.Errorf("HTTP %d Error: %s. Details: %+v", status, message, err)
	sink.SetStatus(status)
	if sendErr := sink.Send(message); sendErr != nil {
		logrus.Warnf("Failed to send error response: %v", sendErr)
	}
}
