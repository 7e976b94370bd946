package domain

import "errors"

var (
	ErrPathTraversal     = errors.New("path traversal is not allowed")
	ErrPathTooLong       = errors.New("path too long")
	ErrFileNotFound      = errors.New("file or folder not found")
	ErrOpenFailed        = errors.New("failed to open existing file")
	ErrTransferAborted   = errors.New("transfer aborted")
	ErrEntryUnreadable   = errors.New("directory entry unreadable")
	ErrBufferUnavailable = errors.New("scratch buffer unavailable")
)
