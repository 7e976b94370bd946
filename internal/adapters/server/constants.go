package server

const (
	HeaderContentType  = "Content-Type"
	HeaderAllow        = "Allow"
	AllowedMethods     = "GET, HEAD"
	LogStatusDropped   = "Status change after headers were sent is dropped"
	LogWriteAfterClose = "Write after response body was terminated"
)
