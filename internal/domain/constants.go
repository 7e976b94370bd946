package domain

const (
	PathEmpty           = ""
	PathSeparator       = "/"
	PathTraversalPrefix = ".."

	KindFile      = "file"
	KindDirectory = "directory"

	MIMEHTML      = "text/html"
	MIMEJPEG      = "image/jpeg"
	MIMEPNG       = "image/png"
	MIMEGzip      = "application/x-gzip"
	MIMEPlainText = "text/plain"

	BufferPolicySerialize  = "serialize"
	BufferPolicyPerRequest = "per_request"

	DirectorySizeStat = "stat"
	DirectorySizeZero = "zero"
)
