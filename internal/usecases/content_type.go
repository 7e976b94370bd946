package usecases

import (
	"path/filepath"
	"strings"

	"flash-fileserver/internal/domain"
)

// contentTypes набор намеренно маленький, всё остальное отдаётся как text/plain.
// .pdf -> text/html повторяет поведение устройства.
var contentTypes = map[string]string{
	".pdf":  domain.MIMEHTML,
	".jpeg": domain.MIMEJPEG,
	".png":  domain.MIMEPNG,
	".gz":   domain.MIMEGzip,
}

// ContentTypeFor тип ответа по расширению файла, без учёта регистра.
func ContentTypeFor(path string) string {
	if contentType, ok := contentTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return contentType
	}
	return domain.MIMEPlainText
}
