package usecases

import (
	"fmt"
	"html"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"flash-fileserver/internal/domain"
	"flash-fileserver/internal/metrics"
)

const (
	listingHeader = `<!DOCTYPE html><html><body>` +
		`<table class="fixed" border="1">` +
		`<col width="800px" /><col width="300px" /><col width="300px" />` +
		`<thead><tr><th>Name</th><th>Type</th><th>Size (Bytes)</th></tr></thead>` +
		`<tbody>`
	listingTableEnd = `</tbody></table>`
	listingPageEnd  = `</body></html>`
)

// nameEscaper как html.EscapeString, плюс ';': это разделитель колонок.
var nameEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&#34;",
	"'", "&#39;",
	";", "&#59;",
)

// chunkWriter запоминает первую ошибку записи, дальше ничего не пишет.
type chunkWriter struct {
	sink domain.ResponseSink
	err  error
}

func (c *chunkWriter) send(s string) {
	if c.err != nil {
		return
	}
	c.err = c.sink.SendChunk([]byte(s))
}

// listDirectory порядок строк такой, каким его отдала файловая система. Не сортирую.
// Запись, по которой stat не прошёл, пропускается, листинг продолжается.
func (uc *FileDownloadUseCase) listDirectory(sink domain.ResponseSink, path domain.ResolvedPath) {
	entries, err := uc.fs.ReadDirectory(path.FullPath)
	if err != nil {
		metrics.RecordListing(metrics.StatusNotFound, 0)
		uc.respondError(sink, fmt.Errorf("could not open directory '%s': %w: %w", path.FullPath, domain.ErrFileNotFound, err))
		return
	}

	sink.SetContentType(domain.MIMEHTML)
	w := &chunkWriter{sink: sink}
	w.send(listingHeader)

	var skipped int
	for _, entry := range entries {
		size, statErr := uc.entrySize(path.FullPath, entry)
		if statErr != nil {
			skipped++
			logrus.Warnf("Failed to stat %s : %s: %v", entry.Kind(), entry.Name, statErr)
			continue
		}

		logrus.WithFields(logrus.Fields{
			"type": entry.Kind(),
			"name": entry.Name,
			"size": size,
		}).Debug("Found entry")

		w.send(uc.formatRow(path.URI, entry, size))
		if w.err != nil {
			break
		}
	}

	w.send(listingTableEnd)
	w.send(listingPageEnd)

	if w.err != nil {
		metrics.RecordListing(metrics.StatusAborted, skipped)
		logrus.Errorf("Directory listing of %s aborted: %v", path.FullPath, w.err)
		return
	}

	if termErr := sink.SendChunk(nil); termErr != nil {
		logrus.Warnf("Failed to terminate listing of %s: %v", path.FullPath, termErr)
	}
	metrics.RecordListing(metrics.StatusSuccess, skipped)
}

// entrySize размер из stat. Для директорий по конфигу либо stat, либо всегда 0,
// но stat выполняется в любом случае: нечитаемая запись пропускается одинаково.
func (uc *FileDownloadUseCase) entrySize(dirPath string, entry domain.DirEntry) (int64, error) {
	entryPath := dirPath + entry.Name
	if err := uc.checkPathLength(entryPath); err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrEntryUnreadable, err)
	}

	info, err := uc.fs.Stat(entryPath)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrEntryUnreadable, err)
	}

	if entry.IsDir && uc.cfg.Listing.DirectorySize == domain.DirectorySizeZero {
		return 0, nil
	}
	return info.Size, nil
}

// formatRow одна строка таблицы: ссылка, имя, имя, тип, размер через ';'.
func (uc *FileDownloadUseCase) formatRow(uri string, entry domain.DirEntry, size int64) string {
	name := entry.Name
	href := uri + entry.Name
	if uc.cfg.Listing.ShouldEscape() {
		name = nameEscaper.Replace(entry.Name)
		href = html.EscapeString((&url.URL{Path: href}).EscapedPath())
	}
	if entry.IsDir {
		href += domain.PathSeparator
	}

	var b strings.Builder
	b.WriteString(`<tr><td><a href="`)
	b.WriteString(href)
	b.WriteString(`">`)
	b.WriteString(name)
	b.WriteString(";")
	b.WriteString(name)
	b.WriteString(";")
	b.WriteString(entry.Kind())
	b.WriteString(";")
	b.WriteString(strconv.FormatInt(size, 10))
	b.WriteString(`</td></tr>`)
	return b.String()
}
