package server

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"flash-fileserver/internal/domain"
)

type Handler struct {
	uc          domain.FileDownload
	downloadURI string
}

func NewHandler(uc domain.FileDownload, downloadRoute string) *Handler {
	return &Handler{
		uc:          uc,
		downloadURI: downloadRoute,
	}
}

// Download всё под префиксом маршрута: листинг или файл решает сценарий.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(HeaderAllow, AllowedMethods)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	logrus.WithFields(logrus.Fields{
		"method": r.Method,
		"uri":    r.URL.Path,
		"remote": r.RemoteAddr,
	}).Debug("Download request")

	h.uc.Download(r.Context(), newHTTPSink(w), r.URL.Path)
}

// Index корень отправляет на листинг корня хранилища.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != domain.PathSeparator {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, h.downloadURI+domain.PathSeparator, http.StatusFound)
}

// Routes регистрация маршрутов.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc(h.downloadURI+domain.PathSeparator, h.Download)
	mux.HandleFunc(domain.PathSeparator, h.Index)
}
