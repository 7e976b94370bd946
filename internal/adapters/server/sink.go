package server

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
)

var errBodyTerminated = errors.New("response body already terminated")

// httpSink domain.ResponseSink поверх http.ResponseWriter.
// Статус уходит вместе с первым чанком; после этого net/http его уже не поменяет.
type httpSink struct {
	w          http.ResponseWriter
	rc         *http.ResponseController
	status     int
	wroteHead  bool
	terminated bool
}

func newHTTPSink(w http.ResponseWriter) *httpSink {
	return &httpSink{
		w:      w,
		rc:     http.NewResponseController(w),
		status: http.StatusOK,
	}
}

func (s *httpSink) SetStatus(code int) {
	if s.wroteHead {
		logrus.WithFields(logrus.Fields{
			"sent":      s.status,
			"requested": code,
		}).Warn(LogStatusDropped)
		return
	}
	s.status = code
}

func (s *httpSink) SetContentType(contentType string) {
	s.w.Header().Set(HeaderContentType, contentType)
}

func (s *httpSink) writeHead() {
	if s.wroteHead {
		return
	}
	s.wroteHead = true
	s.w.WriteHeader(s.status)
}

// SendChunk пустой чанк завершает тело.
func (s *httpSink) SendChunk(chunk []byte) error {
	if s.terminated {
		return errBodyTerminated
	}
	s.writeHead()

	if len(chunk) == 0 {
		s.terminated = true
		return s.flush()
	}

	if _, err := s.w.Write(chunk); err != nil {
		return err
	}
	return s.flush()
}

// Send тело целиком, используется только для сообщений об ошибках.
func (s *httpSink) Send(body string) error {
	if s.terminated {
		logrus.Debugf("%s: %q", LogWriteAfterClose, body)
		return errBodyTerminated
	}
	if !s.wroteHead {
		s.w.Header().Set(HeaderContentType, "text/plain; charset=utf-8")
		s.w.Header().Set("X-Content-Type-Options", "nosniff")
	}
	s.writeHead()
	s.terminated = true

	if _, err := s.w.Write([]byte(body)); err != nil {
		return err
	}
	return s.flush()
}

func (s *httpSink) flush() error {
	if err := s.rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return err
	}
	return nil
}
