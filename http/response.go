package http

import (
	"context"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/sagarc03/s3proxy"
)

const (
	textContentType   = "text/plain; charset=utf-8"
	binaryContentType = "application/octet-stream"

	rejectedMessage = "Path not found"
)

// StatusFor maps an error to the HTTP status code it is answered with.
// Every fetch failure is answered as not found; only a root document that is
// not valid text is an internal error.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, s3proxy.ErrNotText):
		return http.StatusInternalServerError
	default:
		// ErrRejected, ErrNotFound, ErrConnection, ErrStore and cancellations
		return http.StatusNotFound
	}
}

// HandleError logs err and writes the plain-text error response for it.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	message := err.Error()
	logger := slog.With("request_id", RequestIDFromContext(r.Context()), "path", r.URL.Path)

	switch {
	case errors.Is(err, s3proxy.ErrRejected):
		logger.Debug("path rejected", "error", err)
		message = rejectedMessage
	case errors.Is(err, s3proxy.ErrNotFound):
		logger.Debug("object not found", "error", err)
	case errors.Is(err, context.Canceled):
		logger.Debug("request canceled", "error", err)
	case status >= http.StatusInternalServerError:
		logger.Error("request error", "error", err)
	default:
		logger.Warn("fetch failed", "error", err)
	}

	WriteError(w, r, status, message)
}

// WriteError writes a plain-text error response.
func WriteError(w http.ResponseWriter, r *http.Request, code int, message string) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	WriteBody(w, r, code, textContentType, []byte(message))
}

// WriteBody writes body with the given status and content type. An invalid
// content type is replaced with application/octet-stream. HEAD requests get
// the headers only.
func WriteBody(w http.ResponseWriter, r *http.Request, code int, contentType string, body []byte) {
	w.Header().Set("Content-Type", safeContentType(contentType))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(code)

	if r.Method == http.MethodHead {
		return
	}

	if _, err := w.Write(body); err != nil {
		slog.Debug("failed to write response body", "request_id", RequestIDFromContext(r.Context()), "error", err)
	}
}

func safeContentType(ct string) string {
	if ct == "" {
		return binaryContentType
	}
	if _, _, err := mime.ParseMediaType(ct); err != nil {
		return binaryContentType
	}
	return ct
}
