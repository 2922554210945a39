package http_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sagarc03/s3proxy"
	s3proxyhttp "github.com/sagarc03/s3proxy/http"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: http.StatusOK},
		{name: "rejected", err: s3proxy.ErrRejected, want: http.StatusNotFound},
		{name: "not found", err: fmt.Errorf("fetch: %w", s3proxy.ErrNotFound), want: http.StatusNotFound},
		{name: "connection", err: fmt.Errorf("fetch: %w", s3proxy.ErrConnection), want: http.StatusNotFound},
		{name: "store", err: fmt.Errorf("fetch: %w", s3proxy.ErrStore), want: http.StatusNotFound},
		{name: "not text", err: fmt.Errorf("index: %w", s3proxy.ErrNotText), want: http.StatusInternalServerError},
		{name: "canceled", err: context.Canceled, want: http.StatusNotFound},
		{name: "unknown", err: errors.New("boom"), want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s3proxyhttp.StatusFor(tt.err))
		})
	}
}

func TestHandleError_RejectedHidesDetail(t *testing.T) {
	req := httptest.NewRequest("GET", "/x", nil)
	rec := httptest.NewRecorder()

	s3proxyhttp.HandleError(rec, req, fmt.Errorf("resolve %q: %w", "/x\x00", s3proxy.ErrRejected))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Path not found", rec.Body.String())
}

func TestHandleError_UsesErrorText(t *testing.T) {
	req := httptest.NewRequest("GET", "/x.css", nil)
	rec := httptest.NewRecorder()

	err := fmt.Errorf("fetch %q: %w: timeout", "x.css", s3proxy.ErrConnection)
	s3proxyhttp.HandleError(rec, req, err)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, err.Error(), rec.Body.String())
}

func TestWriteBody(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		contentType string
		wantType    string
		wantBody    string
	}{
		{name: "valid type", method: "GET", contentType: "image/png", wantType: "image/png", wantBody: "data"},
		{name: "type with params", method: "GET", contentType: "text/html; charset=utf-8", wantType: "text/html; charset=utf-8", wantBody: "data"},
		{name: "empty type", method: "GET", contentType: "", wantType: "application/octet-stream", wantBody: "data"},
		{name: "malformed type", method: "GET", contentType: "text/html; charset", wantType: "application/octet-stream", wantBody: "data"},
		{name: "head has no body", method: "HEAD", contentType: "image/png", wantType: "image/png", wantBody: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/file", nil)
			rec := httptest.NewRecorder()

			s3proxyhttp.WriteBody(rec, req, http.StatusOK, tt.contentType, []byte("data"))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantType, rec.Header().Get("Content-Type"))
			assert.Equal(t, "4", rec.Header().Get("Content-Length"))
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}
