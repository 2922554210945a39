package http_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/sagarc03/s3proxy"
	"github.com/sagarc03/s3proxy/filesystem"
	s3proxyhttp "github.com/sagarc03/s3proxy/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockService is a mock implementation of http.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Get(ctx context.Context, rawPath string) (s3proxy.Object, error) {
	args := m.Called(ctx, rawPath)
	return args.Get(0).(s3proxy.Object), args.Error(1)
}

func (m *MockService) Index(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func newHandler(service s3proxyhttp.Service) http.Handler {
	return s3proxyhttp.NewHandler(&s3proxyhttp.HandlerConfig{}, service).Router()
}

func TestHandler_HandleRoot_Success(t *testing.T) {
	service := new(MockService)
	handler := newHandler(service)

	service.On("Index", mock.Anything).Return("<html>home</html>", nil)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<html>home</html>", rec.Body.String())
	service.AssertExpectations(t)
	service.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestHandler_HandleRoot_NotText(t *testing.T) {
	service := new(MockService)
	handler := newHandler(service)

	service.On("Index", mock.Anything).Return("", fmt.Errorf("get index %q: %w", "index.html", s3proxy.ErrNotText))

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "not valid text")
}

func TestHandler_HandleRoot_Missing(t *testing.T) {
	service := new(MockService)
	handler := newHandler(service)

	service.On("Index", mock.Anything).Return("", fmt.Errorf("get index: fetch %q: %w", "index.html", s3proxy.ErrNotFound))

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not found")
}

func TestHandler_HandleGet_Success(t *testing.T) {
	service := new(MockService)
	handler := newHandler(service)

	content := "\x89PNG\r\n\x1a\n"
	service.On("Get", mock.Anything, "logo.png").Return(s3proxy.Object{
		Key:         "logo.png",
		ContentType: "image/png",
		Body:        []byte(content),
	}, nil)

	req := httptest.NewRequest("GET", "/logo.png", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "8", rec.Header().Get("Content-Length"))
	assert.Equal(t, content, rec.Body.String())
	service.AssertExpectations(t)
}

func TestHandler_HandleGet_PassesRawPath(t *testing.T) {
	service := new(MockService)
	handler := newHandler(service)

	service.On("Get", mock.Anything, "about/").Return(s3proxy.Object{
		Key:         "about/index.html",
		ContentType: "text/html; charset=utf-8",
		Body:        []byte("<h1>About</h1>"),
	}, nil)

	req := httptest.NewRequest("GET", "/about/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<h1>About</h1>", rec.Body.String())
	service.AssertExpectations(t)
}

func TestHandler_HandleGet_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "rejected path",
			err:      fmt.Errorf("get object: resolve: %w", s3proxy.ErrRejected),
			wantCode: http.StatusNotFound,
			wantBody: "Path not found",
		},
		{
			name:     "not found",
			err:      fmt.Errorf("fetch %q: %w: NoSuchKey: The specified key does not exist.", "missing.txt", s3proxy.ErrNotFound),
			wantCode: http.StatusNotFound,
			wantBody: "The specified key does not exist.",
		},
		{
			name:     "connection error",
			err:      fmt.Errorf("fetch %q: %w: dial tcp: connection refused", "a.css", s3proxy.ErrConnection),
			wantCode: http.StatusNotFound,
			wantBody: "connection refused",
		},
		{
			name:     "store error",
			err:      fmt.Errorf("fetch %q: %w: AccessDenied: Access Denied", "a.css", s3proxy.ErrStore),
			wantCode: http.StatusNotFound,
			wantBody: "Access Denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			handler := newHandler(service)

			service.On("Get", mock.Anything, "missing.txt").Return(s3proxy.Object{}, tt.err)

			req := httptest.NewRequest("GET", "/missing.txt", nil)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestHandler_HandleGet_InvalidContentType(t *testing.T) {
	service := new(MockService)
	handler := newHandler(service)

	service.On("Get", mock.Anything, "weird.bin").Return(s3proxy.Object{
		Key:         "weird.bin",
		ContentType: "not a/valid; type",
		Body:        []byte("data"),
	}, nil)

	req := httptest.NewRequest("GET", "/weird.bin", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
}

func TestHandler_Head(t *testing.T) {
	service := new(MockService)
	handler := newHandler(service)

	service.On("Get", mock.Anything, "site.css").Return(s3proxy.Object{
		Key:         "site.css",
		ContentType: "text/css; charset=utf-8",
		Body:        []byte("body{}"),
	}, nil)

	req := httptest.NewRequest("HEAD", "/site.css", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/css; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "6", rec.Header().Get("Content-Length"))
	assert.Empty(t, rec.Body.String())
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	for _, method := range []string{"PUT", "POST", "DELETE"} {
		t.Run(method, func(t *testing.T) {
			service := new(MockService)
			handler := newHandler(service)

			req := httptest.NewRequest(method, "/file.txt", strings.NewReader("data"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
			service.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_CORS_Disabled(t *testing.T) {
	service := new(MockService)
	handler := newHandler(service)

	service.On("Index", mock.Anything).Return("home", nil)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHandler_CORS_Enabled_Preflight(t *testing.T) {
	config := &s3proxyhttp.HandlerConfig{
		CORS: s3proxyhttp.CORSConfig{
			Enabled:        true,
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         300,
		},
	}
	service := new(MockService)
	handler := s3proxyhttp.NewHandler(config, service).Router()

	req := httptest.NewRequest("OPTIONS", "/logo.png", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "GET")
	assert.Equal(t, "300", rec.Header().Get("Access-Control-Max-Age"))
}

func TestHandler_CORS_Enabled_ActualRequest(t *testing.T) {
	config := &s3proxyhttp.HandlerConfig{
		CORS: s3proxyhttp.CORSConfig{
			Enabled:        true,
			AllowedOrigins: []string{"http://localhost:3000"},
			AllowedMethods: []string{"GET", "HEAD"},
			ExposedHeaders: []string{"Content-Length"},
		},
	}
	service := new(MockService)
	handler := s3proxyhttp.NewHandler(config, service).Router()

	service.On("Get", mock.Anything, "a.css").Return(s3proxy.Object{Key: "a.css", ContentType: "text/css", Body: []byte("x")}, nil)

	req := httptest.NewRequest("GET", "/a.css", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Content-Length", rec.Header().Get("Access-Control-Expose-Headers"))
}

// newSiteServer starts a test server backed by a real gateway over a
// filesystem store holding the given files in bucket "site".
func newSiteServer(t *testing.T, files map[string]string) *httptest.Server {
	t.Helper()
	tempDir := t.TempDir()

	for name, content := range files {
		full := filepath.Join(tempDir, "site", filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}

	root, err := os.OpenRoot(tempDir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = root.Close() })

	gateway, err := s3proxy.NewGateway(filesystem.NewStore(root), s3proxy.Config{Bucket: "site"})
	require.NoError(t, err)

	server := httptest.NewServer(newHandler(gateway))
	t.Cleanup(server.Close)
	return server
}

func get(t *testing.T, url string) (int, string, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, resp.Header.Get("Content-Type"), string(body)
}

func TestGateway_Scenarios(t *testing.T) {
	server := newSiteServer(t, map[string]string{
		"index.html":       "<html>home</html>",
		"about/index.html": "<h1>About</h1>",
		"logo.png":         "\x89PNG-bytes",
	})

	t.Run("root", func(t *testing.T) {
		code, ct, body := get(t, server.URL+"/")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "text/html; charset=utf-8", ct)
		assert.Equal(t, "<html>home</html>", body)
	})

	t.Run("directory page", func(t *testing.T) {
		code, ct, body := get(t, server.URL+"/about/")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "text/html; charset=utf-8", ct)
		assert.Equal(t, "<h1>About</h1>", body)
	})

	t.Run("png", func(t *testing.T) {
		code, ct, body := get(t, server.URL+"/logo.png")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "image/png", ct)
		assert.Equal(t, "\x89PNG-bytes", body)
	})

	t.Run("missing", func(t *testing.T) {
		code, ct, body := get(t, server.URL+"/missing.txt")
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "text/plain; charset=utf-8", ct)
		assert.Contains(t, body, "not found")
	})
}

func TestGateway_Traversal(t *testing.T) {
	server := newSiteServer(t, map[string]string{
		"index.html": "home",
	})

	code, _, body := get(t, server.URL+"/../../etc/passwd")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, body, "etc/passwd/index.html")
}

func TestGateway_ConcurrentRequests(t *testing.T) {
	files := map[string]string{
		"a.css":             "body{color:red}",
		"b.png":             "png-payload",
		"docs/index.html":   "<h1>docs</h1>",
		"scripts/app.json":  `{"app":true}`,
		"images/photo.jpeg": "jpeg-payload",
		"nested/x/y/z.svg":  "<svg/>",
		"blog/index.html":   "<h1>blog</h1>",
		"files/report.pdf":  "%PDF-1.7",
		"data/archive.xml":  "<xml/>",
	}
	server := newSiteServer(t, files)

	paths := map[string]string{
		"/a.css":             "body{color:red}",
		"/b.png":             "png-payload",
		"/docs/":             "<h1>docs</h1>",
		"/scripts/app.json":  `{"app":true}`,
		"/images/photo.jpeg": "jpeg-payload",
		"/nested/x/y/z.svg":  "<svg/>",
		"/blog":              "<h1>blog</h1>",
		"/files/report.pdf":  "%PDF-1.7",
		"/data/archive.xml":  "<xml/>",
	}

	var wg sync.WaitGroup
	for range 10 {
		for p, want := range paths {
			wg.Add(1)
			go func() {
				defer wg.Done()
				resp, err := http.Get(server.URL + p)
				if !assert.NoError(t, err) {
					return
				}
				defer func() { _ = resp.Body.Close() }()

				body, err := io.ReadAll(resp.Body)
				assert.NoError(t, err)
				assert.Equal(t, http.StatusOK, resp.StatusCode, p)
				assert.Equal(t, want, string(body), p)

				key, err := s3proxy.ResolveKey(p)
				assert.NoError(t, err)
				assert.Equal(t, s3proxy.ContentType(key), resp.Header.Get("Content-Type"), p)
			}()
		}
	}
	wg.Wait()
}
