package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sagarc03/s3proxy"
)

// Service is the read side of the gateway the handlers serve from.
type Service interface {
	Get(ctx context.Context, rawPath string) (s3proxy.Object, error)
	Index(ctx context.Context) (string, error)
}

// CORSConfig configures the optional cross-origin middleware.
type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled" yaml:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins" yaml:"allowed_origins,omitempty"`
	AllowedMethods   []string `mapstructure:"allowed_methods" yaml:"allowed_methods,omitempty"`
	AllowedHeaders   []string `mapstructure:"allowed_headers" yaml:"allowed_headers,omitempty"`
	ExposedHeaders   []string `mapstructure:"exposed_headers" yaml:"exposed_headers,omitempty"`
	AllowCredentials bool     `mapstructure:"allow_credentials" yaml:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age" yaml:"max_age"`
}

// HandlerConfig holds the options NewHandler builds the router with.
type HandlerConfig struct {
	CORS CORSConfig
}

// Handler provides HTTP handlers for serving objects.
type Handler struct {
	config  HandlerConfig
	service Service
}

// NewHandler creates a new Handler with the given configuration and service.
func NewHandler(config *HandlerConfig, service Service) *Handler {
	return &Handler{
		config:  *config,
		service: service,
	}
}

// Router returns an http.Handler with the root and wildcard routes configured.
// Only GET and HEAD are routed; other methods get 405.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.Use(middleware.GetHead)

	r.Get("/", h.handleRoot)
	r.Get("/*", h.handleGet)

	return r
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.Index(r.Context())
	if err != nil {
		HandleError(w, r, err)
		return
	}

	WriteBody(w, r, http.StatusOK, s3proxy.DefaultContentType, []byte(doc))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/")

	obj, err := h.service.Get(r.Context(), path)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	WriteBody(w, r, http.StatusOK, obj.ContentType, obj.Body)
}
