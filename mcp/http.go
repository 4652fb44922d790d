package mcp

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ratewire/ratewire/jsonrpc"
)

// HTTPTransport serves JSON-RPC over HTTP POST. JSON-RPC errors are carried
// in the response payload; the HTTP status for RPC traffic is always 200.
type HTTPTransport struct {
	handler jsonrpc.Handler
	router  *chi.Mux
	logger  *slog.Logger
	token   string
	version string
}

// HTTPOption configures an HTTPTransport
type HTTPOption func(*HTTPTransport)

// WithToken enables bearer-token auth on the RPC endpoint
func WithToken(token string) HTTPOption {
	return func(t *HTTPTransport) {
		t.token = token
	}
}

// WithVersion sets the version string reported by the root route
func WithVersion(version string) HTTPOption {
	return func(t *HTTPTransport) {
		t.version = version
	}
}

// WithHTTPLogger sets the logger used by the transport
func WithHTTPLogger(logger *slog.Logger) HTTPOption {
	return func(t *HTTPTransport) {
		t.logger = logger
	}
}

// NewHTTPTransport creates an HTTP transport with middleware and routes
// configured.
func NewHTTPTransport(handler jsonrpc.Handler, opts ...HTTPOption) *HTTPTransport {
	t := &HTTPTransport{
		handler: handler,
		router:  chi.NewRouter(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		version: "dev",
	}
	for _, opt := range opts {
		opt(t)
	}

	t.router.Use(middleware.RequestID)
	t.router.Use(middleware.RealIP)
	t.router.Use(middleware.Recoverer)
	t.router.Use(middleware.Timeout(60 * time.Second))

	t.router.Get("/", t.handleRoot)
	t.router.Get("/health", t.handleHealth)

	t.router.Route("/tools", func(r chi.Router) {
		r.Use(t.auth)
		r.Post("/", t.handleRPC)
	})

	return t
}

// Router exposes the root HTTP handler for the transport.
func (t *HTTPTransport) Router() http.Handler { return t.router }

func (t *HTTPTransport) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if t.token == "" {
			next.ServeHTTP(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+t.token {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (t *HTTPTransport) handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"message": "Ratewire Exchange Rate MCP Server",
		"version": t.version,
	})
}

func (t *HTTPTransport) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (t *HTTPTransport) handleRPC(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var request jsonrpc.Request
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		t.logger.Warn("unparsable request body", "error", err)
		response := jsonrpc.NewResponse(nil, nil, jsonrpc.NewError(jsonrpc.ErrParse, err.Error()))
		t.write(w, response)
		return
	}

	response := t.handler.Handle(r.Context(), request)
	t.write(w, response)
}

func (t *HTTPTransport) write(w http.ResponseWriter, response jsonrpc.Response) {
	if err := json.NewEncoder(w).Encode(response); err != nil {
		t.logger.Error("encoding response", "error", err)
	}
}
