package markup

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/alnah/go-markdocs/internal/client"
)

// DefaultMaxRequestBytes bounds a markup request body.
const DefaultMaxRequestBytes = 16 << 20

// Handler serves the render server endpoints.
type Handler struct {
	conv     *Converter
	logger   *slog.Logger
	maxBytes int64
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithMaxRequestBytes overrides the request body limit.
func WithMaxRequestBytes(n int64) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxBytes = n
		}
	}
}

// NewHandler returns the HTTP handler for the render server.
func NewHandler(conv *Converter, logger *slog.Logger, opts ...HandlerOption) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{conv: conv, logger: logger, maxBytes: DefaultMaxRequestBytes}
	for _, opt := range opts {
		opt(h)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get(client.PingPath, h.handlePing)
	r.Post(client.MarkupPath, h.handleMarkup)
	return r
}

func (h *Handler) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

func (h *Handler) handleMarkup(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	var req client.MarkupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "request too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	out, err := h.conv.Convert(r.Context(), req.Content)
	if err != nil {
		h.logger.Error("markup failed", "file", req.FilePath, "base", req.BasePath, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.logger.Debug("markup", "file", req.FilePath, "base", req.BasePath, "bytes", len(out),
		"request_id", middleware.GetReqID(r.Context()))

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(client.MarkupResponse{Content: out})
}
