// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"calorie-tracker/internal/nutrients"
	"calorie-tracker/internal/tracker"
)

const (
	serverName    = "calorie-tracker"
	serverVersion = "1.0.0"
)

type Config struct {
	Host      string
	Port      int
	RateLimit float64
	RateBurst int
}

// TrackerServer serves the web form, the JSON summary API and the MCP tool
// endpoint over one HTTP listener.
type TrackerServer struct {
	httpServer *http.Server
	tracker    *tracker.Service
	config     *Config
	log        logrus.FieldLogger
}

func NewTrackerServer(cfg *Config, svc *tracker.Service, log logrus.FieldLogger) *TrackerServer {
	s := &TrackerServer{
		tracker: svc,
		config:  cfg,
		log:     log,
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           newRouter(svc, cfg, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// newRouter wires routes and middleware. Middleware order, outermost first:
// CORS, request logging, rate limiting.
func newRouter(svc *tracker.Service, cfg *Config, log logrus.FieldLogger) http.Handler {
	h := &handlers{
		tracker: svc,
		log:     log,
		info:    protocol.Implementation{Name: serverName, Version: serverVersion},
		tools:   make(map[string]toolHandler),
	}
	h.registerTools()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("GET /index.html", h.handleIndex)
	mux.HandleFunc("POST /add", h.handleAdd)
	mux.HandleFunc("POST /reset", h.handleReset)
	mux.HandleFunc("GET /api/summary", h.handleSummaryJSON)
	mux.HandleFunc("GET /mcp", h.handleServerInfo)
	mux.HandleFunc("POST /mcp", h.handleMCP)

	var handler http.Handler = mux
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		handler = rateLimitMiddleware(rate.NewLimiter(rate.Limit(cfg.RateLimit), burst), log)(handler)
	}
	handler = requestLoggingMiddleware(log)(handler)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return c.Handler(handler)
}

func (s *TrackerServer) Start(ctx context.Context) error {
	s.log.WithField("addr", s.httpServer.Addr).Info("Starting calorie tracker server")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *TrackerServer) Stop() error {
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// handlers holds the state shared by every route.
type handlers struct {
	tracker *tracker.Service
	log     logrus.FieldLogger
	info    protocol.Implementation
	tools   map[string]toolHandler
}

func (h *handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.WithError(err).Error("Failed to encode response")
	}
}

// statusFor maps input errors to 400 and everything else to 500.
func statusFor(err error) int {
	if errors.Is(err, nutrients.ErrMalformedMicroToken) ||
		errors.Is(err, nutrients.ErrInvalidNumericValue) ||
		errors.Is(err, errInvalidParams) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	entry := h.log.WithFields(logrus.Fields{
		"path":   r.URL.Path,
		"status": status,
		"error":  err,
	})
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Rejected request")
	}
	http.Error(w, err.Error(), status)
}
