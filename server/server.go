// Package server exposes the bot over HTTP: a Twilio messaging webhook, a
// websocket chat endpoint and a health check.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/xhad/formbot/pkg/dispatch"
)

// Handler turns an inbound message into reply messages.
type Handler interface {
	Handle(ctx context.Context, event dispatch.Event) ([]string, error)
}

type ServerConfig struct {
	Port           int
	WebhookPath    string
	HealthPath     string
	ChatPath       string
	AllowedOrigins []string
	RequestTimeout time.Duration

	// Twilio request signing
	ValidateSignature bool
	AuthToken         string
	PublicURL         string
}

type Server struct {
	config     ServerConfig
	handler    Handler
	router     chi.Router
	httpServer *http.Server
	upgrader   websocket.Upgrader
}

func NewWithConfig(handler Handler, config ServerConfig) *Server {
	if config.Port == 0 {
		config.Port = 8080
	}
	if config.WebhookPath == "" {
		config.WebhookPath = "/whatsapp"
	}
	if config.HealthPath == "" {
		config.HealthPath = "/health"
	}
	if config.ChatPath == "" {
		config.ChatPath = "/ws"
	}
	if len(config.AllowedOrigins) == 0 {
		config.AllowedOrigins = []string{"*"}
	}
	if config.RequestTimeout == 0 {
		config.RequestTimeout = 60 * time.Second
	}

	s := &Server{
		config:  config,
		handler: handler,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	s.router = s.routes()
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", config.Port),
		Handler: s.router,
	}
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Twilio-Signature"},
	}))

	// websocket connections outlive the request timeout
	r.Get(s.config.ChatPath, s.handleChat)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(s.config.RequestTimeout))

		r.Get(s.config.HealthPath, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})
		r.Post(s.config.WebhookPath, s.handleWebhook)
	})

	return r
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	zap.L().Info("HTTP server listening",
		zap.String("addr", s.httpServer.Addr),
		zap.String("webhook", s.config.WebhookPath),
		zap.String("chat", s.config.ChatPath))

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	zap.L().Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.config.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
