// Package server exposes simulator sessions over HTTP and websockets.
package server

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cwbudde/algo-ecg/dsp/core"
	"github.com/cwbudde/algo-ecg/internal/simulator"
	"github.com/cwbudde/algo-ecg/internal/stream"
)

// ErrSessionNotFound is returned for unknown session ids.
var ErrSessionNotFound = errors.New("server: session not found")

// Server owns the simulator sessions and the bus they publish to.
type Server struct {
	display core.Display
	pub     stream.Publisher
	subject string
	log     *slog.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*simulator.Engine
}

// New creates a server. A nil publisher discards bus traffic and a nil
// logger uses slog.Default.
func New(display core.Display, pub stream.Publisher, subject string, logger *slog.Logger) *Server {
	if pub == nil {
		pub = stream.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if subject == "" {
		subject = "ecg"
	}
	return &Server{
		display:  display.Normalized(),
		pub:      pub,
		subject:  subject,
		log:      logger,
		sessions: make(map[uuid.UUID]*simulator.Engine),
	}
}

// Router builds the gin engine serving the API.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}))

	r.GET("/health", s.health)

	api := r.Group("/api/v1")
	sessions := api.Group("/sessions")
	{
		sessions.POST("", s.createSession)
		sessions.DELETE("/:id", s.deleteSession)
		sessions.GET("/:id/settings", s.getSettings)
		sessions.PUT("/:id/settings", s.putSettings)
		sessions.POST("/:id/apply", s.apply)
		sessions.GET("/:id/window", s.window)
		sessions.GET("/:id/svg", s.svg)
		sessions.GET("/:id/state", s.state)
		sessions.GET("/:id/ws", s.streamWindows)
	}
	return r
}

// Create starts a new session with default settings.
func (s *Server) Create() (uuid.UUID, *simulator.Engine, error) {
	eng, err := simulator.NewEngine(s.display)
	if err != nil {
		return uuid.Nil, nil, err
	}
	id := uuid.New()

	s.mu.Lock()
	s.sessions[id] = eng
	s.mu.Unlock()
	return id, eng, nil
}

// Session returns the engine of a running session.
func (s *Server) Session(id uuid.UUID) (*simulator.Engine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	eng, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return eng, nil
}

// Remove stops a session.
func (s *Server) Remove(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Count returns the number of running sessions.
func (s *Server) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Server) topic(id uuid.UUID, kind string) string {
	return s.subject + "." + id.String() + "." + kind
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "healthy",
		"active_sessions": s.Count(),
		"timestamp":       time.Now().UTC(),
	})
}
