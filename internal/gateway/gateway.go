// Package gateway provides the HTTP forwarder that fronts the YouTube
// Data API. It injects the server-side API key into upstream requests
// and relays upstream JSON bodies verbatim, so the key never reaches
// the calling client.
package gateway

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/playtally/playtally/internal/infra/config"
)

// Server is the gateway HTTP server.
type Server struct {
	cfg        *config.Config
	engine     *gin.Engine
	httpClient *http.Client
}

// New creates a gateway server from the given configuration.
func New(cfg *config.Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		cfg:        cfg,
		engine:     gin.New(),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(requestID())
	s.engine.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.Server.AllowedOrigin},
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		// The canonical client is a browser extension, so the allowed
		// origin can be a chrome-extension:// URL.
		AllowBrowserExtensions: true,
		MaxAge:                 12 * time.Hour,
	}))

	limiter := newRateLimiter(
		cfg.RateLimit.Requests,
		time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute,
	)
	s.engine.Use(limiter.middleware())

	s.engine.GET("/api/playlist-items", s.playlistItems)
	s.engine.GET("/api/video-details", s.videoDetails)

	return s
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the server on the configured address and blocks.
func (s *Server) Run() error {
	return s.engine.Run(s.cfg.Server.Addr)
}
