package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ytdash/internal/config"
	"github.com/ytdash/internal/models"
	"github.com/ytdash/internal/youtube"
)

// topListSize is how many rows the top-videos and top-countries tables show.
const topListSize = 10

// ChannelSource provides channel metadata and video statistics from the
// Data API. It is an interface so handlers can be tested without
// network access.
type ChannelSource interface {
	ResolveChannelID(ctx context.Context, input string) (string, error)
	Channel(ctx context.Context, channelID string) (*models.Channel, error)
	Videos(ctx context.Context, channelID, uploadsPlaylist string) ([]models.Video, error)
}

// GeographySource provides per-country view totals from the Analytics
// API, behind the channel owner's OAuth consent.
type GeographySource interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) error
	CountryViews(ctx context.Context, channelID string, windowDays int) ([]models.CountryViewRecord, models.TimeRange, error)
}

// ReportStore persists rendered reports between requests. Implemented
// by models.ReportCache; an interface so handler tests can exercise
// cache hits, stale entries, and store failures.
type ReportStore interface {
	Get(channelID string, kind models.ReportKind) (*models.CachedReport, error)
	Put(channelID string, kind models.ReportKind, payload []byte) error
}

// Server represents the API server
type Server struct {
	router        *gin.Engine
	channels      ChannelSource
	geo           GeographySource
	cache         ReportStore
	geoWindowDays int
}

// NewServer creates a new API server. geo may be nil when no OAuth
// client secrets are configured; geography endpoints then report the
// missing configuration instead of failing at startup.
func NewServer(cfg *config.Config, channels ChannelSource, geo GeographySource, cache ReportStore) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "Pragma"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	server := &Server{
		router:        router,
		channels:      channels,
		geo:           geo,
		cache:         cache,
		geoWindowDays: cfg.GeographyWindowDays,
	}

	server.setupRoutes()

	return server
}

// setupRoutes configures all the routes for the server
func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Channel endpoints
	s.router.GET("/channel/resolve", s.resolveChannel)
	s.router.GET("/channel/:id", s.getChannel)
	s.router.GET("/channel/:id/videos", s.getChannelVideos)

	// Report endpoints
	s.router.GET("/channel/:id/dashboard", s.getDashboard)
	s.router.GET("/channel/:id/geography", s.getGeography)

	// Analytics OAuth flow
	s.router.GET("/auth/url", s.getAuthURL)
	s.router.GET("/auth/callback", s.authCallback)
}

// requestLogger logs each request as structured JSON via zerolog.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		evt := log.Info()
		if status >= 500 {
			evt = log.Error()
		} else if status >= 400 {
			evt = log.Warn()
		}

		evt.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("duration_ms", time.Since(start)).
			Int("bytes_sent", c.Writer.Size()).
			Msg("request")
	}
}

// resolveChannel handles requests to resolve a channel reference
// (ID, @handle, or URL) into full channel metadata.
func (s *Server) resolveChannel(c *gin.Context) {
	ref := c.Query("ref")
	if ref == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ref query parameter is required"})
		return
	}

	channelID, err := s.channels.ResolveChannelID(c.Request.Context(), ref)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	channel, err := s.channels.Channel(c.Request.Context(), channelID)
	if err != nil {
		s.channelError(c, err)
		return
	}

	c.JSON(http.StatusOK, channel)
}

// getChannel handles requests to get channel metadata by ID
func (s *Server) getChannel(c *gin.Context) {
	channel, err := s.channels.Channel(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.channelError(c, err)
		return
	}
	c.JSON(http.StatusOK, channel)
}

// getChannelVideos handles requests to list a channel's videos with
// their statistics.
func (s *Server) getChannelVideos(c *gin.Context) {
	channelID := c.Param("id")

	channel, err := s.channels.Channel(c.Request.Context(), channelID)
	if err != nil {
		s.channelError(c, err)
		return
	}

	videos, err := s.channels.Videos(c.Request.Context(), channelID, channel.UploadsPlaylist)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, videos)
}

// getAuthURL returns the Analytics API consent page URL.
func (s *Server) getAuthURL(c *gin.Context) {
	if s.geo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analytics credentials are not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": s.geo.AuthURL("state")})
}

// authCallback exchanges the OAuth authorization code and caches the
// resulting token for future geography queries.
func (s *Server) authCallback(c *gin.Context) {
	if s.geo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analytics credentials are not configured"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code query parameter is required"})
		return
	}

	if err := s.geo.Exchange(c.Request.Context(), code); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "authorized"})
}

func (s *Server) channelError(c *gin.Context, err error) {
	if errors.Is(err, youtube.ErrChannelNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Channel not found"})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}

// Start starts the server on the specified port
func (s *Server) Start(port string) error {
	return s.router.Run(":" + port)
}
