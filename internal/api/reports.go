package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ytdash/internal/models"
	"github.com/ytdash/internal/stats"
	"github.com/ytdash/internal/youtube"
)

// getDashboard handles requests for the full Data-API-backed dashboard
// report. Reports are cached per channel and reused within the same
// UTC day; lifetime statistics do not move fast enough to warrant
// re-walking the uploads playlist on every page load.
func (s *Server) getDashboard(c *gin.Context) {
	channelID := c.Param("id")

	var cached models.DashboardReport
	if s.fromCache(channelID, models.ReportKindDashboard, &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

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

	report := buildDashboard(*channel, videos)
	s.toCache(channelID, models.ReportKindDashboard, report)

	c.JSON(http.StatusOK, report)
}

// buildDashboard assembles every visualization section from the
// fetched videos. Each section is derived independently; an empty
// video list yields empty sections, not an error.
func buildDashboard(channel models.Channel, videos []models.Video) models.DashboardReport {
	series := slices.Collect(stats.ViewSeries(videos))
	if series == nil {
		series = []models.ViewPoint{}
	}

	var timeRange models.TimeRange
	if len(series) > 0 {
		timeRange.StartDate = series[0].PublishedAt.Format("2006-01-02")
		timeRange.EndDate = series[len(series)-1].PublishedAt.Format("2006-01-02")
	}

	return models.DashboardReport{
		Channel:        channel,
		ViewSeries:     series,
		TopVideos:      stats.TopVideos(videos, topListSize),
		Engagement:     stats.EngagementPoints(videos),
		MonthlyUploads: stats.MonthlyUploads(videos),
		TimeRange:      timeRange,
		GeneratedAt:    time.Now().UTC(),
	}
}

// getGeography handles requests for the audience geography report,
// backed by the Analytics API over the configured trailing window.
// Failures here never affect the dashboard endpoint; the two reports
// are fetched and rendered independently.
func (s *Server) getGeography(c *gin.Context) {
	if s.geo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analytics credentials are not configured"})
		return
	}

	channelID := c.Param("id")

	var cached models.GeographyReport
	if s.fromCache(channelID, models.ReportKindGeography, &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	records, timeRange, err := s.geo.CountryViews(c.Request.Context(), channelID, s.geoWindowDays)
	if err != nil {
		if errors.Is(err, youtube.ErrNotAuthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":        "analytics access not authorized",
				"authorizeUrl": "/auth/url",
			})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	totals := stats.CountryTotals(records)
	report := models.GeographyReport{
		ChannelID:      channelID,
		ViewsByCountry: totals,
		TopCountries:   stats.TopCountries(totals, topListSize),
		TimeRange:      timeRange,
		GeneratedAt:    time.Now().UTC(),
	}
	s.toCache(channelID, models.ReportKindGeography, report)

	c.JSON(http.StatusOK, report)
}

// fromCache loads a same-day cached report into out. Cache errors are
// logged and treated as misses; a stale or broken cache must never
// block a fresh fetch.
func (s *Server) fromCache(channelID string, kind models.ReportKind, out any) bool {
	if s.cache == nil {
		return false
	}

	cached, err := s.cache.Get(channelID, kind)
	if err != nil {
		log.Warn().Err(err).Str("channel", channelID).Str("kind", string(kind)).Msg("report cache read failed")
		return false
	}
	if cached == nil {
		return false
	}
	if cached.UpdatedAt.UTC().Format("2006-01-02") != time.Now().UTC().Format("2006-01-02") {
		return false
	}
	if err := json.Unmarshal(cached.Payload, out); err != nil {
		log.Warn().Err(err).Str("channel", channelID).Str("kind", string(kind)).Msg("cached report unmarshal failed")
		return false
	}

	log.Debug().Str("channel", channelID).Str("kind", string(kind)).Msg("serving cached report")
	return true
}

func (s *Server) toCache(channelID string, kind models.ReportKind, report any) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(report)
	if err != nil {
		log.Warn().Err(err).Str("channel", channelID).Str("kind", string(kind)).Msg("report marshal failed")
		return
	}
	if err := s.cache.Put(channelID, kind, payload); err != nil {
		log.Warn().Err(err).Str("channel", channelID).Str("kind", string(kind)).Msg("report cache write failed")
	}
}
