package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytdash/internal/config"
	"github.com/ytdash/internal/models"
	"github.com/ytdash/internal/youtube"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeChannels struct {
	channel    *models.Channel
	videos     []models.Video
	channelErr error
	videosErr  error
}

func (f *fakeChannels) ResolveChannelID(_ context.Context, input string) (string, error) {
	if strings.HasPrefix(input, "@") {
		return "UCresolved00000000000000", nil
	}
	return input, nil
}

func (f *fakeChannels) Channel(_ context.Context, channelID string) (*models.Channel, error) {
	if f.channelErr != nil {
		return nil, f.channelErr
	}
	return f.channel, nil
}

func (f *fakeChannels) Videos(_ context.Context, _, _ string) ([]models.Video, error) {
	if f.videosErr != nil {
		return nil, f.videosErr
	}
	return f.videos, nil
}

type fakeGeo struct {
	records   []models.CountryViewRecord
	timeRange models.TimeRange
	err       error
	exchanged string
}

func (f *fakeGeo) AuthURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (f *fakeGeo) Exchange(_ context.Context, code string) error {
	f.exchanged = code
	return nil
}

func (f *fakeGeo) CountryViews(_ context.Context, _ string, _ int) ([]models.CountryViewRecord, models.TimeRange, error) {
	if f.err != nil {
		return nil, models.TimeRange{}, f.err
	}
	return f.records, f.timeRange, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Port:                "8080",
		GeographyWindowDays: 90,
		CORSOrigins:         []string{"http://localhost:3000"},
	}
}

func likes(n int64) *int64 { return &n }

func testChannel() *models.Channel {
	return &models.Channel{
		ID:              "UCtest0000000000000000aa",
		Title:           "Test Channel",
		Subscribers:     1000,
		ViewCount:       350,
		VideoCount:      3,
		UploadsPlaylist: "UUtest0000000000000000aa",
	}
}

func testVideos() []models.Video {
	return []models.Video{
		{ID: "a", ChannelID: "UCtest0000000000000000aa", Title: "video a",
			PublishedAt: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), Views: 100, Likes: likes(10)},
		{ID: "b", ChannelID: "UCtest0000000000000000aa", Title: "video b",
			PublishedAt: time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC), Views: 50, Likes: nil},
		{ID: "c", ChannelID: "UCtest0000000000000000aa", Title: "video c",
			PublishedAt: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), Views: 200, Likes: likes(40)},
	}
}

func doRequest(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := NewServer(testConfig(), &fakeChannels{}, nil, nil)

	rec := doRequest(t, s, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDashboardReport(t *testing.T) {
	s := NewServer(testConfig(), &fakeChannels{channel: testChannel(), videos: testVideos()}, nil, nil)

	rec := doRequest(t, s, "/channel/UCtest0000000000000000aa/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)

	var report models.DashboardReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))

	assert.Equal(t, "Test Channel", report.Channel.Title)

	// view series sorted ascending by publish time
	require.Len(t, report.ViewSeries, 3)
	assert.Equal(t, "a", report.ViewSeries[0].VideoID)
	assert.Equal(t, "c", report.ViewSeries[2].VideoID)

	// top videos by view count descending
	require.Len(t, report.TopVideos, 3)
	assert.Equal(t, "c", report.TopVideos[0].ID)
	assert.Equal(t, "a", report.TopVideos[1].ID)

	// video b has ratings disabled and is excluded from engagement
	require.Len(t, report.Engagement, 2)

	// monthly series covers Jan through Mar with a zero-count Feb
	require.Len(t, report.MonthlyUploads, 3)
	assert.Equal(t, models.MonthlyCount{Month: "2024-02", Count: 0}, report.MonthlyUploads[1])

	assert.Equal(t, "2024-01-05", report.TimeRange.StartDate)
	assert.Equal(t, "2024-03-15", report.TimeRange.EndDate)
}

func TestDashboardEmptyChannel(t *testing.T) {
	s := NewServer(testConfig(), &fakeChannels{channel: testChannel(), videos: []models.Video{}}, nil, nil)

	rec := doRequest(t, s, "/channel/UCtest0000000000000000aa/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)

	var report models.DashboardReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))

	assert.Empty(t, report.ViewSeries)
	assert.Empty(t, report.TopVideos)
	assert.Empty(t, report.Engagement)
	assert.Empty(t, report.MonthlyUploads)
	assert.Empty(t, report.TimeRange.StartDate)
}

func TestDashboardChannelNotFound(t *testing.T) {
	s := NewServer(testConfig(), &fakeChannels{channelErr: youtube.ErrChannelNotFound}, nil, nil)

	rec := doRequest(t, s, "/channel/UCmissing/dashboard")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChannelVideos(t *testing.T) {
	s := NewServer(testConfig(), &fakeChannels{channel: testChannel(), videos: testVideos()}, nil, nil)

	rec := doRequest(t, s, "/channel/UCtest0000000000000000aa/videos")
	require.Equal(t, http.StatusOK, rec.Code)

	var videos []models.Video
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &videos))
	assert.Len(t, videos, 3)

	// ratings-disabled video serializes likes as null, not zero
	assert.Nil(t, videos[1].Likes)
}

func TestResolveChannelRequiresRef(t *testing.T) {
	s := NewServer(testConfig(), &fakeChannels{channel: testChannel()}, nil, nil)

	rec := doRequest(t, s, "/channel/resolve")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResolveChannel(t *testing.T) {
	s := NewServer(testConfig(), &fakeChannels{channel: testChannel()}, nil, nil)

	rec := doRequest(t, s, "/channel/resolve?ref=@testchannel")
	require.Equal(t, http.StatusOK, rec.Code)

	var channel models.Channel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &channel))
	assert.Equal(t, "Test Channel", channel.Title)
}

func TestGeographyReport(t *testing.T) {
	geo := &fakeGeo{
		records: []models.CountryViewRecord{
			{Country: "US", Views: 100},
			{Country: "DE", Views: 40},
			{Country: "US", Views: 25},
		},
		timeRange: models.TimeRange{StartDate: "2024-01-01", EndDate: "2024-03-31"},
	}
	s := NewServer(testConfig(), &fakeChannels{channel: testChannel()}, geo, nil)

	rec := doRequest(t, s, "/channel/UCtest0000000000000000aa/geography")
	require.Equal(t, http.StatusOK, rec.Code)

	var report models.GeographyReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))

	assert.Equal(t, map[string]int64{"US": 125, "DE": 40}, report.ViewsByCountry)
	require.Len(t, report.TopCountries, 2)
	assert.Equal(t, "US", report.TopCountries[0].Country)
	assert.Equal(t, "2024-01-01", report.TimeRange.StartDate)
}

func TestGeographyUnauthorized(t *testing.T) {
	s := NewServer(testConfig(), &fakeChannels{channel: testChannel()}, &fakeGeo{err: youtube.ErrNotAuthorized}, nil)

	rec := doRequest(t, s, "/channel/UCtest0000000000000000aa/geography")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "authorizeUrl")
}

func TestGeographyWithoutCredentials(t *testing.T) {
	s := NewServer(testConfig(), &fakeChannels{channel: testChannel()}, nil, nil)

	rec := doRequest(t, s, "/channel/UCtest0000000000000000aa/geography")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAuthURL(t *testing.T) {
	s := NewServer(testConfig(), &fakeChannels{}, &fakeGeo{}, nil)

	rec := doRequest(t, s, "/auth/url")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "accounts.example.com")
}

func TestAuthCallback(t *testing.T) {
	geo := &fakeGeo{}
	s := NewServer(testConfig(), &fakeChannels{}, geo, nil)

	rec := doRequest(t, s, "/auth/callback?code=abc123")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc123", geo.exchanged)

	rec = doRequest(t, s, "/auth/callback")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
