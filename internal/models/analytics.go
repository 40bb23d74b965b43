package models

import "time"

// ViewPoint is one point of the views-over-time series: a single video's
// publish timestamp and its lifetime view count.
type ViewPoint struct {
	PublishedAt time.Time `json:"publishedAt"`
	Views       int64     `json:"views"`
	VideoID     string    `json:"videoId"`
	Title       string    `json:"title"`
}

// EngagementPoint is one (views, likes) pair for the likes-vs-views
// scatter. Only videos with ratings enabled produce a point.
type EngagementPoint struct {
	Views   int64  `json:"views"`
	Likes   int64  `json:"likes"`
	VideoID string `json:"videoId"`
	Title   string `json:"title"`
}

// MonthlyCount is the number of uploads in one calendar month.
// Month is formatted as "2006-01".
type MonthlyCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// TimeRange represents the period covered by a report
type TimeRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// DashboardReport bundles every Data-API-backed visualization for one
// channel: the channel header, the views-over-time scatter, the top-N
// table, the likes-vs-views scatter, and the monthly upload bars.
type DashboardReport struct {
	Channel        Channel           `json:"channel"`
	ViewSeries     []ViewPoint       `json:"viewSeries"`
	TopVideos      []Video           `json:"topVideos"`
	Engagement     []EngagementPoint `json:"engagement"`
	MonthlyUploads []MonthlyCount    `json:"monthlyUploads"`
	TimeRange      TimeRange         `json:"timeRange"`
	GeneratedAt    time.Time         `json:"generatedAt"`
}

// CountryViewRecord is one row of the Analytics API geography report:
// an ISO country code and the views it contributed in the queried range.
type CountryViewRecord struct {
	Country string `json:"country"`
	Views   int64  `json:"views"`
}

// GeographyReport is the choropleth input for one channel: total views
// per country over the configured trailing window, plus the same rows
// sorted by views for the top-countries table.
type GeographyReport struct {
	ChannelID      string              `json:"channelId"`
	ViewsByCountry map[string]int64    `json:"viewsByCountry"`
	TopCountries   []CountryViewRecord `json:"topCountries"`
	TimeRange      TimeRange           `json:"timeRange"`
	GeneratedAt    time.Time           `json:"generatedAt"`
}
