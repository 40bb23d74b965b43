// Package stats shapes raw video and country records into the series
// the dashboard charts consume. Every function is pure: inputs are
// never mutated, no I/O happens, and an empty input yields an empty
// (non-nil) output.
package stats

import (
	"iter"
	"slices"
	"sort"
	"time"

	"github.com/ytdash/internal/models"
)

// ViewSeries returns the views-over-time scatter series: one point per
// video, ordered by publish timestamp ascending. The sequence is lazy
// and restartable; ranging over it again replays the same points.
func ViewSeries(videos []models.Video) iter.Seq[models.ViewPoint] {
	ordered := slices.Clone(videos)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].PublishedAt.Before(ordered[j].PublishedAt)
	})

	return func(yield func(models.ViewPoint) bool) {
		for _, v := range ordered {
			point := models.ViewPoint{
				PublishedAt: v.PublishedAt,
				Views:       v.Views,
				VideoID:     v.ID,
				Title:       v.Title,
			}
			if !yield(point) {
				return
			}
		}
	}
}

// TopVideos returns the n most viewed videos, ordered by view count
// descending with ties broken by earlier publish timestamp. Channels
// with fewer than n videos simply produce a shorter list.
func TopVideos(videos []models.Video, n int) []models.Video {
	ranked := slices.Clone(videos)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Views != ranked[j].Views {
			return ranked[i].Views > ranked[j].Views
		}
		return ranked[i].PublishedAt.Before(ranked[j].PublishedAt)
	})

	if n < 0 {
		n = 0
	}
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	if ranked == nil {
		ranked = []models.Video{}
	}
	return ranked
}

// EngagementPoints returns (views, likes) pairs for the likes-vs-views
// scatter. Videos with ratings disabled carry no like count and are
// excluded rather than zero-filled, so they cannot drag a correlation
// toward the axis.
func EngagementPoints(videos []models.Video) []models.EngagementPoint {
	points := make([]models.EngagementPoint, 0, len(videos))
	for _, v := range videos {
		likes, ok := v.LikeCount()
		if !ok {
			continue
		}
		points = append(points, models.EngagementPoint{
			Views:   v.Views,
			Likes:   likes,
			VideoID: v.ID,
			Title:   v.Title,
		})
	}
	return points
}

// MonthlyUploads counts uploads per calendar month, covering every
// month from the first to the last upload inclusive. Months with no
// uploads appear with a zero count so the bar chart has no gaps.
func MonthlyUploads(videos []models.Video) []models.MonthlyCount {
	if len(videos) == 0 {
		return []models.MonthlyCount{}
	}

	counts := make(map[string]int, len(videos))
	var first, last time.Time
	for _, v := range videos {
		t := v.PublishedAt.UTC()
		m := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		counts[m.Format("2006-01")]++
		if first.IsZero() || m.Before(first) {
			first = m
		}
		if last.IsZero() || m.After(last) {
			last = m
		}
	}

	var series []models.MonthlyCount
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		key := m.Format("2006-01")
		series = append(series, models.MonthlyCount{Month: key, Count: counts[key]})
	}
	return series
}

// CountryTotals sums views per country code across the queried range,
// producing the choropleth input mapping.
func CountryTotals(records []models.CountryViewRecord) map[string]int64 {
	totals := make(map[string]int64, len(records))
	for _, r := range records {
		totals[r.Country] += r.Views
	}
	return totals
}

// TopCountries returns the country records ordered by views descending,
// ties broken by country code, truncated to n rows.
func TopCountries(totals map[string]int64, n int) []models.CountryViewRecord {
	ranked := make([]models.CountryViewRecord, 0, len(totals))
	for country, views := range totals {
		ranked = append(ranked, models.CountryViewRecord{Country: country, Views: views})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Views != ranked[j].Views {
			return ranked[i].Views > ranked[j].Views
		}
		return ranked[i].Country < ranked[j].Country
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
