package models

import "time"

// Video represents a single upload of the queried channel.
// Likes is nil when the video has ratings disabled; the aggregation
// layer excludes such videos from engagement pairing instead of
// treating the count as zero.
type Video struct {
	ID          string    `json:"id"`
	ChannelID   string    `json:"channelId"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"publishedAt"`
	Views       int64     `json:"views"`
	Likes       *int64    `json:"likes"`
	Comments    int64     `json:"comments"`
	Duration    string    `json:"duration"`
	Thumbnail   string    `json:"thumbnailUrl"`
}

// LikeCount returns the like count and whether ratings are enabled.
func (v *Video) LikeCount() (int64, bool) {
	if v.Likes == nil {
		return 0, false
	}
	return *v.Likes, true
}

// PlaylistItemsResponse represents one page of the playlistItems.list
// response for the channel's uploads playlist.
type PlaylistItemsResponse struct {
	Items []struct {
		Snippet struct {
			ResourceID struct {
				VideoID string `json:"videoId"`
			} `json:"resourceId"`
		} `json:"snippet"`
	} `json:"items"`
	NextPageToken string `json:"nextPageToken"`
}

// VideoListResponse represents the videos.list response from the Data API.
// Statistics fields are decoded as strings: the API serves counts as
// quoted numbers and omits likeCount entirely when ratings are disabled,
// which is how we distinguish "zero likes" from "no like data".
type VideoListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title       string    `json:"title"`
			Description string    `json:"description"`
			PublishedAt time.Time `json:"publishedAt"`
			Thumbnails  struct {
				Default struct {
					URL string `json:"url"`
				} `json:"default"`
			} `json:"thumbnails"`
		} `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
		Statistics struct {
			ViewCount    string `json:"viewCount"`
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
	} `json:"items"`
}
