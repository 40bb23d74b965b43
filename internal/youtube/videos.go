package youtube

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ytdash/internal/models"
)

// videoBatchSize is the Data API maximum for both playlistItems pages
// and videos.list ID batches.
const videoBatchSize = 50

// Videos walks the channel's uploads playlist and fetches statistics
// for every video on it. The returned videos all belong to channelID;
// order is whatever the API served, callers sort for display.
func (c *Client) Videos(ctx context.Context, channelID, uploadsPlaylist string) ([]models.Video, error) {
	if uploadsPlaylist == "" {
		return []models.Video{}, nil
	}

	ids, err := c.uploadedVideoIDs(ctx, uploadsPlaylist)
	if err != nil {
		return nil, err
	}

	videos := make([]models.Video, 0, len(ids))
	for start := 0; start < len(ids); start += videoBatchSize {
		end := min(start+videoBatchSize, len(ids))

		params := url.Values{
			"part": {"snippet,contentDetails,statistics"},
			"id":   {strings.Join(ids[start:end], ",")},
		}
		var page models.VideoListResponse
		if err := c.rest.get(ctx, "videos", params, &page); err != nil {
			return nil, fmt.Errorf("failed to fetch video details: %w", err)
		}

		for _, item := range page.Items {
			views, _ := strconv.ParseInt(item.Statistics.ViewCount, 10, 64)
			comments, _ := strconv.ParseInt(item.Statistics.CommentCount, 10, 64)

			video := models.Video{
				ID:          item.ID,
				ChannelID:   channelID,
				Title:       item.Snippet.Title,
				PublishedAt: item.Snippet.PublishedAt,
				Views:       views,
				Comments:    comments,
				Duration:    item.ContentDetails.Duration,
				Thumbnail:   item.Snippet.Thumbnails.Default.URL,
			}
			// likeCount is absent when ratings are disabled
			if item.Statistics.LikeCount != "" {
				if likes, err := strconv.ParseInt(item.Statistics.LikeCount, 10, 64); err == nil {
					video.Likes = &likes
				}
			}
			videos = append(videos, video)
		}
	}

	return videos, nil
}

func (c *Client) uploadedVideoIDs(ctx context.Context, uploadsPlaylist string) ([]string, error) {
	var ids []string
	pageToken := ""

	for {
		params := url.Values{
			"part":       {"snippet"},
			"playlistId": {uploadsPlaylist},
			"maxResults": {strconv.Itoa(videoBatchSize)},
		}
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var page models.PlaylistItemsResponse
		if err := c.rest.get(ctx, "playlistItems", params, &page); err != nil {
			return nil, fmt.Errorf("failed to fetch playlist items: %w", err)
		}

		for _, item := range page.Items {
			ids = append(ids, item.Snippet.ResourceID.VideoID)
		}

		if page.NextPageToken == "" {
			return ids, nil
		}
		pageToken = page.NextPageToken
	}
}
