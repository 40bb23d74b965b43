// Package youtube wraps the two external services the dashboard reads
// from: the YouTube Data API (channel metadata and per-video
// statistics) and the YouTube Analytics API (audience geography).
package youtube

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/option"
	youtubeapi "google.golang.org/api/youtube/v3"

	"github.com/ytdash/internal/models"
)

// ErrChannelNotFound is returned when the Data API has no channel for
// the given ID.
var ErrChannelNotFound = errors.New("channel not found")

// Client fetches channel and video data from the YouTube Data API.
type Client struct {
	service *youtubeapi.Service
	rest    *restClient
}

// NewClient creates a Data API client authenticated with an API key.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	service, err := youtubeapi.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return &Client{
		service: service,
		rest:    newRESTClient(apiKey),
	}, nil
}

// Channel fetches channel metadata and lifetime statistics by ID.
func (c *Client) Channel(ctx context.Context, channelID string) (*models.Channel, error) {
	call := c.service.Channels.
		List([]string{"snippet", "statistics", "contentDetails"}).
		Id(channelID).
		Context(ctx)

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("error fetching channel info: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, ErrChannelNotFound
	}

	item := resp.Items[0]
	channel := &models.Channel{
		ID: item.Id,
	}
	if item.Snippet != nil {
		channel.Title = item.Snippet.Title
		channel.Description = item.Snippet.Description
		if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.Default != nil {
			channel.Thumbnail = item.Snippet.Thumbnails.Default.Url
		}
	}
	if item.Statistics != nil {
		channel.Subscribers = int64(item.Statistics.SubscriberCount)
		channel.ViewCount = int64(item.Statistics.ViewCount)
		channel.VideoCount = int64(item.Statistics.VideoCount)
	}
	if item.ContentDetails != nil && item.ContentDetails.RelatedPlaylists != nil {
		channel.UploadsPlaylist = item.ContentDetails.RelatedPlaylists.Uploads
	}

	return channel, nil
}
