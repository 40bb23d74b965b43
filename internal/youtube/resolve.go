package youtube

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/ytdash/internal/models"
)

type refKind int

const (
	refChannelID refKind = iota
	refHandle
	refUsername
)

// channelRef is a classified user input: a raw channel ID, a handle,
// or a legacy custom-URL username. Handles and usernames still need an
// API lookup to become channel IDs.
type channelRef struct {
	kind  refKind
	value string
}

// parseChannelRef classifies the user-supplied channel reference.
// Accepted forms: a raw "UC..." channel ID, an "@handle", a bare
// handle, and the usual youtube.com URL shapes (/channel/, /c/,
// /user/, /@handle).
func parseChannelRef(input string) (channelRef, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return channelRef{}, fmt.Errorf("channel reference is empty")
	}

	if strings.HasPrefix(input, "@") {
		return channelRef{kind: refHandle, value: strings.TrimPrefix(input, "@")}, nil
	}

	if !strings.Contains(input, "/") && !strings.Contains(input, ".") {
		// Channel IDs are 24 characters starting with "UC"
		if strings.HasPrefix(input, "UC") && len(input) == 24 {
			return channelRef{kind: refChannelID, value: input}, nil
		}
		return channelRef{kind: refHandle, value: input}, nil
	}

	raw := input
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return channelRef{}, fmt.Errorf("invalid URL: %w", err)
	}

	switch {
	case strings.Contains(parsed.Host, "youtube.com"):
		path := strings.TrimSuffix(parsed.Path, "/")
		switch {
		case strings.HasPrefix(path, "/channel/"):
			return channelRef{kind: refChannelID, value: strings.TrimPrefix(path, "/channel/")}, nil
		case strings.HasPrefix(path, "/c/"):
			return channelRef{kind: refUsername, value: strings.TrimPrefix(path, "/c/")}, nil
		case strings.HasPrefix(path, "/user/"):
			return channelRef{kind: refUsername, value: strings.TrimPrefix(path, "/user/")}, nil
		case strings.HasPrefix(path, "/@"):
			return channelRef{kind: refHandle, value: strings.TrimPrefix(path, "/@")}, nil
		}
		return channelRef{}, fmt.Errorf("unsupported YouTube URL format: %s", input)
	case strings.Contains(parsed.Host, "youtu.be"):
		return channelRef{}, fmt.Errorf("youtu.be URLs point at videos, not channels")
	}

	return channelRef{}, fmt.Errorf("unsupported channel reference: %s", input)
}

// ResolveChannelID turns a user-supplied channel reference (ID, handle,
// or URL) into a channel ID, issuing a lookup when the reference is a
// handle or legacy username.
func (c *Client) ResolveChannelID(ctx context.Context, input string) (string, error) {
	ref, err := parseChannelRef(input)
	if err != nil {
		return "", err
	}

	switch ref.kind {
	case refChannelID:
		return ref.value, nil
	case refHandle:
		return c.lookupChannelID(ctx, url.Values{"forHandle": {"@" + ref.value}}, "@"+ref.value)
	case refUsername:
		return c.lookupChannelID(ctx, url.Values{"forUsername": {ref.value}}, ref.value)
	}
	return "", fmt.Errorf("unsupported channel reference: %s", input)
}

func (c *Client) lookupChannelID(ctx context.Context, params url.Values, display string) (string, error) {
	params.Set("part", "id")

	var resp models.ChannelListResponse
	if err := c.rest.get(ctx, "channels", params, &resp); err != nil {
		return "", err
	}
	if len(resp.Items) == 0 {
		return "", fmt.Errorf("no channel found for %s", display)
	}
	return resp.Items[0].ID, nil
}
