package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const dataAPIBaseURL = "https://www.googleapis.com/youtube/v3"

// restClient issues raw HTTP requests to the Data API. It exists
// alongside the generated client because some responses carry
// information the typed structs flatten away: statistics arrive as
// quoted numbers and likeCount is omitted entirely for videos with
// ratings disabled.
type restClient struct {
	apiKey string
	client *http.Client
}

func newRESTClient(apiKey string) *restClient {
	return &restClient{
		apiKey: apiKey,
		client: &http.Client{},
	}
}

// get fetches one Data API resource and decodes the JSON body into out.
func (c *restClient) get(ctx context.Context, resource string, params url.Values, out any) error {
	query := url.Values{}
	for k, vs := range params {
		query[k] = vs
	}
	query.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/%s?%s", dataAPIBaseURL, resource, query.Encode()), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", resource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", resource, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	var apiErr struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("YouTube API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
	}
	return fmt.Errorf("YouTube API returned status code: %d", resp.StatusCode)
}
