package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	youtubeanalytics "google.golang.org/api/youtubeanalytics/v2"

	"github.com/ytdash/internal/models"
)

// ErrNotAuthorized is returned when no OAuth token has been obtained
// yet. The caller should direct the user through the authorize flow.
var ErrNotAuthorized = errors.New("analytics access not authorized")

// AnalyticsClient fetches audience geography from the YouTube
// Analytics API. Unlike the Data API it requires the channel owner's
// OAuth consent; the obtained token is cached on disk and reused
// across restarts.
type AnalyticsClient struct {
	conf      *oauth2.Config
	tokenFile string
}

// NewAnalyticsClient reads the OAuth client secrets file and prepares
// the read-only analytics scope configuration.
func NewAnalyticsClient(secretsFile, tokenFile string) (*AnalyticsClient, error) {
	secrets, err := os.ReadFile(secretsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read client secrets file: %w", err)
	}

	conf, err := google.ConfigFromJSON(secrets, youtubeanalytics.YtAnalyticsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse client secrets file: %w", err)
	}

	return &AnalyticsClient{
		conf:      conf,
		tokenFile: tokenFile,
	}, nil
}

// AuthURL returns the consent page URL to send the user to.
func (a *AnalyticsClient) AuthURL(state string) string {
	return a.conf.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades the authorization code for a token and caches it.
func (a *AnalyticsClient) Exchange(ctx context.Context, code string) error {
	tok, err := a.conf.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return a.saveToken(tok)
}

// CountryViews queries per-country view totals for the channel over
// the trailing windowDays ending today, sorted by views descending.
func (a *AnalyticsClient) CountryViews(ctx context.Context, channelID string, windowDays int) ([]models.CountryViewRecord, models.TimeRange, error) {
	tok, err := a.loadToken()
	if err != nil {
		return nil, models.TimeRange{}, ErrNotAuthorized
	}

	svc, err := youtubeanalytics.NewService(ctx,
		option.WithTokenSource(a.conf.TokenSource(ctx, tok)))
	if err != nil {
		return nil, models.TimeRange{}, fmt.Errorf("failed to create analytics service: %w", err)
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -windowDays)
	timeRange := models.TimeRange{
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
	}

	resp, err := svc.Reports.Query().
		Ids("channel==" + channelID).
		StartDate(timeRange.StartDate).
		EndDate(timeRange.EndDate).
		Metrics("views").
		Dimensions("country").
		Sort("-views").
		Context(ctx).
		Do()
	if err != nil {
		return nil, timeRange, fmt.Errorf("error fetching audience geography: %w", err)
	}

	records := make([]models.CountryViewRecord, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		if len(row) < 2 {
			continue
		}
		country, ok := row[0].(string)
		if !ok {
			continue
		}
		views, ok := row[1].(float64)
		if !ok {
			continue
		}
		records = append(records, models.CountryViewRecord{
			Country: country,
			Views:   int64(views),
		})
	}

	return records, timeRange, nil
}

func (a *AnalyticsClient) loadToken() (*oauth2.Token, error) {
	f, err := os.Open(a.tokenFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("failed to decode cached token: %w", err)
	}
	return tok, nil
}

func (a *AnalyticsClient) saveToken(tok *oauth2.Token) error {
	f, err := os.OpenFile(a.tokenFile, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create token cache file: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(tok); err != nil {
		return fmt.Errorf("failed to write token cache file: %w", err)
	}
	return nil
}
