package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	sqlitecloud "github.com/sqlitecloud/sqlitecloud-go"
)

// ReportKind identifies which cached report a row holds
type ReportKind string

const (
	ReportKindDashboard ReportKind = "dashboard"
	ReportKindGeography ReportKind = "geography"
)

// CachedReport is one row of the channel_reports table
type CachedReport struct {
	ChannelID string          `json:"channel_id"`
	Kind      ReportKind      `json:"report_kind"`
	UpdatedAt time.Time       `json:"updated_at"`
	Payload   json.RawMessage `json:"payload"`
}

// ReportCache stores rendered reports in SQLite Cloud so repeated
// queries for the same channel on the same day do not re-walk the
// YouTube APIs. A zero ReportCache (no connection) is valid and turns
// every operation into a no-op.
type ReportCache struct {
	db *sqlitecloud.SQCloud
}

// NewReportCache connects to SQLite Cloud and ensures the reports table
// exists. An empty connection string disables caching.
func NewReportCache(connString string) (*ReportCache, error) {
	if connString == "" {
		log.Info().Msg("report cache: no connection string configured, caching disabled")
		return &ReportCache{}, nil
	}

	log.Info().Str("db", maskConnectionString(connString)).Msg("report cache: connecting")

	db, err := sqlitecloud.Connect(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite Cloud: %w", err)
	}

	cache := &ReportCache{db: db}
	if err := cache.createTable(); err != nil {
		return nil, err
	}
	return cache, nil
}

// Enabled reports whether a backing connection exists.
func (c *ReportCache) Enabled() bool {
	return c.db != nil
}

// maskConnectionString hides the API key in logs for security
func maskConnectionString(connStr string) string {
	if strings.Contains(connStr, "apikey=") {
		parts := strings.Split(connStr, "apikey=")
		if len(parts) > 1 {
			return parts[0] + "apikey=***"
		}
	}
	return connStr
}

func (c *ReportCache) createTable() error {
	sql := `CREATE TABLE IF NOT EXISTS channel_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		channel_id TEXT NOT NULL,
		report_kind TEXT NOT NULL CHECK(report_kind IN ('dashboard', 'geography')),
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		payload TEXT NOT NULL,
		CONSTRAINT unique_channel_report UNIQUE(channel_id, report_kind)
	)`
	if err := c.db.Execute(sql); err != nil {
		return fmt.Errorf("failed to create channel_reports table: %w", err)
	}
	return nil
}

// Get returns the cached report for a channel and kind, or nil when no
// row exists or caching is disabled.
func (c *ReportCache) Get(channelID string, kind ReportKind) (*CachedReport, error) {
	if c.db == nil {
		return nil, nil
	}

	sql := `SELECT updated_at, payload FROM channel_reports
			WHERE channel_id = ? AND report_kind = ?
			ORDER BY updated_at DESC LIMIT 1`

	result, err := c.db.SelectArray(sql, []interface{}{channelID, string(kind)})
	if err != nil {
		return nil, fmt.Errorf("failed to query cached report: %w", err)
	}
	if result.GetNumberOfRows() == 0 {
		return nil, nil
	}

	updatedStr, err := result.GetStringValue(0, 0)
	if err != nil {
		return nil, err
	}
	payload, err := result.GetStringValue(0, 1)
	if err != nil {
		return nil, err
	}

	updatedAt, err := time.Parse("2006-01-02 15:04:05", strings.TrimSpace(updatedStr))
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return &CachedReport{
		ChannelID: channelID,
		Kind:      kind,
		UpdatedAt: updatedAt,
		Payload:   json.RawMessage(payload),
	}, nil
}

// Put upserts the report payload for a channel and kind.
func (c *ReportCache) Put(channelID string, kind ReportKind, payload []byte) error {
	if c.db == nil {
		return nil
	}

	sql := `INSERT INTO channel_reports (channel_id, report_kind, payload)
			VALUES (?, ?, ?)
			ON CONFLICT(channel_id, report_kind)
			DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`

	if err := c.db.ExecuteArray(sql, []interface{}{channelID, string(kind), string(payload)}); err != nil {
		return fmt.Errorf("failed to store cached report: %w", err)
	}
	return nil
}

// Close closes the database connection
func (c *ReportCache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
