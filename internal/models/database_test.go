package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskConnectionString(t *testing.T) {
	masked := maskConnectionString("sqlitecloud://host.sqlite.cloud:8860/ytdash?apikey=secret123")
	assert.Equal(t, "sqlitecloud://host.sqlite.cloud:8860/ytdash?apikey=***", masked)

	plain := "sqlitecloud://host.sqlite.cloud:8860/ytdash"
	assert.Equal(t, plain, maskConnectionString(plain))
}

func TestDisabledReportCacheIsNoOp(t *testing.T) {
	cache, err := NewReportCache("")
	assert.NoError(t, err)
	assert.False(t, cache.Enabled())

	cached, err := cache.Get("UCtest", ReportKindDashboard)
	assert.NoError(t, err)
	assert.Nil(t, cached)

	assert.NoError(t, cache.Put("UCtest", ReportKindDashboard, []byte(`{}`)))
	assert.NoError(t, cache.Close())
}
