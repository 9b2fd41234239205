package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("REDIS_ENABLED", "")
	t.Setenv("COMPANY_PDFS", "")

	cfg := Load()
	assert.Equal(t, "8050", cfg.App.Port)
	assert.False(t, cfg.Redis.Enabled)
	assert.True(t, cfg.Data.InsecureTLS)
	assert.Equal(t, 2*time.Hour, cfg.Uploads.TTL)
	require.Len(t, cfg.Documents.Company, 1)
	assert.Equal(t, "AEP820B08TFLTMM", cfg.Documents.Company[0].Label)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("UPLOAD_TTL", "15m")
	t.Setenv("RATE_LIMIT_RPS", "not-a-number")

	cfg := Load()
	assert.Equal(t, "9000", cfg.App.Port)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Uploads.TTL)
	assert.Equal(t, 10, cfg.RateLimit.RequestsPerSecond)
}

func TestParseDocuments(t *testing.T) {
	docs := ParseDocuments(" A = a.pdf ;; https://x/b.pdf ;")
	assert.Equal(t, []Document{
		{Label: "A", Location: "a.pdf"},
		{Label: "https://x/b.pdf", Location: "https://x/b.pdf"},
	}, docs)
	assert.Empty(t, ParseDocuments(""))
}
