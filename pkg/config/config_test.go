package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ADS_FILE_PATH", filepath.Join(t.TempDir(), "missing.json"))

	cfg := Load()
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "Transfer Daily", cfg.SiteName)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "@every 15s", cfg.TranslationPollSchedule)
	assert.False(t, cfg.AdsEnabled)
	assert.Equal(t, DefaultAdSlots(), cfg.AdSlots)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SITE_URL", "https://transferdaily.example/")
	t.Setenv("API_URL", "https://api.example/v1/")
	t.Setenv("API_TIMEOUT", "3")
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("REDIS_DB", "4")
	t.Setenv("KAFKA_BROKERS", " k1:9092, ,k2:9092 ")
	t.Setenv("ADS_ENABLED", "true")
	t.Setenv("ADS_FILE_PATH", filepath.Join(t.TempDir(), "missing.json"))

	cfg := Load()
	assert.Equal(t, "https://transferdaily.example", cfg.SiteURL)
	assert.Equal(t, "https://api.example/v1", cfg.APIURL)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 4, cfg.RedisDB)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.AdsEnabled)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "four")
	t.Setenv("ADS_ENABLED", "maybe")
	t.Setenv("SESSION_TTL", "soon")
	t.Setenv("ADS_FILE_PATH", filepath.Join(t.TempDir(), "missing.json"))

	cfg := Load()
	assert.Equal(t, 0, cfg.RedisDB)
	assert.False(t, cfg.AdsEnabled)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
}

func TestLoadAdSlots(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "ads.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"sidebar":{"slot":"42","format":"vertical","enabled":true}}`), 0o600))
	slots := loadAdSlots(path)
	require.Len(t, slots, 1)
	assert.Equal(t, AdSlotConfig{Slot: "42", Format: "vertical", Enabled: true}, slots["sidebar"])

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{`), 0o600))
	assert.Equal(t, DefaultAdSlots(), loadAdSlots(broken))
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a", "b"}, splitList("a,,b,"))
}
