package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AdSlotConfig describes one ad placement.
type AdSlotConfig struct {
	Slot    string `json:"slot"`
	Format  string `json:"format"`
	Enabled bool   `json:"enabled"`
}

type Config struct {
	ServerPort    string
	SiteURL       string
	SiteName      string
	DefaultLocale string

	APIURL     string
	APITimeout time.Duration

	MongoURI    string
	MongoDBName string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	KafkaBrokers          []string
	KafkaPublishedTopic   string
	KafkaTranslationTopic string
	KafkaDLQTopic         string

	CognitoRegion       string
	CognitoClientID     string
	CognitoClientSecret string

	SessionSecret string
	SessionTTL    time.Duration

	S3Bucket        string
	S3Region        string
	S3PublicBaseURL string

	AdsEnabled      bool
	AdSenseClientID string
	AdsFilePath     string
	AdSlots         map[string]AdSlotConfig

	TranslationPollSchedule string
	OTelEnabled             bool
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	brokers := getEnv("KAFKA_BROKERS", "kafka:29092")

	cfg := &Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		SiteURL:       strings.TrimRight(getEnv("SITE_URL", "http://localhost:8080"), "/"),
		SiteName:      getEnv("SITE_NAME", "Transfer Daily"),
		DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),

		APIURL:     strings.TrimRight(getEnv("API_URL", getEnv("NEXT_PUBLIC_API_URL", "http://localhost:8081")), "/"),
		APITimeout: getDurationEnv("API_TIMEOUT", 10*time.Second),

		MongoURI:    getEnv("MONGO_URI", "mongodb://mongodb:27017"),
		MongoDBName: getEnv("MONGO_DB_NAME", "transfer_daily"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),
		CacheTTL:      getDurationEnv("CACHE_TTL", 60*time.Second),

		KafkaBrokers:          splitList(brokers),
		KafkaPublishedTopic:   getEnv("KAFKA_PUBLISHED_TOPIC", "articles_published"),
		KafkaTranslationTopic: getEnv("KAFKA_TRANSLATION_TOPIC", "article_translations"),
		KafkaDLQTopic:         getEnv("KAFKA_DLQ_TOPIC", "article_translations_dlq"),

		CognitoRegion:       getEnv("COGNITO_REGION", "eu-west-1"),
		CognitoClientID:     getEnv("COGNITO_CLIENT_ID", ""),
		CognitoClientSecret: getEnv("COGNITO_CLIENT_SECRET", ""),

		SessionSecret: getEnv("SESSION_SECRET", ""),
		SessionTTL:    getDurationEnv("SESSION_TTL", 12*time.Hour),

		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Region:        getEnv("S3_REGION", getEnv("COGNITO_REGION", "eu-west-1")),
		S3PublicBaseURL: strings.TrimRight(getEnv("S3_PUBLIC_BASE_URL", ""), "/"),

		AdsEnabled:      getBoolEnv("ADS_ENABLED", false),
		AdSenseClientID: getEnv("ADSENSE_CLIENT_ID", ""),
		AdsFilePath:     getEnv("ADS_FILE_PATH", "config/ads.json"),

		TranslationPollSchedule: getEnv("TRANSLATION_POLL_SCHEDULE", "@every 15s"),
		OTelEnabled:             getBoolEnv("OTEL_ENABLED", false),
	}
	cfg.AdSlots = loadAdSlots(cfg.AdsFilePath)
	return cfg
}

// DefaultAdSlots is used when no ads file is present.
func DefaultAdSlots() map[string]AdSlotConfig {
	return map[string]AdSlotConfig{
		"header-banner":  {Slot: "1000000001", Format: "horizontal", Enabled: true},
		"article-top":    {Slot: "1000000002", Format: "auto", Enabled: true},
		"article-inline": {Slot: "1000000003", Format: "fluid", Enabled: true},
		"article-bottom": {Slot: "1000000004", Format: "auto", Enabled: true},
		"sidebar":        {Slot: "1000000005", Format: "vertical", Enabled: true},
		"listing-inline": {Slot: "1000000006", Format: "in-feed", Enabled: false},
	}
}

func loadAdSlots(path string) map[string]AdSlotConfig {
	file, err := os.Open(path)
	if err != nil {
		slog.Info("No ads file, using default ad slots", "path", path)
		return DefaultAdSlots()
	}
	defer func() {
		if err := file.Close(); err != nil {
			slog.Warn("Failed to close ads file", "error", err)
		}
	}()

	var slots map[string]AdSlotConfig
	if err := json.NewDecoder(file).Decode(&slots); err != nil {
		slog.Error("Error decoding ads file, using defaults", "path", path, "error", err)
		return DefaultAdSlots()
	}
	return slots
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		// Try parsing as duration string (e.g. "1m", "60s")
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		// Try parsing as integer seconds
		if i, err := strconv.Atoi(value); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}
