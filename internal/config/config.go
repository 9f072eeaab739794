package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// Provider credentials, passed explicitly into client constructors.
	StormglassAPIKey string
	OpenAIAPIKey     string
	OpenAIModel      string
	GeocoderAPIKey   string // optional resolver fallback

	// Outbound HTTP timeout shared by provider clients.
	HTTPTimeout time.Duration

	// NarrativeTimeout bounds the single narrative-generation attempt.
	NarrativeTimeout time.Duration

	// TopWindows is how many best-time windows each report carries.
	TopWindows int

	// Pre-warm job: beaches whose report for today is refreshed on a
	// schedule so interactive requests hit the cache.
	PrewarmBeaches  []string
	PrewarmInterval time.Duration

	// Report cache retention.
	CacheMaxReports int
	CacheTTL        time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.StormglassAPIKey = os.Getenv("STORMGLASS_API_KEY")
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.OpenAIModel = getenvDefault("OPENAI_MODEL", "gpt-4o-mini")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	httpTimeout, err := parseDuration("HTTP_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = httpTimeout

	narrativeTimeout, err := parseDuration("NARRATIVE_TIMEOUT", "20s")
	if err != nil {
		return nil, err
	}
	cfg.NarrativeTimeout = narrativeTimeout

	cfg.TopWindows = getenvInt("TOP_WINDOWS", 3)

	prewarmInterval, err := parseDuration("PREWARM_INTERVAL", "30m")
	if err != nil {
		return nil, err
	}
	cfg.PrewarmInterval = prewarmInterval

	if beaches := os.Getenv("PREWARM_BEACHES"); beaches != "" {
		for _, b := range strings.Split(beaches, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.PrewarmBeaches = append(cfg.PrewarmBeaches, b)
			}
		}
	}

	cfg.CacheMaxReports = getenvInt("CACHE_MAX_REPORTS", 256)

	cacheTTL, err := parseDuration("CACHE_TTL", "24h")
	if err != nil {
		return nil, err
	}
	cfg.CacheTTL = cacheTTL

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func parseDuration(key, def string) (time.Duration, error) {
	raw := getenvDefault(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
