package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Site is the channel-level metadata used by the syndication surface,
// loaded from an optional YAML file.
type Site struct {
	Title       string `yaml:"title"`
	Link        string `yaml:"link"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
}

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	ContentDir      string        // directory of content files (created if absent)
	SiteFile        string        // optional path to site.yaml (channel metadata)
	RebuildInterval time.Duration // periodic index rebuild interval (0 = manual only)
	RSSItemLimit    int           // max items in the RSS feed

	// Access restrictions
	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict admin endpoints to specific IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)

	// Rate limiting on the public feed surface
	RateBurst         int // 0 disables rate limiting
	RateRefillPerIPPM int // tokens refilled per IP per minute

	Site Site
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("MEDIAFEED_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("MEDIAFEED_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("MEDIAFEED_LOG_LEVEL", "info"),
		PrettyLog: mustBool("MEDIAFEED_PRETTY_LOG", true),

		// Content pipeline
		ContentDir:      getenv("MEDIAFEED_CONTENT_DIR", "./content"),
		SiteFile:        getenv("MEDIAFEED_SITE_FILE", ""),
		RebuildInterval: mustDuration("MEDIAFEED_REBUILD_INTERVAL", 0),
		RSSItemLimit:    getenvInt("MEDIAFEED_RSS_ITEM_LIMIT", 30),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("MEDIAFEED_ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("MEDIAFEED_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("MEDIAFEED_TRUST_PROXY", false),

		// Rate limiting
		RateBurst:         getenvInt("MEDIAFEED_RATE_BURST", 60),
		RateRefillPerIPPM: getenvInt("MEDIAFEED_RATE_REFILL_PER_MIN", 120),
	}

	cfg.Site = loadSite(cfg.SiteFile)

	// Log config only in debug mode
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", *cfg)
	}

	return cfg
}

// loadSite reads channel metadata from the given YAML file. A configured
// but unreadable file is a startup error; an unset path falls back to
// defaults suitable for local development.
func loadSite(path string) Site {
	site := Site{
		Title: "mediafeed",
		Link:  "http://localhost:8080",
	}

	if path == "" {
		return site
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: cannot read site file %s: %v", path, err))
	}
	if err := yaml.Unmarshal(data, &site); err != nil {
		panic(fmt.Sprintf("❌ FATAL: cannot parse site file %s: %v", path, err))
	}
	return site
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
