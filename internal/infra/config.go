package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	HeyGenBaseURL      string
	HeyGenUploadURL    string
	HeyGenAPIKey       string
	HeyGenTimeout      time.Duration
	AudioContentType   string
	ProxyProtocol      string
	ProxyHost          string
	ProxyPort          string
	PollInterval       time.Duration
	CORSAllowedOrigins []string
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. Nothing is required here: a missing HEYGEN_API_KEY
// does not fail startup, it surfaces later as 401s from the vendor.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		HeyGenBaseURL:      getEnv("HEYGEN_BASE_URL", "https://api.heygen.com"),
		HeyGenUploadURL:    getEnv("HEYGEN_UPLOAD_BASE_URL", "https://upload.heygen.com"),
		HeyGenAPIKey:       os.Getenv("HEYGEN_API_KEY"),
		HeyGenTimeout:      time.Second * time.Duration(getEnvInt("HEYGEN_TIMEOUT_SECONDS", 15)),
		AudioContentType:   getEnv("HEYGEN_AUDIO_CONTENT_TYPE", "audio/mpeg"),
		ProxyProtocol:      getEnv("OUTBOUND_PROXY_PROTOCOL", "http"),
		ProxyHost:          os.Getenv("OUTBOUND_PROXY_HOST"),
		ProxyPort:          os.Getenv("OUTBOUND_PROXY_PORT"),
		PollInterval:       time.Second * time.Duration(getEnvInt("POLL_INTERVAL_SECONDS", 60)),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	return cfg, nil
}

// OutboundProxyURL returns the configured outbound HTTP proxy as a URL
// string, or empty when no proxy host is set.
func (c *Config) OutboundProxyURL() string {
	if c.ProxyHost == "" {
		return ""
	}
	if c.ProxyPort == "" {
		return fmt.Sprintf("%s://%s", c.ProxyProtocol, c.ProxyHost)
	}
	return fmt.Sprintf("%s://%s:%s", c.ProxyProtocol, c.ProxyHost, c.ProxyPort)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
