package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("HEYGEN_API_KEY", "")
	t.Setenv("HEYGEN_BASE_URL", "")
	t.Setenv("HEYGEN_UPLOAD_BASE_URL", "")
	t.Setenv("HEYGEN_TIMEOUT_SECONDS", "")
	t.Setenv("POLL_INTERVAL_SECONDS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.HeyGenBaseURL != "https://api.heygen.com" {
		t.Fatalf("HeyGenBaseURL mismatch: %q", cfg.HeyGenBaseURL)
	}
	if cfg.HeyGenUploadURL != "https://upload.heygen.com" {
		t.Fatalf("HeyGenUploadURL mismatch: %q", cfg.HeyGenUploadURL)
	}
	if cfg.HeyGenTimeout != 15*time.Second {
		t.Fatalf("HeyGenTimeout = %v, want 15s", cfg.HeyGenTimeout)
	}
	if cfg.PollInterval != 60*time.Second {
		t.Fatalf("PollInterval = %v, want 60s", cfg.PollInterval)
	}
	if cfg.AudioContentType != "audio/mpeg" {
		t.Fatalf("AudioContentType = %q, want audio/mpeg", cfg.AudioContentType)
	}
	if cfg.HeyGenAPIKey != "" {
		t.Fatalf("HeyGenAPIKey should default to empty, got %q", cfg.HeyGenAPIKey)
	}
}

func TestLoadConfigMissingAPIKeyIsNotFatal(t *testing.T) {
	t.Setenv("HEYGEN_API_KEY", "")

	if _, err := LoadConfig(); err != nil {
		t.Fatalf("LoadConfig should tolerate a missing api key, got %v", err)
	}
}

func TestOutboundProxyURL(t *testing.T) {
	t.Setenv("OUTBOUND_PROXY_PROTOCOL", "socks5")
	t.Setenv("OUTBOUND_PROXY_HOST", "127.0.0.1")
	t.Setenv("OUTBOUND_PROXY_PORT", "7890")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if got := cfg.OutboundProxyURL(); got != "socks5://127.0.0.1:7890" {
		t.Fatalf("OutboundProxyURL = %q", got)
	}
}

func TestOutboundProxyURLEmptyWithoutHost(t *testing.T) {
	t.Setenv("OUTBOUND_PROXY_HOST", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if got := cfg.OutboundProxyURL(); got != "" {
		t.Fatalf("OutboundProxyURL = %q, want empty", got)
	}
}
