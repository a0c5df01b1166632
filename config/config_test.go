package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrashCrew/crash-crew-sdk/logger"
)

func init() {
	logger.IsTest = true
}

const validAppID = "0123456789abcdef0123456789abcdef"

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("CRASHCREW_APP_ID", validAppID)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, validAppID, cfg.Client.AppID)
	assert.Equal(t, DefaultBaseURL, cfg.Client.BaseURL)
	assert.Equal(t, DefaultUserAgent, cfg.Client.UserAgent)
	assert.Equal(t, 10, cfg.Client.TimeoutSeconds)
	assert.Equal(t, "crashes", cfg.Crash.SpoolDir)
	assert.Equal(t, 100, cfg.Crash.MaxPending)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CRASHCREW_APP_ID", validAppID)
	t.Setenv("CRASHCREW_BASE_URL", "https://staging.example.com")
	t.Setenv("CRASHCREW_TIMEOUT_SECONDS", "30")
	t.Setenv("CRASHCREW_SPOOL_DIR", "/tmp/crashes")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://staging.example.com", cfg.Client.BaseURL)
	assert.Equal(t, 30, cfg.Client.TimeoutSeconds)
	assert.Equal(t, "/tmp/crashes", cfg.Crash.SpoolDir)
}

func TestLoadConfig_RejectsMissingAppID(t *testing.T) {
	t.Setenv("CRASHCREW_APP_ID", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "app ID")
}

func TestClientConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ClientConfig
		wantErr string
	}{
		{
			name: "valid",
			cfg: ClientConfig{
				AppID:          validAppID,
				BaseURL:        "https://rink.example.com",
				TimeoutSeconds: 10,
			},
		},
		{
			name: "uppercase app id",
			cfg: ClientConfig{
				AppID:          "0123456789ABCDEF0123456789ABCDEF",
				BaseURL:        "https://rink.example.com",
				TimeoutSeconds: 10,
			},
			wantErr: "app ID",
		},
		{
			name: "short app id",
			cfg: ClientConfig{
				AppID:          "abc123",
				BaseURL:        "https://rink.example.com",
				TimeoutSeconds: 10,
			},
			wantErr: "app ID",
		},
		{
			name: "relative base url",
			cfg: ClientConfig{
				AppID:          validAppID,
				BaseURL:        "rink.example.com",
				TimeoutSeconds: 10,
			},
			wantErr: "base URL",
		},
		{
			name: "zero timeout",
			cfg: ClientConfig{
				AppID:          validAppID,
				BaseURL:        "https://rink.example.com",
				TimeoutSeconds: 0,
			},
			wantErr: "timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
