package device

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrashCrew/crash-crew-sdk/types"
)

func TestStaticProvider(t *testing.T) {
	want := types.DeviceInfo{
		DeviceID:    "fixed-id",
		OSVersion:   "10.0.19041",
		OEMName:     "Contoso",
		Model:       "Surface Duo",
		NetworkType: "wifi",
		Locale:      "en_US",
	}
	p := &StaticProvider{Info: want}

	got, err := p.DeviceInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestHostProvider(t *testing.T) {
	p := NewHostProvider()

	info, err := p.DeviceInfo(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, info.DeviceID)
	assert.Len(t, info.DeviceID, 64, "device ID is a hex-encoded SHA-256")
	assert.NotEmpty(t, info.OSVersion)

	// Fingerprint must be stable across calls.
	again, err := p.DeviceInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, info.DeviceID, again.DeviceID)
}

func TestHostLocaleStripsCharset(t *testing.T) {
	t.Setenv("LC_ALL", "de_DE.UTF-8")
	assert.Equal(t, "de_DE", hostLocale())

	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "fr_FR")
	assert.Equal(t, "fr_FR", hostLocale())
}
