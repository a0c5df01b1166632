// Package device supplies the device fingerprint and OS metadata attached to
// outgoing feedback and crash payloads. Platform introspection lives behind
// the Provider interface so the clients stay platform-agnostic and testable.
package device

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"runtime"
	"strings"

	"github.com/CrashCrew/crash-crew-sdk/types"
)

// Provider yields device information for outgoing payloads. Implementations
// must be safe for concurrent use.
type Provider interface {
	DeviceInfo(ctx context.Context) (types.DeviceInfo, error)
}

// StaticProvider returns fixed device information. Embedding applications
// that already know their device facts use this; it is also the fake used
// throughout the SDK's tests.
type StaticProvider struct {
	Info types.DeviceInfo
}

func (p *StaticProvider) DeviceInfo(_ context.Context) (types.DeviceInfo, error) {
	return p.Info, nil
}

// HostProvider derives best-effort device information from the host OS.
// Every field is optional; lookups that fail leave the field empty rather
// than failing the call. NetworkType is always left empty: the host has no
// reliable notion of wifi-vs-cellular, so only embedding applications that
// know their connectivity report it (via StaticProvider or their own
// Provider).
type HostProvider struct{}

func NewHostProvider() *HostProvider {
	return &HostProvider{}
}

func (p *HostProvider) DeviceInfo(_ context.Context) (types.DeviceInfo, error) {
	return types.DeviceInfo{
		DeviceID:  hashedDeviceID(),
		OSVersion: runtime.GOOS + "/" + runtime.GOARCH,
		OEMName:   readDMIField("sys_vendor"),
		Model:     readDMIField("product_name"),
		Locale:    hostLocale(),
	}, nil
}

// hashedDeviceID produces a stable opaque fingerprint for the host. The raw
// identifier never leaves the device; only its SHA-256 hash is reported.
func hashedDeviceID() string {
	seed, err := os.ReadFile("/etc/machine-id")
	if err != nil || len(seed) == 0 {
		host, hostErr := os.Hostname()
		if hostErr != nil {
			return ""
		}
		seed = []byte(host)
	}
	sum := sha256.Sum256(seed)
	return hex.EncodeToString(sum[:])
}

func readDMIField(name string) string {
	data, err := os.ReadFile("/sys/devices/virtual/dmi/id/" + name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// hostLocale reads the POSIX locale environment, stripping any charset
// suffix ("en_US.UTF-8" -> "en_US").
func hostLocale() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if val := os.Getenv(key); val != "" {
			if idx := strings.IndexByte(val, '.'); idx > 0 {
				val = val[:idx]
			}
			return val
		}
	}
	return ""
}
