package types

// DeviceInfo is the device fingerprint and OS metadata attached to outgoing
// feedback messages and crash reports. All fields are best-effort; empty
// values are simply omitted from request payloads.
type DeviceInfo struct {
	DeviceID    string `json:"device_id"`
	OSVersion   string `json:"os_version"`
	OEMName     string `json:"oem"`
	Model       string `json:"model"`
	NetworkType string `json:"network_type,omitempty"`
	Locale      string `json:"lang,omitempty"`
}
