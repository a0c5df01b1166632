// Package crash collects crash reports into a local spool and uploads them
// to the backend on the next opportunity. Reports survive process restarts;
// nothing is sent at crash time.
package crash

import (
	"fmt"
	"strings"
	"time"

	"github.com/CrashCrew/crash-crew-sdk/types"
)

// Report is one spooled crash report. Log carries the full formatted crash
// log, header included; the remaining fields are optional caller context.
type Report struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Log         string    `json:"log"`
	Description string    `json:"description,omitempty"`
	UserID      string    `json:"user_id,omitempty"`
	Contact     string    `json:"contact,omitempty"`
}

// FormatLog renders a crash log in the backend's expected shape: a key-value
// header identifying the app and device, a blank line, then the stack trace.
func FormatLog(packageName, appVersion string, info types.DeviceInfo, crashedAt time.Time, trace string) string {
	var b strings.Builder

	writeHeader := func(key, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "%s: %s\n", key, value)
	}

	writeHeader("Package", packageName)
	writeHeader("Version", appVersion)
	writeHeader("OS", info.OSVersion)
	writeHeader("Manufacturer", info.OEMName)
	writeHeader("Model", info.Model)
	writeHeader("CrashReporter Key", info.DeviceID)
	writeHeader("Date", crashedAt.UTC().Format(time.RFC3339))

	b.WriteByte('\n')
	b.WriteString(trace)
	if !strings.HasSuffix(trace, "\n") {
		b.WriteByte('\n')
	}
	return b.String()
}
