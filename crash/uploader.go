package crash

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry-go"
	"go.uber.org/zap"

	"github.com/CrashCrew/crash-crew-sdk/config"
	"github.com/CrashCrew/crash-crew-sdk/errors"
	"github.com/CrashCrew/crash-crew-sdk/internal/form"
	"github.com/CrashCrew/crash-crew-sdk/logger"
)

// RejectedError marks a report the server refused outright (4xx). Rejected
// reports are dropped from the spool; retrying them would never succeed.
type RejectedError struct {
	StatusCode int
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("server rejected crash report with status %d", e.StatusCode)
}

// Uploader drains the crash spool against the backend's crash endpoint.
type Uploader struct {
	appID      string
	baseURL    string
	userAgent  string
	attempts   uint
	httpClient *http.Client
	spool      *Spool
	log        *zap.SugaredLogger
}

// UploaderOption is a function that configures the uploader.
type UploaderOption func(*Uploader)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) UploaderOption {
	return func(u *Uploader) {
		u.httpClient = client
	}
}

// NewUploader creates an uploader for the given spool.
func NewUploader(client config.ClientConfig, crashCfg config.CrashConfig, spool *Spool, opts ...UploaderOption) (*Uploader, error) {
	if client.UserAgent == "" {
		client.UserAgent = config.DefaultUserAgent
	}
	if client.TimeoutSeconds == 0 {
		client.TimeoutSeconds = 10
	}
	if err := client.Validate(); err != nil {
		return nil, errors.ValidationFailed("invalid client configuration", err.Error())
	}
	attempts := crashCfg.UploadAttempts
	if attempts < 1 {
		attempts = 4
	}

	u := &Uploader{
		appID:     client.AppID,
		baseURL:   strings.TrimRight(client.BaseURL, "/"),
		userAgent: client.UserAgent,
		attempts:  uint(attempts),
		httpClient: &http.Client{
			Timeout: time.Duration(client.TimeoutSeconds) * time.Second,
		},
		spool: spool,
		log:   logger.GetLogger(),
	}

	for _, opt := range opts {
		opt(u)
	}

	return u, nil
}

// UploadPending uploads all spooled reports, oldest first. Uploaded and
// rejected reports are removed from the spool; a transport failure stops the
// drain and leaves the remaining reports for the next attempt. Returns the
// number of reports accepted by the server.
func (u *Uploader) UploadPending(ctx context.Context) (int, error) {
	reports, err := u.spool.List()
	if err != nil {
		return 0, err
	}

	uploaded := 0
	for _, r := range reports {
		err := u.uploadOne(ctx, r)
		if err != nil {
			var rejected *RejectedError
			if stderrors.As(err, &rejected) {
				u.log.Warnw("Crash report rejected, dropping",
					"id", r.ID, "status", rejected.StatusCode)
				if err := u.spool.Remove(r.ID); err != nil {
					return uploaded, err
				}
				continue
			}
			// Network trouble: keep the report and stop; the rest would
			// only fail the same way.
			return uploaded, err
		}

		if err := u.spool.Remove(r.ID); err != nil {
			return uploaded, err
		}
		uploaded++
		u.log.Infow("Crash report uploaded", "id", r.ID)
	}
	return uploaded, nil
}

// uploadOne sends a single report, retrying transient failures with jittered
// backoff. A 4xx answer is unrecoverable and surfaces as *RejectedError.
func (u *Uploader) uploadOne(ctx context.Context, r *Report) error {
	fields := []form.Field{}
	if r.Description != "" {
		fields = append(fields, form.Field{Name: "description", Value: r.Description})
	}
	if r.UserID != "" {
		fields = append(fields, form.Field{Name: "userID", Value: r.UserID})
	}
	if r.Contact != "" {
		fields = append(fields, form.Field{Name: "contact", Value: r.Contact})
	}

	body, contentType, err := form.EncodeFiles(fields, []form.File{{
		PartName:    "log",
		FileName:    "crash.log",
		ContentType: "text/plain",
		Data:        []byte(r.Log),
	}})
	if err != nil {
		return fmt.Errorf("encode crash report: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/2/apps/%s/crashes/upload",
		u.baseURL, url.PathEscape(u.appID))

	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("create request: %w", err))
			}
			req.Header.Set("User-Agent", u.userAgent)
			req.Header.Set("Content-Type", contentType)

			resp, err := u.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			_, _ = io.Copy(io.Discard, resp.Body)

			switch {
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return nil
			case resp.StatusCode >= 400 && resp.StatusCode < 500:
				return retry.Unrecoverable(&RejectedError{StatusCode: resp.StatusCode})
			default:
				return fmt.Errorf("crash upload returned status %d", resp.StatusCode)
			}
		},
		retry.Attempts(u.attempts),
		retry.Delay(time.Second),
		retry.MaxDelay(30*time.Second),
		retry.MaxJitter(5*time.Second),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			u.log.Infow("Retrying crash upload", "id", r.ID, "attempt", n, "error", err)
		}),
	)
}
