// Package feedback implements the feedback-thread protocol: opening existing
// threads and posting messages (with optional attachments) to the backend.
package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/CrashCrew/crash-crew-sdk/config"
	"github.com/CrashCrew/crash-crew-sdk/device"
	"github.com/CrashCrew/crash-crew-sdk/errors"
	"github.com/CrashCrew/crash-crew-sdk/internal/form"
	"github.com/CrashCrew/crash-crew-sdk/logger"
	"github.com/CrashCrew/crash-crew-sdk/types"
)

// statusSuccess is the envelope status value for an accepted request.
const statusSuccess = "success"

// envelope is the response shape shared by all feedback endpoints.
type envelope struct {
	Status   string                    `json:"status"`
	Token    string                    `json:"token,omitempty"`
	Feedback *types.FeedbackThreadData `json:"feedback"`
}

// Client talks to the app-scoped feedback endpoints. It is safe for
// concurrent use; posts on the same Thread are serialized internally.
type Client struct {
	appID      string
	baseURL    string
	userAgent  string
	httpClient *http.Client
	device     device.Provider
	log        *zap.SugaredLogger
}

// ClientOption is a function that configures the client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithDeviceProvider attaches a device-information provider; its fields are
// embedded in every posted message.
func WithDeviceProvider(p device.Provider) ClientOption {
	return func(c *Client) {
		c.device = p
	}
}

// NewClient creates a feedback client from validated configuration.
func NewClient(cfg config.ClientConfig, opts ...ClientOption) (*Client, error) {
	if cfg.UserAgent == "" {
		cfg.UserAgent = config.DefaultUserAgent
	}
	if cfg.TimeoutSeconds == 0 {
		cfg.TimeoutSeconds = 10
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.ValidationFailed("invalid client configuration", err.Error())
	}

	c := &Client{
		appID:     cfg.AppID,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		log: logger.GetLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Open fetches an existing thread by token. A (nil, nil) return means the
// server no longer knows the thread (it was deleted); that is a result, not
// an error.
func (c *Client) Open(ctx context.Context, token string) (*Thread, error) {
	if token == "" {
		return nil, errors.ValidationFailed("thread token is required", "")
	}

	endpoint := fmt.Sprintf("%s/api/2/apps/%s/feedback/%s.json",
		c.baseURL, url.PathEscape(c.appID), url.PathEscape(token))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Connectivity(err)
	}
	defer resp.Body.Close()

	// A 404 without a content type is how the backend reports a deleted
	// thread; anything else falls through to envelope handling.
	if resp.StatusCode == http.StatusNotFound && resp.Header.Get("Content-Type") == "" {
		c.log.Infow("Feedback thread deleted on server", "token", token)
		return nil, nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, errors.Protocol(err, resp.StatusCode)
	}
	if env.Status != statusSuccess {
		return nil, errors.ServerLogic(env.Status, resp.StatusCode)
	}

	confirmed := token
	if env.Token != "" {
		confirmed = env.Token
	}

	c.log.Debugw("Feedback thread opened",
		"token", confirmed,
		"messages", messageCount(env.Feedback))
	return newExistingThread(confirmed, env.Feedback), nil
}

// PostMessage appends a message to a thread. The first successful post on a
// New thread issues a create and flips the thread to Existing; posts on an
// Existing thread issue an update to the thread-specific endpoint. The
// thread's message sequence is only mutated on success.
func (c *Client) PostMessage(ctx context.Context, t *Thread, msg types.FeedbackMessage) error {
	if t == nil {
		return errors.ValidationFailed("thread is required", "")
	}
	if strings.TrimSpace(msg.Text) == "" {
		return errors.ValidationFailed("message text is required", "")
	}

	// Serialize posts per thread: two interleaved first posts must not both
	// observe the New state and create the thread twice.
	t.mu.Lock()
	defer t.mu.Unlock()

	creating := t.state == ThreadNew

	var method, endpoint string
	if creating {
		method = http.MethodPost
		endpoint = fmt.Sprintf("%s/api/2/apps/%s/feedback",
			c.baseURL, url.PathEscape(c.appID))
	} else {
		method = http.MethodPut
		endpoint = fmt.Sprintf("%s/api/2/apps/%s/feedback/%s/",
			c.baseURL, url.PathEscape(c.appID), url.PathEscape(t.token))
	}

	fields := c.messageFields(ctx, t, msg, creating)

	var (
		body        []byte
		contentType string
		err         error
	)
	if len(msg.Attachments) == 0 {
		body, contentType = form.EncodeURLForm(fields)
	} else {
		body, contentType, err = form.EncodeMultipart(fields, msg.Attachments)
		if err != nil {
			return errors.Wrap(err, errors.ValidationError, "failed to encode attachments")
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Content-Type", contentType)
	if len(msg.Attachments) == 0 {
		httpReq.Header.Set("Content-Encoding", "utf-8")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return errors.Connectivity(err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return errors.Protocol(err, resp.StatusCode)
	}
	if env.Status != statusSuccess {
		return errors.ServerLogic(env.Status, resp.StatusCode)
	}
	if env.Feedback == nil || len(env.Feedback.Messages) == 0 {
		return errors.Protocol(fmt.Errorf("response contained no messages"), resp.StatusCode)
	}

	// The server-confirmed version of the posted message is the last entry.
	confirmed := env.Feedback.Messages[len(env.Feedback.Messages)-1]
	t.messages = append(t.messages, confirmed)

	if creating {
		t.state = ThreadExisting
		if env.Token != "" {
			t.token = env.Token
		}
		t.id = env.Feedback.ID
		t.name = env.Feedback.Name
		t.email = env.Feedback.Email
		t.createdAt = env.Feedback.CreatedAt
		t.status = env.Feedback.Status
	}

	c.log.Debugw("Feedback message posted",
		"token", t.token,
		"created", creating,
		"email", logger.MaskEmail(msg.Email),
		"attachments", len(msg.Attachments))
	return nil
}

// messageFields assembles the ordered text fields for a post. A creating
// post embeds the client-generated token so the server can associate it.
func (c *Client) messageFields(ctx context.Context, t *Thread, msg types.FeedbackMessage, creating bool) []form.Field {
	fields := []form.Field{
		{Name: "name", Value: msg.Name},
		{Name: "email", Value: msg.Email},
		{Name: "subject", Value: msg.Subject},
		{Name: "text", Value: msg.Text},
	}
	if creating {
		fields = append(fields, form.Field{Name: "token", Value: t.token})
	}

	if c.device != nil {
		info, err := c.device.DeviceInfo(ctx)
		if err != nil {
			c.log.Warnw("Device info lookup failed, posting without it", "error", err)
			return fields
		}
		for _, f := range []form.Field{
			{Name: "oem", Value: info.OEMName},
			{Name: "model", Value: info.Model},
			{Name: "os_version", Value: info.OSVersion},
			{Name: "connection_type", Value: info.NetworkType},
			{Name: "lang", Value: info.Locale},
		} {
			if f.Value != "" {
				fields = append(fields, f)
			}
		}
	}
	return fields
}

func messageCount(data *types.FeedbackThreadData) int {
	if data == nil {
		return 0
	}
	return len(data.Messages)
}
