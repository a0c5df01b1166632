package types

import (
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// FeedbackAttachment is a binary payload attached to a feedback message.
// It is read-only: the SDK never mutates the payload supplied by the caller.
type FeedbackAttachment struct {
	Data        []byte `json:"-"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type,omitempty"`
}

// NewFeedbackAttachment builds an attachment, sniffing the content type from
// the payload when the caller has none to supply. Attachments built directly
// with an empty ContentType are sent as application/octet-stream.
func NewFeedbackAttachment(fileName string, data []byte) FeedbackAttachment {
	att := FeedbackAttachment{Data: data, FileName: fileName}
	if len(data) > 0 {
		att.ContentType = mimetype.Detect(data).String()
	}
	return att
}

// FeedbackMessage is a single entry in a feedback thread. Once sent it is
// immutable; server-assigned fields (ID, CreatedAt, Via) are populated from
// the response envelope.
type FeedbackMessage struct {
	ID          int64                `json:"id,omitempty"`
	Name        string               `json:"name"`
	Email       string               `json:"email"`
	Subject     string               `json:"subject,omitempty"`
	Text        string               `json:"text"`
	CreatedAt   time.Time            `json:"created_at,omitempty"`
	Via         int                  `json:"via,omitempty"`
	Attachments []FeedbackAttachment `json:"-"`
}

// FeedbackThreadData is the thread payload as returned by the server inside
// the response envelope. Messages are kept in server order.
type FeedbackThreadData struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	CreatedAt time.Time         `json:"created_at"`
	Status    int               `json:"status"`
	Messages  []FeedbackMessage `json:"messages"`
}
