// Package form encodes feedback message payloads as either URL-encoded or
// multipart form bodies. It is deliberately independent of the thread entity
// so any attachment-bearing request can reuse it.
package form

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/CrashCrew/crash-crew-sdk/types"
)

// DefaultAttachmentType is used when an attachment carries no content type
// and sniffing cannot do better.
const DefaultAttachmentType = "application/octet-stream"

// Field is a single text field. Fields are encoded in the order given.
type Field struct {
	Name  string
	Value string
}

// EncodeURLForm encodes text fields as application/x-www-form-urlencoded
// with UTF-8 charset. The returned content type is suitable for the
// Content-Type request header; callers also set Content-Encoding: utf-8.
func EncodeURLForm(fields []Field) ([]byte, string) {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(f.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(f.Value))
	}
	return []byte(b.String()), "application/x-www-form-urlencoded"
}

// File is a binary multipart part with an explicit part name.
type File struct {
	PartName    string
	FileName    string
	ContentType string
	Data        []byte
}

// EncodeMultipart encodes text fields and attachments as multipart/form-data.
// Each text field becomes one part; each attachment becomes one part named
// "attachment{i}" carrying its filename and content type.
func EncodeMultipart(fields []Field, attachments []types.FeedbackAttachment) ([]byte, string, error) {
	files := make([]File, len(attachments))
	for i, att := range attachments {
		files[i] = File{
			PartName:    fmt.Sprintf("attachment%d", i),
			FileName:    att.FileName,
			ContentType: AttachmentContentType(att),
			Data:        att.Data,
		}
	}
	return EncodeFiles(fields, files)
}

// EncodeFiles encodes text fields and arbitrary binary parts as
// multipart/form-data. The boundary is unique per call, so bodies cannot
// collide with payload content.
func EncodeFiles(fields []Field, files []File) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", fmt.Errorf("write field %q: %w", f.Name, err)
		}
	}

	for _, f := range files {
		contentType := f.ContentType
		if contentType == "" {
			contentType = DefaultAttachmentType
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			escapeQuotes(f.PartName), escapeQuotes(f.FileName)))
		h.Set("Content-Type", contentType)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create part for %q: %w", f.FileName, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", fmt.Errorf("write part %q: %w", f.FileName, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// AttachmentContentType resolves the content type for an attachment part.
// A caller-supplied type wins; anything else falls back to
// application/octet-stream. Callers wanting sniffed types construct their
// attachments via types.NewFeedbackAttachment.
func AttachmentContentType(att types.FeedbackAttachment) string {
	if att.ContentType != "" {
		return att.ContentType
	}
	return DefaultAttachmentType
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
