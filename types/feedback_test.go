package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Minimal valid PNG header, enough for content detection.
var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

func TestNewFeedbackAttachment_SniffsContentType(t *testing.T) {
	att := NewFeedbackAttachment("shot.png", pngHeader)

	assert.Equal(t, "shot.png", att.FileName)
	assert.Equal(t, pngHeader, att.Data)
	assert.Equal(t, "image/png", att.ContentType)
}

func TestNewFeedbackAttachment_TextPayload(t *testing.T) {
	att := NewFeedbackAttachment("note.txt", []byte("plain old text"))

	assert.Equal(t, "text/plain; charset=utf-8", att.ContentType)
}

func TestNewFeedbackAttachment_EmptyPayload(t *testing.T) {
	att := NewFeedbackAttachment("empty.bin", nil)

	// Nothing to sniff: the type stays empty and the encoder sends the
	// attachment as application/octet-stream.
	assert.Empty(t, att.ContentType)
}
