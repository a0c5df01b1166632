package feedback

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrashCrew/crash-crew-sdk/types"
)

func TestNewThread(t *testing.T) {
	thread := NewThread()

	assert.Equal(t, ThreadNew, thread.State())
	assert.Empty(t, thread.Messages())
	assert.Zero(t, thread.ID())

	// The client-generated token is a valid UUID.
	_, err := uuid.Parse(thread.Token())
	assert.NoError(t, err)

	// Tokens are unique per thread.
	assert.NotEqual(t, thread.Token(), NewThread().Token())
}

func TestNewExistingThread(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	thread := newExistingThread("tok", &types.FeedbackThreadData{
		ID:        42,
		Name:      "Jane",
		Email:     "jane@example.com",
		CreatedAt: created,
		Status:    1,
		Messages: []types.FeedbackMessage{
			{ID: 1, Text: "first"},
			{ID: 2, Text: "second"},
		},
	})

	assert.Equal(t, ThreadExisting, thread.State())
	assert.Equal(t, "tok", thread.Token())
	assert.Equal(t, int64(42), thread.ID())
	assert.Equal(t, "Jane", thread.Name())
	assert.Equal(t, "jane@example.com", thread.Email())
	assert.Equal(t, created, thread.CreatedAt())
	assert.Equal(t, 1, thread.Status())

	msgs := thread.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Text)
}

func TestMessagesReturnsCopy(t *testing.T) {
	thread := newExistingThread("tok", &types.FeedbackThreadData{
		Messages: []types.FeedbackMessage{{ID: 1, Text: "first"}},
	})

	msgs := thread.Messages()
	msgs[0].Text = "tampered"

	assert.Equal(t, "first", thread.Messages()[0].Text)
}

func TestThreadStateString(t *testing.T) {
	assert.Equal(t, "new", ThreadNew.String())
	assert.Equal(t, "existing", ThreadExisting.String())
	assert.Equal(t, "unknown", ThreadState(99).String())
}
