package feedback

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/CrashCrew/crash-crew-sdk/types"
)

// ThreadState tags a thread as either not yet persisted server-side (New)
// or confirmed by the server (Existing). The only legal transition is
// New -> Existing, made exactly once by the first successful post; there is
// no way back.
type ThreadState int

const (
	ThreadNew ThreadState = iota
	ThreadExisting
)

func (s ThreadState) String() string {
	switch s {
	case ThreadNew:
		return "new"
	case ThreadExisting:
		return "existing"
	default:
		return "unknown"
	}
}

// Thread is a feedback conversation with the backend. A New thread carries a
// client-generated token which the server adopts on the first post; an
// Existing thread carries the server-confirmed token.
//
// All state is guarded by mu. Posts on the same thread are serialized by the
// client so two concurrent first posts cannot both observe the New state and
// issue duplicate creates.
type Thread struct {
	mu sync.Mutex

	token     string
	state     ThreadState
	id        int64
	name      string
	email     string
	createdAt time.Time
	status    int
	messages  []types.FeedbackMessage
}

// NewThread creates a thread that does not exist server-side yet. Its token
// is a fresh client-generated UUID.
func NewThread() *Thread {
	return &Thread{
		token: uuid.NewString(),
		state: ThreadNew,
	}
}

// newExistingThread builds a server-confirmed thread from a response payload.
func newExistingThread(token string, data *types.FeedbackThreadData) *Thread {
	t := &Thread{
		token: token,
		state: ThreadExisting,
	}
	t.adoptLocked(data)
	return t
}

// Token returns the thread token: client-generated while New,
// server-confirmed once Existing.
func (t *Thread) Token() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.token
}

// State returns the thread's current lifecycle state.
func (t *Thread) State() ThreadState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// ID returns the server-assigned numeric thread ID, zero while New.
func (t *Thread) ID() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.id
}

// Name returns the thread author name as reported by the server.
func (t *Thread) Name() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.name
}

// Email returns the thread author email as reported by the server.
func (t *Thread) Email() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.email
}

// CreatedAt returns the server-side creation timestamp, zero while New.
func (t *Thread) CreatedAt() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.createdAt
}

// Status returns the server-side thread status code.
func (t *Thread) Status() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Messages returns a copy of the message sequence in server order.
func (t *Thread) Messages() []types.FeedbackMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]types.FeedbackMessage, len(t.messages))
	copy(out, t.messages)
	return out
}

// adoptLocked copies server-confirmed thread metadata and message history.
// Callers must hold mu (or own the thread exclusively, as the constructor
// does).
func (t *Thread) adoptLocked(data *types.FeedbackThreadData) {
	if data == nil {
		return
	}
	t.id = data.ID
	t.name = data.Name
	t.email = data.Email
	t.createdAt = data.CreatedAt
	t.status = data.Status
	t.messages = append([]types.FeedbackMessage(nil), data.Messages...)
}
