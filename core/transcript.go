package interview

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one chat turn. Messages are immutable once appended;
// whether a turn came from a voice callback or the text fallback is not
// distinguished here.
type ChatMessage struct {
	ID         string
	Role       Role
	Content    string
	ReceivedAt time.Time
}

// Transcript is the ordered, append-only record of chat turns, shared
// between the voice session callbacks and the text fallback path. A single
// mutex serializes appends so messages land in arrival order.
type Transcript struct {
	mu          sync.Mutex
	messages    []ChatMessage
	subscribers []chan struct{}
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append adds a message to the end of the transcript and wakes subscribers.
func (t *Transcript) Append(role Role, content string) ChatMessage {
	message := ChatMessage{
		ID:         uuid.NewString(),
		Role:       role,
		Content:    content,
		ReceivedAt: time.Now(),
	}

	t.mu.Lock()
	t.messages = append(t.messages, message)
	t.notifyLocked()
	t.mu.Unlock()

	return message
}

// Messages returns a point-in-time copy of the transcript. Mutating the
// returned slice never affects the store.
func (t *Transcript) Messages() []ChatMessage {
	t.mu.Lock()
	defer t.mu.Unlock()

	messages := []ChatMessage{}
	if err := copier.Copy(&messages, &t.messages); err != nil {
		logger.Warn("Failed to snapshot transcript", "error", err)
		messages = make([]ChatMessage, len(t.messages))
		copy(messages, t.messages)
	}
	return messages
}

func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}

// Clear resets the transcript to empty. Clearing the displayed log does not
// affect a live session; subsequent callbacks keep appending.
func (t *Transcript) Clear() {
	t.mu.Lock()
	t.messages = nil
	t.notifyLocked()
	t.mu.Unlock()
}

// Subscribe returns a coalesced change-signal channel: at least one value
// arrives after any append or clear that follows the subscription.
func (t *Transcript) Subscribe() <-chan struct{} {
	updates := make(chan struct{}, 1)

	t.mu.Lock()
	t.subscribers = append(t.subscribers, updates)
	t.mu.Unlock()

	return updates
}

func (t *Transcript) notifyLocked() {
	for _, subscriber := range t.subscribers {
		select {
		case subscriber <- struct{}{}:
		default:
		}
	}
}
