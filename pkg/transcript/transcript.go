package transcript

import (
	"EllaBooking/internal/entity"
	"sync"
)

// Transcript is an append-only, ordered message log with live subscribers.
// Appended messages are never modified or removed.
type Transcript struct {
	mu       sync.RWMutex
	messages []entity.Message
	subs     map[int]chan entity.Message
	nextSub  int
}

func New(history ...entity.Message) *Transcript {
	t := &Transcript{subs: make(map[int]chan entity.Message)}
	for _, m := range history {
		t.messages = append(t.messages, copyMessage(m))
	}
	return t
}

// Append adds m at the end of the log and fans it out to subscribers.
// A subscriber whose buffer is full is disconnected rather than blocking the
// writer; it can resubscribe and replay from the returned history.
func (t *Transcript) Append(m entity.Message) {
	m = copyMessage(m)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.messages = append(t.messages, m)
	for id, ch := range t.subs {
		select {
		case ch <- m:
		default:
			close(ch)
			delete(t.subs, id)
		}
	}
}

// Messages returns a snapshot of the log in append order.
func (t *Transcript) Messages() []entity.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]entity.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

func (t *Transcript) Last() (entity.Message, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.messages) == 0 {
		return entity.Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}

// Subscribe returns the history so far and a channel of every message
// appended afterwards, with no gap or overlap between the two. The cancel
// func is idempotent.
func (t *Transcript) Subscribe(buffer int) ([]entity.Message, <-chan entity.Message, func()) {
	if buffer < 1 {
		buffer = 1
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	history := make([]entity.Message, len(t.messages))
	copy(history, t.messages)

	id := t.nextSub
	t.nextSub++
	ch := make(chan entity.Message, buffer)
	t.subs[id] = ch

	cancel := func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if c, ok := t.subs[id]; ok {
			close(c)
			delete(t.subs, id)
		}
	}

	return history, ch, cancel
}

// Close disconnects every subscriber. The log stays readable.
func (t *Transcript) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for id, ch := range t.subs {
		close(ch)
		delete(t.subs, id)
	}
}

func copyMessage(m entity.Message) entity.Message {
	if m.QuickReplies != nil {
		m.QuickReplies = append([]entity.QuickReply(nil), m.QuickReplies...)
	}
	return m
}
