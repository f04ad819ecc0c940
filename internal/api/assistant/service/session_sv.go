package assistantService

import (
	"EllaBooking/internal/api/assistant"
	"EllaBooking/internal/api/assistant/dialogue"
	"EllaBooking/internal/entity"
	contextPkg "EllaBooking/pkg/context"
	logPkg "EllaBooking/pkg/log"
	"EllaBooking/pkg/transcript"
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const maskedInput = "••••••••"

// session serializes the turns of one conversation. Inputs are queued and
// drained in order by a single worker goroutine, so the transcript always
// alternates user and assistant messages after the greeting.
type session struct {
	id         string
	userID     string
	svc        *assistantService
	transcript *transcript.Transcript

	mu       sync.Mutex
	cond     *sync.Cond
	state    entity.ConversationState
	queue    []string
	busy     bool
	handoffs int
	closed   bool

	stop chan struct{}
	done chan struct{}
}

// Subscription is a transcript snapshot plus the messages appended after it.
type Subscription struct {
	History  []entity.Message
	Messages <-chan entity.Message
	Cancel   func()
}

func newSession(svc *assistantService, id, userID string, state entity.ConversationState, history []entity.Message) *session {
	s := &session{
		id:         id,
		userID:     userID,
		svc:        svc,
		transcript: transcript.New(history...),
		state:      state,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *session) start() {
	go s.run()
}

func (s *session) context() context.Context {
	return contextPkg.WithSessionID(context.Background(), s.id)
}

func (s *session) logger() *logrus.Entry {
	s.mu.Lock()
	step := s.state.CurrentStep
	s.mu.Unlock()
	return logPkg.WithSession(s.svc.log, s.id, step)
}

func (s *session) enqueue(text string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, assistant.ErrSessionClosed
	}
	s.queue = append(s.queue, text)
	s.cond.Broadcast()
	return len(s.queue), nil
}

func (s *session) snapshot() entity.ConversationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *session) run() {
	defer close(s.done)

	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.cond.Wait()
		}
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return
		}
		text := s.queue[0]
		s.queue = s.queue[1:]
		s.busy = true
		state := s.state
		s.mu.Unlock()

		s.turn(state, text)

		s.mu.Lock()
		s.busy = false
		s.cond.Broadcast()
		s.mu.Unlock()
	}
}

func (s *session) turn(state entity.ConversationState, text string) {
	ctx := s.context()

	shown := text
	if dialogue.IsSecretInput(state) {
		shown = maskedInput
	}
	s.append(ctx, entity.RoleUser, dialogue.Reply{Text: shown})

	s.pause()

	out := s.svc.machine.Transition(state, text)
	next := out.State
	next.Draft = s.seal(next.Draft)

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()

	logPkg.WithSession(s.svc.log, s.id, next.CurrentStep).WithFields(logrus.Fields{
		"from":   state.CurrentStep.String(),
		"intent": out.Intent.Kind.String(),
	}).Debug("Turn resolved")

	s.persistState(ctx, next)
	s.append(ctx, entity.RoleAssistant, out.Reply)

	if out.Completed != nil {
		completion := *out.Completed
		completion.Draft = s.seal(completion.Draft)

		s.mu.Lock()
		s.handoffs++
		s.mu.Unlock()

		go func() {
			defer func() {
				s.mu.Lock()
				s.handoffs--
				s.cond.Broadcast()
				s.mu.Unlock()
			}()
			s.svc.handoff(s.id, s.userID, completion)
		}()
	}
}

// pause simulates the assistant typing. Closing the session cuts it short.
func (s *session) pause() {
	delay := s.svc.config.TypingDelay
	if delay <= 0 {
		return
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-s.stop:
	}
}

// seal replaces a plaintext password with its bcrypt hash.
func (s *session) seal(d entity.Draft) entity.Draft {
	if d.Password == "" {
		return d
	}

	password := d.Password
	d.Password = ""

	if s.svc.bcrypt == nil {
		return d
	}
	hash, err := s.svc.bcrypt.HashPassword(password)
	if err != nil {
		s.logger().WithError(err).Error("Failed to hash password")
		return d
	}
	d.PasswordHash = hash
	return d
}

func (s *session) append(ctx context.Context, role entity.Role, reply dialogue.Reply) entity.Message {
	msg := s.svc.newMessage(s.id, role, reply)
	s.transcript.Append(msg)

	if err := s.svc.saveMessage(ctx, msg); err != nil {
		s.logger().WithFields(logrus.Fields{
			"message_id": msg.ID,
			"error":      err.Error(),
		}).Warn("Failed to persist transcript message")
	}
	return msg
}

func (s *session) persistState(ctx context.Context, state entity.ConversationState) {
	if s.svc.store != nil {
		if err := s.svc.store.SaveState(ctx, s.id, state, s.svc.config.SessionTTL); err != nil {
			s.logger().WithError(err).Warn("Failed to save conversation state")
		}
	}

	client, err := s.svc.repo.NewClient(false)
	if err != nil {
		s.logger().WithError(err).Warn("Failed to create repository client")
		return
	}
	if err := client.Sessions.TouchSession(ctx, s.id, state.UpdatedAt); err != nil {
		s.logger().WithError(err).Debug("Failed to touch session")
	}
}

// idle reports whether the queue is drained with no turn or handoff in flight.
func (s *session) idle() bool {
	return len(s.queue) == 0 && !s.busy && s.handoffs == 0
}

func (s *session) waitIdle(ctx context.Context) error {
	finished := make(chan struct{})
	go func() {
		s.mu.Lock()
		for !s.idle() {
			s.cond.Wait()
		}
		s.mu.Unlock()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close stops accepting input. Queued turns still run, without the typing
// delay, before the worker exits.
func (s *session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.stop)
	s.cond.Broadcast()
}

func (s *session) wait(ctx context.Context) error {
	select {
	case <-s.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := s.waitIdle(ctx); err != nil {
		return err
	}
	s.transcript.Close()
	return nil
}
