package assistantService

import (
	"EllaBooking/internal/api/assistant"
	"EllaBooking/internal/api/assistant/dialogue"
	"EllaBooking/internal/entity"
	contextPkg "EllaBooking/pkg/context"
	"EllaBooking/pkg/pricing"
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func (s *assistantService) StartSession(ctx context.Context, req assistant.StartSessionRequest) (*assistant.SessionResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, assistant.ErrSessionClosed
	}

	now := s.now()
	chat := entity.ChatSession{
		ID:           s.utils.NewSessionID(),
		UserID:       req.UserID,
		Channel:      entity.ParseChannel(req.Channel),
		CreatedAt:    now,
		LastActivity: now,
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	if err := repo.Sessions.CreateSession(ctx, chat); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create chat session")
		return nil, err
	}

	state := entity.NewConversationState()
	state.UpdatedAt = now

	sess := newSession(s, chat.ID, chat.UserID, state, nil)
	sess.append(ctx, entity.RoleAssistant, dialogue.Greeting())
	sess.persistState(ctx, state)

	s.mu.Lock()
	s.sessions[chat.ID] = sess
	s.mu.Unlock()
	sess.start()

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"session_id": chat.ID,
		"channel":    chat.Channel.String(),
	}).Info("Chat session started")

	return &assistant.SessionResponse{
		SessionID:  chat.ID,
		State:      s.stateResponse(chat.ID, state),
		Transcript: sess.transcript.Messages(),
	}, nil
}

func (s *assistantService) SubmitUserInput(ctx context.Context, sessionID string, text string) (*assistant.SubmitMessageResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, assistant.ErrEmptyInput
	}

	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	pending, err := sess.enqueue(text)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"session_id": sessionID,
		"pending":    pending,
	}).Debug("User input queued")

	return &assistant.SubmitMessageResponse{
		Queued:  true,
		Pending: pending,
	}, nil
}

func (s *assistantService) WaitIdle(ctx context.Context, sessionID string) error {
	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return err
	}
	return sess.waitIdle(ctx)
}

func (s *assistantService) GetTranscript(ctx context.Context, sessionID string) (*assistant.TranscriptResponse, error) {
	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return &assistant.TranscriptResponse{
		SessionID: sessionID,
		Messages:  sess.transcript.Messages(),
	}, nil
}

func (s *assistantService) GetState(ctx context.Context, sessionID string) (*assistant.StateResponse, error) {
	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	resp := s.stateResponse(sessionID, sess.snapshot())
	return &resp, nil
}

func (s *assistantService) Subscribe(ctx context.Context, sessionID string) (*Subscription, error) {
	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	history, messages, cancel := sess.transcript.Subscribe(s.config.SubscriberBuffer)
	return &Subscription{
		History:  history,
		Messages: messages,
		Cancel:   cancel,
	}, nil
}

func (s *assistantService) CloseSession(ctx context.Context, sessionID string) error {
	requestID := contextPkg.GetRequestID(ctx)

	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return err
	}

	sess.close()
	if err := sess.wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	repo, err := s.repo.NewClient(false)
	if err != nil {
		return err
	}
	if err := repo.Sessions.CloseSession(ctx, sessionID, s.now()); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": sessionID,
			"error":      err.Error(),
		}).Error("Failed to close chat session")
		return err
	}

	if s.store != nil {
		if err := s.store.DeleteState(ctx, sessionID); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": sessionID,
				"error":      err.Error(),
			}).Warn("Failed to delete conversation state")
		}
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"session_id": sessionID,
	}).Info("Chat session closed")

	return nil
}

// Shutdown stops every live session and waits for queued turns and pending
// handoffs to finish, or for ctx to expire.
func (s *assistantService) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	sessions := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.sessions = make(map[string]*session)
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.close()
	}

	var errs []error
	for _, sess := range sessions {
		if err := sess.wait(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	s.log.WithField("sessions", len(sessions)).Info("Assistant service stopped")
	return errors.Join(errs...)
}

// session returns the live session for id, restoring it from the state
// store and the transcript table when this process has not seen it yet.
func (s *assistantService) session(ctx context.Context, sessionID string) (*session, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, assistant.ErrInvalidSession
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, assistant.ErrSessionClosed
	}
	if sess, ok := s.sessions[sessionID]; ok {
		s.mu.Unlock()
		return sess, nil
	}
	s.mu.Unlock()

	repo, err := s.repo.NewClient(false)
	if err != nil {
		return nil, err
	}

	chat, err := repo.Sessions.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if chat.Closed() {
		return nil, assistant.ErrSessionClosed
	}

	state := entity.NewConversationState()
	if s.store != nil {
		stored, found, err := s.store.GetState(ctx, sessionID)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": sessionID,
				"error":      err.Error(),
			}).Warn("Failed to load conversation state, starting from idle")
		} else if found {
			state = stored
		}
	}

	history, err := repo.Messages.GetMessagesBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	sess := newSession(s, chat.ID, chat.UserID, state, history)

	// The prompt is only persisted by the restore that wins registration.
	var prompt *entity.Message
	if len(history) == 0 {
		msg := s.newMessage(sessionID, entity.RoleAssistant, dialogue.Prompt(state))
		sess.transcript.Append(msg)
		prompt = &msg
	}

	s.mu.Lock()
	if existing, ok := s.sessions[sessionID]; ok {
		s.mu.Unlock()
		return existing, nil
	}
	if s.closed {
		s.mu.Unlock()
		return nil, assistant.ErrSessionClosed
	}
	s.sessions[sessionID] = sess
	s.mu.Unlock()

	if prompt != nil {
		if err := s.saveMessage(ctx, *prompt); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": sessionID,
				"error":      err.Error(),
			}).Warn("Failed to persist restored prompt")
		}
	}
	sess.start()

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"session_id": sessionID,
		"step":       state.CurrentStep.String(),
		"messages":   len(history),
	}).Info("Chat session restored")

	return sess, nil
}

func (s *assistantService) stateResponse(sessionID string, state entity.ConversationState) assistant.StateResponse {
	return assistant.StateResponse{
		SessionID:   sessionID,
		CurrentStep: state.CurrentStep,
		Draft:       state.Draft.Public(),
		Quote:       pricing.ComputeTotal(state.Draft),
		UpdatedAt:   state.UpdatedAt,
	}
}
