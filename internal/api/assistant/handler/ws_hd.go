package assistantHandler

import (
	"EllaBooking/internal/api/assistant"
	"EllaBooking/internal/entity"
	"EllaBooking/internal/middleware"
	contextPkg "EllaBooking/pkg/context"
	"EllaBooking/pkg/log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"golang.org/x/net/context"
)

const writeTimeout = 10 * time.Second

// handleTranscriptWebSocket replays the transcript, then streams every new
// message. Text frames from the client are submitted as user input.
func (h *AssistantHandler) handleTranscriptWebSocket(c *websocket.Conn) {
	sessionID := c.Params("session_id")
	requestID, _ := c.Locals(middleware.RequestIDKey).(string)

	ctx := contextPkg.WithRequestID(context.Background(), requestID)

	fields := log.Fields{
		"request_id": requestID,
		"session_id": sessionID,
	}
	h.log.WithFields(fields).Info("Transcript WebSocket client connected")
	defer h.log.WithFields(fields).Info("Transcript WebSocket client disconnected")

	var writeMu sync.Mutex
	write := func(frame assistant.StreamFrame) error {
		writeMu.Lock()
		defer writeMu.Unlock()

		if err := c.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
			return err
		}
		return c.WriteJSON(frame)
	}

	sub, err := h.assistantService.Subscribe(ctx, sessionID)
	if err != nil {
		_ = write(assistant.StreamFrame{Type: assistant.FrameError, Error: err.Error()})
		return
	}
	defer sub.Cancel()

	for i := range sub.History {
		if err := write(messageFrame(sub.History[i])); err != nil {
			h.log.WithFields(fields).WithError(err).Warn("Failed to replay transcript")
			return
		}
	}

	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			messageType, message, err := c.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.log.WithFields(fields).WithError(err).Warn("Transcript WebSocket read error")
				}
				return
			}

			if messageType != websocket.TextMessage {
				h.log.WithFields(fields).Warnf("Received unexpected message type: %d", messageType)
				continue
			}

			if _, err := h.assistantService.SubmitUserInput(ctx, sessionID, string(message)); err != nil {
				if writeErr := write(assistant.StreamFrame{Type: assistant.FrameError, Error: err.Error()}); writeErr != nil {
					return
				}
			}
		}
	}()

	for {
		select {
		case msg, ok := <-sub.Messages:
			if !ok {
				return
			}
			if err := write(messageFrame(msg)); err != nil {
				h.log.WithFields(fields).WithError(err).Warn("Failed to stream message")
				return
			}
		case <-readerDone:
			return
		}
	}
}

func messageFrame(m entity.Message) assistant.StreamFrame {
	return assistant.StreamFrame{Type: assistant.FrameMessage, Message: &m}
}
