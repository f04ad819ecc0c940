package assistantRepository

import (
	"EllaBooking/internal/entity"
	contextPkg "EllaBooking/pkg/context"
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type MessageDB struct {
	ID           string       `db:"id"`
	SessionID    string       `db:"session_id"`
	Role         string       `db:"role"`
	Text         string       `db:"text"`
	QuickReplies []byte       `db:"quick_replies"`
	Attachment   []byte       `db:"attachment"`
	CreatedAt    sql.NullTime `db:"created_at"`
}

func (r *messageRepository) CreateMessage(c context.Context, message entity.Message) error {
	requestID := contextPkg.GetRequestID(c)

	quickReplies, err := json.Marshal(message.QuickReplies)
	if err != nil {
		return err
	}

	var attachment sql.NullString
	if message.Attachment != nil {
		raw, err := json.Marshal(message.Attachment)
		if err != nil {
			return err
		}
		attachment = sql.NullString{String: string(raw), Valid: true}
	}

	argsKV := map[string]interface{}{
		"id":            message.ID,
		"session_id":    message.SessionID,
		"role":          string(message.Role),
		"text":          message.Text,
		"quick_replies": string(quickReplies),
		"attachment":    attachment,
		"created_at":    message.Timestamp,
	}

	query, args, err := sqlx.Named(queryCreateMessage, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateMessage")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": message.SessionID,
			"error":      err.Error(),
		}).Error("Database error when creating message")
		return err
	}

	return nil
}

func (r *messageRepository) GetMessagesBySessionID(c context.Context, sessionID string) ([]entity.Message, error) {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(queryGetMessagesBySessionID, map[string]interface{}{"session_id": sessionID})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetMessagesBySessionID named query preparation err")
		return nil, err
	}

	var rows []MessageDB
	if err := r.q.SelectContext(c, &rows, r.q.Rebind(query), args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetMessagesBySessionID execution err")
		return nil, err
	}

	messages := make([]entity.Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, r.makeMessage(row))
	}
	return messages, nil
}

func (r *messageRepository) makeMessage(m MessageDB) entity.Message {
	message := entity.Message{
		ID:        m.ID,
		SessionID: m.SessionID,
		Role:      entity.Role(m.Role),
		Text:      m.Text,
		Timestamp: m.CreatedAt.Time,
	}

	if len(m.QuickReplies) > 0 {
		if err := json.Unmarshal(m.QuickReplies, &message.QuickReplies); err != nil {
			r.log.WithField("message_id", m.ID).Warn("Malformed quick_replies column")
		}
	}
	if len(m.Attachment) > 0 {
		var attachment entity.Attachment
		if err := json.Unmarshal(m.Attachment, &attachment); err != nil {
			r.log.WithField("message_id", m.ID).Warn("Malformed attachment column")
		} else {
			message.Attachment = &attachment
		}
	}

	return message
}
