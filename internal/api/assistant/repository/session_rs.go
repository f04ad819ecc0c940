package assistantRepository

import (
	"EllaBooking/internal/api/assistant"
	"EllaBooking/internal/entity"
	contextPkg "EllaBooking/pkg/context"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ChatSessionDB struct {
	ID           string         `db:"id"`
	UserID       sql.NullString `db:"user_id"`
	Channel      int16          `db:"channel"`
	CreatedAt    time.Time      `db:"created_at"`
	LastActivity time.Time      `db:"last_activity"`
	ClosedAt     sql.NullTime   `db:"closed_at"`
}

func (r *sessionRepository) CreateSession(c context.Context, session entity.ChatSession) error {
	requestID := contextPkg.GetRequestID(c)

	argsKV := map[string]interface{}{
		"id":            session.ID,
		"user_id":       nullString(session.UserID),
		"channel":       int16(session.Channel.Value()),
		"created_at":    session.CreatedAt,
		"last_activity": session.LastActivity,
	}

	query, args, err := sqlx.Named(queryCreateSession, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateSession")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating chat session")
		return err
	}

	return nil
}

func (r *sessionRepository) GetSessionByID(c context.Context, id string) (entity.ChatSession, error) {
	requestID := contextPkg.GetRequestID(c)
	var session ChatSessionDB

	query, args, err := sqlx.Named(queryGetSessionByID, map[string]interface{}{"id": id})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetSessionByID named query preparation err")
		return entity.ChatSession{}, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&session); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": id,
			}).Debug("GetSessionByID no session found")
			return entity.ChatSession{}, assistant.ErrSessionNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetSessionByID execution err")
		return entity.ChatSession{}, err
	}

	out := entity.ChatSession{
		ID:           session.ID,
		UserID:       session.UserID.String,
		Channel:      entity.Channel(session.Channel),
		CreatedAt:    session.CreatedAt,
		LastActivity: session.LastActivity,
	}
	if session.ClosedAt.Valid {
		closedAt := session.ClosedAt.Time
		out.ClosedAt = &closedAt
	}
	return out, nil
}

func (r *sessionRepository) TouchSession(c context.Context, id string, at time.Time) error {
	return r.update(c, queryTouchSession, map[string]interface{}{
		"id":            id,
		"last_activity": at,
	}, "TouchSession")
}

func (r *sessionRepository) CloseSession(c context.Context, id string, at time.Time) error {
	return r.update(c, queryCloseSession, map[string]interface{}{
		"id":        id,
		"closed_at": at,
	}, "CloseSession")
}

func (r *sessionRepository) update(c context.Context, namedQuery string, argsKV map[string]interface{}, op string) error {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(namedQuery, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": contextPkg.GetSessionID(c),
			"error":      err.Error(),
		}).Error(op + " execution err")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": argsKV["id"],
		}).Warn(op + " no rows affected")
		return assistant.ErrSessionNotFound
	}

	return nil
}
