package assistantRepository

import (
	"EllaBooking/internal/entity"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Bookings: &bookingRepository{q: sqlExecutor, log: r.log},
		Messages: &messageRepository{q: sqlExecutor, log: r.log},
		Sessions: &sessionRepository{q: sqlExecutor, log: r.log},
		Commit:   commitFunc,
		Rollback: rollbackFunc,
	}, nil
}

type Client struct {
	Bookings interface {
		CreateBooking(ctx context.Context, booking entity.Booking) error
		GetBookingByID(ctx context.Context, id string) (entity.Booking, error)
		GetBookingsByUserID(ctx context.Context, userID string, limit, offset int) ([]entity.Booking, int, error)
	}

	Messages interface {
		CreateMessage(ctx context.Context, message entity.Message) error
		GetMessagesBySessionID(ctx context.Context, sessionID string) ([]entity.Message, error)
	}

	Sessions interface {
		CreateSession(ctx context.Context, session entity.ChatSession) error
		GetSessionByID(ctx context.Context, id string) (entity.ChatSession, error)
		TouchSession(ctx context.Context, id string, at time.Time) error
		CloseSession(ctx context.Context, id string, at time.Time) error
	}

	Commit   func() error
	Rollback func() error
}

type bookingRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}

type messageRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}

type sessionRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
