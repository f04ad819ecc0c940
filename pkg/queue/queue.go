package queue

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const (
	BookingConfirmedQueue = "booking.confirmed"

	defaultDialTimeout = 5 * time.Second
)

// BookingConfirmedEvent carries enough of a confirmed booking for downstream
// consumers (scheduling, notifications) to act without reading the database.
type BookingConfirmedEvent struct {
	BookingID     string   `json:"booking_id"`
	SessionID     string   `json:"session_id"`
	UserID        string   `json:"user_id,omitempty"`
	CustomerName  string   `json:"customer_name,omitempty"`
	Email         string   `json:"email,omitempty"`
	ServiceType   string   `json:"service_type"`
	Date          string   `json:"date"`
	Time          string   `json:"time"`
	Frequency     string   `json:"frequency"`
	AddOns        []string `json:"add_ons"`
	TotalCents    int64    `json:"total_cents"`
	PaymentMethod string   `json:"payment_method"`
	ConfirmedAt   string   `json:"confirmed_at"`
}

type IPublisher interface {
	PublishBookingConfirmed(ctx context.Context, event BookingConfirmedEvent) error
	Close() error
}

type publisher struct {
	url  string
	log  *logrus.Logger
	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// New reads RABBITMQ_URL (or AMQP_URL). The broker is dialed lazily on the
// first publish and re-dialed after the connection drops. Without a URL
// events are not published.
func New(logger *logrus.Logger) IPublisher {
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		url = os.Getenv("AMQP_URL")
	}
	if url == "" && logger != nil {
		logger.Warn("RABBITMQ_URL is not set, booking events will not be published")
	}

	return &publisher{url: url, log: logger}
}

// dialTimeout bounds the broker dial by the caller's deadline.
func dialTimeout(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return defaultDialTimeout
	}
	if left := time.Until(deadline); left < defaultDialTimeout {
		return left
	}
	return defaultDialTimeout
}

func (p *publisher) channel(ctx context.Context) (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() && p.conn != nil && !p.conn.IsClosed() {
		return p.ch, nil
	}
	p.reset()

	timeout := dialTimeout(ctx)
	if timeout <= 0 {
		return nil, fmt.Errorf("rabbitmq dial: %w", context.DeadlineExceeded)
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if _, err := ch.QueueDeclare(BookingConfirmedQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.ch, p.conn = nil, nil
}

func (p *publisher) PublishBookingConfirmed(ctx context.Context, event BookingConfirmedEvent) error {
	body, err := jsoniter.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal booking event: %w", err)
	}

	if p.url == "" {
		p.log.WithField("booking_id", event.BookingID).Debug("No broker configured, booking event skipped")
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel(ctx)
	if err != nil {
		p.log.WithFields(logrus.Fields{
			"booking_id": event.BookingID,
			"error":      err.Error(),
		}).Error("Failed to open broker channel")
		return err
	}

	err = ch.PublishWithContext(ctx, "", BookingConfirmedQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.BookingID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		p.reset()
		p.log.WithFields(logrus.Fields{
			"booking_id": event.BookingID,
			"error":      err.Error(),
		}).Error("Failed to publish booking confirmed event")
		return err
	}

	p.log.WithFields(logrus.Fields{
		"booking_id": event.BookingID,
		"queue":      BookingConfirmedQueue,
	}).Info("Published booking confirmed event")
	return nil
}

func (p *publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	p.ch, p.conn = nil, nil
	return errors.Join(errs...)
}
