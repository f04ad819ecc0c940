package assistant

import (
	"EllaBooking/internal/entity"
	"time"
)

type StartSessionRequest struct {
	UserID  string `json:"user_id" validate:"omitempty,max=64"`
	Channel string `json:"channel" validate:"omitempty,oneof=web cli"`
}

type SessionResponse struct {
	SessionID  string           `json:"session_id"`
	State      StateResponse    `json:"state"`
	Transcript []entity.Message `json:"transcript"`
}

type SubmitMessageRequest struct {
	Text string `json:"text" validate:"required,max=1000"`
}

type SubmitMessageResponse struct {
	Queued  bool `json:"queued"`
	Pending int  `json:"pending"`
}

type StateResponse struct {
	SessionID   string        `json:"session_id"`
	CurrentStep entity.Step   `json:"current_step"`
	Draft       entity.Draft  `json:"draft"`
	Quote       entity.Totals `json:"quote"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type TranscriptResponse struct {
	SessionID string           `json:"session_id"`
	Messages  []entity.Message `json:"messages"`
}

// QuoteRequest prices an arbitrary draft. TipRate, when set, overrides
// TipAmount and is applied to the service price like the tip presets.
type QuoteRequest struct {
	ServicePrice float64        `json:"service_price" validate:"gte=0"`
	AddOns       []entity.AddOn `json:"add_ons" validate:"omitempty,dive"`
	Frequency    string         `json:"frequency" validate:"omitempty,max=32"`
	TipAmount    float64        `json:"tip_amount" validate:"gte=0"`
	TipRate      float64        `json:"tip_rate" validate:"gte=0,lte=1"`
}

type QuoteResponse struct {
	entity.Totals
	DiscountRate float64 `json:"discount_rate"`
}

type BookingListResponse struct {
	Bookings []entity.Booking `json:"bookings"`
	Total    int              `json:"total"`
}

const (
	FrameMessage = "message"
	FrameError   = "error"
)

// StreamFrame is the envelope written on the transcript WebSocket.
type StreamFrame struct {
	Type    string          `json:"type"`
	Message *entity.Message `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}
