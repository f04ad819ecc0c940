package assistant

import "EllaBooking/pkg/response"

var (
	ErrSessionNotFound = response.NewError(404, "session not found")
	ErrInvalidSession  = response.NewError(400, "invalid session id")
	ErrEmptyInput      = response.NewError(400, "message text is empty")
	ErrSessionClosed   = response.NewError(410, "session is closed")
	ErrBookingNotFound = response.NewError(404, "booking not found")
	ErrCreateBooking   = response.NewError(500, "failed to create booking")
	ErrInvalidQuote    = response.NewError(400, "invalid quote request")
)
