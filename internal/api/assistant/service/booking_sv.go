package assistantService

import (
	"EllaBooking/internal/api/assistant"
	"EllaBooking/internal/entity"
	contextPkg "EllaBooking/pkg/context"
	"EllaBooking/pkg/pricing"
	"context"

	"github.com/sirupsen/logrus"
)

func (s *assistantService) Quote(ctx context.Context, req assistant.QuoteRequest) (*assistant.QuoteResponse, error) {
	if req.ServicePrice < 0 || req.TipAmount < 0 || req.TipRate < 0 || req.TipRate > 1 {
		return nil, assistant.ErrInvalidQuote
	}
	for _, a := range req.AddOns {
		if a.Price < 0 {
			return nil, assistant.ErrInvalidQuote
		}
	}

	draft := entity.Draft{
		ServicePrice: req.ServicePrice,
		AddOns:       req.AddOns,
		Frequency:    req.Frequency,
		TipAmount:    req.TipAmount,
	}
	if req.TipRate > 0 {
		draft.TipAmount = pricing.TipFor(req.ServicePrice, req.TipRate)
	}

	totals := pricing.ComputeTotal(draft)

	s.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"total":      totals.Total,
	}).Debug("Quote computed")

	return &assistant.QuoteResponse{
		Totals:       totals,
		DiscountRate: pricing.DiscountRate(req.Frequency),
	}, nil
}

func (s *assistantService) GetBooking(ctx context.Context, bookingID string) (*entity.Booking, error) {
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	booking, err := repo.Bookings.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (s *assistantService) ListBookings(ctx context.Context, userID string, page, limit int) (*assistant.BookingListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	bookings, total, err := repo.Bookings.GetBookingsByUserID(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	return &assistant.BookingListResponse{
		Bookings: bookings,
		Total:    total,
	}, nil
}
