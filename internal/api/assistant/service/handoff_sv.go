package assistantService

import (
	"EllaBooking/internal/api/assistant"
	"EllaBooking/internal/api/assistant/dialogue"
	"EllaBooking/internal/entity"
	contextPkg "EllaBooking/pkg/context"
	"EllaBooking/pkg/queue"
	"context"
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

func (s *assistantService) newMessage(sessionID string, role entity.Role, reply dialogue.Reply) entity.Message {
	now := s.now()

	id, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		s.log.WithError(err).Warn("Failed to generate message ULID, using UUID")
		id = s.utils.NewSessionID()
	}

	return entity.Message{
		ID:           id,
		SessionID:    sessionID,
		Role:         role,
		Text:         reply.Text,
		Timestamp:    now,
		QuickReplies: reply.QuickReplies,
		Attachment:   reply.Attachment,
	}
}

func (s *assistantService) saveMessage(ctx context.Context, msg entity.Message) error {
	repo, err := s.repo.NewClient(false)
	if err != nil {
		return err
	}
	return repo.Messages.CreateMessage(ctx, msg)
}

// handoff stores a confirmed booking, announces it and mails the customer.
// Each step only logs its failure; the completion handler runs exactly once
// regardless.
func (s *assistantService) handoff(sessionID, userID string, completion dialogue.Completion) {
	ctx, cancel := context.WithTimeout(contextPkg.WithSessionID(context.Background(), sessionID), s.handoffTimeout())
	defer cancel()

	booking, err := s.newBooking(sessionID, userID, completion)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"session_id": sessionID,
			"error":      err.Error(),
		}).Error("Failed to build booking")
	} else {
		if err := s.createBooking(ctx, booking); err != nil {
			s.log.WithFields(logrus.Fields{
				"session_id": sessionID,
				"booking_id": booking.ID,
				"error":      err.Error(),
			}).Error("Failed to store confirmed booking")
		}

		if s.publisher != nil {
			if err := s.publisher.PublishBookingConfirmed(ctx, bookingEvent(booking)); err != nil {
				s.log.WithFields(logrus.Fields{
					"session_id": sessionID,
					"booking_id": booking.ID,
					"error":      err.Error(),
				}).Error("Failed to publish booking confirmation")
			}
		}

		if s.mailer != nil {
			if err := s.mailer.SendBookingConfirmation(booking); err != nil {
				s.log.WithFields(logrus.Fields{
					"session_id": sessionID,
					"booking_id": booking.ID,
					"error":      err.Error(),
				}).Warn("Failed to send confirmation e-mail")
			}
		}

		s.log.WithFields(logrus.Fields{
			"session_id": sessionID,
			"booking_id": booking.ID,
			"total":      booking.Totals.Total,
		}).Info("Booking handed off")
	}

	if s.onComplete == nil {
		return
	}

	done := CompletedBooking{
		SessionID: sessionID,
		BookingID: booking.ID,
		Draft:     completion.Draft.Public(),
		Totals:    completion.Totals,
	}

	defer func() {
		if r := recover(); r != nil {
			s.log.WithFields(logrus.Fields{
				"session_id": sessionID,
				"panic":      r,
			}).Error("Completion handler panicked")
		}
	}()
	s.onComplete(done)
}

func (s *assistantService) handoffTimeout() time.Duration {
	if s.config.HandoffTimeout > 0 {
		return s.config.HandoffTimeout
	}
	return 10 * time.Second
}

func (s *assistantService) createBooking(ctx context.Context, booking entity.Booking) error {
	repo, err := s.repo.NewClient(true)
	if err != nil {
		return err
	}
	defer repo.Rollback()

	if err := repo.Bookings.CreateBooking(ctx, booking); err != nil {
		return assistant.ErrCreateBooking
	}

	return repo.Commit()
}

func (s *assistantService) newBooking(sessionID, userID string, completion dialogue.Completion) (entity.Booking, error) {
	now := s.now()
	id, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		return entity.Booking{}, err
	}

	d := completion.Draft
	booking := entity.Booking{
		ID:                  id,
		SessionID:           sessionID,
		UserID:              userID,
		AccountType:         d.AccountType,
		Name:                d.Name,
		Email:               d.Email,
		Phone:               d.Phone,
		PasswordHash:        d.PasswordHash,
		ServiceType:         d.ServiceType,
		PropertyType:        d.PropertyType,
		Rooms:               d.Rooms,
		RoomQuantities:      d.RoomQuantities,
		AddOns:              d.AddOns,
		Date:                d.Date,
		Time:                d.Time,
		Frequency:           d.Frequency,
		Pets:                d.SelectedPets,
		SpecialInstructions: d.SpecialInstructions,
		PaymentMethod:       d.PaymentMethod,
		Totals:              completion.Totals,
		Status:              entity.BookingStatusConfirmed,
		CreatedAt:           now,
	}
	if d.Bedrooms != nil {
		booking.Bedrooms = *d.Bedrooms
	}
	if d.Bathrooms != nil {
		booking.Bathrooms = *d.Bathrooms
	}
	if d.HasPet != nil {
		booking.HasPet = *d.HasPet
	}
	if d.PetPresent != nil {
		booking.PetPresent = *d.PetPresent
	}
	// Only a sealed hash may reach storage.
	if booking.PasswordHash != "" && (s.bcrypt == nil || !s.bcrypt.IsHashed(booking.PasswordHash)) {
		booking.PasswordHash = ""
	}

	return booking, nil
}

func bookingEvent(b entity.Booking) queue.BookingConfirmedEvent {
	addOns := make([]string, 0, len(b.AddOns))
	for _, a := range b.AddOns {
		addOns = append(addOns, a.Name)
	}

	return queue.BookingConfirmedEvent{
		BookingID:     b.ID,
		SessionID:     b.SessionID,
		UserID:        b.UserID,
		CustomerName:  b.Name,
		Email:         b.Email,
		ServiceType:   b.ServiceType,
		Date:          b.Date,
		Time:          b.Time,
		Frequency:     b.Frequency,
		AddOns:        addOns,
		TotalCents:    int64(math.Round(b.Totals.Total * 100)),
		PaymentMethod: b.PaymentMethod,
		ConfirmedAt:   b.CreatedAt.UTC().Format(time.RFC3339),
	}
}
