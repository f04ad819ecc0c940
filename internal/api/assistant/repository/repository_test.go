package assistantRepository

import (
	"EllaBooking/internal/entity"
	"database/sql"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestMakeMessageSkipsMalformedQuickReplies(t *testing.T) {
	log, hook := test.NewNullLogger()
	r := &messageRepository{log: log}

	createdAt := time.Date(2024, time.January, 3, 10, 0, 0, 0, time.UTC)
	got := r.makeMessage(MessageDB{
		ID:           "01HM000000000000000000000A",
		SessionID:    "s1",
		Role:         "assistant",
		Text:         "Which service would you like?",
		QuickReplies: []byte(`{"label":`),
		Attachment:   []byte(`{"kind":"service_card"}`),
		CreatedAt:    sql.NullTime{Time: createdAt, Valid: true},
	})

	if got.Text != "Which service would you like?" || got.Role != entity.RoleAssistant {
		t.Fatalf("message = %+v", got)
	}
	if !got.Timestamp.Equal(createdAt) {
		t.Fatalf("timestamp = %v", got.Timestamp)
	}
	if got.QuickReplies != nil {
		t.Fatalf("quick replies = %v, want none", got.QuickReplies)
	}
	if got.Attachment == nil || got.Attachment.Kind != entity.AttachmentServiceCard {
		t.Fatalf("attachment = %+v", got.Attachment)
	}

	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.WarnLevel || entry.Data["message_id"] != "01HM000000000000000000000A" {
		t.Fatalf("expected a warning for the malformed column, got %+v", entry)
	}
}

func TestMakeMessageWithoutOptionalColumns(t *testing.T) {
	log, hook := test.NewNullLogger()
	r := &messageRepository{log: log}

	got := r.makeMessage(MessageDB{ID: "m1", SessionID: "s1", Role: "user", Text: "book"})

	if got.QuickReplies != nil || got.Attachment != nil {
		t.Fatalf("message = %+v", got)
	}
	if len(hook.AllEntries()) != 0 {
		t.Fatalf("unexpected log entries: %d", len(hook.AllEntries()))
	}
}

func TestMakeBooking(t *testing.T) {
	log, hook := test.NewNullLogger()
	r := &bookingRepository{log: log}

	got := r.makeBooking(BookingDB{
		ID:             sql.NullString{String: "b1", Valid: true},
		SessionID:      sql.NullString{String: "s1", Valid: true},
		ServiceType:    sql.NullString{String: "Deep Clean", Valid: true},
		Bedrooms:       sql.NullInt64{Int64: 3, Valid: true},
		Bathrooms:      sql.NullFloat64{Float64: 2.5, Valid: true},
		Rooms:          pq.StringArray{"Kitchen", "Living Room"},
		RoomQuantities: []byte(`{"Kitchen":1}`),
		AddOns:         []byte(`{"broken"`),
		Pets:           nil,
		Total:          198.45,
		Status:         sql.NullString{String: "confirmed", Valid: true},
	})

	if got.ID != "b1" || got.Bedrooms != 3 || got.Bathrooms != 2.5 || got.Totals.Total != 198.45 {
		t.Fatalf("booking = %+v", got)
	}
	if len(got.Rooms) != 2 || got.Rooms[1] != "Living Room" {
		t.Fatalf("rooms = %v", got.Rooms)
	}
	if got.RoomQuantities["Kitchen"] != 1 {
		t.Fatalf("room quantities = %v", got.RoomQuantities)
	}
	if got.AddOns != nil {
		t.Fatalf("add-ons = %v, want none", got.AddOns)
	}
	if got.Pets != nil {
		t.Fatalf("pets = %v", got.Pets)
	}
	if got.UserID != "" || got.Email != "" {
		t.Fatalf("null columns should map to empty strings: %+v", got)
	}

	entry := hook.LastEntry()
	if entry == nil || entry.Data["booking_id"] != "b1" {
		t.Fatalf("expected a warning for add_ons, got %+v", entry)
	}
}

func TestNullString(t *testing.T) {
	if v := nullString(""); v.Valid {
		t.Fatalf("empty string should be NULL")
	}
	if v := nullString("x"); !v.Valid || v.String != "x" {
		t.Fatalf("nullString(x) = %+v", v)
	}
}
