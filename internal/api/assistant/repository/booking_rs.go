package assistantRepository

import (
	"EllaBooking/internal/api/assistant"
	"EllaBooking/internal/entity"
	contextPkg "EllaBooking/pkg/context"
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type BookingDB struct {
	ID                  sql.NullString  `db:"id"`
	SessionID           sql.NullString  `db:"session_id"`
	UserID              sql.NullString  `db:"user_id"`
	AccountType         sql.NullString  `db:"account_type"`
	Name                sql.NullString  `db:"name"`
	Email               sql.NullString  `db:"email"`
	Phone               sql.NullString  `db:"phone"`
	PasswordHash        sql.NullString  `db:"password_hash"`
	ServiceType         sql.NullString  `db:"service_type"`
	PropertyType        sql.NullString  `db:"property_type"`
	Bedrooms            sql.NullInt64   `db:"bedrooms"`
	Bathrooms           sql.NullFloat64 `db:"bathrooms"`
	Rooms               pq.StringArray  `db:"rooms"`
	RoomQuantities      []byte          `db:"room_quantities"`
	AddOns              []byte          `db:"add_ons"`
	Date                sql.NullString  `db:"booking_date"`
	Time                sql.NullString  `db:"booking_time"`
	Frequency           sql.NullString  `db:"frequency"`
	HasPet              bool            `db:"has_pet"`
	Pets                pq.StringArray  `db:"pets"`
	PetPresent          bool            `db:"pet_present"`
	SpecialInstructions sql.NullString  `db:"special_instructions"`
	PaymentMethod       sql.NullString  `db:"payment_method"`
	BasePrice           float64         `db:"base_price"`
	AddOnsTotal         float64         `db:"add_ons_total"`
	Discount            float64         `db:"discount"`
	Tip                 float64         `db:"tip"`
	Total               float64         `db:"total"`
	Status              sql.NullString  `db:"status"`
	CreatedAt           sql.NullTime    `db:"created_at"`
}

func (r *bookingRepository) CreateBooking(c context.Context, booking entity.Booking) error {
	requestID := contextPkg.GetRequestID(c)

	roomQuantities, err := json.Marshal(booking.RoomQuantities)
	if err != nil {
		return err
	}
	addOns, err := json.Marshal(booking.AddOns)
	if err != nil {
		return err
	}

	argsKV := map[string]interface{}{
		"id":                   booking.ID,
		"session_id":           booking.SessionID,
		"user_id":              nullString(booking.UserID),
		"account_type":         nullString(string(booking.AccountType)),
		"name":                 nullString(booking.Name),
		"email":                nullString(booking.Email),
		"phone":                nullString(booking.Phone),
		"password_hash":        nullString(booking.PasswordHash),
		"service_type":         booking.ServiceType,
		"property_type":        nullString(booking.PropertyType),
		"bedrooms":             booking.Bedrooms,
		"bathrooms":            booking.Bathrooms,
		"rooms":                pq.Array(booking.Rooms),
		"room_quantities":      string(roomQuantities),
		"add_ons":              string(addOns),
		"booking_date":         booking.Date,
		"booking_time":         booking.Time,
		"frequency":            booking.Frequency,
		"has_pet":              booking.HasPet,
		"pets":                 pq.Array(booking.Pets),
		"pet_present":          booking.PetPresent,
		"special_instructions": nullString(booking.SpecialInstructions),
		"payment_method":       booking.PaymentMethod,
		"base_price":           booking.Totals.BasePrice,
		"add_ons_total":        booking.Totals.AddOnsTotal,
		"discount":             booking.Totals.Discount,
		"tip":                  booking.Totals.Tip,
		"total":                booking.Totals.Total,
		"status":               string(booking.Status),
		"created_at":           booking.CreatedAt,
	}

	query, args, err := sqlx.Named(queryCreateBooking, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateBooking")
		return err
	}
	query = r.q.Rebind(query)

	if _, err = r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"booking_id": booking.ID,
			"error":      err.Error(),
		}).Error("Database error when creating booking")
		return err
	}

	return nil
}

func (r *bookingRepository) GetBookingByID(c context.Context, id string) (entity.Booking, error) {
	requestID := contextPkg.GetRequestID(c)
	var booking BookingDB

	query, args, err := sqlx.Named(queryGetBookingByID, map[string]interface{}{"id": id})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetBookingByID named query preparation err")
		return entity.Booking{}, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&booking); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"booking_id": id,
			}).Warn("GetBookingByID no rows found")
			return entity.Booking{}, assistant.ErrBookingNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetBookingByID execution err")
		return entity.Booking{}, err
	}

	return r.makeBooking(booking), nil
}

func (r *bookingRepository) GetBookingsByUserID(c context.Context, userID string, limit, offset int) ([]entity.Booking, int, error) {
	requestID := contextPkg.GetRequestID(c)

	argsKV := map[string]interface{}{
		"user_id": userID,
		"limit":   limit,
		"offset":  offset,
	}

	countQuery, countArgs, err := sqlx.Named(queryCountBookingsByUserID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetBookingsByUserID count query preparation err")
		return nil, 0, err
	}

	var total int
	if err := r.q.QueryRowxContext(c, r.q.Rebind(countQuery), countArgs...).Scan(&total); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetBookingsByUserID count execution err")
		return nil, 0, err
	}

	query, args, err := sqlx.Named(queryGetBookingsByUserID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetBookingsByUserID named query preparation err")
		return nil, 0, err
	}

	var rows []BookingDB
	if err := r.q.SelectContext(c, &rows, r.q.Rebind(query), args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetBookingsByUserID execution err")
		return nil, 0, err
	}

	bookings := make([]entity.Booking, 0, len(rows))
	for _, row := range rows {
		bookings = append(bookings, r.makeBooking(row))
	}

	return bookings, total, nil
}

func (r *bookingRepository) makeBooking(b BookingDB) entity.Booking {
	booking := entity.Booking{
		ID:                  b.ID.String,
		SessionID:           b.SessionID.String,
		UserID:              b.UserID.String,
		AccountType:         entity.AccountType(b.AccountType.String),
		Name:                b.Name.String,
		Email:               b.Email.String,
		Phone:               b.Phone.String,
		PasswordHash:        b.PasswordHash.String,
		ServiceType:         b.ServiceType.String,
		PropertyType:        b.PropertyType.String,
		Bedrooms:            int(b.Bedrooms.Int64),
		Bathrooms:           b.Bathrooms.Float64,
		Rooms:               []string(b.Rooms),
		Date:                b.Date.String,
		Time:                b.Time.String,
		Frequency:           b.Frequency.String,
		HasPet:              b.HasPet,
		Pets:                []string(b.Pets),
		PetPresent:          b.PetPresent,
		SpecialInstructions: b.SpecialInstructions.String,
		PaymentMethod:       b.PaymentMethod.String,
		Totals: entity.Totals{
			BasePrice:   b.BasePrice,
			AddOnsTotal: b.AddOnsTotal,
			Discount:    b.Discount,
			Tip:         b.Tip,
			Total:       b.Total,
		},
		Status:    entity.BookingStatus(b.Status.String),
		CreatedAt: b.CreatedAt.Time,
	}

	if len(b.RoomQuantities) > 0 {
		if err := json.Unmarshal(b.RoomQuantities, &booking.RoomQuantities); err != nil {
			r.log.WithField("booking_id", booking.ID).Warn("Malformed room_quantities column")
		}
	}
	if len(b.AddOns) > 0 {
		if err := json.Unmarshal(b.AddOns, &booking.AddOns); err != nil {
			r.log.WithField("booking_id", booking.ID).Warn("Malformed add_ons column")
		}
	}

	return booking
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
