package entity

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
)

type Booking struct {
	ID                  string         `json:"id"`
	SessionID           string         `json:"session_id"`
	UserID              string         `json:"user_id"`
	AccountType         AccountType    `json:"account_type"`
	Name                string         `json:"name"`
	Email               string         `json:"email"`
	Phone               string         `json:"phone"`
	PasswordHash        string         `json:"-"`
	ServiceType         string         `json:"service_type"`
	PropertyType        string         `json:"property_type"`
	Bedrooms            int            `json:"bedrooms"`
	Bathrooms           float64        `json:"bathrooms"`
	Rooms               []string       `json:"rooms"`
	RoomQuantities      map[string]int `json:"room_quantities"`
	AddOns              []AddOn        `json:"add_ons"`
	Date                string         `json:"date"`
	Time                string         `json:"time"`
	Frequency           string         `json:"frequency"`
	HasPet              bool           `json:"has_pet"`
	Pets                []string       `json:"pets"`
	PetPresent          bool           `json:"pet_present"`
	SpecialInstructions string         `json:"special_instructions"`
	PaymentMethod       string         `json:"payment_method"`
	Totals              Totals         `json:"totals"`
	Status              BookingStatus  `json:"status"`
	CreatedAt           time.Time      `json:"created_at"`
}
