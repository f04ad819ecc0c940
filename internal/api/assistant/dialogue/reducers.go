package dialogue

import (
	"EllaBooking/internal/entity"
)

// Reducers never mutate their input; each returns an updated clone.

func withAccountType(d entity.Draft, t entity.AccountType) entity.Draft {
	out := d.Clone()
	out.AccountType = t
	return out
}

func withCredential(d entity.Draft, field loginField, value string) entity.Draft {
	out := d.Clone()
	switch field {
	case fieldName:
		out.Name = value
	case fieldEmail:
		out.Email = value
	case fieldPhone:
		out.Phone = value
	case fieldPassword:
		out.Password = value
	}
	return out
}

func withService(d entity.Draft, s Service) entity.Draft {
	out := d.Clone()
	out.ServiceType = s.Name
	out.ServicePrice = s.Price
	return out
}

func withPropertyType(d entity.Draft, propertyType string) entity.Draft {
	out := d.Clone()
	out.PropertyType = propertyType
	return out
}

func withBedrooms(d entity.Draft, n int) entity.Draft {
	out := d.Clone()
	out.Bedrooms = &n
	return out
}

func withBathrooms(d entity.Draft, n float64) entity.Draft {
	out := d.Clone()
	out.Bathrooms = &n
	return out
}

func withRoom(d entity.Draft, room string) entity.Draft {
	if d.HasRoom(room) {
		return d
	}
	out := d.Clone()
	out.Rooms = append(out.Rooms, room)
	return out
}

func withRoomQuantity(d entity.Draft, room string, n int) entity.Draft {
	out := d.Clone()
	if out.RoomQuantities == nil {
		out.RoomQuantities = make(map[string]int)
	}
	out.RoomQuantities[room] = n
	return out
}

func withAddOn(d entity.Draft, a entity.AddOn) entity.Draft {
	if d.HasAddOn(a.Name) {
		return d
	}
	out := d.Clone()
	out.AddOns = append(out.AddOns, a)
	return out
}

func withDate(d entity.Draft, date string) entity.Draft {
	out := d.Clone()
	out.Date = date
	return out
}

func withTime(d entity.Draft, t string) entity.Draft {
	out := d.Clone()
	out.Time = t
	return out
}

func withFrequency(d entity.Draft, f string) entity.Draft {
	out := d.Clone()
	out.Frequency = f
	return out
}

func withHasPet(d entity.Draft, v bool) entity.Draft {
	out := d.Clone()
	out.HasPet = &v
	return out
}

func withPet(d entity.Draft, pet string) entity.Draft {
	if d.HasPetNamed(pet) {
		return d
	}
	out := d.Clone()
	out.SelectedPets = append(out.SelectedPets, pet)
	return out
}

func withPetPresent(d entity.Draft, v bool) entity.Draft {
	out := d.Clone()
	out.PetPresent = &v
	return out
}

func withSpecialInstructions(d entity.Draft, s string) entity.Draft {
	out := d.Clone()
	out.SpecialInstructions = s
	return out
}

func withPaymentMethod(d entity.Draft, m string) entity.Draft {
	out := d.Clone()
	out.PaymentMethod = m
	return out
}

func withTip(d entity.Draft, amount float64) entity.Draft {
	out := d.Clone()
	out.TipAmount = amount
	return out
}

// pendingRoomQuantities lists selected rooms that still need a count, in
// selection order.
func pendingRoomQuantities(d entity.Draft) []string {
	var pending []string
	for _, room := range d.Rooms {
		if !needsQuantity(room) {
			continue
		}
		if _, ok := d.RoomQuantities[room]; ok {
			continue
		}
		pending = append(pending, room)
	}
	return pending
}

func needsQuantity(room string) bool {
	for _, r := range QuantifiedRooms {
		if r == room {
			return true
		}
	}
	return false
}

type loginField int

const (
	fieldNone loginField = iota
	fieldName
	fieldEmail
	fieldPhone
	fieldPassword
)

// nextLoginField returns the first empty credential for the account flow:
// name, email, phone, password when creating; email, password when logging in.
func nextLoginField(d entity.Draft) loginField {
	passwordSet := d.Password != "" || d.PasswordHash != ""

	if d.AccountType == entity.AccountCreate {
		switch {
		case d.Name == "":
			return fieldName
		case d.Email == "":
			return fieldEmail
		case d.Phone == "":
			return fieldPhone
		case !passwordSet:
			return fieldPassword
		}
		return fieldNone
	}

	switch {
	case d.Email == "":
		return fieldEmail
	case !passwordSet:
		return fieldPassword
	}
	return fieldNone
}
