package entity

import "time"

type Step string

const (
	StepIdle                Step = "idle"
	StepAccount             Step = "account"
	StepLogin               Step = "login"
	StepService             Step = "service"
	StepPropertyType        Step = "property-type"
	StepBedrooms            Step = "bedrooms"
	StepBathrooms           Step = "bathrooms"
	StepRooms               Step = "rooms"
	StepRoomQuantities      Step = "room-quantities"
	StepAddOns              Step = "addons"
	StepDate                Step = "date"
	StepTime                Step = "time"
	StepFrequency           Step = "frequency"
	StepPets                Step = "pets"
	StepPetSelection        Step = "pet-selection"
	StepPetPresent          Step = "pet-present"
	StepSpecialInstructions Step = "special-instructions"
	StepPayment             Step = "payment"
	StepTip                 Step = "tip"
	StepConfirm             Step = "confirm"
)

// Steps lists every stage in conversational order.
var Steps = []Step{
	StepIdle,
	StepAccount,
	StepLogin,
	StepService,
	StepPropertyType,
	StepBedrooms,
	StepBathrooms,
	StepRooms,
	StepRoomQuantities,
	StepAddOns,
	StepDate,
	StepTime,
	StepFrequency,
	StepPets,
	StepPetSelection,
	StepPetPresent,
	StepSpecialInstructions,
	StepPayment,
	StepTip,
	StepConfirm,
}

func (s Step) Valid() bool {
	for _, step := range Steps {
		if s == step {
			return true
		}
	}
	return false
}

func (s Step) String() string {
	return string(s)
}

type AccountType string

const (
	AccountLogin  AccountType = "login"
	AccountCreate AccountType = "create"
	AccountGuest  AccountType = "guest"
)

type AddOn struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Draft is the booking data accumulated across a conversation. It is treated
// as a value: reducers clone it before applying a change.
type Draft struct {
	AccountType         AccountType    `json:"account_type,omitempty"`
	Name                string         `json:"name,omitempty"`
	Email               string         `json:"email,omitempty"`
	Phone               string         `json:"phone,omitempty"`
	Password            string         `json:"-"`
	PasswordHash        string         `json:"password_hash,omitempty"`
	ServiceType         string         `json:"service_type,omitempty"`
	ServicePrice        float64        `json:"service_price,omitempty"`
	PropertyType        string         `json:"property_type,omitempty"`
	Bedrooms            *int           `json:"bedrooms,omitempty"`
	Bathrooms           *float64       `json:"bathrooms,omitempty"`
	Rooms               []string       `json:"rooms,omitempty"`
	RoomQuantities      map[string]int `json:"room_quantities,omitempty"`
	AddOns              []AddOn        `json:"add_ons,omitempty"`
	Date                string         `json:"date,omitempty"`
	Time                string         `json:"time,omitempty"`
	Frequency           string         `json:"frequency,omitempty"`
	HasPet              *bool          `json:"has_pet,omitempty"`
	SelectedPets        []string       `json:"selected_pets,omitempty"`
	PetPresent          *bool          `json:"pet_present,omitempty"`
	SpecialInstructions string         `json:"special_instructions,omitempty"`
	PaymentMethod       string         `json:"payment_method,omitempty"`
	TipAmount           float64        `json:"tip_amount,omitempty"`
}

func (d Draft) Clone() Draft {
	out := d
	if d.Bedrooms != nil {
		v := *d.Bedrooms
		out.Bedrooms = &v
	}
	if d.Bathrooms != nil {
		v := *d.Bathrooms
		out.Bathrooms = &v
	}
	if d.HasPet != nil {
		v := *d.HasPet
		out.HasPet = &v
	}
	if d.PetPresent != nil {
		v := *d.PetPresent
		out.PetPresent = &v
	}
	if d.Rooms != nil {
		out.Rooms = append([]string(nil), d.Rooms...)
	}
	if d.AddOns != nil {
		out.AddOns = append([]AddOn(nil), d.AddOns...)
	}
	if d.SelectedPets != nil {
		out.SelectedPets = append([]string(nil), d.SelectedPets...)
	}
	if d.RoomQuantities != nil {
		out.RoomQuantities = make(map[string]int, len(d.RoomQuantities))
		for k, v := range d.RoomQuantities {
			out.RoomQuantities[k] = v
		}
	}
	return out
}

// Public returns a clone with credentials removed, for anything shown to a
// client or written to a transcript.
func (d Draft) Public() Draft {
	out := d.Clone()
	out.Password = ""
	out.PasswordHash = ""
	return out
}

func (d Draft) HasRoom(room string) bool {
	for _, r := range d.Rooms {
		if r == room {
			return true
		}
	}
	return false
}

func (d Draft) HasAddOn(name string) bool {
	for _, a := range d.AddOns {
		if a.Name == name {
			return true
		}
	}
	return false
}

func (d Draft) HasPetNamed(name string) bool {
	for _, p := range d.SelectedPets {
		if p == name {
			return true
		}
	}
	return false
}

type ConversationState struct {
	CurrentStep Step      `json:"current_step"`
	Draft       Draft     `json:"draft"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewConversationState() ConversationState {
	return ConversationState{CurrentStep: StepIdle}
}

type Totals struct {
	BasePrice   float64 `json:"base_price"`
	AddOnsTotal float64 `json:"add_ons_total"`
	Discount    float64 `json:"discount"`
	Tip         float64 `json:"tip"`
	Total       float64 `json:"total"`
}
