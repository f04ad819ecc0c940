package dialogue

import (
	"EllaBooking/internal/entity"
	"EllaBooking/pkg/pricing"
	"fmt"
)

type Service struct {
	Name        string
	Price       float64
	Description string
	Value       string
	Keywords    []string
}

// Services are matched in declared order; the first keyword hit wins.
var Services = []Service{
	{
		Name:        "Standard Cleaning",
		Price:       89,
		Description: "Dusting, vacuuming, mopping, kitchen and bathroom wipe-down.",
		Value:       "standard",
		Keywords:    []string{"standard", "regular", "basic"},
	},
	{
		Name:        "Deep Cleaning",
		Price:       159,
		Description: "Everything in Standard plus baseboards, inside cabinets, grout and detailed scrubbing.",
		Value:       "deep",
		Keywords:    []string{"deep"},
	},
	{
		Name:        "Move In/Out Cleaning",
		Price:       249,
		Description: "Top-to-bottom clean of an empty home, inside appliances and closets.",
		Value:       "move",
		Keywords:    []string{"move"},
	},
}

type catalogAddOn struct {
	entity.AddOn
	Keywords []string
}

var AddOns = []catalogAddOn{
	{AddOn: entity.AddOn{Name: "Windows", Price: 35}, Keywords: []string{"window"}},
	{AddOn: entity.AddOn{Name: "Fridge", Price: 25}, Keywords: []string{"fridge", "refrigerator"}},
	{AddOn: entity.AddOn{Name: "Oven", Price: 25}, Keywords: []string{"oven"}},
	{AddOn: entity.AddOn{Name: "Laundry", Price: 30}, Keywords: []string{"laundry"}},
}

type option struct {
	Name     string
	Keywords []string
}

var roomOptions = []option{
	{Name: "Kitchen", Keywords: []string{"kitchen"}},
	{Name: "Living Room", Keywords: []string{"living"}},
	{Name: "Dining Room", Keywords: []string{"dining"}},
	{Name: "Home Office", Keywords: []string{"office", "study"}},
	{Name: "Basement", Keywords: []string{"basement"}},
	{Name: "Garage", Keywords: []string{"garage"}},
}

// QuantifiedRooms need a count before add-ons are offered.
var QuantifiedRooms = []string{"Kitchen", "Living Room"}

var petOptions = []option{
	{Name: "Dog", Keywords: []string{"dog", "pupp"}},
	{Name: "Cat", Keywords: []string{"cat", "kitten"}},
	{Name: "Bird", Keywords: []string{"bird", "parrot"}},
	{Name: "Fish", Keywords: []string{"fish"}},
}

var paymentOptions = []option{
	{Name: "Credit Card", Keywords: []string{"credit"}},
	{Name: "Debit Card", Keywords: []string{"debit"}},
	{Name: "Cash", Keywords: []string{"cash"}},
	{Name: "PayPal", Keywords: []string{"paypal"}},
}

var timeSlots = []option{
	{Name: "9:00 AM", Keywords: []string{"morning"}},
	{Name: "1:00 PM", Keywords: []string{"afternoon"}},
	{Name: "5:00 PM", Keywords: []string{"evening"}},
}

// Frequencies: bi-weekly is declared before weekly because "bi-weekly"
// contains "weekly".
var frequencies = []option{
	{Name: pricing.FrequencyOneTime, Keywords: []string{"one", "once", "single"}},
	{Name: pricing.FrequencyBiWeekly, Keywords: []string{"bi", "every other", "fortnight", "every two"}},
	{Name: pricing.FrequencyWeekly, Keywords: []string{"weekly", "every week"}},
	{Name: pricing.FrequencyMonthly, Keywords: []string{"month"}},
}

func qr(label, value string) entity.QuickReply {
	return entity.QuickReply{Label: label, Value: value}
}

func topLevelReplies() []entity.QuickReply {
	return []entity.QuickReply{
		qr("Book a cleaning", "book"),
		qr("Pricing", "pricing"),
		qr("Availability", "availability"),
		qr("Cancellation policy", "cancellation policy"),
		qr("Business hours", "hours"),
		qr("Products we use", "products"),
	}
}

func accountReplies() []entity.QuickReply {
	return []entity.QuickReply{
		qr("Log in", "login"),
		qr("Create account", "create account"),
		qr("Continue as guest", "guest"),
	}
}

func serviceReplies() []entity.QuickReply {
	out := make([]entity.QuickReply, 0, len(Services))
	for _, s := range Services {
		out = append(out, qr(fmt.Sprintf("%s - $%.0f", s.Name, s.Price), s.Value))
	}
	return out
}

func propertyReplies() []entity.QuickReply {
	return []entity.QuickReply{
		qr("House", "house"),
		qr("Apartment", "apartment"),
		qr("Condo", "condo"),
		qr("Townhouse", "townhouse"),
	}
}

func bedroomReplies() []entity.QuickReply {
	return []entity.QuickReply{qr("Studio", "0"), qr("1", "1"), qr("2", "2"), qr("3", "3"), qr("4+", "4")}
}

func bathroomReplies() []entity.QuickReply {
	return []entity.QuickReply{qr("1", "1"), qr("1.5", "1.5"), qr("2", "2"), qr("2.5", "2.5"), qr("3+", "3")}
}

func roomReplies(d entity.Draft) []entity.QuickReply {
	out := make([]entity.QuickReply, 0, len(roomOptions)+1)
	for _, r := range roomOptions {
		if !d.HasRoom(r.Name) {
			out = append(out, qr(r.Name, r.Keywords[0]))
		}
	}
	return append(out, qr("Done with rooms", "done rooms"))
}

func quantityReplies() []entity.QuickReply {
	return []entity.QuickReply{qr("1", "1"), qr("2", "2"), qr("3", "3"), qr("4", "4")}
}

func addOnReplies(d entity.Draft) []entity.QuickReply {
	out := make([]entity.QuickReply, 0, len(AddOns)+1)
	for _, a := range AddOns {
		if !d.HasAddOn(a.Name) {
			out = append(out, qr(fmt.Sprintf("%s (+$%.0f)", a.Name, a.Price), a.Keywords[0]))
		}
	}
	if len(d.AddOns) == 0 {
		return append(out, qr("No add-ons", "no addons"))
	}
	return append(out, qr("Done with add-ons", "done addons"))
}

func dateReplies() []entity.QuickReply {
	return []entity.QuickReply{
		qr("Tomorrow", "tomorrow"),
		qr("This weekend", "this weekend"),
		qr("Next week", "next week"),
		qr("Pick a specific date", "specific date"),
	}
}

func timeReplies() []entity.QuickReply {
	return []entity.QuickReply{
		qr("Morning (9:00 AM)", "morning"),
		qr("Afternoon (1:00 PM)", "afternoon"),
		qr("Evening (5:00 PM)", "evening"),
	}
}

func frequencyReplies() []entity.QuickReply {
	return []entity.QuickReply{
		qr("One-time", "one-time"),
		qr("Weekly (save 10%)", "weekly"),
		qr("Bi-weekly (save 5%)", "bi-weekly"),
		qr("Monthly (save 15%)", "monthly"),
	}
}

func yesNoReplies() []entity.QuickReply {
	return []entity.QuickReply{qr("Yes", "yes"), qr("No", "no")}
}

func petReplies(d entity.Draft) []entity.QuickReply {
	out := make([]entity.QuickReply, 0, len(petOptions)+1)
	for _, p := range petOptions {
		if !d.HasPetNamed(p.Name) {
			out = append(out, qr(p.Name, p.Keywords[0]))
		}
	}
	return append(out, qr("Done with pets", "done pets"))
}

func instructionReplies() []entity.QuickReply {
	return []entity.QuickReply{qr("No special instructions", "no instructions")}
}

func paymentReplies() []entity.QuickReply {
	out := make([]entity.QuickReply, 0, len(paymentOptions))
	for _, p := range paymentOptions {
		out = append(out, qr(p.Name, p.Keywords[0]))
	}
	return out
}

func tipReplies(d entity.Draft) []entity.QuickReply {
	out := make([]entity.QuickReply, 0, len(pricing.TipPresets)+1)
	for _, rate := range pricing.TipPresets {
		pct := int(rate * 100)
		out = append(out, qr(
			fmt.Sprintf("%d%% ($%.2f)", pct, pricing.TipFor(d.ServicePrice, rate)),
			fmt.Sprintf("tip %d", pct),
		))
	}
	return append(out, qr("No tip", "no tip"))
}

func confirmReplies() []entity.QuickReply {
	return []entity.QuickReply{qr("Confirm booking", "confirm"), qr("Make changes", "make changes")}
}
