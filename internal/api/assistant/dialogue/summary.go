package dialogue

import (
	"EllaBooking/internal/entity"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "Monday, January 2"

// resolveDate turns a quick-reply date keyword into a calendar date relative
// to now. "weekend" is the coming Saturday (Sunday when today is Saturday),
// "next week" the coming Monday.
func resolveDate(now time.Time, keyword string) string {
	var days int
	switch keyword {
	case "tomorrow":
		days = 1
	case "weekend":
		switch now.Weekday() {
		case time.Saturday:
			days = 1
		default:
			days = int(time.Saturday - now.Weekday())
		}
	case "next week":
		days = (8 - int(now.Weekday())) % 7
		if days == 0 {
			days = 7
		}
	default:
		return keyword
	}
	return now.AddDate(0, 0, days).Format(dateLayout)
}

func pricingText() string {
	var b strings.Builder
	b.WriteString("Here's our pricing:\n")
	for _, s := range Services {
		fmt.Fprintf(&b, "• %s: $%.0f\n", s.Name, s.Price)
	}
	b.WriteString("Add-ons: ")
	names := make([]string, 0, len(AddOns))
	for _, a := range AddOns {
		names = append(names, fmt.Sprintf("%s $%.0f", a.Name, a.Price))
	}
	b.WriteString(strings.Join(names, ", "))
	b.WriteString(".\nRecurring cleanings save 10% weekly, 5% bi-weekly or 15% monthly.")
	return b.String()
}

func summaryText(d entity.Draft, t entity.Totals) string {
	var b strings.Builder
	b.WriteString("Here's your booking summary:\n")
	fmt.Fprintf(&b, "• Service: %s ($%.2f)\n", d.ServiceType, d.ServicePrice)
	fmt.Fprintf(&b, "• Property: %s\n", propertyLine(d))
	if len(d.Rooms) > 0 {
		fmt.Fprintf(&b, "• Rooms: %s\n", roomsLine(d))
	}
	if len(d.AddOns) > 0 {
		parts := make([]string, 0, len(d.AddOns))
		for _, a := range d.AddOns {
			parts = append(parts, fmt.Sprintf("%s ($%.2f)", a.Name, a.Price))
		}
		fmt.Fprintf(&b, "• Add-ons: %s\n", strings.Join(parts, ", "))
	}
	fmt.Fprintf(&b, "• When: %s at %s\n", d.Date, d.Time)
	fmt.Fprintf(&b, "• Frequency: %s\n", d.Frequency)
	if len(d.SelectedPets) > 0 {
		presence := "away during cleaning"
		if d.PetPresent != nil && *d.PetPresent {
			presence = "home during cleaning"
		}
		fmt.Fprintf(&b, "• Pets: %s (%s)\n", strings.Join(d.SelectedPets, ", "), presence)
	}
	if d.SpecialInstructions != "" {
		fmt.Fprintf(&b, "• Instructions: %s\n", d.SpecialInstructions)
	}
	fmt.Fprintf(&b, "• Payment: %s\n", d.PaymentMethod)
	fmt.Fprintf(&b, "Subtotal: $%.2f\n", t.BasePrice+t.AddOnsTotal)
	if t.Discount > 0 {
		fmt.Fprintf(&b, "%s discount: -$%.2f\n", d.Frequency, t.Discount)
	}
	if t.Tip > 0 {
		fmt.Fprintf(&b, "Tip: $%.2f\n", t.Tip)
	}
	fmt.Fprintf(&b, "Total: $%.2f\n", t.Total)
	b.WriteString("Shall I confirm this booking?")
	return b.String()
}

func propertyLine(d entity.Draft) string {
	parts := []string{d.PropertyType}
	if d.Bedrooms != nil {
		parts = append(parts, fmt.Sprintf("%d bed", *d.Bedrooms))
	}
	if d.Bathrooms != nil {
		parts = append(parts, strconv.FormatFloat(*d.Bathrooms, 'f', -1, 64)+" bath")
	}
	return strings.Join(parts, ", ")
}

func roomsLine(d entity.Draft) string {
	parts := make([]string, 0, len(d.Rooms))
	for _, r := range d.Rooms {
		if n, ok := d.RoomQuantities[r]; ok {
			parts = append(parts, fmt.Sprintf("%s (%d)", r, n))
			continue
		}
		parts = append(parts, r)
	}
	return strings.Join(parts, ", ")
}

func confirmedText(d entity.Draft) string {
	who := "Your"
	if d.Name != "" {
		who = firstName(d.Name) + ", your"
	}
	return fmt.Sprintf("%s %s is booked for %s at %s! You'll receive a confirmation shortly. Is there anything else I can help you with?",
		who, strings.ToLower(d.ServiceType), d.Date, d.Time)
}
