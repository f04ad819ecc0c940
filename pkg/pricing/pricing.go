package pricing

import (
	"EllaBooking/internal/entity"
	"math"
	"strings"
)

const (
	FrequencyOneTime  = "One-time"
	FrequencyWeekly   = "Weekly"
	FrequencyBiWeekly = "Bi-weekly"
	FrequencyMonthly  = "Monthly"
)

var discountRates = map[string]float64{
	"weekly":    0.10,
	"bi-weekly": 0.05,
	"monthly":   0.15,
}

// TipPresets are fractions of the base service price, not of the discounted subtotal.
var TipPresets = []float64{0.10, 0.15, 0.20}

// DiscountRate returns the frequency discount for a cadence label. Unknown,
// one-time and empty cadences get no discount.
func DiscountRate(frequency string) float64 {
	return discountRates[strings.ToLower(strings.TrimSpace(frequency))]
}

// TipFor returns the tip for a preset rate applied to the base price.
func TipFor(basePrice, rate float64) float64 {
	return roundCents(basePrice * rate)
}

// ComputeTotal prices a draft snapshot. It has no side effects and never fails.
func ComputeTotal(d entity.Draft) entity.Totals {
	base := math.Max(d.ServicePrice, 0)

	addOns := 0.0
	for _, a := range d.AddOns {
		addOns += a.Price
	}
	addOns = roundCents(addOns)

	discount := roundCents((base + addOns) * DiscountRate(d.Frequency))
	tip := roundCents(math.Max(d.TipAmount, 0))

	return entity.Totals{
		BasePrice:   base,
		AddOnsTotal: addOns,
		Discount:    discount,
		Tip:         tip,
		Total:       roundCents(base + addOns - discount + tip),
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
