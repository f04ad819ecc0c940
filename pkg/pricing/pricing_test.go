package pricing

import (
	"EllaBooking/internal/entity"
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}

func TestComputeTotalWeeklyWithAddOnAndTip(t *testing.T) {
	d := entity.Draft{
		ServicePrice: 159,
		AddOns:       []entity.AddOn{{Name: "Windows", Price: 35}},
		Frequency:    "Weekly",
		TipAmount:    19.4,
	}

	got := ComputeTotal(d)

	if got.BasePrice != 159 {
		t.Fatalf("expected base 159, got %v", got.BasePrice)
	}
	if got.AddOnsTotal != 35 {
		t.Fatalf("expected add-ons 35, got %v", got.AddOnsTotal)
	}
	if !almostEqual(got.Discount, 19.4) {
		t.Fatalf("expected discount 19.4, got %v", got.Discount)
	}
	if !almostEqual(got.Tip, 19.4) {
		t.Fatalf("expected tip 19.4, got %v", got.Tip)
	}
	if !almostEqual(got.Total, 194) {
		t.Fatalf("expected total 194, got %v", got.Total)
	}
}

func TestComputeTotalEmptyDraft(t *testing.T) {
	got := ComputeTotal(entity.Draft{})
	if got != (entity.Totals{}) {
		t.Fatalf("expected zero totals, got %+v", got)
	}
}

func TestComputeTotalIsPure(t *testing.T) {
	d := entity.Draft{
		ServicePrice: 249,
		AddOns:       []entity.AddOn{{Name: "Oven", Price: 25}, {Name: "Laundry", Price: 30}},
		Frequency:    "Monthly",
		TipAmount:    37.35,
	}

	first := ComputeTotal(d)
	second := ComputeTotal(d)
	if first != second {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}
	if len(d.AddOns) != 2 || d.AddOns[0].Name != "Oven" {
		t.Fatalf("draft was mutated: %+v", d.AddOns)
	}
}

func TestComputeTotalIdentityHoldsForAllFrequencies(t *testing.T) {
	frequencies := []string{"", FrequencyOneTime, FrequencyWeekly, FrequencyBiWeekly, FrequencyMonthly, "fortnightly"}
	prices := []float64{0, 89, 159, 249}
	addOnSets := [][]entity.AddOn{
		nil,
		{{Name: "Windows", Price: 35}},
		{{Name: "Fridge", Price: 25}, {Name: "Oven", Price: 25}, {Name: "Laundry", Price: 30}},
	}
	allowedRates := map[float64]bool{0: true, 0.05: true, 0.10: true, 0.15: true}

	for _, freq := range frequencies {
		for _, price := range prices {
			for _, addOns := range addOnSets {
				for _, rate := range append([]float64{0}, TipPresets...) {
					d := entity.Draft{
						ServicePrice: price,
						AddOns:       addOns,
						Frequency:    freq,
						TipAmount:    TipFor(price, rate),
					}
					got := ComputeTotal(d)

					r := DiscountRate(freq)
					if !allowedRates[r] {
						t.Fatalf("unexpected rate %v for %q", r, freq)
					}
					if !almostEqual(got.Discount, r*(got.BasePrice+got.AddOnsTotal)) {
						t.Fatalf("discount mismatch for %+v: %+v", d, got)
					}
					want := got.BasePrice + got.AddOnsTotal - got.Discount + got.Tip
					if !almostEqual(got.Total, want) {
						t.Fatalf("total identity broken for %+v: %+v", d, got)
					}
					if got.Total < 0 {
						t.Fatalf("negative total for %+v", d)
					}
				}
			}
		}
	}
}

func TestDiscountRate(t *testing.T) {
	tests := []struct {
		frequency string
		want      float64
	}{
		{"Weekly", 0.10},
		{"weekly", 0.10},
		{"Bi-weekly", 0.05},
		{"Monthly", 0.15},
		{"One-time", 0},
		{"", 0},
	}

	for _, tt := range tests {
		if got := DiscountRate(tt.frequency); got != tt.want {
			t.Errorf("DiscountRate(%q) = %v, want %v", tt.frequency, got, tt.want)
		}
	}
}

func TestTipForUsesBasePrice(t *testing.T) {
	if got := TipFor(159, 0.10); got != 15.9 {
		t.Fatalf("expected 15.9, got %v", got)
	}
	if got := TipFor(89, 0.15); got != 13.35 {
		t.Fatalf("expected 13.35, got %v", got)
	}
	if got := TipFor(249, 0.20); got != 49.8 {
		t.Fatalf("expected 49.8, got %v", got)
	}
}
