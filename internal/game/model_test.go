package game

import (
	"testing"
	"time"
)

func TestFoodTypeForBudget(t *testing.T) {
	tests := []struct {
		budget float64
		want   FoodType
	}{
		{0, FoodJunk},
		{199, FoodJunk},
		{200, FoodBasic},
		{300, FoodBasic},
		{449, FoodBasic},
		{450, FoodHealthy},
		{1200, FoodHealthy},
	}
	for _, tc := range tests {
		if got := FoodTypeForBudget(tc.budget); got != tc.want {
			t.Fatalf("budget %.0f: got %s want %s", tc.budget, got, tc.want)
		}
	}
}

func TestDefaultAccommodationCosts(t *testing.T) {
	a := DefaultAccommodation()
	if a.MonthlyRent() != 1000 {
		t.Fatalf("rent: got %f want 1000", a.MonthlyRent())
	}
	if a.MonthlyUtilities() != 200 {
		t.Fatalf("utilities: got %f want 200", a.MonthlyUtilities())
	}
	if a.HasSauna() {
		t.Fatalf("standard housing should not have a sauna")
	}
}

func TestPremiumHasSauna(t *testing.T) {
	a := Accommodation{Quality: HousingPremium, Location: LocationRural, LivingSpace: 70}
	if !a.HasSauna() {
		t.Fatalf("premium housing should have a sauna")
	}
	if a.MonthlyRent() != 1400 {
		t.Fatalf("rural premium rent: got %f want 1400", a.MonthlyRent())
	}
}

func TestCostOfLiving(t *testing.T) {
	if got := CostOfLiving(2005, time.January); !almostEqual(got, 1) {
		t.Fatalf("baseline: got %f want 1", got)
	}
	if got := CostOfLiving(2006, time.January); !almostEqual(got, 1.025) {
		t.Fatalf("one year out: got %f want 1.025", got)
	}
	prev := 0.0
	for year := 2005; year <= 2010; year++ {
		for month := time.January; month <= time.December; month++ {
			got := CostOfLiving(year, month)
			if got <= prev {
				t.Fatalf("cost of living should grow monthly, %d-%s gave %f after %f", year, month, got, prev)
			}
			prev = got
		}
	}
}

func TestMonthlySalary(t *testing.T) {
	if got := MonthlySalary(OccupationSoftwareEngineer); got != 5000 {
		t.Fatalf("software engineer: got %f", got)
	}
	if got := MonthlySalary(OccupationUnemployed); got != 0 {
		t.Fatalf("unemployed: got %f", got)
	}
}

func TestValidHousingAndLocation(t *testing.T) {
	for _, q := range HousingQualities() {
		if !ValidHousingQuality(q) {
			t.Fatalf("quality %s should be valid", q)
		}
	}
	if ValidHousingQuality("mansion") {
		t.Fatalf("unknown quality should be invalid")
	}
	for _, l := range LocationTypes() {
		if !ValidLocationType(l) {
			t.Fatalf("location %s should be valid", l)
		}
	}
	if ValidLocationType("moon") {
		t.Fatalf("unknown location should be invalid")
	}
}
