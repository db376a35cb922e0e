package game

import (
	"math"
	"time"
)

const (
	StarterBalance          = 50_000.0
	DefaultGroceryBudget    = 300.0
	DefaultLeisureBudget    = 250.0
	MonthlyLoanInstallment  = 400.0
	MonthlyTax              = 500.0
	BaseMonthlyTransport    = 150.0
	BaseMonthlyUtilities    = 100.0
	UtilitiesPerSquareMeter = 2.0

	// Annual interest charged daily while the balance is negative.
	OverdraftAPR = 0.40
)

// Occupation is a job type with a fixed monthly salary.
type Occupation string

const (
	OccupationSoftwareEngineer Occupation = "software_engineer"
	OccupationTeacher          Occupation = "teacher"
	OccupationNurse            Occupation = "nurse"
	OccupationUnemployed       Occupation = "unemployed"
)

type occupationProfile struct {
	MonthlySalary    float64
	WorkHoursPerWeek float64
	EducationHours   float64
}

var occupations = map[Occupation]occupationProfile{
	OccupationSoftwareEngineer: {MonthlySalary: 5000, WorkHoursPerWeek: 40, EducationHours: 4},
	OccupationTeacher:          {MonthlySalary: 3200, WorkHoursPerWeek: 38, EducationHours: 6},
	OccupationNurse:            {MonthlySalary: 3500, WorkHoursPerWeek: 44, EducationHours: 3},
	OccupationUnemployed:       {MonthlySalary: 0, WorkHoursPerWeek: 0, EducationHours: 8},
}

func MonthlySalary(o Occupation) float64 {
	return occupations[o].MonthlySalary
}

// FoodType is the meal tier derived from the monthly grocery budget.
type FoodType string

const (
	FoodJunk    FoodType = "junk_food"
	FoodBasic   FoodType = "basic_meal"
	FoodHealthy FoodType = "healthy_meal"
)

var foodHealthBonus = map[FoodType]float64{
	FoodJunk:    -5,
	FoodBasic:   1,
	FoodHealthy: 5,
}

func FoodTypeForBudget(monthlyGroceryBudget float64) FoodType {
	switch {
	case monthlyGroceryBudget < 200:
		return FoodJunk
	case monthlyGroceryBudget < 450:
		return FoodBasic
	default:
		return FoodHealthy
	}
}

// HousingQuality carries the rent cost and wellbeing coefficients of a tier.
type HousingQuality string

const (
	HousingBudget   HousingQuality = "budget"
	HousingStandard HousingQuality = "standard"
	HousingPremium  HousingQuality = "premium"
)

type housingProfile struct {
	MonthlyCost    float64
	HappinessBonus float64
	ComfortBonus   float64
	HasSauna       bool
}

var housingQualities = map[HousingQuality]housingProfile{
	HousingBudget:   {MonthlyCost: 300, HappinessBonus: -3, ComfortBonus: 5},
	HousingStandard: {MonthlyCost: 700, HappinessBonus: 1, ComfortBonus: 15},
	HousingPremium:  {MonthlyCost: 1400, HappinessBonus: 5, ComfortBonus: 25, HasSauna: true},
}

// LocationType carries the location cost and comfort coefficients.
type LocationType string

const (
	LocationSuburbs    LocationType = "suburbs"
	LocationCityCenter LocationType = "city_center"
	LocationRural      LocationType = "rural"
)

type locationProfile struct {
	MonthlyCost  float64
	ComfortBonus float64
}

var locationTypes = map[LocationType]locationProfile{
	LocationSuburbs:    {MonthlyCost: 100, ComfortBonus: -5},
	LocationCityCenter: {MonthlyCost: 300, ComfortBonus: 30},
	LocationRural:      {MonthlyCost: 0, ComfortBonus: 0},
}

func ValidHousingQuality(q HousingQuality) bool {
	_, ok := housingQualities[q]
	return ok
}

func ValidLocationType(l LocationType) bool {
	_, ok := locationTypes[l]
	return ok
}

// HousingQualities returns the tiers in ascending cost order.
func HousingQualities() []HousingQuality {
	return []HousingQuality{HousingBudget, HousingStandard, HousingPremium}
}

func LocationTypes() []LocationType {
	return []LocationType{LocationSuburbs, LocationCityCenter, LocationRural}
}

func HousingCost(q HousingQuality) float64 {
	return housingQualities[q].MonthlyCost
}

func LocationCost(l LocationType) float64 {
	return locationTypes[l].MonthlyCost
}

// Accommodation is a player's current housing choice.
type Accommodation struct {
	ID          string
	Quality     HousingQuality
	Location    LocationType
	LivingSpace float64 // square meters
}

func (a Accommodation) MonthlyRent() float64 {
	return housingQualities[a.Quality].MonthlyCost + locationTypes[a.Location].MonthlyCost
}

func (a Accommodation) MonthlyUtilities() float64 {
	return BaseMonthlyUtilities + UtilitiesPerSquareMeter*a.LivingSpace
}

func (a Accommodation) HasSauna() bool {
	return housingQualities[a.Quality].HasSauna
}

func DefaultAccommodation() Accommodation {
	return Accommodation{
		ID:          "standard_city_center_50",
		Quality:     HousingStandard,
		Location:    LocationCityCenter,
		LivingSpace: 50,
	}
}

// CostOfLiving maps (year, month) to the multiplier applied to rent,
// utilities and transport: 2.5% yearly inflation compounded monthly from
// January 2005. Pure and total over the simulated date range.
func CostOfLiving(year int, month time.Month) float64 {
	months := (year-2005)*12 + int(month) - 1
	return math.Pow(1.025, float64(months)/12)
}
