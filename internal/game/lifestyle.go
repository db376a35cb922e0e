package game

import (
	"math"
	"time"
)

const DefaultStressCap = 80.0

const stressBaseLevel = 10.0

// Lifestyle holds the eight wellbeing scores. All values are floats clamped
// to [0, 100] (stress to [0, StressCap]); they are reported to callers
// rounded to integers.
type Lifestyle struct {
	Health          float64
	Happiness       float64
	Energy          float64
	SocialLife      float64
	StressLevel     float64
	LivingComfort   float64
	CareerProgress  float64
	SkillsEducation float64

	StressCap float64
}

func NewLifestyle(stressCap float64) *Lifestyle {
	if stressCap <= 0 {
		stressCap = DefaultStressCap
	}
	return &Lifestyle{
		Health:      100,
		Happiness:   100,
		Energy:      100,
		SocialLife:  100,
		StressLevel: stressBaseLevel,
		StressCap:   stressCap,
	}
}

func clampScore(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}

func isWinter(month time.Month) bool {
	return month == time.November || month == time.December ||
		month == time.January || month == time.February
}

func isSummer(month time.Month) bool {
	return month == time.June || month == time.July || month == time.August
}

// UpdateHealth applies the food bonus, base decay, leisure bonus and the
// winter penalty.
func (l *Lifestyle) UpdateHealth(food FoodType, leisureSpent float64, month time.Month) {
	delta := foodHealthBonus[food] - 0.25 + leisureSpent/50
	if isWinter(month) {
		delta -= 2
	}
	l.Health = clampScore(l.Health + delta)
}

// UpdateHappiness applies housing and sauna bonuses, the salary-bonus event
// bonus, base decay and the leisure bonus.
func (l *Lifestyle) UpdateHappiness(quality HousingQuality, hasSauna, salaryBonus bool, leisureSpent float64) {
	delta := housingQualities[quality].HappinessBonus - 5.0/8 + leisureSpent/10
	if hasSauna {
		delta += 2
	}
	if salaryBonus {
		delta += 10
	}
	l.Happiness = clampScore(l.Happiness + delta)
}

// UpdateEnergy combines the health-driven gain and loss, the seasonal bonus
// and the overtime penalty.
func (l *Lifestyle) UpdateEnergy(workHoursPerWeek float64, month time.Month) {
	healthGain := 0.0
	if l.Health > 80 {
		healthGain = 2
	}
	seasonal := 0.0
	if isSummer(month) {
		seasonal = 0.1
	} else if isWinter(month) {
		seasonal = -0.1
	}
	healthLoss := (100 - l.Health) / 2
	workLoss := -2.0
	if workHoursPerWeek > 40 {
		workLoss = (workHoursPerWeek - 40) * 2
	}
	l.Energy = clampScore(l.Energy + healthGain + seasonal - healthLoss - workLoss)
}

func (l *Lifestyle) UpdateSocialLife(leisureSpent, workHoursPerWeek float64) {
	leisureTerm := -1.0
	if leisureSpent > 100 {
		leisureTerm = leisureSpent / 100
	}
	workImpact := -2.0
	if workHoursPerWeek > 40 {
		workImpact = (workHoursPerWeek - 40) / 5
	}
	l.SocialLife = clampScore(l.SocialLife + leisureTerm - 1 - workImpact)
}

// UpdateStress recomputes an absolute stress level from the player's
// financial situation. Stock gains relieve stress, losses add to it.
func (l *Lifestyle) UpdateStress(savings, monthlyExpenses, unsecuredDebt float64, crash bool, stockPerf, exposure float64) {
	total := stressBaseLevel
	if monthlyExpenses > 0 {
		if savings < monthlyExpenses {
			total += 20
		} else if savings > 6*monthlyExpenses {
			total -= 10
		}
		total -= math.Trunc(stockPerf * exposure / monthlyExpenses)
	}
	total += unsecuredDebt / 200
	if crash {
		total += 15
	}
	l.StressLevel = math.Min(l.StressCap, math.Max(0, total))
}

// UpdateLivingComfort overwrites the score from the accommodation alone.
// Living space counts one point per square meter up to 50.
func (l *Lifestyle) UpdateLivingComfort(quality HousingQuality, location LocationType, livingSpace float64) {
	comfort := housingQualities[quality].ComfortBonus +
		locationTypes[location].ComfortBonus +
		math.Min(50, livingSpace)
	l.LivingComfort = clampScore(comfort)
}

func (l *Lifestyle) UpdateCareerProgress(employed bool, leisureSpent float64) {
	if employed {
		l.CareerProgress = clampScore(l.CareerProgress + 0.02 + leisureSpent/2000)
	} else {
		l.CareerProgress = clampScore(l.CareerProgress - 2)
	}
}

func (l *Lifestyle) UpdateSkillsEducation(educationHoursPerWeek float64) {
	l.SkillsEducation = clampScore(l.SkillsEducation + educationHoursPerWeek/24)
}
