package game

import (
	"sort"
	"time"

	"github.com/qualityslop/backend/internal/events"
)

type PositionView struct {
	Symbol     string  `json:"symbol"`
	LastPrice  float64 `json:"last_price"`
	Size       int     `json:"size"`
	EntryPrice float64 `json:"entry_price"`
	Pnl        float64 `json:"pnl"`
}

type PlayerStats struct {
	Username string  `json:"username"`
	Balance  float64 `json:"balance"`
}

// PollView is the full per-player snapshot the web layer serves on poll.
type PollView struct {
	SessionID                 string    `json:"session_id"`
	SessionStatus             Status    `json:"session_status"`
	Username                  string    `json:"username"`
	IsLeader                  bool      `json:"is_leader"`
	Time                      time.Time `json:"time"`
	TimeProgressionMultiplier int       `json:"time_progression_multiplier"`

	Balance          float64 `json:"balance"`
	Assets           float64 `json:"assets"`
	Equity           float64 `json:"equity"`
	MonthlyIncome    float64 `json:"monthly_income"`
	MonthlyExpenses  float64 `json:"monthly_expenses"`
	MonthlyNetIncome float64 `json:"monthly_net_income"`

	Occupation       Occupation `json:"occupation"`
	MonthlySalary    float64    `json:"monthly_salary"`
	MonthlyDividends float64    `json:"monthly_dividends"`

	HealthLevel          int `json:"health_level"`
	HappinessLevel       int `json:"happiness_level"`
	EnergyLevel          int `json:"energy_level"`
	SocialLifeLevel      int `json:"social_life_level"`
	StressLevel          int `json:"stress_level"`
	LivingComfortLevel   int `json:"living_comfort_level"`
	CareerProgressLevel  int `json:"career_progress_level"`
	SkillsEducationLevel int `json:"skills_education_level"`

	MonthlyRentExpense           float64 `json:"monthly_rent_expense"`
	MonthlyUtilitiesExpense      float64 `json:"monthly_utilities_expense"`
	MonthlyGroceryExpense        float64 `json:"monthly_grocery_expense"`
	MonthlyTransportationExpense float64 `json:"monthly_transportation_expense"`
	MonthlyLeisureExpense        float64 `json:"monthly_leisure_expense"`
	MonthlyLoanExpense           float64 `json:"monthly_loan_expense"`
	MonthlyTaxExpense            float64 `json:"monthly_tax_expense"`

	FoodType        FoodType `json:"food_type"`
	AccommodationID string   `json:"accommodation_id"`

	Stocks  []PositionView `json:"stocks"`
	Events  []events.Event `json:"events"`
	Players []PlayerStats  `json:"players"`
}

// Snapshot assembles a PollView under one lock acquisition so every field
// reflects the same tick.
func (p *Player) Snapshot() PollView {
	s := p.session
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.simTime
	dividends := p.monthlyDividendsLocked(now)
	expenses := p.monthlyExpensesLocked()
	assets := p.assetsLocked()

	stocks := make([]PositionView, 0, len(s.symbols))
	for _, symbol := range s.symbols {
		price, _ := s.prices.At(symbol, now)
		view := PositionView{Symbol: symbol, LastPrice: price}
		if pos := p.positions[symbol]; pos != nil {
			view.Size = pos.Shares
			view.EntryPrice = pos.AvgEntryPrice
			view.Pnl = p.positionPnLLocked(symbol)
		}
		stocks = append(stocks, view)
	}

	players := make([]PlayerStats, 0, len(s.players))
	for _, other := range s.players {
		players = append(players, PlayerStats{Username: other.username, Balance: other.balance})
	}
	sort.Slice(players, func(i, j int) bool {
		return players[i].Username < players[j].Username
	})

	todayEvents := make([]events.Event, len(p.todayEvents))
	copy(todayEvents, p.todayEvents)

	return PollView{
		SessionID:                 s.id,
		SessionStatus:             s.status,
		Username:                  p.username,
		IsLeader:                  p.isLeader,
		Time:                      now,
		TimeProgressionMultiplier: s.multiplier,

		Balance:          p.balance,
		Assets:           assets,
		Equity:           p.balance + assets,
		MonthlyIncome:    p.monthlySalaryLocked() + dividends,
		MonthlyExpenses:  expenses,
		MonthlyNetIncome: p.monthlySalaryLocked() + dividends - expenses,

		Occupation:       p.occupation,
		MonthlySalary:    p.monthlySalaryLocked(),
		MonthlyDividends: dividends,

		HealthLevel:          roundLevel(p.lifestyle.Health),
		HappinessLevel:       roundLevel(p.lifestyle.Happiness),
		EnergyLevel:          roundLevel(p.lifestyle.Energy),
		SocialLifeLevel:      roundLevel(p.lifestyle.SocialLife),
		StressLevel:          roundLevel(p.lifestyle.StressLevel),
		LivingComfortLevel:   roundLevel(p.lifestyle.LivingComfort),
		CareerProgressLevel:  roundLevel(p.lifestyle.CareerProgress),
		SkillsEducationLevel: roundLevel(p.lifestyle.SkillsEducation),

		MonthlyRentExpense:           p.monthlyRentLocked(),
		MonthlyUtilitiesExpense:      p.monthlyUtilitiesLocked(),
		MonthlyGroceryExpense:        p.monthlyGroceryBudget,
		MonthlyTransportationExpense: p.monthlyTransportLocked(),
		MonthlyLeisureExpense:        p.monthlyLeisureBudget,
		MonthlyLoanExpense:           MonthlyLoanInstallment,
		MonthlyTaxExpense:            MonthlyTax,

		FoodType:        p.foodType,
		AccommodationID: p.accommodation.ID,

		Stocks:  stocks,
		Events:  todayEvents,
		Players: players,
	}
}
