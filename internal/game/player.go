package game

import (
	"math"
	"time"

	"github.com/qualityslop/backend/internal/events"
)

// Player is one participant in a session. All mutable state is guarded by
// the owning session's lock; during autonomous play the scheduler task is
// the only writer.
type Player struct {
	session  *Session
	username string
	isLeader bool

	balance              float64
	occupation           Occupation
	monthlyGroceryBudget float64
	monthlyLeisureBudget float64
	foodType             FoodType
	accommodation        Accommodation

	positions map[string]*Position
	lifestyle *Lifestyle

	costMultiplier float64
	todayEvents    []events.Event
}

func newPlayer(s *Session, username string, isLeader bool) *Player {
	p := &Player{
		session:              s,
		username:             username,
		isLeader:             isLeader,
		balance:              StarterBalance,
		occupation:           OccupationSoftwareEngineer,
		monthlyGroceryBudget: DefaultGroceryBudget,
		monthlyLeisureBudget: DefaultLeisureBudget,
		accommodation:        DefaultAccommodation(),
		positions:            make(map[string]*Position),
		lifestyle:            NewLifestyle(s.stressCap),
	}
	p.foodType = FoodTypeForBudget(p.monthlyGroceryBudget)
	p.costMultiplier = CostOfLiving(s.simTime.Year(), s.simTime.Month())
	p.lifestyle.UpdateLivingComfort(p.accommodation.Quality, p.accommodation.Location, p.accommodation.LivingSpace)
	return p
}

func (p *Player) Username() string { return p.username }
func (p *Player) IsLeader() bool   { return p.isLeader }

func (p *Player) Session() *Session { return p.session }

func (p *Player) Balance() float64 {
	p.session.mu.Lock()
	defer p.session.mu.Unlock()
	return p.balance
}

func (p *Player) Occupation() Occupation {
	p.session.mu.Lock()
	defer p.session.mu.Unlock()
	return p.occupation
}

func (p *Player) FoodType() FoodType {
	p.session.mu.Lock()
	defer p.session.mu.Unlock()
	return p.foodType
}

func (p *Player) Accommodation() Accommodation {
	p.session.mu.Lock()
	defer p.session.mu.Unlock()
	return p.accommodation
}

func (p *Player) SetMonthlyGroceryBudget(amount float64) {
	p.session.mu.Lock()
	defer p.session.mu.Unlock()
	p.monthlyGroceryBudget = amount
	p.foodType = FoodTypeForBudget(amount)
}

func (p *Player) SetMonthlyLeisureBudget(amount float64) {
	p.session.mu.Lock()
	defer p.session.mu.Unlock()
	p.monthlyLeisureBudget = amount
}

// MoveAccommodation switches housing. The new rent and utilities apply from
// the next settlement; living comfort is refreshed immediately.
func (p *Player) MoveAccommodation(id string, quality HousingQuality, location LocationType, livingSpace float64) {
	p.session.mu.Lock()
	defer p.session.mu.Unlock()
	p.accommodation = Accommodation{
		ID:          id,
		Quality:     quality,
		Location:    location,
		LivingSpace: livingSpace,
	}
	p.lifestyle.UpdateLivingComfort(quality, location, livingSpace)
}

// Events returns the historical events dated on the current simulated day.
func (p *Player) Events() []events.Event {
	p.session.mu.Lock()
	defer p.session.mu.Unlock()
	out := make([]events.Event, len(p.todayEvents))
	copy(out, p.todayEvents)
	return out
}

// Monthly amounts. Rent, utilities and transport scale with the cost of
// living; the budgets are player-set nominal values.

func (p *Player) monthlySalaryLocked() float64 {
	return occupations[p.occupation].MonthlySalary
}

func (p *Player) monthlyRentLocked() float64 {
	return p.accommodation.MonthlyRent() * p.costMultiplier
}

func (p *Player) monthlyUtilitiesLocked() float64 {
	return p.accommodation.MonthlyUtilities() * p.costMultiplier
}

func (p *Player) monthlyTransportLocked() float64 {
	return BaseMonthlyTransport * p.costMultiplier
}

func (p *Player) monthlyExpensesLocked() float64 {
	return p.monthlyRentLocked() +
		p.monthlyUtilitiesLocked() +
		p.monthlyGroceryBudget +
		p.monthlyTransportLocked() +
		p.monthlyLeisureBudget +
		MonthlyLoanInstallment +
		MonthlyTax
}

func (p *Player) MonthlySalary() float64 {
	p.session.mu.Lock()
	defer p.session.mu.Unlock()
	return p.monthlySalaryLocked()
}

func (p *Player) MonthlyExpenses() float64 {
	p.session.mu.Lock()
	defer p.session.mu.Unlock()
	return p.monthlyExpensesLocked()
}

func (p *Player) MonthlyDividends() float64 {
	p.session.mu.Lock()
	defer p.session.mu.Unlock()
	return p.monthlyDividendsLocked(p.session.simTime)
}

func (p *Player) MonthlyIncome() float64 {
	p.session.mu.Lock()
	defer p.session.mu.Unlock()
	return p.monthlySalaryLocked() + p.monthlyDividendsLocked(p.session.simTime)
}

func (p *Player) MonthlyNetIncome() float64 {
	p.session.mu.Lock()
	defer p.session.mu.Unlock()
	return p.monthlySalaryLocked() + p.monthlyDividendsLocked(p.session.simTime) - p.monthlyExpensesLocked()
}

// Assets is the market value of all stock positions.
func (p *Player) Assets() float64 {
	p.session.mu.Lock()
	defer p.session.mu.Unlock()
	return p.assetsLocked()
}

// Equity is balance plus assets.
func (p *Player) Equity() float64 {
	p.session.mu.Lock()
	defer p.session.mu.Unlock()
	return p.balance + p.assetsLocked()
}

// Lifestyle levels, reported rounded to integers.

func roundLevel(v float64) int {
	return int(math.Round(v))
}

func (p *Player) HealthLevel() int {
	p.session.mu.Lock()
	defer p.session.mu.Unlock()
	return roundLevel(p.lifestyle.Health)
}

func (p *Player) HappinessLevel() int {
	p.session.mu.Lock()
	defer p.session.mu.Unlock()
	return roundLevel(p.lifestyle.Happiness)
}

func (p *Player) EnergyLevel() int {
	p.session.mu.Lock()
	defer p.session.mu.Unlock()
	return roundLevel(p.lifestyle.Energy)
}

func (p *Player) SocialLifeLevel() int {
	p.session.mu.Lock()
	defer p.session.mu.Unlock()
	return roundLevel(p.lifestyle.SocialLife)
}

func (p *Player) StressLevel() int {
	p.session.mu.Lock()
	defer p.session.mu.Unlock()
	return roundLevel(p.lifestyle.StressLevel)
}

func (p *Player) LivingComfortLevel() int {
	p.session.mu.Lock()
	defer p.session.mu.Unlock()
	return roundLevel(p.lifestyle.LivingComfort)
}

func (p *Player) CareerProgressLevel() int {
	p.session.mu.Lock()
	defer p.session.mu.Unlock()
	return roundLevel(p.lifestyle.CareerProgress)
}

func (p *Player) SkillsEducationLevel() int {
	p.session.mu.Lock()
	defer p.session.mu.Unlock()
	return roundLevel(p.lifestyle.SkillsEducation)
}

// tick advances the player by one simulated hour. Caller holds the session
// lock; now is the session's simulated time after the hour advance.
func (p *Player) tick(now time.Time) {
	p.todayEvents = p.session.eventsOn(now)
	p.costMultiplier = CostOfLiving(now.Year(), now.Month())

	if now.Hour() == 0 {
		if p.balance < 0 {
			// 40% APR overdraft, prorated daily.
			p.balance -= -p.balance * OverdraftAPR / 365
		}
		p.payDailyTransportation()
		p.payDailyLeisure()
		p.balance += p.dailyDividendsLocked(now)
		p.foodType = FoodTypeForBudget(p.monthlyGroceryBudget)
	}

	if now.Day() == 1 && now.Hour() == 0 {
		p.balance += p.monthlySalaryLocked()
		p.balance += p.monthlyDividendsLocked(now)
		p.balance -= p.monthlyRentLocked()
		p.balance -= p.monthlyUtilitiesLocked()
		p.balance -= MonthlyLoanInstallment
		p.balance -= MonthlyTax
	}

	switch now.Hour() {
	case 6, 12, 18:
		p.buyMeal()
	}

	switch now.Hour() {
	case 0, 6, 12, 18:
		p.updateLifestyle(now)
	}
}

// buyMeal debits one of the three daily meals.
func (p *Player) buyMeal() {
	p.balance -= p.monthlyGroceryBudget * 4 / 365
}

func (p *Player) payDailyTransportation() {
	p.balance -= p.monthlyTransportLocked() * 12 / 365
}

func (p *Player) payDailyLeisure() {
	p.balance -= p.monthlyLeisureBudget * 12 / 365
}

// updateLifestyle runs all eight model updates with inputs derived from a
// consistent view of the current tick.
func (p *Player) updateLifestyle(now time.Time) {
	leisureSpent := p.monthlyLeisureBudget / p.costMultiplier
	workHours := occupations[p.occupation].WorkHoursPerWeek
	eduHours := occupations[p.occupation].EducationHours
	employed := p.monthlySalaryLocked() > 0

	salaryBonus := false
	crash := false
	for _, ev := range p.todayEvents {
		switch ev.Category {
		case events.CategorySalaryBonus:
			salaryBonus = true
		case events.CategoryCrash:
			crash = true
		}
	}

	expenses := p.monthlyExpensesLocked()
	savings := math.Max(0, p.balance)
	debt := math.Max(0, -p.balance)
	exposure := p.assetsLocked()
	perf := 0.0
	basis := 0.0
	pnl := 0.0
	for symbol, pos := range p.positions {
		basis += pos.AvgEntryPrice * float64(pos.Shares)
		pnl += p.positionPnLLocked(symbol)
	}
	if basis > 0 {
		perf = pnl / basis
	}

	l := p.lifestyle
	l.UpdateHealth(p.foodType, leisureSpent, now.Month())
	l.UpdateHappiness(p.accommodation.Quality, p.accommodation.HasSauna(), salaryBonus, leisureSpent)
	l.UpdateEnergy(workHours, now.Month())
	l.UpdateSocialLife(leisureSpent, workHours)
	l.UpdateStress(savings, expenses, debt, crash, perf, exposure)
	l.UpdateLivingComfort(p.accommodation.Quality, p.accommodation.Location, p.accommodation.LivingSpace)
	l.UpdateCareerProgress(employed, leisureSpent)
	l.UpdateSkillsEducation(eduHours)
}
