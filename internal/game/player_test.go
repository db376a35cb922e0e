package game

import (
	"testing"
	"time"
)

func addPlayer(t *testing.T, s *Session, username string, leader bool) *Player {
	t.Helper()
	p, err := s.AddPlayer(username, leader)
	if err != nil {
		t.Fatalf("add player %s: %v", username, err)
	}
	return p
}

func TestNewPlayerDefaults(t *testing.T) {
	s := newTestSession(Config{})
	p := addPlayer(t, s, "alice", true)

	if got := p.Balance(); got != StarterBalance {
		t.Fatalf("balance: got %f", got)
	}
	if got := p.Occupation(); got != OccupationSoftwareEngineer {
		t.Fatalf("occupation: got %s", got)
	}
	if got := p.FoodType(); got != FoodBasic {
		t.Fatalf("food type: got %s", got)
	}
	if got := p.Accommodation().ID; got != "standard_city_center_50" {
		t.Fatalf("accommodation: got %s", got)
	}
	// standard (+15) + city center (+30) + 50 sqm
	if got := p.LivingComfortLevel(); got != 95 {
		t.Fatalf("living comfort: got %d want 95", got)
	}
}

func TestTickDailyCharges(t *testing.T) {
	start := time.Date(2008, time.June, 4, 23, 0, 0, 0, time.UTC)
	s := newTestSession(Config{Start: start})
	p := addPlayer(t, s, "alice", true)
	before := p.Balance()

	s.Tick() // midnight of June 5

	mult := CostOfLiving(2008, time.June)
	want := before -
		BaseMonthlyTransport*mult*12/365 -
		DefaultLeisureBudget*12/365
	if got := p.Balance(); !almostEqual(got, want) {
		t.Fatalf("balance: got %f want %f", got, want)
	}
}

func TestTickMealPurchases(t *testing.T) {
	start := time.Date(2008, time.June, 5, 5, 0, 0, 0, time.UTC)
	s := newTestSession(Config{Start: start})
	p := addPlayer(t, s, "alice", true)
	before := p.Balance()

	s.Tick() // 06:00, breakfast

	want := before - DefaultGroceryBudget*4/365
	if got := p.Balance(); !almostEqual(got, want) {
		t.Fatalf("balance: got %f want %f", got, want)
	}
	if p.lifestyle.CareerProgress <= 0 {
		t.Fatalf("meal hours should also run the lifestyle update")
	}

	s.Tick() // 07:00, nothing due
	if got := p.Balance(); !almostEqual(got, want) {
		t.Fatalf("off-hour tick should not charge, got %f", got)
	}
}

func TestTickMonthlySettlementAppliedOnce(t *testing.T) {
	start := time.Date(2008, time.January, 31, 23, 0, 0, 0, time.UTC)
	s := newTestSession(Config{Start: start})
	p := addPlayer(t, s, "alice", true)
	before := p.Balance()

	s.Tick() // midnight of February 1

	mult := CostOfLiving(2008, time.February)
	rent := DefaultAccommodation().MonthlyRent() * mult
	utilities := DefaultAccommodation().MonthlyUtilities() * mult
	want := before +
		MonthlySalary(OccupationSoftwareEngineer) -
		rent - utilities -
		MonthlyLoanInstallment - MonthlyTax -
		BaseMonthlyTransport*mult*12/365 -
		DefaultLeisureBudget*12/365
	if got := p.Balance(); !almostEqual(got, want) {
		t.Fatalf("settlement: got %f want %f", got, want)
	}

	s.Tick() // 01:00, settlement must not repeat
	if got := p.Balance(); !almostEqual(got, want) {
		t.Fatalf("settlement repeated: got %f want %f", got, want)
	}
}

func TestTickOverdraftInterest(t *testing.T) {
	start := time.Date(2008, time.June, 4, 23, 0, 0, 0, time.UTC)
	s := newTestSession(Config{Start: start})
	p := addPlayer(t, s, "alice", true)

	s.mu.Lock()
	p.balance = -1000
	s.mu.Unlock()

	s.Tick()

	mult := CostOfLiving(2008, time.June)
	want := -1000.0 -
		1000*OverdraftAPR/365 -
		BaseMonthlyTransport*mult*12/365 -
		DefaultLeisureBudget*12/365
	if got := p.Balance(); !almostEqual(got, want) {
		t.Fatalf("overdraft: got %f want %f", got, want)
	}
}

func TestSetMonthlyGroceryBudgetAdjustsFoodType(t *testing.T) {
	s := newTestSession(Config{})
	p := addPlayer(t, s, "alice", true)

	p.SetMonthlyGroceryBudget(100)
	if got := p.FoodType(); got != FoodJunk {
		t.Fatalf("low budget: got %s want %s", got, FoodJunk)
	}
	p.SetMonthlyGroceryBudget(500)
	if got := p.FoodType(); got != FoodHealthy {
		t.Fatalf("high budget: got %s want %s", got, FoodHealthy)
	}
}

func TestMoveAccommodationRefreshesComfort(t *testing.T) {
	s := newTestSession(Config{})
	p := addPlayer(t, s, "alice", true)

	p.MoveAccommodation("budget_suburbs_30", HousingBudget, LocationSuburbs, 30)
	if got := p.Accommodation().ID; got != "budget_suburbs_30" {
		t.Fatalf("accommodation: got %s", got)
	}
	// budget (+5) + suburbs (-5) + 30 sqm
	if got := p.LivingComfortLevel(); got != 30 {
		t.Fatalf("comfort: got %d want 30", got)
	}
}

func TestMonthlyExpensesScaleWithCostOfLiving(t *testing.T) {
	s := newTestSession(Config{Start: time.Date(2010, time.June, 1, 12, 0, 0, 0, time.UTC)})
	p := addPlayer(t, s, "alice", true)

	mult := CostOfLiving(2010, time.June)
	want := (DefaultAccommodation().MonthlyRent()+
		DefaultAccommodation().MonthlyUtilities()+
		BaseMonthlyTransport)*mult +
		DefaultGroceryBudget + DefaultLeisureBudget +
		MonthlyLoanInstallment + MonthlyTax
	if got := p.MonthlyExpenses(); !almostEqual(got, want) {
		t.Fatalf("expenses: got %f want %f", got, want)
	}
}

func TestSnapshot(t *testing.T) {
	s := newTestSession(Config{Symbols: []string{"AAPL", "KO"}})
	p := addPlayer(t, s, "alice", true)
	addPlayer(t, s, "bob", false)

	view := p.Snapshot()
	if view.SessionID != s.ID() || view.Username != "alice" || !view.IsLeader {
		t.Fatalf("identity fields wrong: %+v", view)
	}
	if view.SessionStatus != StatusWaiting {
		t.Fatalf("status: got %s", view.SessionStatus)
	}
	if view.Balance != StarterBalance {
		t.Fatalf("balance: got %f", view.Balance)
	}
	if len(view.Stocks) != 2 {
		t.Fatalf("stocks: got %d entries", len(view.Stocks))
	}
	if len(view.Players) != 2 || view.Players[0].Username != "alice" || view.Players[1].Username != "bob" {
		t.Fatalf("players: %+v", view.Players)
	}
	if view.MonthlyLoanExpense != MonthlyLoanInstallment || view.MonthlyTaxExpense != MonthlyTax {
		t.Fatalf("fixed expenses: %+v", view)
	}
}
