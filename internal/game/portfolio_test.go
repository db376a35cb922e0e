package game

import (
	"errors"
	"testing"
	"time"

	"github.com/qualityslop/backend/internal/market"
)

func newTradingSession(t *testing.T) (*Session, *Player) {
	t.Helper()
	s := newTestSession(Config{Symbols: []string{"AAPL", "KO"}})
	s.AttachMarketData(market.History{
		"AAPL": market.NewSeries(map[time.Time]float64{
			testStart:                   100,
			testStart.AddDate(0, 0, 1):  200,
			testStart.AddDate(0, 0, 10): 150,
		}),
		"KO": market.NewSeries(map[time.Time]float64{
			testStart: 50,
		}),
	}, market.History{
		"KO": market.NewSeries(map[time.Time]float64{
			testStart.AddDate(0, 0, 5): 0.5,
		}),
	})
	p, err := s.AddPlayer("alice", true)
	if err != nil {
		t.Fatalf("add player: %v", err)
	}
	return s, p
}

func TestBuyStockDebitsBalance(t *testing.T) {
	_, p := newTradingSession(t)
	if err := p.BuyStock("AAPL", 10); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if got := p.Balance(); got != StarterBalance-1000 {
		t.Fatalf("balance: got %f want %f", got, StarterBalance-1000)
	}
	if got := p.PositionSize("AAPL"); got != 10 {
		t.Fatalf("size: got %d want 10", got)
	}
	if got := p.PositionEntryPrice("AAPL"); got != 100 {
		t.Fatalf("entry: got %f want 100", got)
	}
}

func TestBuyStockBlendsEntryPrice(t *testing.T) {
	s, p := newTradingSession(t)
	if err := p.BuyStock("AAPL", 10); err != nil {
		t.Fatalf("first buy: %v", err)
	}

	s.mu.Lock()
	s.simTime = testStart.AddDate(0, 0, 1)
	s.mu.Unlock()

	if err := p.BuyStock("AAPL", 10); err != nil {
		t.Fatalf("second buy: %v", err)
	}
	if got := p.PositionEntryPrice("AAPL"); got != 150 {
		t.Fatalf("blended entry: got %f want 150", got)
	}
	if got := p.PositionSize("AAPL"); got != 20 {
		t.Fatalf("size: got %d want 20", got)
	}
}

func TestBuyStockAllowsNegativeBalance(t *testing.T) {
	_, p := newTradingSession(t)
	if err := p.BuyStock("AAPL", 1000); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if got := p.Balance(); got != StarterBalance-100_000 {
		t.Fatalf("balance: got %f", got)
	}
}

func TestBuyStockRejectsBadInput(t *testing.T) {
	_, p := newTradingSession(t)
	if err := p.BuyStock("AAPL", 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("zero quantity: got %v", err)
	}
	if err := p.BuyStock("AAPL", -5); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("negative quantity: got %v", err)
	}
	var unknown *UnknownSymbolError
	if err := p.BuyStock("DOGE", 1); !errors.As(err, &unknown) {
		t.Fatalf("unknown symbol: got %v", err)
	}
}

func TestSellStockUnderflowChangesNothing(t *testing.T) {
	_, p := newTradingSession(t)
	if err := p.BuyStock("AAPL", 3); err != nil {
		t.Fatalf("buy: %v", err)
	}
	before := p.Balance()

	err := p.SellStock("AAPL", 5)
	var under *UnderflowError
	if !errors.As(err, &under) {
		t.Fatalf("expected UnderflowError, got %v", err)
	}
	if under.Requested != 5 || under.Held != 3 {
		t.Fatalf("underflow detail: %+v", under)
	}
	if got := p.PositionSize("AAPL"); got != 3 {
		t.Fatalf("position should be untouched, got %d", got)
	}
	if got := p.Balance(); got != before {
		t.Fatalf("balance should be untouched, got %f", got)
	}
}

func TestSellStockRemovesEmptyPosition(t *testing.T) {
	_, p := newTradingSession(t)
	if err := p.BuyStock("AAPL", 3); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if err := p.SellStock("AAPL", 3); err != nil {
		t.Fatalf("sell: %v", err)
	}
	if got := p.Balance(); got != StarterBalance {
		t.Fatalf("round trip at one price should restore balance, got %f", got)
	}
	if got := p.PositionSize("AAPL"); got != 0 {
		t.Fatalf("size: got %d want 0", got)
	}
	if got := p.PositionEntryPrice("AAPL"); got != 0 {
		t.Fatalf("empty position should have no entry price, got %f", got)
	}
}

func TestLiquidateStock(t *testing.T) {
	s, p := newTradingSession(t)
	if err := p.BuyStock("AAPL", 10); err != nil {
		t.Fatalf("buy: %v", err)
	}

	s.mu.Lock()
	s.simTime = testStart.AddDate(0, 0, 1)
	s.mu.Unlock()

	p.LiquidateStock("AAPL")
	if got := p.PositionSize("AAPL"); got != 0 {
		t.Fatalf("size: got %d want 0", got)
	}
	// Bought 10 at 100, sold 10 at 200.
	if got := p.Balance(); got != StarterBalance+1000 {
		t.Fatalf("balance: got %f want %f", got, StarterBalance+1000)
	}

	// Liquidating nothing is a no-op.
	p.LiquidateStock("AAPL")
	p.LiquidateStock("DOGE")
}

func TestPositionPnL(t *testing.T) {
	s, p := newTradingSession(t)
	if err := p.BuyStock("AAPL", 10); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if got := p.PositionPnL("AAPL"); got != 0 {
		t.Fatalf("flat pnl: got %f", got)
	}

	s.mu.Lock()
	s.simTime = testStart.AddDate(0, 0, 1)
	s.mu.Unlock()

	if got := p.PositionPnL("AAPL"); got != 1000 {
		t.Fatalf("pnl: got %f want 1000", got)
	}
	if got := p.Assets(); got != 2000 {
		t.Fatalf("assets: got %f want 2000", got)
	}
	if got := p.Equity(); got != StarterBalance-1000+2000 {
		t.Fatalf("equity: got %f", got)
	}
}

func TestPriceCarriesForwardBetweenObservations(t *testing.T) {
	s, p := newTradingSession(t)
	s.mu.Lock()
	s.simTime = testStart.AddDate(0, 0, 4) // no observation that day
	s.mu.Unlock()

	if err := p.BuyStock("AAPL", 1); err != nil {
		t.Fatalf("buy: %v", err)
	}
	// Last observation is day 1 at 200.
	if got := p.PositionEntryPrice("AAPL"); got != 200 {
		t.Fatalf("entry: got %f want 200", got)
	}
}

func TestDividends(t *testing.T) {
	s, p := newTradingSession(t)
	if err := p.BuyStock("KO", 100); err != nil {
		t.Fatalf("buy: %v", err)
	}

	payday := testStart.AddDate(0, 0, 5)
	s.mu.Lock()
	s.simTime = payday
	daily := p.dailyDividendsLocked(payday)
	monthly := p.monthlyDividendsLocked(payday)
	s.mu.Unlock()

	if daily != 50 {
		t.Fatalf("daily dividends: got %f want 50", daily)
	}
	if monthly != 50 {
		t.Fatalf("monthly dividends: got %f want 50", monthly)
	}

	// A day later the payout no longer counts as daily but stays in the
	// trailing monthly window.
	s.mu.Lock()
	s.simTime = payday.AddDate(0, 0, 1)
	daily = p.dailyDividendsLocked(s.simTime)
	monthly = p.monthlyDividendsLocked(s.simTime)
	s.mu.Unlock()

	if daily != 0 {
		t.Fatalf("daily dividends after payday: got %f want 0", daily)
	}
	if monthly != 50 {
		t.Fatalf("trailing dividends: got %f want 50", monthly)
	}
}
