package game

import "time"

// Position tracks a held stock: share count and the volume-weighted average
// entry price. Invariant: Shares == 0 implies AvgEntryPrice == 0 (such
// positions are removed from the map entirely).
type Position struct {
	Shares        int
	AvgEntryPrice float64
}

// BuyStock debits the current price times quantity and blends the average
// entry price. There is no funds check; the balance may go negative, which
// triggers daily overdraft interest.
func (p *Player) BuyStock(symbol string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	s := p.session
	s.mu.Lock()
	defer s.mu.Unlock()

	price, ok := s.prices.At(symbol, s.simTime)
	if !ok {
		return &UnknownSymbolError{Symbol: symbol}
	}

	p.balance -= price * float64(quantity)
	pos := p.positions[symbol]
	if pos == nil {
		p.positions[symbol] = &Position{Shares: quantity, AvgEntryPrice: price}
		return nil
	}
	total := pos.AvgEntryPrice*float64(pos.Shares) + price*float64(quantity)
	pos.Shares += quantity
	pos.AvgEntryPrice = total / float64(pos.Shares)
	return nil
}

// SellStock credits the current price times quantity. Selling more than the
// held position fails with UnderflowError and changes nothing.
func (p *Player) SellStock(symbol string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	s := p.session
	s.mu.Lock()
	defer s.mu.Unlock()
	return p.sellLocked(symbol, quantity)
}

// LiquidateStock sells the entire position at the current price in one
// step. Also clears a stale average entry price when no shares are held.
func (p *Player) LiquidateStock(symbol string) {
	s := p.session
	s.mu.Lock()
	defer s.mu.Unlock()

	pos := p.positions[symbol]
	if pos == nil {
		return
	}
	if pos.Shares > 0 {
		_ = p.sellLocked(symbol, pos.Shares)
		return
	}
	delete(p.positions, symbol)
}

func (p *Player) sellLocked(symbol string, quantity int) error {
	pos := p.positions[symbol]
	held := 0
	if pos != nil {
		held = pos.Shares
	}
	if quantity > held {
		return &UnderflowError{Symbol: symbol, Requested: quantity, Held: held}
	}

	price, ok := p.session.prices.At(symbol, p.session.simTime)
	if !ok {
		return &UnknownSymbolError{Symbol: symbol}
	}
	p.balance += price * float64(quantity)
	pos.Shares -= quantity
	if pos.Shares == 0 {
		delete(p.positions, symbol)
	}
	return nil
}

// PositionSize returns the held share count for a symbol.
func (p *Player) PositionSize(symbol string) int {
	p.session.mu.Lock()
	defer p.session.mu.Unlock()
	if pos := p.positions[symbol]; pos != nil {
		return pos.Shares
	}
	return 0
}

// PositionEntryPrice returns the volume-weighted average entry price.
func (p *Player) PositionEntryPrice(symbol string) float64 {
	p.session.mu.Lock()
	defer p.session.mu.Unlock()
	if pos := p.positions[symbol]; pos != nil {
		return pos.AvgEntryPrice
	}
	return 0
}

// PositionPnL returns the unrealized profit or loss for a symbol at the
// current simulated date.
func (p *Player) PositionPnL(symbol string) float64 {
	p.session.mu.Lock()
	defer p.session.mu.Unlock()
	return p.positionPnLLocked(symbol)
}

func (p *Player) positionPnLLocked(symbol string) float64 {
	pos := p.positions[symbol]
	if pos == nil {
		return 0
	}
	price, _ := p.session.prices.At(symbol, p.session.simTime)
	return (price - pos.AvgEntryPrice) * float64(pos.Shares)
}

// assetsLocked is the market value of all held positions.
func (p *Player) assetsLocked() float64 {
	total := 0.0
	for symbol, pos := range p.positions {
		price, _ := p.session.prices.At(symbol, p.session.simTime)
		total += price * float64(pos.Shares)
	}
	return total
}

// monthlyDividendsLocked sums per-share dividends paid over the trailing 30
// calendar days (inclusive) for every held symbol. Recomputed fresh on each
// call; dividends are looked up on exact payout dates.
func (p *Player) monthlyDividendsLocked(now time.Time) float64 {
	total := 0.0
	for symbol, pos := range p.positions {
		for i := 0; i < 30; i++ {
			day := now.AddDate(0, 0, -i)
			if amount, ok := p.session.dividends.On(symbol, day); ok {
				total += amount * float64(pos.Shares)
			}
		}
	}
	return total
}

// dailyDividendsLocked is the dividend paid on the current simulated date.
func (p *Player) dailyDividendsLocked(now time.Time) float64 {
	total := 0.0
	for symbol, pos := range p.positions {
		if amount, ok := p.session.dividends.On(symbol, now); ok {
			total += amount * float64(pos.Shares)
		}
	}
	return total
}
