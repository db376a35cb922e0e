// Package game implements the session and player simulation engine: a
// shared simulated clock advanced in whole-hour ticks, per-player economic
// state, stock positions against historical price series, and a lifestyle
// scoring model.
package game

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/qualityslop/backend/internal/events"
	"github.com/qualityslop/backend/internal/market"
)

// Status is the scheduler lifecycle state of a session.
type Status string

const (
	StatusWaiting Status = "waiting"
	StatusRunning Status = "running"
	StatusEnded   Status = "ended"
)

// MarketFetcher provides historical price and dividend series. The fetch
// runs once, off the tick path, when the scheduler starts.
type MarketFetcher interface {
	FetchSeries(ctx context.Context, symbols []string, start, end time.Time) (prices, dividends market.History, err error)
}

// Config describes a new session. Zero fields get defaults.
type Config struct {
	ID        string
	Start     time.Time     // simulated start, default 2008-01-01T12:00 UTC
	End       time.Time     // simulated end bound, default one year after Start
	Interval  time.Duration // real time per scheduler interval, default 1s
	Symbols   []string
	StressCap float64
	Clock     Clock
	Fetcher   MarketFetcher
	Events    *events.Catalog
	Logger    *slog.Logger
}

// DefaultSymbols are the stocks tracked when a session does not choose its
// own set.
var DefaultSymbols = []string{"AAPL", "MSFT", "KO", "XOM", "JPM"}

// Session owns the simulated clock, the players, and the time-progression
// scheduler. One background task per running session advances ticks; it is
// the only writer of simulated time.
type Session struct {
	id       string
	log      *slog.Logger
	clock    Clock
	interval time.Duration
	fetcher  MarketFetcher
	catalog  *events.Catalog
	symbols  []string

	stressCap float64

	mu           sync.Mutex
	simTime      time.Time
	endTime      time.Time
	multiplier   int
	status       Status
	players      map[string]*Player
	prices       market.History
	dividends    market.History
	marketLoaded bool
	cancel       context.CancelFunc
}

func NewSession(cfg Config) *Session {
	if cfg.Start.IsZero() {
		cfg.Start = time.Date(2008, time.January, 1, 12, 0, 0, 0, time.UTC)
	}
	if cfg.End.IsZero() {
		cfg.End = cfg.Start.AddDate(1, 0, 0)
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if len(cfg.Symbols) == 0 {
		cfg.Symbols = DefaultSymbols
	}
	if cfg.StressCap <= 0 {
		cfg.StressCap = DefaultStressCap
	}
	if cfg.Clock == nil {
		cfg.Clock = RealClock()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Session{
		id:         cfg.ID,
		log:        cfg.Logger,
		clock:      cfg.Clock,
		interval:   cfg.Interval,
		fetcher:    cfg.Fetcher,
		catalog:    cfg.Events,
		symbols:    cfg.Symbols,
		stressCap:  cfg.StressCap,
		simTime:    cfg.Start.UTC(),
		endTime:    cfg.End.UTC(),
		multiplier: 1,
		status:     StatusWaiting,
		players:    make(map[string]*Player),
		prices:     market.History{},
		dividends:  market.History{},
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Time is the current simulated time.
func (s *Session) Time() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.simTime
}

func (s *Session) TimeProgressionMultiplier() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.multiplier
}

// SetTimeProgressionMultiplier sets the number of hours advanced per real
// scheduler interval. Zero pauses the simulation; negatives clamp to zero.
func (s *Session) SetTimeProgressionMultiplier(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 0 {
		n = 0
	}
	s.multiplier = n
}

// AddPlayer registers a new player. Duplicate usernames fail atomically
// with PlayerAlreadyExistsError; the existing player is untouched.
func (s *Session) AddPlayer(username string, isLeader bool) (*Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.players[username]; exists {
		return nil, &PlayerAlreadyExistsError{SessionID: s.id, Username: username}
	}
	p := newPlayer(s, username, isLeader)
	s.players[username] = p
	return p, nil
}

func (s *Session) GetPlayer(username string) (*Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[username]
	if !ok {
		return nil, &PlayerNotFoundError{SessionID: s.id, Username: username}
	}
	return p, nil
}

// Players returns the session's players ordered by username.
func (s *Session) Players() []*Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Player, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].username < out[j].username
	})
	return out
}

func (s *Session) Symbols() []string {
	out := make([]string, len(s.symbols))
	copy(out, s.symbols)
	return out
}

// StockPrice is the price of a symbol at the current simulated date, with
// the last earlier observation carried forward.
func (s *Session) StockPrice(symbol string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	price, _ := s.prices.At(symbol, s.simTime)
	return price
}

// StockPrices returns the full price history keyed by symbol then date.
func (s *Session) StockPrices() map[string]map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return historyMap(s.prices)
}

// Dividends returns the full dividend history keyed by symbol then date.
func (s *Session) Dividends() map[string]map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return historyMap(s.dividends)
}

func historyMap(h market.History) map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(h))
	for symbol, series := range h {
		out[symbol] = series.Map()
	}
	return out
}

// AttachMarketData installs the price and dividend series. Series are
// immutable once attached; a second attach is ignored.
func (s *Session) AttachMarketData(prices, dividends market.History) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.marketLoaded {
		return
	}
	if prices == nil {
		prices = market.History{}
	}
	if dividends == nil {
		dividends = market.History{}
	}
	s.prices = prices
	s.dividends = dividends
	s.marketLoaded = true
}

func (s *Session) eventsOn(day time.Time) []events.Event {
	if s.catalog == nil {
		return nil
	}
	return s.catalog.On(day)
}

// Start launches the scheduler task: once per real interval, advance
// multiplier hours of simulated time. Idempotent; a second Start is a
// no-op, as is starting an ended session.
func (s *Session) Start() {
	s.mu.Lock()
	if s.status != StatusWaiting {
		s.mu.Unlock()
		return
	}
	s.status = StatusRunning
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.mu.Unlock()

	s.log.Info("session started", "session_id", s.id, "sim_time", s.Time())
	go s.run(ctx)
}

// Pause keeps the scheduler task alive but advances zero ticks per
// interval. Distinct from Stop: the session can resume.
func (s *Session) Pause() {
	s.SetTimeProgressionMultiplier(0)
}

// Stop cancels the scheduler task and freezes the session. Idempotent;
// ticks after Stop are no-ops.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.endLocked()
}

func (s *Session) endLocked() {
	if s.status == StatusEnded {
		return
	}
	s.status = StatusEnded
	if s.cancel != nil {
		s.cancel()
	}
	s.log.Info("session ended", "session_id", s.id, "sim_time", s.simTime)
}

func (s *Session) run(ctx context.Context) {
	s.loadMarketData(ctx)

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			n := s.TimeProgressionMultiplier()
			for i := 0; i < n; i++ {
				s.Tick()
				if s.Status() == StatusEnded {
					return
				}
			}
		}
	}
}

// loadMarketData performs the one-time historical fetch before the first
// tick. A failed fetch leaves the session playable with empty series.
func (s *Session) loadMarketData(ctx context.Context) {
	if s.fetcher == nil {
		return
	}
	s.mu.Lock()
	loaded := s.marketLoaded
	start, end := s.simTime, s.endTime
	s.mu.Unlock()
	if loaded {
		return
	}

	fetchCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	prices, dividends, err := s.fetcher.FetchSeries(fetchCtx, s.symbols, start, end)
	if err != nil {
		s.log.Error("market data fetch failed", "session_id", s.id, "err", err)
		return
	}
	s.AttachMarketData(prices, dividends)
	s.log.Info("market data loaded", "session_id", s.id, "symbols", len(prices))
}

// Tick advances simulated time by exactly one hour and runs every player's
// hourly update. No-op once the session has ended.
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusEnded {
		return
	}
	if !s.simTime.Before(s.endTime) {
		s.endLocked()
		return
	}
	s.simTime = s.simTime.Add(time.Hour)
	for _, p := range s.players {
		s.tickPlayer(p)
	}
	if !s.simTime.Before(s.endTime) {
		s.endLocked()
	}
}

// tickPlayer isolates one player's hourly update: a panic is logged and
// skipped so a malformed player cannot stall the whole session.
func (s *Session) tickPlayer(p *Player) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("player tick failed",
				"session_id", s.id,
				"username", p.username,
				"panic", r,
			)
		}
	}()
	p.tick(s.simTime)
}
