package market

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSeriesAtCarriesForward(t *testing.T) {
	s := NewSeries(map[time.Time]float64{
		day(2008, time.January, 2): 100,
		day(2008, time.January, 7): 110,
	})

	tests := []struct {
		day  time.Time
		want float64
	}{
		{day(2008, time.January, 2), 100},
		{day(2008, time.January, 4), 100}, // weekend gap
		{day(2008, time.January, 7), 110},
		{day(2008, time.March, 1), 110}, // past the last observation
		{day(2007, time.June, 1), 100},  // before the first observation
	}
	for _, tc := range tests {
		got, ok := s.At(tc.day)
		if !ok {
			t.Fatalf("%s: expected a value", tc.day.Format(DateFormat))
		}
		if got != tc.want {
			t.Fatalf("%s: got %f want %f", tc.day.Format(DateFormat), got, tc.want)
		}
	}
}

func TestSeriesAtIgnoresTimeOfDay(t *testing.T) {
	s := NewSeries(map[time.Time]float64{
		time.Date(2008, time.January, 2, 14, 30, 0, 0, time.UTC): 100,
	})
	got, ok := s.At(time.Date(2008, time.January, 2, 23, 59, 0, 0, time.UTC))
	if !ok || got != 100 {
		t.Fatalf("got %f ok=%v", got, ok)
	}
}

func TestEmptySeries(t *testing.T) {
	var s Series
	if _, ok := s.At(day(2008, time.January, 2)); ok {
		t.Fatalf("empty series should have no values")
	}
	if _, ok := s.On(day(2008, time.January, 2)); ok {
		t.Fatalf("empty series should have no values")
	}
	if s.Len() != 0 {
		t.Fatalf("len: got %d", s.Len())
	}
}

func TestSeriesOnExactDateOnly(t *testing.T) {
	s := NewSeries(map[time.Time]float64{
		day(2008, time.February, 8): 0.4,
	})
	if got, ok := s.On(day(2008, time.February, 8)); !ok || got != 0.4 {
		t.Fatalf("payout day: got %f ok=%v", got, ok)
	}
	if _, ok := s.On(day(2008, time.February, 9)); ok {
		t.Fatalf("day after a payout should have no value")
	}
}

func TestSeriesMap(t *testing.T) {
	s := NewSeries(map[time.Time]float64{
		day(2008, time.January, 2): 100,
		day(2008, time.January, 3): 101,
	})
	m := s.Map()
	if len(m) != 2 {
		t.Fatalf("map size: got %d", len(m))
	}
	if m["2008-01-02"] != 100 || m["2008-01-03"] != 101 {
		t.Fatalf("map content: %+v", m)
	}
}

func TestHistoryLookups(t *testing.T) {
	h := History{
		"AAPL": NewSeries(map[time.Time]float64{day(2008, time.January, 2): 100}),
		"KO":   NewSeries(map[time.Time]float64{day(2008, time.January, 2): 50}),
	}
	if got, ok := h.At("AAPL", day(2008, time.January, 5)); !ok || got != 100 {
		t.Fatalf("AAPL: got %f ok=%v", got, ok)
	}
	if _, ok := h.At("DOGE", day(2008, time.January, 5)); ok {
		t.Fatalf("unknown symbol should miss")
	}
	symbols := h.Symbols()
	if len(symbols) != 2 || symbols[0] != "AAPL" || symbols[1] != "KO" {
		t.Fatalf("symbols: %v", symbols)
	}
}
