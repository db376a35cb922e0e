// Package market provides historical stock price and dividend series for
// game sessions. Series are fetched once per session, before the scheduler
// starts, and are immutable afterwards.
package market

import (
	"sort"
	"time"
)

// DateFormat is the key format used when series are serialized for clients.
const DateFormat = "2006-01-02"

type point struct {
	day   time.Time
	value float64
}

// Series is a sparse, date-keyed sequence of daily values. The zero value
// is an empty series.
type Series struct {
	points []point
}

// NewSeries builds a series from a date-keyed map. Keys are truncated to
// whole days in UTC.
func NewSeries(values map[time.Time]float64) Series {
	points := make([]point, 0, len(values))
	for day, v := range values {
		points = append(points, point{day: truncateDay(day), value: v})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].day.Before(points[j].day)
	})
	return Series{points: points}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s Series) Len() int {
	return len(s.points)
}

// At returns the value for the given day, carrying the last earlier
// observation forward when the exact day is missing. If no earlier
// observation exists the earliest value is returned.
func (s Series) At(day time.Time) (float64, bool) {
	if len(s.points) == 0 {
		return 0, false
	}
	day = truncateDay(day)
	// First index strictly after the requested day.
	i := sort.Search(len(s.points), func(i int) bool {
		return s.points[i].day.After(day)
	})
	if i == 0 {
		return s.points[0].value, true
	}
	return s.points[i-1].value, true
}

// On returns the value recorded for exactly the given day, or zero. Used
// for dividend payouts, which happen on discrete dates.
func (s Series) On(day time.Time) (float64, bool) {
	day = truncateDay(day)
	i := sort.Search(len(s.points), func(i int) bool {
		return !s.points[i].day.Before(day)
	})
	if i < len(s.points) && s.points[i].day.Equal(day) {
		return s.points[i].value, true
	}
	return 0, false
}

// Map returns the series as a date-string-keyed map for API responses.
func (s Series) Map() map[string]float64 {
	out := make(map[string]float64, len(s.points))
	for _, p := range s.points {
		out[p.day.Format(DateFormat)] = p.value
	}
	return out
}

// History holds one series per symbol.
type History map[string]Series

// At looks up a symbol's value on a day with LOCF semantics.
func (h History) At(symbol string, day time.Time) (float64, bool) {
	s, ok := h[symbol]
	if !ok {
		return 0, false
	}
	return s.At(day)
}

// On looks up a symbol's value recorded exactly on a day.
func (h History) On(symbol string, day time.Time) (float64, bool) {
	s, ok := h[symbol]
	if !ok {
		return 0, false
	}
	return s.On(day)
}

func (h History) Symbols() []string {
	out := make([]string, 0, len(h))
	for sym := range h {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}
