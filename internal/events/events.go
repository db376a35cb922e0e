// Package events serves the bundled historical financial events dataset.
package events

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"time"
)

//go:embed financial_events_2005_2010.csv
var eventsCSV []byte

const (
	CategoryCrash       = "crash"
	CategoryRally       = "rally"
	CategoryPolicy      = "policy"
	CategorySalaryBonus = "salary_bonus"
)

// Event is one row of the historical dataset.
type Event struct {
	ID          int       `json:"id"`
	Date        time.Time `json:"date"`
	Category    string    `json:"category"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}

// Catalog is an in-memory index over the dataset.
type Catalog struct {
	byID   map[int]Event
	byDate map[string][]Event
}

// Load parses the embedded dataset. The dataset is small and static, so a
// parse failure is a build defect, not a runtime condition.
func Load() (*Catalog, error) {
	reader := csv.NewReader(bytes.NewReader(eventsCSV))
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse events csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("events csv is empty")
	}

	c := &Catalog{
		byID:   make(map[int]Event),
		byDate: make(map[string][]Event),
	}
	for _, row := range rows[1:] { // skip header
		if len(row) != 5 {
			return nil, fmt.Errorf("events csv: expected 5 columns, got %d", len(row))
		}
		id, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("events csv id %q: %w", row[0], err)
		}
		date, err := time.Parse("2006-01-02", row[1])
		if err != nil {
			return nil, fmt.Errorf("events csv date %q: %w", row[1], err)
		}
		ev := Event{
			ID:          id,
			Date:        date,
			Category:    row[2],
			Title:       row[3],
			Description: row[4],
		}
		if _, exists := c.byID[id]; exists {
			return nil, fmt.Errorf("events csv: duplicate id %d", id)
		}
		c.byID[id] = ev
		key := date.Format("2006-01-02")
		c.byDate[key] = append(c.byDate[key], ev)
	}
	return c, nil
}

// ByID returns the event with the given id, if present.
func (c *Catalog) ByID(id int) (Event, bool) {
	ev, ok := c.byID[id]
	return ev, ok
}

// On returns the events dated on the given simulated day.
func (c *Catalog) On(day time.Time) []Event {
	return c.byDate[day.UTC().Format("2006-01-02")]
}

// All returns every event ordered by date then id.
func (c *Catalog) All() []Event {
	out := make([]Event, 0, len(c.byID))
	for _, ev := range c.byID {
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
