package events

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	all := c.All()
	if len(all) == 0 {
		t.Fatalf("dataset should not be empty")
	}

	valid := map[string]bool{
		CategoryCrash:       true,
		CategoryRally:       true,
		CategoryPolicy:      true,
		CategorySalaryBonus: true,
	}
	for i, ev := range all {
		if !valid[ev.Category] {
			t.Fatalf("event %d has unknown category %q", ev.ID, ev.Category)
		}
		if ev.Title == "" || ev.Description == "" {
			t.Fatalf("event %d is missing text", ev.ID)
		}
		if i > 0 && ev.Date.Before(all[i-1].Date) {
			t.Fatalf("All should be date ordered, %d before %d", ev.ID, all[i-1].ID)
		}
	}
}

func TestByID(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ev, ok := c.ByID(15)
	if !ok {
		t.Fatalf("event 15 should exist")
	}
	if !ev.Date.Equal(time.Date(2008, time.September, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("event 15 date: got %v", ev.Date)
	}
	if ev.Category != CategoryCrash {
		t.Fatalf("event 15 category: got %s", ev.Category)
	}
	if _, ok := c.ByID(99999); ok {
		t.Fatalf("unknown id should miss")
	}
}

func TestOn(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	// Hour and minute must not matter for the lookup.
	events := c.On(time.Date(2008, time.September, 15, 18, 30, 0, 0, time.UTC))
	if len(events) != 1 {
		t.Fatalf("got %d events on 2008-09-15", len(events))
	}
	if events[0].ID != 15 {
		t.Fatalf("got event %d", events[0].ID)
	}

	if got := c.On(time.Date(2008, time.September, 17, 0, 0, 0, 0, time.UTC)); len(got) != 0 {
		t.Fatalf("expected a quiet day, got %d events", len(got))
	}
}
