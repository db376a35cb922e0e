package store

import (
	"errors"
	"testing"
	"time"

	"github.com/qualityslop/backend/internal/game"
)

func testFactory(id string) *game.Session {
	return game.NewSession(game.Config{ID: id})
}

// manualClock drives TTL expiry without sleeping.
type manualClock struct {
	at time.Time
}

func (c *manualClock) now() time.Time {
	return c.at
}

func (c *manualClock) advance(d time.Duration) {
	c.at = c.at.Add(d)
}

func newManualClock() *manualClock {
	return &manualClock{at: time.Date(2026, time.August, 30, 10, 0, 0, 0, time.UTC)}
}

func TestNewIDFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := NewID()
		if err != nil {
			t.Fatalf("new id: %v", err)
		}
		if len(id) != 6 {
			t.Fatalf("id %q should be 6 characters", id)
		}
		for _, r := range id {
			if !(r >= '0' && r <= '9' || r >= 'A' && r <= 'F') {
				t.Fatalf("id %q contains %q", id, r)
			}
		}
		seen[id] = true
	}
	if len(seen) < 90 {
		t.Fatalf("ids barely vary: %d unique of 100", len(seen))
	}
}

func TestCreateAndGet(t *testing.T) {
	clock := newManualClock()
	s := New(testFactory, time.Hour, 16, clock.now)

	created, err := s.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID() == "" {
		t.Fatalf("session should carry its id")
	}

	got, err := s.Get(created.ID())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != created {
		t.Fatalf("get returned a different session")
	}

	if _, err := s.Get("FFFFFF"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("unknown id: got %v", err)
	}
}

func TestGetSlidesTTL(t *testing.T) {
	clock := newManualClock()
	s := New(testFactory, time.Hour, 16, clock.now)

	created, err := s.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Touch the session every 40 minutes; it must outlive several TTLs.
	for i := 0; i < 4; i++ {
		clock.advance(40 * time.Minute)
		if _, err := s.Get(created.ID()); err != nil {
			t.Fatalf("touch %d: %v", i, err)
		}
	}

	clock.advance(61 * time.Minute)
	if _, err := s.Get(created.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expired session: got %v", err)
	}
	if created.Status() != game.StatusEnded {
		t.Fatalf("expired session should be stopped, got %s", created.Status())
	}
}

func TestCapacityEvictsOldest(t *testing.T) {
	clock := newManualClock()
	s := New(testFactory, time.Hour, 2, clock.now)

	first, err := s.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	clock.advance(time.Minute)
	if _, err := s.Create(); err != nil {
		t.Fatalf("create: %v", err)
	}
	clock.advance(time.Minute)
	if _, err := s.Create(); err != nil {
		t.Fatalf("create: %v", err)
	}

	if got := s.Len(); got != 2 {
		t.Fatalf("len: got %d want 2", got)
	}
	if _, err := s.Get(first.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("oldest session should be evicted, got %v", err)
	}
	if first.Status() != game.StatusEnded {
		t.Fatalf("evicted session should be stopped")
	}
}

func TestEvict(t *testing.T) {
	clock := newManualClock()
	s := New(testFactory, time.Hour, 16, clock.now)

	created, err := s.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	s.Evict(created.ID())
	if got := s.Len(); got != 0 {
		t.Fatalf("len: got %d want 0", got)
	}
	if created.Status() != game.StatusEnded {
		t.Fatalf("evicted session should be stopped")
	}

	// Evicting twice is fine.
	s.Evict(created.ID())
}
