// Package store is the in-process session registry: create-or-fetch by id
// with sliding TTL expiry and a capacity bound.
package store

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/qualityslop/backend/internal/game"
)

var ErrSessionNotFound = errors.New("session not found")

const (
	DefaultTTL      = time.Hour
	DefaultCapacity = 1024
)

// Factory builds a new session for a freshly allocated id.
type Factory func(id string) *game.Session

// Store holds live sessions. Expired sessions are stopped and evicted on
// access; when the store is full, the least recently touched session is
// evicted to make room.
type Store struct {
	factory  Factory
	ttl      time.Duration
	capacity int
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

type entry struct {
	session *game.Session
	touched time.Time
}

func New(factory Factory, ttl time.Duration, capacity int, now func() time.Time) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if now == nil {
		now = time.Now
	}
	return &Store{
		factory:  factory,
		ttl:      ttl,
		capacity: capacity,
		now:      now,
		sessions: make(map[string]*entry),
	}
}

// Create allocates a new session under a fresh id.
func (s *Store) Create() (*game.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()

	var id string
	for {
		var err error
		id, err = NewID()
		if err != nil {
			return nil, err
		}
		if _, taken := s.sessions[id]; !taken {
			break
		}
	}

	if len(s.sessions) >= s.capacity {
		s.evictOldestLocked()
	}

	session := s.factory(id)
	s.sessions[id] = &entry{session: session, touched: s.now()}
	return session, nil
}

// Get fetches a live session and slides its TTL.
func (s *Store) Get(id string) (*game.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()

	e, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.touched = s.now()
	return e.session, nil
}

// Evict removes a session and stops its scheduler.
func (s *Store) Evict(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.sessions[id]; ok {
		e.session.Stop()
		delete(s.sessions, id)
	}
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) pruneLocked() {
	cutoff := s.now().Add(-s.ttl)
	for id, e := range s.sessions {
		if e.touched.Before(cutoff) {
			e.session.Stop()
			delete(s.sessions, id)
		}
	}
}

func (s *Store) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, e := range s.sessions {
		if oldestID == "" || e.touched.Before(oldest) {
			oldestID = id
			oldest = e.touched
		}
	}
	if oldestID != "" {
		s.sessions[oldestID].session.Stop()
		delete(s.sessions, oldestID)
	}
}

// NewID returns a short join code: three random bytes, hex, uppercased.
func NewID() (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}
