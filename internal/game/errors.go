package game

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidQuantity   = errors.New("quantity must be > 0")
	ErrSessionEnded      = errors.New("session has ended")
	ErrUnknownOccupation = errors.New("unknown occupation")
)

// PlayerNotFoundError is returned when a username lookup misses.
type PlayerNotFoundError struct {
	SessionID string
	Username  string
}

func (e *PlayerNotFoundError) Error() string {
	return fmt.Sprintf("player %q not found in session %s", e.Username, e.SessionID)
}

// PlayerAlreadyExistsError is returned when a join reuses a taken username.
type PlayerAlreadyExistsError struct {
	SessionID string
	Username  string
}

func (e *PlayerAlreadyExistsError) Error() string {
	return fmt.Sprintf("player %q already exists in session %s", e.Username, e.SessionID)
}

// UnknownSymbolError is returned for trades in a symbol the session does
// not track.
type UnknownSymbolError struct {
	Symbol string
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("no price data for symbol %q", e.Symbol)
}

// UnderflowError is returned when a sell exceeds the held position.
type UnderflowError struct {
	Symbol    string
	Requested int
	Held      int
}

func (e *UnderflowError) Error() string {
	return fmt.Sprintf("cannot sell %d shares of %s: only %d held", e.Requested, e.Symbol, e.Held)
}
