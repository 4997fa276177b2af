package model

import "errors"

// Kind classifies a domain error for callers
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindForbidden         Kind = "forbidden"
	KindInvalidState      Kind = "invalid_state"
	KindUnknownAction     Kind = "unknown_action"
	KindInsufficientFunds Kind = "insufficient_funds"
	KindConflict          Kind = "conflict"
)

// Error is a domain error with a stable kind
type Error struct {
	Kind    Kind
	Message string
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf returns the kind of a domain error, or "" for anything else
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = newError(KindNotFound, "player not found")

	// Challenge errors
	ErrSelfChallenge      = newError(KindInvalidState, "cannot challenge yourself")
	ErrDuplicateChallenge = newError(KindConflict, "a live duel already exists between these players")
	ErrNotChallenged      = newError(KindForbidden, "only the challenged player can answer a challenge")
	ErrChallengeResolved  = newError(KindConflict, "challenge has already been resolved")
	ErrChallengeExpired   = newError(KindConflict, "challenge has expired")

	// Duel errors
	ErrDuelNotFound      = newError(KindNotFound, "duel not found")
	ErrDuelNotActive     = newError(KindInvalidState, "duel is not active")
	ErrNotParticipant    = newError(KindForbidden, "player is not part of this duel")
	ErrNotYourTurn       = newError(KindForbidden, "not this player's turn")
	ErrUnknownAction     = newError(KindUnknownAction, "unknown action")
	ErrInsufficientFunds = newError(KindInsufficientFunds, "not enough money in the wallet")
	ErrActionExhausted   = newError(KindInvalidState, "action has no uses left in this duel")

	// Storage errors
	ErrConcurrentUpdate = newError(KindConflict, "duel was modified concurrently, try again")
)
