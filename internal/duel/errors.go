package duel

import "errors"

// Caller errors: rejected synchronously, never a partial state mutation.
var (
	ErrUnknownStyle       = errors.New("unknown style")
	ErrStyleAlreadyLocked = errors.New("style already locked")
	ErrWrongPhase         = errors.New("action not valid in current phase")
	ErrAlreadySubmitted   = errors.New("already submitted")
	ErrSwingCapReached    = errors.New("swing cap reached")
	ErrNoSwingsTaken      = errors.New("no swings taken")
	ErrRoundResolved      = errors.New("round already resolved")
	ErrNotParticipant     = errors.New("not a participant of this match")
	ErrNoSuchRound        = errors.New("no such round")
	ErrRoundInProgress    = errors.New("current round not resolved yet")
)
