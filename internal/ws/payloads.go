package ws

import "duel_arena/internal/duel"

// RoundResolvedPayload is the fan-out event delivered once per participant.
// The embedded outcome is the very value the scorer produced; nothing here
// is re-derived.
type RoundResolvedPayload struct {
	MatchID string `json:"match_id"`
	RoundNo int    `json:"round_no"`
	duel.Outcome
}

// JoinedPayload acknowledges a successful subscription.
type JoinedPayload struct {
	MatchID string `json:"match_id"`
	UserID  int64  `json:"user_id"`
}

// ErrorPayload carries a stream-level error to one client.
type ErrorPayload struct {
	Message string `json:"message"`
}
