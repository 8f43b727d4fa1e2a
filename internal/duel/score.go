package duel

// PushCurve maps the tier margin between winner and loser to a base push
// amount. The numeric shape is tunable; the only contract is that a larger
// margin yields a larger (or equal) push.
type PushCurve func(margin int) int64

// DefaultPushCurve is the stock tuning: a tie-break win (margin 0) pushes 5,
// a full-tier win pushes 10, a two-tier win (critical over miss) pushes 25.
// Draws never reach the curve.
func DefaultPushCurve(margin int) int64 {
	switch {
	case margin <= 0:
		return 5
	case margin == 1:
		return 10
	default:
		return 25
	}
}

// Outcome is the single resolution value both notification channels consume.
// Written exactly once per round; immutable thereafter.
type Outcome struct {
	WinnerID     *int64 `json:"winner_id"` // nil on a draw
	TierA        Tier   `json:"tier_a"`
	TierB        Tier   `json:"tier_b"`
	Push         int64  `json:"push"`
	TieBreakUsed bool   `json:"tie_break_used"`
}

// score compares both locked best outcomes and produces the round outcome.
// Tie-break: if exactly one side's style carries the feint flag, that side
// wins tied tiers; zero or two feints leave a draw. The winner's push is
// scaled by their own win multiplier and then, independently, by the loser's
// lose_opponent multiplier — applied in sequence, never averaged.
func score(a, b *participant, curve PushCurve) Outcome {
	tierA := a.lockedBest()
	tierB := b.lockedBest()

	out := Outcome{TierA: tierA, TierB: tierB}

	var winner, loser *participant
	switch {
	case tierA > tierB:
		winner, loser = a, b
	case tierB > tierA:
		winner, loser = b, a
	default:
		feintA := a.params.FeintTiebreak
		feintB := b.params.FeintTiebreak
		if feintA != feintB {
			out.TieBreakUsed = true
			if feintA {
				winner, loser = a, b
			} else {
				winner, loser = b, a
			}
		}
	}

	if winner == nil {
		return out
	}

	margin := int(winner.lockedBest()) - int(loser.lockedBest())
	push := curve(margin)
	push = int64(float64(push) * winner.params.WinPushMult * loser.params.LoseOpponentPushMult)

	id := winner.id
	out.WinnerID = &id
	out.Push = push
	return out
}
