package duel

// BaseStats are a participant's opaque combat inputs, supplied by an
// external stats lookup. Probabilities are in [0,1].
type BaseStats struct {
	HitChance float64 `json:"hit_chance"`
	CritRate  float64 `json:"crit_rate"`
	RollCap   int     `json:"roll_cap"`
}

// EffectiveParams are the roll parameters for one participant after both
// locked styles have been folded in.
type EffectiveParams struct {
	HitChance            float64
	CritRate             float64
	SwingCap             int
	WinPushMult          float64
	LoseOpponentPushMult float64
	FeintTiebreak        bool
}

// ResolveParams computes one participant's effective parameters from their
// own style and the opponent's. Multipliers stack multiplicatively, never
// additively, so a penalty costs the same relative amount regardless of the
// base value. Pure; styles are immutable once locked, so the result is
// computed once per round and reused.
func ResolveParams(self, opponent StyleEffect, stats BaseStats) EffectiveParams {
	cap := stats.RollCap + self.RollCapDelta
	if cap < 1 {
		cap = 1
	}
	return EffectiveParams{
		HitChance:            clamp01(stats.HitChance * self.SelfHitMult * opponent.OpponentHitMult),
		CritRate:             clamp01(stats.CritRate * self.SelfCritMult),
		SwingCap:             cap,
		WinPushMult:          self.WinPushMult,
		LoseOpponentPushMult: self.LoseOpponentPushMult,
		FeintTiebreak:        self.FeintTiebreak,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
