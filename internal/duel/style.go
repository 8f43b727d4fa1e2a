package duel

// StyleID identifies a tactical style picked for one round.
type StyleID string

const (
	StyleBalanced   StyleID = "balanced"
	StyleAggressive StyleID = "aggressive"
	StylePrecise    StyleID = "precise"
	StylePower      StyleID = "power"
	StyleGuard      StyleID = "guard"
	StyleFeint      StyleID = "feint"
)

// StyleEffect is a pure modifier record. All multipliers compose by plain
// multiplication; RollCapDelta adds to the base swing cap (floored at 1).
type StyleEffect struct {
	SelfHitMult          float64 `json:"self_hit_mult"`
	SelfCritMult         float64 `json:"self_crit_mult"`
	RollCapDelta         int     `json:"roll_cap_delta"`
	OpponentHitMult      float64 `json:"opponent_hit_mult"`
	WinPushMult          float64 `json:"win_push_mult"`
	LoseOpponentPushMult float64 `json:"lose_opponent_push_mult"`
	FeintTiebreak        bool    `json:"feint_tiebreak"`
}

// Styles are data, not branching code: the resolver folds these records
// generically, so tuning or adding a style never touches the state machine.
var styleCatalog = map[StyleID]StyleEffect{
	StyleBalanced: {
		SelfHitMult: 1.0, SelfCritMult: 1.0, RollCapDelta: 0,
		OpponentHitMult: 1.0, WinPushMult: 1.0, LoseOpponentPushMult: 1.0,
	},
	StyleAggressive: {
		SelfHitMult: 0.80, SelfCritMult: 1.0, RollCapDelta: +1,
		OpponentHitMult: 1.0, WinPushMult: 1.0, LoseOpponentPushMult: 1.0,
	},
	StylePrecise: {
		SelfHitMult: 1.20, SelfCritMult: 0.50, RollCapDelta: 0,
		OpponentHitMult: 1.0, WinPushMult: 1.0, LoseOpponentPushMult: 1.0,
	},
	StylePower: {
		SelfHitMult: 1.0, SelfCritMult: 1.0, RollCapDelta: 0,
		OpponentHitMult: 1.0, WinPushMult: 1.25, LoseOpponentPushMult: 1.20,
	},
	StyleGuard: {
		SelfHitMult: 1.0, SelfCritMult: 1.0, RollCapDelta: -1,
		OpponentHitMult: 0.80, WinPushMult: 1.0, LoseOpponentPushMult: 1.0,
	},
	StyleFeint: {
		SelfHitMult: 1.0, SelfCritMult: 1.0, RollCapDelta: 0,
		OpponentHitMult: 1.0, WinPushMult: 1.0, LoseOpponentPushMult: 1.0,
		FeintTiebreak: true,
	},
}

// LookupStyle returns the effect record for a style id.
func LookupStyle(id StyleID) (StyleEffect, error) {
	eff, ok := styleCatalog[id]
	if !ok {
		return StyleEffect{}, ErrUnknownStyle
	}
	return eff, nil
}

// StyleIDs lists every known style in a stable order.
func StyleIDs() []StyleID {
	return []StyleID{
		StyleBalanced, StyleAggressive, StylePrecise,
		StylePower, StyleGuard, StyleFeint,
	}
}

// Catalog returns a copy of the full style table for info endpoints.
func Catalog() map[StyleID]StyleEffect {
	out := make(map[StyleID]StyleEffect, len(styleCatalog))
	for id, eff := range styleCatalog {
		out[id] = eff
	}
	return out
}
