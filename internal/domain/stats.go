package domain

// CombatStats - a participant's base roll inputs, maintained outside the
// duel engine and consumed by it as opaque values.
type CombatStats struct {
	UserID    int64   `db:"user_id" json:"user_id"`
	HitChance float64 `db:"hit_chance" json:"hit_chance"`
	CritRate  float64 `db:"crit_rate" json:"crit_rate"`
	RollCap   int     `db:"roll_cap" json:"roll_cap"`
}
