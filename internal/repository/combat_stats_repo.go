package repository

import (
	"context"
	"errors"

	"duel_arena/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrStatsNotFound means no combat stats row exists for the participant.
var ErrStatsNotFound = errors.New("combat stats not found")

type CombatStatsRepository struct {
	db *pgxpool.Pool
}

func NewCombatStatsRepository(db *pgxpool.Pool) *CombatStatsRepository {
	return &CombatStatsRepository{db: db}
}

// Get reads a participant's base roll inputs.
func (r *CombatStatsRepository) Get(ctx context.Context, userID int64) (*domain.CombatStats, error) {
	cs := &domain.CombatStats{UserID: userID}

	err := r.db.QueryRow(ctx,
		`SELECT hit_chance, crit_rate, roll_cap
		 FROM combat_stats
		 WHERE user_id = $1`,
		userID,
	).Scan(&cs.HitChance, &cs.CritRate, &cs.RollCap)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrStatsNotFound
	}
	if err != nil {
		return nil, err
	}
	return cs, nil
}

// Upsert writes a participant's base roll inputs (seed tooling).
func (r *CombatStatsRepository) Upsert(ctx context.Context, cs *domain.CombatStats) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO combat_stats (user_id, hit_chance, crit_rate, roll_cap)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE SET
			hit_chance = EXCLUDED.hit_chance,
			crit_rate = EXCLUDED.crit_rate,
			roll_cap = EXCLUDED.roll_cap`,
		cs.UserID, cs.HitChance, cs.CritRate, cs.RollCap,
	)
	return err
}
