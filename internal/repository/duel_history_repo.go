package repository

import (
	"context"
	"encoding/json"
	"time"

	"duel_arena/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DuelHistoryRepository struct {
	db *pgxpool.Pool
}

func NewDuelHistoryRepository(db *pgxpool.Pool) *DuelHistoryRepository {
	return &DuelHistoryRepository{db: db}
}

// Create stores one participant's record of a resolved round.
func (r *DuelHistoryRepository) Create(ctx context.Context, dh *domain.DuelHistory) error {
	detailsJSON, err := json.Marshal(dh.Details)
	if err != nil {
		detailsJSON = []byte("{}")
	}

	return r.db.QueryRow(ctx,
		`INSERT INTO duel_history
			(user_id, match_id, round_no, opponent_id, style, tier, result, push, tie_break_used, details)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at`,
		dh.UserID,
		dh.MatchID,
		dh.RoundNo,
		dh.OpponentID,
		dh.Style,
		dh.Tier,
		dh.Result,
		dh.Push,
		dh.TieBreakUsed,
		detailsJSON,
	).Scan(&dh.ID, &dh.CreatedAt)
}

// GetByUser returns a participant's most recent resolved rounds.
func (r *DuelHistoryRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*domain.DuelHistory, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, match_id, round_no, opponent_id, style, tier,
				result, push, tie_break_used, details, created_at
		 FROM duel_history
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.DuelHistory
	for rows.Next() {
		var (
			dh          domain.DuelHistory
			detailsJSON []byte
		)
		if err := rows.Scan(
			&dh.ID, &dh.UserID, &dh.MatchID, &dh.RoundNo, &dh.OpponentID,
			&dh.Style, &dh.Tier, &dh.Result, &dh.Push, &dh.TieBreakUsed,
			&detailsJSON, &dh.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(detailsJSON) > 0 {
			_ = json.Unmarshal(detailsJSON, &dh.Details)
		}
		result = append(result, &dh)
	}

	return result, rows.Err()
}

// UserStats - aggregated duel record for one participant
type UserStats struct {
	UserID      int64 `json:"user_id"`
	TotalRounds int   `json:"total_rounds"`
	Wins        int   `json:"wins"`
	Losses      int   `json:"losses"`
	Draws       int   `json:"draws"`
	TotalPush   int64 `json:"total_push"`
}

// GetUserStats aggregates a participant's record since the given time.
func (r *DuelHistoryRepository) GetUserStats(ctx context.Context, userID int64, since time.Time) (*UserStats, error) {
	stats := &UserStats{UserID: userID}

	err := r.db.QueryRow(ctx,
		`SELECT
			COUNT(*) as total_rounds,
			COUNT(*) FILTER (WHERE result = 'win') as wins,
			COUNT(*) FILTER (WHERE result = 'lose') as losses,
			COUNT(*) FILTER (WHERE result = 'draw') as draws,
			COALESCE(SUM(push) FILTER (WHERE result = 'win'), 0) as total_push
		 FROM duel_history
		 WHERE user_id = $1 AND created_at >= $2`,
		userID, since,
	).Scan(&stats.TotalRounds, &stats.Wins, &stats.Losses, &stats.Draws, &stats.TotalPush)

	if err != nil {
		return nil, err
	}
	return stats, nil
}
