package domain

import "time"

// DuelResult - per-participant view of a resolved round
type DuelResult string

const (
	DuelResultWin  DuelResult = "win"
	DuelResultLose DuelResult = "lose"
	DuelResultDraw DuelResult = "draw"
)

// DuelHistory - one participant's record of one resolved round
type DuelHistory struct {
	ID           int64                  `db:"id" json:"id"`
	UserID       int64                  `db:"user_id" json:"user_id"`
	MatchID      string                 `db:"match_id" json:"match_id"`
	RoundNo      int                    `db:"round_no" json:"round_no"`
	OpponentID   int64                  `db:"opponent_id" json:"opponent_id"`
	Style        string                 `db:"style" json:"style"`
	Tier         string                 `db:"tier" json:"tier"`
	Result       DuelResult             `db:"result" json:"result"`
	Push         int64                  `db:"push" json:"push"`
	TieBreakUsed bool                   `db:"tie_break_used" json:"tie_break_used"`
	Details      map[string]interface{} `db:"details" json:"details,omitempty"`
	CreatedAt    time.Time              `db:"created_at" json:"created_at"`
}
