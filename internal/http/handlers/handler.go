package handlers

import (
	"duel_arena/internal/repository"
	"duel_arena/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB          *pgxpool.Pool
	Duel        *service.DuelService
	HistoryRepo *repository.DuelHistoryRepository
	StatsRepo   *repository.CombatStatsRepository
}

func NewHandler(db *pgxpool.Pool, duel *service.DuelService) *Handler {
	return &Handler{
		DB:          db,
		Duel:        duel,
		HistoryRepo: repository.NewDuelHistoryRepository(db),
		StatsRepo:   repository.NewCombatStatsRepository(db),
	}
}

// getUserID extracts user_id from the Gin context
func getUserID(c interface{ Get(string) (any, bool) }) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
