package http

import (
	"duel_arena/internal/config"
	"duel_arena/internal/http/handlers"
	"duel_arena/internal/http/middleware"
	"duel_arena/internal/service"
	"duel_arena/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterRoutes wires the HTTP API and the websocket event stream.
func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, duelSvc *service.DuelService, hub *ws.Hub, version string, cfg *config.Config) {
	h := handlers.NewHandler(db, duelSvc)
	healthHandler := handlers.NewHealthHandler(db, version)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))
	registerAPIRoutes(v1, h, cfg)

	// WebSocket event stream for live matches
	r.GET("/ws", h.WS(hub))
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, cfg *config.Config) {
	// Action rate limiter middleware (per user, not per IP)
	actionRL := middleware.ActionRateLimit(cfg.ActionRateLimit, cfg.ActionRateWindow)

	// Style table (public)
	api.GET("/duel/styles", h.StylesInfo)

	// Match lifecycle
	api.POST("/duel/match", middleware.JWT(), actionRL, h.CreateMatch)
	api.POST("/duel/:match_id/rounds/next", middleware.JWT(), actionRL, h.NextRound)
	api.GET("/duel/:match_id/round", middleware.JWT(), h.CurrentRound)
	api.GET("/duel/:match_id/rounds/:no", middleware.JWT(), h.RoundState)

	// Round actions
	api.POST("/duel/:match_id/rounds/:no/style", middleware.JWT(), actionRL, h.LockStyle)
	api.POST("/duel/:match_id/rounds/:no/swing", middleware.JWT(), actionRL, h.Swing)
	api.POST("/duel/:match_id/rounds/:no/stop", middleware.JWT(), actionRL, h.Stop)

	// History and record
	api.GET("/me/duels", middleware.JWT(), h.MyDuels)
	api.GET("/me/duels/stats", middleware.JWT(), h.MyDuelStats)
}
