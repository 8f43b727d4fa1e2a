package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"duel_arena/internal/duel"
	"duel_arena/internal/service"

	"github.com/gin-gonic/gin"
)

// duelStatus maps engine and service errors to HTTP status codes. Anything
// unmapped is an internal error.
func duelStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrMatchNotFound),
		errors.Is(err, duel.ErrNoSuchRound):
		return http.StatusNotFound
	case errors.Is(err, duel.ErrNotParticipant):
		return http.StatusForbidden
	case errors.Is(err, service.ErrSelfMatch),
		errors.Is(err, duel.ErrUnknownStyle):
		return http.StatusBadRequest
	case errors.Is(err, duel.ErrStyleAlreadyLocked),
		errors.Is(err, duel.ErrWrongPhase),
		errors.Is(err, duel.ErrAlreadySubmitted),
		errors.Is(err, duel.ErrSwingCapReached),
		errors.Is(err, duel.ErrNoSwingsTaken),
		errors.Is(err, duel.ErrRoundResolved),
		errors.Is(err, duel.ErrRoundInProgress):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func abortDuelError(c *gin.Context, err error) {
	status := duelStatus(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// roundParams pulls match_id and the round number out of the path.
func roundParams(c *gin.Context) (string, int, bool) {
	matchID := c.Param("match_id")
	no, err := strconv.Atoi(c.Param("no"))
	if err != nil || no < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid round number"})
		return "", 0, false
	}
	return matchID, no, true
}

// CreateMatchRequest names the opponent to duel.
type CreateMatchRequest struct {
	OpponentID int64 `json:"opponent_id" binding:"required"`
}

// CreateMatch starts a match against the named opponent. Round 1 opens
// immediately in the style_select phase.
func (h *Handler) CreateMatch(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req CreateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	info, err := h.Duel.CreateMatch(c.Request.Context(), userID, req.OpponentID)
	if err != nil {
		abortDuelError(c, err)
		return
	}
	c.JSON(http.StatusCreated, info)
}

// LockStyleRequest carries the style choice for the round.
type LockStyleRequest struct {
	Style string `json:"style" binding:"required"`
}

// LockStyle commits the caller's style for the round. The choice is final.
func (h *Handler) LockStyle(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	matchID, no, ok := roundParams(c)
	if !ok {
		return
	}

	var req LockStyleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	res, err := h.Duel.LockStyle(matchID, no, userID, duel.StyleID(req.Style))
	if err != nil {
		abortDuelError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Swing takes one roll. The new result replaces any previous roll this round.
func (h *Handler) Swing(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	matchID, no, ok := roundParams(c)
	if !ok {
		return
	}

	res, err := h.Duel.Swing(matchID, no, userID)
	if err != nil {
		abortDuelError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Stop banks the caller's current roll. If this is the second submission the
// response carries the round outcome; otherwise the caller waits for the
// round_resolved event on the socket.
func (h *Handler) Stop(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	matchID, no, ok := roundParams(c)
	if !ok {
		return
	}

	res, err := h.Duel.Stop(matchID, no, userID)
	if err != nil {
		abortDuelError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// RoundState reads one round. Safe to call any number of times; a resolved
// round returns the same outcome on every read.
func (h *Handler) RoundState(c *gin.Context) {
	matchID, no, ok := roundParams(c)
	if !ok {
		return
	}

	snap, err := h.Duel.RoundState(matchID, no)
	if err != nil {
		abortDuelError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// CurrentRound reads the latest round of a match.
func (h *Handler) CurrentRound(c *gin.Context) {
	snap, err := h.Duel.CurrentRoundState(c.Param("match_id"))
	if err != nil {
		abortDuelError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// NextRound opens the next round once the current one has resolved.
func (h *Handler) NextRound(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	snap, err := h.Duel.StartNextRound(c.Param("match_id"), userID)
	if err != nil {
		abortDuelError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snap)
}

// StylesInfo publishes the style table so clients can render choices.
func (h *Handler) StylesInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"styles": duel.Catalog(),
		"order":  duel.StyleIDs(),
	})
}

// MyDuels returns the caller's recent resolved rounds.
func (h *Handler) MyDuels(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	items, err := h.HistoryRepo.GetByUser(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"duels": items})
}

// MyDuelStats returns the caller's aggregated record.
func (h *Handler) MyDuelStats(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	since := time.Time{}
	if v := c.Query("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			since = time.Now().AddDate(0, 0, -n)
		}
	}

	stats, err := h.HistoryRepo.GetUserStats(c.Request.Context(), userID, since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
