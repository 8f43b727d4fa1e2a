package ws

import (
	"sync"
	"time"

	"duel_arena/internal/duel"
	"duel_arena/internal/logger"
)

// Hub owns one Room per live match and is the notification sink the duel
// service fans resolutions through.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]*Room)}
}

// Join attaches a client to its match room, creating the room on first
// subscriber.
func (h *Hub) Join(matchID string, players [2]int64, c *Client) {
	h.mu.Lock()
	room, ok := h.rooms[matchID]
	if !ok {
		room = newRoom(matchID, players)
		h.rooms[matchID] = room
	}
	h.mu.Unlock()

	room.join(c)
	logger.Debug("ws client joined", "match_id", matchID, "user_id", c.UserID)
}

func (h *Hub) OnDisconnect(c *Client) {
	h.mu.Lock()
	room, ok := h.rooms[c.MatchID]
	h.mu.Unlock()
	if !ok {
		return
	}
	room.leave(c)
	logger.Debug("ws client left", "match_id", c.MatchID, "user_id", c.UserID)
}

// RoundResolved satisfies the duel service's notifier. The service calls it
// exactly once per resolved round; the room additionally dedupes per
// participant so replays can never leak through.
func (h *Hub) RoundResolved(matchID string, roundNo int, players [2]int64, o duel.Outcome) {
	h.mu.Lock()
	room, ok := h.rooms[matchID]
	if !ok {
		room = newRoom(matchID, players)
		h.rooms[matchID] = room
	}
	h.mu.Unlock()

	room.broadcastRoundResolved(roundNo, RoundResolvedPayload{
		MatchID: matchID,
		RoundNo: roundNo,
		Outcome: o,
	})
}

// StartCleanup drops rooms that have sat empty longer than maxIdle.
func (h *Hub) StartCleanup(interval, maxIdle time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			h.cleanupIdle(maxIdle)
		}
	}()
}

func (h *Hub) cleanupIdle(maxIdle time.Duration) {
	now := time.Now()
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, room := range h.rooms {
		room.mu.Lock()
		empty := len(room.clients) == 0
		age := now.Sub(room.createdAt)
		room.mu.Unlock()
		if empty && age > maxIdle {
			delete(h.rooms, id)
			logger.Debug("ws room reaped", "match_id", id)
		}
	}
}
