package ws

import (
	"encoding/json"
	"sync"
	"time"

	"duel_arena/internal/logger"
)

// Room fans events out to the participants of one match. Delivery is
// tracked per participant per round so the round_resolved event can never
// reach the same participant twice, no matter how resolution was triggered
// or how often a client reconnects.
type Room struct {
	MatchID string
	Players [2]int64

	mu        sync.Mutex
	clients   map[int64]*Client
	delivered map[int64]int // highest round_resolved round no per participant
	createdAt time.Time
}

func newRoom(matchID string, players [2]int64) *Room {
	return &Room{
		MatchID:   matchID,
		Players:   players,
		clients:   make(map[int64]*Client),
		delivered: make(map[int64]int),
		createdAt: time.Now(),
	}
}

func (r *Room) join(c *Client) {
	r.mu.Lock()
	old := r.clients[c.UserID]
	r.clients[c.UserID] = c
	r.mu.Unlock()

	// The superseded connection is closed, never its Send channel: the
	// broadcast path sends outside the room lock and may still hold a
	// reference. Closing the conn makes both pumps exit on their own.
	if old != nil && old != c && old.Conn != nil {
		_ = old.Conn.Close()
	}

	r.sendTo(c, Message{
		Type:    MsgJoined,
		Payload: JoinedPayload{MatchID: r.MatchID, UserID: c.UserID},
	})
}

func (r *Room) leave(c *Client) (empty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.clients[c.UserID]; ok && cur == c {
		delete(r.clients, c.UserID)
	}
	return len(r.clients) == 0
}

// broadcastRoundResolved delivers the event to every participant who has not
// yet received it for this round. A participant who is offline is still
// marked delivered: on reconnect they reconstruct the outcome through the
// idempotent state read, which has no notification side effect.
func (r *Room) broadcastRoundResolved(roundNo int, payload RoundResolvedPayload) {
	data, err := json.Marshal(Message{Type: MsgRoundResolved, Payload: payload})
	if err != nil {
		logger.Error("marshal round_resolved", "match_id", r.MatchID, "error", err)
		return
	}

	r.mu.Lock()
	var targets []*Client
	for _, uid := range r.Players {
		if r.delivered[uid] >= roundNo {
			continue
		}
		r.delivered[uid] = roundNo
		if c, ok := r.clients[uid]; ok {
			targets = append(targets, c)
		}
	}
	r.mu.Unlock()

	for _, c := range targets {
		select {
		case c.Send <- data:
		default:
			logger.Warn("ws send buffer full, dropping event", "user_id", c.UserID, "match_id", r.MatchID)
		}
	}
}

func (r *Room) sendTo(c *Client, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("ws marshal", "error", err)
		return
	}
	select {
	case c.Send <- data:
	default:
		logger.Warn("ws send buffer full", "user_id", c.UserID, "match_id", r.MatchID)
	}
}
