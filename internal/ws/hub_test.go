package ws

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"duel_arena/internal/duel"
)

func testClient(userID int64, matchID string) *Client {
	return &Client{
		UserID:  userID,
		MatchID: matchID,
		Send:    make(chan []byte, 8),
	}
}

func recvMessage(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case data := <-c.Send:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal frame: %v", err)
		}
		return msg
	case <-time.After(time.Second):
		t.Fatal("no frame received")
		return Message{}
	}
}

func drainJoined(t *testing.T, c *Client) {
	t.Helper()
	if msg := recvMessage(t, c); msg.Type != MsgJoined {
		t.Fatalf("first frame type = %q; want %q", msg.Type, MsgJoined)
	}
}

func TestBroadcastReachesBothParticipants(t *testing.T) {
	hub := NewHub()
	players := [2]int64{1, 2}
	a := testClient(1, "m1")
	b := testClient(2, "m1")
	hub.Join("m1", players, a)
	hub.Join("m1", players, b)
	drainJoined(t, a)
	drainJoined(t, b)

	winner := int64(1)
	hub.RoundResolved("m1", 1, players, duel.Outcome{
		WinnerID: &winner,
		TierA:    duel.TierCritical,
		TierB:    duel.TierHit,
		Push:     12,
	})

	for _, c := range []*Client{a, b} {
		msg := recvMessage(t, c)
		if msg.Type != MsgRoundResolved {
			t.Fatalf("frame type = %q; want %q", msg.Type, MsgRoundResolved)
		}
	}
}

func TestBroadcastDeliveredOncePerRound(t *testing.T) {
	hub := NewHub()
	players := [2]int64{1, 2}
	a := testClient(1, "m1")
	hub.Join("m1", players, a)
	drainJoined(t, a)

	o := duel.Outcome{TierA: duel.TierMiss, TierB: duel.TierMiss}
	hub.RoundResolved("m1", 1, players, o)
	hub.RoundResolved("m1", 1, players, o) // duplicate must be suppressed

	if msg := recvMessage(t, a); msg.Type != MsgRoundResolved {
		t.Fatalf("frame type = %q; want %q", msg.Type, MsgRoundResolved)
	}
	select {
	case data := <-a.Send:
		t.Fatalf("unexpected second frame: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestOfflineParticipantNotReplayedOnReconnect(t *testing.T) {
	hub := NewHub()
	players := [2]int64{1, 2}
	a := testClient(1, "m1")
	hub.Join("m1", players, a)
	drainJoined(t, a)

	// Participant 2 is offline when round 1 resolves.
	hub.RoundResolved("m1", 1, players, duel.Outcome{})
	if msg := recvMessage(t, a); msg.Type != MsgRoundResolved {
		t.Fatalf("frame type = %q; want %q", msg.Type, MsgRoundResolved)
	}

	// Reconnecting afterwards must not replay the event; the state read is
	// the recovery path.
	b := testClient(2, "m1")
	hub.Join("m1", players, b)
	drainJoined(t, b)
	select {
	case data := <-b.Send:
		t.Fatalf("replayed frame to reconnected client: %s", data)
	case <-time.After(50 * time.Millisecond):
	}

	// Round 2 still reaches both.
	hub.RoundResolved("m1", 2, players, duel.Outcome{})
	for _, c := range []*Client{a, b} {
		if msg := recvMessage(t, c); msg.Type != MsgRoundResolved {
			t.Fatalf("frame type = %q; want %q", msg.Type, MsgRoundResolved)
		}
	}
}

// A reconnect landing while a resolution is being fanned out must never
// tear down the channel the broadcast is about to send on.
func TestReconnectDuringBroadcast(t *testing.T) {
	hub := NewHub()
	players := [2]int64{1, 2}
	hub.Join("m1", players, testClient(1, "m1"))
	hub.Join("m1", players, testClient(2, "m1"))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			hub.Join("m1", players, testClient(1, "m1"))
		}
	}()
	go func() {
		defer wg.Done()
		for round := 1; round <= 200; round++ {
			hub.RoundResolved("m1", round, players, duel.Outcome{})
		}
	}()
	wg.Wait()
}

func TestCleanupReapsEmptyRooms(t *testing.T) {
	hub := NewHub()
	players := [2]int64{1, 2}
	a := testClient(1, "m1")
	hub.Join("m1", players, a)
	hub.OnDisconnect(a)

	hub.cleanupIdle(-time.Second)

	hub.mu.Lock()
	_, ok := hub.rooms["m1"]
	hub.mu.Unlock()
	if ok {
		t.Fatal("empty room should have been reaped")
	}
}
