package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"duel_arena/internal/domain"
	"duel_arena/internal/duel"
	"duel_arena/internal/repository"
)

type fakeNotifier struct {
	mu        sync.Mutex
	delivered []duel.Outcome
	perRound  map[int]int
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{perRound: make(map[int]int)}
}

func (f *fakeNotifier) RoundResolved(matchID string, roundNo int, players [2]int64, o duel.Outcome) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delivered = append(f.delivered, o)
	f.perRound[roundNo]++
}

func (f *fakeNotifier) count(roundNo int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.perRound[roundNo]
}

func (f *fakeNotifier) last() (duel.Outcome, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.delivered) == 0 {
		return duel.Outcome{}, false
	}
	return f.delivered[len(f.delivered)-1], true
}

type fakeStats struct {
	rows map[int64]*domain.CombatStats
}

func (f *fakeStats) Get(_ context.Context, userID int64) (*domain.CombatStats, error) {
	if cs, ok := f.rows[userID]; ok {
		return cs, nil
	}
	return nil, repository.ErrStatsNotFound
}

type fakeHistory struct {
	records chan *domain.DuelHistory
}

func (f *fakeHistory) Create(_ context.Context, dh *domain.DuelHistory) error {
	f.records <- dh
	return nil
}

func testService(t *testing.T, notifier RoundNotifier, history HistoryRecorder) *DuelService {
	t.Helper()
	cfg := duel.Config{
		BaseSwingCap: 3,
		StyleTimeout: time.Hour,
		SwingTimeout: time.Hour,
		PushCurve:    duel.DefaultPushCurve,
	}
	return NewDuelService(cfg, &fakeStats{rows: map[int64]*domain.CombatStats{}}, notifier, history)
}

// playRound drives a full round to resolution and returns the stop result of
// the triggering call.
func playRound(t *testing.T, s *DuelService, matchID string, roundNo int) duel.StopResult {
	t.Helper()
	if _, err := s.LockStyle(matchID, roundNo, 1, duel.StyleBalanced); err != nil {
		t.Fatalf("lock p1: %v", err)
	}
	if _, err := s.LockStyle(matchID, roundNo, 2, duel.StyleBalanced); err != nil {
		t.Fatalf("lock p2: %v", err)
	}
	for _, pid := range []int64{1, 2} {
		if _, err := s.Swing(matchID, roundNo, pid); err != nil {
			t.Fatalf("swing p%d: %v", pid, err)
		}
	}
	if _, err := s.Stop(matchID, roundNo, 1); err != nil {
		t.Fatalf("stop p1: %v", err)
	}
	res, err := s.Stop(matchID, roundNo, 2)
	if err != nil {
		t.Fatalf("stop p2: %v", err)
	}
	return res
}

func TestCreateMatchStartsFirstRound(t *testing.T) {
	s := testService(t, newFakeNotifier(), nil)

	info, err := s.CreateMatch(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if info.RoundNo != 1 {
		t.Fatalf("round no = %d; want 1", info.RoundNo)
	}
	if info.Round.Phase != duel.PhaseStyleSelect {
		t.Fatalf("phase = %s; want style_select", info.Round.Phase)
	}

	if _, err := s.CreateMatch(context.Background(), 5, 5); err != ErrSelfMatch {
		t.Fatalf("self match err = %v; want ErrSelfMatch", err)
	}
}

func TestActionsAgainstUnknownMatch(t *testing.T) {
	s := testService(t, newFakeNotifier(), nil)

	if _, err := s.Swing("999", 1, 1); err != ErrMatchNotFound {
		t.Fatalf("swing err = %v; want ErrMatchNotFound", err)
	}
	if _, err := s.RoundState("999", 1); err != ErrMatchNotFound {
		t.Fatalf("state err = %v; want ErrMatchNotFound", err)
	}
}

func TestExactlyOneBroadcastPerRound(t *testing.T) {
	n := newFakeNotifier()
	s := testService(t, n, nil)

	info, err := s.CreateMatch(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	res := playRound(t, s, info.MatchID, 1)
	if !res.RoundResolved || res.Outcome == nil {
		t.Fatal("triggering stop must carry the outcome")
	}
	if got := n.count(1); got != 1 {
		t.Fatalf("broadcast count = %d; want exactly 1", got)
	}

	// The broadcast and the sync response carry the same outcome value.
	last, ok := n.last()
	if !ok {
		t.Fatal("no broadcast delivered")
	}
	if last != *res.Outcome {
		t.Fatalf("broadcast %+v != sync %+v", last, *res.Outcome)
	}

	// The idempotent read returns the identical outcome and triggers nothing.
	for i := 0; i < 5; i++ {
		snap, err := s.RoundState(info.MatchID, 1)
		if err != nil {
			t.Fatalf("state: %v", err)
		}
		if snap.Outcome == nil || *snap.Outcome != last {
			t.Fatalf("state outcome %+v != broadcast %+v", snap.Outcome, last)
		}
	}
	if got := n.count(1); got != 1 {
		t.Fatalf("state reads re-triggered broadcast: count = %d", got)
	}
}

func TestConcurrentStopsSingleBroadcast(t *testing.T) {
	for i := 0; i < 25; i++ {
		n := newFakeNotifier()
		s := testService(t, n, nil)

		info, err := s.CreateMatch(context.Background(), 1, 2)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		// Both locks must land before anyone swings; the round only enters
		// the swing phase on the second lock.
		for _, pid := range []int64{1, 2} {
			if _, err := s.LockStyle(info.MatchID, 1, pid, duel.StyleBalanced); err != nil {
				t.Fatalf("lock p%d: %v", pid, err)
			}
		}
		for _, pid := range []int64{1, 2} {
			if _, err := s.Swing(info.MatchID, 1, pid); err != nil {
				t.Fatalf("swing p%d: %v", pid, err)
			}
		}

		var wg sync.WaitGroup
		var withOutcome int32
		for _, pid := range []int64{1, 2} {
			wg.Add(1)
			go func(pid int64) {
				defer wg.Done()
				res, err := s.Stop(info.MatchID, 1, pid)
				if err != nil {
					t.Errorf("stop p%d: %v", pid, err)
					return
				}
				if res.Outcome != nil {
					atomic.AddInt32(&withOutcome, 1)
				}
			}(pid)
		}
		wg.Wait()

		if got := n.count(1); got != 1 {
			t.Fatalf("iteration %d: broadcast count = %d; want 1", i, got)
		}
		if got := atomic.LoadInt32(&withOutcome); got != 1 {
			t.Fatalf("iteration %d: %d sync responses carried the outcome; want 1", i, got)
		}
	}
}

func TestStartNextRound(t *testing.T) {
	s := testService(t, newFakeNotifier(), nil)

	info, err := s.CreateMatch(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := s.StartNextRound(info.MatchID, 1); err != duel.ErrRoundInProgress {
		t.Fatalf("start during round err = %v; want ErrRoundInProgress", err)
	}
	if _, err := s.StartNextRound(info.MatchID, 99); err != duel.ErrNotParticipant {
		t.Fatalf("stranger start err = %v; want ErrNotParticipant", err)
	}

	playRound(t, s, info.MatchID, 1)

	snap, err := s.StartNextRound(info.MatchID, 1)
	if err != nil {
		t.Fatalf("start next: %v", err)
	}
	if snap.RoundNo != 2 || snap.Phase != duel.PhaseStyleSelect {
		t.Fatalf("next round = %+v; want round 2 in style_select", snap)
	}
}

func TestHistoryRecordedPerParticipant(t *testing.T) {
	h := &fakeHistory{records: make(chan *domain.DuelHistory, 4)}
	s := testService(t, newFakeNotifier(), h)

	info, err := s.CreateMatch(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	res := playRound(t, s, info.MatchID, 1)

	got := make(map[int64]*domain.DuelHistory)
	for i := 0; i < 2; i++ {
		select {
		case dh := <-h.records:
			got[dh.UserID] = dh
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for history rows")
		}
	}

	for _, uid := range []int64{1, 2} {
		dh, ok := got[uid]
		if !ok {
			t.Fatalf("no history row for user %d", uid)
		}
		if dh.MatchID != info.MatchID || dh.RoundNo != 1 {
			t.Fatalf("row %+v has wrong match/round", dh)
		}
		if dh.Push != res.Outcome.Push {
			t.Fatalf("row push = %d; want %d", dh.Push, res.Outcome.Push)
		}
	}

	if res.Outcome.WinnerID == nil {
		if got[1].Result != domain.DuelResultDraw || got[2].Result != domain.DuelResultDraw {
			t.Fatalf("draw round, results = %s/%s", got[1].Result, got[2].Result)
		}
	} else {
		winner := *res.Outcome.WinnerID
		loser := int64(3) - winner
		if got[winner].Result != domain.DuelResultWin || got[loser].Result != domain.DuelResultLose {
			t.Fatalf("winner %d, results = %s/%s", winner, got[winner].Result, got[loser].Result)
		}
	}
}

func TestCleanupDropsIdleMatches(t *testing.T) {
	s := testService(t, newFakeNotifier(), nil)

	info, err := s.CreateMatch(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	s.cleanupStale(-time.Second)

	if _, err := s.RoundState(info.MatchID, 1); err != ErrMatchNotFound {
		t.Fatalf("state after cleanup err = %v; want ErrMatchNotFound", err)
	}
}
