package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"duel_arena/internal/domain"
	"duel_arena/internal/duel"
	"duel_arena/internal/logger"
	"duel_arena/internal/repository"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ErrMatchNotFound = errors.New("match not found")
	ErrSelfMatch     = errors.New("cannot duel yourself")
)

var (
	roundsResolved = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "duel_rounds_resolved_total",
		Help: "Total duel rounds resolved",
	})
	matchesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "duel_matches_created_total",
		Help: "Total duel matches created",
	})
	swingsTaken = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "duel_swings_taken_total",
		Help: "Total swings rolled across all matches",
	})
)

func init() {
	prometheus.MustRegister(roundsResolved, matchesCreated, swingsTaken)
}

// RoundNotifier is the fan-out side of resolution: it must deliver the
// outcome to both participants' live event streams exactly once each.
type RoundNotifier interface {
	RoundResolved(matchID string, roundNo int, players [2]int64, o duel.Outcome)
}

// HistoryRecorder persists per-participant round records.
type HistoryRecorder interface {
	Create(ctx context.Context, dh *domain.DuelHistory) error
}

// StatsProvider supplies a participant's base roll inputs.
type StatsProvider interface {
	Get(ctx context.Context, userID int64) (*domain.CombatStats, error)
}

// Default inputs for participants without a combat_stats row.
var defaultStats = duel.BaseStats{HitChance: 0.65, CritRate: 0.10, RollCap: 3}

type matchEntry struct {
	match      *duel.Match
	lastActive time.Time
}

// DuelService owns live matches and routes participant actions into the
// engine. The broadcast and the synchronous response are two consumers of
// the single outcome the scorer computed; this service never re-derives it.
type DuelService struct {
	mu      sync.RWMutex
	matches map[string]*matchEntry
	seq     int64

	cfg      duel.Config
	stats    StatsProvider
	notifier RoundNotifier
	history  HistoryRecorder
}

func NewDuelService(cfg duel.Config, stats StatsProvider, notifier RoundNotifier, history HistoryRecorder) *DuelService {
	return &DuelService{
		matches:  make(map[string]*matchEntry),
		cfg:      cfg,
		stats:    stats,
		notifier: notifier,
		history:  history,
	}
}

// MatchInfo is the synchronous reply to match creation.
type MatchInfo struct {
	MatchID string        `json:"match_id"`
	Players [2]int64      `json:"players"`
	RoundNo int           `json:"round_no"`
	Round   duel.Snapshot `json:"round"`
}

// CreateMatch registers a new match between two participants and starts its
// first round. Pairing the participants is the caller's concern.
func (s *DuelService) CreateMatch(ctx context.Context, p1, p2 int64) (*MatchInfo, error) {
	if p1 == p2 {
		return nil, ErrSelfMatch
	}

	stats1, err := s.baseStats(ctx, p1)
	if err != nil {
		return nil, err
	}
	stats2, err := s.baseStats(ctx, p2)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.seq++
	id := strconv.FormatInt(s.seq, 10)
	m := duel.NewMatch(id, [2]int64{p1, p2}, [2]duel.BaseStats{stats1, stats2}, s.cfg, func(roundNo int, o duel.Outcome) {
		s.dispatchResolution(id, roundNo, o)
	})
	s.matches[id] = &matchEntry{match: m, lastActive: time.Now()}
	s.mu.Unlock()

	roundNo, err := m.StartNextRound()
	if err != nil {
		return nil, err
	}
	r, err := m.Round(roundNo)
	if err != nil {
		return nil, err
	}

	matchesCreated.Inc()
	logger.Info("match created", "match_id", id, "p1", p1, "p2", p2)

	return &MatchInfo{MatchID: id, Players: m.Players(), RoundNo: roundNo, Round: r.State()}, nil
}

func (s *DuelService) baseStats(ctx context.Context, userID int64) (duel.BaseStats, error) {
	if s.stats == nil {
		return defaultStats, nil
	}
	cs, err := s.stats.Get(ctx, userID)
	if errors.Is(err, repository.ErrStatsNotFound) {
		return defaultStats, nil
	}
	if err != nil {
		return duel.BaseStats{}, err
	}
	return duel.BaseStats{HitChance: cs.HitChance, CritRate: cs.CritRate, RollCap: cs.RollCap}, nil
}

func (s *DuelService) entry(matchID string) (*matchEntry, error) {
	s.mu.RLock()
	e, ok := s.matches[matchID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrMatchNotFound
	}
	return e, nil
}

func (s *DuelService) round(matchID string, roundNo int, touch bool) (*duel.Round, *matchEntry, error) {
	e, err := s.entry(matchID)
	if err != nil {
		return nil, nil, err
	}
	r, err := e.match.Round(roundNo)
	if err != nil {
		return nil, nil, err
	}
	if touch {
		s.mu.Lock()
		e.lastActive = time.Now()
		s.mu.Unlock()
	}
	return r, e, nil
}

// Match returns the live match for participant checks (ws join).
func (s *DuelService) Match(matchID string) (*duel.Match, error) {
	e, err := s.entry(matchID)
	if err != nil {
		return nil, err
	}
	return e.match, nil
}

// LockStyle handles the lock_style action.
func (s *DuelService) LockStyle(matchID string, roundNo int, userID int64, style duel.StyleID) (duel.LockResult, error) {
	r, _, err := s.round(matchID, roundNo, true)
	if err != nil {
		return duel.LockResult{}, err
	}
	return r.LockStyle(userID, style)
}

// Swing handles the swing action.
func (s *DuelService) Swing(matchID string, roundNo int, userID int64) (duel.SwingResult, error) {
	r, _, err := s.round(matchID, roundNo, true)
	if err != nil {
		return duel.SwingResult{}, err
	}
	res, err := r.Swing(userID)
	if err == nil {
		swingsTaken.Inc()
	}
	return res, err
}

// Stop handles the stop action. When this call causes resolution, the
// returned StopResult carries the outcome; the broadcast has already been
// dispatched exactly once by the engine callback before this returns.
func (s *DuelService) Stop(matchID string, roundNo int, userID int64) (duel.StopResult, error) {
	r, _, err := s.round(matchID, roundNo, true)
	if err != nil {
		return duel.StopResult{}, err
	}
	return r.Stop(userID)
}

// RoundState is the idempotent, side-effect-free state read.
func (s *DuelService) RoundState(matchID string, roundNo int) (duel.Snapshot, error) {
	r, _, err := s.round(matchID, roundNo, false)
	if err != nil {
		return duel.Snapshot{}, err
	}
	return r.State(), nil
}

// CurrentRoundState reads the latest round of a match.
func (s *DuelService) CurrentRoundState(matchID string) (duel.Snapshot, error) {
	e, err := s.entry(matchID)
	if err != nil {
		return duel.Snapshot{}, err
	}
	r := e.match.CurrentRound()
	if r == nil {
		return duel.Snapshot{}, duel.ErrNoSuchRound
	}
	return r.State(), nil
}

// StartNextRound begins the next round once the current one has resolved.
func (s *DuelService) StartNextRound(matchID string, userID int64) (duel.Snapshot, error) {
	e, err := s.entry(matchID)
	if err != nil {
		return duel.Snapshot{}, err
	}
	if !e.match.HasParticipant(userID) {
		return duel.Snapshot{}, duel.ErrNotParticipant
	}

	no, err := e.match.StartNextRound()
	if err != nil {
		return duel.Snapshot{}, err
	}
	r, err := e.match.Round(no)
	if err != nil {
		return duel.Snapshot{}, err
	}

	s.mu.Lock()
	e.lastActive = time.Now()
	s.mu.Unlock()

	return r.State(), nil
}

// dispatchResolution is the single downstream consumer of a round outcome:
// one broadcast per participant via the notifier, then asynchronous history
// rows. It never re-enters the engine.
func (s *DuelService) dispatchResolution(matchID string, roundNo int, o duel.Outcome) {
	roundsResolved.Inc()

	e, err := s.entry(matchID)
	if err != nil {
		logger.Error("resolution for unknown match", "match_id", matchID)
		return
	}
	players := e.match.Players()

	if s.notifier != nil {
		s.notifier.RoundResolved(matchID, roundNo, players, o)
	}

	if s.history != nil {
		r, err := e.match.Round(roundNo)
		if err != nil {
			logger.Error("resolved round missing", "match_id", matchID, "round", roundNo)
			return
		}
		go s.recordHistory(matchID, roundNo, players, r.State(), o)
	}
}

func (s *DuelService) recordHistory(matchID string, roundNo int, players [2]int64, snap duel.Snapshot, o duel.Outcome) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tiers := [2]duel.Tier{o.TierA, o.TierB}
	for i, userID := range players {
		result := domain.DuelResultDraw
		if o.WinnerID != nil {
			if *o.WinnerID == userID {
				result = domain.DuelResultWin
			} else {
				result = domain.DuelResultLose
			}
		}

		dh := &domain.DuelHistory{
			UserID:       userID,
			MatchID:      matchID,
			RoundNo:      roundNo,
			OpponentID:   players[1-i],
			Style:        string(snap.Participants[i].Style),
			Tier:         tiers[i].String(),
			Result:       result,
			Push:         o.Push,
			TieBreakUsed: o.TieBreakUsed,
			Details: map[string]interface{}{
				"swings_used": snap.Participants[i].SwingsUsed,
				"swing_cap":   snap.Participants[i].SwingCap,
			},
		}
		if err := s.history.Create(ctx, dh); err != nil {
			logger.Error("duel history store failed", "match_id", matchID, "user_id", userID, "error", err)
		}
	}
}

// StartCleanup periodically drops matches with no activity. Resolved rounds
// stay readable until then; reconnecting clients use the state read.
func (s *DuelService) StartCleanup(interval, maxIdle time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			s.cleanupStale(maxIdle)
		}
	}()
}

func (s *DuelService) cleanupStale(maxIdle time.Duration) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, e := range s.matches {
		if now.Sub(e.lastActive) > maxIdle {
			e.match.Close()
			delete(s.matches, id)
			logger.Info("cleaned up stale match", "match_id", id)
		}
	}
}
