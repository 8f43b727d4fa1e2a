package duel

import (
	"sync"
	"time"

	"duel_arena/internal/logger"
)

// Phase of a round. Transitions are monotonic:
// style_select → swing → resolved.
type Phase string

const (
	PhaseStyleSelect Phase = "style_select"
	PhaseSwing       Phase = "swing"
	PhaseResolved    Phase = "resolved"
)

// Config holds the engine tunables.
type Config struct {
	BaseSwingCap int
	StyleTimeout time.Duration
	SwingTimeout time.Duration
	PushCurve    PushCurve
}

// DefaultConfig mirrors the nominal tuning: base cap 3, 10s style lock,
// 20s swing phase.
func DefaultConfig() Config {
	return Config{
		BaseSwingCap: 3,
		StyleTimeout: 10 * time.Second,
		SwingTimeout: 20 * time.Second,
		PushCurve:    DefaultPushCurve,
	}
}

type participant struct {
	id      int64
	stats   BaseStats
	styleID StyleID
	locked  bool
	effect  StyleEffect
	params  EffectiveParams

	swingsUsed  int
	currentRoll Tier
	hasRoll     bool
	submitted   bool
}

// lockedBest is the outcome that gets scored: the last roll at submit time,
// or miss for a participant who never swung.
func (p *participant) lockedBest() Tier {
	if !p.hasRoll {
		return TierMiss
	}
	return p.currentRoll
}

// Round is the unit the engine manages. All mutating actions are serialized
// through one mutex so two participants acting in the same millisecond can
// never run the scorer twice or observe torn state. Deadline timers fire
// through the same lock; a timer that loses the race to a participant action
// finds the phase already advanced and becomes a no-op.
type Round struct {
	mu sync.Mutex

	no     int
	cfg    Config
	roller *Roller

	phase Phase
	a, b  participant

	styleDeadline time.Time
	swingDeadline time.Time
	styleTimer    *time.Timer
	swingTimer    *time.Timer

	outcome *Outcome

	// onResolved is invoked exactly once, outside the lock, by whichever
	// action or deadline caused the transition into resolved.
	onResolved func(o Outcome)
}

func newRound(no int, players [2]int64, stats [2]BaseStats, roller *Roller, cfg Config, onResolved func(Outcome)) *Round {
	for i := range stats {
		if stats[i].RollCap <= 0 {
			stats[i].RollCap = cfg.BaseSwingCap
		}
	}
	r := &Round{
		no:     no,
		cfg:    cfg,
		roller: roller,
		phase:  PhaseStyleSelect,
		a:      participant{id: players[0], stats: stats[0]},
		b:      participant{id: players[1], stats: stats[1]},

		onResolved: onResolved,
	}
	r.styleDeadline = time.Now().Add(cfg.StyleTimeout)
	r.styleTimer = time.AfterFunc(cfg.StyleTimeout, r.forceStyleDeadline)
	return r
}

func (r *Round) byID(pid int64) (*participant, *participant) {
	switch pid {
	case r.a.id:
		return &r.a, &r.b
	case r.b.id:
		return &r.b, &r.a
	default:
		return nil, nil
	}
}

// LockResult is the synchronous reply to a lock_style action.
type LockResult struct {
	Accepted       bool    `json:"accepted"`
	LockedStyle    StyleID `json:"locked_style"`
	OpponentLocked bool    `json:"opponent_locked"`
}

// LockStyle records a participant's style choice. A lock, once written,
// never changes for the life of the round. When the second lock lands the
// round advances to the swing phase immediately.
func (r *Round) LockStyle(pid int64, styleID StyleID) (LockResult, error) {
	eff, err := LookupStyle(styleID)
	if err != nil {
		return LockResult{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, opp := r.byID(pid)
	if p == nil {
		return LockResult{}, ErrNotParticipant
	}
	if r.phase == PhaseResolved {
		return LockResult{}, ErrRoundResolved
	}
	if r.phase != PhaseStyleSelect {
		return LockResult{}, ErrWrongPhase
	}
	if p.locked {
		return LockResult{}, ErrStyleAlreadyLocked
	}

	p.styleID = styleID
	p.effect = eff
	p.locked = true

	if opp.locked {
		r.beginSwingLocked()
	}

	return LockResult{Accepted: true, LockedStyle: styleID, OpponentLocked: opp.locked}, nil
}

// beginSwingLocked advances style_select → swing. Caller holds the lock.
// Effective params are folded once here; styles are immutable from now on.
func (r *Round) beginSwingLocked() {
	if r.styleTimer != nil {
		r.styleTimer.Stop()
	}

	for _, p := range []*participant{&r.a, &r.b} {
		if !p.locked {
			// Deadline default: an unlocked participant fights balanced.
			p.styleID = StyleBalanced
			p.effect = styleCatalog[StyleBalanced]
			p.locked = true
		}
	}
	r.a.params = ResolveParams(r.a.effect, r.b.effect, r.a.stats)
	r.b.params = ResolveParams(r.b.effect, r.a.effect, r.b.stats)

	r.phase = PhaseSwing
	r.swingDeadline = time.Now().Add(r.cfg.SwingTimeout)
	r.swingTimer = time.AfterFunc(r.cfg.SwingTimeout, r.forceSwingDeadline)
}

// forceStyleDeadline fires when the style-lock timer elapses. Participants
// who have not locked are assigned the balanced style.
func (r *Round) forceStyleDeadline() {
	r.mu.Lock()
	if r.phase != PhaseStyleSelect {
		r.mu.Unlock()
		return
	}
	r.beginSwingLocked()
	r.mu.Unlock()
}

// SwingResult is the synchronous reply to a swing action.
type SwingResult struct {
	Outcome         Tier `json:"outcome"`
	SwingsUsed      int  `json:"swings_used"`
	SwingsRemaining int  `json:"swings_remaining"`
	BestSoFar       Tier `json:"best_outcome_so_far"`
}

// Swing consumes one roll. The new outcome overwrites any prior roll this
// round — last roll wins, so every extra swing is a gamble.
func (r *Round) Swing(pid int64) (SwingResult, error) {
	r.mu.Lock()

	p, _ := r.byID(pid)
	if p == nil {
		r.mu.Unlock()
		return SwingResult{}, ErrNotParticipant
	}
	if r.phase == PhaseResolved {
		r.mu.Unlock()
		return SwingResult{}, ErrRoundResolved
	}
	if r.phase != PhaseSwing {
		r.mu.Unlock()
		return SwingResult{}, ErrWrongPhase
	}
	if p.submitted {
		r.mu.Unlock()
		return SwingResult{}, ErrAlreadySubmitted
	}
	if p.swingsUsed >= p.params.SwingCap {
		r.mu.Unlock()
		return SwingResult{}, ErrSwingCapReached
	}

	p.swingsUsed++
	p.currentRoll = r.roller.Swing(p.params)
	p.hasRoll = true

	res := SwingResult{
		Outcome:         p.currentRoll,
		SwingsUsed:      p.swingsUsed,
		SwingsRemaining: p.params.SwingCap - p.swingsUsed,
		BestSoFar:       p.currentRoll,
	}
	r.mu.Unlock()
	return res, nil
}

// StopResult is the synchronous reply to a stop action. Outcome is set only
// when this very call caused the round to resolve.
type StopResult struct {
	Best          Tier     `json:"best_outcome"`
	RoundResolved bool     `json:"round_resolved"`
	Outcome       *Outcome `json:"outcome,omitempty"`
}

// Stop locks in the participant's current roll as their scored outcome.
// At least one swing must have been taken. If this submission is the second,
// the round resolves inside this call and the caller receives the outcome in
// the synchronous response; the broadcast side effect fires once, after the
// lock is released.
func (r *Round) Stop(pid int64) (StopResult, error) {
	r.mu.Lock()

	p, opp := r.byID(pid)
	if p == nil {
		r.mu.Unlock()
		return StopResult{}, ErrNotParticipant
	}
	if r.phase == PhaseResolved {
		r.mu.Unlock()
		return StopResult{}, ErrRoundResolved
	}
	if r.phase != PhaseSwing {
		r.mu.Unlock()
		return StopResult{}, ErrWrongPhase
	}
	if p.submitted {
		r.mu.Unlock()
		return StopResult{}, ErrAlreadySubmitted
	}
	if p.swingsUsed == 0 {
		r.mu.Unlock()
		return StopResult{}, ErrNoSwingsTaken
	}

	p.submitted = true

	res := StopResult{Best: p.lockedBest()}
	var fired *Outcome
	if opp.submitted {
		if o := r.resolveLocked(); o != nil {
			res.RoundResolved = true
			res.Outcome = o
			fired = o
		}
	}
	r.mu.Unlock()

	if fired != nil && r.onResolved != nil {
		r.onResolved(*fired)
	}
	return res, nil
}

// forceSwingDeadline fires when the swing timer elapses: every unsubmitted
// participant is force-submitted with their current roll (miss if they never
// swung), exactly as a real stop would apply, and the round resolves.
func (r *Round) forceSwingDeadline() {
	r.mu.Lock()
	if r.phase != PhaseSwing {
		r.mu.Unlock()
		return
	}
	r.a.submitted = true
	r.b.submitted = true

	var fired *Outcome
	if o := r.resolveLocked(); o != nil {
		fired = o
	}
	r.mu.Unlock()

	if fired != nil && r.onResolved != nil {
		r.onResolved(*fired)
	}
}

// resolveLocked runs the scorer exactly once and enters the terminal phase.
// Caller holds the lock. A second invocation is an internal invariant
// violation: it is logged loudly and yields no outcome, so no fabricated
// round_resolved can ever be emitted.
func (r *Round) resolveLocked() *Outcome {
	if r.outcome != nil {
		logger.Error("duel: resolver invoked twice", "round", r.no)
		return nil
	}
	if r.swingTimer != nil {
		r.swingTimer.Stop()
	}

	o := score(&r.a, &r.b, r.cfg.PushCurve)
	r.outcome = &o
	r.phase = PhaseResolved
	return &o
}

// ParticipantState is the public per-participant slice of a snapshot.
type ParticipantState struct {
	ID         int64   `json:"id"`
	Locked     bool    `json:"style_locked"`
	Style      StyleID `json:"style,omitempty"`
	SwingsUsed int     `json:"swings_used"`
	SwingCap   int     `json:"swing_cap,omitempty"`
	Submitted  bool    `json:"submitted"`
}

// Snapshot is the idempotent, side-effect-free read of round state.
type Snapshot struct {
	RoundNo       int                 `json:"round_no"`
	Phase         Phase               `json:"phase"`
	StyleDeadline time.Time           `json:"style_deadline"`
	SwingDeadline *time.Time          `json:"swing_deadline,omitempty"`
	Participants  [2]ParticipantState `json:"participants"`
	Outcome       *Outcome            `json:"outcome,omitempty"`
}

// State returns the current snapshot. After resolution every call returns
// the identical outcome value and triggers no notification side effect.
func (r *Round) State() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := Snapshot{
		RoundNo:       r.no,
		Phase:         r.phase,
		StyleDeadline: r.styleDeadline,
		Outcome:       r.outcome,
	}
	// The swing deadline only exists once the swing phase has been armed.
	if !r.swingDeadline.IsZero() {
		d := r.swingDeadline
		snap.SwingDeadline = &d
	}
	for i, p := range []*participant{&r.a, &r.b} {
		ps := ParticipantState{
			ID:         p.id,
			Locked:     p.locked,
			SwingsUsed: p.swingsUsed,
			Submitted:  p.submitted,
		}
		// Locked styles stay hidden until both are committed and the swing
		// phase has begun.
		if r.phase != PhaseStyleSelect {
			ps.Style = p.styleID
			ps.SwingCap = p.params.SwingCap
		}
		snap.Participants[i] = ps
	}
	return snap
}

// No returns the round's index within its match.
func (r *Round) No() int { return r.no }

// stopTimers releases pending deadline work; used when a match is dropped.
func (r *Round) stopTimers() {
	r.mu.Lock()
	if r.styleTimer != nil {
		r.styleTimer.Stop()
	}
	if r.swingTimer != nil {
		r.swingTimer.Stop()
	}
	r.mu.Unlock()
}
