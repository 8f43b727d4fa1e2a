package duel

import "sync"

// Match owns two participants and an ordered sequence of rounds. It lives in
// memory for the duration of the contest; persistence of resolved rounds is
// a downstream consumer's concern.
type Match struct {
	mu sync.Mutex

	id      string
	players [2]int64
	stats   [2]BaseStats
	roller  *Roller
	cfg     Config
	rounds  []*Round

	// onResolved receives every round outcome exactly once.
	onResolved func(roundNo int, o Outcome)
}

func NewMatch(id string, players [2]int64, stats [2]BaseStats, cfg Config, onResolved func(roundNo int, o Outcome)) *Match {
	if cfg.PushCurve == nil {
		cfg.PushCurve = DefaultPushCurve
	}
	if cfg.BaseSwingCap <= 0 {
		cfg.BaseSwingCap = 3
	}
	return &Match{
		id:         id,
		players:    players,
		stats:      stats,
		roller:     NewRoller(),
		cfg:        cfg,
		onResolved: onResolved,
	}
}

func (m *Match) ID() string { return m.id }

// Players returns both participant ids in seat order.
func (m *Match) Players() [2]int64 { return m.players }

// HasParticipant reports whether pid belongs to this match.
func (m *Match) HasParticipant(pid int64) bool {
	return pid == m.players[0] || pid == m.players[1]
}

// StartNextRound creates the next round in style_select phase and arms its
// style deadline, but only once the current round has resolved. The decision
// to continue or end the match stays outside the engine; this just refuses
// to run two rounds at once.
func (m *Match) StartNextRound() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.rounds) > 0 {
		last := m.rounds[len(m.rounds)-1]
		last.mu.Lock()
		unresolved := last.phase != PhaseResolved
		last.mu.Unlock()
		if unresolved {
			return 0, ErrRoundInProgress
		}
	}

	no := len(m.rounds) + 1
	r := newRound(no, m.players, m.stats, m.roller, m.cfg, func(o Outcome) {
		if m.onResolved != nil {
			m.onResolved(no, o)
		}
	})
	m.rounds = append(m.rounds, r)
	return no, nil
}

// Round looks up a round by its 1-based number.
func (m *Match) Round(no int) (*Round, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if no < 1 || no > len(m.rounds) {
		return nil, ErrNoSuchRound
	}
	return m.rounds[no-1], nil
}

// CurrentRound returns the most recent round, or nil before the first one.
func (m *Match) CurrentRound() *Round {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.rounds) == 0 {
		return nil
	}
	return m.rounds[len(m.rounds)-1]
}

// Close stops all pending deadline timers; used when the match is dropped.
func (m *Match) Close() {
	m.mu.Lock()
	rounds := append([]*Round(nil), m.rounds...)
	m.mu.Unlock()

	for _, r := range rounds {
		r.stopTimers()
	}
}
