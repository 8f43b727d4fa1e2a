package duel

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"encoding/json"
	"math/rand"
	"sync"
)

// Tier is the ordered outcome category of one swing.
type Tier int

const (
	TierMiss Tier = iota
	TierHit
	TierCritical
)

func (t Tier) String() string {
	switch t {
	case TierCritical:
		return "critical"
	case TierHit:
		return "hit"
	default:
		return "miss"
	}
}

func (t Tier) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Tier) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "critical":
		*t = TierCritical
	case "hit":
		*t = TierHit
	default:
		*t = TierMiss
	}
	return nil
}

// tierFor maps one uniform draw u in [0,1) onto an outcome tier: the crit
// band comes first (size = effective crit rate), then the hit band (size =
// hit chance minus crit rate, floored at 0), then miss.
func tierFor(u float64, p EffectiveParams) Tier {
	crit := clamp01(p.CritRate)
	hit := clamp01(p.HitChance)
	if u < crit {
		return TierCritical
	}
	band := hit - crit
	if band < 0 {
		band = 0
	}
	if u < crit+band {
		return TierHit
	}
	return TierMiss
}

// Roller is a per-match random source. A single round never draws
// concurrently with itself, but two rounds of different matches may share a
// process, so draws are mutex-guarded.
type Roller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRoller seeds a roller from crypto entropy.
func NewRoller() *Roller {
	var b [8]byte
	if _, err := cryptorand.Read(b[:]); err != nil {
		// Entropy failure is fatal for fairness; surface instead of degrading.
		panic("duel: crypto entropy unavailable: " + err.Error())
	}
	return NewSeededRoller(int64(binary.LittleEndian.Uint64(b[:])))
}

// NewSeededRoller builds a deterministic roller for replay and tests.
func NewSeededRoller(seed int64) *Roller {
	return &Roller{rng: rand.New(rand.NewSource(seed))}
}

// Swing consumes exactly one draw and returns the outcome tier.
func (r *Roller) Swing(p EffectiveParams) Tier {
	r.mu.Lock()
	u := r.rng.Float64()
	r.mu.Unlock()
	return tierFor(u, p)
}
