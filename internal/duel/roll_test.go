package duel

import "testing"

func TestTierForBands(t *testing.T) {
	p := EffectiveParams{HitChance: 0.65, CritRate: 0.10}

	cases := []struct {
		u    float64
		want Tier
	}{
		{0.0, TierCritical},
		{0.0999, TierCritical},
		{0.10, TierHit},  // crit band is [0, 0.10)
		{0.6499, TierHit},
		{0.65, TierMiss}, // hit band is [0.10, 0.65)
		{0.99, TierMiss},
	}

	for _, tc := range cases {
		if got := tierFor(tc.u, p); got != tc.want {
			t.Fatalf("tierFor(%v) = %s; want %s", tc.u, got, tc.want)
		}
	}
}

func TestTierForHitBandFlooredAtZero(t *testing.T) {
	// Crit rate above hit chance must not produce a negative hit band.
	p := EffectiveParams{HitChance: 0.05, CritRate: 0.20}
	if got := tierFor(0.10, p); got != TierCritical {
		t.Fatalf("tierFor(0.10) = %s; want critical", got)
	}
	if got := tierFor(0.25, p); got != TierMiss {
		t.Fatalf("tierFor(0.25) = %s; want miss", got)
	}
}

func TestTierOrdering(t *testing.T) {
	if !(TierMiss < TierHit && TierHit < TierCritical) {
		t.Fatal("tier ordering must be miss < hit < critical")
	}
}

func TestSeededRollerDeterminism(t *testing.T) {
	p := EffectiveParams{HitChance: 0.65, CritRate: 0.10}

	a := NewSeededRoller(42)
	b := NewSeededRoller(42)
	for i := 0; i < 100; i++ {
		if ra, rb := a.Swing(p), b.Swing(p); ra != rb {
			t.Fatalf("draw %d diverged: %s vs %s", i, ra, rb)
		}
	}
}

func TestTierJSONRoundTrip(t *testing.T) {
	for _, tier := range []Tier{TierMiss, TierHit, TierCritical} {
		b, err := tier.MarshalJSON()
		if err != nil {
			t.Fatalf("marshal %s: %v", tier, err)
		}
		var back Tier
		if err := back.UnmarshalJSON(b); err != nil {
			t.Fatalf("unmarshal %s: %v", b, err)
		}
		if back != tier {
			t.Fatalf("round trip %s -> %s", tier, back)
		}
	}
}
