package duel

import "testing"

func scoreFixture(t *testing.T, idA, idB int64, styleA, styleB StyleID, bestA, bestB Tier) Outcome {
	t.Helper()
	effA := mustStyle(t, styleA)
	effB := mustStyle(t, styleB)
	stats := BaseStats{HitChance: 0.65, CritRate: 0.10, RollCap: 3}

	a := &participant{id: idA, currentRoll: bestA, hasRoll: true, submitted: true}
	b := &participant{id: idB, currentRoll: bestB, hasRoll: true, submitted: true}
	a.params = ResolveParams(effA, effB, stats)
	b.params = ResolveParams(effB, effA, stats)

	return score(a, b, DefaultPushCurve)
}

func TestScoreHigherTierWins(t *testing.T) {
	out := scoreFixture(t, 1, 2, StyleBalanced, StyleBalanced, TierHit, TierMiss)
	if out.WinnerID == nil || *out.WinnerID != 1 {
		t.Fatalf("winner = %v; want 1", out.WinnerID)
	}
	if out.Push != 10 {
		t.Fatalf("push = %d; want curve(1) = 10", out.Push)
	}
	if out.TieBreakUsed {
		t.Fatal("tie break must not be used on a clear win")
	}
}

func TestScoreTwoTierMargin(t *testing.T) {
	out := scoreFixture(t, 1, 2, StyleBalanced, StyleBalanced, TierCritical, TierMiss)
	if out.WinnerID == nil || *out.WinnerID != 1 {
		t.Fatalf("winner = %v; want 1", out.WinnerID)
	}
	if out.Push != 25 {
		t.Fatalf("push = %d; want curve(2) = 25", out.Push)
	}
}

func TestScoreFeintTieBreakMatrix(t *testing.T) {
	tiers := []Tier{TierMiss, TierHit, TierCritical}
	for _, tier := range tiers {
		// Exactly one feint wins the tie.
		out := scoreFixture(t, 1, 2, StyleFeint, StyleBalanced, tier, tier)
		if out.WinnerID == nil || *out.WinnerID != 1 {
			t.Fatalf("tier %s: feint user should win tie, got %v", tier, out.WinnerID)
		}
		if !out.TieBreakUsed {
			t.Fatalf("tier %s: tie_break_used should be true", tier)
		}

		out = scoreFixture(t, 1, 2, StyleBalanced, StyleFeint, tier, tier)
		if out.WinnerID == nil || *out.WinnerID != 2 {
			t.Fatalf("tier %s: feint user (B) should win tie, got %v", tier, out.WinnerID)
		}

		// Zero or two feints leave a draw with no push.
		for _, pair := range [][2]StyleID{{StyleBalanced, StyleBalanced}, {StyleFeint, StyleFeint}} {
			out = scoreFixture(t, 1, 2, pair[0], pair[1], tier, tier)
			if out.WinnerID != nil {
				t.Fatalf("tier %s styles %v: want draw, got winner %d", tier, pair, *out.WinnerID)
			}
			if out.Push != 0 {
				t.Fatalf("tier %s styles %v: draw push = %d; want 0", tier, pair, out.Push)
			}
			if out.TieBreakUsed {
				t.Fatalf("tier %s styles %v: tie_break_used should be false", tier, pair)
			}
		}
	}
}

func TestScorePowerPushMultipliers(t *testing.T) {
	// Winner's own Power scales the push by 1.25.
	out := scoreFixture(t, 1, 2, StylePower, StyleBalanced, TierHit, TierMiss)
	if out.Push != 12 { // 10 × 1.25 = 12.5, truncated
		t.Fatalf("power winner push = %d; want 12", out.Push)
	}

	// A losing Power participant independently inflates the winner's push.
	out = scoreFixture(t, 1, 2, StyleBalanced, StylePower, TierHit, TierMiss)
	if out.Push != 12 { // 10 × 1.0 × 1.20 = 12
		t.Fatalf("push vs losing power = %d; want 12", out.Push)
	}

	// Both multipliers apply in sequence, never averaged or canceled.
	out = scoreFixture(t, 1, 2, StylePower, StylePower, TierHit, TierMiss)
	if out.Push != 15 { // 10 × 1.25 × 1.20 = 15
		t.Fatalf("power vs power push = %d; want 15", out.Push)
	}
}

func TestScoreNeverSwungCountsAsMiss(t *testing.T) {
	effA := mustStyle(t, StyleBalanced)
	stats := BaseStats{HitChance: 0.65, CritRate: 0.10, RollCap: 3}

	a := &participant{id: 1, currentRoll: TierHit, hasRoll: true, submitted: true}
	b := &participant{id: 2, hasRoll: false, submitted: true}
	a.params = ResolveParams(effA, effA, stats)
	b.params = ResolveParams(effA, effA, stats)

	out := score(a, b, DefaultPushCurve)
	if out.TierB != TierMiss {
		t.Fatalf("tier of non-swinger = %s; want miss", out.TierB)
	}
	if out.WinnerID == nil || *out.WinnerID != 1 {
		t.Fatalf("winner = %v; want 1", out.WinnerID)
	}
}
