package battle

import (
	"math/rand"

	"github.com/kasuganosora/railsim/game/stats"
)

// Caps used by the incoming damage pipeline.
const (
	MinRES          = -1.0
	MaxRES          = 0.9
	MaxDMGTakenMult = 3.5
)

// CanCrit reports whether damage with these tags may crit.
func CanCrit(tags stats.Tags) bool {
	return !tags.Has(stats.TagDoT) && !tags.Has(stats.TagBreak)
}

// OutgoingMultiplier is the attacker-side multiplier: DMG Boost summed over
// All and every matching tag, or Break Effect for break damage, times
// Weaken.
func OutgoingMultiplier(src *stats.Sheet, tags stats.Tags) float64 {
	boost := 1 + src.SumTags(stats.DMGBoost, tags)
	if tags.Has(stats.TagBreak) {
		boost = 1 + src.Get(stats.BreakEffect)
	}
	return boost * (1 - src.Get(stats.Weaken))
}

// ApplyCrit resolves the crit multiplier. In expected mode the damage is
// scaled by 1 + clamp(rate, 0, 1) * critDMG and never reports a crit. In
// stochastic mode rng decides.
func ApplyCrit(d Damage, rate, critDMG float64, rng *rand.Rand, expected bool) (Damage, bool) {
	if expected {
		return d.Scale(1 + clamp(rate, 0, 1)*critDMG), false
	}
	if rng.Float64() < rate {
		return d.Scale(1 + critDMG), true
	}
	return d, false
}

// DEFMultiplier is (10L+200) / (10L+200+effDEF) with L the attacker level.
func DEFMultiplier(def, defIgnore float64, level int) float64 {
	eff := max(def-defIgnore*def, 0)
	k := float64(level)*10 + 200
	return k / (k + eff)
}

// RESMultiplier is 1 - clamp(RES - RES PEN, -1, 0.9).
func RESMultiplier(res, pen float64) float64 {
	return 1 - clamp(res-pen, MinRES, MaxRES)
}

// IncomingMultiplier combines DEF, RES, DMG Taken Increase and DMG Taken
// Decrease for a hit from an attacker with sheet src and level.
func IncomingMultiplier(dst, src *stats.Sheet, level int, tags stats.Tags) float64 {
	t := string(tags.Type())
	m := DEFMultiplier(dst.Get(stats.DEF), src.Get(stats.DEFIgnore), level)
	m *= RESMultiplier(dst.Keyed(stats.RESBoost, t), src.Keyed(stats.RESPEN, t))
	m *= min(1+dst.SumTags(stats.DMGTakenIncrease, tags), MaxDMGTakenMult)
	return m * (1 - dst.Get(stats.DMGTakenDecrease))
}
