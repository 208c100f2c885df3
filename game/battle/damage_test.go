package battle

import (
	"math/rand"
	"testing"

	"github.com/kasuganosora/railsim/game/stats"
	"github.com/stretchr/testify/assert"
)

func TestCanCrit(t *testing.T) {
	assert.True(t, CanCrit(stats.NewTags(stats.Fire, stats.TagSkill)))
	assert.False(t, CanCrit(stats.NewTags(stats.Fire, stats.TagDoT)))
	assert.False(t, CanCrit(stats.NewTags(stats.Fire, stats.TagBreak)))
}

func TestOutgoingMultiplier(t *testing.T) {
	s := stats.NewSheet()
	s.AddKeyed(stats.DMGBoost, stats.KeyAll, 0.1)
	s.AddKeyed(stats.DMGBoost, "Wind", 0.2)
	s.AddKeyed(stats.DMGBoost, stats.TagUltimate, 0.3)
	s.Set(stats.BreakEffect, 1.5)

	assert.InDelta(t, 1.6, OutgoingMultiplier(s, stats.NewTags(stats.Wind, stats.TagUltimate)), 1e-9)
	assert.InDelta(t, 1.1, OutgoingMultiplier(s, stats.NewTags(stats.Fire, stats.TagSkill)), 1e-9)
	// Break damage ignores DMG Boost.
	assert.InDelta(t, 2.5, OutgoingMultiplier(s, stats.NewTags(stats.Wind, stats.TagBreak)), 1e-9)

	s.Set(stats.Weaken, 0.25)
	assert.InDelta(t, 1.2, OutgoingMultiplier(s, stats.NewTags(stats.Wind, stats.TagUltimate)), 1e-9)
}

func TestApplyCrit(t *testing.T) {
	d := Damage{DMG: 1000, Break: 30}

	got, crit := ApplyCrit(d, 0.5, 1, nil, true)
	assert.False(t, crit)
	assert.InDelta(t, 1500, got.DMG, 1e-9)
	assert.Equal(t, 30.0, got.Break)

	got, _ = ApplyCrit(d, 1.7, 1, nil, true)
	assert.InDelta(t, 2000, got.DMG, 1e-9, "crit rate is clamped to 1")

	got, _ = ApplyCrit(d, -0.3, 1, nil, true)
	assert.InDelta(t, 1000, got.DMG, 1e-9)

	rng := rand.New(rand.NewSource(1))
	got, crit = ApplyCrit(d, 1, 0.5, rng, false)
	assert.True(t, crit)
	assert.InDelta(t, 1500, got.DMG, 1e-9)

	got, crit = ApplyCrit(d, 0, 0.5, rng, false)
	assert.False(t, crit)
	assert.Equal(t, d, got)
}

func TestDEFMultiplier(t *testing.T) {
	// Level 80 attacker against the default enemy DEF.
	assert.InDelta(t, 1000.0/2100, DEFMultiplier(1100, 0, 80), 1e-9)
	assert.InDelta(t, 1.0, DEFMultiplier(0, 0, 80), 1e-9)
	assert.InDelta(t, 1000.0/1550, DEFMultiplier(1100, 0.5, 80), 1e-9)
	assert.InDelta(t, 1.0, DEFMultiplier(1100, 1.2, 80), 1e-9, "effective DEF floors at 0")
}

func TestRESMultiplier(t *testing.T) {
	assert.InDelta(t, 0.8, RESMultiplier(0.2, 0), 1e-9)
	assert.InDelta(t, 1.0, RESMultiplier(0.2, 0.2), 1e-9)
	assert.InDelta(t, 0.1, RESMultiplier(1.5, 0), 1e-9)
	assert.InDelta(t, 2.0, RESMultiplier(-0.5, 1), 1e-9)
}

func TestIncomingMultiplier(t *testing.T) {
	src := stats.NewSheet()
	dst := stats.NewSheet()
	dst.Set(stats.DEF, 1000)
	dst.SetKeyed(stats.RESBoost, "Fire", 0.2)
	tags := stats.NewTags(stats.Fire, stats.TagSkill)

	base := DEFMultiplier(1000, 0, 80) * 0.8
	assert.InDelta(t, base, IncomingMultiplier(dst, src, 80, tags), 1e-9)

	dst.AddKeyed(stats.DMGTakenIncrease, stats.KeyAll, 0.2)
	dst.AddKeyed(stats.DMGTakenIncrease, stats.TagSkill, 0.1)
	assert.InDelta(t, base*1.3, IncomingMultiplier(dst, src, 80, tags), 1e-9)

	dst.AddKeyed(stats.DMGTakenIncrease, stats.KeyAll, 5)
	assert.InDelta(t, base*MaxDMGTakenMult, IncomingMultiplier(dst, src, 80, tags), 1e-9)

	dst.Set(stats.DMGTakenDecrease, 0.5)
	assert.InDelta(t, base*MaxDMGTakenMult*0.5, IncomingMultiplier(dst, src, 80, tags), 1e-9)
}
