package roster

import (
	"context"
	"math/rand"
	"testing"

	"github.com/kasuganosora/railsim/game/battle"
	"github.com/kasuganosora/railsim/game/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDummy_BasicATK(t *testing.T) {
	d := NewDummy("Dummy")
	f := newField(threeEnemies(), []battle.Unit{d})

	a := d.ChooseAction(f)
	require.Equal(t, battle.ActionBasicATK, a.Kind)
	require.Len(t, a.Targets, 1)

	cmds, done := d.BasicATK(a.Targets, 1)
	require.True(t, done)
	assert.Equal(t, []battle.CommandKind{battle.CmdStartATK, battle.CmdGainSP, battle.CmdDMG, battle.CmdEndATK}, kinds(cmds))
	assert.InDelta(t, 2000, cmds[2].Hits[0].Damage.DMG, 1e-9)

	f.Enemies = nil
	assert.Equal(t, battle.ActionPass, d.ChooseAction(f).Kind)
}

func TestRoster_FullBattle(t *testing.T) {
	blade := NewBlade("")
	lunae := NewImbibitorLunae("")
	enemies := []battle.Unit{
		NewEnemy(EnemyConfig{Name: "E0", Weaknesses: []stats.DamageType{stats.Wind}}),
		NewBoss(EnemyConfig{Name: "Boss", Weaknesses: []stats.DamageType{stats.Imaginary}}),
		NewEnemy(EnemyConfig{Name: "E2"}),
	}

	bi := battle.NewBattleInstance(battle.BattleConfig{
		Length:   850,
		RNG:      rand.New(rand.NewSource(42)),
		AutoHeal: true,
	}, enemies, []battle.Unit{blade, lunae})
	res, err := bi.Run(context.Background())
	require.NoError(t, err)

	assert.Positive(t, res.Turns)
	assert.Positive(t, blade.Tally().Total())
	assert.Positive(t, lunae.Tally().Total())
	assert.NoError(t, blade.Err())
}
