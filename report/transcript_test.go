package report

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/kasuganosora/railsim/config"
	"github.com/kasuganosora/railsim/game/battle"
	"github.com/kasuganosora/railsim/resource"
	"github.com/kasuganosora/railsim/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ref(name string) battle.UnitRef { return battle.UnitRef{Name: name} }

func TestTranscript_Print(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTranscript(&buf)

	for _, evt := range []battle.BattleEvent{
		&battle.EventBattleStart{},
		&battle.EventTurnStart{Elapsed: 97.0874, SP: 3},
		&battle.EventAction{Kind: "Skill", Unit: ref("Blade"), Targets: []battle.UnitRef{ref("Blade")}},
		&battle.EventSP{Change: -1, SP: 2},
		&battle.EventConsumeHP{Target: ref("Blade"), Amount: 521.47},
		&battle.EventTurnStart{Elapsed: 100, SP: 2},
		&battle.EventAction{Kind: "Basic ATK", Unit: ref("Boss1"), Targets: []battle.UnitRef{ref("Blade")}},
		&battle.EventDamage{Target: ref("Blade"), DMG: 610.6, Crit: true},
		&battle.EventWeaknessBreak{Target: ref("Boss1"), Type: "Wind"},
		&battle.EventDebuffApplied{Target: ref("Boss1"), ID: "Wind Shear"},
		&battle.EventHeal{Target: ref("Blade"), Amount: 100.2},
		&battle.EventBattleEnd{Elapsed: 100, Turns: 2},
	} {
		tr.Print(evt)
	}

	want := strings.Join([]string{
		"At time step 97.1: SP = 3",
		"Blade uses Skill on Blade",
		"  Blade consumes 521 HP",
		"",
		"At time step 100.0: SP = 2",
		"Boss1 uses Basic ATK on Blade",
		"  Blade takes 611 DMG (CRIT)",
		"  Boss1's Wind weakness is broken",
		"  Boss1 is inflicted with Wind Shear",
		"  Blade restores 100 HP",
		"",
		"Battle over at time step 100.0 after 2 turns",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestTranscript_Aborted(t *testing.T) {
	var buf bytes.Buffer
	NewTranscript(&buf).Print(&battle.EventBattleEnd{Err: "battle: protocol violation"})
	assert.Contains(t, buf.String(), "Aborted: battle: protocol violation\n")
}

func TestTranscript_FromRunner(t *testing.T) {
	r, err := resource.LoadRoster("../data/roster.yaml")
	require.NoError(t, err)
	cfg := config.Default()
	cfg.Sim.Seed = 3

	var buf bytes.Buffer
	runner := sim.NewRunner(r, cfg.Battle, cfg.Sim, nil)
	runner.Trace = NewTranscript(&buf).Print
	_, err = runner.Run(context.Background(), 1)
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "At time step "), out[:min(len(out), 80)])
	assert.Contains(t, out, "Blade uses Skill on Blade\n")
	assert.Contains(t, out, " takes ")
	assert.Contains(t, out, "Battle over at time step ")
}
