package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/kasuganosora/railsim/game/battle"
)

// Transcript prints battle events as a readable log, one turn per
// paragraph. It is not safe for concurrent use.
type Transcript struct {
	w     io.Writer
	turns int
}

func NewTranscript(w io.Writer) *Transcript {
	return &Transcript{w: w}
}

// Print writes one event. Events it has no line for are skipped.
func (t *Transcript) Print(evt battle.BattleEvent) {
	switch e := evt.(type) {
	case *battle.EventTurnStart:
		if t.turns > 0 {
			fmt.Fprintln(t.w)
		}
		t.turns++
		fmt.Fprintf(t.w, "At time step %.1f: SP = %d\n", e.Elapsed, e.SP)
	case *battle.EventAction:
		names := make([]string, len(e.Targets))
		for i, u := range e.Targets {
			names[i] = u.Name
		}
		fmt.Fprintf(t.w, "%s uses %s on %s\n", e.Unit.Name, e.Kind, strings.Join(names, " "))
	case *battle.EventDamage:
		line := fmt.Sprintf("  %s takes %.0f DMG", e.Target.Name, math.Round(e.DMG))
		if e.Crit {
			line += " (CRIT)"
		}
		fmt.Fprintln(t.w, line)
	case *battle.EventWeaknessBreak:
		fmt.Fprintf(t.w, "  %s's %s weakness is broken\n", e.Target.Name, e.Type)
	case *battle.EventHeal:
		fmt.Fprintf(t.w, "  %s restores %.0f HP\n", e.Target.Name, math.Round(e.Amount))
	case *battle.EventConsumeHP:
		fmt.Fprintf(t.w, "  %s consumes %.0f HP\n", e.Target.Name, math.Round(e.Amount))
	case *battle.EventDebuffApplied:
		fmt.Fprintf(t.w, "  %s is inflicted with %s\n", e.Target.Name, e.ID)
	case *battle.EventBattleEnd:
		fmt.Fprintf(t.w, "\nBattle over at time step %.1f after %d turns\n", e.Elapsed, e.Turns)
		if e.Err != "" {
			fmt.Fprintf(t.w, "Aborted: %s\n", e.Err)
		}
	}
}
