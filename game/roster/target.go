// Package roster holds the concrete combatants: enemies, bosses and playable
// characters built on battle.Base.
package roster

import (
	"math/rand"

	"github.com/kasuganosora/railsim/game/battle"
	"github.com/kasuganosora/railsim/game/stats"
)

// ByTaunt picks one unit at random, weighted by runtime Taunt. If no unit has
// positive Taunt the pick is uniform.
func ByTaunt(units []battle.Unit, rng *rand.Rand) battle.Unit {
	if len(units) == 0 {
		return nil
	}
	total := 0.0
	for _, u := range units {
		total += max(u.Stats().Get(stats.Taunt), 0)
	}
	if total <= 0 {
		return units[rng.Intn(len(units))]
	}

	roll := rng.Float64() * total
	for _, u := range units {
		roll -= max(u.Stats().Get(stats.Taunt), 0)
		if roll < 0 {
			return u
		}
	}
	return units[len(units)-1]
}

// Blast returns the middle unit followed by its left and right neighbours.
func Blast(units []battle.Unit) []battle.Unit {
	if len(units) == 0 {
		return nil
	}
	c := len(units) / 2
	out := []battle.Unit{units[c]}
	if c > 0 {
		out = append(out, units[c-1])
	}
	if c+1 < len(units) {
		out = append(out, units[c+1])
	}
	return out
}

// energyGain scales a base energy amount by the unit's Energy Regeneration
// Rate.
func energyGain(u battle.Unit, amount float64) float64 {
	return amount * (1 + u.Stats().Get(stats.EnergyRegenerationRate))
}

func pass(u battle.Unit) battle.Action {
	return battle.NewAction(battle.ActionPass, u)
}
