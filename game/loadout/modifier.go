package loadout

import "github.com/kasuganosora/railsim/game/battle"

// Modifier forwards every Unit method to the next layer of the chain.
// Concrete modifiers embed it and override only the hooks they change.
type Modifier struct {
	battle.Unit
}

// Next returns the wrapped unit.
func (m Modifier) Next() battle.Unit { return m.Unit }

// Unwrap peels every modifier off u and returns the innermost unit.
func Unwrap(u battle.Unit) battle.Unit {
	for {
		w, ok := u.(interface{ Next() battle.Unit })
		if !ok {
			return u
		}
		u = w.Next()
	}
}

func superimposed(s int) float64 {
	return float64(min(max(s, 1), 5) - 1)
}
