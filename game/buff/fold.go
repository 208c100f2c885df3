package buff

import (
	"fmt"

	"github.com/kasuganosora/railsim/game/stats"
)

// StatusSet is the set of crowd-control states derived from debuffs.
type StatusSet map[Status]struct{}

func (s StatusSet) Has(st Status) bool {
	_, ok := s[st]
	return ok
}

// Fold applies every buff additively and every debuff subtractively to rt
// and returns the resulting crowd-control set. DMG Taken Decrease buffs
// combine as complements: 1-(1-a)(1-v).
func Fold(rt *stats.Sheet, buffs, debuffs []Record) StatusSet {
	status := make(StatusSet)
	for _, r := range buffs {
		apply(rt, r, 1, status)
	}
	for _, r := range debuffs {
		apply(rt, r, -1, status)
	}
	return status
}

func apply(rt *stats.Sheet, r Record, sign float64, status StatusSet) {
	n := float64(r.Stack)
	switch e := r.Effect.(type) {
	case StatDelta:
		v := n * e.Value
		if e.Stat == stats.DMGTakenDecrease && sign > 0 {
			rt.Set(e.Stat, 1-(1-rt.Get(e.Stat))*(1-v))
			return
		}
		rt.Add(e.Stat, sign*v)
	case KeyedDelta:
		rt.AddKeyed(e.Stat, e.Key, sign*n*e.Value)
	case Crit:
		rt.Add(stats.CritRate, sign*n*e.Rate)
		rt.Add(stats.CritDMG, sign*n*e.DMG)
	case CrowdControl:
		status[e.Status] = struct{}{}
		rt.Add(stats.SPD, -n*e.SPDCut)
	case DoT, HealOverTime:
		// Resolved into commands at turn start.
	case nil:
	default:
		panic(fmt.Sprintf("buff: unhandled effect %T in record %q", e, r.ID))
	}
}
