package loadout

import (
	"errors"
	"fmt"

	"github.com/kasuganosora/railsim/game/battle"
	"github.com/kasuganosora/railsim/game/stats"
)

// ErrUnknownStat is returned for a relic stat name that maps to nothing.
var ErrUnknownStat = errors.New("loadout: unknown relic stat")

// MainStatDMGBoost names the elemental DMG Boost main stat. It applies to the
// wearer's damage type; a damage type name picks the type explicitly.
const MainStatDMGBoost = "DMG Boost"

// MainStats holds the value of every relic main stat at max level.
var MainStats = map[string]float64{
	"HP":                       705.5,
	"HP Percentage":            0.432,
	"ATK":                      352.7,
	"ATK Percentage":           0.432,
	"DEF Percentage":           0.54,
	"SPD":                      25,
	"CRIT Rate":                0.324,
	"CRIT DMG":                 0.648,
	"Outgoing Healing Boost":   0.3456,
	"Effect Hit Rate":          0.432,
	"Break Effect":             0.648,
	"Energy Regeneration Rate": 0.1944,
	MainStatDMGBoost:           0.3888,
}

// SubStat is one rolled sub stat.
type SubStat struct {
	Stat  string  `yaml:"stat"`
	Value float64 `yaml:"value"`
}

// bonus is a resolved set of relic stats.
type bonus struct {
	extra    stats.Extra
	scalar   map[stats.Stat]float64
	dmgBoost map[stats.DamageType]float64
}

func (b *bonus) add(name string, v float64, wearer stats.DamageType) error {
	switch name {
	case "HP":
		b.extra.HP += v
	case "HP Percentage":
		b.extra.HPPercent += v
	case "ATK":
		b.extra.ATK += v
	case "ATK Percentage":
		b.extra.ATKPercent += v
	case "DEF":
		b.extra.DEF += v
	case "DEF Percentage":
		b.extra.DEFPercent += v
	case "SPD":
		b.extra.SPD += v
	case "SPD Percentage":
		b.extra.SPDPercent += v
	case MainStatDMGBoost:
		b.dmgBoost[wearer] += v
	default:
		if t := stats.DamageType(name); t.Valid() {
			b.dmgBoost[t] += v
			return nil
		}
		s, ok := stats.ParseScalar(name)
		if !ok {
			return fmt.Errorf("%w %q", ErrUnknownStat, name)
		}
		b.scalar[s] += v
	}
	return nil
}

func (b *bonus) contribute(base *stats.Sheet, extra *stats.Extra) {
	for s, v := range b.scalar {
		base.Add(s, v)
	}
	for t, v := range b.dmgBoost {
		base.AddKeyed(stats.DMGBoost, string(t), v)
	}
	extra.Add(b.extra)
}

// Relic adds a set of main stats and sub stats.
type Relic struct {
	Modifier
	bonus bonus
}

// NewRelic wraps next with the given main stats (names from MainStats, or a
// damage type for that type's DMG Boost) and sub stats.
func NewRelic(next battle.Unit, main []string, sub []SubStat) (*Relic, error) {
	r, err := newRelic(next, main, sub)
	if err != nil {
		return nil, err
	}
	r.Bind(r)
	return r, nil
}

func newRelic(next battle.Unit, main []string, sub []SubStat) (*Relic, error) {
	r := &Relic{
		Modifier: Modifier{next},
		bonus: bonus{
			scalar:   make(map[stats.Stat]float64),
			dmgBoost: make(map[stats.DamageType]float64),
		},
	}
	wearer := next.DamageType()
	for _, name := range main {
		v, ok := MainStats[name]
		if !ok && stats.DamageType(name).Valid() {
			v, ok = MainStats[MainStatDMGBoost], true
		}
		if !ok {
			return nil, fmt.Errorf("main stat: %w %q", ErrUnknownStat, name)
		}
		if err := r.bonus.add(name, v, wearer); err != nil {
			return nil, fmt.Errorf("main stat: %w", err)
		}
	}
	for _, s := range sub {
		if err := r.bonus.add(s.Stat, s.Value, wearer); err != nil {
			return nil, fmt.Errorf("sub stat: %w", err)
		}
	}
	return r, nil
}

func (r *Relic) ContributeStats(base *stats.Sheet, extra *stats.Extra) {
	r.Unit.ContributeStats(base, extra)
	r.bonus.contribute(base, extra)
}

// Arena thresholds.
const (
	arenaCritRate  = 0.08
	arenaThreshold = 0.7
	arenaDMGBoost  = 0.2
)

// Arena is a planar set: +8% CRIT Rate, and +20% DMG Boost for Basic ATK and
// Skill damage while runtime CRIT Rate is at least 70%.
type Arena struct {
	*Relic
}

func NewArena(next battle.Unit, main []string, sub []SubStat) (*Arena, error) {
	r, err := newRelic(next, main, sub)
	if err != nil {
		return nil, err
	}
	r.bonus.scalar[stats.CritRate] += arenaCritRate
	a := &Arena{Relic: r}
	a.Bind(a)
	return a, nil
}

// AmendOutgoingDMG adds the conditional boost on top of the inner result. The
// extra 20% stacks additively with the wearer's DMG Boost.
func (a *Arena) AmendOutgoingDMG(d battle.Damage, target battle.Unit, tags stats.Tags, f *battle.Field) battle.Damage {
	out := a.Unit.AmendOutgoingDMG(d, target, tags, f)
	rt := a.Stats()
	if (tags.Has(stats.TagBasicATK) || tags.Has(stats.TagSkill)) && rt.Get(stats.CritRate) >= arenaThreshold {
		out.DMG += arenaDMGBoost * d.DMG * (1 - rt.Get(stats.Weaken))
	}
	return out
}
