package roster

import (
	"fmt"
	"maps"

	"github.com/kasuganosora/railsim/game/battle"
	"github.com/kasuganosora/railsim/game/buff"
	"github.com/kasuganosora/railsim/game/stats"
)

// Enemy defaults. Zero fields of an EnemyConfig take these values.
const (
	DefaultEnemyHP        = 20000
	DefaultEnemyATK       = 1000
	DefaultEnemyDEF       = 1100
	DefaultEnemySPD       = 100
	DefaultEnemyTaunt     = 100
	DefaultEnemyRES       = 0.2
	DefaultEnemyToughness = 60
	DefaultBossToughness  = 450
	DefaultBossMiniTurns  = 2
)

// EnemyConfig describes an Enemy or a Boss.
type EnemyConfig struct {
	Name       string
	DamageType stats.DamageType // default Physical
	Level      int              // default battle.DefaultEnemyLevel
	// Profile fields left at zero take the enemy defaults. A nil RESBoost
	// gives DefaultEnemyRES against every type; weaknesses are always 0.
	Profile      stats.Profile
	Weaknesses   []stats.DamageType
	MaxToughness float64
	// Formula replaces the 1×ATK Basic ATK damage when set. a is the enemy,
	// b the target.
	Formula *battle.Formula
	// MiniTurns is the number of actions a Boss takes per turn.
	MiniTurns int
}

func (cfg EnemyConfig) unit(boss bool) battle.UnitConfig {
	p := cfg.Profile
	p.HP = orDefault(p.HP, DefaultEnemyHP)
	p.ATK = orDefault(p.ATK, DefaultEnemyATK)
	p.DEF = orDefault(p.DEF, DefaultEnemyDEF)
	p.SPD = orDefault(p.SPD, DefaultEnemySPD)
	p.Taunt = orDefault(p.Taunt, DefaultEnemyTaunt)

	res := make(map[stats.DamageType]float64, len(stats.DamageTypes))
	for _, t := range stats.DamageTypes {
		res[t] = DefaultEnemyRES
	}
	maps.Copy(res, p.RESBoost)
	p.RESBoost = res

	toughness := float64(DefaultEnemyToughness)
	if boss {
		toughness = DefaultBossToughness
	}
	if cfg.DamageType == "" {
		cfg.DamageType = stats.Physical
	}
	return battle.UnitConfig{
		Name:         cfg.Name,
		Side:         battle.SideEnemy,
		Level:        cfg.Level,
		DamageType:   cfg.DamageType,
		Profile:      p,
		MaxToughness: orDefault(cfg.MaxToughness, toughness),
		Weaknesses:   cfg.Weaknesses,
		Boss:         boss,
	}
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

// Enemy attacks a taunt-weighted player with its Basic ATK every turn.
type Enemy struct {
	*battle.Base
	formula *battle.Formula
	err     error
}

func NewEnemy(cfg EnemyConfig) *Enemy {
	e := newEnemy(cfg, false)
	e.Bind(e)
	return e
}

func newEnemy(cfg EnemyConfig, boss bool) *Enemy {
	return &Enemy{Base: battle.NewBase(cfg.unit(boss)), formula: cfg.Formula}
}

// Err returns the last formula evaluation error, if any.
func (e *Enemy) Err() error { return e.err }

func (e *Enemy) ChooseAction(f *battle.Field) battle.Action {
	target := ByTaunt(f.Players, f.Rand())
	if target == nil {
		return pass(e.Self())
	}
	return battle.NewAction(battle.ActionBasicATK, e.Self(), target)
}

func (e *Enemy) BasicATK(targets []battle.Unit, _ int) ([]battle.Command, bool) {
	self := e.Self()
	tags := stats.NewTags(e.DamageType(), stats.TagBasicATK)
	return []battle.Command{
		battle.StartATK(self, targets),
		battle.DMG(self, battle.HitOn(targets[0], e.basicDMG(targets[0]), 0, tags)),
		battle.EndATK(self, targets),
	}, true
}

// basicDMG evaluates the damage formula. A failed evaluation deals nothing
// and is kept for Err.
func (e *Enemy) basicDMG(target battle.Unit) float64 {
	if e.formula == nil {
		return e.Stats().Get(stats.ATK)
	}
	v, err := e.formula.Eval(battle.OperandOf(e.Self()), battle.OperandOf(target))
	if err != nil {
		e.err = fmt.Errorf("%s basic ATK: %w", e.Name(), err)
		return 0
	}
	return max(v, 0)
}

// Boss is an Enemy that acts several times per turn. The last action of a
// turn alternates between a Basic ATK and a Skill that hits every player.
type Boss struct {
	*Enemy
	miniTurns int
	turnsLeft int
	usedSkill bool
}

func NewBoss(cfg EnemyConfig) *Boss {
	if cfg.MiniTurns <= 0 {
		cfg.MiniTurns = DefaultBossMiniTurns
	}
	b := &Boss{Enemy: newEnemy(cfg, true), miniTurns: cfg.MiniTurns, turnsLeft: cfg.MiniTurns}
	b.Bind(b)
	return b
}

func (b *Boss) TurnsLeft() int { return b.turnsLeft }

// TakeAction spends one mini-turn. A frozen boss forfeits the rest of its
// turn.
func (b *Boss) TakeAction(f *battle.Field) battle.Action {
	a := b.Enemy.TakeAction(f)
	if b.HasStatus(buff.Frozen) {
		b.turnsLeft = 0
	}
	return a
}

func (b *Boss) ChooseAction(f *battle.Field) battle.Action {
	b.turnsLeft--
	if b.turnsLeft > 0 || len(f.Players) == 0 {
		return b.Enemy.ChooseAction(f)
	}
	b.usedSkill = !b.usedSkill
	if !b.usedSkill {
		return b.Enemy.ChooseAction(f)
	}
	return battle.NewAction(battle.ActionSkill, b.Self(), f.Players...)
}

func (b *Boss) Skill(targets []battle.Unit, _ int) ([]battle.Command, bool) {
	self := b.Self()
	tags := stats.NewTags(b.DamageType(), stats.TagSkill)
	dmg := 0.5 * b.Stats().Get(stats.ATK)
	hits := make([]battle.Hit, 0, len(targets))
	for _, t := range targets {
		hits = append(hits, battle.HitOn(t, dmg, 0, tags))
	}
	return []battle.Command{
		battle.StartATK(self, targets),
		battle.DMG(self, hits...),
		battle.EndATK(self, targets),
	}, true
}

func (b *Boss) EndTurn() []battle.Command {
	b.turnsLeft = b.miniTurns
	return b.Enemy.EndTurn()
}
