package battle

import "github.com/kasuganosora/railsim/game/stats"

// BattleEvent is emitted by BattleInstance for transcript consumers.
type BattleEvent interface {
	EventType() string
}

// UnitRef identifies a unit in event payloads.
type UnitRef struct {
	Name string `json:"name"`
	Side string `json:"side"`
}

// UnitSnapshot is a full snapshot of a unit's state.
type UnitSnapshot struct {
	Name      string   `json:"name"`
	Side      string   `json:"side"`
	Level     int      `json:"level"`
	HP        float64  `json:"hp"`
	MaxHP     float64  `json:"max_hp"`
	SPD       float64  `json:"spd"`
	Energy    float64  `json:"energy"`
	Toughness float64  `json:"toughness,omitempty"`
	Buffs     []string `json:"buffs,omitempty"`
	Debuffs   []string `json:"debuffs,omitempty"`
}

func SnapshotUnit(u Unit) UnitSnapshot {
	s := UnitSnapshot{
		Name:   u.Name(),
		Side:   u.Side().String(),
		Level:  u.Level(),
		HP:     u.HP(),
		MaxHP:  u.Stats().Get(stats.HP),
		SPD:    u.Stats().Get(stats.SPD),
		Energy: u.Energy(),
	}
	if u.Side() == SideEnemy {
		s.Toughness = u.Toughness()
	}
	for _, r := range u.Buffs().All() {
		s.Buffs = append(s.Buffs, r.ID)
	}
	for _, r := range u.Debuffs().All() {
		s.Debuffs = append(s.Debuffs, r.ID)
	}
	return s
}

func RefUnit(u Unit) UnitRef {
	return UnitRef{Name: u.Name(), Side: u.Side().String()}
}

func refUnits(units []Unit) []UnitRef {
	out := make([]UnitRef, len(units))
	for i, u := range units {
		out[i] = RefUnit(u)
	}
	return out
}

// --- Concrete event types ---

type EventBattleStart struct {
	Players []UnitSnapshot `json:"players"`
	Enemies []UnitSnapshot `json:"enemies"`
}

func (EventBattleStart) EventType() string { return "battle_start" }

type EventTurnStart struct {
	Elapsed float64      `json:"elapsed"`
	SP      int          `json:"sp"`
	Unit    UnitSnapshot `json:"unit"`
}

func (EventTurnStart) EventType() string { return "turn_start" }

type EventAction struct {
	Kind    string    `json:"kind"`
	Unit    UnitRef   `json:"unit"`
	Targets []UnitRef `json:"targets,omitempty"`
}

func (EventAction) EventType() string { return "action" }

type EventDamage struct {
	Source  UnitRef  `json:"source"`
	Target  UnitRef  `json:"target"`
	DMG     float64  `json:"dmg"`
	Break   float64  `json:"break"`
	Tags    []string `json:"tags"`
	Crit    bool     `json:"crit"`
	HPAfter float64  `json:"hp_after"`
}

func (EventDamage) EventType() string { return "damage" }

type EventHeal struct {
	Source  UnitRef `json:"source"`
	Target  UnitRef `json:"target"`
	Amount  float64 `json:"amount"`
	HPAfter float64 `json:"hp_after"`
}

func (EventHeal) EventType() string { return "heal" }

type EventConsumeHP struct {
	Source  UnitRef `json:"source"`
	Target  UnitRef `json:"target"`
	Amount  float64 `json:"amount"`
	HPAfter float64 `json:"hp_after"`
}

func (EventConsumeHP) EventType() string { return "consume_hp" }

type EventDebuffApplied struct {
	Source UnitRef `json:"source"`
	Target UnitRef `json:"target"`
	ID     string  `json:"id"`
}

func (EventDebuffApplied) EventType() string { return "debuff_applied" }

type EventWeaknessBreak struct {
	Source UnitRef `json:"source"`
	Target UnitRef `json:"target"`
	Type   string  `json:"type"`
}

func (EventWeaknessBreak) EventType() string { return "weakness_break" }

type EventSP struct {
	Unit   UnitRef `json:"unit"`
	Change int     `json:"change"`
	SP     int     `json:"sp"`
}

func (EventSP) EventType() string { return "sp" }

type EventBattleEnd struct {
	Elapsed float64        `json:"elapsed"`
	Turns   int            `json:"turns"`
	Players []UnitSnapshot `json:"players"`
	Enemies []UnitSnapshot `json:"enemies"`
	Err     string         `json:"error,omitempty"`
}

func (EventBattleEnd) EventType() string { return "battle_end" }

func snapshotUnits(units []Unit) []UnitSnapshot {
	out := make([]UnitSnapshot, len(units))
	for i, u := range units {
		out[i] = SnapshotUnit(u)
	}
	return out
}
