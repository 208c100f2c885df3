package resource

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/kasuganosora/railsim/game/battle"
	"github.com/kasuganosora/railsim/game/loadout"
	"github.com/kasuganosora/railsim/game/stats"
	"gopkg.in/yaml.v3"
)

// ErrInvalidRoster wraps every validation failure.
var ErrInvalidRoster = errors.New("resource: invalid roster")

// Unit kinds.
const (
	KindEnemy          = "enemy"
	KindBoss           = "boss"
	KindDummy          = "dummy"
	KindBlade          = "blade"
	KindImbibitorLunae = "imbibitor_lunae"
)

// Loadout kinds.
const (
	LoadoutTheUnreachableSide = "the_unreachable_side"
	LoadoutBrighterThanTheSun = "brighter_than_the_sun"
	LoadoutRelic              = "relic"
	LoadoutArena              = "arena"
)

// Roster is the set of units a battle is built from. Enemies are listed in
// field order, so the middle entry is the blast centre.
type Roster struct {
	Enemies []EnemySpec  `yaml:"enemies"`
	Players []PlayerSpec `yaml:"players"`
}

type EnemySpec struct {
	Name       string        `yaml:"name"`
	Kind       string        `yaml:"kind"`
	DamageType string        `yaml:"damage_type"`
	Level      int           `yaml:"level"`
	Stats      stats.Profile `yaml:"stats"`
	// Weaknesses may contain "all" for every damage type.
	Weaknesses []string `yaml:"weaknesses"`
	Toughness  float64  `yaml:"toughness"`
	// Formula replaces the Basic ATK damage; a is the enemy, b the target.
	Formula   string `yaml:"formula"`
	MiniTurns int    `yaml:"mini_turns"`
}

type PlayerSpec struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
	// Loadout is applied in order, so the last entry is the outermost layer.
	Loadout []LoadoutSpec `yaml:"loadout"`
}

type LoadoutSpec struct {
	Kind            string            `yaml:"kind"`
	Superimposition int               `yaml:"superimposition"`
	Main            []string          `yaml:"main"`
	Sub             []loadout.SubStat `yaml:"sub"`
}

// LoadRoster reads and validates a roster file.
func LoadRoster(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("resource: read %s: %w", path, err)
	}
	r, err := ParseRoster(data)
	if err != nil {
		return nil, fmt.Errorf("resource: %s: %w", path, err)
	}
	return r, nil
}

// ParseRoster decodes a roster document. Unknown fields are rejected.
func ParseRoster(data []byte) (*Roster, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	r := &Roster{}
	if err := dec.Decode(r); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidRoster)
		}
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks names, kinds, damage types and formulas.
func (r *Roster) Validate() error {
	if len(r.Players) == 0 {
		return fmt.Errorf("%w: no players", ErrInvalidRoster)
	}
	seen := make(map[string]bool)
	unique := func(name string) error {
		if name == "" {
			return fmt.Errorf("%w: unit without a name", ErrInvalidRoster)
		}
		if seen[name] {
			return fmt.Errorf("%w: duplicate unit name %q", ErrInvalidRoster, name)
		}
		seen[name] = true
		return nil
	}

	for _, e := range r.Enemies {
		if err := unique(e.Name); err != nil {
			return err
		}
		if err := e.validate(); err != nil {
			return fmt.Errorf("%w: enemy %q: %w", ErrInvalidRoster, e.Name, err)
		}
	}
	for _, p := range r.Players {
		if err := unique(p.Name); err != nil {
			return err
		}
		if err := p.validate(); err != nil {
			return fmt.Errorf("%w: player %q: %w", ErrInvalidRoster, p.Name, err)
		}
	}
	return nil
}

func (e EnemySpec) validate() error {
	switch e.Kind {
	case KindEnemy, KindBoss:
	default:
		return fmt.Errorf("unknown kind %q", e.Kind)
	}
	if e.DamageType != "" && !stats.DamageType(e.DamageType).Valid() {
		return fmt.Errorf("unknown damage type %q", e.DamageType)
	}
	if _, err := e.DamageTypes(); err != nil {
		return err
	}
	if e.Formula != "" {
		if _, err := battle.CompileFormula(e.Formula); err != nil {
			return fmt.Errorf("formula: %w", err)
		}
	}
	if e.MiniTurns < 0 {
		return fmt.Errorf("negative mini_turns %d", e.MiniTurns)
	}
	return nil
}

// DamageTypes resolves the weakness list.
func (e EnemySpec) DamageTypes() ([]stats.DamageType, error) {
	out := make([]stats.DamageType, 0, len(e.Weaknesses))
	for _, w := range e.Weaknesses {
		if w == "all" {
			return slices.Clone(stats.DamageTypes), nil
		}
		t := stats.DamageType(w)
		if !t.Valid() {
			return nil, fmt.Errorf("unknown weakness %q", w)
		}
		out = append(out, t)
	}
	return out, nil
}

func (p PlayerSpec) validate() error {
	switch p.Kind {
	case KindDummy, KindBlade, KindImbibitorLunae:
	default:
		return fmt.Errorf("unknown kind %q", p.Kind)
	}
	for i, l := range p.Loadout {
		switch l.Kind {
		case LoadoutTheUnreachableSide, LoadoutBrighterThanTheSun:
			if l.Superimposition < 0 || l.Superimposition > 5 {
				return fmt.Errorf("loadout %d: superimposition %d out of range", i, l.Superimposition)
			}
		case LoadoutRelic, LoadoutArena:
		default:
			return fmt.Errorf("loadout %d: unknown kind %q", i, l.Kind)
		}
	}
	return nil
}
