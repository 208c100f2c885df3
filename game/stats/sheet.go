package stats

import (
	"maps"
	"strings"
)

// DamageType is one of the seven elements. A damage payload's type is always
// the last entry of its tag list.
type DamageType string

const (
	Physical  DamageType = "Physical"
	Fire      DamageType = "Fire"
	Ice       DamageType = "Ice"
	Lightning DamageType = "Lightning"
	Wind      DamageType = "Wind"
	Quantum   DamageType = "Quantum"
	Imaginary DamageType = "Imaginary"
)

// DamageTypes lists every element in display order.
var DamageTypes = []DamageType{Physical, Fire, Ice, Lightning, Wind, Quantum, Imaginary}

// Valid reports whether t names a known element.
func (t DamageType) Valid() bool {
	for _, d := range DamageTypes {
		if d == t {
			return true
		}
	}
	return false
}

// Stat names a runtime stat.
type Stat string

// Scalar stats.
const (
	Taunt                  Stat = "Taunt"
	HP                     Stat = "HP"
	ATK                    Stat = "ATK"
	DEF                    Stat = "DEF"
	SPD                    Stat = "SPD"
	CritRate               Stat = "CRIT Rate"
	CritDMG                Stat = "CRIT DMG"
	BreakEffect            Stat = "Break Effect"
	OutgoingHealingBoost   Stat = "Outgoing Healing Boost"
	IncomingHealingBoost   Stat = "Incoming Healing Boost"
	EnergyRegenerationRate Stat = "Energy Regeneration Rate"
	EffectHitRate          Stat = "Effect Hit Rate"
	EffectRES              Stat = "Effect RES"
	CrowdControlRES        Stat = "Crowd Control RES"
	DMGTakenDecrease       Stat = "DMG Taken Decrease"
	DEFIgnore              Stat = "DEF Ignore"
	Weaken                 Stat = "Weaken"
)

// Keyed stats hold one value per key (a damage type, "All", or a tag).
const (
	DMGBoost         Stat = "DMG Boost"
	RESBoost         Stat = "RES Boost"
	DMGTakenIncrease Stat = "DMG Taken Increase"
	RESPEN           Stat = "RES PEN"
)

// KeyAll is the catch-all key of DMG Boost and DMG Taken Increase.
const KeyAll = "All"

// MinSPD is the floor applied to runtime SPD so that distance/SPD stays finite.
const MinSPD = 0.01

// ScalarStats lists every scalar stat.
var ScalarStats = []Stat{
	Taunt, HP, ATK, DEF, SPD, CritRate, CritDMG, BreakEffect,
	OutgoingHealingBoost, IncomingHealingBoost, EnergyRegenerationRate,
	EffectHitRate, EffectRES, CrowdControlRES, DMGTakenDecrease, DEFIgnore, Weaken,
}

// ParseScalar looks up a scalar stat by its display name.
func ParseScalar(name string) (Stat, bool) {
	for _, s := range ScalarStats {
		if string(s) == name {
			return s, true
		}
	}
	return "", false
}

// IsKeyed reports whether s is stored per key.
func IsKeyed(s Stat) bool {
	switch s {
	case DMGBoost, RESBoost, DMGTakenIncrease, RESPEN:
		return true
	}
	return false
}

// Sheet is a full set of stat values. Runtime sheets are rebuilt from scratch
// on every refresh and must not be patched in place by callers.
type Sheet struct {
	scalar map[Stat]float64
	keyed  map[Stat]map[string]float64
}

// NewSheet returns an empty sheet with every keyed stat initialised.
func NewSheet() *Sheet {
	s := &Sheet{
		scalar: make(map[Stat]float64),
		keyed:  make(map[Stat]map[string]float64),
	}
	s.keyed[DMGBoost] = map[string]float64{KeyAll: 0}
	s.keyed[DMGTakenIncrease] = map[string]float64{KeyAll: 0}
	s.keyed[RESBoost] = make(map[string]float64)
	s.keyed[RESPEN] = make(map[string]float64)
	for _, t := range DamageTypes {
		s.keyed[DMGBoost][string(t)] = 0
		s.keyed[RESBoost][string(t)] = 0
		s.keyed[RESPEN][string(t)] = 0
	}
	return s
}

func (s *Sheet) Get(stat Stat) float64 { return s.scalar[stat] }

func (s *Sheet) Set(stat Stat, v float64) { s.scalar[stat] = v }

func (s *Sheet) Add(stat Stat, v float64) { s.scalar[stat] += v }

// Keyed returns the value stored under key, or 0.
func (s *Sheet) Keyed(stat Stat, key string) float64 {
	return s.keyed[stat][key]
}

// AddKeyed adds v under key, creating the key if needed.
func (s *Sheet) AddKeyed(stat Stat, key string, v float64) {
	m, ok := s.keyed[stat]
	if !ok {
		m = make(map[string]float64)
		s.keyed[stat] = m
	}
	m[key] += v
}

func (s *Sheet) SetKeyed(stat Stat, key string, v float64) {
	m, ok := s.keyed[stat]
	if !ok {
		m = make(map[string]float64)
		s.keyed[stat] = m
	}
	m[key] = v
}

// SumTags returns the "All" entry plus every entry whose key is one of tags.
func (s *Sheet) SumTags(stat Stat, tags Tags) float64 {
	m := s.keyed[stat]
	sum := m[KeyAll]
	for _, t := range tags {
		if t == KeyAll {
			continue
		}
		sum += m[t]
	}
	return sum
}

// KeyedMap returns a copy of the per-key values of stat.
func (s *Sheet) KeyedMap(stat Stat) map[string]float64 {
	return maps.Clone(s.keyed[stat])
}

// Clone returns a deep copy.
func (s *Sheet) Clone() *Sheet {
	c := &Sheet{
		scalar: maps.Clone(s.scalar),
		keyed:  make(map[Stat]map[string]float64, len(s.keyed)),
	}
	for k, m := range s.keyed {
		c.keyed[k] = maps.Clone(m)
	}
	return c
}

// Tags label a damage payload. The first entry names the ability kind, the
// last is always the damage type, anything in between is a qualifier.
type Tags []string

// Common tags.
const (
	TagBasicATK = "Basic ATK"
	TagSkill    = "Skill"
	TagUltimate = "Ultimate"
	TagTalent   = "Talent"
	TagFollowUp = "Follow-Up"
	TagEnhanced = "Enhanced"
	TagDoT      = "DoT"
	TagBreak    = "Break"
)

// NewTags builds a tag list ending with the damage type.
func NewTags(t DamageType, labels ...string) Tags {
	out := make(Tags, 0, len(labels)+1)
	out = append(out, labels...)
	return append(out, string(t))
}

// Type returns the damage type carried by the last tag.
func (t Tags) Type() DamageType {
	if len(t) == 0 {
		return ""
	}
	return DamageType(t[len(t)-1])
}

func (t Tags) Has(tag string) bool {
	for _, x := range t {
		if x == tag {
			return true
		}
	}
	return false
}

// Key is the tally key for the tag list.
func (t Tags) Key() string { return strings.Join(t, " ") }
