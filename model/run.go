package model

import (
	"time"

	"gorm.io/datatypes"
)

// Run is one invocation of the simulator: a roster, a config and a number of
// seeded trials.
type Run struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	Seed      int64          `gorm:"not null" json:"seed"`
	Trials    int            `gorm:"not null" json:"trials"`
	Config    datatypes.JSON `json:"config"`
	Roster    datatypes.JSON `json:"roster"`
	CreatedAt time.Time      `gorm:"index:idx_run_created;autoCreateTime:milli" json:"created_at"`
}

// Trial is the outcome of one battle of a Run.
type Trial struct {
	ID       int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	RunID    string  `gorm:"index:idx_trial_run;size:36;not null" json:"run_id"`
	Index    int     `gorm:"column:trial_index;not null" json:"index"`
	Seed     int64   `gorm:"not null" json:"seed"`
	Elapsed  float64 `json:"elapsed"`
	Turns    int     `json:"turns"`
	TotalDMG float64 `json:"total_dmg"`
	// Tallies maps unit name to tag key to damage dealt.
	Tallies   datatypes.JSON `json:"tallies"`
	Error     string         `gorm:"type:text" json:"error"`
	CreatedAt time.Time      `gorm:"autoCreateTime:milli" json:"created_at"`
}
