package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/kasuganosora/railsim/config"
	"github.com/kasuganosora/railsim/game/battle"
	"github.com/kasuganosora/railsim/game/loadout"
	"github.com/kasuganosora/railsim/resource"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// traceBuffer is the event buffer of the traced trial. Events beyond it are
// dropped by the battle, so it is sized well above a default-length battle.
const traceBuffer = 1 << 16

// UnitTally is the damage one player dealt in one trial, keyed by tag list.
type UnitTally struct {
	Name  string             `json:"name"`
	DMG   map[string]float64 `json:"dmg"`
	Break map[string]float64 `json:"break"`
}

// TrialResult is the outcome of one seeded battle.
type TrialResult struct {
	Index   int
	Seed    int64
	Elapsed float64
	Turns   int
	Players []UnitTally
	// Err is set when the battle was aborted by a protocol violation.
	Err error
}

// Runner plays a roster through a number of independent, seeded battles.
type Runner struct {
	roster  *resource.Roster
	battle  config.BattleConfig
	seed    int64
	workers int
	logger  *zap.Logger

	// OnTrial is called once per finished trial, from the worker goroutine
	// that ran it.
	OnTrial func(TrialResult)
	// Trace, when set, receives every event of trial 0 in order.
	Trace func(battle.BattleEvent)
}

// NewRunner creates a Runner. A zero seed is replaced by a random one, see
// Seed.
func NewRunner(r *resource.Roster, battleCfg config.BattleConfig, simCfg config.SimConfig, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	seed := simCfg.Seed
	if seed == 0 {
		seed = RandomSeed()
	}
	return &Runner{
		roster:  r,
		battle:  battleCfg,
		seed:    seed,
		workers: max(simCfg.Workers, 1),
		logger:  logger,
	}
}

// Seed is the seed of trial 0. Trial i uses Seed()+i.
func (r *Runner) Seed() int64 { return r.seed }

// Run plays n trials. Results are returned in trial order whatever the
// scheduling. An aborted battle is reported in its TrialResult; Run itself
// only fails when units cannot be built or ctx is done.
func (r *Runner) Run(ctx context.Context, n int) ([]TrialResult, error) {
	results := make([]TrialResult, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i := range n {
		g.Go(func() error {
			res, err := r.trial(gctx, i)
			if err != nil {
				return err
			}
			results[i] = res
			if r.OnTrial != nil {
				r.OnTrial(res)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Runner) trial(ctx context.Context, i int) (TrialResult, error) {
	seed := r.seed + int64(i)
	enemies, players, err := Build(r.roster)
	if err != nil {
		return TrialResult{}, err
	}

	cfg := battle.BattleConfig{
		Length:         r.battle.Length,
		LapDistance:    r.battle.LapDistance,
		InitialSP:      r.battle.InitialSP,
		SPCap:          r.battle.SPCap,
		AutoHeal:       r.battle.AutoHeal,
		StochasticCrit: !r.battle.ExpectedCrit,
		MaxReactions:   r.battle.MaxReactions,
		MaxSteps:       r.battle.MaxSteps,
		MaxMiniTurns:   r.battle.MaxMiniTurns,
		Logger:         r.logger.With(zap.Int("trial", i)),
		RNG:            rand.New(rand.NewSource(seed)),
	}
	trace := i == 0 && r.Trace != nil
	if trace {
		cfg.EventBuffer = traceBuffer
	}
	bi := battle.NewBattleInstance(cfg, enemies, players)

	var wg sync.WaitGroup
	if trace {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for evt := range bi.Events() {
				r.Trace(evt)
			}
		}()
	}
	out, runErr := bi.Run(ctx)
	wg.Wait()

	if runErr != nil && !battle.IsProtocolError(runErr) {
		return TrialResult{}, fmt.Errorf("sim: trial %d: %w", i, runErr)
	}
	if runErr != nil {
		r.logger.Error("trial aborted", zap.Int("trial", i), zap.Int64("seed", seed), zap.Error(runErr))
	}
	r.logUnitErrors(i, enemies, players)

	res := TrialResult{
		Index:   i,
		Seed:    seed,
		Elapsed: out.Elapsed,
		Turns:   out.Turns,
		Err:     runErr,
	}
	for _, p := range players {
		t := p.Tally()
		res.Players = append(res.Players, UnitTally{Name: p.Name(), DMG: t.DMG, Break: t.Break})
	}
	return res, nil
}

type errorer interface{ Err() error }

// logUnitErrors reports the last no-op condition of every unit that keeps
// one, looking through loadout layers.
func (r *Runner) logUnitErrors(i int, groups ...[]battle.Unit) {
	for _, units := range groups {
		for _, u := range units {
			e, ok := loadout.Unwrap(u).(errorer)
			if !ok || e.Err() == nil {
				continue
			}
			r.logger.Warn("unit error", zap.Int("trial", i), zap.String("unit", u.Name()), zap.Error(e.Err()))
		}
	}
}

// Failed returns the errors of aborted trials.
func Failed(results []TrialResult) error {
	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("trial %d (seed %d): %w", res.Index, res.Seed, res.Err))
		}
	}
	return errors.Join(errs...)
}
