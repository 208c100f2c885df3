package battle

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// Battle defaults.
const (
	DefaultLength    = 850
	DefaultInitialSP = 3
)

// BattleConfig configures a BattleInstance.
type BattleConfig struct {
	Length         float64 // 0 = DefaultLength
	LapDistance    float64 // 0 = DefaultLapDistance
	InitialSP      int     // negative = 0, 0 = DefaultInitialSP
	SPCap          int
	AutoHeal       bool
	StochasticCrit bool
	MaxReactions   int
	MaxSteps       int
	MaxMiniTurns   int
	Logger         *zap.Logger
	RNG            *rand.Rand // injectable for testing
	EventBuffer    int        // 0 = no event channel
}

// Result summarises a finished battle.
type Result struct {
	Elapsed float64
	Turns   int
}

// BattleInstance runs one battle from the first turn until the clock runs
// out.
type BattleInstance struct {
	length float64
	field  *Field
	sched  *Scheduler
	engine *Engine
	turns  int

	logger *zap.Logger
	events chan BattleEvent
}

// NewBattleInstance binds every unit to itself and queues enemies before
// players.
func NewBattleInstance(cfg BattleConfig, enemies, players []Unit) *BattleInstance {
	if cfg.RNG == nil {
		cfg.RNG = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Length <= 0 {
		cfg.Length = DefaultLength
	}
	switch {
	case cfg.InitialSP < 0:
		cfg.InitialSP = 0
	case cfg.InitialSP == 0:
		cfg.InitialSP = DefaultInitialSP
	}

	units := make([]Unit, 0, len(enemies)+len(players))
	units = append(units, enemies...)
	units = append(units, players...)
	for _, u := range units {
		u.Bind(u)
	}

	b := &BattleInstance{
		length: cfg.Length,
		field: &Field{
			Enemies: enemies,
			Players: players,
			SP:      cfg.InitialSP,
			RNG:     cfg.RNG,
		},
		sched:  NewScheduler(cfg.LapDistance, units),
		logger: cfg.Logger,
	}
	if cfg.EventBuffer > 0 {
		b.events = make(chan BattleEvent, cfg.EventBuffer)
	}
	b.engine = NewEngine(b.field, b.sched, EngineConfig{
		SPCap:          cfg.SPCap,
		AutoHeal:       cfg.AutoHeal,
		StochasticCrit: cfg.StochasticCrit,
		MaxReactions:   cfg.MaxReactions,
		MaxSteps:       cfg.MaxSteps,
		MaxMiniTurns:   cfg.MaxMiniTurns,
		Logger:         cfg.Logger,
		Emit:           b.emitEvent,
	})
	return b
}

// Events returns the event channel, or nil when EventBuffer was 0. It is
// closed when Run returns.
func (b *BattleInstance) Events() <-chan BattleEvent {
	return b.events
}

func (b *BattleInstance) Engine() *Engine { return b.engine }

func (b *BattleInstance) Field() *Field { return b.field }

func (b *BattleInstance) Scheduler() *Scheduler { return b.sched }

// Run executes turns until the next one would start after the battle length.
// A protocol violation aborts the battle and is returned as a
// *ProtocolError.
func (b *BattleInstance) Run(ctx context.Context) (res Result, err error) {
	if b.events != nil {
		defer close(b.events)
	}
	defer func() {
		if r := recover(); r != nil {
			pe, ok := r.(*ProtocolError)
			if !ok {
				panic(r)
			}
			b.logger.Error("battle aborted", zap.Error(pe))
			err = pe
		}
		res = Result{Elapsed: b.sched.Elapsed(), Turns: b.turns}
		end := &EventBattleEnd{
			Elapsed: res.Elapsed,
			Turns:   res.Turns,
			Players: snapshotUnits(b.field.Players),
			Enemies: snapshotUnits(b.field.Enemies),
		}
		if err != nil {
			end.Err = err.Error()
		}
		b.emitEvent(end)
	}()

	b.emitEvent(&EventBattleStart{
		Players: snapshotUnits(b.field.Players),
		Enemies: snapshotUnits(b.field.Enemies),
	})
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if !b.tick() {
			break
		}
	}
	b.logger.Debug("battle over",
		zap.Float64("elapsed", b.sched.Elapsed()),
		zap.Int("turns", b.turns))
	return res, nil
}

// tick runs the next turn. It reports false, without running anything, when
// that turn would start after the battle length.
func (b *BattleInstance) tick() bool {
	u, t := b.sched.Peek()
	if u == nil || b.sched.Elapsed()+t > b.length {
		return false
	}
	b.sched.Pass(t)
	b.turns++
	b.engine.RunTurn(u)
	b.sched.Resort()
	return true
}

func (b *BattleInstance) emitEvent(evt BattleEvent) {
	if b.events == nil {
		return
	}
	select {
	case b.events <- evt:
	default:
		b.logger.Warn("battle event dropped (channel full)", zap.String("type", evt.EventType()))
	}
}

// IsProtocolError reports whether err came from an aborted battle.
func IsProtocolError(err error) bool {
	return errors.Is(err, ErrProtocol)
}
