package report

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kasuganosora/railsim/config"
	"github.com/kasuganosora/railsim/model"
	"github.com/kasuganosora/railsim/resource"
	"github.com/kasuganosora/railsim/sim"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultBatchSize     = 100
	defaultFlushInterval = 2 * time.Second
	queueSize            = 1024
)

// Writer stores trial results asynchronously in batches.
type Writer struct {
	db        *gorm.DB
	ch        chan *model.Trial
	stopCh    chan struct{}
	wg        sync.WaitGroup
	logger    *zap.Logger
	batchSize int
	interval  time.Duration
}

// NewWriter creates a Writer and starts its background worker.
func NewWriter(db *gorm.DB, cfg config.ReportConfig, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Writer{
		db:        db,
		ch:        make(chan *model.Trial, queueSize),
		stopCh:    make(chan struct{}),
		logger:    logger,
		batchSize: cfg.BatchSize,
		interval:  cfg.FlushInterval,
	}
	if w.batchSize <= 0 {
		w.batchSize = defaultBatchSize
	}
	if w.interval <= 0 {
		w.interval = defaultFlushInterval
	}
	w.wg.Add(1)
	go w.worker()
	return w
}

// StartRun records a new run and returns its id. It writes synchronously so
// that trials never reference a missing run.
func (w *Writer) StartRun(ctx context.Context, cfg *config.Config, r *resource.Roster, seed int64, trials int) (string, error) {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("report: encode config: %w", err)
	}
	rosterJSON, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("report: encode roster: %w", err)
	}
	run := &model.Run{
		ID:     uuid.NewString(),
		Seed:   seed,
		Trials: trials,
		Config: datatypes.JSON(cfgJSON),
		Roster: datatypes.JSON(rosterJSON),
	}
	if err := w.db.WithContext(ctx).Create(run).Error; err != nil {
		return "", fmt.Errorf("report: create run: %w", err)
	}
	return run.ID, nil
}

// LogTrial enqueues a trial result for async DB write.
func (w *Writer) LogTrial(runID string, res sim.TrialResult) {
	tallies := make(map[string]map[string]float64, len(res.Players))
	total := 0.0
	for _, p := range res.Players {
		tallies[p.Name] = p.DMG
		for _, v := range p.DMG {
			total += v
		}
	}
	talliesJSON, err := json.Marshal(tallies)
	if err != nil {
		// The trial is still stored, without tallies.
		w.logger.Warn("encode trial tallies",
			zap.String("run", runID), zap.Int("trial", res.Index), zap.Error(err))
		talliesJSON = nil
	}
	record := &model.Trial{
		RunID:    runID,
		Index:    res.Index,
		Seed:     res.Seed,
		Elapsed:  res.Elapsed,
		Turns:    res.Turns,
		TotalDMG: total,
		Tallies:  datatypes.JSON(talliesJSON),
	}
	if res.Err != nil {
		record.Error = res.Err.Error()
	}
	select {
	case w.ch <- record:
	default:
		w.logger.Warn("report channel full, dropping trial",
			zap.String("run", runID), zap.Int("trial", res.Index))
	}
}

// Stop flushes remaining entries and shuts down the worker.
// It blocks until the worker goroutine has finished.
func (w *Writer) Stop(_ context.Context) {
	select {
	case <-w.stopCh:
	default:
		close(w.stopCh)
	}
	w.wg.Wait()
}

func (w *Writer) worker() {
	defer w.wg.Done()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	batch := make([]*model.Trial, 0, w.batchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := w.db.Create(&batch).Error; err != nil {
			w.logger.Error("trial batch write failed", zap.Int("size", len(batch)), zap.Error(err))
		}
		batch = batch[:0]
	}

	for {
		select {
		case rec := <-w.ch:
			batch = append(batch, rec)
			if len(batch) >= w.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-w.stopCh:
			// Drain remaining entries.
			for {
				select {
				case rec := <-w.ch:
					batch = append(batch, rec)
				default:
					flush()
					return
				}
			}
		}
	}
}
