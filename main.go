package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kasuganosora/railsim/config"
	dbadapter "github.com/kasuganosora/railsim/db"
	"github.com/kasuganosora/railsim/model"
	"github.com/kasuganosora/railsim/report"
	"github.com/kasuganosora/railsim/resource"
	"github.com/kasuganosora/railsim/sim"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the process exit code. Deferred cleanup runs before main exits.
func run(args []string) int {
	cfgPath := "config/config.yaml"
	if len(args) > 0 {
		cfgPath = args[0]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("config: %v", err)
		return 1
	}

	// ---- Logger ----
	var logger *zap.Logger
	var logErr error
	if cfg.Log.Debug {
		logger, logErr = zap.NewDevelopment()
	} else {
		logger, logErr = zap.NewProduction()
	}
	if logErr != nil {
		log.Printf("logger: %v", logErr)
		return 1
	}
	defer logger.Sync()

	// ---- Roster ----
	roster, err := resource.LoadRoster(cfg.Sim.RosterPath)
	if err != nil {
		logger.Error("roster", zap.Error(err))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := sim.NewRunner(roster, cfg.Battle, cfg.Sim, logger)
	if cfg.Battle.Verbose {
		runner.Trace = report.NewTranscript(os.Stdout).Print
	}

	// ---- Report store ----
	if cfg.Report.Mode != dbadapter.ModeNone {
		db, err := dbadapter.Open(cfg.Report)
		if err != nil {
			logger.Error("db", zap.Error(err))
			return 1
		}
		if err := model.AutoMigrate(db); err != nil {
			logger.Error("db migrate", zap.Error(err))
			return 1
		}
		writer := report.NewWriter(db, cfg.Report, logger)
		defer writer.Stop(context.Background())

		runID, err := writer.StartRun(ctx, cfg, roster, runner.Seed(), cfg.Sim.Trials)
		if err != nil {
			logger.Error("report", zap.Error(err))
			return 1
		}
		logger.Info("recording run", zap.String("run", runID), zap.String("mode", cfg.Report.Mode))
		runner.OnTrial = func(res sim.TrialResult) { writer.LogTrial(runID, res) }
	}

	logger.Info("simulation starting",
		zap.Int("trials", cfg.Sim.Trials),
		zap.Int64("seed", runner.Seed()),
		zap.Int("workers", cfg.Sim.Workers))
	t0 := time.Now()
	results, err := runner.Run(ctx, cfg.Sim.Trials)
	if err != nil {
		logger.Error("simulation failed", zap.Error(err))
		return 1
	}
	if err := sim.Failed(results); err != nil {
		logger.Warn("some trials were aborted", zap.Error(err))
	}

	fmt.Printf("Testing finished. Time taken: %.3f seconds\n", time.Since(t0).Seconds())
	if err := report.Summary(os.Stdout, sim.Aggregate(results)); err != nil {
		logger.Error("summary", zap.Error(err))
		return 1
	}
	return 0
}
