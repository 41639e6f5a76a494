package workers

import (
	"context"
	"log/slog"
	"time"

	application "refinery/contexts/data-refinery/refinement-service/application"
	"refinery/contexts/data-refinery/refinement-service/ports"
)

const staleRunReason = "stale_run"

// StaleRunFailer sweeps datasets stuck in stage refining past the deadline.
// Runs only interrupted by a process crash can be stuck there; live runs
// finish or fail on their own.
type StaleRunFailer struct {
	Datasets ports.DatasetRepository
	Clock    ports.Clock
	MaxAge   time.Duration
	Logger   *slog.Logger
}

func (f StaleRunFailer) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(f.Logger)
	now := time.Now().UTC()
	if f.Clock != nil {
		now = f.Clock.Now().UTC()
	}
	maxAge := f.MaxAge
	if maxAge <= 0 {
		maxAge = time.Hour
	}

	failed, err := f.Datasets.FailStaleRefinements(ctx, now.Add(-maxAge), staleRunReason, now)
	if err != nil {
		logger.Error("stale run sweep failed",
			"event", "stale_run_sweep_failed",
			"module", "data-refinery/refinement-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if failed > 0 {
		logger.Info("stale run sweep completed",
			"event", "stale_run_sweep_completed",
			"module", "data-refinery/refinement-service",
			"layer", "worker",
			"failed_count", failed,
		)
	}
	return nil
}
