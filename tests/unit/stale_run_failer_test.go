package unit

import (
	"context"
	"testing"
	"time"

	refinementservice "refinery/contexts/data-refinery/refinement-service"
	"refinery/contexts/data-refinery/refinement-service/application/workers"
	refinementhttp "refinery/contexts/data-refinery/refinement-service/transport/http"
)

func TestStaleRunSweepFailsAndAllowsRetry(t *testing.T) {
	module := refinementservice.NewInMemoryModule(nil, nil)
	datasetID := createDataset(t, module)
	ingest(t, module, datasetID, strongItem("a", "hash-a"))

	// Simulate a run abandoned by a crashed worker two hours ago.
	stuckSince := time.Now().UTC().Add(-2 * time.Hour)
	if _, err := module.Store.BeginRefinement(context.Background(), datasetID, stuckSince); err != nil {
		t.Fatalf("begin refinement should succeed: %v", err)
	}

	failer := workers.StaleRunFailer{
		Datasets: module.Store,
		Clock:    module.Store,
		MaxAge:   time.Hour,
	}
	if err := failer.RunOnce(context.Background()); err != nil {
		t.Fatalf("sweep should succeed: %v", err)
	}

	status, err := module.Handler.GetRefinementStatusHandler(context.Background(), datasetID)
	if err != nil {
		t.Fatalf("status should succeed: %v", err)
	}
	if status.Stage != "failed" {
		t.Fatalf("stale run should fail the dataset, got %s", status.Stage)
	}
	if status.LatestRecord == nil || status.LatestRecord.FailureReason != "stale_run" {
		t.Fatalf("sweep should record the failure reason")
	}

	// A failed dataset retries through the normal refine path.
	resp, err := module.Handler.RefineDatasetHandler(context.Background(), datasetID, refinementhttp.RefineDatasetRequest{
		QualityThreshold: 0.5,
	})
	if err != nil {
		t.Fatalf("retry should succeed: %v", err)
	}
	if resp.Dataset.Stage != "refined" {
		t.Fatalf("retry should land at refined, got %s", resp.Dataset.Stage)
	}
}

func TestStaleRunSweepLeavesFreshRunsAlone(t *testing.T) {
	module := refinementservice.NewInMemoryModule(nil, nil)
	datasetID := createDataset(t, module)
	ingest(t, module, datasetID, strongItem("a", "hash-a"))

	if _, err := module.Store.BeginRefinement(context.Background(), datasetID, module.Store.Now()); err != nil {
		t.Fatalf("begin refinement should succeed: %v", err)
	}

	failer := workers.StaleRunFailer{
		Datasets: module.Store,
		Clock:    module.Store,
		MaxAge:   time.Hour,
	}
	if err := failer.RunOnce(context.Background()); err != nil {
		t.Fatalf("sweep should succeed: %v", err)
	}

	status, err := module.Handler.GetRefinementStatusHandler(context.Background(), datasetID)
	if err != nil {
		t.Fatalf("status should succeed: %v", err)
	}
	if status.Stage != "refining" {
		t.Fatalf("fresh run must not be swept, got %s", status.Stage)
	}
}
