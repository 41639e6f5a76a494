package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "refinery/contexts/data-refinery/refinement-service/application"
	"refinery/contexts/data-refinery/refinement-service/domain/entities"
	domainerrors "refinery/contexts/data-refinery/refinement-service/domain/errors"
	"refinery/contexts/data-refinery/refinement-service/domain/services"
	"refinery/contexts/data-refinery/refinement-service/ports"
)

type RefineDatasetCommand struct {
	DatasetID        string
	QualityThreshold float64
	// DedupThreshold overrides the documented default when set.
	DedupThreshold *float64
}

type RefineDatasetResult struct {
	Dataset entities.Dataset
	Record  entities.RefinementRecord
}

// RefineDatasetUseCase is the pipeline orchestrator: it gates the stage
// transition, runs scoring, deduplication, and classification, applies the
// quality threshold, and appends the run record.
type RefineDatasetUseCase struct {
	Datasets    ports.DatasetRepository
	Items       ports.ItemRepository
	Scorer      ports.QualityScorer
	Similarity  ports.SimilarityStrategy
	Classifier  ports.Classifier
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// Execute runs one refinement pass:
// 1) validate thresholds before any mutation
// 2) check-and-set stage to refining (per-dataset mutual exclusion)
// 3) score, deduplicate, classify
// 4) commit record + item outcomes + stage refined, or stage failed on a
//    fatal pipeline error.
func (u RefineDatasetUseCase) Execute(ctx context.Context, cmd RefineDatasetCommand) (RefineDatasetResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.DatasetID) == "" {
		return RefineDatasetResult{}, domainerrors.ErrInvalidDatasetRequest
	}
	if cmd.QualityThreshold < 0 || cmd.QualityThreshold > 1 {
		return RefineDatasetResult{}, domainerrors.ErrInvalidThreshold
	}
	dedupThreshold := services.DefaultDedupThreshold
	if cmd.DedupThreshold != nil {
		dedupThreshold = *cmd.DedupThreshold
		if dedupThreshold < 0 || dedupThreshold > 1 {
			return RefineDatasetResult{}, domainerrors.ErrInvalidThreshold
		}
	}

	recordID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return RefineDatasetResult{}, err
	}

	startedAt := u.Clock.Now().UTC()
	if _, err := u.Datasets.BeginRefinement(ctx, cmd.DatasetID, startedAt); err != nil {
		logger.Warn("refine dataset rejected",
			"event", "refine_dataset_rejected",
			"module", "data-refinery/refinement-service",
			"layer", "application",
			"dataset_id", cmd.DatasetID,
			"error", err.Error(),
		)
		return RefineDatasetResult{}, err
	}

	logger.Info("refine dataset started",
		"event", "refine_dataset_started",
		"module", "data-refinery/refinement-service",
		"layer", "application",
		"dataset_id", cmd.DatasetID,
		"quality_threshold", cmd.QualityThreshold,
		"dedup_threshold", dedupThreshold,
	)

	items, err := u.Items.ListItems(ctx, cmd.DatasetID)
	if err != nil {
		return RefineDatasetResult{}, u.fail(ctx, cmd, recordID, dedupThreshold, startedAt, err)
	}

	scoring := u.Scorer.ScoreItems(items)
	duplicates, err := services.FindDuplicates(items, dedupThreshold, u.Similarity)
	if err != nil {
		return RefineDatasetResult{}, u.fail(ctx, cmd, recordID, dedupThreshold, startedAt, err)
	}
	classification := u.Classifier.ClassifyItems(items)

	// Per-item failures are transient and tallied, but a run where no item
	// produced any signal is fatal.
	if len(items) > 0 &&
		scoring.ScoringErrors == len(items) &&
		classification.ClassificationErrors == len(items) {
		return RefineDatasetResult{}, u.fail(ctx, cmd, recordID, dedupThreshold, startedAt, domainerrors.ErrAllItemsFailed)
	}

	outcomes := make([]ports.ItemOutcome, 0, len(items))
	passed := 0
	for _, item := range items {
		metrics := scoring.PerItem[item.ItemID]
		metrics.Duplicate = duplicates[item.ItemID]
		outcome := ports.ItemOutcome{
			ItemID:  item.ItemID,
			Metrics: metrics,
		}
		switch {
		case metrics.Duplicate:
			outcome.Status = entities.ItemStatusRejected
			outcome.Reason = entities.RejectionDuplicate
		case metrics.OverallQuality < cmd.QualityThreshold:
			outcome.Status = entities.ItemStatusRejected
			outcome.Reason = entities.RejectionLowQuality
		default:
			outcome.Status = entities.ItemStatusPassed
			passed++
		}
		outcomes = append(outcomes, outcome)
	}

	completedAt := u.Clock.Now().UTC()
	record := entities.RefinementRecord{
		RecordID:             recordID,
		DatasetID:            cmd.DatasetID,
		Scores:               scoring.Aggregate,
		OverallQuality:       scoring.OverallQuality,
		NotApplicable:        scoring.NotApplicable,
		QualityThreshold:     cmd.QualityThreshold,
		DedupThreshold:       dedupThreshold,
		DedupMethod:          entities.DedupMethodHashAndSemantic,
		ItemsProcessed:       len(items),
		ItemsPassed:          passed,
		ItemsRejected:        len(items) - passed,
		DuplicatesFound:      len(duplicates),
		Classifications:      classification.Distributions,
		ScoringErrors:        scoring.ScoringErrors,
		ClassificationErrors: classification.ClassificationErrors,
		StartedAt:            startedAt,
		CompletedAt:          completedAt,
	}
	record.MetricsDigest = record.ComputeMetricsDigest()

	dataset, err := u.Datasets.CompleteRefinement(ctx, cmd.DatasetID, record, outcomes, completedAt)
	if err != nil {
		logger.Error("refine dataset commit failed",
			"event", "refine_dataset_commit_failed",
			"module", "data-refinery/refinement-service",
			"layer", "application",
			"dataset_id", cmd.DatasetID,
			"error", err.Error(),
		)
		return RefineDatasetResult{}, err
	}

	logger.Info("refine dataset completed",
		"event", "refine_dataset_completed",
		"module", "data-refinery/refinement-service",
		"layer", "application",
		"dataset_id", cmd.DatasetID,
		"record_id", record.RecordID,
		"overall_quality", record.OverallQuality,
		"items_passed", record.ItemsPassed,
		"items_rejected", record.ItemsRejected,
		"duplicates_found", record.DuplicatesFound,
	)
	return RefineDatasetResult{Dataset: dataset, Record: record}, nil
}

// fail records the partial run and drops the dataset to stage failed. The
// caller must retry refine explicitly; there is no retry loop in the core.
func (u RefineDatasetUseCase) fail(
	ctx context.Context,
	cmd RefineDatasetCommand,
	recordID string,
	dedupThreshold float64,
	startedAt time.Time,
	cause error,
) error {
	logger := application.ResolveLogger(u.Logger)
	completedAt := u.Clock.Now().UTC()
	record := entities.RefinementRecord{
		RecordID:         recordID,
		DatasetID:        cmd.DatasetID,
		QualityThreshold: cmd.QualityThreshold,
		DedupThreshold:   dedupThreshold,
		DedupMethod:      entities.DedupMethodHashAndSemantic,
		FailureReason:    cause.Error(),
		StartedAt:        startedAt,
		CompletedAt:      completedAt,
	}
	if err := u.Datasets.FailRefinement(ctx, cmd.DatasetID, record, completedAt); err != nil {
		logger.Error("recording refinement failure failed",
			"event", "refine_dataset_fail_record_failed",
			"module", "data-refinery/refinement-service",
			"layer", "application",
			"dataset_id", cmd.DatasetID,
			"error", err.Error(),
		)
	}

	logger.Error("refine dataset failed",
		"event", "refine_dataset_failed",
		"module", "data-refinery/refinement-service",
		"layer", "application",
		"dataset_id", cmd.DatasetID,
		"record_id", recordID,
		"reason", cause.Error(),
	)
	return fmt.Errorf("%w: %s", domainerrors.ErrPipelineFailed, cause.Error())
}
