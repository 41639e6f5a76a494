package queries

import (
	"context"
	"log/slog"

	application "refinery/contexts/data-refinery/refinement-service/application"
	"refinery/contexts/data-refinery/refinement-service/domain/entities"
	"refinery/contexts/data-refinery/refinement-service/ports"
)

type GetRefinementStatusQuery struct {
	DatasetID string
}

// GetRefinementStatusResult is the pollable view of a dataset's pipeline
// position: current stage plus the metrics of the latest run, if any.
type GetRefinementStatusResult struct {
	Stage        entities.DatasetStage
	Refined      bool
	LatestRecord entities.RefinementRecord
}

type GetRefinementStatusUseCase struct {
	Datasets ports.DatasetRepository
	Records  ports.RefinementRecordRepository
	Logger   *slog.Logger
}

func (u GetRefinementStatusUseCase) Execute(ctx context.Context, query GetRefinementStatusQuery) (GetRefinementStatusResult, error) {
	logger := application.ResolveLogger(u.Logger)

	dataset, err := u.Datasets.GetDataset(ctx, query.DatasetID)
	if err != nil {
		logger.Error("get refinement status failed",
			"event", "get_refinement_status_failed",
			"module", "data-refinery/refinement-service",
			"layer", "application",
			"dataset_id", query.DatasetID,
			"error", err.Error(),
		)
		return GetRefinementStatusResult{}, err
	}

	record, found, err := u.Records.LatestRecord(ctx, query.DatasetID)
	if err != nil {
		return GetRefinementStatusResult{}, err
	}

	return GetRefinementStatusResult{
		Stage:        dataset.Stage,
		Refined:      found,
		LatestRecord: record,
	}, nil
}
