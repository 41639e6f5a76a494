package queries

import (
	"context"
	"log/slog"

	application "refinery/contexts/data-refinery/refinement-service/application"
	"refinery/contexts/data-refinery/refinement-service/ports"
)

type ListIngestionsQuery struct {
	DatasetID string
}

type ListIngestionsResult struct {
	Items []ports.IngestionRecord
}

type ListIngestionsUseCase struct {
	Datasets   ports.DatasetRepository
	Ingestions ports.IngestionRecordRepository
	Logger     *slog.Logger
}

func (u ListIngestionsUseCase) Execute(ctx context.Context, query ListIngestionsQuery) (ListIngestionsResult, error) {
	logger := application.ResolveLogger(u.Logger)

	if _, err := u.Datasets.GetDataset(ctx, query.DatasetID); err != nil {
		logger.Error("list ingestions failed",
			"event", "list_ingestions_failed",
			"module", "data-refinery/refinement-service",
			"layer", "application",
			"dataset_id", query.DatasetID,
			"error", err.Error(),
		)
		return ListIngestionsResult{}, err
	}

	items, err := u.Ingestions.ListIngestions(ctx, query.DatasetID)
	if err != nil {
		return ListIngestionsResult{}, err
	}
	return ListIngestionsResult{Items: items}, nil
}
