package queries

import (
	"context"
	"log/slog"

	application "refinery/contexts/data-refinery/refinement-service/application"
	"refinery/contexts/data-refinery/refinement-service/domain/entities"
	"refinery/contexts/data-refinery/refinement-service/ports"
)

type GetDatasetQuery struct {
	DatasetID string
}

type GetDatasetResult struct {
	Dataset entities.Dataset
	Items   []entities.Item
}

type GetDatasetUseCase struct {
	Datasets ports.DatasetRepository
	Items    ports.ItemRepository
	Logger   *slog.Logger
}

func (u GetDatasetUseCase) Execute(ctx context.Context, query GetDatasetQuery) (GetDatasetResult, error) {
	logger := application.ResolveLogger(u.Logger)

	dataset, err := u.Datasets.GetDataset(ctx, query.DatasetID)
	if err != nil {
		logger.Error("get dataset failed",
			"event", "get_dataset_failed",
			"module", "data-refinery/refinement-service",
			"layer", "application",
			"dataset_id", query.DatasetID,
			"error", err.Error(),
		)
		return GetDatasetResult{}, err
	}

	items, err := u.Items.ListItems(ctx, query.DatasetID)
	if err != nil {
		return GetDatasetResult{}, err
	}

	return GetDatasetResult{Dataset: dataset, Items: items}, nil
}
