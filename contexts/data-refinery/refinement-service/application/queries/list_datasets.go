package queries

import (
	"context"
	"log/slog"
	"strings"

	application "refinery/contexts/data-refinery/refinement-service/application"
	"refinery/contexts/data-refinery/refinement-service/domain/entities"
	domainerrors "refinery/contexts/data-refinery/refinement-service/domain/errors"
	"refinery/contexts/data-refinery/refinement-service/ports"
)

type ListDatasetsQuery struct {
	OwnerID string
}

type ListDatasetsResult struct {
	Items []entities.Dataset
}

type ListDatasetsUseCase struct {
	Datasets ports.DatasetRepository
	Logger   *slog.Logger
}

func (u ListDatasetsUseCase) Execute(ctx context.Context, query ListDatasetsQuery) (ListDatasetsResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(query.OwnerID) == "" {
		return ListDatasetsResult{}, domainerrors.ErrInvalidDatasetRequest
	}

	items, err := u.Datasets.ListDatasetsByOwner(ctx, query.OwnerID)
	if err != nil {
		logger.Error("list datasets failed",
			"event", "list_datasets_failed",
			"module", "data-refinery/refinement-service",
			"layer", "application",
			"owner_id", query.OwnerID,
			"error", err.Error(),
		)
		return ListDatasetsResult{}, err
	}
	return ListDatasetsResult{Items: items}, nil
}
