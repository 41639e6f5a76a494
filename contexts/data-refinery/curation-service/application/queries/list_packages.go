package queries

import (
	"context"
	"log/slog"
	"strings"

	application "refinery/contexts/data-refinery/curation-service/application"
	"refinery/contexts/data-refinery/curation-service/domain/entities"
	domainerrors "refinery/contexts/data-refinery/curation-service/domain/errors"
	"refinery/contexts/data-refinery/curation-service/ports"
)

type ListPackagesQuery struct {
	DatasetID string
}

type ListPackagesResult struct {
	Items []entities.DataPackage
}

type ListPackagesUseCase struct {
	Packages ports.PackageRepository
	Logger   *slog.Logger
}

func (u ListPackagesUseCase) Execute(ctx context.Context, query ListPackagesQuery) (ListPackagesResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(query.DatasetID) == "" {
		return ListPackagesResult{}, domainerrors.ErrInvalidPackageRequest
	}

	items, err := u.Packages.ListPackagesByDataset(ctx, query.DatasetID)
	if err != nil {
		logger.Error("list packages failed",
			"event", "list_packages_failed",
			"module", "data-refinery/curation-service",
			"layer", "application",
			"dataset_id", query.DatasetID,
			"error", err.Error(),
		)
		return ListPackagesResult{}, err
	}
	return ListPackagesResult{Items: items}, nil
}
