package queries

import (
	"context"
	"log/slog"

	application "refinery/contexts/data-refinery/curation-service/application"
	"refinery/contexts/data-refinery/curation-service/domain/entities"
	"refinery/contexts/data-refinery/curation-service/ports"
)

type GetPackageQuery struct {
	PackageID string
}

type GetPackageResult struct {
	Package entities.DataPackage
}

type GetPackageUseCase struct {
	Packages ports.PackageRepository
	Logger   *slog.Logger
}

func (u GetPackageUseCase) Execute(ctx context.Context, query GetPackageQuery) (GetPackageResult, error) {
	logger := application.ResolveLogger(u.Logger)

	pkg, err := u.Packages.GetPackage(ctx, query.PackageID)
	if err != nil {
		logger.Error("get package failed",
			"event", "get_package_failed",
			"module", "data-refinery/curation-service",
			"layer", "application",
			"package_id", query.PackageID,
			"error", err.Error(),
		)
		return GetPackageResult{}, err
	}
	return GetPackageResult{Package: pkg}, nil
}
