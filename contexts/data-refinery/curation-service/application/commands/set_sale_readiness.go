package commands

import (
	"context"
	"log/slog"
	"strings"

	application "refinery/contexts/data-refinery/curation-service/application"
	"refinery/contexts/data-refinery/curation-service/domain/entities"
	domainerrors "refinery/contexts/data-refinery/curation-service/domain/errors"
	"refinery/contexts/data-refinery/curation-service/ports"
)

type SetSaleReadinessCommand struct {
	PackageID string
	IsForSale bool
	PriceUSD  float64
}

type SetSaleReadinessResult struct {
	Package entities.DataPackage
}

// SetSaleReadinessUseCase flips the single mutable surface of a package. The
// marketplace module calls it through the package catalog bridge when a
// listing is created.
type SetSaleReadinessUseCase struct {
	Packages ports.PackageRepository
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (u SetSaleReadinessUseCase) Execute(ctx context.Context, cmd SetSaleReadinessCommand) (SetSaleReadinessResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.PackageID) == "" {
		return SetSaleReadinessResult{}, domainerrors.ErrInvalidPackageRequest
	}
	if cmd.IsForSale && cmd.PriceUSD <= 0 {
		return SetSaleReadinessResult{}, domainerrors.ErrInvalidPrice
	}

	pkg, err := u.Packages.SetSaleReadiness(ctx, cmd.PackageID, cmd.IsForSale, cmd.PriceUSD, u.Clock.Now().UTC())
	if err != nil {
		logger.Error("set sale readiness failed",
			"event", "set_sale_readiness_failed",
			"module", "data-refinery/curation-service",
			"layer", "application",
			"package_id", cmd.PackageID,
			"error", err.Error(),
		)
		return SetSaleReadinessResult{}, err
	}

	logger.Info("sale readiness updated",
		"event", "sale_readiness_updated",
		"module", "data-refinery/curation-service",
		"layer", "application",
		"package_id", cmd.PackageID,
		"for_sale", cmd.IsForSale,
	)
	return SetSaleReadinessResult{Package: pkg}, nil
}
