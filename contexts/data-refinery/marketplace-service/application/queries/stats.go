package queries

import (
	"context"
	"log/slog"

	application "refinery/contexts/data-refinery/marketplace-service/application"
	"refinery/contexts/data-refinery/marketplace-service/ports"
)

type MarketplaceStatsQuery struct{}

type MarketplaceStatsResult struct {
	Stats ports.MarketplaceStats
}

type MarketplaceStatsUseCase struct {
	Listings ports.ListingRepository
	Logger   *slog.Logger
}

func (u MarketplaceStatsUseCase) Execute(ctx context.Context, _ MarketplaceStatsQuery) (MarketplaceStatsResult, error) {
	logger := application.ResolveLogger(u.Logger)

	stats, err := u.Listings.Stats(ctx)
	if err != nil {
		logger.Error("marketplace stats failed",
			"event", "marketplace_stats_failed",
			"module", "data-refinery/marketplace-service",
			"layer", "application",
			"error", err.Error(),
		)
		return MarketplaceStatsResult{}, err
	}
	return MarketplaceStatsResult{Stats: stats}, nil
}
