package queries

import (
	"context"
	"log/slog"

	application "refinery/contexts/data-refinery/marketplace-service/application"
	"refinery/contexts/data-refinery/marketplace-service/domain/entities"
	"refinery/contexts/data-refinery/marketplace-service/ports"
)

type GetListingQuery struct {
	ListingID string
}

type GetListingResult struct {
	Listing entities.MarketplaceListing
	Reviews []entities.Review
}

// GetListingUseCase returns a listing with its reviews and counts the view.
type GetListingUseCase struct {
	Listings ports.ListingRepository
	Reviews  ports.ReviewRepository
	Logger   *slog.Logger
}

func (u GetListingUseCase) Execute(ctx context.Context, query GetListingQuery) (GetListingResult, error) {
	logger := application.ResolveLogger(u.Logger)

	listing, err := u.Listings.GetListing(ctx, query.ListingID)
	if err != nil {
		logger.Error("get listing failed",
			"event", "get_listing_failed",
			"module", "data-refinery/marketplace-service",
			"layer", "application",
			"listing_id", query.ListingID,
			"error", err.Error(),
		)
		return GetListingResult{}, err
	}

	reviews, err := u.Reviews.ListReviews(ctx, query.ListingID)
	if err != nil {
		return GetListingResult{}, err
	}

	if err := u.Listings.IncrementViewCount(ctx, query.ListingID); err != nil {
		logger.Warn("view count bump failed",
			"event", "get_listing_view_count_failed",
			"module", "data-refinery/marketplace-service",
			"layer", "application",
			"listing_id", query.ListingID,
			"error", err.Error(),
		)
	} else {
		listing.ViewCount++
	}

	return GetListingResult{Listing: listing, Reviews: reviews}, nil
}
