package commands

import (
	"context"
	"log/slog"
	"strings"

	application "refinery/contexts/data-refinery/marketplace-service/application"
	"refinery/contexts/data-refinery/marketplace-service/domain/entities"
	domainerrors "refinery/contexts/data-refinery/marketplace-service/domain/errors"
	"refinery/contexts/data-refinery/marketplace-service/ports"
)

type PublishListingCommand struct {
	ListingID string
}

type PublishListingResult struct {
	Listing entities.MarketplaceListing
}

// PublishListingUseCase moves a draft into the searchable catalog and walks
// the source dataset packaged -> listed.
type PublishListingUseCase struct {
	Listings  ports.ListingRepository
	Catalog   ports.PackageCatalog
	Lifecycle ports.DatasetLifecycle
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (u PublishListingUseCase) Execute(ctx context.Context, cmd PublishListingCommand) (PublishListingResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.ListingID) == "" {
		return PublishListingResult{}, domainerrors.ErrInvalidListingRequest
	}

	listing, err := u.Listings.PublishListing(ctx, cmd.ListingID, u.Clock.Now().UTC())
	if err != nil {
		logger.Error("publish listing failed",
			"event", "publish_listing_failed",
			"module", "data-refinery/marketplace-service",
			"layer", "application",
			"listing_id", cmd.ListingID,
			"error", err.Error(),
		)
		return PublishListingResult{}, err
	}

	pkg, err := u.Catalog.GetPackage(ctx, listing.PackageID)
	if err != nil {
		return PublishListingResult{}, err
	}
	if err := u.Lifecycle.MarkListed(ctx, pkg.SourceDatasetID); err != nil {
		logger.Error("mark dataset listed failed",
			"event", "publish_listing_failed",
			"module", "data-refinery/marketplace-service",
			"layer", "application",
			"listing_id", cmd.ListingID,
			"dataset_id", pkg.SourceDatasetID,
			"error", err.Error(),
		)
		return PublishListingResult{}, err
	}

	logger.Info("listing published",
		"event", "listing_published",
		"module", "data-refinery/marketplace-service",
		"layer", "application",
		"listing_id", cmd.ListingID,
	)
	return PublishListingResult{Listing: listing}, nil
}
