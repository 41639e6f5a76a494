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

type DelistListingCommand struct {
	ListingID string
}

type DelistListingResult struct {
	Listing entities.MarketplaceListing
}

type DelistListingUseCase struct {
	Listings ports.ListingRepository
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (u DelistListingUseCase) Execute(ctx context.Context, cmd DelistListingCommand) (DelistListingResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.ListingID) == "" {
		return DelistListingResult{}, domainerrors.ErrInvalidListingRequest
	}

	listing, err := u.Listings.DelistListing(ctx, cmd.ListingID, u.Clock.Now().UTC())
	if err != nil {
		logger.Error("delist listing failed",
			"event", "delist_listing_failed",
			"module", "data-refinery/marketplace-service",
			"layer", "application",
			"listing_id", cmd.ListingID,
			"error", err.Error(),
		)
		return DelistListingResult{}, err
	}

	logger.Info("listing delisted",
		"event", "listing_delisted",
		"module", "data-refinery/marketplace-service",
		"layer", "application",
		"listing_id", cmd.ListingID,
	)
	return DelistListingResult{Listing: listing}, nil
}
