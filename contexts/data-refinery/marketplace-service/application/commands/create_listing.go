package commands

import (
	"context"
	"log/slog"

	application "refinery/contexts/data-refinery/marketplace-service/application"
	"refinery/contexts/data-refinery/marketplace-service/domain/entities"
	domainerrors "refinery/contexts/data-refinery/marketplace-service/domain/errors"
	"refinery/contexts/data-refinery/marketplace-service/ports"
)

type CreateListingCommand struct {
	PackageID   string
	SellerID    string
	Title       string
	Description string
	Category    string
	Tags        []string
	PriceUSD    float64
	// SupplyLimit caps copies sold; zero or negative means unlimited.
	SupplyLimit int
}

type CreateListingResult struct {
	Listing entities.MarketplaceListing
}

// CreateListingUseCase drafts a listing over an available package and marks
// the package for sale through the catalog bridge.
type CreateListingUseCase struct {
	Listings    ports.ListingRepository
	Catalog     ports.PackageCatalog
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u CreateListingUseCase) Execute(ctx context.Context, cmd CreateListingCommand) (CreateListingResult, error) {
	logger := application.ResolveLogger(u.Logger)

	supply := cmd.SupplyLimit
	if supply <= 0 {
		supply = entities.UnlimitedSupply
	}
	listing := entities.MarketplaceListing{
		PackageID:             cmd.PackageID,
		SellerID:              cmd.SellerID,
		Title:                 cmd.Title,
		Description:           cmd.Description,
		Category:              cmd.Category,
		Tags:                  cmd.Tags,
		PriceUSD:              cmd.PriceUSD,
		Status:                entities.ListingDraft,
		SupplyRemaining:       supply,
		BulkDiscountThreshold: entities.DefaultBulkDiscountThreshold,
		BulkDiscountRate:      entities.DefaultBulkDiscountRate,
	}
	if !listing.ValidateBasics() {
		return CreateListingResult{}, domainerrors.ErrInvalidListingRequest
	}

	pkg, err := u.Catalog.GetPackage(ctx, cmd.PackageID)
	if err != nil {
		return CreateListingResult{}, err
	}
	if !pkg.Available {
		return CreateListingResult{}, domainerrors.ErrPackageUnavailable
	}

	listingID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return CreateListingResult{}, err
	}
	now := u.Clock.Now().UTC()
	listing.ListingID = listingID
	listing.CreatedAt = now
	listing.UpdatedAt = now

	if err := u.Listings.CreateListing(ctx, listing); err != nil {
		logger.Error("create listing failed",
			"event", "create_listing_failed",
			"module", "data-refinery/marketplace-service",
			"layer", "application",
			"package_id", cmd.PackageID,
			"error", err.Error(),
		)
		return CreateListingResult{}, err
	}

	if err := u.Catalog.MarkForSale(ctx, cmd.PackageID, cmd.PriceUSD); err != nil {
		logger.Error("mark package for sale failed",
			"event", "create_listing_failed",
			"module", "data-refinery/marketplace-service",
			"layer", "application",
			"package_id", cmd.PackageID,
			"listing_id", listingID,
			"error", err.Error(),
		)
		return CreateListingResult{}, err
	}

	logger.Info("listing created",
		"event", "listing_created",
		"module", "data-refinery/marketplace-service",
		"layer", "application",
		"listing_id", listingID,
		"package_id", cmd.PackageID,
	)
	return CreateListingResult{Listing: listing}, nil
}
