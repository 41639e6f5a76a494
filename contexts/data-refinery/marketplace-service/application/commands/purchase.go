package commands

import (
	"context"
	"log/slog"
	"strings"

	application "refinery/contexts/data-refinery/marketplace-service/application"
	"refinery/contexts/data-refinery/marketplace-service/domain/entities"
	domainerrors "refinery/contexts/data-refinery/marketplace-service/domain/errors"
	"refinery/contexts/data-refinery/marketplace-service/domain/services"
	"refinery/contexts/data-refinery/marketplace-service/ports"
)

type PurchaseCommand struct {
	ListingID string
	BuyerID   string
	Quantity  int
}

type PurchaseResult struct {
	Sale    entities.Sale
	Listing entities.MarketplaceListing
}

// PurchaseUseCase executes one sale. The policy quote is advisory; the
// repository's purchase write holds the authoritative supply check-and-set,
// so concurrent buyers can never oversell, and the surplus attempt surfaces
// ErrSoldOut.
type PurchaseUseCase struct {
	Listings    ports.ListingRepository
	Catalog     ports.PackageCatalog
	Lifecycle   ports.DatasetLifecycle
	Policy      services.PurchasePolicy
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u PurchaseUseCase) Execute(ctx context.Context, cmd PurchaseCommand) (PurchaseResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.ListingID) == "" || strings.TrimSpace(cmd.BuyerID) == "" {
		return PurchaseResult{}, domainerrors.ErrInvalidListingRequest
	}

	listing, err := u.Listings.GetListing(ctx, cmd.ListingID)
	if err != nil {
		return PurchaseResult{}, err
	}
	amount, err := u.Policy.Quote(listing, cmd.Quantity)
	if err != nil {
		return PurchaseResult{}, err
	}

	saleID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return PurchaseResult{}, err
	}
	accessToken, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return PurchaseResult{}, err
	}
	eventID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return PurchaseResult{}, err
	}

	now := u.Clock.Now().UTC()
	sale := entities.Sale{
		SaleID:             saleID,
		ListingID:          listing.ListingID,
		PackageID:          listing.PackageID,
		BuyerID:            cmd.BuyerID,
		Quantity:           cmd.Quantity,
		AmountUSD:          amount,
		AccessToken:        accessToken,
		DownloadsRemaining: entities.UnlimitedDownloads,
		LicenseExpiresAt:   now.AddDate(1, 0, 0),
		CreatedAt:          now,
	}

	event, err := newMarketplaceEnvelope(eventID, TopicPackageSold, listing.ListingID, now, map[string]any{
		"sale_id":    sale.SaleID,
		"listing_id": sale.ListingID,
		"package_id": sale.PackageID,
		"buyer_id":   sale.BuyerID,
		"quantity":   sale.Quantity,
		"amount_usd": sale.AmountUSD,
	})
	if err != nil {
		return PurchaseResult{}, err
	}

	updated, err := u.Listings.PurchaseListing(ctx, sale, event, now)
	if err != nil {
		logger.Error("purchase failed",
			"event", "purchase_failed",
			"module", "data-refinery/marketplace-service",
			"layer", "application",
			"listing_id", cmd.ListingID,
			"quantity", cmd.Quantity,
			"error", err.Error(),
		)
		return PurchaseResult{}, err
	}

	// The first sale walks the dataset listed -> sold; the move is idempotent
	// so later sales are no-ops.
	pkg, err := u.Catalog.GetPackage(ctx, listing.PackageID)
	if err != nil {
		logger.Warn("package lookup for sold transition failed",
			"event", "purchase_lifecycle_lagged",
			"module", "data-refinery/marketplace-service",
			"layer", "application",
			"listing_id", cmd.ListingID,
			"package_id", listing.PackageID,
			"error", err.Error(),
		)
	} else if err := u.Lifecycle.MarkSold(ctx, pkg.SourceDatasetID); err != nil {
		logger.Warn("mark dataset sold failed",
			"event", "purchase_lifecycle_lagged",
			"module", "data-refinery/marketplace-service",
			"layer", "application",
			"listing_id", cmd.ListingID,
			"dataset_id", pkg.SourceDatasetID,
			"error", err.Error(),
		)
	}

	logger.Info("purchase completed",
		"event", "purchase_completed",
		"module", "data-refinery/marketplace-service",
		"layer", "application",
		"listing_id", cmd.ListingID,
		"sale_id", sale.SaleID,
		"quantity", cmd.Quantity,
		"amount_usd", sale.AmountUSD,
	)
	return PurchaseResult{Sale: sale, Listing: updated}, nil
}
