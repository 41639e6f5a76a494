package ports

import (
	"context"
	"time"

	contractsv1 "refinery/contracts/gen/events/v1"
	"refinery/contexts/data-refinery/marketplace-service/domain/entities"
)

// ListingSearchFilter narrows the published catalog before ranking.
type ListingSearchFilter struct {
	Query     string
	Category  string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating float64
	Sort      string
	Cursor    string
	Limit     int
}

// ListingRepository owns listing persistence. Purchase and status moves are
// check-and-set: the write succeeds only when the listing is still in the
// expected state, which is what keeps supply from going negative.
type ListingRepository interface {
	CreateListing(ctx context.Context, listing entities.MarketplaceListing) error
	GetListing(ctx context.Context, listingID string) (entities.MarketplaceListing, error)
	// PublishListing moves draft -> published and stamps PublishedAt.
	// ErrListingStatusConflict when the listing is not a draft.
	PublishListing(ctx context.Context, listingID string, at time.Time) (entities.MarketplaceListing, error)
	// DelistListing moves published -> delisted.
	DelistListing(ctx context.Context, listingID string, at time.Time) (entities.MarketplaceListing, error)
	// SearchListings filters, ranks, and paginates published listings.
	SearchListings(ctx context.Context, filter ListingSearchFilter) ([]entities.MarketplaceListing, string, error)
	// IncrementViewCount bumps the view counter; missing listings are ignored.
	IncrementViewCount(ctx context.Context, listingID string) error
	// PurchaseListing is the atomic purchase unit: supply check-and-set,
	// counter bumps, sale row, and outbox row commit together or not at all.
	// ErrSoldOut when remaining supply cannot cover the sale's quantity.
	PurchaseListing(ctx context.Context, sale entities.Sale, event EventEnvelope, at time.Time) (entities.MarketplaceListing, error)
	// Stats aggregates marketplace totals across listings and sales.
	Stats(ctx context.Context) (MarketplaceStats, error)
}

// ReviewRepository owns reviews and the listing rating aggregates derived
// from them.
type ReviewRepository interface {
	// UpsertReview inserts or replaces the (listing, reviewer) review and
	// recomputes the listing's AverageRating and ReviewCount from the full
	// review set in the same atomic write. Reports whether a new review row
	// was created.
	UpsertReview(ctx context.Context, review entities.Review, at time.Time) (entities.Review, bool, error)
	ListReviews(ctx context.Context, listingID string) ([]entities.Review, error)
}

type SaleRepository interface {
	GetSale(ctx context.Context, saleID string) (entities.Sale, error)
	ListSalesByBuyer(ctx context.Context, buyerID string) ([]entities.Sale, error)
}

// MarketplaceStats is the aggregate snapshot served by the stats query.
type MarketplaceStats struct {
	TotalListings     int
	PublishedListings int
	TotalSales        int
	TotalRevenueUSD   float64
	AverageRating     float64
	TotalReviews      int
}

// PackageSummary is the marketplace-side view of a curated package.
type PackageSummary struct {
	PackageID       string
	SourceDatasetID string
	Name            string
	QualityScore    float64
	ItemCount       int
	SizeBytes       int64
	Available       bool
}

// PackageCatalog reads package state from the curation module and marks
// packages for sale when a listing goes up. Implementations translate
// curation errors into this module's domain errors.
type PackageCatalog interface {
	GetPackage(ctx context.Context, packageID string) (PackageSummary, error)
	MarkForSale(ctx context.Context, packageID string, priceUSD float64) error
}

// DatasetLifecycle advances the source dataset's stage in the refinement
// module. Both moves are idempotent: repeating them after the stage already
// advanced is not an error.
type DatasetLifecycle interface {
	// MarkListed moves packaged -> listed when the listing publishes.
	MarkListed(ctx context.Context, datasetID string) error
	// MarkSold moves listed -> sold on the first sale.
	MarkSold(ctx context.Context, datasetID string) error
}

// OutboxMessage is a row ready to relay from the module outbox.
type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

// OutboxRepository models worker-side outbox polling/acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error
}

// EventEnvelope reuses the canonical cross-runtime envelope contract.
type EventEnvelope = contractsv1.Envelope

// EventPublisher publishes canonical envelopes to a topic.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
