package marketplaceservice

import (
	"log/slog"

	httpadapter "refinery/contexts/data-refinery/marketplace-service/adapters/http"
	"refinery/contexts/data-refinery/marketplace-service/adapters/memory"
	"refinery/contexts/data-refinery/marketplace-service/application/commands"
	"refinery/contexts/data-refinery/marketplace-service/application/queries"
	"refinery/contexts/data-refinery/marketplace-service/application/workers"
	"refinery/contexts/data-refinery/marketplace-service/domain/entities"
	"refinery/contexts/data-refinery/marketplace-service/domain/services"
	"refinery/contexts/data-refinery/marketplace-service/ports"
)

// Module is the composition surface of the marketplace service. Runtime
// wiring consumes Handler and OutboxRelay; Store is exposed for tests.
type Module struct {
	Handler     httpadapter.Handler
	OutboxRelay workers.OutboxRelay
	Store       *memory.Store
}

type Dependencies struct {
	Listings  ports.ListingRepository
	Reviews   ports.ReviewRepository
	Sales     ports.SaleRepository
	Outbox    ports.OutboxRepository
	Catalog   ports.PackageCatalog
	Lifecycle ports.DatasetLifecycle
	Publisher ports.EventPublisher
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	BatchSize int
	Logger    *slog.Logger
}

// NewModule wires the marketplace use-cases against explicit ports.
func NewModule(deps Dependencies) Module {
	policy := services.PurchasePolicy{}

	createListing := commands.CreateListingUseCase{
		Listings:    deps.Listings,
		Catalog:     deps.Catalog,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGen,
		Logger:      deps.Logger,
	}
	publishListing := commands.PublishListingUseCase{
		Listings:  deps.Listings,
		Catalog:   deps.Catalog,
		Lifecycle: deps.Lifecycle,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	delistListing := commands.DelistListingUseCase{
		Listings: deps.Listings,
		Clock:    deps.Clock,
		Logger:   deps.Logger,
	}
	purchase := commands.PurchaseUseCase{
		Listings:    deps.Listings,
		Catalog:     deps.Catalog,
		Lifecycle:   deps.Lifecycle,
		Policy:      policy,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGen,
		Logger:      deps.Logger,
	}
	addReview := commands.AddReviewUseCase{
		Listings:    deps.Listings,
		Reviews:     deps.Reviews,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGen,
		Logger:      deps.Logger,
	}

	searchListings := queries.SearchListingsUseCase{
		Listings: deps.Listings,
		Logger:   deps.Logger,
	}
	getListing := queries.GetListingUseCase{
		Listings: deps.Listings,
		Reviews:  deps.Reviews,
		Logger:   deps.Logger,
	}
	getPurchase := queries.GetPurchaseUseCase{
		Sales:  deps.Sales,
		Logger: deps.Logger,
	}
	listSales := queries.ListSalesUseCase{
		Sales:  deps.Sales,
		Logger: deps.Logger,
	}
	stats := queries.MarketplaceStatsUseCase{
		Listings: deps.Listings,
		Logger:   deps.Logger,
	}

	handler := httpadapter.Handler{
		CreateListing:  createListing,
		PublishListing: publishListing,
		DelistListing:  delistListing,
		Purchase:       purchase,
		AddReview:      addReview,
		SearchListings: searchListings,
		GetListing:     getListing,
		GetPurchase:    getPurchase,
		ListSales:      listSales,
		Stats:          stats,
		Logger:         deps.Logger,
	}

	relay := workers.OutboxRelay{
		Outbox:    deps.Outbox,
		Publisher: deps.Publisher,
		Clock:     deps.Clock,
		BatchSize: deps.BatchSize,
		Logger:    deps.Logger,
	}

	return Module{
		Handler:     handler,
		OutboxRelay: relay,
	}
}

// NewInMemoryModule wires the marketplace use cases against the in-memory
// store. Catalog and lifecycle bridges come from the caller so tests can
// pair this module with in-memory curation and refinement modules.
func NewInMemoryModule(
	seedListings []entities.MarketplaceListing,
	catalog ports.PackageCatalog,
	lifecycle ports.DatasetLifecycle,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) Module {
	store := memory.NewStore(seedListings, logger)
	module := NewModule(Dependencies{
		Listings:  store,
		Reviews:   store,
		Sales:     store,
		Outbox:    store,
		Catalog:   catalog,
		Lifecycle: lifecycle,
		Publisher: publisher,
		Clock:     store,
		IDGen:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
