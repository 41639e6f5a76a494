package unit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"refinery/internal/app/bootstrap"

	marketplaceservice "refinery/contexts/data-refinery/marketplace-service"
	"refinery/contexts/data-refinery/marketplace-service/application/commands"
	marketplaceerrors "refinery/contexts/data-refinery/marketplace-service/domain/errors"
	marketplaceports "refinery/contexts/data-refinery/marketplace-service/ports"
	marketplacehttp "refinery/contexts/data-refinery/marketplace-service/transport/http"
)

// listedPackage runs the full pipeline up to a sellable package and returns
// the package and dataset ids.
func listedPackage(t *testing.T, stack bootstrap.InMemoryStack) (string, string) {
	t.Helper()
	datasetID := refinedDataset(t, stack, 0.6, strongItem("alpha", "hash-alpha"), strongItem("beta", "hash-beta"))
	pkg := createPackage(t, stack, datasetID)
	return pkg.PackageID, datasetID
}

func draftListing(t *testing.T, stack bootstrap.InMemoryStack, packageID string, price float64, supply int) marketplacehttp.ListingDTO {
	t.Helper()
	resp, err := stack.Marketplace.Handler.CreateListingHandler(context.Background(), "seller-1", marketplacehttp.CreateListingRequest{
		PackageID:   packageID,
		Title:       "curated crawl corpus",
		Description: "deduplicated text corpus",
		Category:    "text",
		Tags:        []string{"corpus", "english"},
		PriceUSD:    price,
		SupplyLimit: supply,
	})
	if err != nil {
		t.Fatalf("create listing should succeed: %v", err)
	}
	return resp.Listing
}

func publishListing(t *testing.T, stack bootstrap.InMemoryStack, listingID string) marketplacehttp.ListingDTO {
	t.Helper()
	resp, err := stack.Marketplace.Handler.PublishListingHandler(context.Background(), listingID)
	if err != nil {
		t.Fatalf("publish should succeed: %v", err)
	}
	return resp.Listing
}

func TestCreateListingMarksPackageForSale(t *testing.T) {
	stack := newStack(t)
	packageID, _ := listedPackage(t, stack)

	listing := draftListing(t, stack, packageID, 19.99, 0)
	if listing.Status != "draft" {
		t.Fatalf("new listing should be a draft, got %s", listing.Status)
	}
	if listing.SupplyRemaining != -1 {
		t.Fatalf("no supply limit should mean unlimited, got %d", listing.SupplyRemaining)
	}

	pkg, err := stack.Curation.Handler.GetPackageHandler(context.Background(), packageID)
	if err != nil {
		t.Fatalf("get package should succeed: %v", err)
	}
	if !pkg.Package.IsForSale || pkg.Package.PriceUSD != 19.99 {
		t.Fatalf("listing the package should mark it for sale: %+v", pkg.Package)
	}
}

func TestPublishListingAdvancesDataset(t *testing.T) {
	stack := newStack(t)
	packageID, datasetID := listedPackage(t, stack)
	listing := draftListing(t, stack, packageID, 10.0, 0)

	published := publishListing(t, stack, listing.ListingID)
	if published.Status != "published" || published.PublishedAt == "" {
		t.Fatalf("published listing should carry its timestamp: %+v", published)
	}

	status, err := stack.Refinement.Handler.GetRefinementStatusHandler(context.Background(), datasetID)
	if err != nil {
		t.Fatalf("status should succeed: %v", err)
	}
	if status.Stage != "listed" {
		t.Fatalf("publishing should advance the dataset to listed, got %s", status.Stage)
	}
}

func TestPurchaseAppliesBulkDiscount(t *testing.T) {
	stack := newStack(t)
	packageID, datasetID := listedPackage(t, stack)
	listing := draftListing(t, stack, packageID, 10.0, 0)
	publishListing(t, stack, listing.ListingID)

	resp, err := stack.Marketplace.Handler.PurchaseHandler(context.Background(), listing.ListingID, "buyer-1", marketplacehttp.PurchaseRequest{
		Quantity: 10,
	})
	if err != nil {
		t.Fatalf("purchase should succeed: %v", err)
	}
	if resp.Sale.AmountUSD != 90.0 {
		t.Fatalf("ten copies at 10.00 should cost 90.00 after the bulk discount, got %f", resp.Sale.AmountUSD)
	}
	if resp.Sale.AccessToken == "" || resp.Sale.LicenseExpiresAt == "" {
		t.Fatalf("sale should carry access token and license window: %+v", resp.Sale)
	}
	if resp.Listing.CopiesSold != 10 {
		t.Fatalf("copies sold should reflect the purchase, got %d", resp.Listing.CopiesSold)
	}

	status, err := stack.Refinement.Handler.GetRefinementStatusHandler(context.Background(), datasetID)
	if err != nil {
		t.Fatalf("status should succeed: %v", err)
	}
	if status.Stage != "sold" {
		t.Fatalf("first sale should advance the dataset to sold, got %s", status.Stage)
	}

	sales, err := stack.Marketplace.Handler.ListSalesHandler(context.Background(), "buyer-1")
	if err != nil {
		t.Fatalf("list sales should succeed: %v", err)
	}
	if len(sales.Items) != 1 || sales.Items[0].SaleID != resp.Sale.SaleID {
		t.Fatalf("buyer should see the one sale")
	}

	fetched, err := stack.Marketplace.Handler.GetPurchaseHandler(context.Background(), resp.Sale.SaleID)
	if err != nil {
		t.Fatalf("get purchase should succeed: %v", err)
	}
	if fetched.Sale.AccessToken != resp.Sale.AccessToken {
		t.Fatalf("fetched sale should match the purchase")
	}
}

func TestPurchaseNeverOversells(t *testing.T) {
	stack := newStack(t)
	packageID, _ := listedPackage(t, stack)
	listing := draftListing(t, stack, packageID, 5.0, 1)
	publishListing(t, stack, listing.ListingID)

	results := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			_, err := stack.Marketplace.Handler.PurchaseHandler(context.Background(), listing.ListingID, "buyer-1", marketplacehttp.PurchaseRequest{
				Quantity: 1,
			})
			results[slot] = err
		}(i)
	}
	wg.Wait()

	var succeeded, soldOut int
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, marketplaceerrors.ErrSoldOut):
			soldOut++
		default:
			t.Fatalf("unexpected purchase error: %v", err)
		}
	}
	if succeeded != 1 || soldOut != 1 {
		t.Fatalf("one copy must sell exactly once: %d succeeded, %d sold out", succeeded, soldOut)
	}

	got, err := stack.Marketplace.Handler.GetListingHandler(context.Background(), listing.ListingID)
	if err != nil {
		t.Fatalf("get listing should succeed: %v", err)
	}
	if got.Listing.SupplyRemaining != 0 || got.Listing.CopiesSold != 1 {
		t.Fatalf("supply accounting is off: %+v", got.Listing)
	}
}

func TestPurchaseValidation(t *testing.T) {
	stack := newStack(t)
	packageID, _ := listedPackage(t, stack)
	listing := draftListing(t, stack, packageID, 5.0, 0)

	_, err := stack.Marketplace.Handler.PurchaseHandler(context.Background(), listing.ListingID, "buyer-1", marketplacehttp.PurchaseRequest{
		Quantity: 1,
	})
	if !errors.Is(err, marketplaceerrors.ErrListingNotPublished) {
		t.Fatalf("draft listing must not sell, got %v", err)
	}

	publishListing(t, stack, listing.ListingID)
	_, err = stack.Marketplace.Handler.PurchaseHandler(context.Background(), listing.ListingID, "buyer-1", marketplacehttp.PurchaseRequest{
		Quantity: -1,
	})
	if !errors.Is(err, marketplaceerrors.ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity, got %v", err)
	}
}

func TestPurchaseDefaultsToSingleCopy(t *testing.T) {
	stack := newStack(t)
	packageID, _ := listedPackage(t, stack)
	listing := draftListing(t, stack, packageID, 7.5, 0)
	publishListing(t, stack, listing.ListingID)

	resp, err := stack.Marketplace.Handler.PurchaseHandler(context.Background(), listing.ListingID, "buyer-1", marketplacehttp.PurchaseRequest{})
	if err != nil {
		t.Fatalf("purchase without quantity should succeed: %v", err)
	}
	if resp.Sale.Quantity != 1 || resp.Sale.AmountUSD != 7.5 {
		t.Fatalf("omitted quantity should buy one copy: %+v", resp.Sale)
	}
}

func TestReviewUpsertRecomputesRating(t *testing.T) {
	stack := newStack(t)
	packageID, _ := listedPackage(t, stack)
	listing := draftListing(t, stack, packageID, 5.0, 0)
	publishListing(t, stack, listing.ListingID)

	first, err := stack.Marketplace.Handler.AddReviewHandler(context.Background(), listing.ListingID, "buyer-1", marketplacehttp.AddReviewRequest{
		Rating:  5,
		Comment: "clean data",
	})
	if err != nil {
		t.Fatalf("first review should succeed: %v", err)
	}
	if !first.Created {
		t.Fatalf("first review should report created")
	}

	second, err := stack.Marketplace.Handler.AddReviewHandler(context.Background(), listing.ListingID, "buyer-1", marketplacehttp.AddReviewRequest{
		Rating:  3,
		Comment: "some label noise after all",
	})
	if err != nil {
		t.Fatalf("repeat review should succeed: %v", err)
	}
	if second.Created {
		t.Fatalf("repeat review should replace, not create")
	}
	if second.Review.ReviewID != first.Review.ReviewID {
		t.Fatalf("upsert must keep the original review id")
	}

	if _, err := stack.Marketplace.Handler.AddReviewHandler(context.Background(), listing.ListingID, "buyer-2", marketplacehttp.AddReviewRequest{
		Rating: 5,
	}); err != nil {
		t.Fatalf("second reviewer should succeed: %v", err)
	}

	got, err := stack.Marketplace.Handler.GetListingHandler(context.Background(), listing.ListingID)
	if err != nil {
		t.Fatalf("get listing should succeed: %v", err)
	}
	if got.Listing.ReviewCount != 2 || got.Listing.AverageRating != 4.0 {
		t.Fatalf("expected 2 reviews averaging 4.0, got %d at %f", got.Listing.ReviewCount, got.Listing.AverageRating)
	}
	if len(got.Reviews) != 2 {
		t.Fatalf("listing detail should include both reviews")
	}

	_, err = stack.Marketplace.Handler.AddReviewHandler(context.Background(), listing.ListingID, "buyer-3", marketplacehttp.AddReviewRequest{
		Rating: 6,
	})
	if !errors.Is(err, marketplaceerrors.ErrInvalidRating) {
		t.Fatalf("expected invalid rating, got %v", err)
	}
}

func TestSearchListingsFiltersAndPages(t *testing.T) {
	stack := newStack(t)

	prices := []float64{30.0, 10.0, 20.0}
	categories := []string{"text", "audio", "text"}
	titles := []string{"english news corpus", "podcast speech set", "english fiction corpus"}
	listingIDs := make([]string, 3)
	for i := 0; i < 3; i++ {
		packageID, _ := listedPackage(t, stack)
		resp, err := stack.Marketplace.Handler.CreateListingHandler(context.Background(), "seller-1", marketplacehttp.CreateListingRequest{
			PackageID: packageID,
			Title:     titles[i],
			Category:  categories[i],
			PriceUSD:  prices[i],
		})
		if err != nil {
			t.Fatalf("create listing should succeed: %v", err)
		}
		listingIDs[i] = resp.Listing.ListingID
		publishListing(t, stack, resp.Listing.ListingID)
	}

	byQuery, err := stack.Marketplace.Handler.SearchListingsHandler(context.Background(), marketplacehttp.SearchListingsRequest{
		Query: "corpus",
	})
	if err != nil {
		t.Fatalf("search should succeed: %v", err)
	}
	if len(byQuery.Items) != 2 {
		t.Fatalf("query should match the two corpus listings, got %d", len(byQuery.Items))
	}

	byCategory, err := stack.Marketplace.Handler.SearchListingsHandler(context.Background(), marketplacehttp.SearchListingsRequest{
		Category: "audio",
	})
	if err != nil {
		t.Fatalf("search should succeed: %v", err)
	}
	if len(byCategory.Items) != 1 || byCategory.Items[0].ListingID != listingIDs[1] {
		t.Fatalf("category filter should isolate the audio listing")
	}

	minPrice := 15.0
	byPrice, err := stack.Marketplace.Handler.SearchListingsHandler(context.Background(), marketplacehttp.SearchListingsRequest{
		MinPrice: &minPrice,
		Sort:     "price_asc",
	})
	if err != nil {
		t.Fatalf("search should succeed: %v", err)
	}
	if len(byPrice.Items) != 2 {
		t.Fatalf("price floor should leave two listings, got %d", len(byPrice.Items))
	}
	if byPrice.Items[0].PriceUSD != 20.0 || byPrice.Items[1].PriceUSD != 30.0 {
		t.Fatalf("price_asc ordering is off: %f then %f", byPrice.Items[0].PriceUSD, byPrice.Items[1].PriceUSD)
	}

	firstPage, err := stack.Marketplace.Handler.SearchListingsHandler(context.Background(), marketplacehttp.SearchListingsRequest{
		Sort:  "price_asc",
		Limit: 2,
	})
	if err != nil {
		t.Fatalf("search should succeed: %v", err)
	}
	if len(firstPage.Items) != 2 || firstPage.NextCursor == "" {
		t.Fatalf("first page should fill the limit and hand back a cursor")
	}
	secondPage, err := stack.Marketplace.Handler.SearchListingsHandler(context.Background(), marketplacehttp.SearchListingsRequest{
		Sort:   "price_asc",
		Limit:  2,
		Cursor: firstPage.NextCursor,
	})
	if err != nil {
		t.Fatalf("search should succeed: %v", err)
	}
	if len(secondPage.Items) != 1 || secondPage.NextCursor != "" {
		t.Fatalf("second page should hold the remainder")
	}
	if secondPage.Items[0].PriceUSD != 30.0 {
		t.Fatalf("pages should continue the ordering, got %f", secondPage.Items[0].PriceUSD)
	}
}

func TestDelistListingStopsSales(t *testing.T) {
	stack := newStack(t)
	packageID, _ := listedPackage(t, stack)
	listing := draftListing(t, stack, packageID, 5.0, 0)
	publishListing(t, stack, listing.ListingID)

	delisted, err := stack.Marketplace.Handler.DelistListingHandler(context.Background(), listing.ListingID)
	if err != nil {
		t.Fatalf("delist should succeed: %v", err)
	}
	if delisted.Listing.Status != "delisted" {
		t.Fatalf("expected delisted status, got %s", delisted.Listing.Status)
	}

	_, err = stack.Marketplace.Handler.PurchaseHandler(context.Background(), listing.ListingID, "buyer-1", marketplacehttp.PurchaseRequest{
		Quantity: 1,
	})
	if !errors.Is(err, marketplaceerrors.ErrListingNotPublished) {
		t.Fatalf("delisted listing must not sell, got %v", err)
	}

	search, err := stack.Marketplace.Handler.SearchListingsHandler(context.Background(), marketplacehttp.SearchListingsRequest{})
	if err != nil {
		t.Fatalf("search should succeed: %v", err)
	}
	if len(search.Items) != 0 {
		t.Fatalf("delisted listing must not appear in search")
	}
}

func TestMarketplaceStats(t *testing.T) {
	stack := newStack(t)
	packageID, _ := listedPackage(t, stack)
	listing := draftListing(t, stack, packageID, 10.0, 0)
	publishListing(t, stack, listing.ListingID)

	if _, err := stack.Marketplace.Handler.PurchaseHandler(context.Background(), listing.ListingID, "buyer-1", marketplacehttp.PurchaseRequest{
		Quantity: 2,
	}); err != nil {
		t.Fatalf("purchase should succeed: %v", err)
	}
	if _, err := stack.Marketplace.Handler.AddReviewHandler(context.Background(), listing.ListingID, "buyer-1", marketplacehttp.AddReviewRequest{
		Rating: 4,
	}); err != nil {
		t.Fatalf("review should succeed: %v", err)
	}

	stats, err := stack.Marketplace.Handler.StatsHandler(context.Background())
	if err != nil {
		t.Fatalf("stats should succeed: %v", err)
	}
	if stats.TotalListings != 1 || stats.PublishedListings != 1 {
		t.Fatalf("listing counts are off: %+v", stats)
	}
	if stats.TotalSales != 1 || stats.TotalRevenueUSD != 20.0 {
		t.Fatalf("sale tallies are off: %+v", stats)
	}
	if stats.TotalReviews != 1 || stats.AverageRating != 4.0 {
		t.Fatalf("review tallies are off: %+v", stats)
	}
}

// flakyCatalog serves package reads until failAfter lookups have happened,
// then errors, standing in for a curation module that became unreachable.
type flakyCatalog struct {
	summary   marketplaceports.PackageSummary
	failAfter int
	lookups   int
}

func (c *flakyCatalog) GetPackage(_ context.Context, _ string) (marketplaceports.PackageSummary, error) {
	c.lookups++
	if c.lookups > c.failAfter {
		return marketplaceports.PackageSummary{}, errors.New("curation module unreachable")
	}
	return c.summary, nil
}

func (c *flakyCatalog) MarkForSale(context.Context, string, float64) error { return nil }

type noopLifecycle struct{}

func (noopLifecycle) MarkListed(context.Context, string) error { return nil }
func (noopLifecycle) MarkSold(context.Context, string) error   { return nil }

func TestPurchaseSurvivesCatalogOutage(t *testing.T) {
	catalog := &flakyCatalog{
		summary: marketplaceports.PackageSummary{
			PackageID:       "pkg-1",
			SourceDatasetID: "ref-1",
			Available:       true,
		},
		// Creating and publishing each read the catalog; the outage starts
		// with the purchase's lookup.
		failAfter: 2,
	}
	module := marketplaceservice.NewInMemoryModule(nil, catalog, noopLifecycle{}, nil, nil)

	created, err := module.Handler.CreateListingHandler(context.Background(), "seller-1", marketplacehttp.CreateListingRequest{
		PackageID: "pkg-1",
		Title:     "curated crawl corpus",
		PriceUSD:  10.0,
	})
	if err != nil {
		t.Fatalf("create listing should succeed: %v", err)
	}
	if _, err := module.Handler.PublishListingHandler(context.Background(), created.Listing.ListingID); err != nil {
		t.Fatalf("publish should succeed: %v", err)
	}

	// The catalog is down for the sold transition; the sale itself must land.
	resp, err := module.Handler.PurchaseHandler(context.Background(), created.Listing.ListingID, "buyer-1", marketplacehttp.PurchaseRequest{
		Quantity: 1,
	})
	if err != nil {
		t.Fatalf("purchase should survive a catalog outage: %v", err)
	}
	if resp.Sale.AmountUSD != 10.0 {
		t.Fatalf("sale should settle normally, got %+v", resp.Sale)
	}

	sales, err := module.Handler.ListSalesHandler(context.Background(), "buyer-1")
	if err != nil {
		t.Fatalf("list sales should succeed: %v", err)
	}
	if len(sales.Items) != 1 {
		t.Fatalf("sale should be recorded despite the outage")
	}
}

func TestOutboxRelayPublishesSaleEvents(t *testing.T) {
	stack := newStack(t)
	packageID, _ := listedPackage(t, stack)
	listing := draftListing(t, stack, packageID, 10.0, 0)
	publishListing(t, stack, listing.ListingID)

	received := make(chan marketplaceports.EventEnvelope, 1)
	if err := stack.Bus.Subscribe(context.Background(), commands.TopicPackageSold, "unit-test", func(_ context.Context, event marketplaceports.EventEnvelope) error {
		received <- event
		return nil
	}); err != nil {
		t.Fatalf("subscribe should succeed: %v", err)
	}

	if _, err := stack.Marketplace.Handler.PurchaseHandler(context.Background(), listing.ListingID, "buyer-1", marketplacehttp.PurchaseRequest{
		Quantity: 1,
	}); err != nil {
		t.Fatalf("purchase should succeed: %v", err)
	}

	pending, err := stack.Marketplace.Store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending should succeed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("the sale should sit in the outbox, got %d entries", len(pending))
	}

	if err := stack.Marketplace.OutboxRelay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay should succeed: %v", err)
	}

	select {
	case event := <-received:
		if event.EventType != commands.TopicPackageSold {
			t.Fatalf("unexpected event type %s", event.EventType)
		}
		if event.PartitionKey != listing.ListingID {
			t.Fatalf("event should partition on the listing id")
		}
	case <-time.After(time.Second):
		t.Fatalf("relay should deliver the sale event")
	}

	drained, err := stack.Marketplace.Store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending should succeed: %v", err)
	}
	if len(drained) != 0 {
		t.Fatalf("relay should drain the outbox, %d left", len(drained))
	}
}
