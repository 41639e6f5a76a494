package httpadapter

import (
	"context"
	"log/slog"

	application "refinery/contexts/data-refinery/marketplace-service/application"
	"refinery/contexts/data-refinery/marketplace-service/application/commands"
	"refinery/contexts/data-refinery/marketplace-service/application/queries"
	"refinery/contexts/data-refinery/marketplace-service/domain/entities"
	httptransport "refinery/contexts/data-refinery/marketplace-service/transport/http"
)

type Handler struct {
	CreateListing  commands.CreateListingUseCase
	PublishListing commands.PublishListingUseCase
	DelistListing  commands.DelistListingUseCase
	Purchase       commands.PurchaseUseCase
	AddReview      commands.AddReviewUseCase
	SearchListings queries.SearchListingsUseCase
	GetListing     queries.GetListingUseCase
	GetPurchase    queries.GetPurchaseUseCase
	ListSales      queries.ListSalesUseCase
	Stats          queries.MarketplaceStatsUseCase
	Logger         *slog.Logger
}

// CreateListingHandler godoc
// @Summary Create a listing
// @Description Drafts a marketplace listing over an available curated package.
// @Tags marketplace-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Request-Id header string true "Request correlation id"
// @Param X-User-Id header string true "Seller id"
// @Param request body httptransport.CreateListingRequest true "Listing descriptor"
// @Success 201 {object} httptransport.CreateListingResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 410 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /refinery/listings [post]
func (h Handler) CreateListingHandler(ctx context.Context, sellerID string, req httptransport.CreateListingRequest) (httptransport.CreateListingResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("create listing request received",
		"event", "http_create_listing_received",
		"module", "data-refinery/marketplace-service",
		"layer", "transport",
		"package_id", req.PackageID,
	)

	result, err := h.CreateListing.Execute(ctx, commands.CreateListingCommand{
		PackageID:   req.PackageID,
		SellerID:    sellerID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Tags:        req.Tags,
		PriceUSD:    req.PriceUSD,
		SupplyLimit: req.SupplyLimit,
	})
	if err != nil {
		logger.Error("create listing request failed",
			"event", "http_create_listing_failed",
			"module", "data-refinery/marketplace-service",
			"layer", "transport",
			"package_id", req.PackageID,
			"error", err.Error(),
		)
		return httptransport.CreateListingResponse{}, err
	}

	return httptransport.CreateListingResponse{
		Listing: mapListing(result.Listing),
	}, nil
}

// PublishListingHandler godoc
// @Summary Publish a listing
// @Description Moves a draft listing into the searchable catalog.
// @Tags marketplace-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Request-Id header string true "Request correlation id"
// @Param listing_id path string true "Listing id"
// @Success 200 {object} httptransport.PublishListingResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /refinery/listings/{listing_id}/publish [post]
func (h Handler) PublishListingHandler(ctx context.Context, listingID string) (httptransport.PublishListingResponse, error) {
	result, err := h.PublishListing.Execute(ctx, commands.PublishListingCommand{ListingID: listingID})
	if err != nil {
		return httptransport.PublishListingResponse{}, err
	}
	return httptransport.PublishListingResponse{
		Listing: mapListing(result.Listing),
	}, nil
}

// DelistListingHandler godoc
// @Summary Delist a listing
// @Description Removes a published listing from the catalog.
// @Tags marketplace-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Request-Id header string true "Request correlation id"
// @Param listing_id path string true "Listing id"
// @Success 200 {object} httptransport.DelistListingResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /refinery/listings/{listing_id}/delist [post]
func (h Handler) DelistListingHandler(ctx context.Context, listingID string) (httptransport.DelistListingResponse, error) {
	result, err := h.DelistListing.Execute(ctx, commands.DelistListingCommand{ListingID: listingID})
	if err != nil {
		return httptransport.DelistListingResponse{}, err
	}
	return httptransport.DelistListingResponse{
		Listing: mapListing(result.Listing),
	}, nil
}

// SearchListingsHandler godoc
// @Summary Search listings
// @Description Searches published listings with filters, ranking, and cursor paging.
// @Tags marketplace-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Request-Id header string true "Request correlation id"
// @Param query query string false "Free text query"
// @Param category query string false "Category filter"
// @Param min_price query number false "Minimum price"
// @Param max_price query number false "Maximum price"
// @Param min_rating query number false "Minimum average rating"
// @Param sort query string false "Sort mode" Enums(relevance, price_asc, price_desc, rating, recent)
// @Param cursor query string false "Pagination cursor"
// @Param limit query int false "Page size (max 50)"
// @Success 200 {object} httptransport.SearchListingsResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /refinery/listings [get]
func (h Handler) SearchListingsHandler(ctx context.Context, req httptransport.SearchListingsRequest) (httptransport.SearchListingsResponse, error) {
	result, err := h.SearchListings.Execute(ctx, queries.SearchListingsQuery{
		Query:     req.Query,
		Category:  req.Category,
		MinPrice:  req.MinPrice,
		MaxPrice:  req.MaxPrice,
		MinRating: req.MinRating,
		Sort:      req.Sort,
		Cursor:    req.Cursor,
		Limit:     req.Limit,
	})
	if err != nil {
		return httptransport.SearchListingsResponse{}, err
	}
	items := make([]httptransport.ListingDTO, 0, len(result.Items))
	for _, listing := range result.Items {
		items = append(items, mapListing(listing))
	}
	return httptransport.SearchListingsResponse{
		Items:      items,
		NextCursor: result.NextCursor,
	}, nil
}

// GetListingHandler godoc
// @Summary Get listing details
// @Description Returns one listing with its reviews and counts the view.
// @Tags marketplace-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Request-Id header string true "Request correlation id"
// @Param listing_id path string true "Listing id"
// @Success 200 {object} httptransport.GetListingResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /refinery/listings/{listing_id} [get]
func (h Handler) GetListingHandler(ctx context.Context, listingID string) (httptransport.GetListingResponse, error) {
	result, err := h.GetListing.Execute(ctx, queries.GetListingQuery{ListingID: listingID})
	if err != nil {
		return httptransport.GetListingResponse{}, err
	}
	reviews := make([]httptransport.ReviewDTO, 0, len(result.Reviews))
	for _, review := range result.Reviews {
		reviews = append(reviews, mapReview(review))
	}
	return httptransport.GetListingResponse{
		Listing: mapListing(result.Listing),
		Reviews: reviews,
	}, nil
}

// PurchaseHandler godoc
// @Summary Purchase a listing
// @Description Buys copies of a published listing; supply is checked and decremented atomically.
// @Tags marketplace-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Request-Id header string true "Request correlation id"
// @Param X-User-Id header string true "Buyer id"
// @Param listing_id path string true "Listing id"
// @Param request body httptransport.PurchaseRequest true "Purchase quantity"
// @Success 201 {object} httptransport.PurchaseResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /refinery/listings/{listing_id}/purchase [post]
func (h Handler) PurchaseHandler(ctx context.Context, listingID string, buyerID string, req httptransport.PurchaseRequest) (httptransport.PurchaseResponse, error) {
	logger := application.ResolveLogger(h.Logger)

	// An omitted quantity buys a single copy.
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	logger.Info("purchase request received",
		"event", "http_purchase_received",
		"module", "data-refinery/marketplace-service",
		"layer", "transport",
		"listing_id", listingID,
		"quantity", quantity,
	)

	result, err := h.Purchase.Execute(ctx, commands.PurchaseCommand{
		ListingID: listingID,
		BuyerID:   buyerID,
		Quantity:  quantity,
	})
	if err != nil {
		logger.Error("purchase request failed",
			"event", "http_purchase_failed",
			"module", "data-refinery/marketplace-service",
			"layer", "transport",
			"listing_id", listingID,
			"error", err.Error(),
		)
		return httptransport.PurchaseResponse{}, err
	}

	return httptransport.PurchaseResponse{
		Sale:    mapSale(result.Sale),
		Listing: mapListing(result.Listing),
	}, nil
}

// AddReviewHandler godoc
// @Summary Review a listing
// @Description Upserts the caller's review; a repeat review replaces the earlier rating.
// @Tags marketplace-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Request-Id header string true "Request correlation id"
// @Param X-User-Id header string true "Reviewer id"
// @Param listing_id path string true "Listing id"
// @Param request body httptransport.AddReviewRequest true "Review body"
// @Success 200 {object} httptransport.AddReviewResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /refinery/listings/{listing_id}/reviews [post]
func (h Handler) AddReviewHandler(ctx context.Context, listingID string, reviewerID string, req httptransport.AddReviewRequest) (httptransport.AddReviewResponse, error) {
	result, err := h.AddReview.Execute(ctx, commands.AddReviewCommand{
		ListingID:  listingID,
		ReviewerID: reviewerID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		return httptransport.AddReviewResponse{}, err
	}
	return httptransport.AddReviewResponse{
		Review:  mapReview(result.Review),
		Created: result.Created,
	}, nil
}

// GetPurchaseHandler godoc
// @Summary Get purchase details
// @Description Returns one sale with its access token and license window.
// @Tags marketplace-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Request-Id header string true "Request correlation id"
// @Param sale_id path string true "Sale id"
// @Success 200 {object} httptransport.GetPurchaseResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /refinery/purchases/{sale_id} [get]
func (h Handler) GetPurchaseHandler(ctx context.Context, saleID string) (httptransport.GetPurchaseResponse, error) {
	result, err := h.GetPurchase.Execute(ctx, queries.GetPurchaseQuery{SaleID: saleID})
	if err != nil {
		return httptransport.GetPurchaseResponse{}, err
	}
	return httptransport.GetPurchaseResponse{
		Sale: mapSale(result.Sale),
	}, nil
}

// ListSalesHandler godoc
// @Summary List the caller's purchases
// @Description Returns all sales for the buyer, oldest first.
// @Tags marketplace-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Request-Id header string true "Request correlation id"
// @Param X-User-Id header string true "Buyer id"
// @Success 200 {object} httptransport.ListSalesResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /refinery/purchases [get]
func (h Handler) ListSalesHandler(ctx context.Context, buyerID string) (httptransport.ListSalesResponse, error) {
	result, err := h.ListSales.Execute(ctx, queries.ListSalesQuery{BuyerID: buyerID})
	if err != nil {
		return httptransport.ListSalesResponse{}, err
	}
	items := make([]httptransport.SaleDTO, 0, len(result.Items))
	for _, sale := range result.Items {
		items = append(items, mapSale(sale))
	}
	return httptransport.ListSalesResponse{Items: items}, nil
}

// StatsHandler godoc
// @Summary Marketplace statistics
// @Description Returns aggregate listing, sale, and review counters.
// @Tags marketplace-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Request-Id header string true "Request correlation id"
// @Success 200 {object} httptransport.MarketplaceStatsResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /refinery/marketplace/stats [get]
func (h Handler) StatsHandler(ctx context.Context) (httptransport.MarketplaceStatsResponse, error) {
	result, err := h.Stats.Execute(ctx, queries.MarketplaceStatsQuery{})
	if err != nil {
		return httptransport.MarketplaceStatsResponse{}, err
	}
	return httptransport.MarketplaceStatsResponse{
		TotalListings:     result.Stats.TotalListings,
		PublishedListings: result.Stats.PublishedListings,
		TotalSales:        result.Stats.TotalSales,
		TotalRevenueUSD:   result.Stats.TotalRevenueUSD,
		AverageRating:     result.Stats.AverageRating,
		TotalReviews:      result.Stats.TotalReviews,
	}, nil
}

const timestampLayout = "2006-01-02T15:04:05Z"

func mapListing(listing entities.MarketplaceListing) httptransport.ListingDTO {
	publishedAt := ""
	if !listing.PublishedAt.IsZero() {
		publishedAt = listing.PublishedAt.UTC().Format(timestampLayout)
	}
	return httptransport.ListingDTO{
		ListingID:             listing.ListingID,
		PackageID:             listing.PackageID,
		SellerID:              listing.SellerID,
		Title:                 listing.Title,
		Description:           listing.Description,
		Category:              listing.Category,
		Tags:                  listing.Tags,
		PriceUSD:              listing.PriceUSD,
		Status:                string(listing.Status),
		SupplyRemaining:       listing.SupplyRemaining,
		CopiesSold:            listing.CopiesSold,
		ViewCount:             listing.ViewCount,
		DownloadCount:         listing.DownloadCount,
		AverageRating:         listing.AverageRating,
		ReviewCount:           listing.ReviewCount,
		BulkDiscountThreshold: listing.BulkDiscountThreshold,
		BulkDiscountRate:      listing.BulkDiscountRate,
		PublishedAt:           publishedAt,
		CreatedAt:             listing.CreatedAt.UTC().Format(timestampLayout),
		UpdatedAt:             listing.UpdatedAt.UTC().Format(timestampLayout),
	}
}

func mapSale(sale entities.Sale) httptransport.SaleDTO {
	return httptransport.SaleDTO{
		SaleID:             sale.SaleID,
		ListingID:          sale.ListingID,
		PackageID:          sale.PackageID,
		BuyerID:            sale.BuyerID,
		Quantity:           sale.Quantity,
		AmountUSD:          sale.AmountUSD,
		AccessToken:        sale.AccessToken,
		DownloadsRemaining: sale.DownloadsRemaining,
		LicenseExpiresAt:   sale.LicenseExpiresAt.UTC().Format(timestampLayout),
		CreatedAt:          sale.CreatedAt.UTC().Format(timestampLayout),
	}
}

func mapReview(review entities.Review) httptransport.ReviewDTO {
	return httptransport.ReviewDTO{
		ReviewID:   review.ReviewID,
		ListingID:  review.ListingID,
		ReviewerID: review.ReviewerID,
		Rating:     review.Rating,
		Comment:    review.Comment,
		CreatedAt:  review.CreatedAt.UTC().Format(timestampLayout),
		UpdatedAt:  review.UpdatedAt.UTC().Format(timestampLayout),
	}
}
