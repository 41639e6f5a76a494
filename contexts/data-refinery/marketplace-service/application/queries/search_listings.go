package queries

import (
	"context"
	"log/slog"

	application "refinery/contexts/data-refinery/marketplace-service/application"
	"refinery/contexts/data-refinery/marketplace-service/domain/entities"
	"refinery/contexts/data-refinery/marketplace-service/ports"
)

const maxSearchLimit = 50

type SearchListingsQuery struct {
	Query     string
	Category  string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating float64
	Sort      string
	Cursor    string
	Limit     int
}

type SearchListingsResult struct {
	Items      []entities.MarketplaceListing
	NextCursor string
}

type SearchListingsUseCase struct {
	Listings ports.ListingRepository
	Logger   *slog.Logger
}

func (u SearchListingsUseCase) Execute(ctx context.Context, query SearchListingsQuery) (SearchListingsResult, error) {
	logger := application.ResolveLogger(u.Logger)

	limit := query.Limit
	if limit <= 0 || limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	items, nextCursor, err := u.Listings.SearchListings(ctx, ports.ListingSearchFilter{
		Query:     query.Query,
		Category:  query.Category,
		MinPrice:  query.MinPrice,
		MaxPrice:  query.MaxPrice,
		MinRating: query.MinRating,
		Sort:      query.Sort,
		Cursor:    query.Cursor,
		Limit:     limit,
	})
	if err != nil {
		logger.Error("search listings failed",
			"event", "search_listings_failed",
			"module", "data-refinery/marketplace-service",
			"layer", "application",
			"error", err.Error(),
		)
		return SearchListingsResult{}, err
	}

	logger.Info("search listings completed",
		"event", "search_listings_completed",
		"module", "data-refinery/marketplace-service",
		"layer", "application",
		"result_count", len(items),
		"has_next_cursor", nextCursor != "",
	)
	return SearchListingsResult{Items: items, NextCursor: nextCursor}, nil
}
