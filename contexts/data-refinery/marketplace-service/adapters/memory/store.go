package memory

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	application "refinery/contexts/data-refinery/marketplace-service/application"
	"refinery/contexts/data-refinery/marketplace-service/domain/entities"
	domainerrors "refinery/contexts/data-refinery/marketplace-service/domain/errors"
	"refinery/contexts/data-refinery/marketplace-service/domain/services"
	"refinery/contexts/data-refinery/marketplace-service/ports"
)

// Store is an in-memory adapter implementing the marketplace ports for local
// runtime and tests. The single mutex is the atomic unit: purchase supply
// checks and review aggregate recomputes happen entirely under it.
type Store struct {
	mu       sync.Mutex
	listings map[string]entities.MarketplaceListing
	sales    map[string]entities.Sale
	reviews  map[string][]entities.Review
	outbox   []outboxRow
	sequence uint64
	logger   *slog.Logger
}

type outboxRow struct {
	message ports.OutboxMessage
	sent    bool
}

func NewStore(seedListings []entities.MarketplaceListing, logger *slog.Logger) *Store {
	listingMap := make(map[string]entities.MarketplaceListing, len(seedListings))
	for _, listing := range seedListings {
		listingMap[listing.ListingID] = listing
	}
	return &Store{
		listings: listingMap,
		sales:    make(map[string]entities.Sale),
		reviews:  make(map[string][]entities.Review),
		logger:   application.ResolveLogger(logger),
	}
}

func (s *Store) CreateListing(_ context.Context, listing entities.MarketplaceListing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.listings[listing.ListingID]; exists {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	s.listings[listing.ListingID] = listing
	return nil
}

func (s *Store) GetListing(_ context.Context, listingID string) (entities.MarketplaceListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	listing, found := s.listings[listingID]
	if !found {
		return entities.MarketplaceListing{}, domainerrors.ErrListingNotFound
	}
	return listing, nil
}

func (s *Store) PublishListing(_ context.Context, listingID string, at time.Time) (entities.MarketplaceListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	listing, found := s.listings[listingID]
	if !found {
		return entities.MarketplaceListing{}, domainerrors.ErrListingNotFound
	}
	if listing.Status != entities.ListingDraft {
		return entities.MarketplaceListing{}, domainerrors.ErrListingStatusConflict
	}
	listing.Status = entities.ListingPublished
	listing.PublishedAt = at.UTC()
	listing.UpdatedAt = at.UTC()
	s.listings[listingID] = listing
	return listing, nil
}

func (s *Store) DelistListing(_ context.Context, listingID string, at time.Time) (entities.MarketplaceListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	listing, found := s.listings[listingID]
	if !found {
		return entities.MarketplaceListing{}, domainerrors.ErrListingNotFound
	}
	if listing.Status != entities.ListingPublished {
		return entities.MarketplaceListing{}, domainerrors.ErrListingStatusConflict
	}
	listing.Status = entities.ListingDelisted
	listing.UpdatedAt = at.UTC()
	s.listings[listingID] = listing
	return listing, nil
}

func (s *Store) SearchListings(_ context.Context, filter ports.ListingSearchFilter) ([]entities.MarketplaceListing, string, error) {
	s.mu.Lock()
	matched := make([]entities.MarketplaceListing, 0)
	for _, listing := range s.listings {
		if matchesFilter(listing, filter) {
			matched = append(matched, listing)
		}
	}
	s.mu.Unlock()

	ranked := services.RankListings(matched, filter.Query, filter.Sort)

	offset := decodeCursor(filter.Cursor)
	if offset >= len(ranked) {
		return []entities.MarketplaceListing{}, "", nil
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	end := offset + limit
	if end > len(ranked) {
		end = len(ranked)
	}
	page := ranked[offset:end]
	nextCursor := ""
	if end < len(ranked) {
		nextCursor = encodeCursor(end)
	}
	return page, nextCursor, nil
}

func (s *Store) IncrementViewCount(_ context.Context, listingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	listing, found := s.listings[listingID]
	if !found {
		return nil
	}
	listing.ViewCount++
	s.listings[listingID] = listing
	return nil
}

func (s *Store) PurchaseListing(
	_ context.Context,
	sale entities.Sale,
	event ports.EventEnvelope,
	at time.Time,
) (entities.MarketplaceListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing, found := s.listings[sale.ListingID]
	if !found {
		return entities.MarketplaceListing{}, domainerrors.ErrListingNotFound
	}
	if !listing.Published() {
		return entities.MarketplaceListing{}, domainerrors.ErrListingNotPublished
	}
	if !listing.HasSupply(sale.Quantity) {
		return entities.MarketplaceListing{}, domainerrors.ErrSoldOut
	}

	if listing.SupplyRemaining != entities.UnlimitedSupply {
		listing.SupplyRemaining -= sale.Quantity
	}
	listing.CopiesSold += sale.Quantity
	listing.DownloadCount++
	listing.UpdatedAt = at.UTC()
	s.listings[sale.ListingID] = listing
	s.sales[sale.SaleID] = sale

	payload, err := json.Marshal(event)
	if err != nil {
		return entities.MarketplaceListing{}, err
	}
	s.outbox = append(s.outbox, outboxRow{
		message: ports.OutboxMessage{
			OutboxID:     s.nextID(),
			EventType:    event.EventType,
			PartitionKey: event.PartitionKey,
			Payload:      payload,
			CreatedAt:    at.UTC(),
		},
	})
	return listing, nil
}

func (s *Store) Stats(_ context.Context) (ports.MarketplaceStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := ports.MarketplaceStats{}
	var ratingSum float64
	var ratedListings int
	for _, listing := range s.listings {
		stats.TotalListings++
		if listing.Published() {
			stats.PublishedListings++
		}
		if listing.ReviewCount > 0 {
			ratingSum += listing.AverageRating
			ratedListings++
		}
		stats.TotalReviews += listing.ReviewCount
	}
	for _, sale := range s.sales {
		stats.TotalSales++
		stats.TotalRevenueUSD += sale.AmountUSD
	}
	if ratedListings > 0 {
		stats.AverageRating = ratingSum / float64(ratedListings)
	}
	return stats, nil
}

func (s *Store) UpsertReview(_ context.Context, review entities.Review, at time.Time) (entities.Review, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing, found := s.listings[review.ListingID]
	if !found {
		return entities.Review{}, false, domainerrors.ErrListingNotFound
	}

	reviews := s.reviews[review.ListingID]
	created := true
	for i, existing := range reviews {
		if existing.ReviewerID == review.ReviewerID {
			review.ReviewID = existing.ReviewID
			review.CreatedAt = existing.CreatedAt
			review.UpdatedAt = at.UTC()
			reviews[i] = review
			created = false
			break
		}
	}
	if created {
		reviews = append(reviews, review)
	}
	s.reviews[review.ListingID] = reviews

	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	listing.ReviewCount = len(reviews)
	listing.AverageRating = float64(sum) / float64(len(reviews))
	listing.UpdatedAt = at.UTC()
	s.listings[review.ListingID] = listing

	return review, created, nil
}

func (s *Store) ListReviews(_ context.Context, listingID string) ([]entities.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reviews := s.reviews[listingID]
	items := make([]entities.Review, len(reviews))
	copy(items, reviews)
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ReviewID < items[j].ReviewID
	})
	return items, nil
}

func (s *Store) GetSale(_ context.Context, saleID string) (entities.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sale, found := s.sales[saleID]
	if !found {
		return entities.Sale{}, domainerrors.ErrSaleNotFound
	}
	return sale, nil
}

func (s *Store) ListSalesByBuyer(_ context.Context, buyerID string) ([]entities.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]entities.Sale, 0)
	for _, sale := range s.sales {
		if sale.BuyerID == buyerID {
			items = append(items, sale)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].SaleID < items[j].SaleID
	})
	return items, nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending := make([]ports.OutboxMessage, 0)
	for _, row := range s.outbox {
		if row.sent {
			continue
		}
		pending = append(pending, row.message)
		if len(pending) >= limit {
			break
		}
	}
	return pending, nil
}

func (s *Store) MarkOutboxSent(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, row := range s.outbox {
		if row.message.OutboxID == outboxID {
			s.outbox[i].sent = true
			return nil
		}
	}
	return domainerrors.ErrRepositoryInvariantBroke
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return s.nextID(), nil
}

func (s *Store) nextID() string {
	value := atomic.AddUint64(&s.sequence, 1)
	return fmt.Sprintf("mkt-%d", value)
}

func matchesFilter(listing entities.MarketplaceListing, filter ports.ListingSearchFilter) bool {
	if !listing.Published() {
		return false
	}
	if filter.Category != "" && !strings.EqualFold(listing.Category, filter.Category) {
		return false
	}
	if filter.MinPrice != nil && listing.PriceUSD < *filter.MinPrice {
		return false
	}
	if filter.MaxPrice != nil && listing.PriceUSD > *filter.MaxPrice {
		return false
	}
	if filter.MinRating > 0 && listing.AverageRating < filter.MinRating {
		return false
	}
	if strings.TrimSpace(filter.Query) != "" && services.RelevanceScore(listing, filter.Query) == 0 {
		return false
	}
	return true
}

func decodeCursor(cursor string) int {
	if strings.TrimSpace(cursor) == "" {
		return 0
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return 0
	}
	index, err := strconv.Atoi(string(raw))
	if err != nil || index < 0 {
		return 0
	}
	return index
}

func encodeCursor(offset int) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}
