package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"refinery/contexts/data-refinery/marketplace-service/domain/entities"
	domainerrors "refinery/contexts/data-refinery/marketplace-service/domain/errors"
	"refinery/contexts/data-refinery/marketplace-service/domain/services"
	"refinery/contexts/data-refinery/marketplace-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateListing(ctx context.Context, listing entities.MarketplaceListing) error {
	row, err := listingModelFromEntity(listing)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrRepositoryInvariantBroke
		}
		return err
	}
	return nil
}

func (r *Repository) GetListing(ctx context.Context, listingID string) (entities.MarketplaceListing, error) {
	var row listingModel
	err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.MarketplaceListing{}, domainerrors.ErrListingNotFound
		}
		return entities.MarketplaceListing{}, err
	}
	return row.toEntity()
}

func (r *Repository) PublishListing(ctx context.Context, listingID string, at time.Time) (entities.MarketplaceListing, error) {
	return r.moveStatus(ctx, listingID, entities.ListingDraft, entities.ListingPublished, at, true)
}

func (r *Repository) DelistListing(ctx context.Context, listingID string, at time.Time) (entities.MarketplaceListing, error) {
	return r.moveStatus(ctx, listingID, entities.ListingPublished, entities.ListingDelisted, at, false)
}

func (r *Repository) moveStatus(
	ctx context.Context,
	listingID string,
	from entities.ListingStatus,
	to entities.ListingStatus,
	at time.Time,
	stampPublished bool,
) (entities.MarketplaceListing, error) {
	var updated listingModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		values := map[string]any{
			"status":     string(to),
			"updated_at": at.UTC(),
		}
		if stampPublished {
			values["published_at"] = at.UTC()
		}
		result := tx.Model(&listingModel{}).
			Where("listing_id = ? AND status = ?", listingID, string(from)).
			Updates(values)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var row listingModel
			if err := tx.Where("listing_id = ?", listingID).First(&row).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domainerrors.ErrListingNotFound
				}
				return err
			}
			return domainerrors.ErrListingStatusConflict
		}
		return tx.Where("listing_id = ?", listingID).First(&updated).Error
	})
	if err != nil {
		return entities.MarketplaceListing{}, err
	}
	return updated.toEntity()
}

func (r *Repository) SearchListings(ctx context.Context, filter ports.ListingSearchFilter) ([]entities.MarketplaceListing, string, error) {
	query := r.db.WithContext(ctx).
		Where("status = ?", string(entities.ListingPublished))
	if filter.Category != "" {
		query = query.Where("LOWER(category) = LOWER(?)", filter.Category)
	}
	if filter.MinPrice != nil {
		query = query.Where("price_usd >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price_usd <= ?", *filter.MaxPrice)
	}
	if filter.MinRating > 0 {
		query = query.Where("average_rating >= ?", filter.MinRating)
	}

	var rows []listingModel
	if err := query.Order("listing_id ASC").Find(&rows).Error; err != nil {
		return nil, "", err
	}

	matched := make([]entities.MarketplaceListing, 0, len(rows))
	for _, row := range rows {
		listing, err := row.toEntity()
		if err != nil {
			return nil, "", err
		}
		if filter.Query != "" && services.RelevanceScore(listing, filter.Query) == 0 {
			continue
		}
		matched = append(matched, listing)
	}

	// Text ranking happens in memory after the indexed filters narrowed the
	// candidate set.
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
	nextCursor := ""
	if end < len(ranked) {
		nextCursor = encodeCursor(end)
	}
	return ranked[offset:end], nextCursor, nil
}

func (r *Repository) IncrementViewCount(ctx context.Context, listingID string) error {
	return r.db.WithContext(ctx).Model(&listingModel{}).
		Where("listing_id = ?", listingID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).
		Error
}

func (r *Repository) PurchaseListing(
	ctx context.Context,
	sale entities.Sale,
	event ports.EventEnvelope,
	at time.Time,
) (entities.MarketplaceListing, error) {
	var updated listingModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The guarded UPDATE is the no-oversell gate: the supply predicate and
		// the decrement commit in one statement, so concurrent buyers race on
		// rows affected, never on a stale read.
		result := tx.Model(&listingModel{}).
			Where(
				"listing_id = ? AND status = ? AND (supply_remaining = ? OR supply_remaining >= ?)",
				sale.ListingID, string(entities.ListingPublished), entities.UnlimitedSupply, sale.Quantity,
			).
			Updates(map[string]any{
				"supply_remaining": gorm.Expr(
					"CASE WHEN supply_remaining = ? THEN ? ELSE supply_remaining - ? END",
					entities.UnlimitedSupply, entities.UnlimitedSupply, sale.Quantity,
				),
				"copies_sold":    gorm.Expr("copies_sold + ?", sale.Quantity),
				"download_count": gorm.Expr("download_count + 1"),
				"updated_at":     at.UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var row listingModel
			if err := tx.Where("listing_id = ?", sale.ListingID).First(&row).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domainerrors.ErrListingNotFound
				}
				return err
			}
			if row.Status != string(entities.ListingPublished) {
				return domainerrors.ErrListingNotPublished
			}
			return domainerrors.ErrSoldOut
		}

		saleRow := saleModelFromEntity(sale)
		if err := tx.Create(&saleRow).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrRepositoryInvariantBroke
			}
			return err
		}

		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}
		outboxRow := outboxModel{
			OutboxID:     event.EventID,
			EventType:    event.EventType,
			PartitionKey: event.PartitionKey,
			Payload:      payload,
			Status:       "pending",
			CreatedAt:    at.UTC(),
		}
		if err := tx.Create(&outboxRow).Error; err != nil {
			return err
		}

		return tx.Where("listing_id = ?", sale.ListingID).First(&updated).Error
	})
	if err != nil {
		return entities.MarketplaceListing{}, err
	}
	return updated.toEntity()
}

func (r *Repository) Stats(ctx context.Context) (ports.MarketplaceStats, error) {
	stats := ports.MarketplaceStats{}

	var listingTotals struct {
		Total        int64
		Published    int64
		TotalReviews int64
	}
	err := r.db.WithContext(ctx).Model(&listingModel{}).
		Select(
			"COUNT(*) AS total, COUNT(*) FILTER (WHERE status = ?) AS published, COALESCE(SUM(review_count), 0) AS total_reviews",
			string(entities.ListingPublished),
		).
		Scan(&listingTotals).
		Error
	if err != nil {
		return ports.MarketplaceStats{}, err
	}
	stats.TotalListings = int(listingTotals.Total)
	stats.PublishedListings = int(listingTotals.Published)
	stats.TotalReviews = int(listingTotals.TotalReviews)

	var rating struct {
		Average float64
	}
	err = r.db.WithContext(ctx).Model(&listingModel{}).
		Select("COALESCE(AVG(average_rating), 0) AS average").
		Where("review_count > 0").
		Scan(&rating).
		Error
	if err != nil {
		return ports.MarketplaceStats{}, err
	}
	stats.AverageRating = rating.Average

	var saleTotals struct {
		Total   int64
		Revenue float64
	}
	err = r.db.WithContext(ctx).Model(&saleModel{}).
		Select("COUNT(*) AS total, COALESCE(SUM(amount_usd), 0) AS revenue").
		Scan(&saleTotals).
		Error
	if err != nil {
		return ports.MarketplaceStats{}, err
	}
	stats.TotalSales = int(saleTotals.Total)
	stats.TotalRevenueUSD = saleTotals.Revenue

	return stats, nil
}

func (r *Repository) UpsertReview(ctx context.Context, review entities.Review, at time.Time) (entities.Review, bool, error) {
	created := false
	var stored entities.Review
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&listingModel{}).
			Where("listing_id = ?", review.ListingID).
			Count(&count).
			Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrListingNotFound
		}

		var existing reviewModel
		err := tx.Where("listing_id = ? AND reviewer_id = ?", review.ListingID, review.ReviewerID).
			First(&existing).
			Error
		switch {
		case err == nil:
			review.ReviewID = existing.ReviewID
			review.CreatedAt = existing.CreatedAt
			review.UpdatedAt = at.UTC()
		case errors.Is(err, gorm.ErrRecordNotFound):
			created = true
		default:
			return err
		}

		row := reviewModelFromEntity(review)
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "listing_id"}, {Name: "reviewer_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"rating", "comment", "updated_at",
			}),
		}).Create(&row).Error; err != nil {
			return err
		}

		var aggregate struct {
			Count   int64
			Average float64
		}
		if err := tx.Model(&reviewModel{}).
			Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS average").
			Where("listing_id = ?", review.ListingID).
			Scan(&aggregate).
			Error; err != nil {
			return err
		}
		if err := tx.Model(&listingModel{}).
			Where("listing_id = ?", review.ListingID).
			Updates(map[string]any{
				"review_count":   aggregate.Count,
				"average_rating": aggregate.Average,
				"updated_at":     at.UTC(),
			}).Error; err != nil {
			return err
		}

		stored = review
		return nil
	})
	if err != nil {
		return entities.Review{}, false, err
	}
	return stored, created, nil
}

func (r *Repository) ListReviews(ctx context.Context, listingID string) ([]entities.Review, error) {
	var rows []reviewModel
	if err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("created_at ASC, review_id ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Review, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetSale(ctx context.Context, saleID string) (entities.Sale, error) {
	var row saleModel
	err := r.db.WithContext(ctx).
		Where("sale_id = ?", saleID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Sale{}, domainerrors.ErrSaleNotFound
		}
		return entities.Sale{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListSalesByBuyer(ctx context.Context, buyerID string) ([]entities.Sale, error) {
	var rows []saleModel
	if err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at ASC, sale_id ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Sale, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", "pending").
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	messages := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      row.Payload,
			CreatedAt:    row.CreatedAt,
		})
	}
	return messages, nil
}

func (r *Repository) MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&outboxModel{}).
		Where("outbox_id = ? AND status = ?", outboxID, "pending").
		Updates(map[string]any{
			"status":  "sent",
			"sent_at": sentAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
