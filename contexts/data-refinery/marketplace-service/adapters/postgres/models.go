package postgresadapter

import (
	"encoding/base64"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"refinery/contexts/data-refinery/marketplace-service/domain/entities"
)

type listingModel struct {
	ListingID             string    `gorm:"column:listing_id;primaryKey"`
	PackageID             string    `gorm:"column:package_id;index"`
	SellerID              string    `gorm:"column:seller_id;index"`
	Title                 string    `gorm:"column:title"`
	Description           string    `gorm:"column:description"`
	Category              string    `gorm:"column:category;index"`
	Tags                  []byte    `gorm:"column:tags;type:jsonb"`
	PriceUSD              float64   `gorm:"column:price_usd"`
	Status                string    `gorm:"column:status;index"`
	SupplyRemaining       int       `gorm:"column:supply_remaining"`
	CopiesSold            int       `gorm:"column:copies_sold"`
	ViewCount             int       `gorm:"column:view_count"`
	DownloadCount         int       `gorm:"column:download_count"`
	AverageRating         float64   `gorm:"column:average_rating"`
	ReviewCount           int       `gorm:"column:review_count"`
	BulkDiscountThreshold int       `gorm:"column:bulk_discount_threshold"`
	BulkDiscountRate      float64   `gorm:"column:bulk_discount_rate"`
	PublishedAt           time.Time `gorm:"column:published_at"`
	CreatedAt             time.Time `gorm:"column:created_at"`
	UpdatedAt             time.Time `gorm:"column:updated_at"`
}

func (listingModel) TableName() string {
	return "marketplace_listings"
}

func listingModelFromEntity(listing entities.MarketplaceListing) (listingModel, error) {
	tags, err := json.Marshal(listing.Tags)
	if err != nil {
		return listingModel{}, err
	}
	return listingModel{
		ListingID:             listing.ListingID,
		PackageID:             listing.PackageID,
		SellerID:              listing.SellerID,
		Title:                 listing.Title,
		Description:           listing.Description,
		Category:              listing.Category,
		Tags:                  tags,
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
		PublishedAt:           listing.PublishedAt.UTC(),
		CreatedAt:             listing.CreatedAt.UTC(),
		UpdatedAt:             listing.UpdatedAt.UTC(),
	}, nil
}

func (m listingModel) toEntity() (entities.MarketplaceListing, error) {
	var tags []string
	if len(m.Tags) > 0 {
		if err := json.Unmarshal(m.Tags, &tags); err != nil {
			return entities.MarketplaceListing{}, err
		}
	}
	return entities.MarketplaceListing{
		ListingID:             m.ListingID,
		PackageID:             m.PackageID,
		SellerID:              m.SellerID,
		Title:                 m.Title,
		Description:           m.Description,
		Category:              m.Category,
		Tags:                  tags,
		PriceUSD:              m.PriceUSD,
		Status:                entities.ListingStatus(m.Status),
		SupplyRemaining:       m.SupplyRemaining,
		CopiesSold:            m.CopiesSold,
		ViewCount:             m.ViewCount,
		DownloadCount:         m.DownloadCount,
		AverageRating:         m.AverageRating,
		ReviewCount:           m.ReviewCount,
		BulkDiscountThreshold: m.BulkDiscountThreshold,
		BulkDiscountRate:      m.BulkDiscountRate,
		PublishedAt:           m.PublishedAt,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}, nil
}

type saleModel struct {
	SaleID             string    `gorm:"column:sale_id;primaryKey"`
	ListingID          string    `gorm:"column:listing_id;index"`
	PackageID          string    `gorm:"column:package_id"`
	BuyerID            string    `gorm:"column:buyer_id;index"`
	Quantity           int       `gorm:"column:quantity"`
	AmountUSD          float64   `gorm:"column:amount_usd"`
	AccessToken        string    `gorm:"column:access_token;uniqueIndex"`
	DownloadsRemaining int       `gorm:"column:downloads_remaining"`
	LicenseExpiresAt   time.Time `gorm:"column:license_expires_at"`
	CreatedAt          time.Time `gorm:"column:created_at"`
}

func (saleModel) TableName() string {
	return "marketplace_sales"
}

func saleModelFromEntity(sale entities.Sale) saleModel {
	return saleModel{
		SaleID:             sale.SaleID,
		ListingID:          sale.ListingID,
		PackageID:          sale.PackageID,
		BuyerID:            sale.BuyerID,
		Quantity:           sale.Quantity,
		AmountUSD:          sale.AmountUSD,
		AccessToken:        sale.AccessToken,
		DownloadsRemaining: sale.DownloadsRemaining,
		LicenseExpiresAt:   sale.LicenseExpiresAt.UTC(),
		CreatedAt:          sale.CreatedAt.UTC(),
	}
}

func (m saleModel) toEntity() entities.Sale {
	return entities.Sale{
		SaleID:             m.SaleID,
		ListingID:          m.ListingID,
		PackageID:          m.PackageID,
		BuyerID:            m.BuyerID,
		Quantity:           m.Quantity,
		AmountUSD:          m.AmountUSD,
		AccessToken:        m.AccessToken,
		DownloadsRemaining: m.DownloadsRemaining,
		LicenseExpiresAt:   m.LicenseExpiresAt,
		CreatedAt:          m.CreatedAt,
	}
}

type reviewModel struct {
	ReviewID   string    `gorm:"column:review_id;primaryKey"`
	ListingID  string    `gorm:"column:listing_id;uniqueIndex:idx_reviews_listing_reviewer"`
	ReviewerID string    `gorm:"column:reviewer_id;uniqueIndex:idx_reviews_listing_reviewer"`
	Rating     int       `gorm:"column:rating"`
	Comment    string    `gorm:"column:comment"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (reviewModel) TableName() string {
	return "marketplace_reviews"
}

func reviewModelFromEntity(review entities.Review) reviewModel {
	return reviewModel{
		ReviewID:   review.ReviewID,
		ListingID:  review.ListingID,
		ReviewerID: review.ReviewerID,
		Rating:     review.Rating,
		Comment:    review.Comment,
		CreatedAt:  review.CreatedAt.UTC(),
		UpdatedAt:  review.UpdatedAt.UTC(),
	}
}

func (m reviewModel) toEntity() entities.Review {
	return entities.Review{
		ReviewID:   m.ReviewID,
		ListingID:  m.ListingID,
		ReviewerID: m.ReviewerID,
		Rating:     m.Rating,
		Comment:    m.Comment,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

type outboxModel struct {
	OutboxID     string    `gorm:"column:outbox_id;primaryKey"`
	EventType    string    `gorm:"column:event_type"`
	PartitionKey string    `gorm:"column:partition_key"`
	Payload      []byte    `gorm:"column:payload;type:jsonb"`
	Status       string    `gorm:"column:status;index"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	SentAt       time.Time `gorm:"column:sent_at"`
}

func (outboxModel) TableName() string {
	return "marketplace_outbox"
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
