package entities

import (
	"strings"
	"time"
)

type ListingStatus string

const (
	ListingDraft     ListingStatus = "draft"
	ListingPublished ListingStatus = "published"
	ListingDelisted  ListingStatus = "delisted"
)

const (
	// UnlimitedSupply marks a listing that never sells out.
	UnlimitedSupply = -1

	DefaultBulkDiscountThreshold = 10
	DefaultBulkDiscountRate      = 0.10
)

// MarketplaceListing is the sellable surface of a curated package. Supply,
// counters, and rating aggregates mutate under the repository's atomic
// operations; everything else is set at creation or publish time.
type MarketplaceListing struct {
	ListingID             string
	PackageID             string
	SellerID              string
	Title                 string
	Description           string
	Category              string
	Tags                  []string
	PriceUSD              float64
	Status                ListingStatus
	SupplyRemaining       int
	CopiesSold            int
	ViewCount             int
	DownloadCount         int
	AverageRating         float64
	ReviewCount           int
	BulkDiscountThreshold int
	BulkDiscountRate      float64
	PublishedAt           time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (l MarketplaceListing) Published() bool {
	return l.Status == ListingPublished
}

// HasSupply reports whether the listing can cover the requested quantity.
func (l MarketplaceListing) HasSupply(quantity int) bool {
	return l.SupplyRemaining == UnlimitedSupply || l.SupplyRemaining >= quantity
}

func (l MarketplaceListing) ValidateBasics() bool {
	return strings.TrimSpace(l.PackageID) != "" &&
		strings.TrimSpace(l.SellerID) != "" &&
		strings.TrimSpace(l.Title) != "" &&
		l.PriceUSD > 0
}
