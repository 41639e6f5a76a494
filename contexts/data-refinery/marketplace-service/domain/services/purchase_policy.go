package services

import (
	"math"

	"refinery/contexts/data-refinery/marketplace-service/domain/entities"
	domainerrors "refinery/contexts/data-refinery/marketplace-service/domain/errors"
)

// PurchasePolicy prices a purchase against a listing. The policy is a
// pre-check and a price oracle: the authoritative supply decision happens in
// the repository's atomic purchase write.
type PurchasePolicy struct{}

// Quote validates the purchase and returns the amount owed. Quantities at or
// above the listing's bulk threshold earn the bulk discount rate on the whole
// order. Amounts are rounded to cents.
func (PurchasePolicy) Quote(listing entities.MarketplaceListing, quantity int) (float64, error) {
	if quantity <= 0 {
		return 0, domainerrors.ErrInvalidQuantity
	}
	if !listing.Published() {
		return 0, domainerrors.ErrListingNotPublished
	}
	if !listing.HasSupply(quantity) {
		return 0, domainerrors.ErrSoldOut
	}

	amount := listing.PriceUSD * float64(quantity)
	threshold := listing.BulkDiscountThreshold
	if threshold <= 0 {
		threshold = entities.DefaultBulkDiscountThreshold
	}
	rate := listing.BulkDiscountRate
	if rate <= 0 {
		rate = entities.DefaultBulkDiscountRate
	}
	if quantity >= threshold {
		amount *= 1 - rate
	}
	return math.Round(amount*100) / 100, nil
}
