package services

import (
	"errors"
	"testing"

	"refinery/contexts/data-refinery/marketplace-service/domain/entities"
	domainerrors "refinery/contexts/data-refinery/marketplace-service/domain/errors"
)

func publishedListing(price float64, supply int) entities.MarketplaceListing {
	return entities.MarketplaceListing{
		ListingID:             "lst-1",
		PriceUSD:              price,
		Status:                entities.ListingPublished,
		SupplyRemaining:       supply,
		BulkDiscountThreshold: entities.DefaultBulkDiscountThreshold,
		BulkDiscountRate:      entities.DefaultBulkDiscountRate,
	}
}

func TestQuoteSimplePurchase(t *testing.T) {
	amount, err := PurchasePolicy{}.Quote(publishedListing(19.99, entities.UnlimitedSupply), 2)
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if amount != 39.98 {
		t.Fatalf("expected 39.98, got %f", amount)
	}
}

func TestQuoteBulkDiscountRoundsToCents(t *testing.T) {
	amount, err := PurchasePolicy{}.Quote(publishedListing(10.0, entities.UnlimitedSupply), 10)
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if amount != 90.0 {
		t.Fatalf("ten at 10.00 should discount to 90.00, got %f", amount)
	}

	amount, err = PurchasePolicy{}.Quote(publishedListing(0.0333, entities.UnlimitedSupply), 11)
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if amount != 0.33 {
		t.Fatalf("discounted amount should round to cents, got %f", amount)
	}
}

func TestQuoteBelowThresholdPaysFullPrice(t *testing.T) {
	amount, err := PurchasePolicy{}.Quote(publishedListing(10.0, entities.UnlimitedSupply), 9)
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if amount != 90.0 {
		t.Fatalf("nine copies pay full price, got %f", amount)
	}
}

func TestQuoteErrors(t *testing.T) {
	if _, err := (PurchasePolicy{}).Quote(publishedListing(10.0, entities.UnlimitedSupply), 0); !errors.Is(err, domainerrors.ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity, got %v", err)
	}

	draft := publishedListing(10.0, entities.UnlimitedSupply)
	draft.Status = entities.ListingDraft
	if _, err := (PurchasePolicy{}).Quote(draft, 1); !errors.Is(err, domainerrors.ErrListingNotPublished) {
		t.Fatalf("expected not published, got %v", err)
	}

	if _, err := (PurchasePolicy{}).Quote(publishedListing(10.0, 1), 2); !errors.Is(err, domainerrors.ErrSoldOut) {
		t.Fatalf("expected sold out, got %v", err)
	}
}
