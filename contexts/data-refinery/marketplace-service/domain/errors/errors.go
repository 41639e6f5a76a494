package errors

import "errors"

var (
	ErrListingNotFound          = errors.New("listing not found")
	ErrInvalidListingRequest    = errors.New("invalid listing request")
	ErrListingNotPublished      = errors.New("listing is not published")
	ErrListingStatusConflict    = errors.New("listing status does not allow this operation")
	ErrSoldOut                  = errors.New("listing supply exhausted")
	ErrInvalidQuantity          = errors.New("quantity must be greater than zero")
	ErrInvalidRating            = errors.New("rating must be between 1 and 5")
	ErrPackageUnavailable       = errors.New("package is not available for listing")
	ErrSaleNotFound             = errors.New("sale not found")
	ErrRepositoryInvariantBroke = errors.New("repository invariant violated")
)
