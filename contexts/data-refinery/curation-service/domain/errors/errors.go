package errors

import "errors"

var (
	ErrPackageNotFound          = errors.New("package not found")
	ErrInvalidPackageRequest    = errors.New("invalid package request")
	ErrDatasetNotFound          = errors.New("source dataset not found")
	ErrDatasetNotRefined        = errors.New("dataset is not in stage refined")
	ErrDatasetUnavailable       = errors.New("dataset is tombstoned or unavailable")
	ErrNoPassedItems            = errors.New("latest refinement run passed no items")
	ErrInvalidPrice             = errors.New("price must be greater than zero")
	ErrPackageUnavailable       = errors.New("package is not available")
	ErrRepositoryInvariantBroke = errors.New("repository invariant violated")
)
