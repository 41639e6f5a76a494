package errors

import "errors"

var (
	ErrDatasetNotFound          = errors.New("dataset not found")
	ErrInvalidDatasetRequest    = errors.New("invalid dataset request")
	ErrInvalidThreshold         = errors.New("threshold must be between 0 and 1")
	ErrStageConflict            = errors.New("dataset stage does not allow this operation")
	ErrRefinementInFlight       = errors.New("refinement already in progress for dataset")
	ErrNoRefinementRecord       = errors.New("dataset has no refinement record")
	ErrDatasetTombstoned        = errors.New("dataset is tombstoned")
	ErrPipelineFailed           = errors.New("refinement pipeline failed")
	ErrAllItemsFailed           = errors.New("every item failed scoring and classification")
	ErrRepositoryInvariantBroke = errors.New("repository invariant violated")
)
