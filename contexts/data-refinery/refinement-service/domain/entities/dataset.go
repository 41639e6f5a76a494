package entities

import (
	"strings"
	"time"
)

type DataSourceType string

const (
	DataSourceCrowd       DataSourceType = "crowd"
	DataSourceUniversity  DataSourceType = "university"
	DataSourceEnterprise  DataSourceType = "enterprise"
	DataSourceMarketplace DataSourceType = "marketplace"
)

type DatasetStage string

const (
	StageIngested DatasetStage = "ingested"
	StageStored   DatasetStage = "stored"
	StageRefining DatasetStage = "refining"
	StageRefined  DatasetStage = "refined"
	StagePackaged DatasetStage = "packaged"
	StageListed   DatasetStage = "listed"
	StageSold     DatasetStage = "sold"
	StageFailed   DatasetStage = "failed"
)

// stageTransitions is the full lifecycle graph. Stages advance forward only;
// any non-terminal stage may drop to failed, and failed datasets re-enter the
// pipeline exclusively through a refinement retry. refined -> refining is the
// rerun edge for iterative threshold tuning.
var stageTransitions = map[DatasetStage][]DatasetStage{
	StageIngested: {StageStored, StageFailed},
	StageStored:   {StageRefining, StageFailed},
	StageRefining: {StageRefined, StageFailed},
	StageRefined:  {StageRefining, StagePackaged, StageFailed},
	StagePackaged: {StageListed, StageFailed},
	StageListed:   {StageSold, StageFailed},
	StageSold:     {},
	StageFailed:   {StageRefining},
}

func (s DatasetStage) CanTransitionTo(next DatasetStage) bool {
	for _, allowed := range stageTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s DatasetStage) Terminal() bool {
	return s == StageSold
}

// RecognizedMetadataKeys is the documented set of flexible metadata keys kept
// on datasets and items. Unrecognized keys are preserved but do not count
// toward metadata quality, keeping provenance digests reproducible.
var RecognizedMetadataKeys = []string{
	"language",
	"domain",
	"content_type",
	"license",
	"source",
	"collected_at",
}

func IsRecognizedMetadataKey(key string) bool {
	for _, known := range RecognizedMetadataKeys {
		if known == key {
			return true
		}
	}
	return false
}

type Dataset struct {
	DatasetID      string
	OwnerID        string
	Name           string
	Description    string
	SourceType     DataSourceType
	ItemCount      int
	TotalSizeBytes int64
	Metadata       map[string]string
	Stage          DatasetStage
	QualityScore   float64
	Tombstoned     bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (d Dataset) Refinable() bool {
	return !d.Tombstoned &&
		(d.Stage == StageStored || d.Stage == StageRefined || d.Stage == StageFailed)
}

func (d Dataset) ValidateBasics() bool {
	return strings.TrimSpace(d.OwnerID) != "" &&
		strings.TrimSpace(d.Name) != "" &&
		IsSupportedSourceType(d.SourceType)
}

func IsSupportedSourceType(value DataSourceType) bool {
	switch value {
	case DataSourceCrowd, DataSourceUniversity, DataSourceEnterprise, DataSourceMarketplace:
		return true
	default:
		return false
	}
}
