package queries

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "refinery/contexts/data-refinery/curation-service/application"
	"refinery/contexts/data-refinery/curation-service/domain/entities"
	"refinery/contexts/data-refinery/curation-service/ports"
)

type ExportPackageQuery struct {
	PackageID string
}

// ExportPackageResult carries the canonical JSON export of a package. The
// payload is self-contained: consumers can verify the manifest digest against
// the packaging provenance entry without calling back.
type ExportPackageResult struct {
	Package entities.DataPackage
	Payload []byte
}

type ExportPackageUseCase struct {
	Packages ports.PackageRepository
	Logger   *slog.Logger
}

type packageExport struct {
	PackageID       string                     `json:"package_id"`
	SourceDatasetID string                     `json:"source_dataset_id"`
	Name            string                     `json:"name"`
	Description     string                     `json:"description,omitempty"`
	Version         string                     `json:"version"`
	ItemCount       int                        `json:"item_count"`
	SizeBytes       int64                      `json:"size_bytes"`
	QualityScore    float64                    `json:"quality_score"`
	LicenseType     string                     `json:"license_type"`
	Manifest        []entities.ManifestEntry   `json:"manifest"`
	Provenance      []entities.ProvenanceEntry `json:"provenance"`
	ManifestDigest  string                     `json:"manifest_digest"`
	CreatedAt       time.Time                  `json:"created_at"`
}

func (u ExportPackageUseCase) Execute(ctx context.Context, query ExportPackageQuery) (ExportPackageResult, error) {
	logger := application.ResolveLogger(u.Logger)

	pkg, err := u.Packages.GetPackage(ctx, query.PackageID)
	if err != nil {
		logger.Error("export package failed",
			"event", "export_package_failed",
			"module", "data-refinery/curation-service",
			"layer", "application",
			"package_id", query.PackageID,
			"error", err.Error(),
		)
		return ExportPackageResult{}, err
	}

	payload, err := json.Marshal(packageExport{
		PackageID:       pkg.PackageID,
		SourceDatasetID: pkg.SourceDatasetID,
		Name:            pkg.Name,
		Description:     pkg.Description,
		Version:         pkg.Version,
		ItemCount:       pkg.ItemCount,
		SizeBytes:       pkg.SizeBytes,
		QualityScore:    pkg.QualityScore,
		LicenseType:     string(pkg.LicenseType),
		Manifest:        pkg.Manifest,
		Provenance:      pkg.Provenance,
		ManifestDigest:  entities.ManifestDigest(pkg.Manifest),
		CreatedAt:       pkg.CreatedAt,
	})
	if err != nil {
		return ExportPackageResult{}, err
	}

	return ExportPackageResult{Package: pkg, Payload: payload}, nil
}
