package httpadapter

import (
	"context"
	"log/slog"

	application "refinery/contexts/data-refinery/curation-service/application"
	"refinery/contexts/data-refinery/curation-service/application/commands"
	"refinery/contexts/data-refinery/curation-service/application/queries"
	"refinery/contexts/data-refinery/curation-service/domain/entities"
	httptransport "refinery/contexts/data-refinery/curation-service/transport/http"
)

type Handler struct {
	CreatePackage    commands.CreatePackageUseCase
	SetSaleReadiness commands.SetSaleReadinessUseCase
	GetPackage       queries.GetPackageUseCase
	ListPackages     queries.ListPackagesUseCase
	ExportPackage    queries.ExportPackageUseCase
	Logger           *slog.Logger
}

// CreatePackageHandler godoc
// @Summary Curate a package
// @Description Cuts an immutable package from the passed items of a refined dataset.
// @Tags curation-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Request-Id header string true "Request correlation id"
// @Param request body httptransport.CreatePackageRequest true "Package descriptor"
// @Success 201 {object} httptransport.CreatePackageResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 410 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /refinery/packages [post]
func (h Handler) CreatePackageHandler(ctx context.Context, req httptransport.CreatePackageRequest) (httptransport.CreatePackageResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("create package request received",
		"event", "http_create_package_received",
		"module", "data-refinery/curation-service",
		"layer", "transport",
		"dataset_id", req.DatasetID,
	)

	result, err := h.CreatePackage.Execute(ctx, commands.CreatePackageCommand{
		DatasetID:   req.DatasetID,
		Name:        req.Name,
		Description: req.Description,
		Version:     req.Version,
		LicenseType: req.LicenseType,
	})
	if err != nil {
		logger.Error("create package request failed",
			"event", "http_create_package_failed",
			"module", "data-refinery/curation-service",
			"layer", "transport",
			"dataset_id", req.DatasetID,
			"error", err.Error(),
		)
		return httptransport.CreatePackageResponse{}, err
	}

	return httptransport.CreatePackageResponse{
		Package: mapPackage(result.Package),
	}, nil
}

// GetPackageHandler godoc
// @Summary Get package details
// @Description Returns one curated package with manifest and provenance.
// @Tags curation-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Request-Id header string true "Request correlation id"
// @Param package_id path string true "Package id"
// @Success 200 {object} httptransport.GetPackageResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /refinery/packages/{package_id} [get]
func (h Handler) GetPackageHandler(ctx context.Context, packageID string) (httptransport.GetPackageResponse, error) {
	result, err := h.GetPackage.Execute(ctx, queries.GetPackageQuery{PackageID: packageID})
	if err != nil {
		return httptransport.GetPackageResponse{}, err
	}
	return httptransport.GetPackageResponse{
		Package: mapPackage(result.Package),
	}, nil
}

// ListPackagesHandler godoc
// @Summary List packages by dataset
// @Description Returns all packages cut from one dataset, oldest first.
// @Tags curation-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Request-Id header string true "Request correlation id"
// @Param dataset_id path string true "Dataset id"
// @Success 200 {object} httptransport.ListPackagesResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /refinery/datasets/{dataset_id}/packages [get]
func (h Handler) ListPackagesHandler(ctx context.Context, datasetID string) (httptransport.ListPackagesResponse, error) {
	result, err := h.ListPackages.Execute(ctx, queries.ListPackagesQuery{DatasetID: datasetID})
	if err != nil {
		return httptransport.ListPackagesResponse{}, err
	}
	items := make([]httptransport.PackageDTO, 0, len(result.Items))
	for _, pkg := range result.Items {
		items = append(items, mapPackage(pkg))
	}
	return httptransport.ListPackagesResponse{Items: items}, nil
}

// ExportPackageHandler godoc
// @Summary Export a package
// @Description Returns the canonical JSON export with the manifest digest.
// @Tags curation-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Request-Id header string true "Request correlation id"
// @Param package_id path string true "Package id"
// @Success 200 {object} httptransport.ExportPackageResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /refinery/packages/{package_id}/export [get]
func (h Handler) ExportPackageHandler(ctx context.Context, packageID string) (httptransport.ExportPackageResponse, error) {
	result, err := h.ExportPackage.Execute(ctx, queries.ExportPackageQuery{PackageID: packageID})
	if err != nil {
		return httptransport.ExportPackageResponse{}, err
	}
	return httptransport.ExportPackageResponse{
		Export: result.Payload,
	}, nil
}

// SetSaleReadinessHandler godoc
// @Summary Set package sale readiness
// @Description Flips the for-sale flag and price, the only mutation a package permits.
// @Tags curation-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Request-Id header string true "Request correlation id"
// @Param package_id path string true "Package id"
// @Param request body httptransport.SetSaleReadinessRequest true "Sale readiness"
// @Success 200 {object} httptransport.SetSaleReadinessResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 410 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /refinery/packages/{package_id}/sale-readiness [put]
func (h Handler) SetSaleReadinessHandler(ctx context.Context, packageID string, req httptransport.SetSaleReadinessRequest) (httptransport.SetSaleReadinessResponse, error) {
	logger := application.ResolveLogger(h.Logger)

	result, err := h.SetSaleReadiness.Execute(ctx, commands.SetSaleReadinessCommand{
		PackageID: packageID,
		IsForSale: req.IsForSale,
		PriceUSD:  req.PriceUSD,
	})
	if err != nil {
		logger.Error("set sale readiness request failed",
			"event", "http_set_sale_readiness_failed",
			"module", "data-refinery/curation-service",
			"layer", "transport",
			"package_id", packageID,
			"error", err.Error(),
		)
		return httptransport.SetSaleReadinessResponse{}, err
	}

	return httptransport.SetSaleReadinessResponse{
		Package: mapPackage(result.Package),
	}, nil
}

const timestampLayout = "2006-01-02T15:04:05Z"

func mapPackage(pkg entities.DataPackage) httptransport.PackageDTO {
	manifest := make([]httptransport.ManifestEntryDTO, 0, len(pkg.Manifest))
	for _, entry := range pkg.Manifest {
		manifest = append(manifest, httptransport.ManifestEntryDTO{
			ItemID:         entry.ItemID,
			Name:           entry.Name,
			ContentHash:    entry.ContentHash,
			SizeBytes:      entry.SizeBytes,
			Format:         entry.Format,
			OverallQuality: entry.OverallQuality,
			Scores:         entry.Scores,
		})
	}
	provenance := make([]httptransport.ProvenanceEntryDTO, 0, len(pkg.Provenance))
	for _, entry := range pkg.Provenance {
		provenance = append(provenance, httptransport.ProvenanceEntryDTO{
			Actor:         entry.Actor,
			Operation:     entry.Operation,
			Timestamp:     entry.Timestamp.UTC().Format(timestampLayout),
			MetricsDigest: entry.MetricsDigest,
		})
	}
	return httptransport.PackageDTO{
		PackageID:       pkg.PackageID,
		SourceDatasetID: pkg.SourceDatasetID,
		Name:            pkg.Name,
		Description:     pkg.Description,
		Version:         pkg.Version,
		ItemCount:       pkg.ItemCount,
		SizeBytes:       pkg.SizeBytes,
		QualityScore:    pkg.QualityScore,
		Manifest:        manifest,
		Provenance:      provenance,
		LicenseType:     string(pkg.LicenseType),
		IsAvailable:     pkg.IsAvailable,
		IsForSale:       pkg.IsForSale,
		PriceUSD:        pkg.PriceUSD,
		CreatedAt:       pkg.CreatedAt.UTC().Format(timestampLayout),
		UpdatedAt:       pkg.UpdatedAt.UTC().Format(timestampLayout),
	}
}
