package unit

import (
	"context"
	"errors"
	"testing"

	"refinery/internal/app/bootstrap"

	curationerrors "refinery/contexts/data-refinery/curation-service/domain/errors"
	curationhttp "refinery/contexts/data-refinery/curation-service/transport/http"
	refinementhttp "refinery/contexts/data-refinery/refinement-service/transport/http"
)

func newStack(t *testing.T) bootstrap.InMemoryStack {
	t.Helper()
	stack, err := bootstrap.NewInMemoryStack(nil)
	if err != nil {
		t.Fatalf("stack should assemble: %v", err)
	}
	return stack
}

// refinedDataset drives a dataset through create, ingest, and refine so the
// curation scenarios can start from stage refined.
func refinedDataset(t *testing.T, stack bootstrap.InMemoryStack, threshold float64, items ...refinementhttp.IngestItemDTO) string {
	t.Helper()
	created, err := stack.Refinement.Handler.CreateDatasetHandler(context.Background(), refinementhttp.CreateDatasetRequest{
		OwnerID:    "owner-1",
		Name:       "crawl-2026-08",
		SourceType: "university",
	})
	if err != nil {
		t.Fatalf("create dataset should succeed: %v", err)
	}
	datasetID := created.Dataset.DatasetID

	if _, err := stack.Refinement.Handler.IngestItemsHandler(context.Background(), datasetID, refinementhttp.IngestItemsRequest{
		Method: "upload",
		Items:  items,
	}); err != nil {
		t.Fatalf("ingest should succeed: %v", err)
	}

	if _, err := stack.Refinement.Handler.RefineDatasetHandler(context.Background(), datasetID, refinementhttp.RefineDatasetRequest{
		QualityThreshold: threshold,
	}); err != nil {
		t.Fatalf("refine should succeed: %v", err)
	}
	return datasetID
}

func createPackage(t *testing.T, stack bootstrap.InMemoryStack, datasetID string) curationhttp.PackageDTO {
	t.Helper()
	resp, err := stack.Curation.Handler.CreatePackageHandler(context.Background(), curationhttp.CreatePackageRequest{
		DatasetID:   datasetID,
		Name:        "curated crawl",
		Version:     "1.0.0",
		LicenseType: "research",
	})
	if err != nil {
		t.Fatalf("create package should succeed: %v", err)
	}
	return resp.Package
}

func TestCreatePackageSnapshotsPassedItems(t *testing.T) {
	stack := newStack(t)
	datasetID := refinedDataset(t, stack, 0.6,
		strongItem("alpha", "hash-alpha"),
		strongItem("beta", "hash-beta"),
		weakItem("gamma", "hash-gamma"),
	)

	pkg := createPackage(t, stack, datasetID)
	if pkg.SourceDatasetID != datasetID {
		t.Fatalf("package should point at its source dataset")
	}
	if pkg.ItemCount != 2 || len(pkg.Manifest) != 2 {
		t.Fatalf("expected 2 passed items in manifest, got %d", len(pkg.Manifest))
	}
	if pkg.SizeBytes != 256 {
		t.Fatalf("expected manifest size 256, got %d", pkg.SizeBytes)
	}
	if pkg.QualityScore <= 0 {
		t.Fatalf("package should carry the run quality score")
	}
	if !pkg.IsAvailable || pkg.IsForSale {
		t.Fatalf("new package should be available and not for sale")
	}

	for _, entry := range pkg.Manifest {
		if entry.ContentHash == "" || entry.SizeBytes == 0 {
			t.Fatalf("manifest entry missing content identity: %+v", entry)
		}
		for _, key := range []string{"completeness", "clarity", "relevance", "format_validity", "metadata_quality"} {
			if _, ok := entry.Scores[key]; !ok {
				t.Fatalf("manifest entry missing %s score", key)
			}
		}
	}

	status, err := stack.Refinement.Handler.GetRefinementStatusHandler(context.Background(), datasetID)
	if err != nil {
		t.Fatalf("status should succeed: %v", err)
	}
	if status.Stage != "packaged" {
		t.Fatalf("packaging should advance the dataset, got %s", status.Stage)
	}
}

func TestCreatePackageProvenanceChain(t *testing.T) {
	stack := newStack(t)
	datasetID := refinedDataset(t, stack, 0.6, strongItem("alpha", "hash-alpha"))

	pkg := createPackage(t, stack, datasetID)
	if len(pkg.Provenance) != 3 {
		t.Fatalf("expected ingestion, refinement, and packaging entries, got %d", len(pkg.Provenance))
	}
	if pkg.Provenance[0].Operation != "ingest" {
		t.Fatalf("chain should start with ingest, got %s", pkg.Provenance[0].Operation)
	}
	if pkg.Provenance[1].Operation != "refine" || pkg.Provenance[1].MetricsDigest == "" {
		t.Fatalf("refine entry should carry the run digest: %+v", pkg.Provenance[1])
	}
	last := pkg.Provenance[len(pkg.Provenance)-1]
	if last.Operation != "package" || last.MetricsDigest == "" {
		t.Fatalf("chain should end with the packaging digest: %+v", last)
	}
}

func TestCreatePackageRequiresRefinedDataset(t *testing.T) {
	stack := newStack(t)
	created, err := stack.Refinement.Handler.CreateDatasetHandler(context.Background(), refinementhttp.CreateDatasetRequest{
		OwnerID:    "owner-1",
		Name:       "raw crawl",
		SourceType: "crowd",
	})
	if err != nil {
		t.Fatalf("create dataset should succeed: %v", err)
	}

	_, err = stack.Curation.Handler.CreatePackageHandler(context.Background(), curationhttp.CreatePackageRequest{
		DatasetID:   created.Dataset.DatasetID,
		Name:        "too early",
		Version:     "1.0.0",
		LicenseType: "open",
	})
	if !errors.Is(err, curationerrors.ErrDatasetNotRefined) {
		t.Fatalf("expected dataset not refined, got %v", err)
	}
}

func TestCreatePackageRejectsSecondCut(t *testing.T) {
	stack := newStack(t)
	datasetID := refinedDataset(t, stack, 0.6, strongItem("alpha", "hash-alpha"))
	createPackage(t, stack, datasetID)

	_, err := stack.Curation.Handler.CreatePackageHandler(context.Background(), curationhttp.CreatePackageRequest{
		DatasetID:   datasetID,
		Name:        "second cut",
		Version:     "1.0.1",
		LicenseType: "research",
	})
	if !errors.Is(err, curationerrors.ErrDatasetNotRefined) {
		t.Fatalf("packaged dataset should refuse a second cut, got %v", err)
	}
}

func TestCreatePackageNoPassedItems(t *testing.T) {
	stack := newStack(t)
	datasetID := refinedDataset(t, stack, 0.9, weakItem("junk", "hash-junk"))

	_, err := stack.Curation.Handler.CreatePackageHandler(context.Background(), curationhttp.CreatePackageRequest{
		DatasetID:   datasetID,
		Name:        "empty cut",
		Version:     "1.0.0",
		LicenseType: "research",
	})
	if !errors.Is(err, curationerrors.ErrNoPassedItems) {
		t.Fatalf("expected no passed items, got %v", err)
	}
}

func TestCreatePackageValidation(t *testing.T) {
	stack := newStack(t)
	datasetID := refinedDataset(t, stack, 0.6, strongItem("alpha", "hash-alpha"))

	_, err := stack.Curation.Handler.CreatePackageHandler(context.Background(), curationhttp.CreatePackageRequest{
		DatasetID:   datasetID,
		Name:        "bad license",
		Version:     "1.0.0",
		LicenseType: "proprietary",
	})
	if !errors.Is(err, curationerrors.ErrInvalidPackageRequest) {
		t.Fatalf("expected invalid package request, got %v", err)
	}
}

func TestDeleteReferencedDatasetTombstones(t *testing.T) {
	stack := newStack(t)
	datasetID := refinedDataset(t, stack, 0.6, strongItem("alpha", "hash-alpha"))
	pkg := createPackage(t, stack, datasetID)

	deleted, err := stack.Refinement.Handler.DeleteDatasetHandler(context.Background(), datasetID)
	if err != nil {
		t.Fatalf("delete should succeed: %v", err)
	}
	if !deleted.Tombstoned {
		t.Fatalf("referenced dataset should be tombstoned, not removed")
	}

	got, err := stack.Curation.Handler.GetPackageHandler(context.Background(), pkg.PackageID)
	if err != nil {
		t.Fatalf("package should survive the tombstone: %v", err)
	}
	if !got.Package.IsAvailable {
		t.Fatalf("tombstoning the dataset must not touch the package")
	}

	detail, err := stack.Refinement.Handler.GetDatasetHandler(context.Background(), datasetID)
	if err != nil {
		t.Fatalf("tombstoned dataset should still read: %v", err)
	}
	if !detail.Dataset.Tombstoned {
		t.Fatalf("dataset should be marked tombstoned")
	}
}

func TestSetSaleReadinessValidatesPrice(t *testing.T) {
	stack := newStack(t)
	datasetID := refinedDataset(t, stack, 0.6, strongItem("alpha", "hash-alpha"))
	pkg := createPackage(t, stack, datasetID)

	_, err := stack.Curation.Handler.SetSaleReadinessHandler(context.Background(), pkg.PackageID, curationhttp.SetSaleReadinessRequest{
		IsForSale: true,
		PriceUSD:  0,
	})
	if !errors.Is(err, curationerrors.ErrInvalidPrice) {
		t.Fatalf("expected invalid price, got %v", err)
	}

	resp, err := stack.Curation.Handler.SetSaleReadinessHandler(context.Background(), pkg.PackageID, curationhttp.SetSaleReadinessRequest{
		IsForSale: true,
		PriceUSD:  25.0,
	})
	if err != nil {
		t.Fatalf("set sale readiness should succeed: %v", err)
	}
	if !resp.Package.IsForSale || resp.Package.PriceUSD != 25.0 {
		t.Fatalf("sale readiness not applied: %+v", resp.Package)
	}
}

func TestExportPackageCarriesManifest(t *testing.T) {
	stack := newStack(t)
	datasetID := refinedDataset(t, stack, 0.6, strongItem("alpha", "hash-alpha"))
	pkg := createPackage(t, stack, datasetID)

	resp, err := stack.Curation.Handler.ExportPackageHandler(context.Background(), pkg.PackageID)
	if err != nil {
		t.Fatalf("export should succeed: %v", err)
	}
	if len(resp.Export) == 0 {
		t.Fatalf("export payload should not be empty")
	}

	listed, err := stack.Curation.Handler.ListPackagesHandler(context.Background(), datasetID)
	if err != nil {
		t.Fatalf("list packages should succeed: %v", err)
	}
	if len(listed.Items) != 1 || listed.Items[0].PackageID != pkg.PackageID {
		t.Fatalf("dataset should list its one package")
	}

	_, err = stack.Curation.Handler.GetPackageHandler(context.Background(), "pkg-missing")
	if !errors.Is(err, curationerrors.ErrPackageNotFound) {
		t.Fatalf("expected package not found, got %v", err)
	}
}
