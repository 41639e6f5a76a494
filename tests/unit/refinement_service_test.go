package unit

import (
	"context"
	"errors"
	"testing"

	refinementservice "refinery/contexts/data-refinery/refinement-service"
	domainerrors "refinery/contexts/data-refinery/refinement-service/domain/errors"
	httptransport "refinery/contexts/data-refinery/refinement-service/transport/http"
)

func strongItem(name string, hash string) httptransport.IngestItemDTO {
	return httptransport.IngestItemDTO{
		Name:        name,
		ContentHash: hash,
		Descriptor:  "annotated " + name + " corpus with distinct vocabulary",
		SizeBytes:   128,
		Format:      "txt",
		Metadata: map[string]string{
			"language":     "en",
			"domain":       "technical",
			"content_type": "prose",
			"license":      "cc-by",
			"source":       "crawl",
			"collected_at": "2026-01-01",
		},
	}
}

func weakItem(name string, hash string) httptransport.IngestItemDTO {
	return httptransport.IngestItemDTO{
		Name:        name,
		ContentHash: hash,
		Descriptor:  "data data data data",
		SizeBytes:   64,
		Format:      "exe",
	}
}

func createDataset(t *testing.T, module refinementservice.Module) string {
	t.Helper()
	resp, err := module.Handler.CreateDatasetHandler(context.Background(), httptransport.CreateDatasetRequest{
		OwnerID:    "owner-1",
		Name:       "crawl-2026-08",
		SourceType: "crowd",
	})
	if err != nil {
		t.Fatalf("create dataset should succeed: %v", err)
	}
	if resp.Dataset.Stage != "ingested" {
		t.Fatalf("new dataset should start ingested, got %s", resp.Dataset.Stage)
	}
	return resp.Dataset.DatasetID
}

func ingest(t *testing.T, module refinementservice.Module, datasetID string, items ...httptransport.IngestItemDTO) {
	t.Helper()
	_, err := module.Handler.IngestItemsHandler(context.Background(), datasetID, httptransport.IngestItemsRequest{
		Method: "upload",
		Items:  items,
	})
	if err != nil {
		t.Fatalf("ingest should succeed: %v", err)
	}
}

func TestCreateDatasetValidation(t *testing.T) {
	module := refinementservice.NewInMemoryModule(nil, nil)

	_, err := module.Handler.CreateDatasetHandler(context.Background(), httptransport.CreateDatasetRequest{
		Name:       "no owner",
		SourceType: "crowd",
	})
	if !errors.Is(err, domainerrors.ErrInvalidDatasetRequest) {
		t.Fatalf("expected invalid dataset request, got %v", err)
	}

	_, err = module.Handler.CreateDatasetHandler(context.Background(), httptransport.CreateDatasetRequest{
		OwnerID:    "owner-1",
		Name:       "bad source",
		SourceType: "darknet",
	})
	if !errors.Is(err, domainerrors.ErrInvalidDatasetRequest) {
		t.Fatalf("expected invalid dataset request for source type, got %v", err)
	}
}

func TestIngestAdvancesStageOnce(t *testing.T) {
	module := refinementservice.NewInMemoryModule(nil, nil)
	datasetID := createDataset(t, module)

	resp, err := module.Handler.IngestItemsHandler(context.Background(), datasetID, httptransport.IngestItemsRequest{
		Method:           "upload",
		Items:            []httptransport.IngestItemDTO{strongItem("a", "hash-a"), strongItem("b", "hash-b")},
		ValidationErrors: []string{"row 3: unsupported format"},
	})
	if err != nil {
		t.Fatalf("ingest should succeed: %v", err)
	}
	if resp.Dataset.Stage != "stored" {
		t.Fatalf("expected stage stored, got %s", resp.Dataset.Stage)
	}
	if resp.Dataset.ItemCount != 2 || resp.Dataset.TotalSizeBytes != 256 {
		t.Fatalf("unexpected counters: %d items, %d bytes", resp.Dataset.ItemCount, resp.Dataset.TotalSizeBytes)
	}

	_, err = module.Handler.IngestItemsHandler(context.Background(), datasetID, httptransport.IngestItemsRequest{
		Items: []httptransport.IngestItemDTO{strongItem("c", "hash-c")},
	})
	if !errors.Is(err, domainerrors.ErrStageConflict) {
		t.Fatalf("second ingest should hit stage conflict, got %v", err)
	}

	ingestions, err := module.Handler.ListIngestionsHandler(context.Background(), datasetID)
	if err != nil {
		t.Fatalf("list ingestions should succeed: %v", err)
	}
	if len(ingestions.Items) != 1 {
		t.Fatalf("expected one ingestion record, got %d", len(ingestions.Items))
	}
	record := ingestions.Items[0]
	if record.ItemsReceived != 3 || record.ItemsAccepted != 2 {
		t.Fatalf("expected 3 received / 2 accepted, got %d/%d", record.ItemsReceived, record.ItemsAccepted)
	}
}

func TestRefineAppliesQualityThreshold(t *testing.T) {
	module := refinementservice.NewInMemoryModule(nil, nil)
	datasetID := createDataset(t, module)
	ingest(t, module, datasetID, strongItem("good", "hash-good"), weakItem("bad", "hash-bad"))

	resp, err := module.Handler.RefineDatasetHandler(context.Background(), datasetID, httptransport.RefineDatasetRequest{
		QualityThreshold: 0.6,
	})
	if err != nil {
		t.Fatalf("refine should succeed: %v", err)
	}
	if resp.Dataset.Stage != "refined" {
		t.Fatalf("expected stage refined, got %s", resp.Dataset.Stage)
	}
	if resp.Record.ItemsProcessed != 2 || resp.Record.ItemsPassed != 1 || resp.Record.ItemsRejected != 1 {
		t.Fatalf("unexpected tallies: %+v", resp.Record)
	}
	if resp.Record.MetricsDigest == "" {
		t.Fatalf("expected a metrics digest")
	}
	if resp.Dataset.QualityScore != resp.Record.OverallQuality {
		t.Fatalf("dataset quality %f should match record %f", resp.Dataset.QualityScore, resp.Record.OverallQuality)
	}

	for _, score := range []float64{
		resp.Record.Scores.Completeness,
		resp.Record.Scores.Clarity,
		resp.Record.Scores.Relevance,
		resp.Record.Scores.FormatValidity,
		resp.Record.Scores.MetadataQuality,
		resp.Record.OverallQuality,
	} {
		if score < 0 || score > 1 {
			t.Fatalf("score out of range: %f", score)
		}
	}

	detail, err := module.Handler.GetDatasetHandler(context.Background(), datasetID)
	if err != nil {
		t.Fatalf("get dataset should succeed: %v", err)
	}
	for _, item := range detail.Items {
		switch item.Name {
		case "good":
			if item.Status != "passed" {
				t.Fatalf("good item should pass, got %s (%s)", item.Status, item.RejectionReason)
			}
		case "bad":
			if item.Status != "rejected" || item.RejectionReason != "low_quality" {
				t.Fatalf("bad item should be rejected low_quality, got %s (%s)", item.Status, item.RejectionReason)
			}
		}
	}
}

func TestRefineExactDuplicateKeepsEarliest(t *testing.T) {
	module := refinementservice.NewInMemoryModule(nil, nil)
	datasetID := createDataset(t, module)
	first := strongItem("original", "hash-same")
	second := strongItem("copy", "hash-same")
	ingest(t, module, datasetID, first, second)

	resp, err := module.Handler.RefineDatasetHandler(context.Background(), datasetID, httptransport.RefineDatasetRequest{
		QualityThreshold: 0.5,
	})
	if err != nil {
		t.Fatalf("refine should succeed: %v", err)
	}
	if resp.Record.DuplicatesFound != 1 {
		t.Fatalf("expected one duplicate, got %d", resp.Record.DuplicatesFound)
	}

	detail, err := module.Handler.GetDatasetHandler(context.Background(), datasetID)
	if err != nil {
		t.Fatalf("get dataset should succeed: %v", err)
	}
	for _, item := range detail.Items {
		switch item.Name {
		case "original":
			if item.Status != "passed" {
				t.Fatalf("earliest copy should be kept, got %s", item.Status)
			}
		case "copy":
			if item.Status != "rejected" || item.RejectionReason != "duplicate" {
				t.Fatalf("later copy should be rejected duplicate, got %s (%s)", item.Status, item.RejectionReason)
			}
		}
	}
}

func TestRefineDuplicateReasonWinsOverLowQuality(t *testing.T) {
	module := refinementservice.NewInMemoryModule(nil, nil)
	datasetID := createDataset(t, module)
	ingest(t, module, datasetID, weakItem("bad-original", "hash-dup"), weakItem("bad-copy", "hash-dup"))

	_, err := module.Handler.RefineDatasetHandler(context.Background(), datasetID, httptransport.RefineDatasetRequest{
		QualityThreshold: 0.9,
	})
	if err != nil {
		t.Fatalf("refine should succeed: %v", err)
	}

	detail, err := module.Handler.GetDatasetHandler(context.Background(), datasetID)
	if err != nil {
		t.Fatalf("get dataset should succeed: %v", err)
	}
	for _, item := range detail.Items {
		if item.Name == "bad-copy" && item.RejectionReason != "duplicate" {
			t.Fatalf("duplicate reason should win over low_quality, got %s", item.RejectionReason)
		}
	}
}

func TestRefineNearDuplicateAtDefaultThreshold(t *testing.T) {
	module := refinementservice.NewInMemoryModule(nil, nil)
	datasetID := createDataset(t, module)
	first := strongItem("near-a", "hash-x")
	second := strongItem("near-b", "hash-y")
	second.Descriptor = first.Descriptor
	ingest(t, module, datasetID, first, second)

	resp, err := module.Handler.RefineDatasetHandler(context.Background(), datasetID, httptransport.RefineDatasetRequest{
		QualityThreshold: 0.5,
	})
	if err != nil {
		t.Fatalf("refine should succeed: %v", err)
	}
	if resp.Record.DuplicatesFound != 1 {
		t.Fatalf("identical descriptors should trip the near pass, got %d duplicates", resp.Record.DuplicatesFound)
	}
}

func TestRefineValidatesThresholdBeforeMutation(t *testing.T) {
	module := refinementservice.NewInMemoryModule(nil, nil)
	datasetID := createDataset(t, module)
	ingest(t, module, datasetID, strongItem("a", "hash-a"))

	_, err := module.Handler.RefineDatasetHandler(context.Background(), datasetID, httptransport.RefineDatasetRequest{
		QualityThreshold: 1.5,
	})
	if !errors.Is(err, domainerrors.ErrInvalidThreshold) {
		t.Fatalf("expected invalid threshold, got %v", err)
	}

	bad := 1.2
	_, err = module.Handler.RefineDatasetHandler(context.Background(), datasetID, httptransport.RefineDatasetRequest{
		QualityThreshold: 0.5,
		DedupThreshold:   &bad,
	})
	if !errors.Is(err, domainerrors.ErrInvalidThreshold) {
		t.Fatalf("expected invalid dedup threshold, got %v", err)
	}

	detail, err := module.Handler.GetDatasetHandler(context.Background(), datasetID)
	if err != nil {
		t.Fatalf("get dataset should succeed: %v", err)
	}
	if detail.Dataset.Stage != "stored" {
		t.Fatalf("rejected run must not move the stage, got %s", detail.Dataset.Stage)
	}
}

func TestRefineRerunAppendsRecords(t *testing.T) {
	module := refinementservice.NewInMemoryModule(nil, nil)
	datasetID := createDataset(t, module)
	ingest(t, module, datasetID, strongItem("good", "hash-good"), weakItem("bad", "hash-bad"))

	first, err := module.Handler.RefineDatasetHandler(context.Background(), datasetID, httptransport.RefineDatasetRequest{
		QualityThreshold: 0.2,
	})
	if err != nil {
		t.Fatalf("first refine should succeed: %v", err)
	}
	if first.Record.ItemsPassed != 2 {
		t.Fatalf("low threshold should pass both items, got %d", first.Record.ItemsPassed)
	}

	second, err := module.Handler.RefineDatasetHandler(context.Background(), datasetID, httptransport.RefineDatasetRequest{
		QualityThreshold: 0.6,
	})
	if err != nil {
		t.Fatalf("rerun should succeed: %v", err)
	}
	if second.Record.ItemsPassed != 1 {
		t.Fatalf("tighter threshold should pass one item, got %d", second.Record.ItemsPassed)
	}
	if second.Record.RecordID == first.Record.RecordID {
		t.Fatalf("rerun must append a new record")
	}

	status, err := module.Handler.GetRefinementStatusHandler(context.Background(), datasetID)
	if err != nil {
		t.Fatalf("status should succeed: %v", err)
	}
	if status.LatestRecord == nil || status.LatestRecord.RecordID != second.Record.RecordID {
		t.Fatalf("status should surface the latest record")
	}
	if !status.Refined {
		t.Fatalf("dataset should report refined")
	}
}

func TestRefineRerunSameThresholdReproducesOutcome(t *testing.T) {
	module := refinementservice.NewInMemoryModule(nil, nil)
	datasetID := createDataset(t, module)
	near := strongItem("near-copy", "hash-near")
	near.Descriptor = "alpha beta gamma delta"
	twin := strongItem("near-twin", "hash-twin")
	twin.Descriptor = "alpha beta gamma delta"
	ingest(t, module, datasetID, strongItem("good", "hash-good"), weakItem("bad", "hash-bad"), near, twin)

	first, err := module.Handler.RefineDatasetHandler(context.Background(), datasetID, httptransport.RefineDatasetRequest{
		QualityThreshold: 0.6,
	})
	if err != nil {
		t.Fatalf("first refine should succeed: %v", err)
	}
	second, err := module.Handler.RefineDatasetHandler(context.Background(), datasetID, httptransport.RefineDatasetRequest{
		QualityThreshold: 0.6,
	})
	if err != nil {
		t.Fatalf("rerun should succeed: %v", err)
	}

	if second.Record.OverallQuality != first.Record.OverallQuality {
		t.Fatalf("rerun changed the overall score: %f vs %f", first.Record.OverallQuality, second.Record.OverallQuality)
	}
	if second.Record.Scores != first.Record.Scores {
		t.Fatalf("rerun changed the dimension scores: %+v vs %+v", first.Record.Scores, second.Record.Scores)
	}
	if second.Record.MetricsDigest != first.Record.MetricsDigest {
		t.Fatalf("rerun changed the metrics digest: %s vs %s", first.Record.MetricsDigest, second.Record.MetricsDigest)
	}
	if second.Record.DuplicatesFound != first.Record.DuplicatesFound {
		t.Fatalf("rerun changed the duplicate set size: %d vs %d", first.Record.DuplicatesFound, second.Record.DuplicatesFound)
	}
	if second.Record.ItemsPassed != first.Record.ItemsPassed || second.Record.ItemsRejected != first.Record.ItemsRejected {
		t.Fatalf("rerun changed the pass/reject split: %d/%d vs %d/%d",
			first.Record.ItemsPassed, first.Record.ItemsRejected,
			second.Record.ItemsPassed, second.Record.ItemsRejected)
	}

	firstDetail, err := module.Handler.GetDatasetHandler(context.Background(), datasetID)
	if err != nil {
		t.Fatalf("get dataset should succeed: %v", err)
	}
	for _, item := range firstDetail.Items {
		switch item.Name {
		case "near-copy":
			if item.Status != "passed" {
				t.Fatalf("earliest near-duplicate should stay the keeper, got %s", item.Status)
			}
		case "near-twin":
			if item.RejectionReason != "duplicate" {
				t.Fatalf("rerun should reproduce the duplicate verdict, got %s (%s)", item.Status, item.RejectionReason)
			}
		}
	}
}

func TestRefinementMutualExclusion(t *testing.T) {
	module := refinementservice.NewInMemoryModule(nil, nil)
	datasetID := createDataset(t, module)
	ingest(t, module, datasetID, strongItem("a", "hash-a"))

	if _, err := module.Store.BeginRefinement(context.Background(), datasetID, module.Store.Now()); err != nil {
		t.Fatalf("begin refinement should succeed: %v", err)
	}

	_, err := module.Handler.RefineDatasetHandler(context.Background(), datasetID, httptransport.RefineDatasetRequest{
		QualityThreshold: 0.5,
	})
	if !errors.Is(err, domainerrors.ErrRefinementInFlight) {
		t.Fatalf("expected refinement in flight, got %v", err)
	}
}

func TestExportMetricsComputesPassRate(t *testing.T) {
	module := refinementservice.NewInMemoryModule(nil, nil)
	datasetID := createDataset(t, module)
	ingest(t, module, datasetID, strongItem("good", "hash-good"), weakItem("bad", "hash-bad"))

	if _, err := module.Handler.RefineDatasetHandler(context.Background(), datasetID, httptransport.RefineDatasetRequest{
		QualityThreshold: 0.6,
	}); err != nil {
		t.Fatalf("refine should succeed: %v", err)
	}

	resp, err := module.Handler.ExportMetricsHandler(context.Background(), datasetID)
	if err != nil {
		t.Fatalf("export metrics should succeed: %v", err)
	}
	if resp.PassRate != 0.5 {
		t.Fatalf("expected pass rate 0.5, got %f", resp.PassRate)
	}
	if resp.Record.MetricsDigest == "" {
		t.Fatalf("exported record must carry its digest")
	}
}

func TestExportMetricsWithoutRun(t *testing.T) {
	module := refinementservice.NewInMemoryModule(nil, nil)
	datasetID := createDataset(t, module)

	_, err := module.Handler.ExportMetricsHandler(context.Background(), datasetID)
	if !errors.Is(err, domainerrors.ErrNoRefinementRecord) {
		t.Fatalf("expected no refinement record, got %v", err)
	}
}

func TestDeleteUnreferencedDatasetRemovesIt(t *testing.T) {
	module := refinementservice.NewInMemoryModule(nil, nil)
	datasetID := createDataset(t, module)
	ingest(t, module, datasetID, strongItem("a", "hash-a"))

	resp, err := module.Handler.DeleteDatasetHandler(context.Background(), datasetID)
	if err != nil {
		t.Fatalf("delete should succeed: %v", err)
	}
	if resp.Tombstoned {
		t.Fatalf("unreferenced dataset should be removed, not tombstoned")
	}

	_, err = module.Handler.GetDatasetHandler(context.Background(), datasetID)
	if !errors.Is(err, domainerrors.ErrDatasetNotFound) {
		t.Fatalf("expected dataset not found after delete, got %v", err)
	}
}
