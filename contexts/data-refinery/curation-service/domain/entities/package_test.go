package entities

import "testing"

func TestManifestDigestStable(t *testing.T) {
	manifest := []ManifestEntry{
		{ItemID: "item-1", ContentHash: "hash-1", SizeBytes: 10, Scores: map[string]float64{"clarity": 0.5, "completeness": 1.0}},
		{ItemID: "item-2", ContentHash: "hash-2", SizeBytes: 20},
	}

	first := ManifestDigest(manifest)
	second := ManifestDigest(manifest)
	if first == "" || first != second {
		t.Fatalf("digest must be stable for identical manifests: %q vs %q", first, second)
	}

	reordered := []ManifestEntry{manifest[1], manifest[0]}
	if ManifestDigest(reordered) == first {
		t.Fatalf("digest must change when the manifest order changes")
	}
}

func TestValidateBasics(t *testing.T) {
	pkg := DataPackage{
		SourceDatasetID: "ref-1",
		Name:            "curated crawl",
		Version:         "1.0.0",
		LicenseType:     LicenseResearch,
	}
	if !pkg.ValidateBasics() {
		t.Fatalf("well-formed package should validate")
	}

	bad := pkg
	bad.LicenseType = "proprietary"
	if bad.ValidateBasics() {
		t.Fatalf("unsupported license must fail validation")
	}

	bad = pkg
	bad.Version = "  "
	if bad.ValidateBasics() {
		t.Fatalf("blank version must fail validation")
	}
}
