package enrichment

import (
	"path/filepath"
	"testing"
)

func TestRecordAccumulatesFrequencyAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unknown.json")
	log := NewUnknownLog(path, nil)

	if err := log.Record("Seitan Strips", "seitan strips", []string{"vegan"}, nil, true); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := log.Record("seitan strips", "seitan strips", []string{"vegan"}, nil, true); err != nil {
		t.Fatalf("record: %v", err)
	}

	reloaded := NewUnknownLog(path, nil)
	entries := reloaded.Entries()
	ent, ok := entries["seitan strips"]
	if !ok {
		t.Fatal("expected entry to persist across reload")
	}
	if ent.Frequency != 2 {
		t.Fatalf("frequency = %d, want 2", ent.Frequency)
	}
	if len(ent.RawInputs) != 2 {
		t.Fatalf("expected both case variants kept as distinct raw inputs (dedup is exact-match), got %v", ent.RawInputs)
	}
}

func TestKeysForEnrichmentRespectsMinFrequency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unknown.json")
	log := NewUnknownLog(path, nil)

	log.Record("x", "rare_ingredient", nil, nil, false)
	log.Record("y", "common_ingredient", nil, nil, false)
	log.Record("y2", "common_ingredient", nil, nil, false)
	log.Record("y3", "common_ingredient", nil, nil, false)

	keys := log.KeysForEnrichment(3)
	if len(keys) != 1 || keys[0] != "common_ingredient" {
		t.Fatalf("expected only common_ingredient at min_frequency=3, got %v", keys)
	}
}

func TestRecordSkipsPersistWhenNotPersisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unknown.json")
	log := NewUnknownLog(path, nil)
	if err := log.Record("a", "trace_item", nil, nil, false); err != nil {
		t.Fatalf("record: %v", err)
	}
	reloaded := NewUnknownLog(path, nil)
	if _, ok := reloaded.Entries()["trace_item"]; ok {
		t.Fatal("expected non-persisted record to not survive reload")
	}
}
