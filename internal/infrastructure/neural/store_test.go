package neural

import (
	"errors"
	"testing"

	domainNeural "github.com/jocieb/carrot/internal/domain/neural"
)

func testStoreCRUD(t *testing.T, store NodeStore) {
	t.Helper()

	if err := store.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	defer store.Close()

	node := NewNode(domainNeural.NodeTypeHidden)
	node.Bias = 0.33
	node.Squash = domainNeural.ActivationTanh
	record := node.Record()

	if err := store.Save(record); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(record.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded != record {
		t.Fatalf("loaded %+v, expected %+v", loaded, record)
	}

	restored, err := NodeFromRecord(loaded)
	if err != nil {
		t.Fatalf("reconstruct: %v", err)
	}
	if restored.Bias != 0.33 || restored.Squash != domainNeural.ActivationTanh {
		t.Fatalf("reconstructed node lost parameters: %+v", restored)
	}

	records, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("list returned %d records, expected 1", len(records))
	}

	if err := store.Delete(record.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Load(record.ID); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("load after delete: %v, expected ErrRecordNotFound", err)
	}

	// Deleting a missing record is a no-op.
	if err := store.Delete(record.ID); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	testStoreCRUD(t, NewMemoryStore())
}

func TestSQLiteStoreInMemoryFallback(t *testing.T) {
	testStoreCRUD(t, NewSQLiteStore(":memory:"))
}

func TestMemoryStoreRequiresID(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Save(domainNeural.NodeRecord{Bias: 1}); err == nil {
		t.Fatal("expected error for record without id")
	}
}

func TestMemoryStoreListOrdered(t *testing.T) {
	store := NewMemoryStore()
	for _, id := range []string{"c", "a", "b"} {
		record := domainNeural.NodeRecord{
			ID:     id,
			Type:   domainNeural.NodeTypeHidden,
			Squash: "logistic",
			Mask:   1,
		}
		if err := store.Save(record); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	records, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"a", "b", "c"}
	for i, record := range records {
		if record.ID != want[i] {
			t.Fatalf("position %d: got %s, expected %s", i, record.ID, want[i])
		}
	}
}
