package storage

import (
	"errors"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sample(id string, at time.Time) Interaction {
	return Interaction{
		ID:        id,
		CreatedAt: at,
		UserID:    "u1",
		Question:  "Q " + id,
		Answer:    "A " + id,
		Model:     "test-model",
		Documents: "doc.pdf",
	}
}

func TestSaveAndGetInteraction(t *testing.T) {
	s := openTestStore(t)
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if err := s.SaveInteraction(sample("i1", at)); err != nil {
		t.Fatalf("saving: %v", err)
	}

	got, err := s.GetInteraction("i1")
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	if got.Question != "Q i1" || got.Answer != "A i1" || got.UserID != "u1" {
		t.Errorf("unexpected interaction: %+v", got)
	}
	if !got.CreatedAt.Equal(at) {
		t.Errorf("timestamp changed across round trip: %v != %v", got.CreatedAt, at)
	}
	if got.Model != "test-model" || got.Documents != "doc.pdf" {
		t.Errorf("metadata lost: %+v", got)
	}
}

func TestGetInteractionMissing(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.GetInteraction("ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetRecentInteractionsOrder(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"i1", "i2", "i3"} {
		if err := s.SaveInteraction(sample(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("saving %s: %v", id, err)
		}
	}

	got, err := s.GetRecentInteractions(2)
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 interactions, got %d", len(got))
	}
	if got[0].ID != "i3" || got[1].ID != "i2" {
		t.Errorf("expected newest first, got %s then %s", got[0].ID, got[1].ID)
	}
}

func TestDeleteInteraction(t *testing.T) {
	s := openTestStore(t)
	if err := s.SaveInteraction(sample("i1", time.Now().UTC())); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteInteraction("i1"); err != nil {
		t.Fatalf("deleting: %v", err)
	}
	if err := s.DeleteInteraction("i1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := openTestStore(t)

	if err := s.migrate(); err != nil {
		t.Fatalf("second migrate run failed: %v", err)
	}
}
