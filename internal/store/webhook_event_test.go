package store

import "testing"

func TestWebhookEventStoreIdempotency(t *testing.T) {
	db := newTestDB(t)
	events := NewWebhookEventStore(db)

	processed, err := events.IsProcessed("evt_001")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if processed {
		t.Error("fresh event should not be processed")
	}

	if err := events.MarkProcessed("evt_001", "payment_intent.succeeded"); err != nil {
		t.Fatalf("mark: %v", err)
	}

	processed, err = events.IsProcessed("evt_001")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !processed {
		t.Error("marked event should be processed")
	}
}

func TestWebhookEventStoreDuplicateMark(t *testing.T) {
	db := newTestDB(t)
	events := NewWebhookEventStore(db)

	if err := events.MarkProcessed("evt_dup", "invoice.paid"); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if err := events.MarkProcessed("evt_dup", "invoice.paid"); err == nil {
		t.Error("expected unique constraint error on duplicate mark")
	}
}
