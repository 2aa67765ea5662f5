package store

import (
	"testing"

	"github.com/jlandron/GabiYogaWebsite-sub001/internal/model"
)

func TestPaymentStoreCreateAndList(t *testing.T) {
	db := newTestDB(t)
	userID := createTestUser(t, db)
	payments := NewPaymentStore(db)

	relatedID := int64(7)
	p, err := payments.Create(userID, 85.00, "card", "pi_abc123", model.PaymentTypeWorkshop, &relatedID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Amount != 85.00 {
		t.Errorf("amount = %v, want 85.00", p.Amount)
	}
	if p.RelatedID == nil || *p.RelatedID != 7 {
		t.Errorf("related id = %v, want 7", p.RelatedID)
	}

	list, err := payments.ListByUser(userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d payments, want 1", len(list))
	}
}

func TestPaymentStoreCountByReference(t *testing.T) {
	db := newTestDB(t)
	userID := createTestUser(t, db)
	payments := NewPaymentStore(db)

	if _, err := payments.Create(userID, 49.00, "card", "in_555", model.PaymentTypeMembership, nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	count, err := payments.CountByReference("in_555")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}

	count, err = payments.CountByReference("in_other")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}
