package workflow

import (
	"testing"

	"gorm.io/gorm"
)

func TestMissingSnapshotMarksNotFound(t *testing.T) {
	s, err := missingSnapshot[WithdrawSnapshot](gorm.ErrRecordNotFound)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Missing() {
		t.Fatal("snapshot must be marked missing")
	}
}

func TestMissingSnapshotPropagatesOtherErrors(t *testing.T) {
	s, err := missingSnapshot[WithdrawSnapshot](gorm.ErrInvalidTransaction)
	if err == nil {
		t.Fatal("expected error")
	}
	if s != nil {
		t.Fatalf("expected nil snapshot, got %#v", s)
	}
}

func TestSnapshotAsNilStaysNil(t *testing.T) {
	s, err := snapshotAs[WithdrawSnapshot](nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != nil {
		t.Fatalf("expected nil, got %#v", s)
	}
}

func TestSnapshotAsRejectsWrongType(t *testing.T) {
	if _, err := snapshotAs[ReceiptSnapshot](&WithdrawSnapshot{}); err == nil {
		t.Fatal("expected type mismatch error")
	}
}

func TestSnapshotAsRoundTrip(t *testing.T) {
	in := &ReceiptSnapshot{SalesInvoiceId: 7, AccountId: 3}
	out, err := snapshotAs[ReceiptSnapshot](in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != in {
		t.Fatal("expected same snapshot back")
	}
}
