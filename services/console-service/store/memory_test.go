package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreAppendIsIdempotent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	r := Receipt{ID: "r1", ShipmentID: "42", Wallet: "0xABC", TransactionHash: "0x1"}
	if err := s.AppendReceipt(ctx, r); err != nil {
		t.Fatal(err)
	}
	r.TransactionHash = "0x2"
	if err := s.AppendReceipt(ctx, r); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetReceipt(ctx, "r1")
	if err != nil {
		t.Fatal(err)
	}
	if got.TransactionHash != "0x1" {
		t.Errorf("Expected the first write to stick, got %s", got.TransactionHash)
	}
	if _, err := s.GetReceipt(ctx, "missing"); !errors.Is(err, ErrReceiptNotFound) {
		t.Errorf("Expected ErrReceiptNotFound, got %v", err)
	}
}

func TestMemoryStoreListNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		s.AppendReceipt(ctx, Receipt{ID: id, Wallet: "0xabc", ConfirmedAt: base.Add(time.Duration(i) * time.Hour)})
	}
	s.AppendReceipt(ctx, Receipt{ID: "other", Wallet: "0xdef", ConfirmedAt: base})

	got, err := s.ListReceipts(ctx, "0xABC", 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "c" || got[1].ID != "b" {
		t.Errorf("Expected c, b got %+v", got)
	}
	rest, _ := s.ListReceipts(ctx, "0xabc", 10, 2)
	if len(rest) != 1 || rest[0].ID != "a" {
		t.Errorf("Expected a, got %+v", rest)
	}
	if none, _ := s.ListReceipts(ctx, "0xabc", 10, 9); none != nil {
		t.Errorf("Expected nothing past the end, got %+v", none)
	}
}

func TestMemoryStoreHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewMemoryStore().AppendReceipt(ctx, Receipt{ID: "x"}); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
