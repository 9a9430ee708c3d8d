package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/chittyapps/chittycharge/internal/domain"
	"github.com/chittyapps/chittycharge/internal/testutil"
)

func TestStore_HoldRecords(t *testing.T) {
	rdb := testutil.NewTestRedis(t)
	store := New(rdb, time.Hour)
	ctx := context.Background()

	record := domain.HoldRecord{
		ID:         testutil.TestKey("pi_123"),
		Amount:     10000,
		Currency:   "usd",
		Status:     "requires_capture",
		CreatedAt:  "2025-01-01T12:00:00.000Z",
		PropertyID: "prop-1",
	}

	if err := store.PutHold(ctx, record); err != nil {
		t.Fatalf("put hold: %v", err)
	}

	got, err := store.GetHold(ctx, record.ID)
	if err != nil {
		t.Fatalf("get hold: %v", err)
	}
	if got == nil {
		t.Fatal("expected record, got nil")
	}
	if *got != record {
		t.Fatalf("expected %+v, got %+v", record, *got)
	}

	ttl, err := rdb.TTL(ctx, record.ID).Result()
	if err != nil {
		t.Fatalf("ttl: %v", err)
	}
	if ttl <= 0 || ttl > time.Hour {
		t.Fatalf("expected bounded ttl, got %s", ttl)
	}
}

func TestStore_GetHold_Missing(t *testing.T) {
	rdb := testutil.NewTestRedis(t)
	store := New(rdb, time.Hour)

	got, err := store.GetHold(context.Background(), testutil.TestKey("pi_absent"))
	if err != nil {
		t.Fatalf("expected no error for missing hold, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil record, got %+v", got)
	}
}

func TestStore_Mappings(t *testing.T) {
	rdb := testutil.NewTestRedis(t)
	store := New(rdb, time.Hour)
	ctx := context.Background()

	chittyID := testutil.TestKey("CHITTY-AUTH-001")
	if err := store.PutMapping(ctx, chittyID, "pi_123"); err != nil {
		t.Fatalf("put mapping: %v", err)
	}

	got, err := store.GetMapping(ctx, chittyID)
	if err != nil {
		t.Fatalf("get mapping: %v", err)
	}
	if got != "pi_123" {
		t.Fatalf("expected pi_123, got %q", got)
	}

	missing, err := store.GetMapping(ctx, testutil.TestKey("CHITTY-AUTH-absent"))
	if err != nil {
		t.Fatalf("expected no error for missing mapping, got %v", err)
	}
	if missing != "" {
		t.Fatalf("expected empty mapping, got %q", missing)
	}
}
