package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mvbarros/go-order-backend/internal/domain"
)

func TestIdempotency_CreateThenGet(t *testing.T) {
	db := newRepoDB(t, &domain.Idempotency{})
	ctx := context.Background()

	rec, err := CreateIdempotency(ctx, db, "+5511", "k1", `{"data":{"type":"chat"}}`, 200, time.Hour)
	if err != nil {
		t.Fatalf("CreateIdempotency error: %v", err)
	}
	if rec.ID == "" || rec.Status != 200 {
		t.Fatalf("unexpected record: %+v", rec)
	}

	got, err := GetIdempotency(ctx, db, "+5511", "k1", time.Now().UTC())
	if err != nil {
		t.Fatalf("GetIdempotency error: %v", err)
	}
	if got.Body != rec.Body || got.Status != 200 {
		t.Fatalf("roundtrip mismatch: %+v vs %+v", got, rec)
	}
}

func TestIdempotency_ScopedByPhone(t *testing.T) {
	db := newRepoDB(t, &domain.Idempotency{})
	ctx := context.Background()

	if _, err := CreateIdempotency(ctx, db, "+1", "same-key", "a", 200, time.Hour); err != nil {
		t.Fatalf("create for +1: %v", err)
	}
	// distinct phones may reuse the key
	if _, err := CreateIdempotency(ctx, db, "+2", "same-key", "b", 200, time.Hour); err != nil {
		t.Fatalf("create for +2: %v", err)
	}
	// same (phone, key) is a duplicate
	if _, err := CreateIdempotency(ctx, db, "+1", "same-key", "c", 200, time.Hour); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestIdempotency_ExpiryAndEmptyKey(t *testing.T) {
	db := newRepoDB(t, &domain.Idempotency{})
	ctx := context.Background()

	if _, err := GetIdempotency(ctx, db, "+3", "  ", time.Now().UTC()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for blank key, got %v", err)
	}

	if _, err := CreateIdempotency(ctx, db, "+3", "kx", "body", 200, time.Millisecond); err != nil {
		t.Fatalf("create: %v", err)
	}
	// query "now" past the TTL
	if _, err := GetIdempotency(ctx, db, "+3", "kx", time.Now().UTC().Add(time.Minute)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired record to be invisible, got %v", err)
	}
}
