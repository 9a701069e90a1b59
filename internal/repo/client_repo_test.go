package repo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mvbarros/go-order-backend/internal/domain"
)

// test DB helper
func newRepoDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("repo_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func TestCreateClient_DefaultsName(t *testing.T) {
	db := newRepoDB(t, &domain.Client{})
	ctx := context.Background()

	c, err := CreateClient(ctx, db, "+5511988887777", "")
	if err != nil {
		t.Fatalf("CreateClient error: %v", err)
	}
	if c.ID == "" || c.Phone != "+5511988887777" {
		t.Fatalf("unexpected client: %+v", c)
	}
	if c.Name != domain.DefaultClientName {
		t.Fatalf("expected placeholder name, got %q", c.Name)
	}
	if c.CreatedAt.IsZero() || time.Since(c.CreatedAt) > time.Minute {
		t.Fatalf("CreatedAt not set reasonably: %v", c.CreatedAt)
	}
}

func TestGetClientByPhone_FoundAndNotFound(t *testing.T) {
	db := newRepoDB(t, &domain.Client{})
	ctx := context.Background()

	if _, err := GetClientByPhone(ctx, db, "+000"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if _, err := CreateClient(ctx, db, "+5511900001111", "Ana"); err != nil {
		t.Fatalf("seed client: %v", err)
	}
	got, err := GetClientByPhone(ctx, db, "+5511900001111")
	if err != nil {
		t.Fatalf("GetClientByPhone error: %v", err)
	}
	if got.Name != "Ana" {
		t.Fatalf("unexpected client: %+v", got)
	}
}

func TestFindOrCreateClient_CreatesOnce(t *testing.T) {
	db := newRepoDB(t, &domain.Client{})
	ctx := context.Background()

	first, err := FindOrCreateClient(ctx, db, "+5511911112222", "")
	if err != nil {
		t.Fatalf("FindOrCreateClient (create): %v", err)
	}
	second, err := FindOrCreateClient(ctx, db, "+5511911112222", "")
	if err != nil {
		t.Fatalf("FindOrCreateClient (find): %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same client, got %q and %q", first.ID, second.ID)
	}

	var cnt int64
	if err := db.Model(&domain.Client{}).Count(&cnt).Error; err != nil {
		t.Fatalf("count clients: %v", err)
	}
	if cnt != 1 {
		t.Fatalf("expected a single client row, got %d", cnt)
	}
}

func TestFindOrCreateClient_FillsPlaceholderName(t *testing.T) {
	db := newRepoDB(t, &domain.Client{})
	ctx := context.Background()

	if _, err := CreateClient(ctx, db, "+5511933334444", ""); err != nil {
		t.Fatalf("seed client: %v", err)
	}

	c, err := FindOrCreateClient(ctx, db, "+5511933334444", "Carlos Silva")
	if err != nil {
		t.Fatalf("FindOrCreateClient error: %v", err)
	}
	if c.Name != "Carlos Silva" {
		t.Fatalf("expected name to be filled, got %q", c.Name)
	}

	// a known name is not overwritten by a later extraction
	c2, err := FindOrCreateClient(ctx, db, "+5511933334444", "Outro Nome")
	if err != nil {
		t.Fatalf("FindOrCreateClient error: %v", err)
	}
	if c2.Name != "Carlos Silva" {
		t.Fatalf("expected existing name to stick, got %q", c2.Name)
	}
}

func TestCreateClient_UniquePhone(t *testing.T) {
	db := newRepoDB(t, &domain.Client{})
	ctx := context.Background()

	if _, err := CreateClient(ctx, db, "+5511955556666", "A"); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := CreateClient(ctx, db, "+5511955556666", "B"); err == nil {
		t.Fatalf("expected unique violation on duplicate phone")
	}
}
