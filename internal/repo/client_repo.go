// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Client
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a client is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mvbarros/go-order-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// GetClientByPhone fetches a client by exact phone match, or ErrNotFound.
func GetClientByPhone(ctx context.Context, db *gorm.DB, phone string) (*domain.Client, error) {
	var c domain.Client
	if err := db.WithContext(ctx).Where("phone = ?", phone).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// GetClient fetches a client by ID, or ErrNotFound.
func GetClient(ctx context.Context, db *gorm.DB, id string) (*domain.Client, error) {
	var c domain.Client
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateClient inserts a new client row with UUID primary key. An empty name
// is replaced by the placeholder so listings never show a blank customer.
func CreateClient(ctx context.Context, db *gorm.DB, phone, name string) (*domain.Client, error) {
	if name == "" {
		name = domain.DefaultClientName
	}
	c := &domain.Client{
		ID:        uuid.NewString(),
		Phone:     phone,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// FindOrCreateClient returns the client for phone, creating it when missing.
// When the client exists with the placeholder name and a real name is now
// available, the name is updated in place.
func FindOrCreateClient(ctx context.Context, db *gorm.DB, phone, name string) (*domain.Client, error) {
	c, err := GetClientByPhone(ctx, db, phone)
	if err == gorm.ErrRecordNotFound {
		return CreateClient(ctx, db, phone, name)
	}
	if err != nil {
		return nil, err
	}
	if name != "" && name != domain.DefaultClientName && c.Name == domain.DefaultClientName {
		if err := db.WithContext(ctx).
			Model(&domain.Client{}).
			Where("id = ?", c.ID).
			Update("name", name).Error; err != nil {
			return nil, err
		}
		c.Name = name
	}
	return c, nil
}
