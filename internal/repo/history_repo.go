// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the durable
// Conversation log, plus the aggregate stats used for conditional responses
// (ETag generation) in the HTTP layer.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mvbarros/go-order-backend/internal/domain"
)

// CreateConversation inserts one exchange (inbound message + reply) for
// clientID.
func CreateConversation(ctx context.Context, db *gorm.DB, clientID, message, reply string) (*domain.Conversation, error) {
	c := &domain.Conversation{
		ID:        uuid.NewString(),
		ClientID:  clientID,
		Message:   message,
		Reply:     reply,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// ListConversationsPage returns a paginated slice ordered deterministically
// (CreatedAt ASC, ID ASC).
func ListConversationsPage(ctx context.Context, db *gorm.DB, clientID string, offset, limit int) ([]domain.Conversation, error) {
	var out []domain.Conversation
	err := db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountConversations returns the total number of exchanges for clientID.
func CountConversations(ctx context.Context, db *gorm.DB, clientID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("client_id = ?", clientID).
		Count(&total).Error
	return total, err
}

// ConversationsStats returns aggregate metadata for a client's history: the
// total number of rows and the maximum UpdatedAt timestamp among those rows.
// When the client has no history, the returned count is 0 and maxUpdatedAt
// is nil.
func ConversationsStats(ctx context.Context, db *gorm.DB, clientID string) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Conversation{}).Where("client_id = ?", clientID)

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
