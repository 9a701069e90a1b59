// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Order,
// OrderItem, and Payment models.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mvbarros/go-order-backend/internal/domain"
)

// CreateOrder inserts a new order row. The caller supplies every business
// field; the ID and timestamp are generated here.
func CreateOrder(ctx context.Context, db *gorm.DB, o *domain.Order) (*domain.Order, error) {
	o.ID = uuid.NewString()
	o.CreatedAt = time.Now().UTC()
	if o.Status == "" {
		o.Status = domain.StatusPending
	}
	if err := db.WithContext(ctx).Create(o).Error; err != nil {
		return nil, err
	}
	return o, nil
}

// CreateOrderItem inserts one line item for orderID.
func CreateOrderItem(ctx context.Context, db *gorm.DB, orderID string, it *domain.OrderItem) (*domain.OrderItem, error) {
	it.ID = uuid.NewString()
	it.OrderID = orderID
	it.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(it).Error; err != nil {
		return nil, err
	}
	return it, nil
}

// CreatePayment inserts the pending payment placeholder for orderID.
func CreatePayment(ctx context.Context, db *gorm.DB, orderID, method string) (*domain.Payment, error) {
	p := &domain.Payment{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		Status:    domain.StatusPending,
		Method:    method,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// GetOrder fetches an order by ID with items and payment preloaded,
// or ErrNotFound.
func GetOrder(ctx context.Context, db *gorm.DB, id string) (*domain.Order, error) {
	var o domain.Order
	err := db.WithContext(ctx).
		Preload("Items").
		Preload("Payment").
		Where("id = ?", id).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ListOrdersPage returns a paginated slice of a client's orders, most recent
// first. Use CountOrders for pagination metadata.
func ListOrdersPage(ctx context.Context, db *gorm.DB, clientID string, offset, limit int) ([]domain.Order, error) {
	var out []domain.Order
	err := db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountOrders returns the total number of orders for clientID.
func CountOrders(ctx context.Context, db *gorm.DB, clientID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("client_id = ?", clientID).
		Count(&total).Error
	return total, err
}

// GetPaymentByExternalRef fetches a payment by its gateway reference,
// or ErrNotFound.
func GetPaymentByExternalRef(ctx context.Context, db *gorm.DB, ref string) (*domain.Payment, error) {
	var p domain.Payment
	if err := db.WithContext(ctx).Where("external_id = ?", ref).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// SetPaymentExternalRef records the gateway transaction reference on the
// order's payment. Returns ErrNotFound when the order has no payment row.
func SetPaymentExternalRef(ctx context.Context, db *gorm.DB, orderID, ref string) error {
	res := db.WithContext(ctx).
		Model(&domain.Payment{}).
		Where("order_id = ?", orderID).
		Update("external_id", ref)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdatePaymentStatus transitions a payment and stamps the notification
// metadata. Returns ErrNotFound when the payment does not exist.
func UpdatePaymentStatus(ctx context.Context, db *gorm.DB, paymentID, status string, notifiedAt time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.Payment{}).
		Where("id = ?", paymentID).
		Updates(map[string]any{
			"status":           status,
			"notified":         true,
			"last_notified_at": notifiedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkOrderPaid flips the order status to paid. Returns ErrNotFound when the
// order does not exist.
func MarkOrderPaid(ctx context.Context, db *gorm.DB, orderID string) error {
	res := db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", orderID).
		Update("status", domain.StatusPaid)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
