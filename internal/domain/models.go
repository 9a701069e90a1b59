// Package domain defines the persistence models for clients, orders, order
// items, payments, and conversation history. These types are mapped with GORM
// and form the core data layer of the ordering backend.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Order and payment lifecycle states.
const (
	StatusPending  = "pending"
	StatusPaid     = "paid"
	StatusFinished = "finished"
)

// Client represents a customer identified uniquely by phone number. Clients
// are created lazily the first time a phone number is seen; the name starts
// as a placeholder and is filled in when an order carries a customer name.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Phone: normalized phone number; unique across clients.
//   - Name: customer display name ("Desconhecido" until known).
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker (retains row for audit/history).
type Client struct {
	ID        string         `json:"id"    gorm:"type:char(36);primaryKey"`
	Phone     string         `json:"phone" gorm:"type:varchar(32);not null;uniqueIndex:ux_client_phone"`
	Name      string         `json:"name"  gorm:"type:varchar(255);not null;default:'Desconhecido'"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"     gorm:"index"`
}

// TableName returns the database table name for Client.
func (Client) TableName() string { return "clients" }

// Order represents a purchase order extracted from a client message. Each
// order belongs to exactly one client, owns its line items, and carries at
// most one payment record.
//
// Total is the computed order value: sum of item line totals plus the
// delivery fee, minus discount and cashback, never negative. The value
// claimed by the language model is recomputed before persistence.
type Order struct {
	ID            string         `json:"id"             gorm:"type:char(36);primaryKey"`
	ClientID      string         `json:"client_id"      gorm:"type:char(36);not null;index:idx_client_orders"`
	Number        string         `json:"number"         gorm:"type:varchar(64);not null"`
	Status        string         `json:"status"         gorm:"type:varchar(16);not null;default:'pending';check:status IN ('pending','paid','finished')"`
	Total         float64        `json:"total"          gorm:"not null"`
	DeliveryDate  string         `json:"delivery_date"  gorm:"type:varchar(64)"`
	Address       string         `json:"address"        gorm:"type:varchar(255)"`
	PaymentMethod string         `json:"payment_method" gorm:"type:varchar(32)"`
	DeliveryFee   float64        `json:"delivery_fee"`
	Discount      float64        `json:"discount"`
	CashbackUsed  float64        `json:"cashback_used"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-"              gorm:"index"`

	// Client is the owning customer.
	Client Client `json:"-" gorm:"foreignKey:ClientID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	// Items are the order line items, cascade-deleted with the order.
	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`

	// Payment is the single payment record for the order, if any.
	Payment *Payment `json:"payment,omitempty" gorm:"foreignKey:OrderID"`
}

// TableName returns the database table name for Order.
func (Order) TableName() string { return "orders" }

// FinalTotal computes the order value from its loaded items: sum of line
// totals plus delivery fee, minus discount and cashback, clamped to zero.
func (o *Order) FinalTotal() float64 {
	sum := 0.0
	for _, it := range o.Items {
		sum += it.LineTotal
	}
	total := sum + o.DeliveryFee - o.Discount - o.CashbackUsed
	if total < 0 {
		return 0
	}
	return total
}

// Overdue reports whether an unfinished order is past its delivery time.
// Orders with an unparseable delivery date are never considered overdue.
func (o *Order) Overdue(now time.Time) bool {
	if o.Status == StatusFinished {
		return false
	}
	due, err := time.Parse(time.RFC3339, o.DeliveryDate)
	if err != nil {
		return false
	}
	return now.After(due)
}

// OrderItem represents a single line item within an order.
//
// Invariant: LineTotal == Quantity * UnitPrice (within rounding tolerance)
// when produced by the extraction parser.
type OrderItem struct {
	ID          string         `json:"id"           gorm:"type:char(36);primaryKey"`
	OrderID     string         `json:"order_id"     gorm:"type:char(36);not null;index:idx_order_items"`
	ProductName string         `json:"product_name" gorm:"type:varchar(255);not null"`
	Description string         `json:"description"  gorm:"type:varchar(255)"`
	Quantity    int            `json:"quantity"     gorm:"not null;check:quantity > 0"`
	UnitPrice   float64        `json:"unit_price"   gorm:"not null"`
	LineTotal   float64        `json:"line_total"   gorm:"not null"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-"            gorm:"index"`

	// Order is the parent order. Items are cascade-deleted with it.
	Order Order `json:"-" gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for OrderItem.
func (OrderItem) TableName() string { return "order_items" }

// Payment represents the payment placeholder created alongside an order.
// It starts in the pending state with no external transaction reference;
// the gateway webhook fills in status transitions later.
type Payment struct {
	ID             string         `json:"id"          gorm:"type:char(36);primaryKey"`
	OrderID        string         `json:"order_id"    gorm:"type:char(36);not null;uniqueIndex:ux_payment_order"`
	ExternalID     *string        `json:"external_id" gorm:"type:varchar(128)"`
	Status         string         `json:"status"      gorm:"type:varchar(16);not null;default:'pending'"`
	Method         string         `json:"method"      gorm:"type:varchar(32)"`
	Notified       bool           `json:"notified"    gorm:"not null;default:false"`
	LastNotifiedAt *time.Time     `json:"last_notified_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-"           gorm:"index"`

	// Order is the paid-for order. The payment is cascade-deleted with it.
	Order Order `json:"-" gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Payment.
func (Payment) TableName() string { return "payments" }

// Conversation represents one durable conversational exchange: the inbound
// client message and the assistant reply produced for it. The in-memory
// context cache is the working set; these rows are the permanent log backing
// the history endpoint.
type Conversation struct {
	ID        string         `json:"id"        gorm:"type:char(36);primaryKey"`
	ClientID  string         `json:"client_id" gorm:"type:char(36);not null;index:idx_client_convs,priority:1"`
	Message   string         `json:"message"   gorm:"type:text;not null"`
	Reply     string         `json:"reply"     gorm:"type:text;not null"`
	CreatedAt time.Time      `json:"created_at" gorm:"index:idx_client_convs,priority:2"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"         gorm:"index"`

	// Client is the conversation owner. Rows are cascade-deleted with it.
	Client Client `json:"-" gorm:"foreignKey:ClientID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Conversation.
func (Conversation) TableName() string { return "conversations" }
