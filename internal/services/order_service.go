// Package services – OrderService
//
// This file implements the structured extraction flow: build the extraction
// prompt, ask the model, parse the positional response, validate the
// required fields, and persist the order atomically (order, line items, and
// the pending payment placeholder in one transaction).
package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mvbarros/go-order-backend/internal/domain"
	"github.com/mvbarros/go-order-backend/internal/repo"
)

// orderPhoneRE accepts an optional leading + followed by digits only.
var orderPhoneRE = regexp.MustCompile(`^\+?\d+$`)

// OrderCreatedMessage is the user-facing confirmation for a persisted order.
const OrderCreatedMessage = "Pedido processado e salvo com sucesso."

// OrderResult reports a successfully committed order.
type OrderResult struct {
	OrderID string `json:"order_id"`
	Message string `json:"message"`
}

// OrderService turns order-like messages into persisted orders.
type OrderService struct {
	DB  *gorm.DB
	LLM Completer
}

// ProcessMessage runs the whole extraction pipeline for one message: prompt,
// completion, parse, validate, commit. channelPhone is the sender identity
// from the transport and decides which client owns the order; the phone the
// model extracted is only validated, never trusted for identity.
func (s *OrderService) ProcessMessage(ctx context.Context, channelPhone, message string) (*OrderResult, error) {
	tr := otel.Tracer("services/OrderService")
	ctx, span := tr.Start(ctx, "ProcessMessage",
		trace.WithAttributes(attribute.String("client.phone.hash", hashTag(channelPhone))),
	)
	defer span.End()

	raw, err := s.LLM.Complete(ctx, BuildOrderPrompt(message))
	if err != nil {
		return nil, err
	}

	ext, err := ParseOrderReply(raw)
	if err != nil {
		return nil, err
	}

	return s.Commit(ctx, channelPhone, ext)
}

// Commit validates an extraction and persists it atomically.
//
// Required field gates run in positional order and fail with the user-facing
// field name of the first absence. The persisted total is recomputed from
// the line items plus the delivery fee; the model's claimed total is ignored.
func (s *OrderService) Commit(ctx context.Context, channelPhone string, ext *domain.OrderExtraction) (*OrderResult, error) {
	tr := otel.Tracer("services/OrderService")
	ctx, span := tr.Start(ctx, "Commit")
	defer span.End()

	if err := validateExtraction(ext); err != nil {
		return nil, err
	}

	client, err := repo.FindOrCreateClient(ctx, s.DB, channelPhone, normalizeClientName(ext.CustomerName))
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, it := range ext.Items {
		total = total.Add(it.LineTotal)
	}
	total = total.Add(ext.DeliveryFee)
	if total.IsNegative() {
		total = decimal.Zero
	}

	var orderID string
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fee, _ := ext.DeliveryFee.Round(2).Float64()
		tot, _ := total.Round(2).Float64()
		order, err := repo.CreateOrder(ctx, tx, &domain.Order{
			ClientID:      client.ID,
			Number:        ext.Number,
			Status:        domain.StatusPending,
			Total:         tot,
			DeliveryDate:  ext.DeliveryDate,
			Address:       ext.Address,
			PaymentMethod: ext.PaymentMethod,
			DeliveryFee:   fee,
		})
		if err != nil {
			return err
		}
		for i := range ext.Items {
			it := ext.Items[i]
			unit, _ := it.UnitPrice.Round(2).Float64()
			line, _ := it.LineTotal.Round(2).Float64()
			if _, err := repo.CreateOrderItem(ctx, tx, order.ID, &domain.OrderItem{
				ProductName: it.ProductName,
				Description: it.Description,
				Quantity:    it.Quantity,
				UnitPrice:   unit,
				LineTotal:   line,
			}); err != nil {
				return err
			}
		}
		if _, err := repo.CreatePayment(ctx, tx, order.ID, ext.PaymentMethod); err != nil {
			return err
		}
		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("order.id", orderID))
	return &OrderResult{OrderID: orderID, Message: OrderCreatedMessage}, nil
}

// Get returns an order with items and payment, or ErrOrderNotFound.
func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	tr := otel.Tracer("services/OrderService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(attribute.String("order.id", id)),
	)
	defer span.End()

	o, err := repo.GetOrder(ctx, s.DB, id)
	if err == repo.ErrNotFound {
		return nil, ErrOrderNotFound
	}
	return o, err
}

// validateExtraction enforces the required field gates in positional order.
// The money fields always carry a value after parsing, so absence reduces to
// the string and item fields.
func validateExtraction(ext *domain.OrderExtraction) error {
	gates := []struct {
		field string
		empty bool
	}{
		{"numero_pedido", ext.Number == ""},
		{"nome_cliente", ext.CustomerName == ""},
		{"telefone", ext.Phone == ""},
		{"itens", len(ext.Items) == 0},
		{"data_entrega", ext.DeliveryDate == ""},
		{"endereco", ext.Address == ""},
		{"forma_pagamento", ext.PaymentMethod == ""},
	}
	for _, g := range gates {
		if g.empty {
			return &IncompleteOrderError{Field: g.field}
		}
	}
	if !orderPhoneRE.MatchString(ext.Phone) {
		return &IncompleteOrderError{Field: "telefone"}
	}
	return nil
}

// normalizeClientName title-cases an extracted customer name with pt-BR
// rules. The placeholder passes through untouched.
func normalizeClientName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" || name == domain.DefaultClientName {
		return name
	}
	return cases.Title(language.BrazilianPortuguese).String(strings.ToLower(name))
}

// hashTag derives a short non-reversible tag for span attributes so raw
// phone numbers stay out of telemetry.
func hashTag(s string) string {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	const hex = "0123456789abcdef"
	out := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		out[i] = hex[h&0xf]
		h >>= 4
	}
	return string(out)
}
