package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mvbarros/go-order-backend/internal/domain"
	"github.com/mvbarros/go-order-backend/internal/repo"
)

const extractionOK = `["1042", "maria souza", "+5511999990000", "2x Pizza - Calabresa R$30,00 1x Refrigerante - Lata R$6,50", "2025-07-01 19:00", "Rua das Flores, 10", "pix", "7,50", "74,00"]`

func TestProcessMessage_CommitsOrder(t *testing.T) {
	db := newSvcDB(t)
	fake := &fakeCompleter{reply: "```json\n" + extractionOK + "\n```"}
	svc := &OrderService{DB: db, LLM: fake}
	ctx := context.Background()

	res, err := svc.ProcessMessage(ctx, "+5511999990000", "*NÚMERO DO PEDIDO* 1042 ...")
	if err != nil {
		t.Fatalf("ProcessMessage error: %v", err)
	}
	if res.OrderID == "" || res.Message != OrderCreatedMessage {
		t.Fatalf("unexpected result: %+v", res)
	}

	got, err := repo.GetOrder(ctx, db, res.OrderID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if got.Number != "1042" || got.Status != domain.StatusPending {
		t.Fatalf("unexpected order: %+v", got)
	}
	// total recomputed from items + fee: 60 + 6.50 + 7.50
	if got.Total != 74 {
		t.Fatalf("expected recomputed total 74, got %v", got.Total)
	}
	if len(got.Items) != 2 {
		t.Fatalf("expected 2 items, got %+v", got.Items)
	}
	if got.Payment == nil || got.Payment.Status != domain.StatusPending || got.Payment.ExternalID != nil {
		t.Fatalf("expected pending payment placeholder, got %+v", got.Payment)
	}

	// client created from the channel phone with the extracted name, title-cased
	client, err := repo.GetClientByPhone(ctx, db, "+5511999990000")
	if err != nil {
		t.Fatalf("GetClientByPhone: %v", err)
	}
	if client.Name != "Maria Souza" {
		t.Fatalf("expected title-cased client name, got %q", client.Name)
	}
	if got.ClientID != client.ID {
		t.Fatalf("order must belong to the channel client")
	}
}

func TestProcessMessage_UnparseableExtraction(t *testing.T) {
	db := newSvcDB(t)
	fake := &fakeCompleter{reply: "desculpe, não entendi o pedido"}
	svc := &OrderService{DB: db, LLM: fake}

	_, err := svc.ProcessMessage(context.Background(), "+551", "pedido confuso")
	if !errors.Is(err, ErrUnparseableResponse) {
		t.Fatalf("expected ErrUnparseableResponse, got %v", err)
	}

	// nothing persisted
	var cnt int64
	if err := db.Model(&domain.Order{}).Count(&cnt).Error; err != nil || cnt != 0 {
		t.Fatalf("expected no orders, cnt=%d err=%v", cnt, err)
	}
}

func TestCommit_MissingFieldNamesIt(t *testing.T) {
	db := newSvcDB(t)
	svc := &OrderService{DB: db, LLM: &fakeCompleter{}}

	cases := []struct {
		name  string
		mut   func(*domain.OrderExtraction)
		field string
	}{
		{"number", func(e *domain.OrderExtraction) { e.Number = "" }, "numero_pedido"},
		{"customer", func(e *domain.OrderExtraction) { e.CustomerName = "" }, "nome_cliente"},
		{"phone", func(e *domain.OrderExtraction) { e.Phone = "" }, "telefone"},
		{"items", func(e *domain.OrderExtraction) { e.Items = nil }, "itens"},
		{"date", func(e *domain.OrderExtraction) { e.DeliveryDate = "" }, "data_entrega"},
		{"address", func(e *domain.OrderExtraction) { e.Address = "" }, "endereco"},
		{"payment", func(e *domain.OrderExtraction) { e.PaymentMethod = "" }, "forma_pagamento"},
		{"bad phone", func(e *domain.OrderExtraction) { e.Phone = "onze 9999" }, "telefone"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ext := completeExtraction()
			tc.mut(ext)

			_, err := svc.Commit(context.Background(), "+551", ext)
			var ie *IncompleteOrderError
			if !errors.As(err, &ie) {
				t.Fatalf("expected IncompleteOrderError, got %v", err)
			}
			if ie.Field != tc.field {
				t.Fatalf("expected missing field %q, got %q", tc.field, ie.Field)
			}
		})
	}

	// no partial writes from any failed commit
	var cnt int64
	if err := db.Model(&domain.Order{}).Count(&cnt).Error; err != nil || cnt != 0 {
		t.Fatalf("expected no orders after failed commits, cnt=%d err=%v", cnt, err)
	}
}

func TestCommit_TotalClampedAtZero(t *testing.T) {
	db := newSvcDB(t)
	svc := &OrderService{DB: db, LLM: &fakeCompleter{}}

	ext := completeExtraction()
	ext.DeliveryFee = decimal.RequireFromString("-1000")

	res, err := svc.Commit(context.Background(), "+551", ext)
	if err != nil {
		t.Fatalf("Commit error: %v", err)
	}
	got, err := repo.GetOrder(context.Background(), db, res.OrderID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if got.Total != 0 {
		t.Fatalf("expected clamped total 0, got %v", got.Total)
	}
}

func TestGet_NotFound(t *testing.T) {
	db := newSvcDB(t)
	svc := &OrderService{DB: db, LLM: &fakeCompleter{}}
	if _, err := svc.Get(context.Background(), "nope"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestNormalizeClientName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"maria souza", "Maria Souza"},
		{"  JOÃO   DA  SILVA ", "João Da Silva"},
		{"", ""},
		{domain.DefaultClientName, domain.DefaultClientName},
	}
	for _, tc := range cases {
		if got := normalizeClientName(tc.in); got != tc.want {
			t.Fatalf("normalizeClientName(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func completeExtraction() *domain.OrderExtraction {
	return &domain.OrderExtraction{
		Number:       "1042",
		CustomerName: "maria souza",
		Phone:        "+5511999990000",
		Items: []domain.LineItem{{
			Quantity:    2,
			ProductName: "Pizza",
			Description: "Calabresa",
			UnitPrice:   decimal.RequireFromString("30.00"),
			LineTotal:   decimal.RequireFromString("60.00"),
		}},
		DeliveryDate:  "2025-07-01 19:00",
		Address:       "Rua das Flores, 10",
		PaymentMethod: "pix",
		DeliveryFee:   decimal.RequireFromString("7.50"),
		Total:         decimal.RequireFromString("67.50"),
	}
}
