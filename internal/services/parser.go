// Package services – model response parsing
//
// This file turns raw model output into usable values: CleanReply normalizes
// conversational text for the delivery channel, and ParseOrderReply decodes
// the positional extraction array into a structured order.
package services

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mvbarros/go-order-backend/internal/domain"
)

var (
	htmlTagRE  = regexp.MustCompile(`<[^>]*>`)
	lineItemRE = regexp.MustCompile(`(\d+)x\s(.+?)\s-\s(.+?)\sR\$([\d,.]+)`)
)

// CleanReply normalizes a conversational model response: HTML tags, chunk
// delimiter tokens, and newlines are removed, and anything from the first
// markdown code fence onward is dropped. The result is trimmed prose.
//
// CleanReply is idempotent: cleaning an already clean reply is a no-op.
func CleanReply(reply string) string {
	out := htmlTagRE.ReplaceAllString(reply, "")
	out = strings.ReplaceAll(out, "&#", "")
	out = strings.ReplaceAll(out, "\n", "")
	if i := strings.Index(out, "```"); i >= 0 {
		out = out[:i]
	}
	return strings.TrimSpace(out)
}

// ParseOrderReply decodes the model's order-mode response into an
// OrderExtraction.
//
// The expected shape is a JSON array with nine positions: numero_pedido,
// nome_cliente, telefone, itens, data_entrega, endereco, forma_pagamento,
// taxa_entrega, total. Positions may arrive as strings or numbers; missing
// trailing positions default to empty strings and zero money values.
// Completeness is not checked here; the commit workflow owns the required
// field gates.
//
// Returns ErrUnparseableResponse when the payload is not a JSON array.
func ParseOrderReply(raw string) (*domain.OrderExtraction, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.Trim(cleaned, "`")
	cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, "json"))
	if cleaned == "" {
		return nil, ErrUnparseableResponse
	}

	var fields []any
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, ErrUnparseableResponse
	}

	at := func(i int) string {
		if i >= len(fields) || fields[i] == nil {
			return ""
		}
		switch v := fields[i].(type) {
		case string:
			return strings.TrimSpace(v)
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			return strconv.FormatBool(v)
		default:
			b, err := json.Marshal(v)
			if err != nil {
				return ""
			}
			return string(b)
		}
	}

	return &domain.OrderExtraction{
		Number:        at(0),
		CustomerName:  at(1),
		Phone:         at(2),
		Items:         ParseLineItems(at(3)),
		DeliveryDate:  at(4),
		Address:       at(5),
		PaymentMethod: at(6),
		DeliveryFee:   parseMoney(at(7)),
		Total:         parseMoney(at(8)),
	}, nil
}

// ParseLineItems extracts order lines from free text using the grammar
// "<qty>x <name> - <description> R$<price>". Prices accept a comma decimal
// separator. Segments that do not match the grammar are skipped; an input
// with no matches yields an empty slice, never an error.
func ParseLineItems(text string) []domain.LineItem {
	matches := lineItemRE.FindAllStringSubmatch(text, -1)
	items := make([]domain.LineItem, 0, len(matches))
	for _, m := range matches {
		qty, err := strconv.Atoi(m[1])
		if err != nil || qty <= 0 {
			continue
		}
		unit := parseMoney(m[4])
		items = append(items, domain.LineItem{
			Quantity:    qty,
			ProductName: strings.TrimSpace(m[2]),
			Description: strings.TrimSpace(m[3]),
			UnitPrice:   unit,
			LineTotal:   unit.Mul(decimal.NewFromInt(int64(qty))).Round(2),
		})
	}
	return items
}

// parseMoney converts a price string with either decimal separator into a
// decimal value. Unparseable input is worth zero, matching the lenient
// handling of model output elsewhere.
func parseMoney(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
