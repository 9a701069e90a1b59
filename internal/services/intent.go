// Package services – intent classification
//
// This file implements the keyword classifier that routes an inbound message
// to either the order-extraction flow or the conversational flow. The
// classifier is intentionally dumb: vocabulary, not the model, decides the
// route, so it is deterministic and free.
package services

import "strings"

// Intent is the detected purpose of an inbound message.
type Intent int

const (
	// IntentChat routes the message to the conversational reply flow.
	IntentChat Intent = iota
	// IntentOrder routes the message to the structured extraction flow.
	IntentOrder
)

// String implements fmt.Stringer for logging and span attributes.
func (i Intent) String() string {
	if i == IntentOrder {
		return "order"
	}
	return "chat"
}

// orderKeywords are the substrings that mark a message as order-like.
// Matching is case-insensitive over the raw message text.
var orderKeywords = []string{
	"pedido",
	"compra",
	"itens",
	"total",
	"*número do pedido*",
	"número do pedido",
}

// ClassifyIntent returns IntentOrder when the message contains any of the
// order vocabulary, IntentChat otherwise. An empty message is chat.
func ClassifyIntent(message string) Intent {
	low := strings.ToLower(message)
	for _, kw := range orderKeywords {
		if strings.Contains(low, kw) {
			return IntentOrder
		}
	}
	return IntentChat
}
