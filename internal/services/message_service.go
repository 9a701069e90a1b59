// Package services – MessageService
//
// This file implements MessageService, the intake entry point. It validates
// the inbound message, resolves the sending client, classifies intent, and
// routes to either the order-extraction flow or the conversational flow.
//
// Observability: Handle is OpenTelemetry-instrumented; the span records the
// detected intent.
package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mvbarros/go-order-backend/internal/repo"
)

// Intake result types.
const (
	ResultTypeOrder = "order"
	ResultTypeChat  = "chat"
)

// IntakeResult is the outcome of handling one inbound message: an order
// confirmation or a conversational reply.
type IntakeResult struct {
	Type    string `json:"type"`
	OrderID string `json:"order_id,omitempty"`
	Message string `json:"message,omitempty"`
	Reply   string `json:"reply,omitempty"`
}

// ReplySender publishes outbound replies back to the message channel.
type ReplySender interface {
	SendReply(ctx context.Context, to, reply string) error
}

// MessageService routes inbound messages to the right flow.
type MessageService struct {
	DB     *gorm.DB
	Chat   *ChatService
	Orders *OrderService

	// Channel optionally mirrors the outcome back to the sender. Publish
	// failures are logged, never surfaced: the HTTP response already carries
	// the result.
	Channel ReplySender

	// MaxMessageRunes rejects oversized messages; <= 0 disables the check.
	MaxMessageRunes int
}

// Handle validates and processes one inbound message from phone.
//
// Error semantics: ErrEmptyMessage / ErrTooLong / ErrInvalidPhone for bad
// input; extraction and model failures propagate from the routed flow.
func (s *MessageService) Handle(ctx context.Context, phone, message string) (*IntakeResult, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Handle")
	defer span.End()

	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	if s.MaxMessageRunes > 0 && utf8.RuneCountInString(message) > s.MaxMessageRunes {
		return nil, ErrTooLong
	}
	if !orderPhoneRE.MatchString(phone) {
		return nil, ErrInvalidPhone
	}

	client, err := repo.FindOrCreateClient(ctx, s.DB, phone, "")
	if err != nil {
		return nil, err
	}

	intent := ClassifyIntent(message)
	span.SetAttributes(attribute.String("intent", intent.String()))

	if intent == IntentOrder {
		res, err := s.Orders.ProcessMessage(ctx, phone, message)
		if err != nil {
			return nil, err
		}
		s.publish(ctx, phone, res.Message)
		return &IntakeResult{Type: ResultTypeOrder, OrderID: res.OrderID, Message: res.Message}, nil
	}

	reply, err := s.Chat.Reply(ctx, client, message)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, phone, reply)
	return &IntakeResult{Type: ResultTypeChat, Reply: reply}, nil
}

// publish mirrors the outcome to the outbound channel, best effort.
func (s *MessageService) publish(ctx context.Context, to, reply string) {
	if s.Channel == nil || reply == "" {
		return
	}
	if err := s.Channel.SendReply(ctx, to, reply); err != nil {
		log.Warn().Err(err).Str("to", to).Msg("channel publish failed")
	}
}
