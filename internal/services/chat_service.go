// Package services – ChatService
//
// This file implements the conversational flow: load the cached context,
// build the prompt, ask the model, normalize the reply, and record the
// exchange both in the context cache and the durable conversation log.
//
// Observability: public methods are OpenTelemetry-instrumented; spans carry
// the client identifier.
package services

import (
	"context"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mvbarros/go-order-backend/internal/domain"
	"github.com/mvbarros/go-order-backend/internal/llm"
	"github.com/mvbarros/go-order-backend/internal/repo"
)

// Completer abstracts the language model client so services can be tested
// with fakes.
type Completer interface {
	Complete(ctx context.Context, turns []domain.Turn) (string, error)
}

// ContextStore abstracts the in-memory conversation cache.
type ContextStore interface {
	Load(clientID string) []domain.Turn
	Append(clientID, message, reply string)
}

// ChatService produces conversational replies backed by the model and the
// per-client context cache.
type ChatService struct {
	DB      *gorm.DB
	LLM     Completer
	Context ContextStore

	// ReplyChunkSize bounds outbound chunks; <= 0 disables chunking.
	ReplyChunkSize int
}

// Reply generates the assistant reply for one inbound message.
//
// The cached history and the clean (unchunked) reply are what future prompts
// see; the returned string is the delivery form, chunked for the channel.
// The exchange is also appended to the durable conversation log.
func (s *ChatService) Reply(ctx context.Context, client *domain.Client, message string) (string, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "Reply",
		trace.WithAttributes(attribute.String("client.id", client.ID)),
	)
	defer span.End()

	history := s.Context.Load(client.ID)
	prompt := BuildChatPrompt(history, message)

	raw, err := s.LLM.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}

	reply := CleanReply(raw)
	if reply == "" {
		reply = llm.Placeholder
	}

	// Durable write first; a failed request must leave the cache untouched so
	// a retry does not double-append the turn to future prompts.
	if _, err := repo.CreateConversation(ctx, s.DB, client.ID, message, reply); err != nil {
		return "", err
	}
	s.Context.Append(client.ID, message, reply)

	return llm.FormatReply(reply, s.ReplyChunkSize), nil
}

// HistoryPage returns the durable conversation log for a client, paginated.
// Returns ErrClientNotFound when the client does not exist.
func (s *ChatService) HistoryPage(ctx context.Context, clientID string, page, pageSize int) ([]domain.Conversation, int64, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "HistoryPage",
		trace.WithAttributes(
			attribute.String("client.id", clientID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	if _, err := repo.GetClient(ctx, s.DB, clientID); err != nil {
		if err == repo.ErrNotFound {
			return nil, 0, ErrClientNotFound
		}
		return nil, 0, err
	}

	total, err := repo.CountConversations(ctx, s.DB, clientID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Conversation{}, 0, nil
	}

	items, err := repo.ListConversationsPage(ctx, s.DB, clientID, offset, pageSize)
	return items, total, err
}
