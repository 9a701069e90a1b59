// Message intake HTTP handlers.
//
// This file exposes the REST endpoint for inbound channel messages:
//   - POST /messages/receive  (classify, extract or reply, persist)
//
// Handlers are transport-thin:
//   - validate & normalize inputs (sender phone shape and length constraints)
//   - delegate to application services (MessageService)
//   - implement idempotency semantics for safe retries
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous successful
// result exists for (from, key), the handler returns that recorded result and
// sets `Idempotency-Replayed: true`.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/mvbarros/go-order-backend/internal/delivery"
	"github.com/mvbarros/go-order-backend/internal/domain"
	"github.com/mvbarros/go-order-backend/internal/http/middleware"
	"github.com/mvbarros/go-order-backend/internal/llm"
	"github.com/mvbarros/go-order-backend/internal/payments"
	"github.com/mvbarros/go-order-backend/internal/repo"
	"github.com/mvbarros/go-order-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// IntakeService defines inbound-message processing consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type IntakeService interface {
	// Handle validates one inbound message and routes it to the order
	// extraction flow or the conversational flow.
	Handle(ctx context.Context, phone, message string) (*services.IntakeResult, error)
}

// HistoryService defines conversation history retrieval operations.
type HistoryService interface {
	// HistoryPage returns a page of conversations for a client and the total count.
	HistoryPage(ctx context.Context, clientID string, page, pageSize int) ([]domain.Conversation, int64, error)
}

// OrderReader defines order retrieval operations consumed by HTTP handlers.
type OrderReader interface {
	// Get loads an order with its items and payment.
	Get(ctx context.Context, id string) (*domain.Order, error)
}

// PaymentService creates checkout charges and applies asynchronous payment
// gateway notifications.
type PaymentService interface {
	// CreateChargeForOrder registers a checkout with the gateway for the
	// given order and returns the QR code payload or payment link.
	CreateChargeForOrder(ctx context.Context, orderID string) (*payments.Charge, error)
	// ProcessNotification records the gateway status and settles the order
	// when the payment reached a terminal approved state.
	ProcessNotification(ctx context.Context, n payments.Notification) error
}

// DeliveryEstimator computes route-based delivery estimates.
type DeliveryEstimator interface {
	// Estimate resolves the route from origin to destination and derives
	// distance, duration, and the delivery fee.
	Estimate(ctx context.Context, origin, destination delivery.Point) (*delivery.Estimate, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for message intake, history, orders,
// payments, and delivery estimates. It depends on abstract service
// interfaces to keep transport concerns separate from business logic.
type Handlers struct {
	intakeSvc   IntakeService
	historySvc  HistoryService
	orderSvc    OrderReader
	paySvc      PaymentService
	deliverySvc DeliveryEstimator
}

// New constructs and returns a Handlers instance bound to the given services.
func New(intakeSvc IntakeService, historySvc HistoryService, orderSvc OrderReader, paySvc PaymentService, deliverySvc DeliveryEstimator) *Handlers {
	return &Handlers{
		intakeSvc:   intakeSvc,
		historySvc:  historySvc,
		orderSvc:    orderSvc,
		paySvc:      paySvc,
		deliverySvc: deliverySvc,
	}
}

//
// DTOs
//

// ReceiveMessageRequest is the JSON payload for an inbound channel message.
type ReceiveMessageRequest struct {
	// Message is the raw text the customer sent. It must be non-empty.
	Message string `json:"message" binding:"required,min=1" example:"*NÚMERO DO PEDIDO* 1042 ..."`
	// From is the sender phone in international format.
	From string `json:"from" binding:"required,min=1" example:"+5511999990000"`
}

//
// Helpers
//

// fromRE validates the sender phone shape: optional leading +, digits only.
var fromRE = regexp.MustCompile(`^\+?\d+$`)

// discoverMaxMessageRunes inspects the concrete MessageService for a configured
// message-length limit. If unavailable, it returns a conservative fallback.
func discoverMaxMessageRunes(svc IntakeService) int {
	const fallback = 1000
	if ms, ok := svc.(*services.MessageService); ok {
		if ms.MaxMessageRunes > 0 {
			return ms.MaxMessageRunes
		}
	}
	return fallback
}

// idempotencyKey extracts an idempotency key if an upstream middleware has
// already validated/stashed it. The fallback behavior reads the
// "Idempotency-Key" header directly when no dedicated middleware exists.
func idempotencyKey(c *gin.Context) (string, bool) {
	if key, ok := middleware.GetIdempotencyKey(c); ok {
		return key, true
	}
	if v := strings.TrimSpace(c.GetHeader(middleware.HeaderIdempotencyKey)); v != "" {
		return v, true
	}
	return "", false
}

//
// Handlers
//

// ReceiveMessage godoc
// @ID          receiveMessage
// @Summary     Process an inbound channel message
// @Description Classifies the message as an order or a chat turn. Order messages are
// @Description extracted into a structured order and persisted; chat messages yield a
// @Description generated reply split into channel-sized chunks.
// @Description Supports idempotency via the Idempotency-Key header (same key → same result).
// @Tags        Messages
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    handlers.ReceiveMessageRequest  true  "Inbound message payload"
//
// @Success     200  {object}  handlers.DataResponse   "Intake result"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     422  {object}  handlers.ErrorResponse  "Incomplete order"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Failure     502  {object}  handlers.ErrorResponse  "Upstream model failure"
// @Router      /messages/receive [post]
func (h *Handlers) ReceiveMessage(c *gin.Context) {
	ctx := c.Request.Context()

	var req ReceiveMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message and from required")
		return
	}

	from := strings.TrimSpace(req.From)
	if !fromRE.MatchString(from) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "from must be digits with an optional leading +")
		return
	}

	// Early size cap to fail fast at the edge (service has a second guard).
	message := strings.TrimSpace(req.Message)
	maxRunes := discoverMaxMessageRunes(h.intakeSvc)
	if maxRunes > 0 && utf8.RuneCountInString(message) > maxRunes {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, fmt.Sprintf("message too long: max %d runes", maxRunes))
		return
	}
	if message == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message required")
		return
	}

	// Idempotency (replay path) – read validated key if present.
	idemKey, _ := idempotencyKey(c)
	if idemKey != "" {
		if svc, okSvc := h.intakeSvc.(*services.MessageService); okSvc && svc.DB != nil {
			if rec, err := repo.GetIdempotency(ctx, svc.DB, from, idemKey, time.Now().UTC()); err == nil && rec != nil {
				var prev services.IntakeResult
				if err2 := json.Unmarshal([]byte(rec.Body), &prev); err2 == nil {
					c.Header("Idempotency-Replayed", "true")
					ok(c, rec.Status, &prev)
					return
				}
			}
		}
	}

	res, err := h.intakeSvc.Handle(ctx, from, message)
	if err != nil {
		writeIntakeError(c, err, maxRunes)
		return
	}

	// Idempotency (store path) – best effort.
	if idemKey != "" {
		if svc, okSvc := h.intakeSvc.(*services.MessageService); okSvc && svc.DB != nil {
			if body, err2 := json.Marshal(res); err2 == nil {
				ttl := 24 * time.Hour
				_, _ = repo.CreateIdempotency(ctx, svc.DB, from, idemKey, string(body), http.StatusOK, ttl)
			}
		}
	}

	ok(c, http.StatusOK, res)
}

// writeIntakeError translates intake pipeline errors into HTTP responses.
//
// Validation failures map to 400, extraction gaps to 422 with a resend
// instruction for the customer, and model transport failures to 502 so
// callers can distinguish retryable upstream trouble from bad input.
func writeIntakeError(c *gin.Context, err error, maxRunes int) {
	var incomplete *services.IncompleteOrderError
	var upstream *llm.UpstreamError

	switch {
	case errors.Is(err, services.ErrEmptyMessage):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message required")
	case errors.Is(err, services.ErrTooLong):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, fmt.Sprintf("message too long: max %d runes", maxRunes))
	case errors.Is(err, services.ErrInvalidPhone):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "from must be digits with an optional leading +")
	case errors.As(err, &incomplete):
		fail(c, http.StatusUnprocessableEntity, ErrCodeIncompleteOrder,
			fmt.Sprintf("Dados do pedido incompletos: campo '%s' está ausente ou vazio. Por favor, reenvie o pedido com todos os dados.", incomplete.Field))
	case errors.Is(err, services.ErrUnparseableResponse):
		fail(c, http.StatusBadGateway, ErrCodeUnparseable, "model returned an unparseable order payload")
	case errors.As(err, &upstream):
		fail(c, http.StatusBadGateway, ErrCodeUpstreamFailure, "language model request failed")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}
