// Order and payment HTTP handlers.
//
// This file exposes REST endpoints for persisted orders:
//   - GET  /orders/{id}         (fetch an order with items and payment)
//   - POST /orders/{id}/charge  (register a checkout with the gateway)
//   - POST /payments/webhook    (apply a gateway payment notification)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mvbarros/go-order-backend/internal/payments"
	"github.com/mvbarros/go-order-backend/internal/services"
)

// GetOrder godoc
// @ID          getOrder
// @Summary     Fetch an order
// @Description Returns the order with its line items and payment record.
// @Tags        Orders
// @Produce     json
//
// @Param       id  path  string  true  "Order ID (UUID)"  format(uuid)
//
// @Success     200  {object} handlers.DataResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Order not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /orders/{id} [get]
func (h *Handlers) GetOrder(c *gin.Context) {
	ctx := c.Request.Context()
	orderID := c.Param("id")

	if _, err := uuid.Parse(orderID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "order id must be a UUID")
		return
	}

	order, err := h.orderSvc.Get(ctx, orderID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "order not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	ok(c, http.StatusOK, order)
}

// CreateCharge godoc
// @ID          createCharge
// @Summary     Create a checkout charge for an order
// @Description Registers the order with the payment gateway. PIX orders return
// @Description the QR code payload; any other payment method returns the hosted
// @Description checkout link.
// @Tags        Payments
// @Produce     json
//
// @Param       id  path  string  true  "Order ID (UUID)"  format(uuid)
//
// @Success     200  {object} handlers.DataResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Order not found"
// @Failure     502  {object} handlers.ErrorResponse "Gateway failure"
// @Router      /orders/{id}/charge [post]
func (h *Handlers) CreateCharge(c *gin.Context) {
	ctx := c.Request.Context()
	orderID := c.Param("id")

	if _, err := uuid.Parse(orderID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "order id must be a UUID")
		return
	}

	charge, err := h.paySvc.CreateChargeForOrder(ctx, orderID)
	if err != nil {
		var ge *payments.GatewayError
		switch {
		case errors.Is(err, payments.ErrOrderNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "order not found")
		case errors.As(err, &ge):
			fail(c, http.StatusBadGateway, ErrCodeUpstreamFailure, "payment gateway request failed")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	ok(c, http.StatusOK, charge)
}

// PaymentWebhook godoc
// @ID          paymentWebhook
// @Summary     Apply a payment gateway notification
// @Description Records the gateway status on the matching payment and marks the
// @Description order paid when the status is terminal (approved/completed).
// @Description Notifications are safe to retry.
// @Tags        Payments
// @Accept      json
// @Produce     json
//
// @Param       body  body  payments.Notification  true  "Gateway notification payload"
//
// @Success     204  "Notification applied"
// @Failure     400  {object} handlers.ErrorResponse "Invalid notification"
// @Failure     404  {object} handlers.ErrorResponse "Unknown payment reference"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /payments/webhook [post]
func (h *Handlers) PaymentWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	var n payments.Notification
	if err := c.ShouldBindJSON(&n); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "external_reference and status required")
		return
	}

	if err := h.paySvc.ProcessNotification(ctx, n); err != nil {
		switch {
		case errors.Is(err, payments.ErrInvalidNotification):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "external_reference and status required")
		case errors.Is(err, payments.ErrPaymentNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "no payment matches the reference")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeWebhookFailed, err.Error())
		}
		return
	}

	noContent(c)
}
