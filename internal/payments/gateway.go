// Package payments integrates with the external checkout gateway: creating
// a charge for a committed order and processing the status notifications the
// gateway posts back.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mvbarros/go-order-backend/internal/domain"
	"github.com/mvbarros/go-order-backend/internal/repo"
)

// Payment methods with dedicated checkout behavior.
const methodPix = "pix"

// Statuses the gateway reports that settle an order.
var settledStatuses = map[string]bool{
	"approved":  true,
	"completed": true,
}

var (
	// ErrInvalidNotification indicates a webhook payload missing the
	// external reference or status.
	ErrInvalidNotification = errors.New("invalid payment notification")

	// ErrPaymentNotFound indicates no payment matches the notification's
	// external reference.
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrOrderNotFound indicates no order exists for a checkout request.
	ErrOrderNotFound = errors.New("order not found")
)

// GatewayError reports a non-2xx response from the checkout gateway.
type GatewayError struct {
	Status int
	Body   string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway returned %d: %s", e.Status, e.Body)
}

// Charge is the outcome of creating a checkout: a PIX QR code payload or a
// hosted payment link, depending on the order's payment method.
type Charge struct {
	// Kind is "qr_code" for PIX charges, "link" otherwise.
	Kind string `json:"kind"`
	// Value is the QR code payload or the checkout URL.
	Value string `json:"value"`
	// ExternalID is the gateway's reference for the charge.
	ExternalID string `json:"external_id"`
}

// Notification is the webhook payload the gateway posts on status changes.
type Notification struct {
	ExternalReference string `json:"external_reference"`
	Status            string `json:"status"`
}

// Service talks to the checkout gateway and applies its notifications.
type Service struct {
	DB         *gorm.DB
	GatewayURL string
	Token      string
	HTTPClient *http.Client
}

func (s *Service) client() *http.Client {
	if s.HTTPClient != nil {
		return s.HTTPClient
	}
	return &http.Client{Timeout: 10 * time.Second}
}

// CreateCharge registers a checkout for the order with the gateway. PIX
// orders yield the QR code payload; any other method yields the hosted
// payment link. The gateway's charge ID is recorded on the order's payment
// row so later notifications can be matched.
func (s *Service) CreateCharge(ctx context.Context, order *domain.Order, client *domain.Client) (*Charge, error) {
	tr := otel.Tracer("payments/Service")
	ctx, span := tr.Start(ctx, "CreateCharge")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", order.ID))

	payload := map[string]any{
		"transaction_amount": order.Total,
		"description":        fmt.Sprintf("Pagamento do pedido #%s", order.ID),
		"external_reference": order.ID,
		"payer": map[string]any{
			"first_name": client.Name,
		},
	}
	if order.PaymentMethod == methodPix {
		payload["payment_method_id"] = methodPix
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.GatewayURL+"/checkout/preferences", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.Token)

	resp, err := s.client().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &GatewayError{Status: resp.StatusCode, Body: string(raw)}
	}

	var decoded struct {
		ID                 string `json:"id"`
		InitPoint          string `json:"init_point"`
		PointOfInteraction struct {
			TransactionData struct {
				QRCode string `json:"qr_code"`
			} `json:"transaction_data"`
		} `json:"point_of_interaction"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}

	charge := &Charge{Kind: "link", Value: decoded.InitPoint, ExternalID: decoded.ID}
	if order.PaymentMethod == methodPix {
		charge.Kind = "qr_code"
		charge.Value = decoded.PointOfInteraction.TransactionData.QRCode
	}

	if charge.ExternalID != "" {
		if err := repo.SetPaymentExternalRef(ctx, s.DB, order.ID, charge.ExternalID); err != nil {
			return nil, err
		}
	}
	return charge, nil
}

// CreateChargeForOrder loads the order and its owning client and registers
// the checkout with the gateway.
func (s *Service) CreateChargeForOrder(ctx context.Context, orderID string) (*Charge, error) {
	order, err := repo.GetOrder(ctx, s.DB, orderID)
	if err == repo.ErrNotFound {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	client, err := repo.GetClient(ctx, s.DB, order.ClientID)
	if err != nil {
		return nil, err
	}
	return s.CreateCharge(ctx, order, client)
}

// ProcessNotification applies one webhook notification: the payment row is
// matched by external reference (falling back to the order ID the charge was
// created with), its status and notification metadata are updated, and the
// order flips to paid when the gateway reports a settled status.
func (s *Service) ProcessNotification(ctx context.Context, n Notification) error {
	tr := otel.Tracer("payments/Service")
	ctx, span := tr.Start(ctx, "ProcessNotification")
	defer span.End()

	if n.ExternalReference == "" || n.Status == "" {
		return ErrInvalidNotification
	}
	span.SetAttributes(attribute.String("payment.status", n.Status))

	pay, err := repo.GetPaymentByExternalRef(ctx, s.DB, n.ExternalReference)
	if err == repo.ErrNotFound {
		// charges carry the order ID as external_reference
		var o *domain.Order
		if o, err = repo.GetOrder(ctx, s.DB, n.ExternalReference); err == nil {
			pay = o.Payment
		}
		if pay == nil {
			return ErrPaymentNotFound
		}
	} else if err != nil {
		return err
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.UpdatePaymentStatus(ctx, tx, pay.ID, n.Status, time.Now().UTC()); err != nil {
			return err
		}
		if settledStatuses[n.Status] {
			return repo.MarkOrderPaid(ctx, tx, pay.OrderID)
		}
		return nil
	})
}
