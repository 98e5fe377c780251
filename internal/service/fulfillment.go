package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"aecom-checkout/internal/model"
	"aecom-checkout/internal/repository"
)

// EventCheckoutCompleted is the only event type that triggers
// fulfillment; everything else is acknowledged and ignored.
const EventCheckoutCompleted = "checkout.session.completed"

// ErrNoResolvedItems means no line item of a completed session could be
// matched to a catalog variant. No order is created in that case.
var ErrNoResolvedItems = errors.New("no line items resolved to catalog variants")

// WebhookResult reports what a delivery produced. Handled is false for
// acknowledged-but-ignored event types.
type WebhookResult struct {
	Handled bool
	OrderID int
}

// StripeVerifier is the slice of the provider client the fulfillment
// workflow needs: the signature gate and the line-item page.
type StripeVerifier interface {
	VerifyWebhookSignature(signatureHeader string, body []byte) (*model.StripeEvent, error)
	ListLineItems(ctx context.Context, sessionID string) ([]*model.LineItem, error)
}

type FulfillmentService interface {
	// HandleWebhook runs the whole fulfillment workflow for one delivery:
	// verify → list line items → resolve SKUs → look up variants → create
	// order → decrement stock per item, strictly in that order. There is
	// no retry and no transaction across the order write and the stock
	// writes; a failure partway through leaves earlier effects in place.
	HandleWebhook(ctx context.Context, signatureHeader string, body []byte) (*WebhookResult, error)
}

type resolvedItem struct {
	ProductID int
	Variant   model.Variant
	Quantity  int64
}

type fulfillmentServiceImpl struct {
	stripeClient StripeVerifier
	skuResolver  *SkuResolver
	catalog      CatalogService
	ledger       repository.WebhookEventRepository
	log          *zap.Logger
}

func NewFulfillmentService(
	stripeClient StripeVerifier,
	skuResolver *SkuResolver,
	catalog CatalogService,
	ledger repository.WebhookEventRepository,
	log *zap.Logger,
) FulfillmentService {
	return &fulfillmentServiceImpl{
		stripeClient: stripeClient,
		skuResolver:  skuResolver,
		catalog:      catalog,
		ledger:       ledger,
		log:          log,
	}
}

func (s *fulfillmentServiceImpl) HandleWebhook(ctx context.Context, signatureHeader string, body []byte) (*WebhookResult, error) {
	event, err := s.stripeClient.VerifyWebhookSignature(signatureHeader, body)
	if err != nil {
		return nil, fmt.Errorf("verify webhook signature: %w", err)
	}

	ledgerID := s.recordDelivery(ctx, event)

	if event.Type != EventCheckoutCompleted {
		s.log.Info("ignoring event type", zap.String("event_type", event.Type))
		return &WebhookResult{Handled: false}, nil
	}

	session := event.Data.Object

	orderID, err := s.processCompletedSession(ctx, &session)
	if err != nil {
		s.markFailed(ctx, ledgerID, err)
		return nil, err
	}

	s.markProcessed(ctx, ledgerID, orderID)

	s.log.Info("order processing completed",
		zap.String("session_id", session.ID),
		zap.Int("order_id", orderID))

	return &WebhookResult{Handled: true, OrderID: orderID}, nil
}

func (s *fulfillmentServiceImpl) processCompletedSession(ctx context.Context, session *model.CheckoutSession) (int, error) {
	lineItems, err := s.stripeClient.ListLineItems(ctx, session.ID)
	if err != nil {
		return 0, fmt.Errorf("fetch line items: %w", err)
	}

	resolved := make([]resolvedItem, 0, len(lineItems))
	for _, item := range lineItems {
		sku := s.skuResolver.Resolve(ctx, item)
		if sku == "" {
			s.log.Warn("line item has no recoverable sku, skipping",
				zap.String("line_item", item.ID))
			continue
		}

		match, err := s.catalog.FindVariantBySku(ctx, sku)
		if err != nil {
			return 0, fmt.Errorf("catalog lookup for sku %s: %w", sku, err)
		}
		if match == nil {
			// item dropped; the order will hold fewer items than the
			// session reported
			continue
		}

		quantity := item.Quantity
		if quantity == 0 {
			quantity = 1
		}

		resolved = append(resolved, resolvedItem{
			ProductID: match.ProductID,
			Variant:   match.Variant,
			Quantity:  quantity,
		})
	}

	if len(resolved) == 0 {
		return 0, ErrNoResolvedItems
	}

	order := buildOrder(session, resolved)

	orderID, err := s.catalog.CreateOrder(ctx, order)
	if err != nil {
		return 0, fmt.Errorf("create order: %w", err)
	}

	s.log.Info("order created", zap.Int("order_id", orderID))

	// Stock writes happen after the order exists and are not atomic with
	// it: a failure here keeps the order and every decrement already
	// applied, and skips the rest.
	for _, item := range resolved {
		if err := s.catalog.AdjustStock(ctx, item.Variant.SKU, item.Quantity); err != nil {
			return orderID, fmt.Errorf("adjust stock for sku %s: %w", item.Variant.SKU, err)
		}
	}

	return orderID, nil
}

func buildOrder(session *model.CheckoutSession, resolved []resolvedItem) *model.Order {
	products := make([]int, len(resolved))
	orderItems := make([]model.OrderItem, len(resolved))
	for i, item := range resolved {
		products[i] = item.ProductID

		name := item.Variant.Name
		if name == "" {
			name = strings.TrimSpace(item.Variant.Size + " " + item.Variant.Colour)
		}

		orderItems[i] = model.OrderItem{
			Product:       item.ProductID,
			VariantSku:    item.Variant.SKU,
			VariantName:   name,
			VariantSize:   item.Variant.Size,
			VariantColour: item.Variant.Colour,
			Quantity:      item.Quantity,
			Price:         item.Variant.Price,
		}
	}

	status := "pending"
	if session.PaymentStatus == "paid" {
		status = "paid"
	}

	email := session.CustomerEmail
	var shipping model.ShippingAddress
	if session.CustomerDetails != nil {
		if email == "" {
			email = session.CustomerDetails.Email
		}
		if address := session.CustomerDetails.Address; address != nil {
			shipping = model.ShippingAddress{
				Street:     address.Line1,
				City:       address.City,
				State:      address.State,
				PostalCode: address.PostalCode,
				Country:    address.Country,
			}
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)

	return &model.Order{
		Products:   products,
		OrderItems: orderItems,
		// provider reports minor units
		TotalPrice:      float64(session.AmountTotal) / 100,
		OrderStatus:     status,
		ShippingAddress: shipping,
		OrderCreatedAt:  now,
		OrderUpdatedAt:  now,
		StripeSessionID: session.ID,
		Email:           email,
	}
}

// Ledger writes are best effort: the audit trail never fails a delivery.

func (s *fulfillmentServiceImpl) recordDelivery(ctx context.Context, event *model.StripeEvent) string {
	seen, err := s.ledger.Seen(ctx, event.ID)
	if err != nil {
		s.log.Warn("ledger lookup failed", zap.Error(err))
	} else if seen {
		// Redeliveries are processed again: a completed session delivered
		// twice creates a second order and decrements stock twice. The
		// ledger makes that visible; it does not prevent it.
		s.log.Warn("duplicate webhook delivery, processing again",
			zap.String("event_id", event.ID),
			zap.String("event_type", event.Type))
	}

	id, err := s.ledger.Record(ctx, event.ID, event.Type, event.Data.Object.ID)
	if err != nil {
		s.log.Warn("ledger record failed", zap.Error(err))
		return ""
	}

	return id
}

func (s *fulfillmentServiceImpl) markProcessed(ctx context.Context, ledgerID string, orderID int) {
	if ledgerID == "" {
		return
	}
	if err := s.ledger.MarkProcessed(ctx, ledgerID, orderID); err != nil {
		s.log.Warn("ledger update failed", zap.Error(err))
	}
}

func (s *fulfillmentServiceImpl) markFailed(ctx context.Context, ledgerID string, processingError error) {
	if ledgerID == "" {
		return
	}
	if err := s.ledger.MarkFailed(ctx, ledgerID, processingError.Error()); err != nil {
		s.log.Warn("ledger update failed", zap.Error(err))
	}
}
