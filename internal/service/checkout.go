package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"aecom-checkout/internal/client"
	"aecom-checkout/internal/dto"
)

type CheckoutService interface {
	// CreateSession opens a provider checkout session for the cart and
	// returns the URL the storefront should redirect the customer to.
	CreateSession(ctx context.Context, items []*dto.CartItem) (string, error)

	// SessionSummary returns the reduced session projection shown on the
	// success page.
	SessionSummary(ctx context.Context, sessionID string) (*dto.SessionSummary, error)
}

type checkoutServiceImpl struct {
	stripeClient client.StripeClient
	baseURL      string
	log          *zap.Logger
}

func NewCheckoutService(stripeClient client.StripeClient, baseURL string, log *zap.Logger) CheckoutService {
	return &checkoutServiceImpl{
		stripeClient: stripeClient,
		baseURL:      baseURL,
		log:          log,
	}
}

func (s *checkoutServiceImpl) CreateSession(ctx context.Context, items []*dto.CartItem) (string, error) {
	successURL := s.baseURL + "/success?session_id={CHECKOUT_SESSION_ID}"
	cancelURL := s.baseURL + "/cart"

	session, err := s.stripeClient.CreateCheckoutSession(ctx, items, successURL, cancelURL)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}

	s.log.Info("checkout session created",
		zap.String("session_id", session.ID),
		zap.Int("items", len(items)))

	return session.URL, nil
}

func (s *checkoutServiceImpl) SessionSummary(ctx context.Context, sessionID string) (*dto.SessionSummary, error) {
	session, err := s.stripeClient.RetrieveSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("retrieve session: %w", err)
	}

	email := session.CustomerEmail
	if email == "" && session.CustomerDetails != nil {
		email = session.CustomerDetails.Email
	}

	return &dto.SessionSummary{
		CustomerEmail: email,
		AmountTotal:   session.AmountTotal,
		Currency:      session.Currency,
		PaymentStatus: session.PaymentStatus,
	}, nil
}
