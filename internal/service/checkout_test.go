package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"aecom-checkout/internal/dto"
	"aecom-checkout/internal/model"
	"aecom-checkout/internal/service"
)

func TestCreateSession_BuildsRedirectURLs(t *testing.T) {
	mockStripe := new(MockStripeClient)
	mockStripe.On("CreateCheckoutSession", mock.Anything, mock.Anything,
		"https://shop.example/success?session_id={CHECKOUT_SESSION_ID}",
		"https://shop.example/cart",
	).Return(&model.CheckoutSession{
		ID:  "cs_new",
		URL: "https://checkout.stripe.com/c/pay/cs_new",
	}, nil).Once()

	svc := service.NewCheckoutService(mockStripe, "https://shop.example", zap.NewNop())

	url, err := svc.CreateSession(context.Background(), []*dto.CartItem{
		{Title: "Tee", Price: 19.99, Quantity: 1, SKU: "ABC-1"},
	})

	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_new", url)
	mockStripe.AssertExpectations(t)
}

func TestCreateSession_ProviderFailure(t *testing.T) {
	mockStripe := new(MockStripeClient)
	mockStripe.On("CreateCheckoutSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("stripe error 500")).
		Once()

	svc := service.NewCheckoutService(mockStripe, "https://shop.example", zap.NewNop())

	_, err := svc.CreateSession(context.Background(), []*dto.CartItem{
		{Title: "Tee", Price: 19.99, Quantity: 1, SKU: "ABC-1"},
	})

	require.Error(t, err)
}

func TestSessionSummary(t *testing.T) {
	mockStripe := new(MockStripeClient)
	mockStripe.On("RetrieveSession", mock.Anything, "cs_1").Return(&model.CheckoutSession{
		ID:            "cs_1",
		CustomerEmail: "jo@example.com",
		AmountTotal:   5998,
		Currency:      "aud",
		PaymentStatus: "paid",
	}, nil).Once()

	svc := service.NewCheckoutService(mockStripe, "https://shop.example", zap.NewNop())

	summary, err := svc.SessionSummary(context.Background(), "cs_1")

	require.NoError(t, err)
	assert.Equal(t, "jo@example.com", summary.CustomerEmail)
	assert.Equal(t, int64(5998), summary.AmountTotal)
	assert.Equal(t, "aud", summary.Currency)
	assert.Equal(t, "paid", summary.PaymentStatus)
}

func TestSessionSummary_EmailFallsBackToCustomerDetails(t *testing.T) {
	mockStripe := new(MockStripeClient)
	mockStripe.On("RetrieveSession", mock.Anything, "cs_1").Return(&model.CheckoutSession{
		ID:              "cs_1",
		CustomerDetails: &model.CustomerDetails{Email: "jo+details@example.com"},
		AmountTotal:     5998,
	}, nil).Once()

	svc := service.NewCheckoutService(mockStripe, "https://shop.example", zap.NewNop())

	summary, err := svc.SessionSummary(context.Background(), "cs_1")

	require.NoError(t, err)
	assert.Equal(t, "jo+details@example.com", summary.CustomerEmail)
}
