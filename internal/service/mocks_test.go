package service_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"aecom-checkout/internal/dto"
	"aecom-checkout/internal/model"
	"aecom-checkout/internal/service"
)

// MockStripeClient is a mock implementation of client.StripeClient.
type MockStripeClient struct {
	mock.Mock
}

func (m *MockStripeClient) CreateCheckoutSession(ctx context.Context, items []*dto.CartItem, successURL, cancelURL string) (*model.CheckoutSession, error) {
	args := m.Called(ctx, items, successURL, cancelURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckoutSession), args.Error(1)
}

func (m *MockStripeClient) RetrieveSession(ctx context.Context, sessionID string) (*model.CheckoutSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckoutSession), args.Error(1)
}

func (m *MockStripeClient) ListLineItems(ctx context.Context, sessionID string) ([]*model.LineItem, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.LineItem), args.Error(1)
}

func (m *MockStripeClient) RetrieveProduct(ctx context.Context, productID string) (*model.StripeProduct, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StripeProduct), args.Error(1)
}

func (m *MockStripeClient) VerifyWebhookSignature(signatureHeader string, body []byte) (*model.StripeEvent, error) {
	args := m.Called(signatureHeader, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StripeEvent), args.Error(1)
}

// MockStrapiClient is a mock implementation of client.StrapiClient.
type MockStrapiClient struct {
	mock.Mock
}

func (m *MockStrapiClient) ListProducts(ctx context.Context) ([]*model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Product), args.Error(1)
}

func (m *MockStrapiClient) ReplaceProductVariants(ctx context.Context, productID int, variants []model.Variant) error {
	args := m.Called(ctx, productID, variants)
	return args.Error(0)
}

func (m *MockStrapiClient) CreateOrder(ctx context.Context, order *model.Order) (int, error) {
	args := m.Called(ctx, order)
	return args.Int(0), args.Error(1)
}

// MockCatalogService is a mock implementation of service.CatalogService.
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) FindVariantBySku(ctx context.Context, sku string) (*service.VariantMatch, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.VariantMatch), args.Error(1)
}

func (m *MockCatalogService) AdjustStock(ctx context.Context, sku string, quantity int64) error {
	args := m.Called(ctx, sku, quantity)
	return args.Error(0)
}

func (m *MockCatalogService) CreateOrder(ctx context.Context, order *model.Order) (int, error) {
	args := m.Called(ctx, order)
	return args.Int(0), args.Error(1)
}

// MockWebhookEventRepository is a mock implementation of
// repository.WebhookEventRepository.
type MockWebhookEventRepository struct {
	mock.Mock
}

func (m *MockWebhookEventRepository) Seen(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockWebhookEventRepository) Record(ctx context.Context, eventID, eventType, sessionID string) (string, error) {
	args := m.Called(ctx, eventID, eventType, sessionID)
	return args.String(0), args.Error(1)
}

func (m *MockWebhookEventRepository) MarkProcessed(ctx context.Context, id string, orderID int) error {
	args := m.Called(ctx, id, orderID)
	return args.Error(0)
}

func (m *MockWebhookEventRepository) MarkFailed(ctx context.Context, id string, processingError string) error {
	args := m.Called(ctx, id, processingError)
	return args.Error(0)
}
