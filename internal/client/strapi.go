package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"aecom-checkout/internal/config"
	"aecom-checkout/internal/model"
)

// StrapiClient wraps the content-store REST API. The store is the system
// of record for products, variants and orders; nothing is cached here.
type StrapiClient interface {
	// ListProducts returns every product with its variant list populated.
	ListProducts(ctx context.Context) ([]*model.Product, error)

	// ReplaceProductVariants writes the full variant array of one product
	// back. The store has no partial-field update for repeatable
	// components, so callers must send every variant, changed or not.
	ReplaceProductVariants(ctx context.Context, productID int, variants []model.Variant) error

	// CreateOrder persists a new order record and returns its id.
	CreateOrder(ctx context.Context, order *model.Order) (int, error)
}

type strapiClientImpl struct {
	httpClient *http.Client
	baseURL    string
	apiToken   string
}

func NewStrapiClient(strapiCfg *config.Strapi) StrapiClient {
	return &strapiClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:  strapiCfg.URL,
		apiToken: strapiCfg.APIToken,
	}
}

func (c *strapiClientImpl) ListProducts(ctx context.Context) ([]*model.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/products?populate[0]=variants", nil)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("strapi error %d: %s", resp.StatusCode, string(b))
	}

	var list model.ProductList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode products response: %w", err)
	}

	return list.Data, nil
}

func (c *strapiClientImpl) ReplaceProductVariants(ctx context.Context, productID int, variants []model.Variant) error {
	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"variants": variants,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal variants payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		c.baseURL+"/api/products/"+strconv.Itoa(productID),
		bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("update product variants: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("strapi stock update failed %d: %s", resp.StatusCode, string(b))
	}

	return nil
}

func (c *strapiClientImpl) CreateOrder(ctx context.Context, order *model.Order) (int, error) {
	payload := map[string]interface{}{
		"data": order,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("marshal order payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/orders",
		bytes.NewBuffer(body))
	if err != nil {
		return 0, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("create order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("strapi order create failed %d: %s", resp.StatusCode, string(b))
	}

	var created model.CreatedOrder
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return 0, fmt.Errorf("decode order response: %w", err)
	}

	return created.Data.ID, nil
}
