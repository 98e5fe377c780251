package client_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aecom-checkout/internal/client"
	"aecom-checkout/internal/config"
	"aecom-checkout/internal/model"
)

func newTestStrapiClient(baseURL string) client.StrapiClient {
	return client.NewStrapiClient(&config.Strapi{
		URL:      baseURL,
		APIToken: "strapi-token",
	})
}

func TestListProducts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products", r.URL.Path)
		assert.Equal(t, "variants", r.URL.Query().Get("populate[0]"))
		assert.Equal(t, "Bearer strapi-token", r.Header.Get("Authorization"))

		fmt.Fprint(w, `{
			"data": [
				{
					"id": 3,
					"title": "Classic Tee",
					"variants": [
						{"id": 9, "sku": "ABC-1", "name": "Black / M", "size": "M", "colour": "Black", "price": 19.99, "stock": 5},
						{"id": 10, "sku": "ABC-2", "size": "L", "colour": "Black", "price": 19.99, "stock": 2}
					]
				}
			]
		}`)
	}))
	defer server.Close()

	c := newTestStrapiClient(server.URL)

	products, err := c.ListProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 3, products[0].ID)
	require.Len(t, products[0].Variants, 2)
	assert.Equal(t, "ABC-1", products[0].Variants[0].SKU)
	assert.Equal(t, 5, products[0].Variants[0].Stock)
}

func TestReplaceProductVariants(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/products/3", r.URL.Path)
		assert.Equal(t, "Bearer strapi-token", r.Header.Get("Authorization"))

		var payload struct {
			Data struct {
				Variants []model.Variant `json:"variants"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Len(t, payload.Data.Variants, 2)
		assert.Equal(t, -1, payload.Data.Variants[0].Stock)
		assert.Equal(t, 2, payload.Data.Variants[1].Stock)

		fmt.Fprint(w, `{"data": {"id": 3}}`)
	}))
	defer server.Close()

	c := newTestStrapiClient(server.URL)

	err := c.ReplaceProductVariants(context.Background(), 3, []model.Variant{
		{ID: 9, SKU: "ABC-1", Stock: -1},
		{ID: 10, SKU: "ABC-2", Stock: 2},
	})

	require.NoError(t, err)
}

func TestCreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/orders", r.URL.Path)

		var payload struct {
			Data model.Order `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "cs_1", payload.Data.StripeSessionID)
		assert.Equal(t, 59.98, payload.Data.TotalPrice)
		assert.Equal(t, "paid", payload.Data.OrderStatus)

		fmt.Fprint(w, `{"data": {"id": 42}}`)
	}))
	defer server.Close()

	c := newTestStrapiClient(server.URL)

	orderID, err := c.CreateOrder(context.Background(), &model.Order{
		StripeSessionID: "cs_1",
		TotalPrice:      59.98,
		OrderStatus:     "paid",
	})

	require.NoError(t, err)
	assert.Equal(t, 42, orderID)
}

func TestStrapiClient_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error": {"message": "invalid token"}}`)
	}))
	defer server.Close()

	c := newTestStrapiClient(server.URL)

	_, err := c.ListProducts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")

	err = c.ReplaceProductVariants(context.Background(), 3, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")

	_, err = c.CreateOrder(context.Background(), &model.Order{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
