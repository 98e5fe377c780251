package client

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"aecom-checkout/internal/config"
	"aecom-checkout/internal/dto"
	"aecom-checkout/internal/model"
)

// ErrSignatureVerification marks a webhook delivery that failed the
// signature check. Callers must not perform any side effect on this error.
var ErrSignatureVerification = errors.New("webhook signature verification failed")

// signatureTolerance bounds how old a signed timestamp may be before the
// delivery is rejected as a possible replay.
const signatureTolerance = 5 * time.Minute

const lineItemPageLimit = 100

type StripeClient interface {
	CreateCheckoutSession(ctx context.Context, items []*dto.CartItem, successURL, cancelURL string) (*model.CheckoutSession, error)
	RetrieveSession(ctx context.Context, sessionID string) (*model.CheckoutSession, error)
	ListLineItems(ctx context.Context, sessionID string) ([]*model.LineItem, error)
	RetrieveProduct(ctx context.Context, productID string) (*model.StripeProduct, error)

	// VerifyWebhookSignature checks the Stripe-Signature header against the
	// raw body and returns the parsed event on success.
	VerifyWebhookSignature(signatureHeader string, body []byte) (*model.StripeEvent, error)
}

type stripeClientImpl struct {
	httpClient      *http.Client
	baseApiURL      string
	secretKey       string
	webhookSecret   string
	currency        string
	shippingCountry string
}

func NewStripeClient(stripeCfg *config.Stripe) StripeClient {
	return &stripeClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL:      stripeCfg.BaseApiURL,
		secretKey:       stripeCfg.SecretKey,
		webhookSecret:   stripeCfg.WebhookSecret,
		currency:        stripeCfg.Currency,
		shippingCountry: stripeCfg.ShippingCountry,
	}
}

func (c *stripeClientImpl) CreateCheckoutSession(ctx context.Context, items []*dto.CartItem, successURL, cancelURL string) (*model.CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("billing_address_collection", "required")
	form.Set("shipping_address_collection[allowed_countries][0]", c.shippingCountry)
	form.Set("success_url", successURL)
	form.Set("cancel_url", cancelURL)

	for i, item := range items {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[quantity]", strconv.FormatInt(item.Quantity, 10))
		form.Set(prefix+"[price_data][currency]", c.currency)
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(int64(math.Round(item.Price*100)), 10))
		form.Set(prefix+"[price_data][product_data][name]", item.Title+" - "+item.VariantName)
		if item.ImageURL != "" {
			form.Set(prefix+"[price_data][product_data][images][0]", item.ImageURL)
		}
		// the SKU rides along as metadata so the webhook can recover it
		form.Set(prefix+"[price_data][product_data][metadata][sku]", item.SKU)
		form.Set(prefix+"[price_data][product_data][metadata][productId]", strconv.Itoa(item.ID))
		form.Set(prefix+"[price_data][product_data][metadata][variantId]", strconv.Itoa(item.VariantID))
	}

	var session model.CheckoutSession
	if err := c.postForm(ctx, "/v1/checkout/sessions", form, &session); err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	return &session, nil
}

func (c *stripeClientImpl) RetrieveSession(ctx context.Context, sessionID string) (*model.CheckoutSession, error) {
	var session model.CheckoutSession
	path := "/v1/checkout/sessions/" + url.PathEscape(sessionID)
	if err := c.get(ctx, path, nil, &session); err != nil {
		return nil, fmt.Errorf("retrieve checkout session: %w", err)
	}

	return &session, nil
}

func (c *stripeClientImpl) ListLineItems(ctx context.Context, sessionID string) ([]*model.LineItem, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(lineItemPageLimit))
	query.Add("expand[]", "data.price.product")

	var list model.LineItemList
	path := "/v1/checkout/sessions/" + url.PathEscape(sessionID) + "/line_items"
	if err := c.get(ctx, path, query, &list); err != nil {
		return nil, fmt.Errorf("list line items: %w", err)
	}

	return list.Data, nil
}

func (c *stripeClientImpl) RetrieveProduct(ctx context.Context, productID string) (*model.StripeProduct, error) {
	var product model.StripeProduct
	path := "/v1/products/" + url.PathEscape(productID)
	if err := c.get(ctx, path, nil, &product); err != nil {
		return nil, fmt.Errorf("retrieve product: %w", err)
	}

	return &product, nil
}

func (c *stripeClientImpl) VerifyWebhookSignature(signatureHeader string, body []byte) (*model.StripeEvent, error) {
	timestamp, signatures, err := parseSignatureHeader(signatureHeader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignatureVerification, err)
	}

	age := time.Since(time.Unix(timestamp, 0))
	if age > signatureTolerance || age < -signatureTolerance {
		return nil, fmt.Errorf("%w: timestamp outside tolerance", ErrSignatureVerification)
	}

	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(body)
	expected := mac.Sum(nil)

	matched := false
	for _, signature := range signatures {
		if hmac.Equal(signature, expected) {
			matched = true
			break
		}
	}
	if !matched {
		return nil, fmt.Errorf("%w: no matching v1 signature", ErrSignatureVerification)
	}

	var event model.StripeEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("decode webhook event: %w", err)
	}

	return &event, nil
}

// parseSignatureHeader splits "t=<unix>,v1=<hex>[,v1=<hex>...]" into the
// signed timestamp and the candidate signatures.
func parseSignatureHeader(header string) (int64, [][]byte, error) {
	if header == "" {
		return 0, nil, fmt.Errorf("missing signature header")
	}

	var timestamp int64
	var signatures [][]byte

	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}

		switch key {
		case "t":
			ts, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("bad timestamp %q", value)
			}
			timestamp = ts
		case "v1":
			signature, err := hex.DecodeString(value)
			if err != nil {
				continue
			}
			signatures = append(signatures, signature)
		}
	}

	if timestamp == 0 {
		return 0, nil, fmt.Errorf("no timestamp in signature header")
	}
	if len(signatures) == 0 {
		return 0, nil, fmt.Errorf("no v1 signatures in signature header")
	}

	return timestamp, signatures, nil
}

func (c *stripeClientImpl) postForm(ctx context.Context, path string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseApiURL+path,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req, out)
}

func (c *stripeClientImpl) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	endpoint := c.baseApiURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	return c.do(req, out)
}

func (c *stripeClientImpl) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("stripe error %d: %s", resp.StatusCode, string(b))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode stripe response: %w", err)
	}

	return nil
}
