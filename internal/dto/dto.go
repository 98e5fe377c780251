package dto

// CartItem is one entry of the storefront cart as posted to the checkout
// endpoint. The SKU travels to the payment provider as product metadata so
// the fulfillment webhook can map line items back to catalog variants.
type CartItem struct {
	ID          int     `json:"id"`
	VariantID   int     `json:"variantId"`
	Title       string  `json:"title" validate:"required"`
	VariantName string  `json:"variantName"`
	Price       float64 `json:"price" validate:"gte=0"`
	Quantity    int64   `json:"quantity" validate:"required,gt=0"`
	ImageURL    string  `json:"imageUrl"`
	SKU         string  `json:"sku" validate:"required"`
}

type CheckoutRequest struct {
	Items []*CartItem `json:"items" validate:"required,min=1,dive"`
}

type CheckoutResponse struct {
	URL string `json:"url"`
}

// SessionSummary is the reduced session projection returned to the
// success page.
type SessionSummary struct {
	CustomerEmail string `json:"customer_email"`
	AmountTotal   int64  `json:"amount_total"`
	Currency      string `json:"currency"`
	PaymentStatus string `json:"payment_status"`
}
