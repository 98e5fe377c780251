package model

// Catalog entities as served by the content store. Products own a list of
// variants; the variant SKU is the join key between payment-provider line
// items and the catalog.

type ProductList struct {
	Data []*Product `json:"data"`
}

type Product struct {
	ID       int       `json:"id"`
	Title    string    `json:"title"`
	Variants []Variant `json:"variants"`
}

type Variant struct {
	ID     int     `json:"id"`
	SKU    string  `json:"sku"`
	Name   string  `json:"name"`
	Size   string  `json:"size"`
	Colour string  `json:"colour"`
	Price  float64 `json:"price"`
	Stock  int     `json:"stock"`
}

// Order is the payload persisted in the content store on fulfillment.
// OrderItems are denormalized snapshots of the variant at purchase time so
// later catalog edits do not rewrite order history.
type Order struct {
	Products        []int           `json:"products"`
	OrderItems      []OrderItem     `json:"orderItems"`
	TotalPrice      float64         `json:"totalPrice"`
	OrderStatus     string          `json:"orderStatus"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	OrderCreatedAt  string          `json:"orderCreatedAt"`
	OrderUpdatedAt  string          `json:"orderUpdatedAt"`
	StripeSessionID string          `json:"stripe_session_id"`
	Email           string          `json:"email"`
}

type OrderItem struct {
	Product       int     `json:"product"`
	VariantSku    string  `json:"variantSku"`
	VariantName   string  `json:"variantName"`
	VariantSize   string  `json:"variantSize"`
	VariantColour string  `json:"variantColour"`
	Quantity      int64   `json:"quantity"`
	Price         float64 `json:"price"`
}

type ShippingAddress struct {
	Street string `json:"street"`
	City   string `json:"city"`
	// capitalised in the store schema
	State      string `json:"State"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type CreatedOrder struct {
	Data struct {
		ID int `json:"id"`
	} `json:"data"`
}
