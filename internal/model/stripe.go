package model

import "encoding/json"

// StripeEvent is the signed webhook envelope delivered by Stripe.
type StripeEvent struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Created int64  `json:"created"`
	Data    struct {
		Object CheckoutSession `json:"object"`
	} `json:"data"`
}

type CheckoutSession struct {
	ID              string           `json:"id"`
	URL             string           `json:"url"`
	AmountTotal     int64            `json:"amount_total"`
	Currency        string           `json:"currency"`
	PaymentStatus   string           `json:"payment_status"`
	CustomerEmail   string           `json:"customer_email"`
	CustomerDetails *CustomerDetails `json:"customer_details"`
}

type CustomerDetails struct {
	Email   string         `json:"email"`
	Address *StripeAddress `json:"address"`
}

type StripeAddress struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type LineItemList struct {
	Data    []*LineItem `json:"data"`
	HasMore bool        `json:"has_more"`
}

type LineItem struct {
	ID       string `json:"id"`
	Quantity int64  `json:"quantity"`
	Price    *Price `json:"price"`
}

type Price struct {
	ID       string            `json:"id"`
	Metadata map[string]string `json:"metadata"`
	Product  *ProductRef       `json:"product"`
}

// ProductRef is either a bare product id or, when the relation was
// requested with expand, the full product object.
type ProductRef struct {
	ID       string
	Expanded *StripeProduct
}

func (p *ProductRef) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &p.ID)
	}
	var product StripeProduct
	if err := json.Unmarshal(b, &product); err != nil {
		return err
	}
	p.ID = product.ID
	p.Expanded = &product
	return nil
}

func (p *ProductRef) MarshalJSON() ([]byte, error) {
	if p.Expanded != nil {
		return json.Marshal(p.Expanded)
	}
	return json.Marshal(p.ID)
}

type StripeProduct struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Metadata map[string]string `json:"metadata"`
}
