package payment

import (
	"fmt"

	"github.com/Skotchmaster/shoplist/internal/inventory"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
)

// Client creates hosted Checkout sessions. The buyer pays on Stripe's page;
// the session id comes back on the success redirect and is our transaction id.
type Client struct {
	SuccessURL string
	CancelURL  string
}

func NewClient(apiKey, successURL, cancelURL string) *Client {
	stripe.Key = apiKey
	return &Client{
		SuccessURL: successURL,
		CancelURL:  cancelURL,
	}
}

func (c *Client) CreateSession(items []inventory.LineItem) (string, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, it := range items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String("usd"),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(it.Name),
				},
				UnitAmount: stripe.Int64(it.UnitAmount),
			},
			Quantity: stripe.Int64(it.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		SuccessURL:         stripe.String(c.SuccessURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:          stripe.String(c.CancelURL),
	}

	s, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe: create checkout session: %w", err)
	}
	return s.URL, nil
}
