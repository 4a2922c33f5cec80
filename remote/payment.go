package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"bottega/models"

	"github.com/stripe/stripe-go/v76"
	checkoutsession "github.com/stripe/stripe-go/v76/checkout/session"
	"go.uber.org/zap"
)

// RemoteCheckout asks the remote gateway endpoint for a payment
// session. The gateway has shipped several response shapes over time,
// so every known location of the redirect URL is probed before giving
// up.
type RemoteCheckout struct {
	client *Client
	path   string
	logger *zap.Logger
}

func NewRemoteCheckout(client *Client, path string, logger *zap.Logger) *RemoteCheckout {
	if path == "" {
		path = "/create_stripe_checkout"
	}
	return &RemoteCheckout{client: client, path: path, logger: logger}
}

func (r *RemoteCheckout) CreateCheckout(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutSession, error) {
	var resp map[string]any
	if err := r.client.request(ctx, http.MethodPost, r.path, req, &resp); err != nil {
		return nil, fmt.Errorf("creating checkout session: %w", err)
	}

	if u := redirectURLFrom(resp); u != "" {
		return &models.CheckoutSession{RedirectURL: u}, nil
	}
	r.logger.Error("unrecognised checkout response shape", zap.Any("response", resp))
	return nil, errors.New("checkout response missing redirect URL")
}

// redirectURLFrom probes the acceptable response shapes:
// {url}, {redirect_url}, {result:{url}}, {session:{url}}.
func redirectURLFrom(resp map[string]any) string {
	if u, ok := resp["url"].(string); ok && u != "" {
		return u
	}
	if u, ok := resp["redirect_url"].(string); ok && u != "" {
		return u
	}
	for _, key := range []string{"result", "session"} {
		if nested, ok := resp[key].(map[string]any); ok {
			if u, ok := nested["url"].(string); ok && u != "" {
				return u
			}
		}
	}
	return ""
}

// StripeCheckout creates the payment session directly against Stripe,
// bypassing the remote gateway. Selected with CHECKOUT_DRIVER=stripe.
type StripeCheckout struct {
	currency   string
	successURL string
	cancelURL  string
}

func NewStripeCheckout(apiKey, currency, successURL, cancelURL string) *StripeCheckout {
	stripe.Key = apiKey
	if currency == "" {
		currency = "eur"
	}
	return &StripeCheckout{currency: currency, successURL: successURL, cancelURL: cancelURL}
}

func (s *StripeCheckout) CreateCheckout(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail:     stripe.String(req.Email),
		ClientReferenceID: stripe.String(strconv.Itoa(req.BookingID)),
		SuccessURL:        stripe.String(s.successURL),
		CancelURL:         stripe.String(s.cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(s.currency),
					UnitAmount: stripe.Int64(req.AmountMinor),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("Booking #%d", req.BookingID)),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx

	sess, err := checkoutsession.New(params)
	if err != nil {
		return nil, fmt.Errorf("creating stripe checkout session: %w", err)
	}
	if sess.URL == "" {
		return nil, errors.New("stripe session has no redirect URL")
	}
	return &models.CheckoutSession{RedirectURL: sess.URL}, nil
}
