// Package stripeinfra creates hosted Stripe Checkout pages for a caller's balance.
package stripeinfra

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-call-verify/internal/domain"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// minimumCharge is Stripe's smallest chargeable amount in minor units for EUR, GBP and USD.
const minimumCharge = 50

// SessionCreator is the subset of the checkout session client the linker uses.
type SessionCreator interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// Linker turns a caller record into a Checkout Session URL that can be sent by SMS.
type Linker struct {
	sessions   SessionCreator
	successURL string
}

// NewClient creates a Stripe API client. baseURL overrides the API host, e.g. for stripe-mock.
func NewClient(secretKey, baseURL string, httpClient *http.Client) *client.API {
	cfg := &stripe.BackendConfig{
		HTTPClient:        httpClient,
		MaxNetworkRetries: stripe.Int64(2),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelError},
	}
	if baseURL != "" {
		cfg.URL = stripe.String(baseURL)
	}
	return client.New(secretKey, &stripe.Backends{
		API: stripe.GetBackendWithConfig(stripe.APIBackend, cfg),
	})
}

// NewLinker wraps sessions, usually client.API.CheckoutSessions. successURL is optional.
func NewLinker(sessions SessionCreator, successURL string) *Linker {
	return &Linker{sessions: sessions, successURL: successURL}
}

func (l *Linker) PaymentLink(ctx context.Context, rec *domain.CallerRecord, callID string) (string, error) {
	if rec.BalanceMinor < minimumCharge {
		return "", fmt.Errorf("balance %s is below the minimum charge: %w", rec.FormatBalance(), domain.ErrBadRequest)
	}
	metadata := map[string]string{
		"reference_number": rec.ReferenceNumber,
		"account_id":       rec.AccountID,
		"call_id":          callID,
	}
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(rec.ReferenceNumber),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(strings.ToLower(rec.Currency)),
				UnitAmount: stripe.Int64(rec.BalanceMinor),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(fmt.Sprintf("%s account %s", rec.CreditorName, rec.ReferenceNumber)),
				},
			},
			Quantity: stripe.Int64(1),
		}},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Description: stripe.String("Payment to " + rec.CreditorName),
			Metadata:    metadata,
		},
		Metadata: metadata,
	}
	if l.successURL != "" {
		params.SuccessURL = stripe.String(l.successURL)
	}
	params.Context = ctx

	sess, err := l.sessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	if sess.URL == "" {
		return "", fmt.Errorf("checkout session %s has no url", sess.ID)
	}
	return sess.URL, nil
}
