package payments

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"
)

// StripeGateway implements Gateway against the Stripe API. All calls
// run server-side with the secret key; the client only ever sees the
// intent's client secret.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
	log           *zap.Logger
}

func NewStripeGateway(secretKey, webhookSecret string, log *zap.Logger) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api, webhookSecret: webhookSecret, log: log}
}

func (g *StripeGateway) EnsureCustomer(ctx context.Context, email string) (string, error) {
	listParams := &stripe.CustomerListParams{Email: stripe.String(email)}
	listParams.Context = ctx
	listParams.Limit = stripe.Int64(1)

	iter := g.api.Customers.List(listParams)
	for iter.Next() {
		return iter.Customer().ID, nil
	}
	if err := iter.Err(); err != nil {
		return "", fmt.Errorf("list customers: %w", err)
	}

	createParams := &stripe.CustomerParams{Email: stripe.String(email)}
	createParams.Context = ctx
	cust, err := g.api.Customers.New(createParams)
	if err != nil {
		return "", fmt.Errorf("create customer: %w", err)
	}

	g.log.Info("gateway customer created", zap.String("customer_id", cust.ID))
	return cust.ID, nil
}

func (g *StripeGateway) CreateEscrowIntent(ctx context.Context, p EscrowIntentParams) (*EscrowIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(p.Amount)),
		Currency: stripe.String(string(stripe.CurrencyBRL)),
		Customer: stripe.String(p.CustomerID),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.SetIdempotencyKey(IdempotencyKey(p.CampaignID))
	for k, v := range EscrowMetadata(p) {
		params.AddMetadata(k, v)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	return &EscrowIntent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func (g *StripeGateway) VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	out := &WebhookEvent{Type: string(event.Type)}

	switch event.Type {
	case WebhookPaymentSucceeded, WebhookPaymentFailed:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("decode payment intent: %w", err)
		}
		out.PaymentIntentID = pi.ID
		if pi.Metadata["type"] == "escrow" {
			if id, err := uuid.Parse(pi.Metadata["campaign_id"]); err == nil {
				out.CampaignID = &id
			}
		}
	}

	return out, nil
}
