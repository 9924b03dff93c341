package stripe

import (
	"context"

	"github.com/invoflow/invoflow/internal/config"
	ierr "github.com/invoflow/invoflow/internal/errors"
	"github.com/invoflow/invoflow/internal/gateway"
	"github.com/invoflow/invoflow/internal/logger"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
)

const defaultCurrency = "usd"

// Gateway charges stored payment methods through Stripe PaymentIntents
type Gateway struct {
	client *stripe.Client
	logger *logger.Logger
}

// NewGateway creates a Stripe-backed payment gateway
func NewGateway(cfg *config.Configuration, logger *logger.Logger) (*Gateway, error) {
	if cfg.Stripe.SecretKey == "" {
		return nil, ierr.NewError("stripe secret key is not configured").
			WithHint("Set the Stripe secret key to enable card charges").
			Mark(ierr.ErrConfiguration)
	}

	return &Gateway{
		client: stripe.NewClient(cfg.Stripe.SecretKey, nil),
		logger: logger,
	}, nil
}

func (g *Gateway) Charge(ctx context.Context, req *gateway.ChargeRequest) (*gateway.ChargeResult, error) {
	if req.PaymentMethodRef == "" {
		return nil, ierr.NewError("missing payment method reference").
			WithHint("Client has no stored payment method to charge").
			Mark(ierr.ErrValidation)
	}

	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	amountInCents := req.Amount.Mul(decimal.NewFromInt(100)).IntPart()
	params := &stripe.PaymentIntentCreateParams{
		Amount:        stripe.Int64(amountInCents),
		Currency:      stripe.String(currency),
		PaymentMethod: stripe.String(req.PaymentMethodRef),
		OffSession:    stripe.Bool(true),
		Confirm:       stripe.Bool(true),
		Metadata: map[string]string{
			"invoice_id": req.InvoiceID,
			"client_id":  req.ClientID,
		},
	}

	paymentIntent, err := g.client.V1PaymentIntents.Create(ctx, params)
	if err != nil {
		if stripeErr, ok := err.(*stripe.Error); ok {
			return nil, ierr.WithError(err).
				WithHint("The payment processor declined the charge").
				WithReportableDetails(map[string]interface{}{
					"invoice_id":        req.InvoiceID,
					"stripe_error_code": stripeErr.Code,
				}).
				Mark(ierr.ErrGateway)
		}

		g.logger.Errorw("failed to create payment intent",
			"error", err,
			"invoice_id", req.InvoiceID,
			"amount", req.Amount.String(),
		)
		return nil, ierr.WithError(err).
			WithHint("Unable to reach the payment processor").
			Mark(ierr.ErrGateway)
	}

	if paymentIntent.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, ierr.NewError("charge did not succeed").
			WithHint("The payment processor did not confirm the charge").
			WithReportableDetails(map[string]interface{}{
				"invoice_id":        req.InvoiceID,
				"payment_intent_id": paymentIntent.ID,
				"status":            paymentIntent.Status,
			}).
			Mark(ierr.ErrGateway)
	}

	g.logger.Infow("charge succeeded",
		"invoice_id", req.InvoiceID,
		"payment_intent_id", paymentIntent.ID,
	)

	return &gateway.ChargeResult{ChargeID: paymentIntent.ID}, nil
}
