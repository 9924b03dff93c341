package gateway

import (
	"context"

	"github.com/shopspring/decimal"
)

// ChargeRequest describes a single off-session charge against a client's
// stored payment method reference.
type ChargeRequest struct {
	// PaymentMethodRef is the gateway-side payment method identifier
	PaymentMethodRef string

	// Amount to charge, in major currency units
	Amount decimal.Decimal

	// Currency is the three letter ISO currency code, ex "usd"
	Currency string

	// InvoiceID ties the charge back to the invoice being settled
	InvoiceID string

	// ClientID ties the charge back to the paying client
	ClientID string
}

// ChargeResult is the gateway's acknowledgement of a successful charge
type ChargeResult struct {
	// ChargeID is the gateway-side identifier of the charge
	ChargeID string
}

// Gateway abstracts the external payment processor. Implementations must
// return an error marked ErrGateway when the processor declines or fails
// the charge, so callers can distinguish processor failures from local ones.
type Gateway interface {
	Charge(ctx context.Context, req *ChargeRequest) (*ChargeResult, error)
}
