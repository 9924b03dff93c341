package service

import (
	"context"
	"time"

	"github.com/invoflow/invoflow/internal/api/dto"
	"github.com/invoflow/invoflow/internal/domain/events"
	ierr "github.com/invoflow/invoflow/internal/errors"
	"github.com/invoflow/invoflow/internal/gateway"
	"github.com/invoflow/invoflow/internal/idempotency"
	"github.com/invoflow/invoflow/internal/types"
	"github.com/samber/lo"
)

// PaymentProcessorService charges the client's stored payment method for
// an invoice and reconciles the result as a card payment.
type PaymentProcessorService interface {
	// ChargeInvoice charges the full invoice amount through the payment
	// processor. A declined or failed charge never marks the invoice paid.
	ChargeInvoice(ctx context.Context, req *dto.ChargePaymentRequest) (*dto.PaymentResponse, error)
}

type paymentProcessorService struct {
	ServiceParams
	payments *paymentService
}

func NewPaymentProcessorService(params ServiceParams) PaymentProcessorService {
	return &paymentProcessorService{
		ServiceParams: params,
		payments:      newPaymentService(params),
	}
}

func (s *paymentProcessorService) ChargeInvoice(ctx context.Context, req *dto.ChargePaymentRequest) (*dto.PaymentResponse, error) {
	if s.Gateway == nil {
		return nil, ierr.NewError("payment processor not configured").
			WithHint("Card charges require a configured payment processor").
			Mark(ierr.ErrConfiguration)
	}

	inv, err := s.InvoiceRepo.Get(ctx, req.InvoiceID)
	if err != nil {
		return nil, err
	}
	if !inv.Status.IsPayable() {
		return nil, ierr.NewError("invoice is not payable").
			WithHintf("Charges can only be made for issued invoices, current status is %s", inv.Status).
			WithReportableDetails(map[string]any{"invoice_id": inv.ID, "status": inv.Status}).
			Mark(ierr.ErrValidation)
	}

	c, err := s.ClientRepo.Get(ctx, inv.ClientID)
	if err != nil {
		return nil, err
	}
	if c.PaymentMethodRef == "" {
		return nil, ierr.NewError("client has no stored payment method").
			WithHint("Register a payment method reference before charging the client").
			WithReportableDetails(map[string]any{"client_id": c.ID}).
			Mark(ierr.ErrValidation)
	}

	// charge first; the invoice is only marked paid once the processor
	// confirmed the money moved
	result, err := s.Gateway.Charge(ctx, &gateway.ChargeRequest{
		PaymentMethodRef: c.PaymentMethodRef,
		Amount:           inv.TotalAmount,
		Currency:         req.Currency,
		InvoiceID:        inv.ID,
		ClientID:         c.ID,
	})
	if err != nil {
		s.Logger.Errorw("charge failed",
			"invoice_id", inv.ID,
			"client_id", c.ID,
			"error", err,
		)
		return nil, err
	}

	paidAt := time.Now().UTC()
	confirmReq := &dto.ConfirmPaymentRequest{
		InvoiceID:         inv.ID,
		Amount:            inv.TotalAmount,
		PaymentMethodType: types.PaymentMethodTypeCard,
		IdempotencyKey:    req.IdempotencyKey,
		Metadata:          req.Metadata,
	}

	if err := inv.MarkPaid(confirmReq.Amount, confirmReq.PaymentMethodType, paidAt); err != nil {
		return nil, err
	}
	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	difference := lo.FromPtr(inv.PaymentDifference)
	if err := s.payments.applyClientLedger(ctx, inv.ClientID, difference, inv.PeriodMonth()); err != nil {
		s.payments.compensateInvoice(ctx, inv)
		return nil, err
	}

	p := s.payments.buildPaymentRecord(ctx, inv, confirmReq, difference, paidAt, lo.ToPtr(result.ChargeID), idempotency.ScopePayment)
	if err := s.PaymentRepo.Create(ctx, p); err != nil {
		s.Logger.Errorw("failed to record charged payment",
			"invoice_id", inv.ID,
			"charge_id", result.ChargeID,
			"error", err,
		)
		return nil, err
	}

	s.payments.publishReconciled(ctx, events.EventPaymentReconciled, inv, confirmReq.Amount, difference, paidAt)

	s.Logger.Infow("invoice charged and reconciled",
		"invoice_id", inv.ID,
		"client_id", c.ID,
		"charge_id", result.ChargeID,
	)

	return dto.NewPaymentResponse(p), nil
}
