package service

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/invoflow/invoflow/internal/api/dto"
	"github.com/invoflow/invoflow/internal/domain/events"
	"github.com/invoflow/invoflow/internal/domain/invoice"
	"github.com/invoflow/invoflow/internal/domain/payment"
	ierr "github.com/invoflow/invoflow/internal/errors"
	"github.com/invoflow/invoflow/internal/idempotency"
	"github.com/invoflow/invoflow/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const ledgerWriteMaxRetries = 5

// PaymentService confirms payments against invoices and folds the
// resulting differences into the client ledger.
type PaymentService interface {
	// ConfirmPayment applies one received payment to an invoice. The
	// invoice becomes paid exactly once; the client's accumulated
	// difference and last paid period move in the same confirmation.
	ConfirmPayment(ctx context.Context, req *dto.ConfirmPaymentRequest) (*dto.PaymentResponse, error)

	GetPayment(ctx context.Context, id string) (*dto.PaymentResponse, error)
	ListPayments(ctx context.Context, filter *types.PaymentFilter) (*dto.ListPaymentsResponse, error)
}

type paymentService struct {
	ServiceParams
	idempGen *idempotency.Generator
}

func NewPaymentService(params ServiceParams) PaymentService {
	return newPaymentService(params)
}

// newPaymentService returns the concrete service so the bulk and charge
// services can share the ledger and record helpers
func newPaymentService(params ServiceParams) *paymentService {
	return &paymentService{
		ServiceParams: params,
		idempGen:      idempotency.NewGenerator(),
	}
}

func (s *paymentService) ConfirmPayment(ctx context.Context, req *dto.ConfirmPaymentRequest) (*dto.PaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.InvoiceRepo.Get(ctx, req.InvoiceID)
	if err != nil {
		return nil, err
	}

	paidAt := lo.FromPtrOr(req.PaidAt, time.Now().UTC())

	// the invoice write is the idempotency boundary: a second confirmation
	// of the same invoice fails here with a conflict
	if err := inv.MarkPaid(req.Amount, req.PaymentMethodType, paidAt); err != nil {
		return nil, err
	}
	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	difference := lo.FromPtr(inv.PaymentDifference)
	period := inv.PeriodMonth()

	if err := s.applyClientLedger(ctx, inv.ClientID, difference, period); err != nil {
		s.compensateInvoice(ctx, inv)
		return nil, err
	}

	p := s.buildPaymentRecord(ctx, inv, req, difference, paidAt, nil, idempotency.ScopePayment)
	if err := s.PaymentRepo.Create(ctx, p); err != nil {
		// ledger and invoice are settled; losing the audit record is an
		// error worth surfacing, not rolling back for
		s.Logger.Errorw("failed to record payment after reconciliation",
			"invoice_id", inv.ID,
			"error", err,
		)
		return nil, err
	}

	s.publishReconciled(ctx, events.EventPaymentReconciled, inv, req.Amount, difference, paidAt)

	s.Logger.Infow("payment confirmed",
		"invoice_id", inv.ID,
		"client_id", inv.ClientID,
		"amount", req.Amount.String(),
		"difference", difference.String(),
		"period", period.String(),
	)

	return dto.NewPaymentResponse(p), nil
}

func (s *paymentService) GetPayment(ctx context.Context, id string) (*dto.PaymentResponse, error) {
	p, err := s.PaymentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewPaymentResponse(p), nil
}

func (s *paymentService) ListPayments(ctx context.Context, filter *types.PaymentFilter) (*dto.ListPaymentsResponse, error) {
	if filter == nil {
		filter = &types.PaymentFilter{}
	}

	payments, err := s.PaymentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.PaymentRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListPaymentsResponse{
		Items: lo.Map(payments, func(p *payment.Payment, _ int) *dto.PaymentResponse {
			return dto.NewPaymentResponse(p)
		}),
		Total: total,
	}, nil
}

// applyClientLedger folds a settled difference into the client document
// with a version-conditioned read-modify-write, retried on conflicts.
// Both ledger fields change in the same conditional write so no reader
// ever observes one without the other.
func (s *paymentService) applyClientLedger(ctx context.Context, clientID string, difference decimal.Decimal, period types.BillingMonth) error {
	operation := func() error {
		c, err := s.ClientRepo.Get(ctx, clientID)
		if err != nil {
			return backoff.Permanent(err)
		}

		c.ApplyReconciliation(difference, period)
		c.UpdatedAt = time.Now().UTC()
		c.UpdatedBy = types.GetUserID(ctx)

		if err := s.ClientRepo.UpdateVersioned(ctx, c); err != nil {
			if ierr.IsVersionConflict(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		return nil
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), ledgerWriteMaxRetries),
		ctx,
	)
	if err := backoff.Retry(operation, b); err != nil {
		s.Logger.Errorw("client ledger write failed",
			"client_id", clientID,
			"difference", difference.String(),
			"error", err,
		)
		return err
	}
	return nil
}

// compensateInvoice undoes MarkPaid when the ledger write could not be
// applied, so the invoice does not read paid with no ledger behind it
func (s *paymentService) compensateInvoice(ctx context.Context, inv *invoice.Invoice) {
	inv.RevertPaid()
	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		s.Logger.Errorw("failed to revert invoice after ledger failure",
			"invoice_id", inv.ID,
			"error", err,
		)
	}
}

func (s *paymentService) buildPaymentRecord(
	ctx context.Context,
	inv *invoice.Invoice,
	req *dto.ConfirmPaymentRequest,
	difference decimal.Decimal,
	paidAt time.Time,
	gatewayChargeID *string,
	scope idempotency.Scope,
) *payment.Payment {
	key := req.IdempotencyKey
	if key == "" {
		key = s.idempGen.GenerateKey(scope, map[string]interface{}{
			"invoice_id": inv.ID,
			"amount":     req.Amount.String(),
		})
	}

	return &payment.Payment{
		ID:                types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT),
		ReceiptNumber:     types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_RECEIPT),
		IdempotencyKey:    key,
		InvoiceID:         inv.ID,
		ClientID:          inv.ClientID,
		Amount:            req.Amount,
		Difference:        difference,
		PaymentMethodType: req.PaymentMethodType,
		PaymentStatus:     types.PaymentStatusSucceeded,
		GatewayChargeID:   gatewayChargeID,
		RecordedAt:        types.NewTimestamp(paidAt),
		Metadata:          req.Metadata,
		BaseModel:         types.GetDefaultBaseModel(ctx),
	}
}

// publishReconciled emits the reconciliation event. Publish failures are
// logged and swallowed; notification is best effort per the state machine.
func (s *paymentService) publishReconciled(ctx context.Context, name string, inv *invoice.Invoice, amount, difference decimal.Decimal, at time.Time) {
	if s.EventPublisher == nil {
		return
	}

	event := events.NewEvent(name, types.GetTenantID(ctx), inv.ID, inv.ClientID, amount, difference, at)
	if err := s.EventPublisher.Publish(ctx, event); err != nil {
		s.Logger.Errorw("failed to publish reconciliation event",
			"event_name", name,
			"invoice_id", inv.ID,
			"error", err,
		)
	}
}
