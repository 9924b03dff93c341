package service

import (
	"context"
	"time"

	"github.com/invoflow/invoflow/internal/api/dto"
	"github.com/invoflow/invoflow/internal/domain/events"
	"github.com/invoflow/invoflow/internal/domain/invoice"
	ierr "github.com/invoflow/invoflow/internal/errors"
	"github.com/invoflow/invoflow/internal/idempotency"
	"github.com/invoflow/invoflow/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// BulkPaymentService confirms a batch of same-client invoices in one call,
// e.g. a single bank transfer covering several billing months.
type BulkPaymentService interface {
	// ConfirmBulkPayments settles each listed invoice at its full amount.
	// Items fail individually, but the batch ledger write is all or
	// nothing: if it cannot be applied every invoice settled in this call
	// is reverted, so a retry of the batch starts clean. Invoices of more
	// than one client are rejected before any mutation.
	ConfirmBulkPayments(ctx context.Context, req *dto.BulkConfirmPaymentsRequest) (*dto.BulkConfirmPaymentsResponse, error)
}

type bulkPaymentService struct {
	ServiceParams
	payments *paymentService
}

func NewBulkPaymentService(params ServiceParams) BulkPaymentService {
	return &bulkPaymentService{
		ServiceParams: params,
		payments:      newPaymentService(params),
	}
}

func (s *bulkPaymentService) ConfirmBulkPayments(ctx context.Context, req *dto.BulkConfirmPaymentsRequest) (*dto.BulkConfirmPaymentsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.ClientRepo.Get(ctx, req.ClientID); err != nil {
		return nil, err
	}

	// load everything up front; a batch that mixes clients or names an
	// unknown invoice is rejected in full before any write
	invoices := make([]*invoice.Invoice, 0, len(req.Items))
	for _, item := range req.Items {
		inv, err := s.InvoiceRepo.Get(ctx, item.InvoiceID)
		if err != nil {
			return nil, err
		}
		if inv.ClientID != req.ClientID {
			return nil, ierr.NewError("invoice belongs to another client").
				WithHint("All invoices in a bulk confirmation must belong to the same client").
				WithReportableDetails(map[string]any{
					"invoice_id":         inv.ID,
					"expected_client_id": req.ClientID,
					"actual_client_id":   inv.ClientID,
				}).
				Mark(ierr.ErrValidation)
		}
		invoices = append(invoices, inv)
	}

	defaultPaidAt := lo.FromPtrOr(req.PaidAt, time.Now().UTC())

	resp := &dto.BulkConfirmPaymentsResponse{
		Succeeded: make([]string, 0, len(invoices)),
		Failed:    make([]dto.BulkConfirmFailure, 0),
	}

	var (
		applied         = make([]*invoice.Invoice, 0, len(invoices))
		paidAts         = make([]time.Time, 0, len(invoices))
		totalDifference = decimal.Zero
		latestPeriod    types.BillingMonth
		totalAmount     = decimal.Zero
	)

	for i, inv := range invoices {
		paidAt := lo.FromPtrOr(req.Items[i].PaidAt, defaultPaidAt)
		amount := inv.TotalAmount

		if err := s.confirmOne(ctx, inv, amount, req.PaymentMethodType, paidAt); err != nil {
			resp.Failed = append(resp.Failed, dto.BulkConfirmFailure{
				InvoiceID: inv.ID,
				Reason:    err.Error(),
			})
			continue
		}

		resp.Succeeded = append(resp.Succeeded, inv.ID)
		applied = append(applied, inv)
		paidAts = append(paidAts, paidAt)
		totalDifference = totalDifference.Add(lo.FromPtr(inv.PaymentDifference))
		latestPeriod = latestPeriod.Max(inv.PeriodMonth())
		totalAmount = totalAmount.Add(amount)
	}

	if len(applied) > 0 {
		// one ledger write covers the whole batch; no invoice may stay
		// paid without its ledger entry, so a failed write reverts every
		// invoice settled above before the error propagates
		if err := s.payments.applyClientLedger(ctx, req.ClientID, totalDifference, latestPeriod); err != nil {
			for _, inv := range applied {
				s.payments.compensateInvoice(ctx, inv)
			}
			return nil, err
		}

		for i, inv := range applied {
			s.recordPayment(ctx, inv, req, paidAts[i])
		}

		s.publishBulkReconciled(ctx, req.ClientID, totalAmount, totalDifference, defaultPaidAt)
	}

	s.Logger.Infow("bulk payment confirmed",
		"client_id", req.ClientID,
		"succeeded", len(resp.Succeeded),
		"failed", len(resp.Failed),
		"period", latestPeriod.String(),
	)

	return resp, nil
}

// confirmOne settles a single invoice at full amount, deferring the client
// ledger and the payment record to the batch-level writes
func (s *bulkPaymentService) confirmOne(ctx context.Context, inv *invoice.Invoice, amount decimal.Decimal, method types.PaymentMethodType, paidAt time.Time) error {
	if err := inv.MarkPaid(amount, method, paidAt); err != nil {
		return err
	}
	return s.InvoiceRepo.Update(ctx, inv)
}

// recordPayment writes the audit record for one settled invoice. The
// invoice and ledger are already settled at this point; a lost record is
// logged, never rolled back for.
func (s *bulkPaymentService) recordPayment(ctx context.Context, inv *invoice.Invoice, req *dto.BulkConfirmPaymentsRequest, paidAt time.Time) {
	p := s.payments.buildPaymentRecord(ctx, inv, &dto.ConfirmPaymentRequest{
		InvoiceID:         inv.ID,
		Amount:            inv.TotalAmount,
		PaymentMethodType: req.PaymentMethodType,
		IdempotencyKey:    req.IdempotencyKey,
	}, lo.FromPtr(inv.PaymentDifference), paidAt, nil, idempotency.ScopeBulkPayment)

	if err := s.PaymentRepo.Create(ctx, p); err != nil {
		s.Logger.Errorw("failed to record payment in bulk confirmation",
			"invoice_id", inv.ID,
			"error", err,
		)
	}
}

func (s *bulkPaymentService) publishBulkReconciled(ctx context.Context, clientID string, amount, difference decimal.Decimal, at time.Time) {
	if s.EventPublisher == nil {
		return
	}

	event := events.NewEvent(events.EventBulkPaymentReconciled, types.GetTenantID(ctx), "", clientID, amount, difference, at)
	if err := s.EventPublisher.Publish(ctx, event); err != nil {
		s.Logger.Errorw("failed to publish bulk reconciliation event",
			"client_id", clientID,
			"error", err,
		)
	}
}
