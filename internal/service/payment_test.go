package service

import (
	"strings"
	"testing"
	"time"

	"github.com/invoflow/invoflow/internal/api/dto"
	"github.com/invoflow/invoflow/internal/domain/client"
	"github.com/invoflow/invoflow/internal/domain/events"
	"github.com/invoflow/invoflow/internal/domain/invoice"
	ierr "github.com/invoflow/invoflow/internal/errors"
	"github.com/invoflow/invoflow/internal/testutil"
	"github.com/invoflow/invoflow/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PaymentServiceSuite struct {
	testutil.BaseServiceTestSuite
	service PaymentService
	params  ServiceParams
	client  *client.Client
}

func TestPaymentServiceSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceSuite))
}

func (s *PaymentServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	stores := s.GetStores()
	s.params = ServiceParams{
		Logger:         s.GetLogger(),
		Config:         s.GetConfig(),
		InvoiceRepo:    stores.InvoiceRepo,
		ClientRepo:     stores.ClientRepo,
		PaymentRepo:    stores.PaymentRepo,
		SettingsRepo:   stores.SettingsRepo,
		EventPublisher: s.GetPublisher(),
	}
	s.service = NewPaymentService(s.params)

	s.client = &client.Client{
		ID:                    "client_1",
		Name:                  "Acme Holdings",
		BillingFrequency:      types.BillingFrequencyMonthly,
		CurrentManagementFee:  decimal.NewFromInt(33000),
		AccumulatedDifference: decimal.Zero,
		Version:               1,
		BaseModel:             types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(stores.ClientRepo.Create(s.GetContext(), s.client))
}

func (s *PaymentServiceSuite) issuedInvoice(id string, total decimal.Decimal, periodEnd time.Time) *invoice.Invoice {
	inv := &invoice.Invoice{
		ID:               id,
		ClientID:         s.client.ID,
		InvoiceNumber:    "INV-202501-0001",
		Status:           types.InvoiceStatusIssued,
		TotalAmount:      total,
		BillingPeriodEnd: lo.ToPtr(periodEnd),
		IssueDate:        periodEnd.AddDate(0, 0, 1),
		DueDate:          periodEnd.AddDate(0, 1, 0),
		Version:          1,
		BaseModel:        types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().InvoiceRepo.Create(s.GetContext(), inv))
	return inv
}

func (s *PaymentServiceSuite) TestConfirmPaymentExactDifference() {
	periodEnd := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	inv := s.issuedInvoice("inv_1", decimal.NewFromInt(33000), periodEnd)

	resp, err := s.service.ConfirmPayment(s.GetContext(), &dto.ConfirmPaymentRequest{
		InvoiceID:         inv.ID,
		Amount:            decimal.NewFromInt(30000),
		PaymentMethodType: types.PaymentMethodTypeBankTransfer,
	})
	s.NoError(err)
	s.True(resp.Difference.Equal(decimal.NewFromInt(-3000)), "difference %s", resp.Difference)

	stored, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), inv.ID)
	s.NoError(err)
	s.Equal(types.InvoiceStatusPaid, stored.Status)
	s.True(lo.FromPtr(stored.PaidAmount).Equal(decimal.NewFromInt(30000)))
	s.True(lo.FromPtr(stored.PaymentDifference).Equal(decimal.NewFromInt(-3000)))

	c, err := s.GetStores().ClientRepo.Get(s.GetContext(), s.client.ID)
	s.NoError(err)
	s.True(c.AccumulatedDifference.Equal(decimal.NewFromInt(-3000)))
	s.Equal(types.BillingMonth("2025-01"), c.LastPaidPeriod)
}

func (s *PaymentServiceSuite) TestConfirmPaymentAccumulatesOverMultipleInvoices() {
	amounts := []struct {
		total int64
		paid  int64
	}{
		{33000, 30000},
		{33000, 34000},
		{33000, 33000},
	}

	for i, a := range amounts {
		periodEnd := time.Date(2025, time.Month(i+1), 28, 0, 0, 0, 0, time.UTC)
		inv := s.issuedInvoice(types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE), decimal.NewFromInt(a.total), periodEnd)

		_, err := s.service.ConfirmPayment(s.GetContext(), &dto.ConfirmPaymentRequest{
			InvoiceID:         inv.ID,
			Amount:            decimal.NewFromInt(a.paid),
			PaymentMethodType: types.PaymentMethodTypeBankTransfer,
		})
		s.NoError(err)
	}

	c, err := s.GetStores().ClientRepo.Get(s.GetContext(), s.client.ID)
	s.NoError(err)
	// -3000 + 1000 + 0
	s.True(c.AccumulatedDifference.Equal(decimal.NewFromInt(-2000)), "accumulated %s", c.AccumulatedDifference)
	s.Equal(types.BillingMonth("2025-03"), c.LastPaidPeriod)
}

func (s *PaymentServiceSuite) TestConfirmPaymentLastPaidPeriodMonotonic() {
	late := s.issuedInvoice("inv_late", decimal.NewFromInt(33000), time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC))
	early := s.issuedInvoice("inv_early", decimal.NewFromInt(33000), time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))

	_, err := s.service.ConfirmPayment(s.GetContext(), &dto.ConfirmPaymentRequest{
		InvoiceID:         late.ID,
		Amount:            decimal.NewFromInt(33000),
		PaymentMethodType: types.PaymentMethodTypeBankTransfer,
	})
	s.NoError(err)

	// settling an older period afterwards must not move the period back
	_, err = s.service.ConfirmPayment(s.GetContext(), &dto.ConfirmPaymentRequest{
		InvoiceID:         early.ID,
		Amount:            decimal.NewFromInt(33000),
		PaymentMethodType: types.PaymentMethodTypeBankTransfer,
	})
	s.NoError(err)

	c, err := s.GetStores().ClientRepo.Get(s.GetContext(), s.client.ID)
	s.NoError(err)
	s.Equal(types.BillingMonth("2025-03"), c.LastPaidPeriod)
}

func (s *PaymentServiceSuite) TestConfirmPaymentTwiceConflicts() {
	inv := s.issuedInvoice("inv_1", decimal.NewFromInt(33000), time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))

	req := &dto.ConfirmPaymentRequest{
		InvoiceID:         inv.ID,
		Amount:            decimal.NewFromInt(33000),
		PaymentMethodType: types.PaymentMethodTypeBankTransfer,
	}
	_, err := s.service.ConfirmPayment(s.GetContext(), req)
	s.NoError(err)

	_, err = s.service.ConfirmPayment(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))

	// the ledger must be unchanged by the rejected confirmation
	c, err := s.GetStores().ClientRepo.Get(s.GetContext(), s.client.ID)
	s.NoError(err)
	s.True(c.AccumulatedDifference.IsZero())
}

func (s *PaymentServiceSuite) TestConfirmPaymentNegativeAmountRejected() {
	inv := s.issuedInvoice("inv_1", decimal.NewFromInt(33000), time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))

	_, err := s.service.ConfirmPayment(s.GetContext(), &dto.ConfirmPaymentRequest{
		InvoiceID:         inv.ID,
		Amount:            decimal.NewFromInt(-100),
		PaymentMethodType: types.PaymentMethodTypeBankTransfer,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *PaymentServiceSuite) TestConfirmPaymentDraftRejected() {
	inv := &invoice.Invoice{
		ID:           "inv_draft",
		ClientID:     s.client.ID,
		Status:       types.InvoiceStatusDraft,
		TotalAmount:  decimal.NewFromInt(33000),
		BillingMonth: "2025-01",
		Version:      1,
		BaseModel:    types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().InvoiceRepo.Create(s.GetContext(), inv))

	_, err := s.service.ConfirmPayment(s.GetContext(), &dto.ConfirmPaymentRequest{
		InvoiceID:         inv.ID,
		Amount:            decimal.NewFromInt(33000),
		PaymentMethodType: types.PaymentMethodTypeBankTransfer,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))

	stored, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), inv.ID)
	s.NoError(err)
	s.Equal(types.InvoiceStatusDraft, stored.Status)
}

func (s *PaymentServiceSuite) TestConfirmPaymentOverdueInvoice() {
	inv := s.issuedInvoice("inv_1", decimal.NewFromInt(33000), time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))

	// persist an overdue status the way a read-path sync would
	inv.Status = types.InvoiceStatusOverdue
	s.NoError(s.GetStores().InvoiceRepo.Update(s.GetContext(), inv))

	_, err := s.service.ConfirmPayment(s.GetContext(), &dto.ConfirmPaymentRequest{
		InvoiceID:         inv.ID,
		Amount:            decimal.NewFromInt(33000),
		PaymentMethodType: types.PaymentMethodTypeBankTransfer,
	})
	s.NoError(err)

	stored, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), inv.ID)
	s.NoError(err)
	s.Equal(types.InvoiceStatusPaid, stored.Status)
}

func (s *PaymentServiceSuite) TestConfirmPaymentRecordsPaymentAndEvent() {
	inv := s.issuedInvoice("inv_1", decimal.NewFromInt(33000), time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))

	resp, err := s.service.ConfirmPayment(s.GetContext(), &dto.ConfirmPaymentRequest{
		InvoiceID:         inv.ID,
		Amount:            decimal.NewFromInt(35000),
		PaymentMethodType: types.PaymentMethodTypeCard,
	})
	s.NoError(err)
	s.NotEmpty(resp.IdempotencyKey)
	s.Equal(types.PaymentStatusSucceeded, resp.PaymentStatus)

	payments, err := s.GetStores().PaymentRepo.List(s.GetContext(), &types.PaymentFilter{InvoiceID: inv.ID})
	s.NoError(err)
	s.Len(payments, 1)
	s.True(payments[0].Difference.Equal(decimal.NewFromInt(2000)))
	s.True(strings.HasPrefix(payments[0].ReceiptNumber, types.SHORT_ID_PREFIX_RECEIPT))

	published := s.GetPublisher().Events()
	s.Len(published, 1)
	s.Equal(events.EventPaymentReconciled, published[0].EventName)
	s.Equal(inv.ID, published[0].InvoiceID)
	s.True(published[0].Difference.Equal(decimal.NewFromInt(2000)))
}

func (s *PaymentServiceSuite) TestConfirmPaymentCompensatesWhenLedgerWriteFails() {
	inv := s.issuedInvoice("inv_1", decimal.NewFromInt(33000), time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))

	store := s.GetStores().ClientRepo.(*testutil.InMemoryClientStore)
	store.UpdateVersionedErr = ierr.NewError("ledger store unavailable").
		WithHint("The client document could not be written").
		Mark(ierr.ErrDatabase)

	_, err := s.service.ConfirmPayment(s.GetContext(), &dto.ConfirmPaymentRequest{
		InvoiceID:         inv.ID,
		Amount:            decimal.NewFromInt(30000),
		PaymentMethodType: types.PaymentMethodTypeBankTransfer,
	})
	s.Error(err)
	s.True(ierr.IsDatabase(err))

	// the invoice must not read paid with no ledger entry behind it
	stored, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), inv.ID)
	s.NoError(err)
	s.Equal(types.InvoiceStatusIssued, stored.Status)
	s.Nil(stored.PaidAmount)
	s.Nil(stored.PaymentDifference)

	c, err := s.GetStores().ClientRepo.Get(s.GetContext(), s.client.ID)
	s.NoError(err)
	s.True(c.AccumulatedDifference.IsZero())
	s.True(c.LastPaidPeriod.IsZero())

	payments, err := s.GetStores().PaymentRepo.List(s.GetContext(), &types.PaymentFilter{InvoiceID: inv.ID})
	s.NoError(err)
	s.Empty(payments)
	s.Empty(s.GetPublisher().Events())

	// once the store recovers the same confirmation goes through
	store.UpdateVersionedErr = nil

	resp, err := s.service.ConfirmPayment(s.GetContext(), &dto.ConfirmPaymentRequest{
		InvoiceID:         inv.ID,
		Amount:            decimal.NewFromInt(30000),
		PaymentMethodType: types.PaymentMethodTypeBankTransfer,
	})
	s.NoError(err)
	s.True(resp.Difference.Equal(decimal.NewFromInt(-3000)))

	c, err = s.GetStores().ClientRepo.Get(s.GetContext(), s.client.ID)
	s.NoError(err)
	s.True(c.AccumulatedDifference.Equal(decimal.NewFromInt(-3000)))
	s.Equal(types.BillingMonth("2025-01"), c.LastPaidPeriod)
}

func (s *PaymentServiceSuite) TestConfirmPaymentUnknownInvoice() {
	_, err := s.service.ConfirmPayment(s.GetContext(), &dto.ConfirmPaymentRequest{
		InvoiceID:         "inv_missing",
		Amount:            decimal.NewFromInt(100),
		PaymentMethodType: types.PaymentMethodTypeBankTransfer,
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
