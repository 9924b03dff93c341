package service

import (
	"testing"
	"time"

	"github.com/invoflow/invoflow/internal/api/dto"
	"github.com/invoflow/invoflow/internal/domain/client"
	"github.com/invoflow/invoflow/internal/domain/invoice"
	ierr "github.com/invoflow/invoflow/internal/errors"
	"github.com/invoflow/invoflow/internal/testutil"
	"github.com/invoflow/invoflow/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PaymentProcessorSuite struct {
	testutil.BaseServiceTestSuite
	service PaymentProcessorService
	client  *client.Client
}

func TestPaymentProcessorSuite(t *testing.T) {
	suite.Run(t, new(PaymentProcessorSuite))
}

func (s *PaymentProcessorSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	stores := s.GetStores()
	s.service = NewPaymentProcessorService(ServiceParams{
		Logger:         s.GetLogger(),
		Config:         s.GetConfig(),
		InvoiceRepo:    stores.InvoiceRepo,
		ClientRepo:     stores.ClientRepo,
		PaymentRepo:    stores.PaymentRepo,
		SettingsRepo:   stores.SettingsRepo,
		EventPublisher: s.GetPublisher(),
		Gateway:        s.GetGateway(),
	})

	s.client = &client.Client{
		ID:                   "client_1",
		Name:                 "Acme Holdings",
		BillingFrequency:     types.BillingFrequencyMonthly,
		CurrentManagementFee: decimal.NewFromInt(33000),
		PaymentMethodRef:     "pm_stored",
		Version:              1,
		BaseModel:            types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(stores.ClientRepo.Create(s.GetContext(), s.client))
}

func (s *PaymentProcessorSuite) issuedInvoice(id string) *invoice.Invoice {
	periodEnd := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	inv := &invoice.Invoice{
		ID:               id,
		ClientID:         s.client.ID,
		Status:           types.InvoiceStatusIssued,
		TotalAmount:      decimal.NewFromInt(33000),
		BillingPeriodEnd: lo.ToPtr(periodEnd),
		IssueDate:        periodEnd.AddDate(0, 0, 1),
		DueDate:          periodEnd.AddDate(0, 1, 0),
		Version:          1,
		BaseModel:        types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().InvoiceRepo.Create(s.GetContext(), inv))
	return inv
}

func (s *PaymentProcessorSuite) TestChargeReconcilesFullAmount() {
	inv := s.issuedInvoice("inv_1")

	resp, err := s.service.ChargeInvoice(s.GetContext(), &dto.ChargePaymentRequest{
		InvoiceID: inv.ID,
	})
	s.NoError(err)
	s.NotNil(resp.GatewayChargeID)
	s.Equal(types.PaymentMethodTypeCard, resp.PaymentMethodType)
	s.True(resp.Amount.Equal(inv.TotalAmount))
	s.True(resp.Difference.IsZero())

	requests := s.GetGateway().Requests()
	s.Len(requests, 1)
	s.Equal("pm_stored", requests[0].PaymentMethodRef)
	s.True(requests[0].Amount.Equal(inv.TotalAmount))

	stored, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), inv.ID)
	s.NoError(err)
	s.Equal(types.InvoiceStatusPaid, stored.Status)
}

func (s *PaymentProcessorSuite) TestDeclinedChargeLeavesInvoiceUnpaid() {
	inv := s.issuedInvoice("inv_1")

	s.GetGateway().ChargeErr = ierr.NewError("payment method declined").
		WithHint("The payment processor declined the charge").
		Mark(ierr.ErrGateway)

	_, err := s.service.ChargeInvoice(s.GetContext(), &dto.ChargePaymentRequest{
		InvoiceID: inv.ID,
	})
	s.Error(err)
	s.True(ierr.IsGateway(err))

	stored, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), inv.ID)
	s.NoError(err)
	s.Equal(types.InvoiceStatusIssued, stored.Status)
	s.Nil(stored.PaidAmount)

	c, err := s.GetStores().ClientRepo.Get(s.GetContext(), s.client.ID)
	s.NoError(err)
	s.True(c.AccumulatedDifference.IsZero())
}

func (s *PaymentProcessorSuite) TestChargeWithoutStoredMethodRejected() {
	s.client.PaymentMethodRef = ""
	s.NoError(s.GetStores().ClientRepo.Update(s.GetContext(), s.client))

	inv := s.issuedInvoice("inv_1")

	_, err := s.service.ChargeInvoice(s.GetContext(), &dto.ChargePaymentRequest{
		InvoiceID: inv.ID,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
	s.Empty(s.GetGateway().Requests())
}
