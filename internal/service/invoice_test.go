package service

import (
	"testing"
	"time"

	"github.com/invoflow/invoflow/internal/api/dto"
	"github.com/invoflow/invoflow/internal/domain/client"
	ierr "github.com/invoflow/invoflow/internal/errors"
	"github.com/invoflow/invoflow/internal/testutil"
	"github.com/invoflow/invoflow/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type InvoiceServiceSuite struct {
	testutil.BaseServiceTestSuite
	service InvoiceService
	client  *client.Client
}

func TestInvoiceServiceSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceSuite))
}

func (s *InvoiceServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	stores := s.GetStores()
	s.service = NewInvoiceService(ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		InvoiceRepo:  stores.InvoiceRepo,
		ClientRepo:   stores.ClientRepo,
		PaymentRepo:  stores.PaymentRepo,
		SettingsRepo: stores.SettingsRepo,
	})

	s.client = &client.Client{
		ID:                   "client_1",
		Name:                 "Acme Holdings",
		BillingFrequency:     types.BillingFrequencyMonthly,
		CurrentManagementFee: decimal.NewFromInt(33000),
		Version:              1,
		BaseModel:            types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(stores.ClientRepo.Create(s.GetContext(), s.client))
}

func (s *InvoiceServiceSuite) TestCreateDerivesDatesFromSettings() {
	periodEnd := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	resp, err := s.service.CreateInvoice(s.GetContext(), &dto.CreateInvoiceRequest{
		ClientID:         s.client.ID,
		TotalAmount:      decimal.NewFromInt(33000),
		BillingPeriodEnd: lo.ToPtr(periodEnd),
	})
	s.NoError(err)
	s.Equal(types.InvoiceStatusDraft, resp.Status)

	// defaults: issue first of next month, due end of issue month
	s.Equal("2025-02-01", resp.IssueDate.Format(time.DateOnly))
	s.Equal("2025-02-28", resp.DueDate.Format(time.DateOnly))
}

func (s *InvoiceServiceSuite) TestCreateRejectsUnknownClient() {
	_, err := s.service.CreateInvoice(s.GetContext(), &dto.CreateInvoiceRequest{
		ClientID:     "client_missing",
		TotalAmount:  decimal.NewFromInt(33000),
		BillingMonth: "2025-01",
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceSuite) TestFinalizeAssignsSequentialNumbers() {
	periodEnd := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	var numbers []string
	for i := 0; i < 2; i++ {
		created, err := s.service.CreateInvoice(s.GetContext(), &dto.CreateInvoiceRequest{
			ClientID:         s.client.ID,
			TotalAmount:      decimal.NewFromInt(33000),
			BillingPeriodEnd: lo.ToPtr(periodEnd),
		})
		s.NoError(err)

		issued, err := s.service.FinalizeInvoice(s.GetContext(), created.ID)
		s.NoError(err)
		s.Equal(types.InvoiceStatusIssued, issued.Status)
		numbers = append(numbers, issued.InvoiceNumber)
	}

	s.Equal("INV-202502-0001", numbers[0])
	s.Equal("INV-202502-0002", numbers[1])
}

func (s *InvoiceServiceSuite) TestFinalizeTwiceRejected() {
	created, err := s.service.CreateInvoice(s.GetContext(), &dto.CreateInvoiceRequest{
		ClientID:     s.client.ID,
		TotalAmount:  decimal.NewFromInt(33000),
		BillingMonth: "2025-01",
	})
	s.NoError(err)

	_, err = s.service.FinalizeInvoice(s.GetContext(), created.ID)
	s.NoError(err)

	_, err = s.service.FinalizeInvoice(s.GetContext(), created.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *InvoiceServiceSuite) TestVoidPaidInvoiceRejected() {
	created, err := s.service.CreateInvoice(s.GetContext(), &dto.CreateInvoiceRequest{
		ClientID:     s.client.ID,
		TotalAmount:  decimal.NewFromInt(33000),
		BillingMonth: "2025-01",
	})
	s.NoError(err)
	_, err = s.service.FinalizeInvoice(s.GetContext(), created.ID)
	s.NoError(err)

	inv, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), created.ID)
	s.NoError(err)
	s.NoError(inv.MarkPaid(decimal.NewFromInt(33000), types.PaymentMethodTypeBankTransfer, time.Now().UTC()))
	s.NoError(s.GetStores().InvoiceRepo.Update(s.GetContext(), inv))

	_, err = s.service.VoidInvoice(s.GetContext(), created.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *InvoiceServiceSuite) TestListReportsOverdue() {
	created, err := s.service.CreateInvoice(s.GetContext(), &dto.CreateInvoiceRequest{
		ClientID:         s.client.ID,
		TotalAmount:      decimal.NewFromInt(33000),
		BillingPeriodEnd: lo.ToPtr(time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC)),
	})
	s.NoError(err)
	_, err = s.service.FinalizeInvoice(s.GetContext(), created.ID)
	s.NoError(err)

	resp, err := s.service.ListInvoices(s.GetContext(), &types.InvoiceFilter{ClientID: s.client.ID})
	s.NoError(err)
	s.Len(resp.Items, 1)
	// stored status stays issued, the derived status reports overdue
	s.Equal(types.InvoiceStatusIssued, resp.Items[0].Status)
	s.Equal(types.InvoiceStatusOverdue, resp.Items[0].EffectiveStatus)
}
