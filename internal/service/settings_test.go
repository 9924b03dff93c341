package service

import (
	"testing"

	"github.com/invoflow/invoflow/internal/api/dto"
	ierr "github.com/invoflow/invoflow/internal/errors"
	"github.com/invoflow/invoflow/internal/testutil"
	"github.com/invoflow/invoflow/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type SettingsServiceSuite struct {
	testutil.BaseServiceTestSuite
	service SettingsService
}

func TestSettingsServiceSuite(t *testing.T) {
	suite.Run(t, new(SettingsServiceSuite))
}

func (s *SettingsServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	stores := s.GetStores()
	s.service = NewSettingsService(ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		InvoiceRepo:  stores.InvoiceRepo,
		ClientRepo:   stores.ClientRepo,
		PaymentRepo:  stores.PaymentRepo,
		SettingsRepo: stores.SettingsRepo,
	})
}

func (s *SettingsServiceSuite) TestGetDefaultsWhenUnset() {
	resp, err := s.service.GetInvoiceSettings(s.GetContext())
	s.NoError(err)
	s.True(resp.IsDefault)
	s.Equal(types.ClosingDayTypeEndOfMonth, resp.ClosingDayType)
	s.Equal(types.IssueDayTypeFirstOfNextMonth, resp.IssueDayType)
	s.Equal(types.DueDateTypeEndOfIssueMonth, resp.DueDateType)
}

func (s *SettingsServiceSuite) TestUpdateAndGetRoundTrip() {
	_, err := s.service.UpdateInvoiceSettings(s.GetContext(), &dto.UpdateInvoiceSettingsRequest{
		ClosingDayType: types.ClosingDayTypeSpecificDay,
		ClosingDay:     lo.ToPtr(20),
		IssueDayType:   types.IssueDayTypeNextDay,
		DueDateType:    types.DueDateTypeDaysAfterIssue,
		DueDateDays:    lo.ToPtr(30),
	})
	s.NoError(err)

	resp, err := s.service.GetInvoiceSettings(s.GetContext())
	s.NoError(err)
	s.False(resp.IsDefault)
	s.Equal(types.ClosingDayTypeSpecificDay, resp.ClosingDayType)
	s.Equal(20, lo.FromPtr(resp.ClosingDay))
	s.Equal(30, lo.FromPtr(resp.DueDateDays))
}

func (s *SettingsServiceSuite) TestUpdateRejectsMissingCompanionField() {
	_, err := s.service.UpdateInvoiceSettings(s.GetContext(), &dto.UpdateInvoiceSettingsRequest{
		ClosingDayType: types.ClosingDayTypeSpecificDay,
		IssueDayType:   types.IssueDayTypeNextDay,
		DueDateType:    types.DueDateTypeEndOfIssueMonth,
	})
	s.Error(err)
	s.True(ierr.IsConfiguration(err))
}

func (s *SettingsServiceSuite) TestUpdateRejectsOrderingViolation() {
	// issue on the 20th of the month after closing, due on the 10th of
	// the issue month: due would precede issue on every reference date
	_, err := s.service.UpdateInvoiceSettings(s.GetContext(), &dto.UpdateInvoiceSettingsRequest{
		ClosingDayType: types.ClosingDayTypeEndOfMonth,
		IssueDayType:   types.IssueDayTypeSpecificDay,
		IssueDay:       lo.ToPtr(20),
		DueDateType:    types.DueDateTypeSpecificDay,
		DueDateDay:     lo.ToPtr(10),
	})
	s.Error(err)
	s.True(ierr.IsConfiguration(err))

	// the bad configuration must not have been saved
	resp, err := s.service.GetInvoiceSettings(s.GetContext())
	s.NoError(err)
	s.True(resp.IsDefault)
}

func (s *SettingsServiceSuite) TestPreviewBillingDates() {
	_, err := s.service.UpdateInvoiceSettings(s.GetContext(), &dto.UpdateInvoiceSettingsRequest{
		ClosingDayType: types.ClosingDayTypeEndOfMonth,
		IssueDayType:   types.IssueDayTypeFirstOfNextMonth,
		DueDateType:    types.DueDateTypeEndOfIssueMonth,
	})
	s.NoError(err)

	resp, err := s.service.PreviewBillingDates(s.GetContext(), &dto.PreviewBillingDatesRequest{
		ReferenceDate: "2025-01-31",
	})
	s.NoError(err)
	s.Equal("2025-01-31", resp.ClosingDate)
	s.Equal("2025-02-01", resp.IssueDate)
	s.Equal("2025-02-28", resp.DueDate)
}

func (s *SettingsServiceSuite) TestPreviewRejectsBadDate() {
	_, err := s.service.PreviewBillingDates(s.GetContext(), &dto.PreviewBillingDatesRequest{
		ReferenceDate: "31/01/2025",
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}
