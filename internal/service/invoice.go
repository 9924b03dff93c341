package service

import (
	"context"
	"time"

	"github.com/invoflow/invoflow/internal/api/dto"
	"github.com/invoflow/invoflow/internal/calendar"
	"github.com/invoflow/invoflow/internal/domain/invoice"
	"github.com/invoflow/invoflow/internal/domain/schedule"
	"github.com/invoflow/invoflow/internal/types"
	"github.com/samber/lo"
)

// InvoiceService manages the invoice lifecycle: drafts, issuing, voiding
// and reads with the overdue derivation applied.
type InvoiceService interface {
	CreateInvoice(ctx context.Context, req *dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	FinalizeInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	VoidInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error)
}

type invoiceService struct {
	ServiceParams
	calculator schedule.Calculator
	settings   SettingsService
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{
		ServiceParams: params,
		calculator:    schedule.NewCalculator(),
		settings:      NewSettingsService(params),
	}
}

func (s *invoiceService) CreateInvoice(ctx context.Context, req *dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	inv, err := req.ToInvoice()
	if err != nil {
		return nil, err
	}
	inv.BaseModel = types.GetDefaultBaseModel(ctx)

	if err := inv.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.ClientRepo.Get(ctx, inv.ClientID); err != nil {
		return nil, err
	}

	// issue and due dates derive from the effective settings, using the
	// billing period end as the reference date
	cfgResp, err := s.settings.GetInvoiceSettings(ctx)
	if err != nil {
		return nil, err
	}
	dates, err := s.calculator.Calculate(s.referenceDate(inv), cfgResp.InvoiceSettings)
	if err != nil {
		return nil, err
	}
	inv.IssueDate = dates.IssueDate
	inv.DueDate = dates.DueDate

	if err := s.InvoiceRepo.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.Logger.Infow("invoice created",
		"invoice_id", inv.ID,
		"client_id", inv.ClientID,
		"total_amount", inv.TotalAmount.String(),
	)

	return dto.NewInvoiceResponse(inv, time.Now().UTC()), nil
}

func (s *invoiceService) FinalizeInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := inv.Finalize(); err != nil {
		return nil, err
	}

	if inv.InvoiceNumber == "" {
		yearMonth := inv.IssueDate.Format("200601")
		number, err := s.InvoiceRepo.NextInvoiceNumber(ctx, yearMonth)
		if err != nil {
			return nil, err
		}
		inv.InvoiceNumber = number
	}

	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	s.Logger.Infow("invoice issued",
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"due_date", inv.DueDate.Format(time.DateOnly),
	)

	return dto.NewInvoiceResponse(inv, time.Now().UTC()), nil
}

func (s *invoiceService) VoidInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := inv.Cancel(); err != nil {
		return nil, err
	}

	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	s.Logger.Infow("invoice voided", "invoice_id", inv.ID)
	return dto.NewInvoiceResponse(inv, time.Now().UTC()), nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewInvoiceResponse(inv, time.Now().UTC()), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error) {
	if filter == nil {
		filter = &types.InvoiceFilter{}
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.InvoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &dto.ListInvoicesResponse{
		Items: lo.Map(invoices, func(inv *invoice.Invoice, _ int) *dto.InvoiceResponse {
			return dto.NewInvoiceResponse(inv, now)
		}),
		Total: total,
	}, nil
}

// referenceDate picks the point in time billing dates derive from: the
// recorded period end, otherwise the last day of the billing month
func (s *invoiceService) referenceDate(inv *invoice.Invoice) time.Time {
	if inv.BillingPeriodEnd != nil {
		return *inv.BillingPeriodEnd
	}
	monthStart, err := time.Parse("2006-01", inv.BillingMonth.String())
	if err != nil {
		return time.Now().UTC()
	}
	return calendar.EndOfMonth(monthStart)
}
