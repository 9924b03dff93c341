package service

import (
	"context"
	"time"

	"github.com/invoflow/invoflow/internal/api/dto"
	"github.com/invoflow/invoflow/internal/cache"
	"github.com/invoflow/invoflow/internal/domain/schedule"
	"github.com/invoflow/invoflow/internal/domain/settings"
	ierr "github.com/invoflow/invoflow/internal/errors"
	"github.com/invoflow/invoflow/internal/types"
)

const settingsCacheExpiry = 5 * time.Minute

// SettingsService manages the tenant's invoice settings
type SettingsService interface {
	// GetInvoiceSettings returns the tenant's effective settings, falling
	// back to the engine defaults when none were saved
	GetInvoiceSettings(ctx context.Context) (*dto.InvoiceSettingsResponse, error)

	// UpdateInvoiceSettings validates and saves the tenant's settings.
	// A configuration that could ever produce due < issue or issue <
	// closing is rejected here, never at invoice generation time.
	UpdateInvoiceSettings(ctx context.Context, req *dto.UpdateInvoiceSettingsRequest) (*dto.InvoiceSettingsResponse, error)

	// PreviewBillingDates derives closing, issue and due dates from the
	// effective settings for one reference date
	PreviewBillingDates(ctx context.Context, req *dto.PreviewBillingDatesRequest) (*dto.BillingDatesResponse, error)
}

type settingsService struct {
	ServiceParams
	calculator schedule.Calculator
	cache      cache.Cache
}

func NewSettingsService(params ServiceParams) SettingsService {
	return &settingsService{
		ServiceParams: params,
		calculator:    schedule.NewCalculator(),
		cache:         cache.GetInMemoryCache(),
	}
}

func (s *settingsService) GetInvoiceSettings(ctx context.Context) (*dto.InvoiceSettingsResponse, error) {
	cfg, isDefault, err := s.effectiveSettings(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.InvoiceSettingsResponse{InvoiceSettings: cfg, IsDefault: isDefault}, nil
}

func (s *settingsService) UpdateInvoiceSettings(ctx context.Context, req *dto.UpdateInvoiceSettingsRequest) (*dto.InvoiceSettingsResponse, error) {
	cfg := req.ToInvoiceSettings()
	cfg.BaseModel = types.GetDefaultBaseModel(ctx)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := schedule.ValidateOrdering(s.calculator, cfg); err != nil {
		return nil, err
	}

	if err := s.SettingsRepo.Save(ctx, cfg); err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, s.cacheKey(ctx))

	s.Logger.Infow("invoice settings saved",
		"tenant_id", types.GetTenantID(ctx),
		"closing_day_type", cfg.ClosingDayType,
		"issue_day_type", cfg.IssueDayType,
		"due_date_type", cfg.DueDateType,
	)

	return &dto.InvoiceSettingsResponse{InvoiceSettings: cfg}, nil
}

func (s *settingsService) PreviewBillingDates(ctx context.Context, req *dto.PreviewBillingDatesRequest) (*dto.BillingDatesResponse, error) {
	referenceDate, err := req.ParseReferenceDate()
	if err != nil {
		return nil, err
	}

	cfg, _, err := s.effectiveSettings(ctx)
	if err != nil {
		return nil, err
	}

	dates, err := s.calculator.Calculate(referenceDate, cfg)
	if err != nil {
		return nil, err
	}

	return &dto.BillingDatesResponse{
		ClosingDate: dates.ClosingDate.Format(time.DateOnly),
		IssueDate:   dates.IssueDate.Format(time.DateOnly),
		DueDate:     dates.DueDate.Format(time.DateOnly),
	}, nil
}

// effectiveSettings resolves the tenant's settings through the cache,
// falling back to defaults when nothing was saved
func (s *settingsService) effectiveSettings(ctx context.Context) (*settings.InvoiceSettings, bool, error) {
	key := s.cacheKey(ctx)
	if cached, found := s.cache.Get(ctx, key); found {
		if cfg, ok := cached.(*settings.InvoiceSettings); ok {
			return cfg, false, nil
		}
	}

	cfg, err := s.SettingsRepo.Get(ctx)
	if err != nil {
		if ierr.IsNotFound(err) {
			return settings.DefaultInvoiceSettings(), true, nil
		}
		return nil, false, err
	}

	s.cache.Set(ctx, key, cfg, settingsCacheExpiry)
	return cfg, false, nil
}

func (s *settingsService) cacheKey(ctx context.Context) string {
	return cache.GenerateKey(cache.PrefixSettings, types.GetTenantID(ctx))
}
