package service

import (
	"context"

	"github.com/invoflow/invoflow/internal/api/dto"
	"github.com/invoflow/invoflow/internal/domain/proration"
)

// ProrationService exposes the proration calculators
type ProrationService interface {
	Deductible(ctx context.Context, req *dto.DeductibleRequest) (*dto.DeductibleResponse, error)
}

type prorationService struct {
	ServiceParams
	calculator proration.Calculator
}

func NewProrationService(params ServiceParams) ProrationService {
	return &prorationService{
		ServiceParams: params,
		calculator:    proration.NewCalculator(),
	}
}

func (s *prorationService) Deductible(ctx context.Context, req *dto.DeductibleRequest) (*dto.DeductibleResponse, error) {
	amount, err := s.calculator.Deductible(req.FullAmount, req.Ratio)
	if err != nil {
		return nil, err
	}
	return &dto.DeductibleResponse{
		FullAmount: req.FullAmount,
		Ratio:      req.Ratio,
		Deductible: amount,
	}, nil
}
