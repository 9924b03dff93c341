package dto

import (
	"github.com/shopspring/decimal"
)

// DeductibleRequest asks for a percentage-prorated amount
type DeductibleRequest struct {
	FullAmount decimal.Decimal `json:"full_amount" binding:"required"`
	Ratio      int             `json:"ratio"`
}

// DeductibleResponse is the prorated amount
type DeductibleResponse struct {
	FullAmount decimal.Decimal `json:"full_amount"`
	Ratio      int             `json:"ratio"`
	Deductible decimal.Decimal `json:"deductible"`
}
