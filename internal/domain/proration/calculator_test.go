package proration

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ProrationCalculatorSuite struct {
	suite.Suite
	calc Calculator
}

func TestProrationCalculatorSuite(t *testing.T) {
	suite.Run(t, new(ProrationCalculatorSuite))
}

func (s *ProrationCalculatorSuite) SetupTest() {
	s.calc = NewCalculator()
}

func (s *ProrationCalculatorSuite) TestDeductible() {
	testCases := []struct {
		name       string
		fullAmount string
		ratio      int
		expected   string
	}{
		{
			name:       "fifty_percent",
			fullAmount: "33000",
			ratio:      50,
			expected:   "16500",
		},
		{
			name:       "zero_ratio_yields_zero",
			fullAmount: "33000",
			ratio:      0,
			expected:   "0",
		},
		{
			name:       "full_ratio_is_identity",
			fullAmount: "33000",
			ratio:      100,
			expected:   "33000",
		},
		{
			name:       "rounds_half_up",
			fullAmount: "333",
			ratio:      50,
			expected:   "167",
		},
		{
			name:       "rounds_down_below_half",
			fullAmount: "1000",
			ratio:      33,
			expected:   "330",
		},
		{
			name:       "zero_amount",
			fullAmount: "0",
			ratio:      80,
			expected:   "0",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			amount := decimal.RequireFromString(tc.fullAmount)
			got, err := s.calc.Deductible(amount, tc.ratio)
			s.NoError(err)
			s.True(got.Equal(decimal.RequireFromString(tc.expected)),
				"expected %s got %s", tc.expected, got)
		})
	}
}

func (s *ProrationCalculatorSuite) TestDeductibleInvalidRatio() {
	_, err := s.calc.Deductible(decimal.NewFromInt(1000), -1)
	s.Error(err)

	_, err = s.calc.Deductible(decimal.NewFromInt(1000), 101)
	s.Error(err)
}

func (s *ProrationCalculatorSuite) TestDeductibleNegativeAmount() {
	_, err := s.calc.Deductible(decimal.NewFromInt(-100), 50)
	s.Error(err)
}

func (s *ProrationCalculatorSuite) TestPeriodCredit() {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	// change mid-month, 15 of 31 days remain
	got, err := s.calc.PeriodCredit(decimal.NewFromInt(31000),
		start, end, time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC))
	s.NoError(err)
	s.True(got.Equal(decimal.NewFromInt(15000)), "got %s", got)

	// change on the first day credits the whole period
	got, err = s.calc.PeriodCredit(decimal.NewFromInt(31000), start, end, start)
	s.NoError(err)
	s.True(got.Equal(decimal.NewFromInt(31000)))

	// change after the period ended credits nothing
	got, err = s.calc.PeriodCredit(decimal.NewFromInt(31000),
		start, end, time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC))
	s.NoError(err)
	s.True(got.IsZero())
}

func (s *ProrationCalculatorSuite) TestPeriodCreditInvalidPeriod() {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err := s.calc.PeriodCredit(decimal.NewFromInt(1000), start, start, start)
	s.Error(err)
}
