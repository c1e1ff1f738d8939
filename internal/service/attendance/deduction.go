package attendance

import (
	"github.com/biopulse/attendance-backend-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

var (
	DefaultAbsencePenalty = decimal.NewFromInt(500)
	DefaultLatePenalty    = decimal.NewFromInt(250)
)

// DeductionCalculator prices a day's status in whole currency units.
type DeductionCalculator struct {
	absencePenalty decimal.Decimal
	latePenalty    decimal.Decimal
	currency       string
}

func NewDeductionCalculator(absencePenalty, latePenalty decimal.Decimal, currency string) DeductionCalculator {
	return DeductionCalculator{
		absencePenalty: absencePenalty,
		latePenalty:    latePenalty,
		currency:       currency,
	}
}

// Deduction is zero on holidays whatever the status.
func (d DeductionCalculator) Deduction(status attendance.Status, isHoliday bool) decimal.Decimal {
	if isHoliday {
		return decimal.Zero
	}
	switch status {
	case attendance.StatusAbsent:
		return d.absencePenalty
	case attendance.StatusLate:
		return d.latePenalty
	}
	return decimal.Zero
}

func (d DeductionCalculator) Currency() string {
	return d.currency
}
