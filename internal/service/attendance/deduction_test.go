package attendance

import (
	"testing"

	"github.com/biopulse/attendance-backend-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDeductionCalculator_Deduction(t *testing.T) {
	d := NewDeductionCalculator(DefaultAbsencePenalty, DefaultLatePenalty, "INR")

	tests := []struct {
		status    attendance.Status
		isHoliday bool
		want      int64
	}{
		{attendance.StatusLate, false, 250},
		{attendance.StatusAbsent, false, 500},
		{attendance.StatusHoliday, true, 0},
		{attendance.StatusPresent, false, 0},
		{attendance.StatusLeave, false, 0},
		{attendance.StatusAbsent, true, 0},
		{attendance.StatusLate, true, 0},
	}

	for _, tt := range tests {
		got := d.Deduction(tt.status, tt.isHoliday)
		assert.True(t, got.Equal(decimal.NewFromInt(tt.want)), "%s holiday=%v: got %s", tt.status, tt.isHoliday, got)
	}
	assert.Equal(t, "INR", d.Currency())
}

func TestDeductionCalculator_ConfiguredPenalties(t *testing.T) {
	d := NewDeductionCalculator(decimal.RequireFromString("812.50"), decimal.RequireFromString("99.99"), "USD")

	assert.Equal(t, "812.5", d.Deduction(attendance.StatusAbsent, false).String())
	assert.Equal(t, "99.99", d.Deduction(attendance.StatusLate, false).String())
}
