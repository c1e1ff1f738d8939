package attendance

import (
	"testing"

	"github.com/biopulse/attendance-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifier_Classify(t *testing.T) {
	c := NewClassifier(DefaultLateThresholdMinutes)

	tests := []struct {
		name      string
		clockIn   string
		expected  string
		isHoliday bool
		isPresent bool
		want      attendance.Status
	}{
		{name: "on time", clockIn: "09:00", expected: "09:00", isPresent: true, want: attendance.StatusPresent},
		{name: "early", clockIn: "08:10", expected: "09:00", isPresent: true, want: attendance.StatusPresent},
		{name: "within grace", clockIn: "09:14", expected: "09:00", isPresent: true, want: attendance.StatusPresent},
		{name: "exactly fifteen", clockIn: "09:15", expected: "09:00", isPresent: true, want: attendance.StatusPresent},
		{name: "seconds ignored", clockIn: "09:15:59", expected: "09:00:00", isPresent: true, want: attendance.StatusPresent},
		{name: "sixteen late", clockIn: "09:16", expected: "09:00", isPresent: true, want: attendance.StatusLate},
		{name: "twenty late", clockIn: "09:20:00", expected: "09:00", isPresent: true, want: attendance.StatusLate},
		{name: "holiday beats lateness", clockIn: "13:00", expected: "09:00", isHoliday: true, isPresent: true, want: attendance.StatusHoliday},
		{name: "holiday beats absence", expected: "09:00", isHoliday: true, want: attendance.StatusHoliday},
		{name: "absent", expected: "09:00", want: attendance.StatusAbsent},
		{name: "present without clock-in", expected: "09:00", isPresent: true, want: attendance.StatusPresent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Classify(tt.clockIn, tt.expected, tt.isHoliday, tt.isPresent)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifier_CustomThreshold(t *testing.T) {
	c := NewClassifier(0)

	got, err := c.Classify("09:01", "09:00", false, true)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLate, got)

	got, err = c.Classify("09:00:45", "09:00", false, true)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, got)
}

func TestClassifier_MalformedTimes(t *testing.T) {
	c := NewClassifier(DefaultLateThresholdMinutes)

	for _, tc := range [][2]string{
		{"9:00", "09:00"},
		{"09:60", "09:00"},
		{"24:00", "09:00"},
		{"09:00", "nine"},
		{"09:00:00:00", "09:00"},
	} {
		_, err := c.Classify(tc[0], tc[1], false, true)
		assert.ErrorIs(t, err, attendance.ErrInvalidClockTime, "clockIn=%q expected=%q", tc[0], tc[1])
	}
}
