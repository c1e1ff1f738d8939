package attendance

import (
	"github.com/biopulse/attendance-backend-go/internal/domain/attendance"
)

// DefaultLateThresholdMinutes is how late a clock-in may be and still count as present.
const DefaultLateThresholdMinutes = 15

// Classifier maps one employee-day to a status.
type Classifier struct {
	thresholdMinutes int
}

func NewClassifier(thresholdMinutes int) Classifier {
	return Classifier{thresholdMinutes: thresholdMinutes}
}

// Classify applies the rules in order: holiday, absent, present without a clock-in,
// then late when clockIn is more than the threshold past expected. An empty clockIn
// means no clock-in was recorded. Both times are HH:MM[:SS]; seconds are ignored.
func (c Classifier) Classify(clockIn, expected string, isHoliday, isPresent bool) (attendance.Status, error) {
	if isHoliday {
		return attendance.StatusHoliday, nil
	}
	if !isPresent {
		return attendance.StatusAbsent, nil
	}
	if clockIn == "" {
		return attendance.StatusPresent, nil
	}

	actual, err := attendance.ParseClockTime(clockIn)
	if err != nil {
		return "", err
	}
	want, err := attendance.ParseClockTime(expected)
	if err != nil {
		return "", err
	}

	if int(actual-want) > c.thresholdMinutes {
		return attendance.StatusLate, nil
	}
	return attendance.StatusPresent, nil
}
