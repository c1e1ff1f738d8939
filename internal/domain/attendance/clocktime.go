package attendance

import (
	"fmt"
	"strconv"
	"strings"
)

// ClockTime is a wall-clock time of day in whole minutes after midnight.
type ClockTime int

// ParseClockTime parses HH:MM or HH:MM:SS. Seconds are validated and then ignored.
func ParseClockTime(s string) (ClockTime, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}

	limits := []int{23, 59, 59}
	values := make([]int, len(parts))
	for i, part := range parts {
		if len(part) != 2 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > limits[i] {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
		}
		values[i] = n
	}

	return ClockTime(values[0]*60 + values[1]), nil
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}
