package sanitizer

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	re24Hour = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	re12Hour = regexp.MustCompile(`(?i)^(\d{1,2})(?::(\d{2}))?\s*(am|pm)$`)

	ErrInvalidTime = errors.New("unrecognized time of day")
)

// NormalizeTime accepts "H:MM"/"HH:MM" on a 24-hour clock or "H[:MM] am|pm"
// on a 12-hour clock and returns the zero-padded 24-hour "HH:MM" form.
func NormalizeTime(input string) (string, error) {
	s := strings.TrimSpace(input)

	if m := re24Hour.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour > 23 || minute > 59 {
			return "", ErrInvalidTime
		}
		return formatClock(hour, minute), nil
	}

	if m := re12Hour.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if hour < 1 || hour > 12 || minute > 59 {
			return "", ErrInvalidTime
		}

		pm := strings.EqualFold(m[3], "pm")
		switch {
		case pm && hour != 12:
			hour += 12
		case !pm && hour == 12:
			hour = 0
		}
		return formatClock(hour, minute), nil
	}

	return "", ErrInvalidTime
}

func formatClock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}
