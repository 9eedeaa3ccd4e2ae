package event

import (
	"fmt"
)

// interval is a half-open [start, end) slice of one day, in minutes
// since midnight.
type interval struct {
	start int
	end   int
}

// overlaps reports whether two half-open intervals intersect. Touching
// intervals (one ends exactly where the other starts) do not overlap.
func (iv interval) overlaps(other interval) bool {
	return iv.start < other.end && iv.end > other.start
}

// minuteOfDay parses a zero-padded 24-hour HH:MM string into minutes
// since midnight. Comparing raw time strings only works when the format
// is strictly fixed-width, so the format is enforced here instead of
// assumed.
func minuteOfDay(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}

	hour, err := twoDigits(s[0], s[1])
	if err != nil || hour > 23 {
		return 0, fmt.Errorf("invalid time %q: bad hour", s)
	}

	minute, err := twoDigits(s[3], s[4])
	if err != nil || minute > 59 {
		return 0, fmt.Errorf("invalid time %q: bad minute", s)
	}

	return hour*60 + minute, nil
}

func twoDigits(hi, lo byte) (int, error) {
	if hi < '0' || hi > '9' || lo < '0' || lo > '9' {
		return 0, fmt.Errorf("not a digit")
	}
	return int(hi-'0')*10 + int(lo-'0'), nil
}

func parseInterval(start, end string) (interval, error) {
	s, err := minuteOfDay(start)
	if err != nil {
		return interval{}, err
	}
	e, err := minuteOfDay(end)
	if err != nil {
		return interval{}, err
	}
	return interval{start: s, end: e}, nil
}
