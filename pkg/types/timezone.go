package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// OffsetLabel renders a UTC offset in hours as "UTC+5:30" / "UTC-3:00"
func OffsetLabel(hours float64) string {
	sign := "+"
	if hours < 0 {
		sign = "-"
	}
	abs := math.Abs(hours)
	h := int(abs)
	m := int(math.Round((abs - float64(h)) * 60))
	if m == 60 {
		h++
		m = 0
	}
	return fmt.Sprintf("UTC%s%d:%02d", sign, h, m)
}

// ParseOffset accepts either a label produced by OffsetLabel or a plain
// number of hours ("5.5", "-3") and returns the offset in hours.
func ParseOffset(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(strings.ToUpper(s), "UTC") {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidLocality, s)
		}
		return v, nil
	}

	rest := s[3:]
	if rest == "" {
		return 0, nil
	}
	sign := 1.0
	switch rest[0] {
	case '+':
	case '-':
		sign = -1
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidLocality, s)
	}

	hm := strings.SplitN(rest[1:], ":", 2)
	h, err := strconv.ParseFloat(hm[0], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLocality, s)
	}
	var m float64
	if len(hm) == 2 {
		m, err = strconv.ParseFloat(hm[1], 64)
		if err != nil || m < 0 || m >= 60 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidLocality, s)
		}
	}
	return sign * (h + m/60), nil
}

// OffsetKey normalizes an offset to the key used by the activity dataset:
// "0" for UTC, "5.0" for whole hours and "5.5" / "-3.75" otherwise.
func OffsetKey(hours float64) string {
	if hours == 0 {
		return "0"
	}
	if hours == math.Trunc(hours) {
		return strconv.FormatFloat(hours, 'f', 1, 64)
	}
	return strconv.FormatFloat(hours, 'f', -1, 64)
}
