package changelog

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date is a calendar date with no time-of-day component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate builds a Date from its components without validation.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Time returns midnight of the date in the local time zone.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.Local)
}

// IsZero reports whether d is the zero Date, used as "unset".
func (d Date) IsZero() bool {
	return d == Date{}
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to
// or after o.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(int(d.Month), int(o.Month))
	default:
		return cmpInt(d.Day, o.Day)
	}
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool {
	return d.Compare(o) < 0
}

// After reports whether d is strictly later than o.
func (d Date) After(o Date) bool {
	return d.Compare(o) > 0
}

func (d Date) String() string {
	return FormatDate(d)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// FormatDate renders d as M/D/YYYY with no zero padding.
func FormatDate(d Date) string {
	return fmt.Sprintf("%d/%d/%d", int(d.Month), d.Day, d.Year)
}

// ParseDate parses the M/D/YYYY form produced by FormatDate.
// Exactly three slash-separated, all-digit components are required and the
// result must be a real calendar day. Overflowing days such as 2/30/2024 are
// rejected with a MalformedDateError, never rolled into the next month.
func ParseDate(s string) (Date, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return Date{}, &MalformedDateError{Value: s, Reason: "expected M/D/YYYY"}
	}

	var nums [3]int
	for i, p := range parts {
		n, err := parseDigits(p)
		if err != nil {
			return Date{}, &MalformedDateError{Value: s, Reason: err.Error()}
		}
		nums[i] = n
	}

	month, day, year := nums[0], nums[1], nums[2]
	if month < 1 || month > 12 {
		return Date{}, &MalformedDateError{Value: s, Reason: fmt.Sprintf("month %d out of range", month)}
	}

	// time.Date normalizes overflow, so a changed day means it did not exist.
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if day < 1 || t.Day() != day {
		return Date{}, &MalformedDateError{Value: s, Reason: fmt.Sprintf("day %d out of range", day)}
	}

	return Date{Year: year, Month: time.Month(month), Day: day}, nil
}

// parseDigits accepts only ASCII digits, no signs or spaces.
func parseDigits(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty component")
	}
	if len(s) > 9 {
		return 0, fmt.Errorf("component %q too long", s)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non-numeric component %q", s)
		}
	}
	return strconv.Atoi(s)
}
