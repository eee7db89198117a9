package utils

import (
	"fmt"
	"regexp"
	"time"
)

// DateLayout is the only accepted wire format for competition and
// exhibition dates.
const DateLayout = "2006-01-02"

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseDate parses a strict YYYY-MM-DD date string. Values that parse under
// a looser layout (e.g. 2025-1-2) are rejected.
func ParseDate(value string) (time.Time, error) {
	if !datePattern.MatchString(value) {
		return time.Time{}, fmt.Errorf("invalid date format %q, use YYYY-MM-DD", value)
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", value)
	}
	return t, nil
}

// ValidateDateRange checks that end is strictly after start.
func ValidateDateRange(start, end time.Time) error {
	if !end.After(start) {
		return fmt.Errorf("end date must be after start date")
	}
	return nil
}
