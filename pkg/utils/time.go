package utils

import (
	"fmt"
	"time"
)

// ParseOptionalTime parses s as RFC3339 or a plain YYYY-MM-DD date.
// An empty string yields nil.
func ParseOptionalTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid time %q: expected RFC3339 or YYYY-MM-DD", s)
	}
	return &t, nil
}
