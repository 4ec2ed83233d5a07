package sanitizer

import (
	"errors"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ISODateLayout is the canonical stored form of an event date.
const ISODateLayout = "2006-01-02T15:04:05.000Z"

var ErrInvalidDate = errors.New("unrecognized date")

// NormalizeDate parses a generic date expression and returns it as an
// ISO-8601 UTC instant. Expressions without a zone are read as UTC.
func NormalizeDate(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", ErrInvalidDate
	}

	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return "", ErrInvalidDate
	}
	return t.UTC().Format(ISODateLayout), nil
}
