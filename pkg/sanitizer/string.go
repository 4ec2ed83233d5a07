package sanitizer

import (
	"strings"
)

// TrimText strips surrounding whitespace from a free-text field. Inner
// whitespace is left alone so descriptions keep their line breaks.
func TrimText(s string) string {
	return strings.TrimSpace(s)
}

func TrimTextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := TrimText(*s)
	return &v
}

// NormalizeEmail trims surrounding whitespace only; case is preserved.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
