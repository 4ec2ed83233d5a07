// Package sanitizer provides input normalization functions for event and
// booking data.
//
// Normalization functions are idempotent: applying them to their own output
// produces the same result.
//
// Normalization includes:
//   - Strings: Trim leading/trailing spaces
//   - Slugs: Lowercase, replace runs of non-alphanumerics with "-" - "Hello, World!" becomes "hello-world"
//   - Dates: Any generic date expression becomes an ISO-8601 UTC instant with millisecond precision
//   - Times: 24-hour and 12-hour clock expressions become zero-padded "HH:MM"
package sanitizer
