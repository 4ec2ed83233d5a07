package sanitizer

import (
	"regexp"
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var reNonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func trimAndLower(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return s
}

func trimDashes(s string) string {
	return strings.Trim(s, "-")
}

// Slugify derives the URL slug of a title.
func Slugify(title string) string {
	p := Pipeline{
		trimAndLower,
		func(s string) string { return reNonSlug.ReplaceAllString(s, "-") },
		trimDashes,
	}
	return p.Apply(title)
}
