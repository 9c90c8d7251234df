// Package sanitize provides text sanitization utilities to prevent XSS in
// owner-authored funnel copy that is rendered on public pages.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// Text strips all markup from s and trims surrounding whitespace. Entities
// produced by the policy are decoded again so plain text round-trips.
func Text(s string) string {
	cleaned := strictPolicy.Sanitize(s)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

// TextPtr is a helper for optional string pointers
func TextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	result := Text(*s)
	return &result
}

// OptionalText sanitizes s and collapses an empty result to nil.
func OptionalText(s *string) *string {
	result := TextPtr(s)
	if result == nil || *result == "" {
		return nil
	}
	return result
}
