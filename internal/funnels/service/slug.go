package service

import (
	"strings"

	"github.com/google/uuid"
)

const maxSlugLength = 80

// Slugify derives a URL slug from free text. Text without any usable
// characters yields a random "funnel-xxxxxxxx" slug.
func Slugify(text string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
		if b.Len() >= maxSlugLength {
			break
		}
	}

	slug := strings.Trim(b.String(), "-")
	if len(slug) > maxSlugLength {
		slug = strings.Trim(slug[:maxSlugLength], "-")
	}
	if slug == "" {
		return "funnel-" + uuid.NewString()[:8]
	}
	return slug
}
