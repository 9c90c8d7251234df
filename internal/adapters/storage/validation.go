package storage

import (
	"fmt"
	"mime"
	"slices"
	"strings"
)

// allowedContentTypes are the MIME types a lead magnet file may have.
var allowedContentTypes = []string{
	"application/epub+zip",
	"application/pdf",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/zip",
	"audio/mpeg",
	"image/jpeg",
	"image/png",
	"image/webp",
	"text/csv",
	"text/plain",
	"video/mp4",
}

// ValidateContentType accepts an allowed MIME type, ignoring parameters and
// case.
func ValidateContentType(contentType string) error {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !slices.Contains(allowedContentTypes, strings.ToLower(mediaType)) {
		return fmt.Errorf("content type %q is not allowed", contentType)
	}
	return nil
}

// ValidateFileSize rejects empty files and files above the configured limit.
func (s *MinIOService) ValidateFileSize(sizeBytes int64) error {
	switch {
	case sizeBytes <= 0:
		return fmt.Errorf("file size must be greater than 0")
	case sizeBytes > s.maxFileSize:
		return fmt.Errorf("file size %d exceeds the %d byte limit", sizeBytes, s.maxFileSize)
	}
	return nil
}
