package storage

import (
	"fmt"
	"regexp"
	"strings"
)

var unsafeKeyChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases s and joins its alphanumeric runs with dashes.
func Slug(s string) string {
	return strings.Trim(unsafeKeyChars.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// ExportKey is where an export's PDF is stored.
func ExportKey(profile, exportID string) string {
	return fmt.Sprintf("exports/%s/%s.pdf", Slug(profile), exportID)
}

// ThumbnailKey is where a theme's preview image is stored.
func ThumbnailKey(themeName string, dark bool) string {
	mode := "light"
	if dark {
		mode = "dark"
	}
	return fmt.Sprintf("thumbnails/%s-%s.jpg", Slug(themeName), mode)
}
