package utils

import "github.com/microcosm-cc/bluemonday"

var (
	bodyPolicy = bluemonday.UGCPolicy()
	textPolicy = bluemonday.StrictPolicy()
)

// Sanitize cleans rich-text HTML content to prevent XSS while keeping the
// markup the editor UI produces.
func Sanitize(input string) string {
	return bodyPolicy.Sanitize(input)
}

// SanitizeText strips all markup; used for titles, excerpts and categories.
func SanitizeText(input string) string {
	return textPolicy.Sanitize(input)
}
