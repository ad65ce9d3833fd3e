package validation

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Validate is a shared validator instance
var Validate *validator.Validate

func init() {
	Validate = validator.New()
}

// SanitizeText trims whitespace and strips control characters from free-form
// text input (place names and addresses).
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}
