package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxDesignatorLength bounds designators read from design files and API requests.
const maxDesignatorLength = 64

// ValidateDesignator checks that a caller-supplied designator is usable as a
// document key. Designators end up as JSON object keys and as part of the
// "<cable>.<core>" mapping keys, so whitespace, dots and control characters
// are rejected.
func ValidateDesignator(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "designator cannot be empty")
	}

	if len(id) > maxDesignatorLength {
		return New(ErrCodeInvalidInput, "designator too long (max %d characters)", maxDesignatorLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "designator %q contains whitespace or control characters", id)
		}
	}

	if strings.Contains(id, ".") {
		return New(ErrCodeInvalidInput, "designator %q cannot contain '.'", id)
	}

	return nil
}

// hexColorRegex matches #RRGGBB colors used by bundle labels.
var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ValidateColor validates a label color in #RRGGBB form.
func ValidateColor(color string) error {
	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeInvalidInput, "invalid color %q (want #RRGGBB)", color)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
