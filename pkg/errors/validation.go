package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds node, edge and instance identifiers.
const maxIDLength = 256

// ValidateID validates an identifier used for nodes, edges or instances.
// The rules are conservative because ids end up in SVG element ids and URLs:
//   - No empty ids
//   - No control characters or null bytes
//   - No whitespace at either end
//   - Maximum length of 256 characters
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "%s id cannot be empty", kind)
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidID, "%s id too long (max %d characters)", kind, maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidID, "%s id contains invalid control characters", kind)
		}
	}
	if strings.TrimSpace(id) != id {
		return New(ErrCodeInvalidID, "%s id %q has leading or trailing whitespace", kind, id)
	}
	return nil
}

// ValidateFormat checks that format is one of the allowed values.
func ValidateFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(allowed, ", "))
}
