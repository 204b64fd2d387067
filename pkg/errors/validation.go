package errors

import (
	"strings"
	"unicode"
)

// ValidateSourceFilename validates an uploaded source filename for safety.
// It ensures the filename is a simple basename without path components,
// since filenames arrive from untrusted CLI arguments and HTTP uploads.
func ValidateSourceFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidPath, "source filename cannot be empty")
	}

	if len(filename) > 256 {
		return New(ErrCodeInvalidPath, "source filename too long (max 256 characters)")
	}

	for _, r := range filename {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "source filename contains control characters")
		}
	}

	if strings.ContainsAny(filename, "/\\") || strings.Contains(filename, "..") {
		return New(ErrCodeInvalidPath, "source filename must not contain path components")
	}

	return nil
}
