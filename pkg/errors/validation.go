package errors

import (
	"net/url"
	"strings"
	"unicode"
)

// ValidateLabel validates a container label used in a search-by-label request.
//
// Rules:
//   - No empty labels
//   - No control characters
//   - Maximum length of 256 characters
func ValidateLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return New(ErrCodeInvalidSource, "container label cannot be empty")
	}

	if len(label) > 256 {
		return New(ErrCodeInvalidSource, "container label too long (max 256 characters)")
	}

	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSource, "container label contains invalid control characters")
		}
	}

	return nil
}

// ValidateSourcePath validates the path of a static data file.
//
// Absolute paths are allowed (the CLI passes whatever the user typed), but
// null bytes and control characters are not.
func ValidateSourcePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidSource, "path cannot be empty")
	}

	const maxPathLength = 1024
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidSource, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidSource, "path contains invalid characters")
		}
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

// ValidateLink checks a node link before it is written into a clickable
// output. Absolute links must use http or https; relative references
// (a path, query or fragment) are allowed.
func ValidateLink(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "malformed link")
	}
	if u.Scheme == "" {
		if rawURL == "" || strings.IndexFunc(rawURL, unicode.IsSpace) >= 0 {
			return New(ErrCodeInvalidInput, "link cannot be empty or contain spaces")
		}
		return nil
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return nil
	}
	return New(ErrCodeInvalidInput, "link scheme %q is not allowed", u.Scheme)
}
