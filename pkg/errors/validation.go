package errors

import (
	"net/url"
	"strings"
	"unicode"
)

const (
	maxTileIDLength = 128
	maxTitleLength  = 200
	maxURLLength    = 2048
)

// ValidateTileID validates a tile id for safety and correctness.
// Ids end up as store keys (file names, redis hash fields, sqlite primary
// keys) and in URL paths, so the rules are conservative:
//   - No empty ids
//   - No control characters or whitespace
//   - No path separators
//   - Maximum length of 128 characters
func ValidateTileID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "tile id cannot be empty")
	}
	if len(id) > maxTileIDLength {
		return New(ErrCodeInvalidInput, "tile id too long (max %d characters)", maxTileIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "tile id contains invalid characters")
		}
	}
	if strings.ContainsAny(id, "/\\") {
		return New(ErrCodeInvalidInput, "tile id cannot contain path separators")
	}
	return nil
}

// ValidateTitle validates a user-supplied tile title.
func ValidateTitle(title string) error {
	if len(title) > maxTitleLength {
		return New(ErrCodeInvalidInput, "title too long (max %d characters)", maxTitleLength)
	}
	for _, r := range title {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "title contains invalid control characters")
		}
	}
	return nil
}

// ValidateURL validates a site URL.
// It ensures the URL parses, has a host and uses http or https.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidURL, "URL cannot be empty")
	}
	if len(rawURL) > maxURLLength {
		return New(ErrCodeInvalidURL, "URL too long (max %d characters)", maxURLLength)
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidURL, "URL must use http or https scheme")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidURL, err, "invalid URL %q", rawURL)
	}
	if u.Hostname() == "" {
		return New(ErrCodeInvalidURL, "URL has no host: %q", rawURL)
	}
	return nil
}
