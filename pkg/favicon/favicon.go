// Package favicon derives icon URLs and display names for site tiles.
//
// Icons are never fetched here. A site has an ordered list of candidate
// icon URLs; the first is used by default and a client that fails to load
// one asks for the next.
package favicon

import (
	"net/url"
	"slices"
	"strings"

	apperrors "github.com/GrayFrost/z-tab/pkg/errors"
)

// FallbackName is the site name used when a URL has no usable host.
const FallbackName = "site"

// Candidates returns the icon URLs to try for a site, most reliable first:
// the site's own /favicon.ico, then DuckDuckGo, favicon.im and Google.
// An unparseable URL has no candidates.
func Candidates(rawURL string) []string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil
	}
	host := u.Hostname()
	origin := u.Scheme + "://" + u.Host
	return []string{
		origin + "/favicon.ico",
		"https://icons.duckduckgo.com/ip3/" + host + ".ico",
		"https://favicon.im/" + host,
		"https://www.google.com/s2/favicons?domain=" + url.QueryEscape(host) + "&sz=64",
	}
}

// URL returns the default icon for a site, or "" when there is none.
func URL(rawURL string) string {
	if c := Candidates(rawURL); len(c) > 0 {
		return c[0]
	}
	return ""
}

// Next returns the candidate after current. It reports false when current
// is the last candidate or not a candidate at all, such as a custom icon.
func Next(rawURL, current string) (string, bool) {
	c := Candidates(rawURL)
	i := slices.Index(c, current)
	if i < 0 || i == len(c)-1 {
		return "", false
	}
	return c[i+1], true
}

// SiteName returns a short name for a site: the first label of its host
// without a leading "www.".
func SiteName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return FallbackName
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	name, _, _ := strings.Cut(host, ".")
	if name == "" {
		return FallbackName
	}
	return name
}

// Normalize trims input, adds https:// when no http(s) scheme is given and
// validates the result.
func Normalize(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", apperrors.New(apperrors.ErrCodeInvalidURL, "url is required")
	}
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "https://" + s
	}
	if err := apperrors.ValidateURL(s); err != nil {
		return "", err
	}
	return s, nil
}
