package crawler

import (
	"crypto/sha1"
	"encoding/hex"
	"net/url"
)

// Fingerprint returns a query-insensitive identifier for rawURL: the
// lowercase hex SHA-1 digest of the URL serialized without its query string.
// URLs differing only by query parameters share a fingerprint.
//
// An empty path is serialized as "/", so "https://example.com" and
// "https://example.com/" are the same page.
func Fingerprint(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	u.RawQuery = ""
	u.ForceQuery = false
	if u.Host != "" && u.Path == "" && u.Opaque == "" {
		u.Path = "/"
	}

	sum := sha1.Sum([]byte(u.String()))
	return hex.EncodeToString(sum[:]), nil
}
