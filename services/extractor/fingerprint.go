package extractor

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// Query parameters that only carry attribution state. Stripping them lets the
// same article re-published under a tracking-parameterized URL collapse to
// one fingerprint.
var trackingParams = map[string]struct{}{
	"ref":         {},
	"source":      {},
	"fbclid":      {},
	"gclid":       {},
	"dclid":       {},
	"igshid":      {},
	"mc_cid":      {},
	"mc_eid":      {},
	"cmpid":       {},
	"ocid":        {},
	"smid":        {},
	"at_medium":   {},
	"at_campaign": {},
}

// CanonicalizeURL lowercases scheme and host, drops the fragment and strips
// tracking query parameters (the utm_* family plus the known singletons).
// Remaining parameters are kept in sorted order so equivalent URLs compare
// equal.
func CanonicalizeURL(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Fragment = ""

	query := parsed.Query()
	for key := range query {
		lower := strings.ToLower(key)
		if _, tracking := trackingParams[lower]; tracking || strings.HasPrefix(lower, "utm_") {
			query.Del(key)
		}
	}
	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}

// Fingerprint derives the dedup identity from the canonical URL and a hash of
// the normalized body, so aliased URLs with different content never collide
// while identical content behind tracking parameters does.
func Fingerprint(canonicalURL string, body string) string {
	bodyHash := sha256.Sum256([]byte(normalizeText(body)))
	sum := sha256.Sum256([]byte(canonicalURL + "\n" + hex.EncodeToString(bodyHash[:])))
	return hex.EncodeToString(sum[:])
}
