// Package urls normalizes result URLs before they are handed to the
// aggregator, so the same destination compares equal across engines.
package urls

import (
	"net/url"
	"strings"
)

// Normalize canonicalizes a result URL: surrounding whitespace is trimmed,
// the fragment is removed and utm_* tracking parameters are stripped.
// Unparsable input is returned trimmed but otherwise untouched, and
// normalizing an already-normalized URL is a no-op.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Fragment = ""

	if u.RawQuery != "" {
		q := u.Query()
		stripped := false
		for key := range q {
			if strings.HasPrefix(key, "utm_") {
				q.Del(key)
				stripped = true
			}
		}
		if stripped {
			u.RawQuery = q.Encode()
		}
	}

	return u.String()
}
