package sources

import (
	"net/url"
	"strings"

	"github.com/kova98/threadtext/matchers"
)

// ToJSONURL turns a pasted reddit link into the JSON endpoint under origin.
// Any reddit host (old., new., np.) is accepted and rewritten. With forceJSON the
// path gets a .json suffix unless it already has one. The query is kept and
// the fragment dropped.
func ToJSONURL(origin, raw string, forceJSON bool) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrMissingURL
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", ErrUntrustedURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrUntrustedURL
	}
	if !matchers.MatchesRedditHost(u.Host) {
		return "", ErrUntrustedURL
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if forceJSON && !strings.HasSuffix(path, ".json") {
		path += ".json"
	}

	out := strings.TrimSuffix(origin, "/") + path
	if u.RawQuery != "" {
		out += "?" + u.RawQuery
	}
	return out, nil
}
