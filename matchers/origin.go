package matchers

import (
	"net/url"
	"strings"
)

// TrustedOrigin is the only upstream the proxy relays to.
const TrustedOrigin = "https://www.reddit.com/"

// MatchesTrustedOrigin returns true if rawURL starts with origin and parses to the
// same scheme and host, without userinfo.
func MatchesTrustedOrigin(rawURL, origin string) bool {
	if !strings.HasPrefix(rawURL, origin) {
		return false
	}

	target, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	trusted, err := url.Parse(origin)
	if err != nil {
		return false
	}

	return target.Scheme == trusted.Scheme &&
		target.Host == trusted.Host &&
		target.User == nil
}

// MatchesRedditHost returns true for reddit.com and any of its subdomains
// (www, old, new, np...). Port and case are ignored.
func MatchesRedditHost(host string) bool {
	host = strings.ToLower(host)
	if h, _, ok := strings.Cut(host, ":"); ok {
		host = h
	}
	host = strings.TrimSuffix(host, ".")

	return host == "reddit.com" || strings.HasSuffix(host, ".reddit.com")
}
