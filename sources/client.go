package sources

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/proxy"

	"github.com/kova98/threadtext/matchers"
)

const maxRedirects = 10

// NewHTTPClient builds the upstream client. A socks5:// proxyURL routes all
// dials through that proxy. Redirects may not leave origin.
func NewHTTPClient(proxyURL, origin string, timeout time.Duration) (*http.Client, error) {
	client := &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return errors.Errorf("stopped after %d redirects", maxRedirects)
			}
			if !matchers.MatchesTrustedOrigin(req.URL.String(), origin) {
				return errors.Errorf("redirect to %s is not allowed", req.URL.Host)
			}
			return nil
		},
	}

	if proxyURL == "" {
		return client, nil
	}

	parsedURL, err := url.Parse(proxyURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse proxy url")
	}
	if parsedURL.Scheme != "socks5" {
		slog.Warn("unsupported proxy scheme, connecting directly", "scheme", parsedURL.Scheme)
		return client, nil
	}

	var auth *proxy.Auth
	if parsedURL.User != nil {
		password, _ := parsedURL.User.Password()
		auth = &proxy.Auth{
			User:     parsedURL.User.Username(),
			Password: password,
		}
	}

	dialer, err := proxy.SOCKS5("tcp", parsedURL.Host, auth, proxy.Direct)
	if err != nil {
		return nil, errors.Wrap(err, "create socks5 dialer")
	}

	client.Transport = &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}
			return dialer.Dial(network, addr)
		},
	}
	slog.Info("using SOCKS5 proxy", "proxy", parsedURL.Host)

	return client, nil
}
