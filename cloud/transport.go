package cloud

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// ConfiguredTransport builds a transport honoring the given proxy URL. Empty
// proxy falls back to the usual environment variables. Supported schemes are
// http, https, socks5 and socks5h.
func ConfiguredTransport(proxyURL string) (*http.Transport, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSHandshakeTimeout = 15 * time.Second

	proxyURL = strings.TrimSpace(proxyURL)
	if len(proxyURL) == 0 {
		transport.Proxy = http.ProxyFromEnvironment
		return transport, nil
	}
	parsed, err := url.Parse(proxyURL)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy %q: %w", proxyURL, err)
	}
	switch parsed.Scheme {
	case "http", "https":
		transport.Proxy = http.ProxyURL(parsed)
	case "socks5", "socks5h":
		dialer, err := proxy.FromURL(parsed, &net.Dialer{Timeout: 30 * time.Second})
		if err != nil {
			return nil, fmt.Errorf("invalid socks proxy %q: %w", proxyURL, err)
		}
		transport.Proxy = nil
		if contextual, ok := dialer.(proxy.ContextDialer); ok {
			transport.DialContext = contextual.DialContext
		} else {
			transport.DialContext = func(_ context.Context, network, address string) (net.Conn, error) {
				return dialer.Dial(network, address)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported proxy scheme %q in %q", parsed.Scheme, proxyURL)
	}
	return transport, nil
}
