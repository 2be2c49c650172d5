// Package transport builds the outbound HTTP clients used by backend adapters.
package transport

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/proxy"
)

// ProxyURL parses a proxy address. "socks" is accepted as an alias for "socks5".
// An empty address yields a nil URL.
func ProxyURL(addr string) (*url.URL, error) {
	if addr == "" {
		return nil, nil
	}
	u, err := url.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy address %q: %w", addr, err)
	}
	if u.Scheme == "socks" {
		u.Scheme = "socks5"
	}
	return u, nil
}

// NewDialer returns a dialer that routes through the proxy at addr.
// Loopback destinations are always dialed directly.
func NewDialer(addr string) (proxy.ContextDialer, error) {
	direct := &net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}

	u, err := ProxyURL(addr)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return direct, nil
	}

	viaProxy, err := proxy.FromURL(u, direct)
	if err != nil {
		return nil, fmt.Errorf("failed to build proxy dialer: %w", err)
	}
	ctxDialer, ok := viaProxy.(proxy.ContextDialer)
	if !ok {
		return nil, fmt.Errorf("proxy scheme %q does not support context dialing", u.Scheme)
	}

	return dialerFunc(func(ctx context.Context, network, address string) (net.Conn, error) {
		if isLoopback(address) {
			return direct.DialContext(ctx, network, address)
		}
		return ctxDialer.DialContext(ctx, network, address)
	}), nil
}

// NewHTTPClient returns a client for the given proxy address.
// HTTP(S) proxies are set on the transport; SOCKS proxies go through NewDialer.
func NewHTTPClient(proxyAddr string, timeout time.Duration) (*http.Client, error) {
	tr := &http.Transport{
		TLSHandshakeTimeout: 10 * time.Second,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
	}

	u, err := ProxyURL(proxyAddr)
	if err != nil {
		return nil, err
	}
	if u != nil && (u.Scheme == "http" || u.Scheme == "https") {
		tr.Proxy = func(r *http.Request) (*url.URL, error) {
			if isLoopback(r.URL.Host) {
				return nil, nil
			}
			return u, nil
		}
		proxyAddr = ""
	}

	dialer, err := NewDialer(proxyAddr)
	if err != nil {
		return nil, err
	}
	tr.DialContext = dialer.DialContext

	return &http.Client{Timeout: timeout, Transport: tr}, nil
}

type dialerFunc func(ctx context.Context, network, address string) (net.Conn, error)

func (f dialerFunc) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	return f(ctx, network, address)
}

func isLoopback(address string) bool {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		host = address
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
