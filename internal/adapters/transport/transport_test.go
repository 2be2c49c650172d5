package transport

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProxyURL(t *testing.T) {
	u, err := ProxyURL("")
	require.NoError(t, err)
	assert.Nil(t, u)

	u, err = ProxyURL("socks://127.0.0.1:1080")
	require.NoError(t, err)
	assert.Equal(t, "socks5", u.Scheme)
	assert.Equal(t, "127.0.0.1:1080", u.Host)

	u, err = ProxyURL("http://proxy.internal:3128")
	require.NoError(t, err)
	assert.Equal(t, "http", u.Scheme)
}

func TestNewDialer_UnknownScheme(t *testing.T) {
	_, err := NewDialer("gopher://proxy.internal:70")
	assert.Error(t, err)
}

func TestNewHTTPClient_LoopbackBypassesProxy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	}))
	defer srv.Close()

	// Nothing listens on this port; only a bypassed dial can succeed.
	client, err := NewHTTPClient("socks5://127.0.0.2:1", 5*time.Second)
	require.NoError(t, err)

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
}

func TestNewHTTPClient_HTTPProxy(t *testing.T) {
	client, err := NewHTTPClient("http://proxy.internal:3128", time.Second)
	require.NoError(t, err)

	tr := client.Transport.(*http.Transport)
	require.NotNil(t, tr.Proxy)

	req := httptest.NewRequest(http.MethodGet, "https://generativelanguage.googleapis.com/", nil)
	u, err := tr.Proxy(req)
	require.NoError(t, err)
	assert.Equal(t, "proxy.internal:3128", u.Host)

	local := httptest.NewRequest(http.MethodGet, "http://127.0.0.1:9000/", nil)
	u, err = tr.Proxy(local)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestIsLoopback(t *testing.T) {
	tests := map[string]bool{
		"127.0.0.1:80":    true,
		"localhost:8080":  true,
		"[::1]:443":       true,
		"10.0.0.1:80":     false,
		"example.com:443": false,
	}
	for addr, want := range tests {
		assert.Equal(t, want, isLoopback(addr), addr)
	}
}
