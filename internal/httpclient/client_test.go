package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestNewAppliesDefaults(t *testing.T) {
	client := New(&Config{})
	assert.Equal(t, DefaultTimeout, client.defaultTimeout)
	assert.Equal(t, defaultUserAgent, client.userAgent)

	custom := New(&Config{DefaultTimeout: 5 * time.Second, UserAgent: "dex/1.0"})
	assert.Equal(t, 5*time.Second, custom.defaultTimeout)
	assert.Equal(t, "dex/1.0", custom.userAgent)
	assert.NotNil(t, custom.HTTPClient())
}

func TestGetSetsHeaders(t *testing.T) {
	var ua, accept string
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		accept = r.Header.Get("Accept")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	client := New(&Config{UserAgent: "dex-test"})
	resp, err := client.Get(t.Context(), server.URL)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, "dex-test", ua)
	assert.Equal(t, "application/json", accept)
}

func TestDefaultTimeoutApplies(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	client := New(&Config{DefaultTimeout: 50 * time.Millisecond})
	start := time.Now()
	_, err := client.Get(context.Background(), server.URL)
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestHooksObserveRequests(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	var before, after atomic.Int32
	var status atomic.Int32
	client := New(nil)
	client.SetBeforeRequestHook(func(*http.Request) { before.Add(1) })
	client.SetAfterResponseHook(func(_ *http.Request, resp *http.Response, err error, _ time.Duration) {
		after.Add(1)
		if err == nil {
			status.Store(int32(resp.StatusCode))
		}
	})

	resp, err := client.Get(t.Context(), server.URL)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	assert.Equal(t, int32(1), before.Load())
	assert.Equal(t, int32(1), after.Load())
	assert.Equal(t, int32(http.StatusTeapot), status.Load())
}

func TestDoRejectsNilRequest(t *testing.T) {
	_, err := New(nil).Do(t.Context(), nil)
	require.Error(t, err)
}

func TestStatusErrorMessage(t *testing.T) {
	err := &StatusError{URL: "https://pokeapi.co/api/v2/pokemon/25", StatusCode: 404}
	assert.Equal(t, "unexpected status 404 from https://pokeapi.co/api/v2/pokemon/25", err.Error())
}
