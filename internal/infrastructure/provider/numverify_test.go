package provider_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phonerisk/phonerisk/internal/infrastructure/provider"
)

func TestNumverifyClient_Lookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("access_key"))
		assert.Equal(t, "+16502530000", q.Get("number"))
		assert.Equal(t, "1", q.Get("format"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"valid": true,
			"international_format": "+16502530000",
			"local_format": "6502530000",
			"country_code": "US",
			"country_name": "United States of America",
			"location": "Novato",
			"carrier": "AT&T Mobility LLC",
			"line_type": "mobile"
		}`))
	}))
	defer server.Close()

	client := provider.NewNumverifyClient("test-key", server.URL, time.Second, discardLogger())

	ev, ok := client.Lookup(context.Background(), testPhone).Get()

	require.True(t, ok)
	assert.True(t, ev.Valid)
	assert.Equal(t, "AT&T Mobility LLC", ev.Carrier)
	assert.Equal(t, "mobile", ev.LineType)
	assert.Equal(t, "Novato", ev.Location)
	assert.Equal(t, "6502530000", ev.LocalFormat)
}

func TestNumverifyClient_InvalidNumberIsEvidence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"valid": false, "carrier": "ignored"}`))
	}))
	defer server.Close()

	client := provider.NewNumverifyClient("k", server.URL, time.Second, discardLogger())

	ev, ok := client.Lookup(context.Background(), testPhone).Get()

	require.True(t, ok)
	assert.False(t, ev.Valid)
	assert.Empty(t, ev.Carrier)
}

func TestNumverifyClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"success": false, "error": {"code": 101, "info": "You have not supplied a valid API Access Key."}}`))
	}))
	defer server.Close()

	client := provider.NewNumverifyClient("bad-key", server.URL, time.Second, discardLogger())

	out := client.Lookup(context.Background(), testPhone)

	assert.False(t, out.IsAvailable())
	assert.Equal(t, "You have not supplied a valid API Access Key.", out.Reason())
}

func TestNumverifyClient_NotConfigured(t *testing.T) {
	client := provider.NewNumverifyClient("", "", time.Second, discardLogger())

	out := client.Lookup(context.Background(), testPhone)

	assert.False(t, out.IsAvailable())
	assert.Equal(t, "Numverify API key not configured", out.Reason())
}

func TestNumverifyClient_HTTPErrorHidesKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := provider.NewNumverifyClient("secret-key", server.URL, time.Second, discardLogger())

	out := client.Lookup(context.Background(), testPhone)

	assert.False(t, out.IsAvailable())
	assert.Contains(t, out.Reason(), "status 500")
	assert.NotContains(t, out.Reason(), "secret-key")
}
