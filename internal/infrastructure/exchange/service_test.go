package exchange

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rateServer(t *testing.T, rates map[string]float64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/latest.json", r.URL.Path)
		assert.Equal(t, "test-app-id", r.URL.Query().Get("app_id"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"rates": rates})
	}))
}

func TestConvertComputesCrossRate(t *testing.T) {
	server := rateServer(t, map[string]float64{"USD": 1, "EUR": 0.9})
	defer server.Close()

	s := NewService("test-app-id", server.URL)

	converted, err := s.Convert(context.Background(), 50, "USD", "EUR")
	require.NoError(t, err)
	assert.InDelta(t, 45, converted, 1e-9)
}

func TestConvertViaNonBaseCurrencies(t *testing.T) {
	server := rateServer(t, map[string]float64{"USD": 1, "EUR": 0.8, "GBP": 0.5})
	defer server.Close()

	s := NewService("test-app-id", server.URL)

	// 100 EUR -> GBP = 100 * (0.5 / 0.8)
	converted, err := s.Convert(context.Background(), 100, "EUR", "GBP")
	require.NoError(t, err)
	assert.InDelta(t, 62.5, converted, 1e-9)
}

func TestConvertUnknownCurrencyCode(t *testing.T) {
	server := rateServer(t, map[string]float64{"USD": 1, "EUR": 0.9})
	defer server.Close()

	s := NewService("test-app-id", server.URL)

	tests := []struct {
		name string
		from string
		to   string
	}{
		{name: "unknown source code", from: "XXX", to: "EUR"},
		{name: "unknown target code", from: "USD", to: "XXX"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Convert(context.Background(), 10, tt.from, tt.to)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidCurrency)
			assert.ErrorContains(t, err, "XXX")
		})
	}
}

func TestConvertUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	s := NewService("test-app-id", server.URL)

	_, err := s.Convert(context.Background(), 10, "USD", "EUR")
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestConvertNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	s := NewService("test-app-id", server.URL)

	_, err := s.Convert(context.Background(), 10, "USD", "EUR")
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestLatestDecodesSnapshot(t *testing.T) {
	server := rateServer(t, map[string]float64{"USD": 1, "JPY": 150.2})
	defer server.Close()

	s := NewService("test-app-id", server.URL)

	snapshot, err := s.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 150.2, snapshot.Rates["JPY"])
}
