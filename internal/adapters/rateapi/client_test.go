package rateapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/FxPeer/fx_marketplace_app/internal/adapters/rateapi"
	"github.com/FxPeer/fx_marketplace_app/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPairRate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v6/test-key/pair/USD/EUR", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":"success","conversion_rate":0.9235}`))
	}))
	defer server.Close()

	client := rateapi.NewClient(server.URL, "test-key", 2*time.Second)
	rate, err := client.GetPairRate(context.Background(), "USD", "EUR")
	require.NoError(t, err)
	assert.Equal(t, "0.9235", rate.String())
}

func TestGetPairRate_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":"error","error-type":"unsupported-code"}`))
	}))
	defer server.Close()

	client := rateapi.NewClient(server.URL, "test-key", 2*time.Second)
	_, err := client.GetPairRate(context.Background(), "USD", "XXX")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRateUnavailable)
	assert.Contains(t, err.Error(), "unsupported-code")
}

func TestGetPairRate_HTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := rateapi.NewClient(server.URL, "test-key", 2*time.Second)
	_, err := client.GetPairRate(context.Background(), "USD", "EUR")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRateUnavailable)
}

func TestGetPairRate_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	client := rateapi.NewClient(server.URL, "test-key", 2*time.Second)
	_, err := client.GetPairRate(context.Background(), "USD", "EUR")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRateUnavailable)
}

func TestGetPairRate_NonPositiveRate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"success","conversion_rate":0}`))
	}))
	defer server.Close()

	client := rateapi.NewClient(server.URL, "test-key", 2*time.Second)
	_, err := client.GetPairRate(context.Background(), "USD", "EUR")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRateUnavailable)
}

func TestGetPairRate_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"result":"success","conversion_rate":1.1}`))
	}))
	defer server.Close()

	client := rateapi.NewClient(server.URL, "test-key", 50*time.Millisecond)
	_, err := client.GetPairRate(context.Background(), "USD", "EUR")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRateUnavailable)
}

func TestListSupportedCurrencies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v6/test-key/codes", r.URL.Path)
		w.Write([]byte(`{"result":"success","supported_codes":[["USD","United States Dollar"],["EUR","Euro"]]}`))
	}))
	defer server.Close()

	client := rateapi.NewClient(server.URL, "test-key", 2*time.Second)
	currencies, err := client.ListSupportedCurrencies(context.Background())
	require.NoError(t, err)
	require.Len(t, currencies, 2)
	assert.Equal(t, "USD", currencies[0].Code)
	assert.Equal(t, "United States Dollar", currencies[0].Name)
	assert.Equal(t, "Euro", currencies[1].Name)
}

func TestListSupportedCurrencies_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"error","error-type":"invalid-key"}`))
	}))
	defer server.Close()

	client := rateapi.NewClient(server.URL, "test-key", 2*time.Second)
	_, err := client.ListSupportedCurrencies(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRateUnavailable)
}
