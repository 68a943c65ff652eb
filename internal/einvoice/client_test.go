package einvoice_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhhq/backoffice/internal/einvoice"
)

func providerToken(t *testing.T, exp time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "pos-backoffice",
		"exp": exp.Unix(),
	})

	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	return signed
}

func TestClient_Submit(t *testing.T) {
	var logins atomic.Int32

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			logins.Add(1)

			var req map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "shop01", req["username"])

			json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"token":   providerToken(t, time.Now().Add(time.Hour)),
			})

		case "/invoices/publish":
			assert.NotEmpty(t, r.Header.Get("Authorization"))

			var req einvoice.SubmitRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.NotEmpty(t, req.TransactionID)

			json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data": map[string]string{
					"invoiceNo":      "00000123",
					"symbol":         "C24TAA",
					"templateNumber": "1",
				},
			})

		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	client := einvoice.NewClient(ts.URL, "shop01", "secret", 5*time.Second)

	req := &einvoice.SubmitRequest{TransactionID: "token-1", Total: 110000}

	issue, err := client.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "00000123", issue.InvoiceNumber)
	assert.Equal(t, "C24TAA", issue.Symbol)

	// Second submit reuses the cached bearer token.
	_, err = client.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int32(1), logins.Load())
}

func TestClient_Submit_RejectionMessageVerbatim(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/login" {
			json.NewEncoder(w).Encode(map[string]any{"success": true, "token": "opaque-token"})
			return
		}

		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "Mã số thuế người mua không hợp lệ",
		})
	}))
	defer ts.Close()

	client := einvoice.NewClient(ts.URL, "shop01", "secret", 5*time.Second)

	_, err := client.Submit(context.Background(), &einvoice.SubmitRequest{})

	var provErr *einvoice.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "Mã số thuế người mua không hợp lệ", provErr.Message)
}

func TestClient_Submit_LoginFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "bad credentials"})
	}))
	defer ts.Close()

	client := einvoice.NewClient(ts.URL, "shop01", "wrong", 5*time.Second)

	_, err := client.Submit(context.Background(), &einvoice.SubmitRequest{})

	var provErr *einvoice.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "authentication failed", provErr.Message)
}

func TestClient_Submit_ExpiredTokenRefreshes(t *testing.T) {
	var logins atomic.Int32

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/login" {
			logins.Add(1)
			// Token already inside the refresh slack window.
			json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"token":   providerToken(t, time.Now().Add(10*time.Second)),
			})

			return
		}

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]string{"invoiceNo": "1", "symbol": "S", "templateNumber": "1"},
		})
	}))
	defer ts.Close()

	client := einvoice.NewClient(ts.URL, "shop01", "secret", 5*time.Second)

	_, err := client.Submit(context.Background(), &einvoice.SubmitRequest{})
	require.NoError(t, err)
	_, err = client.Submit(context.Background(), &einvoice.SubmitRequest{})
	require.NoError(t, err)

	assert.Equal(t, int32(2), logins.Load())
}
