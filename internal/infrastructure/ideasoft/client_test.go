package ideasoft

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ProductImporter/internal/config"
	"ProductImporter/internal/domain"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.IdeasoftConfig{
		BaseURL:  baseURL,
		TokenURL: baseURL + "/oauth/token",
		Timeout:  5 * time.Second,
	}, nil)
}

func TestNewProductPayloadIsAlwaysPassive(t *testing.T) {
	t.Parallel()

	products := []domain.Product{
		{Name: "A", SKU: "a"},
		{Name: "B", SKU: "b", Image: "https://cdn.example.com/b.jpg", Price: decimal.RequireFromString("99.90"), Stock: 3},
	}
	for _, p := range products {
		payload := NewProductPayload(p)
		assert.Equal(t, StatusPassive, payload.Status)
	}

	raw, err := json.Marshal(NewProductPayload(products[0]))
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"A","sku":"a","price":0,"stock":0,"status":"passive","description":"","images":[],"category":"","brand":""}`, string(raw))

	raw, err = json.Marshal(NewProductPayload(products[1]))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"price":99.9`)
	assert.Contains(t, string(raw), `"images":[{"url":"https://cdn.example.com/b.jpg","isPrimary":true}]`)
}

func TestCreateProductSuccess(t *testing.T) {
	t.Parallel()

	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/shops/shop-1/products", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":42}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	res := c.CreateProduct(context.Background(), domain.Product{Name: "Widget", SKU: "widget"}, "tok", "shop-1")

	require.True(t, res.Success, res.Error)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.JSONEq(t, `{"id":42}`, string(res.Data))
	assert.Equal(t, "passive", received["status"])
	assert.Equal(t, "Widget", received["name"])
}

func TestCreateProductErrorMessages(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "message first", status: http.StatusBadRequest, body: `{"message":"SKU exists","error":"bad_request"}`, want: "SKU exists"},
		{name: "error field", status: http.StatusUnauthorized, body: `{"error":"invalid_token"}`, want: "invalid_token"},
		{name: "status text", status: http.StatusTooManyRequests, body: `slow down`, want: "request failed with status code 429"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			res := newTestClient(server.URL).CreateProduct(context.Background(), domain.Product{Name: "X", SKU: "x"}, "tok", "shop")
			assert.False(t, res.Success)
			assert.Equal(t, tc.status, res.StatusCode)
			assert.Equal(t, tc.want, res.Error)
		})
	}
}

func TestCreateProductTransportError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := server.URL
	server.Close()

	res := newTestClient(baseURL).CreateProduct(context.Background(), domain.Product{Name: "X", SKU: "x"}, "tok", "shop")
	assert.False(t, res.Success)
	assert.Zero(t, res.StatusCode)
	assert.NotEmpty(t, res.Error)
}

func TestFetchToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/oauth/token", r.URL.Path)

		var req map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "client_credentials", req["grant_type"])

		if req["client_secret"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid_client","error_description":"Client authentication failed"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"abc","expires_in":3600,"token_type":"Bearer"}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	issued := time.Date(2025, time.January, 2, 3, 4, 5, 0, time.UTC)
	c.now = func() time.Time { return issued }

	token, err := c.FetchToken(context.Background(), "client", "secret")
	require.NoError(t, err)
	assert.Equal(t, "abc", token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, issued.Add(time.Hour), token.ExpiresAt())

	_, err = c.FetchToken(context.Background(), "client", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Client authentication failed")

	_, err = c.FetchToken(context.Background(), "", "")
	require.Error(t, err)
}
