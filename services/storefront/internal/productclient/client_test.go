package productclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/services/storefront/internal/listing"
)

func serve(t *testing.T, status int, body string) (*Client, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != ListPath || r.Method != http.MethodGet || r.URL.RawQuery != "" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", time.Second), &hits
}

func TestFetchProducts_Success(t *testing.T) {
	t.Parallel()

	c, hits := serve(t, http.StatusOK, `{"success":true,"products":[
		{"id":1,"name":"Red Pen","description":"ink","price":10000,"stock":5},
		{"id":"b-2","name":"Notebook","description":"paper","price":25000.50,"stock":0,"image":"/img/n.png"}
	]}`)

	got, err := c.FetchProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.EqualValues(t, 1, hits.Load())

	assert.Equal(t, listing.ProductID("1"), got[0].ID)
	assert.Equal(t, "Red Pen", got[0].Name)
	assert.True(t, decimal.NewFromInt(10000).Equal(got[0].Price))
	assert.Equal(t, listing.PlaceholderImage, got[0].ImageURL())

	assert.Equal(t, listing.ProductID("b-2"), got[1].ID)
	assert.True(t, decimal.RequireFromString("25000.5").Equal(got[1].Price))
	assert.Equal(t, "/img/n.png", got[1].ImageURL())
}

func TestFetchProducts_EmptyList(t *testing.T) {
	t.Parallel()

	c, _ := serve(t, http.StatusOK, `{"success":true,"products":[]}`)
	got, err := c.FetchProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFetchProducts_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{name: "unsuccessful", status: http.StatusOK, body: `{"success":false}`, want: listing.ErrUnsuccessful},
		{name: "unsuccessful with server error", status: http.StatusInternalServerError, body: `{"success":false}`, want: listing.ErrUnsuccessful},
		{name: "not json", status: http.StatusOK, body: `<html>oops</html>`, want: listing.ErrMalformed},
		{name: "missing success", status: http.StatusOK, body: `{"products":[]}`, want: listing.ErrMalformed},
		{name: "missing products", status: http.StatusOK, body: `{"success":true}`, want: listing.ErrMalformed},
		{name: "negative price", status: http.StatusOK, body: `{"success":true,"products":[{"id":1,"name":"x","description":"","price":-1,"stock":1}]}`, want: listing.ErrMalformed},
		{name: "negative stock", status: http.StatusOK, body: `{"success":true,"products":[{"id":1,"name":"x","description":"","price":1,"stock":-1}]}`, want: listing.ErrMalformed},
		{name: "missing id", status: http.StatusOK, body: `{"success":true,"products":[{"name":"x","description":"","price":1,"stock":1}]}`, want: listing.ErrMalformed},
		{name: "fractional id", status: http.StatusOK, body: `{"success":true,"products":[{"id":1.5,"name":"x","description":"","price":1,"stock":1}]}`, want: listing.ErrMalformed},
		{name: "quoted price", status: http.StatusOK, body: `{"success":true,"products":[{"id":1,"name":"x","description":"","price":"1000","stock":1}]}`, want: listing.ErrMalformed},
		{name: "missing price", status: http.StatusOK, body: `{"success":true,"products":[{"id":1,"name":"x","description":"","stock":1}]}`, want: listing.ErrMalformed},
		{name: "quoted stock", status: http.StatusOK, body: `{"success":true,"products":[{"id":1,"name":"x","description":"","price":1,"stock":"1"}]}`, want: listing.ErrMalformed},
		{name: "missing stock", status: http.StatusOK, body: `{"success":true,"products":[{"id":1,"name":"x","description":"","price":1}]}`, want: listing.ErrMalformed},
		{name: "missing name and description", status: http.StatusOK, body: `{"success":true,"products":[{"id":1,"price":1000,"stock":1}]}`, want: listing.ErrMalformed},
		{name: "missing description", status: http.StatusOK, body: `{"success":true,"products":[{"id":1,"name":"x","price":1000,"stock":1}]}`, want: listing.ErrMalformed},
		{name: "product not an object", status: http.StatusOK, body: `{"success":true,"products":[42]}`, want: listing.ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, _ := serve(t, tt.status, tt.body)
			got, err := c.FetchProducts(context.Background())
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, got)
		})
	}
}

func TestFetchProducts_TransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).FetchProducts(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, listing.ErrUnsuccessful)
}

func TestFetchProducts_ContextCancelled(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient(srv.URL, 5*time.Second).FetchProducts(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestGetProduct(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/products/7":
			_, _ = w.Write([]byte(`{"id":7,"name":"Stapler","description":"metal","price":15000,"stock":3}`))
		case "/api/products/bad":
			w.WriteHeader(http.StatusBadRequest)
		case "/api/products/boom":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, time.Second)

	p, err := c.GetProduct(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, "Stapler", p.Name)
	assert.EqualValues(t, 3, p.Stock)

	_, err = c.GetProduct(context.Background(), "404")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = c.GetProduct(context.Background(), "bad")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = c.GetProduct(context.Background(), "boom")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestClientImplementsLoader(t *testing.T) {
	var _ listing.Loader = NewClient("http://catalog", 0)
}
