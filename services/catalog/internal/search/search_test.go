package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/services/catalog/internal/models"
)

type fakeES struct {
	mu       sync.Mutex
	indexed  map[string]string
	lastBody map[string]any
	fail     bool
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail && r.URL.Path != "/" {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"boom"}`)
		return
	}

	switch {
	case r.URL.Path == "/":
		_, _ = io.WriteString(w, `{"version":{"number":"9.0.0"},"tagline":"You Know, for Search"}`)
	case strings.HasPrefix(r.URL.Path, "/products/_doc/"):
		b, _ := io.ReadAll(r.Body)
		f.indexed[strings.TrimPrefix(r.URL.Path, "/products/_doc/")] = string(b)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	case r.URL.Path == "/products/_search":
		_ = json.NewDecoder(r.Body).Decode(&f.lastBody)
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":2},"hits":[
			{"_source":{"id":1,"name":"Red Pen","description":"ink","price":10000,"stock":5}},
			{"_source":{"id":2,"name":"Blue Pen","description":"ink","price":12000,"stock":1}}
		]}}`)
	default:
		http.NotFound(w, r)
	}
}

func newIndex(t *testing.T) (*Index, *fakeES) {
	t.Helper()
	fake := &fakeES{indexed: map[string]string{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	ix, err := New(context.Background(), Config{URL: srv.URL})
	require.NoError(t, err)
	return ix, fake
}

func TestIndexProduct(t *testing.T) {
	t.Parallel()
	ix, fake := newIndex(t)

	p := &models.Product{ID: 7, Name: "Stapler", Price: decimal.NewFromInt(15000), Stock: 3}
	require.NoError(t, ix.IndexProduct(context.Background(), p))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Contains(t, fake.indexed, "7")
	assert.Contains(t, fake.indexed["7"], `"name":"Stapler"`)
}

func TestSearch(t *testing.T) {
	t.Parallel()
	ix, fake := newIndex(t)

	total, prods, err := ix.Search(context.Background(), "pen", 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, prods, 2)
	assert.Equal(t, "Red Pen", prods[0].Name)
	assert.True(t, decimal.NewFromInt(12000).Equal(prods[1].Price))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	mm := fake.lastBody["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "pen", mm["query"])
	assert.EqualValues(t, 20, fake.lastBody["size"])
}

func TestSearchError(t *testing.T) {
	t.Parallel()
	ix, fake := newIndex(t)

	fake.mu.Lock()
	fake.fail = true
	fake.mu.Unlock()

	_, _, err := ix.Search(context.Background(), "pen", 0, 20)
	require.Error(t, err)
	require.Error(t, ix.IndexProduct(context.Background(), &models.Product{ID: 1}))
}
