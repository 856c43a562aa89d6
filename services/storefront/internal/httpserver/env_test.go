package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/pkg/authclient"
	"github.com/Skotchmaster/storefront/pkg/events"
	"github.com/Skotchmaster/storefront/pkg/middleware/csrf"
	"github.com/Skotchmaster/storefront/pkg/tokens"
	"github.com/Skotchmaster/storefront/services/storefront/internal/listing"
	"github.com/Skotchmaster/storefront/services/storefront/internal/productclient"
	"github.com/Skotchmaster/storefront/services/storefront/internal/render"
)

const csrfToken = "test-csrf-token"

var jwtSecret = []byte("storefront-test-secret")

type fakeCatalog struct {
	products []listing.Product
	err      error
	block    chan struct{}
	// delay holds the answer back without watching the context.
	delay time.Duration
	calls atomic.Int32
}

func (f *fakeCatalog) FetchProducts(ctx context.Context) ([]listing.Product, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.products, f.err
}

func (f *fakeCatalog) GetProduct(_ context.Context, id listing.ProductID) (*listing.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, productclient.ErrNotFound
}

type fakeAuth struct {
	resp *authclient.LoginResponse
	err  error
}

func (f *fakeAuth) Login(context.Context, string, string) (*authclient.LoginResponse, error) {
	return f.resp, f.err
}

type testEnv struct {
	E       *echo.Echo
	Handler *StorefrontHTTP
	Catalog *fakeCatalog
	Auth    *fakeAuth
	Events  *events.Recorder
}

func catalogProducts() []listing.Product {
	return []listing.Product{
		{ID: "1", Name: "Red Pen", Description: "ink", Price: decimal.NewFromInt(10000), Stock: 5},
		{ID: "2", Name: "Blue Pen", Description: "ink", Price: decimal.NewFromInt(12000), Stock: 2},
		{ID: "3", Name: "Notebook", Description: "paper", Price: decimal.NewFromInt(25000), Stock: 0, Image: "/img/notebook.png"},
	}
}

func newTestEnv(t *testing.T, catalogURL string) *testEnv {
	t.Helper()

	env := &testEnv{
		E:       echo.New(),
		Catalog: &fakeCatalog{products: catalogProducts()},
		Auth:    &fakeAuth{},
		Events:  &events.Recorder{},
	}
	r, err := render.New()
	require.NoError(t, err)

	if catalogURL == "" {
		catalogURL = "http://127.0.0.1:1"
	}
	env.Handler = &StorefrontHTTP{
		Catalog:  env.Catalog,
		Auth:     env.Auth,
		Events:   env.Events,
		LoadWait: time.Second,
	}
	require.NoError(t, Register(env.E, &Deps{
		Handler:    env.Handler,
		Renderer:   r,
		CatalogURL: catalogURL,
		JWTSecret:  jwtSecret,
		CSRFConfig: csrf.DefaultConfig(),
	}))
	return env
}

func (env *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) get(target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	return env.do(req)
}

// postForm sends a same-origin form with a valid double-submit token.
func (env *testEnv) postForm(target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf_token", csrfToken)
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.Header.Set("Origin", "http://example.com")
	req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: csrfToken})
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	return env.do(req)
}

func accessCookie(t *testing.T) *http.Cookie {
	t.Helper()
	tok, err := tokens.SignAccessToken("user-1", tokens.RoleUser, time.Now().Add(time.Minute), jwtSecret)
	require.NoError(t, err)
	return &http.Cookie{Name: tokens.AccessCookieName, Value: tok}
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}
