// Package productclient talks to the catalog service over HTTP.
package productclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Skotchmaster/storefront/services/storefront/internal/listing"
)

const (
	ListPath = "/api/getProducts"

	DefaultTimeout = 10 * time.Second
	maxBody        = 8 << 20
)

var ErrNotFound = errors.New("product not found")

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(catalogURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(catalogURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: otelhttp.NewTransport(&http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			}),
		},
	}
}

type envelope struct {
	Success  *bool              `json:"success"`
	Products *[]json.RawMessage `json:"products"`
}

// FetchProducts issues exactly one GET to the listing endpoint. A response
// with success=false yields listing.ErrUnsuccessful, anything that does not
// look like the expected envelope yields listing.ErrMalformed.
func (c *Client) FetchProducts(ctx context.Context) ([]listing.Product, error) {
	body, status, err := c.get(ctx, ListPath)
	if err != nil {
		return nil, err
	}
	return decodeListing(body, status)
}

func decodeListing(body []byte, status int) ([]listing.Product, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode listing (status %d): %w: %v", status, listing.ErrMalformed, err)
	}
	if env.Success == nil {
		return nil, fmt.Errorf("listing without success flag: %w", listing.ErrMalformed)
	}
	if !*env.Success {
		return nil, listing.ErrUnsuccessful
	}
	if env.Products == nil {
		return nil, fmt.Errorf("listing without products: %w", listing.ErrMalformed)
	}

	out := make([]listing.Product, 0, len(*env.Products))
	for i, raw := range *env.Products {
		p, err := decodeProduct(raw)
		if err != nil {
			return nil, fmt.Errorf("product #%d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// wireProduct mirrors the catalog record. Pointers tell a missing field from
// a zero one; price and stock must be JSON numbers.
type wireProduct struct {
	ID          *listing.ProductID `json:"id"`
	Name        *string            `json:"name"`
	Description *string            `json:"description"`
	Price       json.RawMessage    `json:"price"`
	Stock       *int64             `json:"stock"`
	Image       *string            `json:"image"`
}

func decodeProduct(raw json.RawMessage) (listing.Product, error) {
	var w wireProduct
	if err := json.Unmarshal(raw, &w); err != nil {
		if errors.Is(err, listing.ErrMalformed) {
			return listing.Product{}, err
		}
		return listing.Product{}, fmt.Errorf("%w: %v", listing.ErrMalformed, err)
	}

	switch {
	case w.ID == nil:
		return listing.Product{}, fmt.Errorf("product without id: %w", listing.ErrMalformed)
	case w.Name == nil:
		return listing.Product{}, fmt.Errorf("product %s without name: %w", *w.ID, listing.ErrMalformed)
	case w.Description == nil:
		return listing.Product{}, fmt.Errorf("product %s without description: %w", *w.ID, listing.ErrMalformed)
	case w.Stock == nil:
		return listing.Product{}, fmt.Errorf("product %s without stock: %w", *w.ID, listing.ErrMalformed)
	}

	price, err := decodePrice(w.Price)
	if err != nil {
		return listing.Product{}, fmt.Errorf("product %s: %w", *w.ID, err)
	}

	p := listing.Product{
		ID:          *w.ID,
		Name:        *w.Name,
		Description: *w.Description,
		Price:       price,
		Stock:       *w.Stock,
	}
	if w.Image != nil {
		p.Image = *w.Image
	}
	if err := p.Validate(); err != nil {
		return listing.Product{}, err
	}
	return p, nil
}

func decodePrice(raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Decimal{}, fmt.Errorf("missing price: %w", listing.ErrMalformed)
	}
	if raw[0] == '"' {
		return decimal.Decimal{}, fmt.Errorf("price %s is not a number: %w", raw, listing.ErrMalformed)
	}
	price, err := decimal.NewFromString(string(raw))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("price %s: %w", raw, listing.ErrMalformed)
	}
	return price, nil
}

// GetProduct loads a single product for the detail page.
func (c *Client) GetProduct(ctx context.Context, id listing.ProductID) (*listing.Product, error) {
	body, status, err := c.get(ctx, "/api/products/"+url.PathEscape(string(id)))
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusBadRequest:
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("get product failed with status: %d", status)
	}

	p, err := decodeProduct(body)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	return body, resp.StatusCode, nil
}
