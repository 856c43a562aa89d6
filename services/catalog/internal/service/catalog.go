package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Skotchmaster/storefront/pkg/events"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/services/catalog/internal/models"
	"github.com/Skotchmaster/storefront/services/catalog/internal/repo"
	"github.com/Skotchmaster/storefront/services/catalog/internal/transport"
)

const EventProductCreated = "product_created"

var (
	ErrValidation        = errors.New("validation error")
	ErrSearchUnavailable = errors.New("search is not configured")
)

// Searcher is the full-text side of the catalog.
type Searcher interface {
	IndexProduct(ctx context.Context, p *models.Product) error
	Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error)
}

type CatalogService struct {
	Repo     *repo.GormRepo
	Searcher Searcher
	Events   events.Publisher
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	return s.Repo.GetProduct(ctx, id)
}

// CreateProduct stores a product, then indexes it and announces it. Indexing
// and publishing failures are logged; the product stays created.
func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	l := logging.FromContext(ctx).With("op", "catalog.create_product")

	name := strings.TrimSpace(req.Name)
	switch {
	case name == "":
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	case req.Price.IsNegative():
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	case req.Stock < 0:
		return nil, fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	}

	prod, err := s.Repo.CreateProduct(ctx, &models.Product{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		Stock:       req.Stock,
		Image:       strings.TrimSpace(req.Image),
	})
	if err != nil {
		return nil, err
	}

	if s.Searcher != nil {
		if err := s.Searcher.IndexProduct(ctx, prod); err != nil {
			l.Error("index_product_failed", "product_id", prod.ID, "error", err)
		}
	}

	if s.Events != nil {
		ev := events.NewEvent(EventProductCreated, map[string]any{
			"productID": prod.ID,
			"name":      prod.Name,
		})
		if err := s.Events.Publish(ctx, events.TopicProductEvents, strconv.FormatUint(uint64(prod.ID), 10), ev); err != nil {
			l.Error("kafka_publish_error", "event", EventProductCreated, "error", err)
		}
	}

	return prod, nil
}

func (s *CatalogService) SearchProducts(ctx context.Context, query string, offset, limit int) (int64, []models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return 0, nil, fmt.Errorf("%w: empty query", ErrValidation)
	}
	if s.Searcher == nil {
		return 0, nil, ErrSearchUnavailable
	}
	return s.Searcher.Search(ctx, query, offset, limit)
}
