package transport

import (
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/services/catalog/internal/models"
)

type CreateProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock"`
	Image       string          `json:"image"`
}

// ListResponse is the envelope of GET /api/getProducts. Products is omitted
// when Success is false and is an array, possibly empty, otherwise.
type ListResponse struct {
	Success  bool              `json:"success"`
	Products *[]models.Product `json:"products,omitempty"`
}

func ListOK(items []models.Product) ListResponse {
	if items == nil {
		items = []models.Product{}
	}
	return ListResponse{Success: true, Products: &items}
}

type SearchResponse struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	Size     int              `json:"size"`
	Products []models.Product `json:"products"`
}
