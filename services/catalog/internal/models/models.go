package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	Name        string          `gorm:"not null"                    json:"name"`
	Description string          `gorm:"not null"                    json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(14,3);not null" json:"price"`
	Stock       int64           `gorm:"not null;default:0"          json:"stock"`
	Image       string          `                                   json:"image,omitempty"`
}

// MarshalJSON writes price as a JSON number; decimal quotes it by default.
func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	return json.Marshal(struct {
		plain
		Price json.Number `json:"price"`
	}{plain: plain(p), Price: json.Number(p.Price.String())})
}
