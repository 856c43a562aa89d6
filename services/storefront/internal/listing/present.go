package listing

import (
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const (
	PageTitle         = "Danh sách sản phẩm"
	SearchLabel       = "Tìm kiếm sản phẩm"
	SearchPlaceholder = "Nhập tên sản phẩm..."
	EmptyMessage      = "Không tìm thấy sản phẩm nào."
	PurchaseLabel     = "Mua ngay"

	CurrencySuffix = " đ"
)

// Card is one rendered product row.
type Card struct {
	ID          ProductID
	Name        string
	Description string
	ImageURL    string
	Price       string
	Stock       string
}

func NewCard(p Product) Card {
	return Card{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ImageURL:    p.ImageURL(),
		Price:       FormatPrice(p.Price),
		Stock:       FormatStock(p.Stock),
	}
}

// FormatPrice groups thousands with commas, keeps at most three fraction
// digits and appends the currency suffix: 1234567.5 -> "1,234,567.5 đ".
func FormatPrice(price decimal.Decimal) string {
	rounded := price.Round(3)
	if rounded.IsInteger() {
		return humanize.Comma(rounded.IntPart()) + CurrencySuffix
	}
	return humanize.Commaf(rounded.InexactFloat64()) + CurrencySuffix
}

func FormatStock(stock int64) string {
	return "Còn lại: " + strconv.FormatInt(stock, 10) + " sản phẩm"
}
