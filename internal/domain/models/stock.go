package models

import "github.com/shopspring/decimal"

// StockFlow is the direction of a stock movement.
type StockFlow string

const (
	StockIn  StockFlow = "IN"
	StockOut StockFlow = "OUT"
)

// Product is an inventory item.
type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	Unit          string          `json:"unit"`
	Quantity      int             `json:"quantity"`
	LowStockLevel int             `json:"lowStockLevel"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SalePrice     decimal.Decimal `json:"salePrice"`
}

// IsLowStock reports whether the quantity reached the alert threshold.
func (p Product) IsLowStock() bool {
	return p.Quantity <= p.LowStockLevel
}

// ProductInput carries the fields of a new product.
type ProductInput struct {
	Name          string          `json:"name" binding:"required"`
	SKU           string          `json:"sku" binding:"required"`
	Unit          string          `json:"unit"`
	Quantity      int             `json:"quantity" binding:"gte=0"`
	LowStockLevel int             `json:"lowStockLevel" binding:"gte=0"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SalePrice     decimal.Decimal `json:"salePrice"`
}

// StockHistory records a manual stock movement.
type StockHistory struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	Date      string    `json:"date"`
	Type      StockFlow `json:"type"`
	Quantity  int       `json:"quantity"`
	Note      string    `json:"note"`
}

// StockAdjustment is a manual IN/OUT movement request.
type StockAdjustment struct {
	Type     string `json:"type" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
	Note     string `json:"note"`
	Date     string `json:"date"`
}
