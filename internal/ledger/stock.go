package ledger

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/tally/internal/domain/models"
)

const openingStockNote = "Opening Stock Entry"

// AddProduct registers a product and logs its opening quantity as an IN
// movement. Transactions never change stock.
func (b *Book) AddProduct(ctx context.Context, in models.ProductInput) (models.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Product{}, fmt.Errorf("%w: product name is required", ErrInvalidInput)
	}
	if in.Quantity < 0 || in.LowStockLevel < 0 {
		return models.Product{}, fmt.Errorf("%w: quantities must not be negative", ErrInvalidQuantity)
	}
	if in.PurchasePrice.IsNegative() || in.SalePrice.IsNegative() {
		return models.Product{}, fmt.Errorf("%w: prices must not be negative", ErrInvalidInput)
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = "units"
	}

	var product models.Product
	err := b.mutate(ctx, func() error {
		product = models.Product{
			ID:            b.newID(),
			Name:          name,
			SKU:           strings.TrimSpace(in.SKU),
			Unit:          unit,
			Quantity:      in.Quantity,
			LowStockLevel: in.LowStockLevel,
			PurchasePrice: in.PurchasePrice,
			SalePrice:     in.SalePrice,
		}
		b.data.Products = append(b.data.Products, product)

		entry := models.StockHistory{
			ID:        b.newID(),
			ProductID: product.ID,
			Date:      b.today(),
			Type:      models.StockIn,
			Quantity:  product.Quantity,
			Note:      openingStockNote,
		}
		b.data.StockHistory = append([]models.StockHistory{entry}, b.data.StockHistory...)
		return nil
	})
	if err != nil {
		return models.Product{}, err
	}

	b.logger.Debug("product added", zap.String("product_id", product.ID), zap.String("sku", product.SKU))
	return product, nil
}

// AdjustStock applies a manual IN or OUT movement to a product.
func (b *Book) AdjustStock(ctx context.Context, productID string, adj models.StockAdjustment) (models.Product, models.StockHistory, error) {
	var flow models.StockFlow
	switch models.StockFlow(strings.ToUpper(strings.TrimSpace(adj.Type))) {
	case models.StockIn:
		flow = models.StockIn
	case models.StockOut:
		flow = models.StockOut
	default:
		return models.Product{}, models.StockHistory{}, fmt.Errorf("%w: stock flow must be IN or OUT", ErrInvalidInput)
	}
	if adj.Quantity <= 0 {
		return models.Product{}, models.StockHistory{}, fmt.Errorf("%w: %d", ErrInvalidQuantity, adj.Quantity)
	}
	date, err := b.resolveDate(strings.TrimSpace(adj.Date))
	if err != nil {
		return models.Product{}, models.StockHistory{}, err
	}

	var (
		product models.Product
		entry   models.StockHistory
	)
	err = b.mutate(ctx, func() error {
		idx := -1
		for i, p := range b.data.Products {
			if p.ID == productID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrProductNotFound, productID)
		}
		p := &b.data.Products[idx]
		if flow == models.StockOut && adj.Quantity > p.Quantity {
			return fmt.Errorf("%w: %d on hand, %d requested", ErrInsufficientStock, p.Quantity, adj.Quantity)
		}
		if flow == models.StockIn {
			p.Quantity += adj.Quantity
		} else {
			p.Quantity -= adj.Quantity
		}

		entry = models.StockHistory{
			ID:        b.newID(),
			ProductID: p.ID,
			Date:      date,
			Type:      flow,
			Quantity:  adj.Quantity,
			Note:      strings.TrimSpace(adj.Note),
		}
		b.data.StockHistory = append([]models.StockHistory{entry}, b.data.StockHistory...)
		product = *p
		return nil
	})
	if err != nil {
		return models.Product{}, models.StockHistory{}, err
	}
	return product, entry, nil
}
