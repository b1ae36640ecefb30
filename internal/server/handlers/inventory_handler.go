package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/tally/internal/domain/models"
	"github.com/mamadbah2/tally/internal/service/reporting"
)

// StockBook mutates the inventory.
type StockBook interface {
	AddProduct(ctx context.Context, in models.ProductInput) (models.Product, error)
	AdjustStock(ctx context.Context, productID string, adj models.StockAdjustment) (models.Product, models.StockHistory, error)
}

// StockViews are the inventory read models.
type StockViews interface {
	Products(search string) []models.Product
	StockHistory() []reporting.StockEntry
}

// InventoryHandler serves products and stock movements.
type InventoryHandler struct {
	book   StockBook
	views  StockViews
	logger *zap.Logger
}

// NewInventoryHandler constructs the HTTP handler adapter.
func NewInventoryHandler(book StockBook, views StockViews, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{book: book, views: views, logger: logger}
}

// ListProducts returns products matching ?search= on name or SKU.
func (h *InventoryHandler) ListProducts(c *gin.Context) {
	c.JSON(http.StatusOK, h.views.Products(c.Query("search")))
}

// CreateProduct registers a product with its opening stock.
func (h *InventoryHandler) CreateProduct(c *gin.Context) {
	var in models.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		invalidBody(c, h.logger, err)
		return
	}

	product, err := h.book.AddProduct(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, "failed to add product", err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// AdjustStock applies an IN or OUT movement.
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	var adj models.StockAdjustment
	if err := c.ShouldBindJSON(&adj); err != nil {
		invalidBody(c, h.logger, err)
		return
	}

	product, entry, err := h.book.AdjustStock(c.Request.Context(), c.Param("id"), adj)
	if err != nil {
		respondError(c, h.logger, "failed to adjust stock", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product, "entry": entry})
}

// StockHistory returns stock movements, newest first.
func (h *InventoryHandler) StockHistory(c *gin.Context) {
	c.JSON(http.StatusOK, h.views.StockHistory())
}
