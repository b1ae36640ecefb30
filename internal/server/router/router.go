package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/tally/internal/server/handlers"
)

// Handlers groups the HTTP adapters mounted by the router.
type Handlers struct {
	Ledger    *handlers.LedgerHandler
	Inventory *handlers.InventoryHandler
	Reports   *handlers.ReportHandler
	Account   *handlers.AccountHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/dashboard", h.Ledger.Dashboard)

		api.GET("/parties", h.Ledger.ListParties)
		api.POST("/parties", h.Ledger.CreateParty)
		api.PUT("/parties/:id", h.Ledger.UpdateParty)
		api.DELETE("/parties/:id", h.Ledger.DeleteParty)
		api.GET("/parties/:id/statement", h.Ledger.Statement)
		api.POST("/reconcile", h.Ledger.Reconcile)

		api.GET("/transactions", h.Ledger.ListTransactions)
		api.POST("/transactions", h.Ledger.CreateTransaction)
		api.GET("/invoices", h.Ledger.Invoices)

		api.GET("/products", h.Inventory.ListProducts)
		api.POST("/products", h.Inventory.CreateProduct)
		api.POST("/products/:id/stock", h.Inventory.AdjustStock)
		api.GET("/stock-history", h.Inventory.StockHistory)

		api.GET("/reports", h.Reports.Financial)
		api.GET("/reports/daily", h.Reports.Daily)

		api.GET("/notifications", h.Account.Notifications)
		api.DELETE("/notifications", h.Account.ClearNotifications)
		api.POST("/notifications/read", h.Account.MarkNotificationsRead)
		api.GET("/profile", h.Account.Profile)
		api.PUT("/profile", h.Account.UpdateProfile)
		api.POST("/alerts", h.Account.SendAlert)
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
