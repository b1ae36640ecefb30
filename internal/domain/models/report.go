package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyReport is the aggregated activity of one day.
type DailyReport struct {
	Date             string          `json:"date"`
	CashIn           decimal.Decimal `json:"cashIn"`
	CashOut          decimal.Decimal `json:"cashOut"`
	Net              decimal.Decimal `json:"net"`
	TransactionCount int             `json:"transactionCount"`
	Receivables      decimal.Decimal `json:"receivables"`
	Payables         decimal.Decimal `json:"payables"`
	LowStockCount    int             `json:"lowStockCount"`
	CreatedAt        time.Time       `json:"createdAt"`
}
