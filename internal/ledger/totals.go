package ledger

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/tally/internal/domain/models"
)

// Totals is the credit/debit split of a set of transactions.
type Totals struct {
	Credit decimal.Decimal `json:"credit"`
	Debit  decimal.Decimal `json:"debit"`
}

// Net is credit minus debit.
func (t Totals) Net() decimal.Decimal {
	return t.Credit.Sub(t.Debit)
}

// Filter selects transactions. A nil Filter selects everything.
type Filter func(models.Transaction) bool

// ComputeTotals sums amounts per transaction type over the transactions
// matching filter. Every surface showing cash totals goes through it.
func ComputeTotals(txs []models.Transaction, filter Filter) Totals {
	totals := Totals{Credit: decimal.Zero, Debit: decimal.Zero}
	for _, tx := range txs {
		if filter != nil && !filter(tx) {
			continue
		}
		switch tx.Type {
		case models.Credit:
			totals.Credit = totals.Credit.Add(tx.Amount)
		case models.Debit:
			totals.Debit = totals.Debit.Add(tx.Amount)
		}
	}
	return totals
}

// ForParty selects transactions linked to partyID.
func ForParty(partyID string) Filter {
	return func(tx models.Transaction) bool {
		return partyID != "" && tx.PartyID == partyID
	}
}

// OnDate selects transactions whose date starts with prefix, so "2025-05"
// selects a whole month.
func OnDate(prefix string) Filter {
	return func(tx models.Transaction) bool {
		return strings.HasPrefix(tx.Date, prefix)
	}
}

// All combines filters; every one must match.
func All(filters ...Filter) Filter {
	return func(tx models.Transaction) bool {
		for _, f := range filters {
			if f != nil && !f(tx) {
				return false
			}
		}
		return true
	}
}
