package models

import "github.com/shopspring/decimal"

// Party is a customer or vendor tracked in the ledger.
//
// Balance is positive when the party owes the business and negative when the
// business owes the party. It is always derived from OpeningBalance and the
// transactions referencing the party; only the ledger writes it.
type Party struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone"`
	Email          string          `json:"email"`
	Address        string          `json:"address"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Balance        decimal.Decimal `json:"balance"`
}

// PartyInput carries the editable fields of a party. A nil OpeningBalance
// means zero on creation and "unchanged" on update.
type PartyInput struct {
	Name           string          `json:"name" binding:"required"`
	Phone          string          `json:"phone"`
	Email          string          `json:"email"`
	Address        string          `json:"address"`
	OpeningBalance *decimal.Decimal `json:"openingBalance"`
}
