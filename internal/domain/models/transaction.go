package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a cash movement.
type TransactionType string

const (
	// Credit is money in. It raises the linked party's balance.
	Credit TransactionType = "CREDIT"
	// Debit is money out. It lowers the linked party's balance.
	Debit TransactionType = "DEBIT"
)

// ParseTransactionType normalizes user input into a TransactionType.
func ParseTransactionType(value string) (TransactionType, bool) {
	switch TransactionType(strings.ToUpper(strings.TrimSpace(value))) {
	case Credit:
		return Credit, true
	case Debit:
		return Debit, true
	default:
		return "", false
	}
}

// Transaction is a single recorded cash movement. Once stored it is never
// edited or removed.
type Transaction struct {
	ID            string          `json:"id"`
	Date          string          `json:"date"`
	PartyID       string          `json:"partyId,omitempty"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	Note          string          `json:"note"`
	InvoiceNumber string          `json:"invoiceNumber"`
	AttachmentRef string          `json:"attachmentRef,omitempty"`
}

// Signed returns the amount as it applies to a party balance. Types other
// than CREDIT and DEBIT move nothing.
func (t Transaction) Signed() decimal.Decimal {
	switch t.Type {
	case Credit:
		return t.Amount
	case Debit:
		return t.Amount.Neg()
	default:
		return decimal.Zero
	}
}

// TransactionInput is what a billing form or manual entry submits.
type TransactionInput struct {
	Date          string          `json:"date"`
	PartyID       string          `json:"partyId"`
	Type          string          `json:"type" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	Note          string          `json:"note"`
	InvoiceNumber string          `json:"invoiceNumber"`
	AttachmentRef string          `json:"attachmentRef"`
}
