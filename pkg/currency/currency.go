// Package currency renders decimal amounts with the business currency.
package currency

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Formatter formats amounts in one currency.
type Formatter struct {
	code string
	cur  *money.Currency
}

// New returns a Formatter for an ISO 4217 code. Unknown codes fall back to INR.
func New(code string) Formatter {
	cur := money.GetCurrency(code)
	if cur == nil {
		code = money.INR
		cur = money.GetCurrency(code)
	}
	return Formatter{code: code, cur: cur}
}

// Code returns the ISO code in use.
func (f Formatter) Code() string {
	return f.code
}

// Format renders amount with the currency symbol and grouping, rounded to the
// currency's minor unit.
func (f Formatter) Format(amount decimal.Decimal) string {
	minor := amount.Shift(int32(f.cur.Fraction)).Round(0)
	return f.cur.Formatter().Format(minor.IntPart())
}
