package ledger

import "errors"

var (
	// ErrInvalidAmount indicates a non-positive transaction amount.
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	// ErrInvalidType indicates a transaction type other than CREDIT or DEBIT.
	ErrInvalidType = errors.New("type must be CREDIT or DEBIT")
	// ErrInvalidDate indicates a date not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("date must use the YYYY-MM-DD layout")
	// ErrInvalidInput indicates a missing or malformed field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidQuantity indicates a negative or zero stock quantity.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrInsufficientStock indicates an OUT movement larger than the stock on hand.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrPartyNotFound indicates no party carries the requested id.
	ErrPartyNotFound = errors.New("party not found")
	// ErrProductNotFound indicates no product carries the requested id.
	ErrProductNotFound = errors.New("product not found")
)
