package sheets

import (
	"context"

	"github.com/mamadbah2/tally/internal/domain/models"
)

// DefaultDaybookRange is where mirrored transactions land when no range is configured.
const DefaultDaybookRange = "Daybook!A:H"

// DaybookMirror copies recorded transactions to a spreadsheet, one row each:
// date, invoice, party, type, amount, category, note, transaction id.
type DaybookMirror struct {
	repo       Repository
	sheetRange string
}

// NewDaybookMirror wires a mirror on top of a sheets repository.
func NewDaybookMirror(repo Repository, sheetRange string) *DaybookMirror {
	if sheetRange == "" {
		sheetRange = DefaultDaybookRange
	}
	return &DaybookMirror{repo: repo, sheetRange: sheetRange}
}

// MirrorTransaction appends tx to the daybook sheet.
func (m *DaybookMirror) MirrorTransaction(ctx context.Context, tx models.Transaction, partyName string) error {
	return m.repo.AppendRows(ctx, m.sheetRange, [][]interface{}{daybookRow(tx, partyName)})
}

func daybookRow(tx models.Transaction, partyName string) []interface{} {
	return []interface{}{
		tx.Date,
		tx.InvoiceNumber,
		partyName,
		string(tx.Type),
		tx.Amount.String(),
		tx.Category,
		tx.Note,
		tx.ID,
	}
}
