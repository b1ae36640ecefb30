package sheets

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/tally/internal/domain/models"
)

type recordingRepo struct {
	ranges []string
	rows   [][]interface{}
}

func (r *recordingRepo) AppendRows(_ context.Context, sheetRange string, rows [][]interface{}) error {
	r.ranges = append(r.ranges, sheetRange)
	r.rows = append(r.rows, rows...)
	return nil
}

func TestDaybookMirror_AppendsOneRow(t *testing.T) {
	repo := &recordingRepo{}
	mirror := NewDaybookMirror(repo, "")

	tx := models.Transaction{
		ID: "t1", Date: "2025-05-01", Type: models.Credit, Amount: decimal.NewFromInt(45000),
		Category: "Sales", Note: "Project Phase 1", InvoiceNumber: "TP-001",
	}
	require.NoError(t, mirror.MirrorTransaction(context.Background(), tx, "Zylker Tech"))

	require.Len(t, repo.rows, 1)
	assert.Equal(t, []string{DefaultDaybookRange}, repo.ranges)
	assert.Equal(t, []interface{}{"2025-05-01", "TP-001", "Zylker Tech", "CREDIT", "45000", "Sales", "Project Phase 1", "t1"}, repo.rows[0])
}

func TestDaybookMirror_CustomRange(t *testing.T) {
	repo := &recordingRepo{}
	mirror := NewDaybookMirror(repo, "Cash!A:H")

	require.NoError(t, mirror.MirrorTransaction(context.Background(), models.Transaction{Amount: decimal.NewFromInt(1)}, "Walk-in"))
	assert.Equal(t, []string{"Cash!A:H"}, repo.ranges)
}
