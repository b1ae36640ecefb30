package bookkeeping

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/tally/internal/domain/models"
	"github.com/mamadbah2/tally/internal/ledger"
	"github.com/mamadbah2/tally/pkg/currency"
)

type fakeMirror struct {
	parties []string
	txs     []models.Transaction
	err     error
}

func (f *fakeMirror) MirrorTransaction(_ context.Context, tx models.Transaction, partyName string) error {
	f.txs = append(f.txs, tx)
	f.parties = append(f.parties, partyName)
	return f.err
}

type fakeAlerts struct {
	to   []string
	sent []string
	err  error
}

func (f *fakeAlerts) SendText(_ context.Context, to, body string) (string, error) {
	f.to = append(f.to, to)
	f.sent = append(f.sent, body)
	return "wamid", f.err
}

func newBook(t *testing.T) *ledger.Book {
	t.Helper()
	n := 0
	book := ledger.New(nil, ledger.Options{
		Now: func() time.Time { return time.Date(2025, 5, 8, 9, 0, 0, 0, time.UTC) },
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%04d", n)
		},
	}, nil)
	require.NoError(t, book.Load(context.Background()))
	return book
}

func TestRecordTransaction_SideEffects(t *testing.T) {
	book := newBook(t)
	mirror := &fakeMirror{}
	alerts := &fakeAlerts{}
	svc := NewService(book, Options{Mirror: mirror, Alerts: alerts, OwnerPhone: "911", Currency: currency.New("INR")}, nil)
	ctx := context.Background()

	opening := decimal.NewFromInt(50)
	party, err := svc.AddParty(ctx, models.PartyInput{Name: "Zylker Tech", OpeningBalance: &opening})
	require.NoError(t, err)

	receipt, err := svc.RecordTransaction(ctx, models.TransactionInput{PartyID: party.ID, Type: "CREDIT", Amount: decimal.NewFromInt(100)})
	require.NoError(t, err)
	assert.Equal(t, ledger.LinkParty, receipt.Link)
	assert.True(t, receipt.Party.Balance.Equal(decimal.NewFromInt(150)))

	require.Len(t, mirror.txs, 1)
	assert.Equal(t, "Zylker Tech", mirror.parties[0])

	require.Len(t, alerts.sent, 1)
	assert.Equal(t, []string{"911"}, alerts.to)
	assert.Contains(t, alerts.sent[0], receipt.Transaction.InvoiceNumber)
	assert.Contains(t, alerts.sent[0], "cash in")

	notes := svc.Notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, "Bill Generated", notes[0].Title)
	assert.Equal(t, fmt.Sprintf("Invoice %s saved.", receipt.Transaction.InvoiceNumber), notes[0].Message)
}

func TestRecordTransaction_OrphanedWarns(t *testing.T) {
	book := newBook(t)
	mirror := &fakeMirror{}
	svc := NewService(book, Options{Mirror: mirror}, nil)

	receipt, err := svc.RecordTransaction(context.Background(), models.TransactionInput{PartyID: "ghost", Type: "DEBIT", Amount: decimal.NewFromInt(5)})
	require.NoError(t, err)
	assert.Equal(t, ledger.LinkOrphaned, receipt.Link)
	assert.Equal(t, []string{walkInName}, mirror.parties)

	notes := svc.Notifications()
	require.Len(t, notes, 2)
	assert.Equal(t, "Unlinked Transaction", notes[0].Title)
	assert.Equal(t, models.NotifyWarning, notes[0].Type)
}

func TestRecordTransaction_CollaboratorFailuresAreSwallowed(t *testing.T) {
	book := newBook(t)
	svc := NewService(book, Options{
		Mirror:     &fakeMirror{err: errors.New("sheets down")},
		Alerts:     &fakeAlerts{err: errors.New("whatsapp down")},
		OwnerPhone: "911",
	}, nil)

	_, err := svc.RecordTransaction(context.Background(), models.TransactionInput{Type: "CREDIT", Amount: decimal.NewFromInt(5)})
	require.NoError(t, err)
	assert.Len(t, book.Snapshot().Transactions, 1)
}

func TestRecordTransaction_ValidationErrorHasNoSideEffects(t *testing.T) {
	book := newBook(t)
	mirror := &fakeMirror{}
	svc := NewService(book, Options{Mirror: mirror}, nil)

	_, err := svc.RecordTransaction(context.Background(), models.TransactionInput{Type: "CREDIT", Amount: decimal.Zero})
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
	assert.Empty(t, mirror.txs)
	assert.Empty(t, svc.Notifications())
}

func TestAddProduct_NotifiesAndFlagsLowStock(t *testing.T) {
	book := newBook(t)
	alerts := &fakeAlerts{}
	svc := NewService(book, Options{Alerts: alerts, OwnerPhone: "911"}, nil)

	_, err := svc.AddProduct(context.Background(), models.ProductInput{Name: "Webcam 4K Ultra", SKU: "CAM-4K-02", Quantity: 3, LowStockLevel: 10})
	require.NoError(t, err)

	notes := svc.Notifications()
	require.Len(t, notes, 2)
	assert.Equal(t, "Low Stock", notes[0].Title)
	assert.Equal(t, "Stock Updated", notes[1].Title)
	assert.Equal(t, "New product Webcam 4K Ultra added.", notes[1].Message)
	require.Len(t, alerts.sent, 1)
	assert.Contains(t, alerts.sent[0], "CAM-4K-02")
}

func TestAdjustStock_LowStockOnlyOnOut(t *testing.T) {
	book := newBook(t)
	svc := NewService(book, Options{}, nil)
	ctx := context.Background()

	p, err := svc.AddProduct(ctx, models.ProductInput{Name: "Chair", SKU: "CHR", Quantity: 12, LowStockLevel: 10})
	require.NoError(t, err)
	require.Len(t, svc.Notifications(), 1)

	_, _, err = svc.AdjustStock(ctx, p.ID, models.StockAdjustment{Type: "IN", Quantity: 1})
	require.NoError(t, err)
	assert.Len(t, svc.Notifications(), 1)

	updated, _, err := svc.AdjustStock(ctx, p.ID, models.StockAdjustment{Type: "OUT", Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, 8, updated.Quantity)
	assert.Equal(t, "Low Stock", svc.Notifications()[0].Title)
}

func TestDeleteParty(t *testing.T) {
	book := newBook(t)
	svc := NewService(book, Options{}, nil)
	ctx := context.Background()

	p, err := svc.AddParty(ctx, models.PartyInput{Name: "Nexus Solutions"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteParty(ctx, p.ID))
	assert.Equal(t, "Party Removed", svc.Notifications()[0].Title)

	assert.ErrorIs(t, svc.DeleteParty(ctx, p.ID), ledger.ErrPartyNotFound)
}

func TestUpdateProfile_Notifies(t *testing.T) {
	book := newBook(t)
	svc := NewService(book, Options{}, nil)

	profile, err := svc.UpdateProfile(context.Background(), models.ProfileInput{Name: "Owner", BusinessName: "Corner Shop"})
	require.NoError(t, err)
	assert.Equal(t, "Corner Shop", profile.BusinessName)
	assert.Equal(t, "Corner Shop", svc.Profile().BusinessName)
	assert.Equal(t, "Changes Saved", svc.Notifications()[0].Title)
}

func TestSendAlert(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		svc := NewService(newBook(t), Options{}, nil)
		_, err := svc.SendAlert(ctx, models.OutboundMessage{Message: "hi"})
		assert.ErrorIs(t, err, ErrAlertsDisabled)
	})

	t.Run("defaults to owner", func(t *testing.T) {
		alerts := &fakeAlerts{}
		svc := NewService(newBook(t), Options{Alerts: alerts, OwnerPhone: "911"}, nil)
		id, err := svc.SendAlert(ctx, models.OutboundMessage{Message: "stock count tomorrow"})
		require.NoError(t, err)
		assert.Equal(t, "wamid", id)
		assert.Equal(t, []string{"911"}, alerts.to)
	})

	t.Run("validation", func(t *testing.T) {
		svc := NewService(newBook(t), Options{Alerts: &fakeAlerts{}}, nil)
		_, err := svc.SendAlert(ctx, models.OutboundMessage{Message: "hi"})
		assert.ErrorIs(t, err, ledger.ErrInvalidInput)

		_, err = svc.SendAlert(ctx, models.OutboundMessage{To: "912", Message: "  "})
		assert.ErrorIs(t, err, ledger.ErrInvalidInput)
	})

	t.Run("transport failure", func(t *testing.T) {
		svc := NewService(newBook(t), Options{Alerts: &fakeAlerts{err: errors.New("down")}}, nil)
		_, err := svc.SendAlert(ctx, models.OutboundMessage{To: "912", Message: "hi"})
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ledger.ErrInvalidInput)
	})
}
