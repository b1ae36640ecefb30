package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/tally/internal/domain/models"
	"github.com/mamadbah2/tally/internal/ledger"
	"github.com/mamadbah2/tally/internal/server/handlers"
	"github.com/mamadbah2/tally/internal/service/bookkeeping"
	"github.com/mamadbah2/tally/internal/service/reporting"
	"github.com/mamadbah2/tally/pkg/currency"
)

type recordedAlerts struct {
	to []string
}

func (r *recordedAlerts) SendText(_ context.Context, to, _ string) (string, error) {
	r.to = append(r.to, to)
	return "wamid.1", nil
}

func newTestServer(t *testing.T, alerts bookkeeping.AlertSender) http.Handler {
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

	money := currency.New("INR")
	svc := bookkeeping.NewService(book, bookkeeping.Options{Alerts: alerts, OwnerPhone: "911", Currency: money}, nil)
	reports := reporting.NewService(book, nil, money, nil)

	return New(Handlers{
		Ledger:    handlers.NewLedgerHandler(svc, reports, nil),
		Inventory: handlers.NewInventoryHandler(svc, reports, nil),
		Reports:   handlers.NewReportHandler(reports, nil),
		Account:   handlers.NewAccountHandler(svc, nil),
	}, nil)
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := do(t, srv, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestPartyLifecycle(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := do(t, srv, http.MethodPost, "/api/parties", map[string]any{"name": "Zylker Tech", "openingBalance": 50})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	party := decode[models.Party](t, rec)

	for _, tx := range []map[string]any{
		{"partyId": party.ID, "type": "CREDIT", "amount": 100},
		{"partyId": party.ID, "type": "debit", "amount": "40"},
		{"partyId": party.ID, "type": "CREDIT", "amount": 10, "date": "2025-05-09"},
	} {
		rec = do(t, srv, http.MethodPost, "/api/transactions", tx)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec = do(t, srv, http.MethodGet, "/api/parties", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	overview := decode[reporting.LedgerOverview](t, rec)
	require.Len(t, overview.Parties, 1)
	assert.True(t, overview.Parties[0].Balance.Equal(decimal.NewFromInt(120)))
	assert.True(t, overview.ToGet.Equal(decimal.NewFromInt(120)))

	rec = do(t, srv, http.MethodGet, "/api/parties/"+party.ID+"/statement", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	statement := decode[struct {
		Lines []ledger.StatementLine `json:"lines"`
	}](t, rec)
	require.Len(t, statement.Lines, 3)
	assert.True(t, statement.Lines[2].Balance.Equal(decimal.NewFromInt(120)))

	// Contact-only edits leave the opening balance alone.
	rec = do(t, srv, http.MethodPut, "/api/parties/"+party.ID, map[string]any{"name": "Zylker Tech", "phone": "555", "balance": 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	contact := decode[models.Party](t, rec)
	assert.Equal(t, "555", contact.Phone)
	assert.True(t, contact.OpeningBalance.Equal(decimal.NewFromInt(50)))
	assert.True(t, contact.Balance.Equal(decimal.NewFromInt(120)))

	rec = do(t, srv, http.MethodPost, "/api/reconcile", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"drifted":[]}`, rec.Body.String())

	// Balance in the body is ignored; only the opening balance moves it.
	rec = do(t, srv, http.MethodPut, "/api/parties/"+party.ID, map[string]any{"name": "Zylker", "openingBalance": 0, "balance": 9999})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[models.Party](t, rec)
	assert.Equal(t, "Zylker", updated.Name)
	assert.True(t, updated.Balance.Equal(decimal.NewFromInt(70)))

	rec = do(t, srv, http.MethodDelete, "/api/parties/"+party.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, srv, http.MethodDelete, "/api/parties/"+party.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/invoices", nil)
	bills := decode[[]reporting.Entry](t, rec)
	require.Len(t, bills, 3)
	assert.Equal(t, "Walk-in", bills[0].PartyName)
}

func TestCreateTransaction_Validation(t *testing.T) {
	srv := newTestServer(t, nil)

	cases := map[string]map[string]any{
		"missing type":   {"amount": 10},
		"bad type":       {"type": "REFUND", "amount": 10},
		"zero amount":    {"type": "CREDIT", "amount": 0},
		"negative":       {"type": "DEBIT", "amount": -5},
		"malformed date": {"type": "CREDIT", "amount": 5, "date": "08/05/2025"},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, "/api/transactions", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}

func TestCreateTransaction_UnknownPartyIsOrphaned(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := do(t, srv, http.MethodPost, "/api/transactions", map[string]any{"partyId": "ghost", "type": "CREDIT", "amount": 25})
	require.Equal(t, http.StatusCreated, rec.Code)
	receipt := decode[ledger.Receipt](t, rec)
	assert.Equal(t, ledger.LinkOrphaned, receipt.Link)
	assert.Nil(t, receipt.Party)

	rec = do(t, srv, http.MethodGet, "/api/notifications", nil)
	notes := decode[[]models.Notification](t, rec)
	require.Len(t, notes, 2)
	assert.Equal(t, models.NotifyWarning, notes[0].Type)
}

func TestDaybookAndDashboard(t *testing.T) {
	srv := newTestServer(t, nil)

	do(t, srv, http.MethodPost, "/api/transactions", map[string]any{"type": "CREDIT", "amount": 300, "category": "Sales", "date": "2025-05-07"})
	do(t, srv, http.MethodPost, "/api/transactions", map[string]any{"type": "DEBIT", "amount": 120, "category": "Rent"})

	rec := do(t, srv, http.MethodGet, "/api/transactions?search=rent", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	daybook := decode[reporting.Daybook](t, rec)
	require.Len(t, daybook.Entries, 1)
	assert.True(t, daybook.Totals.Debit.Equal(decimal.NewFromInt(120)))

	rec = do(t, srv, http.MethodGet, "/api/transactions?date=2025-05-07", nil)
	daybook = decode[reporting.Daybook](t, rec)
	require.Len(t, daybook.Entries, 1)
	assert.Equal(t, "Sales", daybook.Entries[0].Category)

	rec = do(t, srv, http.MethodGet, "/api/dashboard", nil)
	dash := decode[reporting.Dashboard](t, rec)
	assert.True(t, dash.Balance.Equal(decimal.NewFromInt(180)))
	assert.Len(t, dash.Recent, 2)
}

func TestInventory(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := do(t, srv, http.MethodPost, "/api/products", map[string]any{"name": "Mouse", "sku": "MS-01", "quantity": 4, "lowStockLevel": 1, "salePrice": 9})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	product := decode[models.Product](t, rec)

	rec = do(t, srv, http.MethodPost, "/api/products", map[string]any{"name": "No SKU"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/products/"+product.ID+"/stock", map[string]any{"type": "OUT", "quantity": 10})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/products/"+product.ID+"/stock", map[string]any{"type": "OUT", "quantity": 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	adjusted := decode[struct {
		Product models.Product `json:"product"`
	}](t, rec)
	assert.Equal(t, 1, adjusted.Product.Quantity)

	rec = do(t, srv, http.MethodPost, "/api/products/missing/stock", map[string]any{"type": "IN", "quantity": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/products?search=ms-", nil)
	assert.Len(t, decode[[]models.Product](t, rec), 1)

	rec = do(t, srv, http.MethodGet, "/api/stock-history", nil)
	history := decode[[]reporting.StockEntry](t, rec)
	require.Len(t, history, 2)
	assert.Equal(t, "Mouse", history[0].ProductName)
	assert.Equal(t, models.StockOut, history[0].Type)
}

func TestReports(t *testing.T) {
	srv := newTestServer(t, nil)
	do(t, srv, http.MethodPost, "/api/transactions", map[string]any{"type": "CREDIT", "amount": 300})

	rec := do(t, srv, http.MethodGet, "/api/reports", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	financial := decode[reporting.Financial](t, rec)
	assert.True(t, financial.GrossSales.Equal(decimal.NewFromInt(300)))

	rec = do(t, srv, http.MethodGet, "/api/reports/daily?date=2025-05-08", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	daily := decode[models.DailyReport](t, rec)
	assert.Equal(t, 1, daily.TransactionCount)

	rec = do(t, srv, http.MethodGet, "/api/reports/daily?date=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNotificationsAndProfile(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := do(t, srv, http.MethodPut, "/api/profile", map[string]any{"name": "Owner", "businessName": "Corner Shop"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, srv, http.MethodPut, "/api/profile", map[string]any{"name": "Owner"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/profile", nil)
	assert.Equal(t, "Corner Shop", decode[models.UserProfile](t, rec).BusinessName)

	rec = do(t, srv, http.MethodPost, "/api/notifications/read", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, srv, http.MethodGet, "/api/notifications", nil)
	notes := decode[[]models.Notification](t, rec)
	require.Len(t, notes, 1)
	assert.True(t, notes[0].IsRead)

	rec = do(t, srv, http.MethodDelete, "/api/notifications", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, srv, http.MethodGet, "/api/notifications", nil)
	assert.Empty(t, decode[[]models.Notification](t, rec))
}

func TestSendAlert(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodPost, "/api/alerts", map[string]any{"message": "hello"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	alerts := &recordedAlerts{}
	srv := newTestServer(t, alerts)

	rec = do(t, srv, http.MethodPost, "/api/alerts", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/alerts", map[string]any{"message": "hello"})
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"messageId":"wamid.1"}`, rec.Body.String())
	assert.Equal(t, []string{"911"}, alerts.to)
}
