package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/tally/internal/domain/models"
	"github.com/mamadbah2/tally/internal/ledger"
	"github.com/mamadbah2/tally/internal/service/reporting"
)

// PartyBook records parties and transactions.
type PartyBook interface {
	RecordTransaction(ctx context.Context, in models.TransactionInput) (ledger.Receipt, error)
	AddParty(ctx context.Context, in models.PartyInput) (models.Party, error)
	UpdateParty(ctx context.Context, id string, in models.PartyInput) (models.Party, error)
	DeleteParty(ctx context.Context, id string) error
	Statement(id string) (models.Party, []ledger.StatementLine, error)
	Reconcile(ctx context.Context) ([]string, error)
}

// LedgerViews are the read models behind the ledger pages.
type LedgerViews interface {
	Dashboard() reporting.Dashboard
	Daybook(q reporting.DaybookQuery) reporting.Daybook
	LedgerOverview(search string) reporting.LedgerOverview
	BillHistory() []reporting.Entry
}

// LedgerHandler serves parties, transactions and the dashboard.
type LedgerHandler struct {
	book   PartyBook
	views  LedgerViews
	logger *zap.Logger
}

// NewLedgerHandler constructs the HTTP handler adapter.
func NewLedgerHandler(book PartyBook, views LedgerViews, logger *zap.Logger) *LedgerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerHandler{book: book, views: views, logger: logger}
}

// Dashboard returns the landing page summary.
func (h *LedgerHandler) Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.views.Dashboard())
}

// ListParties returns parties filtered by ?search= with receivable totals.
func (h *LedgerHandler) ListParties(c *gin.Context) {
	c.JSON(http.StatusOK, h.views.LedgerOverview(c.Query("search")))
}

// CreateParty registers a party.
func (h *LedgerHandler) CreateParty(c *gin.Context) {
	var in models.PartyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		invalidBody(c, h.logger, err)
		return
	}

	party, err := h.book.AddParty(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, "failed to add party", err)
		return
	}
	c.JSON(http.StatusCreated, party)
}

// UpdateParty edits a party profile. The balance cannot be set directly.
func (h *LedgerHandler) UpdateParty(c *gin.Context) {
	var in models.PartyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		invalidBody(c, h.logger, err)
		return
	}

	party, err := h.book.UpdateParty(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, "failed to update party", err)
		return
	}
	c.JSON(http.StatusOK, party)
}

// DeleteParty removes a party.
func (h *LedgerHandler) DeleteParty(c *gin.Context) {
	if err := h.book.DeleteParty(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, "failed to delete party", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Statement returns a party statement with running balances.
func (h *LedgerHandler) Statement(c *gin.Context) {
	party, lines, err := h.book.Statement(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "failed to build statement", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"party": party, "lines": lines})
}

// Reconcile re-derives party balances from history.
func (h *LedgerHandler) Reconcile(c *gin.Context) {
	drifted, err := h.book.Reconcile(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "failed to reconcile balances", err)
		return
	}
	if drifted == nil {
		drifted = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"drifted": drifted})
}

// ListTransactions returns the daybook filtered by ?search= and ?date=.
func (h *LedgerHandler) ListTransactions(c *gin.Context) {
	var q reporting.DaybookQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalidBody(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.views.Daybook(q))
}

// CreateTransaction records a bill or manual entry.
func (h *LedgerHandler) CreateTransaction(c *gin.Context) {
	var in models.TransactionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		invalidBody(c, h.logger, err)
		return
	}

	receipt, err := h.book.RecordTransaction(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, "failed to record transaction", err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

// Invoices returns the bill history.
func (h *LedgerHandler) Invoices(c *gin.Context) {
	c.JSON(http.StatusOK, h.views.BillHistory())
}
