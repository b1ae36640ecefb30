package reporting

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/tally/internal/domain/models"
	"github.com/mamadbah2/tally/internal/ledger"
	"github.com/mamadbah2/tally/pkg/currency"
)

const (
	dateLayout      = "2006-01-02"
	recentLimit     = 5
	topProductLimit = 5
	walkInName      = "Walk-in"
	unknownItemName = "Item"
)

// SnapshotSource provides a consistent copy of the dataset.
type SnapshotSource interface {
	Snapshot() models.Snapshot
}

// ReportArchive stores generated daily reports.
type ReportArchive interface {
	SaveDailyReport(ctx context.Context, report models.DailyReport) error
}

// Service derives read-only views from the book. Every cash figure goes
// through ledger.ComputeTotals.
type Service struct {
	source  SnapshotSource
	archive ReportArchive
	money   currency.Formatter
	now     func() time.Time
	logger  *zap.Logger
}

// NewService wires a new reporting service instance. archive may be nil.
func NewService(source SnapshotSource, archive ReportArchive, money currency.Formatter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if money.Code() == "" {
		money = currency.New("")
	}
	return &Service{source: source, archive: archive, money: money, now: time.Now, logger: logger}
}

// Dashboard is the landing page summary.
type Dashboard struct {
	CashIn        decimal.Decimal      `json:"cashIn"`
	CashOut       decimal.Decimal      `json:"cashOut"`
	Balance       decimal.Decimal      `json:"balance"`
	LowStockCount int                  `json:"lowStockCount"`
	Recent        []models.Transaction `json:"recent"`
}

// Entry is a transaction with the display name of its party.
type Entry struct {
	models.Transaction
	PartyName string `json:"partyName"`
}

// DaybookQuery narrows the daybook. Search matches category or party name,
// Date is a date prefix such as "2025-05" or "2025-05-08".
type DaybookQuery struct {
	Search string `form:"search"`
	Date   string `form:"date"`
}

// Daybook is a filtered, date-ordered list of transactions with totals.
type Daybook struct {
	Entries []Entry       `json:"entries"`
	Totals  ledger.Totals `json:"totals"`
}

// LedgerOverview lists parties with what is receivable and payable.
type LedgerOverview struct {
	Parties []models.Party  `json:"parties"`
	ToGet   decimal.Decimal `json:"toGet"`
	ToGive  decimal.Decimal `json:"toGive"`
}

// StockEntry is a stock movement with the display name of its product.
type StockEntry struct {
	models.StockHistory
	ProductName string `json:"productName"`
}

// PartyRevenue is the credit total received from one party.
type PartyRevenue struct {
	PartyID string          `json:"partyId"`
	Name    string          `json:"name"`
	Amount  decimal.Decimal `json:"amount"`
}

// ProductValue is the stock value of a product at sale price.
type ProductValue struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Quantity  int             `json:"quantity"`
	Value     decimal.Decimal `json:"value"`
}

// Financial is the business report.
type Financial struct {
	GrossSales     decimal.Decimal `json:"grossSales"`
	NetEarnings    decimal.Decimal `json:"netEarnings"`
	TotalExpenses  decimal.Decimal `json:"totalExpenses"`
	InventoryValue decimal.Decimal `json:"inventoryValue"`
	RevenueByParty []PartyRevenue  `json:"revenueByParty"`
	TopProducts    []ProductValue  `json:"topProducts"`
}

// Dashboard summarizes cash flow, stock alerts and the latest activity.
func (s *Service) Dashboard() Dashboard {
	snap := s.source.Snapshot()
	totals := ledger.ComputeTotals(snap.Transactions, nil)

	recent := snap.Transactions
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}

	return Dashboard{
		CashIn:        totals.Credit,
		CashOut:       totals.Debit,
		Balance:       totals.Net(),
		LowStockCount: countLowStock(snap.Products),
		Recent:        recent,
	}
}

// Daybook filters transactions and orders them by date, newest first.
// Transactions sharing a date keep their stored order.
func (s *Service) Daybook(q DaybookQuery) Daybook {
	snap := s.source.Snapshot()
	names := partyNames(snap.Parties)
	search := strings.ToLower(strings.TrimSpace(q.Search))

	filter := ledger.All(ledger.OnDate(strings.TrimSpace(q.Date)), func(tx models.Transaction) bool {
		if search == "" {
			return true
		}
		if strings.Contains(strings.ToLower(tx.Category), search) {
			return true
		}
		name, ok := names[tx.PartyID]
		return ok && strings.Contains(strings.ToLower(name), search)
	})

	var matched []models.Transaction
	for _, tx := range snap.Transactions {
		if filter(tx) {
			matched = append(matched, tx)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Date > matched[j].Date
	})

	entries := make([]Entry, 0, len(matched))
	for _, tx := range matched {
		entries = append(entries, Entry{Transaction: tx, PartyName: displayParty(names, tx.PartyID)})
	}

	return Daybook{
		Entries: entries,
		Totals:  ledger.ComputeTotals(matched, nil),
	}
}

// LedgerOverview lists parties whose name contains search. The receivable and
// payable totals always cover every party.
func (s *Service) LedgerOverview(search string) LedgerOverview {
	snap := s.source.Snapshot()
	search = strings.ToLower(strings.TrimSpace(search))

	toGet, toGive := outstanding(snap.Parties)
	parties := make([]models.Party, 0, len(snap.Parties))
	for _, p := range snap.Parties {
		if search == "" || strings.Contains(strings.ToLower(p.Name), search) {
			parties = append(parties, p)
		}
	}

	return LedgerOverview{Parties: parties, ToGet: toGet, ToGive: toGive}
}

// BillHistory lists every transaction in stored order.
func (s *Service) BillHistory() []Entry {
	snap := s.source.Snapshot()
	names := partyNames(snap.Parties)

	entries := make([]Entry, 0, len(snap.Transactions))
	for _, tx := range snap.Transactions {
		entries = append(entries, Entry{Transaction: tx, PartyName: displayParty(names, tx.PartyID)})
	}
	return entries
}

// Products lists products whose name or SKU contains search.
func (s *Service) Products(search string) []models.Product {
	snap := s.source.Snapshot()
	search = strings.ToLower(strings.TrimSpace(search))

	products := make([]models.Product, 0, len(snap.Products))
	for _, p := range snap.Products {
		if search == "" ||
			strings.Contains(strings.ToLower(p.Name), search) ||
			strings.Contains(strings.ToLower(p.SKU), search) {
			products = append(products, p)
		}
	}
	return products
}

// StockHistory lists stock movements, newest first.
func (s *Service) StockHistory() []StockEntry {
	snap := s.source.Snapshot()
	names := make(map[string]string, len(snap.Products))
	for _, p := range snap.Products {
		names[p.ID] = p.Name
	}

	entries := make([]StockEntry, 0, len(snap.StockHistory))
	for _, h := range snap.StockHistory {
		name, ok := names[h.ProductID]
		if !ok {
			name = unknownItemName
		}
		entries = append(entries, StockEntry{StockHistory: h, ProductName: name})
	}
	return entries
}

// Financial builds the business report.
func (s *Service) Financial() Financial {
	snap := s.source.Snapshot()
	totals := ledger.ComputeTotals(snap.Transactions, nil)

	inventory := decimal.Zero
	for _, p := range snap.Products {
		inventory = inventory.Add(p.PurchasePrice.Mul(decimal.NewFromInt(int64(p.Quantity))))
	}

	revenue := make([]PartyRevenue, 0, len(snap.Parties))
	for _, p := range snap.Parties {
		credit := ledger.ComputeTotals(snap.Transactions, ledger.ForParty(p.ID)).Credit
		revenue = append(revenue, PartyRevenue{PartyID: p.ID, Name: p.Name, Amount: credit})
	}
	sort.SliceStable(revenue, func(i, j int) bool {
		return revenue[i].Amount.GreaterThan(revenue[j].Amount)
	})

	top := make([]ProductValue, 0, len(snap.Products))
	for _, p := range snap.Products {
		top = append(top, ProductValue{
			ProductID: p.ID,
			Name:      p.Name,
			SKU:       p.SKU,
			Quantity:  p.Quantity,
			Value:     p.SalePrice.Mul(decimal.NewFromInt(int64(p.Quantity))),
		})
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Value.GreaterThan(top[j].Value)
	})
	if len(top) > topProductLimit {
		top = top[:topProductLimit]
	}

	return Financial{
		GrossSales:     totals.Credit,
		NetEarnings:    totals.Net(),
		TotalExpenses:  totals.Debit,
		InventoryValue: inventory,
		RevenueByParty: revenue,
		TopProducts:    top,
	}
}

// DailyReport computes the figures of one day ("2006-01-02"). An empty day
// means today.
func (s *Service) DailyReport(day string) (models.DailyReport, error) {
	day = strings.TrimSpace(day)
	if day == "" {
		day = s.now().Format(dateLayout)
	}
	if _, err := time.Parse(dateLayout, day); err != nil {
		return models.DailyReport{}, fmt.Errorf("%w: %q", ledger.ErrInvalidDate, day)
	}

	snap := s.source.Snapshot()
	filter := ledger.OnDate(day)
	totals := ledger.ComputeTotals(snap.Transactions, filter)

	count := 0
	for _, tx := range snap.Transactions {
		if filter(tx) {
			count++
		}
	}
	toGet, toGive := outstanding(snap.Parties)

	return models.DailyReport{
		Date:             day,
		CashIn:           totals.Credit,
		CashOut:          totals.Debit,
		Net:              totals.Net(),
		TransactionCount: count,
		Receivables:      toGet,
		Payables:         toGive,
		LowStockCount:    countLowStock(snap.Products),
		CreatedAt:        s.now().UTC(),
	}, nil
}

// GenerateDailyReport computes the report for day and archives it when an
// archive is configured.
func (s *Service) GenerateDailyReport(ctx context.Context, day time.Time) (models.DailyReport, error) {
	report, err := s.DailyReport(day.Format(dateLayout))
	if err != nil {
		return models.DailyReport{}, err
	}

	if s.archive != nil {
		if err := s.archive.SaveDailyReport(ctx, report); err != nil {
			return report, fmt.Errorf("archive daily report: %w", err)
		}
	}

	s.logger.Info("daily report generated",
		zap.String("date", report.Date),
		zap.Int("transactions", report.TransactionCount),
		zap.String("net", report.Net.String()))
	return report, nil
}

// FormatDailyReport renders a report as a short text message.
func (s *Service) FormatDailyReport(report models.DailyReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Daily report %s\n", report.Date)
	fmt.Fprintf(&b, "Cash in: %s\n", s.money.Format(report.CashIn))
	fmt.Fprintf(&b, "Cash out: %s\n", s.money.Format(report.CashOut))
	fmt.Fprintf(&b, "Net: %s (%d transactions)\n", s.money.Format(report.Net), report.TransactionCount)
	fmt.Fprintf(&b, "To get: %s | To give: %s", s.money.Format(report.Receivables), s.money.Format(report.Payables))
	if report.LowStockCount > 0 {
		fmt.Fprintf(&b, "\nLow stock items: %d", report.LowStockCount)
	}
	return b.String()
}

func outstanding(parties []models.Party) (toGet, toGive decimal.Decimal) {
	toGet, toGive = decimal.Zero, decimal.Zero
	for _, p := range parties {
		switch {
		case p.Balance.IsPositive():
			toGet = toGet.Add(p.Balance)
		case p.Balance.IsNegative():
			toGive = toGive.Add(p.Balance.Abs())
		}
	}
	return toGet, toGive
}

func countLowStock(products []models.Product) int {
	n := 0
	for _, p := range products {
		if p.IsLowStock() {
			n++
		}
	}
	return n
}

func partyNames(parties []models.Party) map[string]string {
	names := make(map[string]string, len(parties))
	for _, p := range parties {
		names[p.ID] = p.Name
	}
	return names
}

func displayParty(names map[string]string, partyID string) string {
	if name, ok := names[partyID]; ok {
		return name
	}
	return walkInName
}
