package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/tally/internal/domain/models"
)

// DefaultProfile is the owner profile used until one is saved.
func DefaultProfile() models.UserProfile {
	return models.UserProfile{
		Name:         "Admin Account",
		Email:        "admin@tallypro.com",
		PhotoURL:     "https://picsum.photos/seed/admin/200",
		BusinessName: "TallyPro Global Corp",
		Subscription: "Enterprise",
	}
}

// DemoSnapshot is the demonstration dataset seeded into an empty store. Party
// balances are the current ones, so it is a version 0 snapshot and goes
// through migration like any legacy document.
func DemoSnapshot() models.Snapshot {
	d := decimal.NewFromInt
	user := DefaultProfile()

	return models.Snapshot{
		Version: 0,
		Parties: []models.Party{
			{ID: "1", Name: "Zylker Tech", Phone: "9876543210", Email: "zylker@tech.com", Address: "Bangalore", Balance: d(145000)},
			{ID: "2", Name: "Nexus Solutions", Phone: "9123456780", Email: "nexus@sol.com", Address: "Mumbai", Balance: d(-22000)},
			{ID: "3", Name: "Green Earth Inc", Phone: "8877665544", Email: "green@earth.com", Address: "Pune", Balance: d(50000)},
			{ID: "4", Name: "Velocity Motors", Phone: "7766554433", Email: "velocity@motors.com", Address: "Chennai", Balance: d(-8500)},
			{ID: "5", Name: "Crystal Clear", Phone: "9988776655", Email: "crystal@clear.com", Address: "Delhi", Balance: d(12000)},
		},
		Products: []models.Product{
			{ID: "1", Name: "Workstation Laptop", SKU: "LAP-WS-01", Unit: "units", Quantity: 24, LowStockLevel: 5, PurchasePrice: d(45000), SalePrice: d(65000)},
			{ID: "2", Name: "Ergo Chair X5", SKU: "CHR-ER-05", Unit: "units", Quantity: 8, LowStockLevel: 10, PurchasePrice: d(12000), SalePrice: d(18500)},
			{ID: "3", Name: `Curved Monitor 32"`, SKU: "MON-CV-32", Unit: "units", Quantity: 15, LowStockLevel: 5, PurchasePrice: d(22000), SalePrice: d(32000)},
			{ID: "4", Name: "Wireless Mechanical KB", SKU: "KB-WL-RGB", Unit: "units", Quantity: 45, LowStockLevel: 15, PurchasePrice: d(3500), SalePrice: d(5500)},
			{ID: "5", Name: "Webcam 4K Ultra", SKU: "CAM-4K-02", Unit: "units", Quantity: 3, LowStockLevel: 10, PurchasePrice: d(8000), SalePrice: d(12000)},
		},
		Transactions: []models.Transaction{
			{ID: "t1", Date: "2025-05-01", PartyID: "1", Type: models.Credit, Amount: d(45000), Category: "Sales", Note: "Project Phase 1", InvoiceNumber: "TP-001"},
			{ID: "t2", Date: "2025-05-02", PartyID: "2", Type: models.Debit, Amount: d(15000), Category: "Utilities", Note: "Office Maintenance", InvoiceNumber: "TP-002"},
			{ID: "t3", Date: "2025-05-03", PartyID: "3", Type: models.Credit, Amount: d(22000), Category: "Consulting", Note: "Q2 Strategy", InvoiceNumber: "TP-003"},
			{ID: "t4", Date: "2025-05-04", PartyID: "4", Type: models.Debit, Amount: d(5000), Category: "Logistics", Note: "Delivery Charges", InvoiceNumber: "TP-004"},
			{ID: "t5", Date: "2025-05-05", PartyID: "5", Type: models.Credit, Amount: d(12000), Category: "Retail", Note: "Counter Sale", InvoiceNumber: "TP-005"},
			{ID: "t6", Date: "2025-05-06", PartyID: "1", Type: models.Debit, Amount: d(3500), Category: "Hardware", Note: "New Router", InvoiceNumber: "TP-006"},
			{ID: "t7", Date: "2025-05-07", PartyID: "2", Type: models.Credit, Amount: d(9000), Category: "Maintenance", Note: "Service Fee", InvoiceNumber: "TP-007"},
		},
		StockHistory: []models.StockHistory{
			{ID: "s1", ProductID: "1", Date: "2025-05-10", Type: models.StockIn, Quantity: 10, Note: "Vendor Delivery"},
			{ID: "s2", ProductID: "2", Date: "2025-05-11", Type: models.StockOut, Quantity: 2, Note: "Office Setup"},
			{ID: "s3", ProductID: "3", Date: "2025-05-12", Type: models.StockIn, Quantity: 5, Note: "Return Stock"},
		},
		Notifications: []models.Notification{},
		User:          &user,
	}
}
