package models

// SnapshotVersion is the current layout of the persisted snapshot. Version 0
// snapshots stored party balances without an opening balance.
const SnapshotVersion = 1

// Snapshot is the whole dataset, persisted as one document.
type Snapshot struct {
	Version       int            `json:"version"`
	Transactions  []Transaction  `json:"transactions"`
	Parties       []Party        `json:"parties"`
	Products      []Product      `json:"products"`
	StockHistory  []StockHistory `json:"stockHistory"`
	Notifications []Notification `json:"notifications"`
	User          *UserProfile   `json:"user,omitempty"`
}

// Clone returns a copy that shares no slices with s.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Version:       s.Version,
		Transactions:  append([]Transaction(nil), s.Transactions...),
		Parties:       append([]Party(nil), s.Parties...),
		Products:      append([]Product(nil), s.Products...),
		StockHistory:  append([]StockHistory(nil), s.StockHistory...),
		Notifications: append([]Notification(nil), s.Notifications...),
	}
	if s.User != nil {
		user := *s.User
		out.User = &user
	}
	return out
}
