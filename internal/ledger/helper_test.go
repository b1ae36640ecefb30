package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/tally/internal/domain/models"
)

var errStoreDown = errors.New("store down")

type memoryStore struct {
	mu    sync.Mutex
	snap  *models.Snapshot
	saves int
	fail  bool
}

func (m *memoryStore) Load(context.Context) (models.Snapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap == nil {
		return models.Snapshot{}, false, nil
	}
	return m.snap.Clone(), true, nil
}

func (m *memoryStore) Save(_ context.Context, snap models.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errStoreDown
	}
	clone := snap.Clone()
	m.snap = &clone
	m.saves++
	return nil
}

func (m *memoryStore) setFail(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = fail
}

// flakyStore fails every third write until healed.
type flakyStore struct {
	mu     sync.Mutex
	calls  int
	healed bool
	snap   models.Snapshot
}

func (f *flakyStore) Load(context.Context) (models.Snapshot, bool, error) {
	return models.Snapshot{}, false, nil
}

func (f *flakyStore) Save(_ context.Context, snap models.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if !f.healed && f.calls%3 == 0 {
		return errStoreDown
	}
	f.snap = snap.Clone()
	return nil
}

func (f *flakyStore) heal() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.healed = true
}

func (f *flakyStore) transactions() []models.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap.Transactions
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%04d", n)
	}
}

func fixedNow() time.Time {
	return time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
}

func newTestBook(t *testing.T, store SnapshotStore) *Book {
	t.Helper()
	b := New(store, Options{Now: fixedNow, NewID: sequentialIDs()}, nil)
	require.NoError(t, b.Load(context.Background()))
	return b
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func addParty(t *testing.T, b *Book, name string, opening int64) models.Party {
	t.Helper()
	p, err := b.AddParty(context.Background(), models.PartyInput{Name: name, OpeningBalance: decPtr(opening)})
	require.NoError(t, err)
	return p
}

func record(t *testing.T, b *Book, partyID string, kind models.TransactionType, amount int64) Receipt {
	t.Helper()
	r, err := b.RecordTransaction(context.Background(), models.TransactionInput{
		PartyID:  partyID,
		Type:     string(kind),
		Amount:   dec(amount),
		Category: "Sales",
	})
	require.NoError(t, err)
	return r
}

func decPtr(v int64) *decimal.Decimal {
	d := dec(v)
	return &d
}
