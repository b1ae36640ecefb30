// Package ledger holds the bookkeeping dataset and keeps party balances
// derived from transaction history.
package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/tally/internal/domain/models"
)

const dateLayout = "2006-01-02"

// SnapshotStore persists the whole dataset as a single document.
type SnapshotStore interface {
	// Load returns the stored snapshot; found is false when nothing was stored yet.
	Load(ctx context.Context) (snap models.Snapshot, found bool, err error)
	Save(ctx context.Context, snap models.Snapshot) error
}

// Options tunes a Book.
type Options struct {
	// InvoicePrefix prefixes generated invoice numbers. Defaults to "INV".
	InvoicePrefix string
	// SeedDemoData seeds demonstration data when the store holds no snapshot.
	SeedDemoData bool
	Now          func() time.Time
	NewID        func() string
}

// Book is the single owner of the bookkeeping dataset. Every mutation is
// serialized and followed by a full snapshot write.
type Book struct {
	mu       sync.Mutex
	data     models.Snapshot
	partyIdx map[string]int
	revision uint64

	saveMu sync.Mutex
	saved  uint64
	dirty  bool

	store         SnapshotStore
	logger        *zap.Logger
	invoicePrefix string
	seed          bool
	now           func() time.Time
	newID         func() string
}

// New builds an empty Book. Call Load before serving requests.
func New(store SnapshotStore, opts Options, logger *zap.Logger) *Book {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.InvoicePrefix == "" {
		opts.InvoicePrefix = "INV"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	b := &Book{
		store:         store,
		logger:        logger,
		invoicePrefix: opts.InvoicePrefix,
		seed:          opts.SeedDemoData,
		now:           opts.Now,
		newID:         opts.NewID,
	}
	b.data = normalize(models.Snapshot{Version: models.SnapshotVersion})
	b.reindex()
	return b
}

// Load reads the snapshot once. When the store has none, demonstration data
// is seeded (if enabled) and written back.
func (b *Book) Load(ctx context.Context) error {
	var (
		snap  models.Snapshot
		found bool
		err   error
	)
	if b.store != nil {
		snap, found, err = b.store.Load(ctx)
		if err != nil {
			return fmt.Errorf("load snapshot: %w", err)
		}
	}

	seeded := false
	if !found {
		snap = models.Snapshot{Version: models.SnapshotVersion}
		if b.seed {
			snap = DemoSnapshot()
			seeded = true
		}
	}

	unknown := canonicalizeTypes(&snap)
	if len(unknown) > 0 {
		b.logger.Warn("stored transactions carry an unknown type and are ignored by balances and totals",
			zap.Strings("transaction_ids", unknown))
	}
	migrated := migrate(&snap)

	b.mu.Lock()
	b.data = normalize(snap)
	b.reindex()
	b.deriveBalances()
	b.revision++
	rev, clone := b.revision, b.data.Clone()
	b.mu.Unlock()

	b.logger.Info("snapshot loaded",
		zap.Bool("found", found),
		zap.Bool("seeded", seeded),
		zap.Bool("migrated", migrated),
		zap.Int("transactions", len(clone.Transactions)),
		zap.Int("parties", len(clone.Parties)),
		zap.Int("products", len(clone.Products)))

	if seeded || migrated {
		b.save(ctx, rev, clone)
	} else {
		b.saveMu.Lock()
		b.saved = rev
		b.saveMu.Unlock()
	}
	return nil
}

// Snapshot returns a copy of the current dataset.
func (b *Book) Snapshot() models.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.data.Clone()
}

// Dirty reports whether the latest state failed to reach the store.
func (b *Book) Dirty() bool {
	b.saveMu.Lock()
	defer b.saveMu.Unlock()
	return b.dirty
}

// Flush writes the current state when an earlier write failed. The state is
// captured under saveMu so the dirty flag is only cleared for the latest
// revision.
func (b *Book) Flush(ctx context.Context) error {
	b.saveMu.Lock()
	defer b.saveMu.Unlock()

	if !b.dirty || b.store == nil {
		return nil
	}

	// Lock order is saveMu then mu here; every other path releases mu
	// before taking saveMu.
	b.mu.Lock()
	rev, snap := b.revision, b.data.Clone()
	b.mu.Unlock()
	if err := b.store.Save(ctx, snap); err != nil {
		return fmt.Errorf("flush snapshot: %w", err)
	}
	if rev > b.saved {
		b.saved = rev
	}
	b.dirty = false
	b.logger.Info("snapshot flushed", zap.Uint64("revision", rev))
	return nil
}

// mutate applies fn under the book lock and persists the result.
func (b *Book) mutate(ctx context.Context, fn func() error) error {
	b.mu.Lock()
	if err := fn(); err != nil {
		b.mu.Unlock()
		return err
	}
	b.revision++
	rev, snap := b.revision, b.data.Clone()
	b.mu.Unlock()

	b.save(context.WithoutCancel(ctx), rev, snap)
	return nil
}

// save writes snap unless a newer revision already reached the store. A
// failed write keeps the in-memory state and marks the book dirty.
func (b *Book) save(ctx context.Context, rev uint64, snap models.Snapshot) {
	b.saveMu.Lock()
	defer b.saveMu.Unlock()

	if rev <= b.saved {
		return
	}
	if b.store == nil {
		b.saved = rev
		return
	}
	if err := b.store.Save(ctx, snap); err != nil {
		b.dirty = true
		b.logger.Error("snapshot write failed", zap.Uint64("revision", rev), zap.Error(err))
		return
	}
	b.saved = rev
	b.dirty = false
}

func (b *Book) today() string {
	return b.now().Format(dateLayout)
}

func (b *Book) resolveDate(value string) (string, error) {
	if value == "" {
		return b.today(), nil
	}
	if _, err := time.Parse(dateLayout, value); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return value, nil
}

func normalize(s models.Snapshot) models.Snapshot {
	if s.Transactions == nil {
		s.Transactions = []models.Transaction{}
	}
	if s.Parties == nil {
		s.Parties = []models.Party{}
	}
	if s.Products == nil {
		s.Products = []models.Product{}
	}
	if s.StockHistory == nil {
		s.StockHistory = []models.StockHistory{}
	}
	if s.Notifications == nil {
		s.Notifications = []models.Notification{}
	}
	if s.User == nil {
		user := DefaultProfile()
		s.User = &user
	}
	return s
}

// canonicalizeTypes upper-cases stored transaction types and returns the ids
// of transactions whose type is neither CREDIT nor DEBIT.
func canonicalizeTypes(s *models.Snapshot) []string {
	var unknown []string
	for i := range s.Transactions {
		tx := &s.Transactions[i]
		kind, ok := models.ParseTransactionType(string(tx.Type))
		if !ok {
			unknown = append(unknown, tx.ID)
			continue
		}
		tx.Type = kind
	}
	return unknown
}

// migrate upgrades legacy snapshots whose parties carry a stored balance and
// no opening balance. The stored balance is kept as the derived one.
func migrate(s *models.Snapshot) bool {
	if s.Version >= models.SnapshotVersion {
		return false
	}
	for i := range s.Parties {
		p := &s.Parties[i]
		sum := ComputeTotals(s.Transactions, ForParty(p.ID)).Net()
		p.OpeningBalance = p.Balance.Sub(sum)
	}
	s.Version = models.SnapshotVersion
	return true
}
