package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/tally/internal/domain/models"
)

// StatementLine is one transaction of a party statement with the balance
// right after it.
type StatementLine struct {
	Transaction models.Transaction `json:"transaction"`
	Balance     decimal.Decimal    `json:"balance"`
}

// AddParty registers a party. Its balance starts at the opening balance.
func (b *Book) AddParty(ctx context.Context, in models.PartyInput) (models.Party, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Party{}, fmt.Errorf("%w: party name is required", ErrInvalidInput)
	}

	opening := decimal.Zero
	if in.OpeningBalance != nil {
		opening = *in.OpeningBalance
	}

	var party models.Party
	err := b.mutate(ctx, func() error {
		party = models.Party{
			ID:             b.newID(),
			Name:           name,
			Phone:          strings.TrimSpace(in.Phone),
			Email:          strings.TrimSpace(in.Email),
			Address:        strings.TrimSpace(in.Address),
			OpeningBalance: opening,
			Balance:        opening,
		}
		b.data.Parties = append(b.data.Parties, party)
		b.partyIdx[party.ID] = len(b.data.Parties) - 1
		return nil
	})
	if err != nil {
		return models.Party{}, err
	}

	b.logger.Debug("party added", zap.String("party_id", party.ID), zap.String("name", party.Name))
	return party, nil
}

// UpdateParty overwrites the contact fields of a party, and its opening
// balance when one is given. The balance is re-derived from history and
// cannot be set directly.
func (b *Book) UpdateParty(ctx context.Context, id string, in models.PartyInput) (models.Party, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Party{}, fmt.Errorf("%w: party name is required", ErrInvalidInput)
	}

	var party models.Party
	err := b.mutate(ctx, func() error {
		idx, ok := b.partyIdx[id]
		if !ok {
			return fmt.Errorf("%w: %s", ErrPartyNotFound, id)
		}
		p := &b.data.Parties[idx]
		p.Name = name
		p.Phone = strings.TrimSpace(in.Phone)
		p.Email = strings.TrimSpace(in.Email)
		p.Address = strings.TrimSpace(in.Address)
		if in.OpeningBalance != nil {
			p.OpeningBalance = *in.OpeningBalance
		}
		p.Balance = p.OpeningBalance.Add(ComputeTotals(b.data.Transactions, ForParty(id)).Net())
		party = *p
		return nil
	})
	if err != nil {
		return models.Party{}, err
	}
	return party, nil
}

// DeleteParty removes a party. Its transactions stay in the list and become
// orphaned references.
func (b *Book) DeleteParty(ctx context.Context, id string) error {
	var orphaned int
	err := b.mutate(ctx, func() error {
		idx, ok := b.partyIdx[id]
		if !ok {
			return fmt.Errorf("%w: %s", ErrPartyNotFound, id)
		}
		b.data.Parties = append(b.data.Parties[:idx], b.data.Parties[idx+1:]...)
		b.reindex()
		for _, tx := range b.data.Transactions {
			if tx.PartyID == id {
				orphaned++
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if orphaned > 0 {
		b.logger.Warn("deleted party still referenced by transactions",
			zap.String("party_id", id), zap.Int("transactions", orphaned))
	}
	return nil
}

// Party returns the party carrying id.
func (b *Book) Party(id string) (models.Party, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	idx, ok := b.partyIdx[id]
	if !ok {
		return models.Party{}, fmt.Errorf("%w: %s", ErrPartyNotFound, id)
	}
	return b.data.Parties[idx], nil
}

// Statement lists the party's transactions oldest first with the running
// balance, starting from the opening balance.
func (b *Book) Statement(id string) (models.Party, []StatementLine, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx, ok := b.partyIdx[id]
	if !ok {
		return models.Party{}, nil, fmt.Errorf("%w: %s", ErrPartyNotFound, id)
	}
	party := b.data.Parties[idx]

	running := party.OpeningBalance
	lines := []StatementLine{}
	for i := len(b.data.Transactions) - 1; i >= 0; i-- {
		tx := b.data.Transactions[i]
		if tx.PartyID != id {
			continue
		}
		running = running.Add(tx.Signed())
		lines = append(lines, StatementLine{Transaction: tx, Balance: running})
	}
	return party, lines, nil
}

// Reconcile recomputes every balance from history and reports the parties
// whose balance drifted.
func (b *Book) Reconcile(ctx context.Context) ([]string, error) {
	var drifted []string
	err := b.mutate(ctx, func() error {
		before := make(map[string]decimal.Decimal, len(b.data.Parties))
		for _, p := range b.data.Parties {
			before[p.ID] = p.Balance
		}
		b.deriveBalances()
		for _, p := range b.data.Parties {
			if !p.Balance.Equal(before[p.ID]) {
				drifted = append(drifted, p.ID)
			}
		}
		return nil
	})
	if len(drifted) > 0 {
		b.logger.Warn("party balances reconciled", zap.Strings("party_ids", drifted))
	}
	return drifted, err
}

func (b *Book) reindex() {
	b.partyIdx = make(map[string]int, len(b.data.Parties))
	for i, p := range b.data.Parties {
		b.partyIdx[p.ID] = i
	}
}

func (b *Book) deriveBalances() {
	for i := range b.data.Parties {
		b.data.Parties[i].Balance = b.data.Parties[i].OpeningBalance
	}
	for _, tx := range b.data.Transactions {
		idx, ok := b.partyIdx[tx.PartyID]
		if !ok {
			continue
		}
		p := &b.data.Parties[idx]
		p.Balance = p.Balance.Add(tx.Signed())
	}
}
