package ledger

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/mamadbah2/tally/internal/domain/models"
)

// Link tells how a recorded transaction relates to the party list.
type Link string

const (
	// LinkParty means the transaction moved a party balance.
	LinkParty Link = "party"
	// LinkWalkIn means no party was referenced.
	LinkWalkIn Link = "walk-in"
	// LinkOrphaned means the referenced party does not exist; no balance moved.
	LinkOrphaned Link = "orphaned"
)

// Receipt is the outcome of RecordTransaction.
type Receipt struct {
	Transaction models.Transaction `json:"transaction"`
	Party       *models.Party      `json:"party,omitempty"`
	Link        Link               `json:"link"`
}

// RecordTransaction stores a new transaction in front of the list and moves
// the linked party's balance by the signed amount. An unknown party id is
// accepted and reported as LinkOrphaned.
func (b *Book) RecordTransaction(ctx context.Context, in models.TransactionInput) (Receipt, error) {
	kind, ok := models.ParseTransactionType(in.Type)
	if !ok {
		return Receipt{}, fmt.Errorf("%w: %q", ErrInvalidType, in.Type)
	}
	if !in.Amount.IsPositive() {
		return Receipt{}, fmt.Errorf("%w: %s", ErrInvalidAmount, in.Amount)
	}
	date, err := b.resolveDate(strings.TrimSpace(in.Date))
	if err != nil {
		return Receipt{}, err
	}

	var receipt Receipt
	err = b.mutate(ctx, func() error {
		id := b.newID()
		tx := models.Transaction{
			ID:            id,
			Date:          date,
			PartyID:       strings.TrimSpace(in.PartyID),
			Type:          kind,
			Amount:        in.Amount,
			Category:      strings.TrimSpace(in.Category),
			Note:          in.Note,
			InvoiceNumber: strings.TrimSpace(in.InvoiceNumber),
			AttachmentRef: in.AttachmentRef,
		}
		if tx.InvoiceNumber == "" {
			tx.InvoiceNumber = invoiceNumber(b.invoicePrefix, id)
		}

		b.data.Transactions = append([]models.Transaction{tx}, b.data.Transactions...)
		receipt = Receipt{Transaction: tx, Link: LinkWalkIn}

		if tx.PartyID == "" {
			return nil
		}
		idx, found := b.partyIdx[tx.PartyID]
		if !found {
			receipt.Link = LinkOrphaned
			return nil
		}
		party := &b.data.Parties[idx]
		party.Balance = party.Balance.Add(tx.Signed())
		updated := *party
		receipt.Party = &updated
		receipt.Link = LinkParty
		return nil
	})
	if err != nil {
		return Receipt{}, err
	}

	if receipt.Link == LinkOrphaned {
		b.logger.Warn("transaction references unknown party",
			zap.String("transaction_id", receipt.Transaction.ID),
			zap.String("party_id", receipt.Transaction.PartyID))
	}
	b.logger.Debug("transaction recorded",
		zap.String("transaction_id", receipt.Transaction.ID),
		zap.String("invoice", receipt.Transaction.InvoiceNumber),
		zap.String("type", string(receipt.Transaction.Type)),
		zap.String("amount", receipt.Transaction.Amount.String()),
		zap.String("link", string(receipt.Link)))
	return receipt, nil
}

// invoiceNumber derives a short code from the last alphanumerics of id.
func invoiceNumber(prefix, id string) string {
	var code []rune
	runes := []rune(id)
	for i := len(runes) - 1; i >= 0 && len(code) < 6; i-- {
		r := runes[i]
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			code = append([]rune{unicode.ToUpper(r)}, code...)
		}
	}
	return prefix + "-" + string(code)
}
