package bookkeeping

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/tally/internal/domain/models"
	"github.com/mamadbah2/tally/internal/ledger"
	"github.com/mamadbah2/tally/pkg/currency"
)

const walkInName = "Walk-in"

// ErrAlertsDisabled is returned when a manual alert is requested but no
// alert channel is configured.
var ErrAlertsDisabled = errors.New("owner alerts are not configured")

// Book is the part of the ledger the service drives.
type Book interface {
	RecordTransaction(ctx context.Context, in models.TransactionInput) (ledger.Receipt, error)
	AddParty(ctx context.Context, in models.PartyInput) (models.Party, error)
	UpdateParty(ctx context.Context, id string, in models.PartyInput) (models.Party, error)
	DeleteParty(ctx context.Context, id string) error
	Party(id string) (models.Party, error)
	Statement(id string) (models.Party, []ledger.StatementLine, error)
	Reconcile(ctx context.Context) ([]string, error)
	AddProduct(ctx context.Context, in models.ProductInput) (models.Product, error)
	AdjustStock(ctx context.Context, productID string, adj models.StockAdjustment) (models.Product, models.StockHistory, error)
	AddNotification(ctx context.Context, title, message string, kind models.NotificationType) (models.Notification, error)
	ClearNotifications(ctx context.Context) error
	MarkNotificationsRead(ctx context.Context) error
	Profile() models.UserProfile
	UpdateProfile(ctx context.Context, in models.ProfileInput) (models.UserProfile, error)
	Snapshot() models.Snapshot
}

// DaybookMirror copies recorded transactions to an external sheet.
type DaybookMirror interface {
	MirrorTransaction(ctx context.Context, tx models.Transaction, partyName string) error
}

// AlertSender delivers text alerts to the business owner.
type AlertSender interface {
	SendText(ctx context.Context, to, body string) (string, error)
}

// Service applies UI actions to the book and fans out their side effects.
// Mirror and alert failures are logged, never returned.
type Service struct {
	book       Book
	mirror     DaybookMirror
	alerts     AlertSender
	ownerPhone string
	money      currency.Formatter
	logger     *zap.Logger
}

// Options carries the optional collaborators of the service.
type Options struct {
	Mirror     DaybookMirror
	Alerts     AlertSender
	OwnerPhone string
	Currency   currency.Formatter
}

// NewService wires a bookkeeping service.
func NewService(book Book, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Currency.Code() == "" {
		opts.Currency = currency.New("")
	}
	return &Service{
		book:       book,
		mirror:     opts.Mirror,
		alerts:     opts.Alerts,
		ownerPhone: opts.OwnerPhone,
		money:      opts.Currency,
		logger:     logger,
	}
}

// RecordTransaction records a bill or manual entry.
func (s *Service) RecordTransaction(ctx context.Context, in models.TransactionInput) (ledger.Receipt, error) {
	receipt, err := s.book.RecordTransaction(ctx, in)
	if err != nil {
		return ledger.Receipt{}, err
	}
	tx := receipt.Transaction

	partyName := walkInName
	if receipt.Party != nil {
		partyName = receipt.Party.Name
	}

	s.notify(ctx, "Bill Generated", fmt.Sprintf("Invoice %s saved.", tx.InvoiceNumber), models.NotifySuccess)
	if receipt.Link == ledger.LinkOrphaned {
		s.notify(ctx, "Unlinked Transaction",
			fmt.Sprintf("Invoice %s references unknown party %s; no balance was updated.", tx.InvoiceNumber, tx.PartyID),
			models.NotifyWarning)
	}

	if s.mirror != nil {
		if err := s.mirror.MirrorTransaction(ctx, tx, partyName); err != nil {
			s.logger.Warn("failed to mirror transaction", zap.String("invoice", tx.InvoiceNumber), zap.Error(err))
		}
	}

	s.alert(ctx, fmt.Sprintf("%s %s %s (%s) - %s", tx.InvoiceNumber, directionLabel(tx.Type), s.money.Format(tx.Amount), partyName, tx.Date))
	return receipt, nil
}

// AddParty registers a party.
func (s *Service) AddParty(ctx context.Context, in models.PartyInput) (models.Party, error) {
	return s.book.AddParty(ctx, in)
}

// UpdateParty edits a party's profile.
func (s *Service) UpdateParty(ctx context.Context, id string, in models.PartyInput) (models.Party, error) {
	return s.book.UpdateParty(ctx, id, in)
}

// DeleteParty removes a party and warns when history still references it.
func (s *Service) DeleteParty(ctx context.Context, id string) error {
	party, err := s.book.Party(id)
	if err != nil {
		return err
	}
	if err := s.book.DeleteParty(ctx, id); err != nil {
		return err
	}
	s.notify(ctx, "Party Removed", fmt.Sprintf("%s was removed from the ledger.", party.Name), models.NotifyInfo)
	return nil
}

// Statement returns a party's running-balance statement.
func (s *Service) Statement(id string) (models.Party, []ledger.StatementLine, error) {
	return s.book.Statement(id)
}

// Reconcile re-derives every party balance and reports the ones that drifted.
func (s *Service) Reconcile(ctx context.Context) ([]string, error) {
	drifted, err := s.book.Reconcile(ctx)
	if err != nil {
		return nil, err
	}
	if len(drifted) > 0 {
		s.notify(ctx, "Balances Reconciled", fmt.Sprintf("%d party balances were corrected.", len(drifted)), models.NotifyWarning)
	}
	return drifted, nil
}

// AddProduct registers a product with its opening stock.
func (s *Service) AddProduct(ctx context.Context, in models.ProductInput) (models.Product, error) {
	product, err := s.book.AddProduct(ctx, in)
	if err != nil {
		return models.Product{}, err
	}
	s.notify(ctx, "Stock Updated", fmt.Sprintf("New product %s added.", product.Name), models.NotifySuccess)
	s.lowStockCheck(ctx, product)
	return product, nil
}

// AdjustStock applies a manual stock movement.
func (s *Service) AdjustStock(ctx context.Context, productID string, adj models.StockAdjustment) (models.Product, models.StockHistory, error) {
	product, entry, err := s.book.AdjustStock(ctx, productID, adj)
	if err != nil {
		return models.Product{}, models.StockHistory{}, err
	}
	if entry.Type == models.StockOut {
		s.lowStockCheck(ctx, product)
	}
	return product, entry, nil
}

// Notifications lists in-app notifications, newest first.
func (s *Service) Notifications() []models.Notification {
	return s.book.Snapshot().Notifications
}

// ClearNotifications empties the notification list.
func (s *Service) ClearNotifications(ctx context.Context) error {
	return s.book.ClearNotifications(ctx)
}

// MarkNotificationsRead flags all notifications as read.
func (s *Service) MarkNotificationsRead(ctx context.Context) error {
	return s.book.MarkNotificationsRead(ctx)
}

// Profile returns the owner profile.
func (s *Service) Profile() models.UserProfile {
	return s.book.Profile()
}

// UpdateProfile saves the owner profile.
func (s *Service) UpdateProfile(ctx context.Context, in models.ProfileInput) (models.UserProfile, error) {
	profile, err := s.book.UpdateProfile(ctx, in)
	if err != nil {
		return models.UserProfile{}, err
	}
	s.notify(ctx, "Changes Saved", "Your profile details have been updated successfully.", models.NotifySuccess)
	return profile, nil
}

// SendAlert sends a manual text message. An empty recipient means the owner.
func (s *Service) SendAlert(ctx context.Context, msg models.OutboundMessage) (string, error) {
	if s.alerts == nil {
		return "", ErrAlertsDisabled
	}
	to := strings.TrimSpace(msg.To)
	if to == "" {
		to = s.ownerPhone
	}
	if to == "" {
		return "", fmt.Errorf("%w: no recipient", ledger.ErrInvalidInput)
	}
	if strings.TrimSpace(msg.Message) == "" {
		return "", fmt.Errorf("%w: message is required", ledger.ErrInvalidInput)
	}

	id, err := s.alerts.SendText(ctx, to, msg.Message)
	if err != nil {
		return "", fmt.Errorf("send alert: %w", err)
	}
	return id, nil
}

func (s *Service) lowStockCheck(ctx context.Context, product models.Product) {
	if !product.IsLowStock() {
		return
	}
	msg := fmt.Sprintf("%s (%s) is down to %d %s.", product.Name, product.SKU, product.Quantity, product.Unit)
	s.notify(ctx, "Low Stock", msg, models.NotifyWarning)
	s.alert(ctx, "Low stock: "+msg)
}

func (s *Service) notify(ctx context.Context, title, message string, kind models.NotificationType) {
	if _, err := s.book.AddNotification(ctx, title, message, kind); err != nil {
		s.logger.Warn("failed to add notification", zap.String("title", title), zap.Error(err))
	}
}

func (s *Service) alert(ctx context.Context, body string) {
	if s.alerts == nil || s.ownerPhone == "" {
		return
	}
	if _, err := s.alerts.SendText(ctx, s.ownerPhone, body); err != nil {
		s.logger.Warn("failed to send owner alert", zap.Error(err))
	}
}

func directionLabel(kind models.TransactionType) string {
	if kind == models.Debit {
		return "cash out"
	}
	return "cash in"
}
