// Package payments tracks what a project owes and what has been paid.
// A Ledger mirrors one project's payments as last confirmed by the
// persistence collaborator; every mutation goes to the store first and the
// local snapshot only advances on success.
package payments

import (
	"context"
	"fmt"
	"time"

	"agencydesk/internal/dashboard"
	"agencydesk/internal/models"
)

// Store is the persistence collaborator behind a Ledger. Implementations
// decide authorization and durability; the ledger only requires that a
// returned error means nothing was written.
type Store interface {
	FetchPayments(ctx context.Context, projectID string) ([]models.Payment, error)
	CreatePayment(ctx context.Context, projectID string, draft Draft) (models.Payment, error)
	AppendReceipt(ctx context.Context, paymentID string, amountPaid float64, receiptURL string) (models.Payment, error)
}

// Draft carries the fields an admin sets when uploading a quotation.
type Draft struct {
	Amount       float64
	Description  string
	QuotationURL string
	DueDate      time.Time
}

// Totals summarizes a project's money flow. Remaining is clamped at zero:
// receipts may legitimately overshoot the quoted amount, and the overshoot
// is reported separately as Overpaid rather than as negative remaining.
type Totals struct {
	TotalAmount float64 `json:"totalAmount"`
	TotalPaid   float64 `json:"totalPaid"`
	Remaining   float64 `json:"remaining"`
	Overpaid    float64 `json:"overpaid,omitempty"`
}

// Ledger is the payment reconciliation model for one project.
type Ledger struct {
	store     Store
	projectID string
	payments  []models.Payment
}

// NewLedger builds a ledger with an empty snapshot. Call Refresh to load.
func NewLedger(store Store, projectID string) *Ledger {
	return &Ledger{store: store, projectID: projectID}
}

// ProjectID returns the project this ledger mirrors.
func (l *Ledger) ProjectID() string { return l.projectID }

// Refresh replaces the snapshot with the store's current payment list.
func (l *Ledger) Refresh(ctx context.Context) error {
	payments, err := l.store.FetchPayments(ctx, l.projectID)
	if err != nil {
		return fmt.Errorf("fetch payments: %w", err)
	}
	l.payments = payments
	return nil
}

// Payments returns a copy of the confirmed snapshot.
func (l *Ledger) Payments() []models.Payment {
	out := make([]models.Payment, len(l.payments))
	copy(out, l.payments)
	return out
}

// CreateQuotation registers a new payment due on the project. The caller
// must be an admin; that gate lives at the transport layer, this model
// validates the amount and records the quotation. Status starts pending.
func (l *Ledger) CreateQuotation(ctx context.Context, amount float64, description, quotationURL string, dueDate time.Time) (models.Payment, error) {
	if amount <= 0 {
		return models.Payment{}, models.Validationf("amount", "must be positive, got %v", amount)
	}
	p, err := l.store.CreatePayment(ctx, l.projectID, Draft{
		Amount:       amount,
		Description:  description,
		QuotationURL: quotationURL,
		DueDate:      dueDate,
	})
	if err != nil {
		return models.Payment{}, fmt.Errorf("create payment: %w", err)
	}
	l.payments = append(l.payments, p)
	return p, nil
}

// AddReceipt appends a receipt to one of the project's payments and adopts
// the store's recomputed status. Overshoot past the quoted amount is
// accepted and recorded as-is.
func (l *Ledger) AddReceipt(ctx context.Context, paymentID string, amountPaid float64, receiptURL string) (models.Payment, error) {
	if amountPaid <= 0 {
		return models.Payment{}, models.Validationf("amountPaid", "must be positive, got %v", amountPaid)
	}
	if l.indexOf(paymentID) < 0 {
		return models.Payment{}, models.NotFound("payment", paymentID)
	}
	p, err := l.store.AppendReceipt(ctx, paymentID, amountPaid, receiptURL)
	if err != nil {
		return models.Payment{}, fmt.Errorf("append receipt: %w", err)
	}
	if i := l.indexOf(p.ID); i >= 0 {
		l.payments[i] = p
	}
	return p, nil
}

// Status rolls the snapshot up to a single project-level payment status.
func (l *Ledger) Status() models.PaymentStatus {
	return dashboard.ProjectPaymentStatus(l.payments)
}

// Totals sums the snapshot's amounts and receipts.
func (l *Ledger) Totals() Totals {
	return SumTotals(l.payments)
}

func (l *Ledger) indexOf(paymentID string) int {
	for i, p := range l.payments {
		if p.ID == paymentID {
			return i
		}
	}
	return -1
}

// Paid sums a payment's receipts.
func Paid(p models.Payment) float64 {
	var sum float64
	for _, r := range p.Receipts {
		sum += r.AmountPaid
	}
	return sum
}

// DeriveStatus computes the status a payment should carry given its quoted
// amount and receipts: paid once receipts cover the amount, partial while
// anything has been paid, pending when nothing has.
func DeriveStatus(amount float64, receipts []models.Receipt) models.PaymentStatus {
	var paid float64
	for _, r := range receipts {
		paid += r.AmountPaid
	}
	switch {
	case paid >= amount:
		return models.PaymentPaid
	case paid > 0:
		return models.PaymentPartial
	default:
		return models.PaymentPending
	}
}

// SumTotals aggregates totals across a payment list.
func SumTotals(payments []models.Payment) Totals {
	var t Totals
	for _, p := range payments {
		t.TotalAmount += p.Amount
		t.TotalPaid += Paid(p)
	}
	t.Remaining = t.TotalAmount - t.TotalPaid
	if t.Remaining < 0 {
		t.Overpaid = -t.Remaining
		t.Remaining = 0
	}
	return t
}
