package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"agencydesk/internal/models"
	"agencydesk/internal/payments"
)

// FetchPayments returns a project's payments in creation order with their
// receipts attached.
func (s *Store) FetchPayments(ctx context.Context, projectID string) ([]models.Payment, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, project_id, amount, description, status, quotation_url, due_date, created_at
        FROM payments WHERE project_id = ? ORDER BY created_at, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var list []models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.ProjectID, &p.Amount, &p.Description, &p.Status, &p.QuotationURL, &p.DueDate, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		p.Receipts = []models.Receipt{}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachReceipts(ctx, projectID, list); err != nil {
		return nil, err
	}
	return list, nil
}

// CreatePayment records a quotation as a pending payment.
func (s *Store) CreatePayment(ctx context.Context, projectID string, draft payments.Draft) (models.Payment, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return models.Payment{}, err
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	dueDate := draft.DueDate
	if dueDate.IsZero() {
		// Quotations default to net 30, same as the original upload flow.
		dueDate = now.Add(30 * 24 * time.Hour)
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO payments(id, project_id, amount, description, status, quotation_url, due_date, created_at)
        VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		id, projectID, draft.Amount, draft.Description, string(models.PaymentPending), draft.QuotationURL, dueDate, now)
	if err != nil {
		return models.Payment{}, fmt.Errorf("insert payment: %w", err)
	}
	return s.GetPayment(ctx, id)
}

// GetPayment retrieves a payment by id, receipts included.
func (s *Store) GetPayment(ctx context.Context, id string) (models.Payment, error) {
	var p models.Payment
	err := s.db.QueryRowContext(ctx, `SELECT id, project_id, amount, description, status, quotation_url, due_date, created_at
        FROM payments WHERE id = ?`, id).
		Scan(&p.ID, &p.ProjectID, &p.Amount, &p.Description, &p.Status, &p.QuotationURL, &p.DueDate, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Payment{}, models.NotFound("payment", id)
	}
	if err != nil {
		return models.Payment{}, fmt.Errorf("get payment: %w", err)
	}

	receipts, err := s.paymentReceipts(ctx, id)
	if err != nil {
		return models.Payment{}, err
	}
	p.Receipts = receipts
	return p, nil
}

// AppendReceipt inserts a receipt and recomputes the payment's status from
// the full receipt list in the same transaction, so a crash between the
// two writes cannot leave the cached status stale.
func (s *Store) AppendReceipt(ctx context.Context, paymentID string, amountPaid float64, receiptURL string) (models.Payment, error) {
	current, err := s.GetPayment(ctx, paymentID)
	if err != nil {
		return models.Payment{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Payment{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	id := uuid.NewString()
	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `INSERT INTO receipts(id, payment_id, receipt_url, amount_paid, paid_at)
        VALUES(?, ?, ?, ?, ?)`, id, paymentID, receiptURL, amountPaid, now); err != nil {
		return models.Payment{}, fmt.Errorf("insert receipt: %w", err)
	}

	receipts := append(current.Receipts, models.Receipt{AmountPaid: amountPaid})
	status := payments.DeriveStatus(current.Amount, receipts)
	if _, err := tx.ExecContext(ctx, `UPDATE payments SET status = ? WHERE id = ?`, string(status), paymentID); err != nil {
		return models.Payment{}, fmt.Errorf("update payment status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Payment{}, fmt.Errorf("commit receipt: %w", err)
	}
	return s.GetPayment(ctx, paymentID)
}

func (s *Store) paymentReceipts(ctx context.Context, paymentID string) ([]models.Receipt, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, payment_id, receipt_url, amount_paid, paid_at
        FROM receipts WHERE payment_id = ? ORDER BY paid_at, id`, paymentID)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()

	receipts := []models.Receipt{}
	for rows.Next() {
		var r models.Receipt
		if err := rows.Scan(&r.ID, &r.PaymentID, &r.ReceiptURL, &r.AmountPaid, &r.PaidAt); err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		receipts = append(receipts, r)
	}
	return receipts, rows.Err()
}

func (s *Store) attachReceipts(ctx context.Context, projectID string, list []models.Payment) error {
	if len(list) == 0 {
		return nil
	}
	rows, err := s.db.QueryContext(ctx, `SELECT r.id, r.payment_id, r.receipt_url, r.amount_paid, r.paid_at
        FROM receipts r
        JOIN payments p ON p.id = r.payment_id
        WHERE p.project_id = ?
        ORDER BY r.paid_at, r.id`, projectID)
	if err != nil {
		return fmt.Errorf("list project receipts: %w", err)
	}
	defer rows.Close()

	byPayment := make(map[string][]models.Receipt)
	for rows.Next() {
		var r models.Receipt
		if err := rows.Scan(&r.ID, &r.PaymentID, &r.ReceiptURL, &r.AmountPaid, &r.PaidAt); err != nil {
			return fmt.Errorf("scan receipt: %w", err)
		}
		byPayment[r.PaymentID] = append(byPayment[r.PaymentID], r)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range list {
		if rs, ok := byPayment[list[i].ID]; ok {
			list[i].Receipts = rs
		}
	}
	return nil
}
