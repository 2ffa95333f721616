package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-ledger-api/internal/models"
)

const invoiceColumns = `id, student_id, fee_structure_id, total_amount, paid_amount, status, due_date, created_at`

// InvoiceRepository persists student fee assignments and their payments.
type InvoiceRepository struct {
	db *sqlx.DB
}

// NewInvoiceRepository constructs the repository.
func NewInvoiceRepository(db *sqlx.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// List returns invoices joined with student and structure info, newest first.
func (r *InvoiceRepository) List(ctx context.Context, filter models.InvoiceFilter) ([]models.InvoiceDetail, error) {
	query := `SELECT sf.id, sf.student_id, sf.fee_structure_id, sf.total_amount, sf.paid_amount, sf.status, sf.due_date, sf.created_at,
        s.first_name, s.last_name, s.student_id_card,
        fs.academic_year, fs.semester, fs.tuition_fee
        FROM student_fees sf
        JOIN students s ON sf.student_id = s.id
        JOIN fee_structures fs ON sf.fee_structure_id = fs.id`
	var args []interface{}
	if filter.StudentID != "" {
		query += ` WHERE sf.student_id = $1`
		args = append(args, filter.StudentID)
	}
	query += ` ORDER BY sf.created_at DESC`

	invoices := []models.InvoiceDetail{}
	if err := r.db.SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return invoices, nil
}

// FindByID returns an invoice by ID.
func (r *InvoiceRepository) FindByID(ctx context.Context, id string) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM student_fees WHERE id = $1`
	var inv models.Invoice
	if err := r.db.GetContext(ctx, &inv, query, id); err != nil {
		return nil, err
	}
	return &inv, nil
}

// Create inserts an invoice. The caller supplies the frozen total.
func (r *InvoiceRepository) Create(ctx context.Context, inv *models.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now().UTC()
	}
	if inv.Status == "" {
		inv.Status = models.InvoiceStatusUnpaid
	}
	const query = `INSERT INTO student_fees (id, student_id, fee_structure_id, total_amount, paid_amount, status, due_date, created_at)
        VALUES (:id, :student_id, :fee_structure_id, :total_amount, :paid_amount, :status, :due_date, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, inv); err != nil {
		return fmt.Errorf("create invoice: %w", err)
	}
	return nil
}

// ListPayments returns the payments recorded against an invoice, oldest first.
func (r *InvoiceRepository) ListPayments(ctx context.Context, invoiceID string) ([]models.Payment, error) {
	const query = `SELECT id, student_fee_id, amount, payment_method, notes, processed_by, created_at
        FROM payments WHERE student_fee_id = $1 ORDER BY created_at`
	payments := []models.Payment{}
	if err := r.db.SelectContext(ctx, &payments, query, invoiceID); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

// RecordPayment appends a payment and applies it to the invoice in one transaction.
// The invoice row is locked for the transaction and paid_amount is incremented in SQL.
// Returns an error wrapping sql.ErrNoRows when the invoice does not exist.
func (r *InvoiceRepository) RecordPayment(ctx context.Context, payment *models.Payment) (result *models.PaymentResult, err error) {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin payment transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var invoiceID string
	if err = tx.GetContext(ctx, &invoiceID, `SELECT id FROM student_fees WHERE id = $1 FOR UPDATE`, payment.StudentFeeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("lock invoice %s: %w", payment.StudentFeeID, err)
		}
		return nil, fmt.Errorf("lock invoice: %w", err)
	}

	const insertPayment = `INSERT INTO payments (id, student_fee_id, amount, payment_method, notes, processed_by)
        VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`
	if err = tx.QueryRowxContext(ctx, insertPayment,
		payment.ID, payment.StudentFeeID, payment.Amount, payment.PaymentMethod, payment.Notes, payment.ProcessedBy,
	).Scan(&payment.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}

	var inv models.Invoice
	applyPayment := `UPDATE student_fees SET paid_amount = paid_amount + $2 WHERE id = $1 RETURNING ` + invoiceColumns
	if err = tx.GetContext(ctx, &inv, applyPayment, payment.StudentFeeID, payment.Amount); err != nil {
		return nil, fmt.Errorf("apply payment: %w", err)
	}

	inv.Status = models.DeriveInvoiceStatus(inv.PaidAmount, inv.TotalAmount)
	if _, err = tx.ExecContext(ctx, `UPDATE student_fees SET status = $2 WHERE id = $1`, inv.ID, inv.Status); err != nil {
		return nil, fmt.Errorf("update invoice status: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit payment: %w", err)
	}
	return &models.PaymentResult{Payment: *payment, Invoice: inv}, nil
}
