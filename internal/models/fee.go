package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is derived from paid versus total amount.
type InvoiceStatus string

// Invoice statuses.
const (
	InvoiceStatusUnpaid  InvoiceStatus = "unpaid"
	InvoiceStatusPartial InvoiceStatus = "partial"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// DeriveInvoiceStatus applies the ledger rule, evaluated in order:
// paid once paid >= total, unpaid while nothing is paid, partial otherwise.
func DeriveInvoiceStatus(paid, total decimal.Decimal) InvoiceStatus {
	switch {
	case paid.GreaterThanOrEqual(total):
		return InvoiceStatusPaid
	case paid.IsZero():
		return InvoiceStatusUnpaid
	default:
		return InvoiceStatusPartial
	}
}

// FeeStructure defines tuition and registration charges for a department and period.
// Rows are append-only.
type FeeStructure struct {
	ID              string          `db:"id" json:"id"`
	DepartmentID    *string         `db:"department_id" json:"department_id"`
	AcademicYear    string          `db:"academic_year" json:"academic_year"`
	Semester        int             `db:"semester" json:"semester"`
	TuitionFee      decimal.Decimal `db:"tuition_fee" json:"tuition_fee"`
	RegistrationFee decimal.Decimal `db:"registration_fee" json:"registration_fee"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	DepartmentName  *string         `db:"department_name" json:"department_name,omitempty"`
}

// Total is the amount frozen into invoices assigned from this structure.
func (f FeeStructure) Total() decimal.Decimal {
	return f.TuitionFee.Add(f.RegistrationFee)
}

// Invoice is a student_fees row: a fee structure assigned to a student.
type Invoice struct {
	ID             string          `db:"id" json:"id"`
	StudentID      string          `db:"student_id" json:"student_id"`
	FeeStructureID string          `db:"fee_structure_id" json:"fee_structure_id"`
	TotalAmount    decimal.Decimal `db:"total_amount" json:"total_amount"`
	PaidAmount     decimal.Decimal `db:"paid_amount" json:"paid_amount"`
	Status         InvoiceStatus   `db:"status" json:"status"`
	DueDate        *time.Time      `db:"due_date" json:"due_date"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// Balance is what remains owed; negative when overpaid.
func (i Invoice) Balance() decimal.Decimal {
	return i.TotalAmount.Sub(i.PaidAmount)
}

// InvoiceDetail enriches Invoice with student and fee structure info for listings.
type InvoiceDetail struct {
	Invoice
	FirstName     string          `db:"first_name" json:"first_name"`
	LastName      string          `db:"last_name" json:"last_name"`
	StudentIDCard string          `db:"student_id_card" json:"student_id_card"`
	AcademicYear  string          `db:"academic_year" json:"academic_year"`
	Semester      int             `db:"semester" json:"semester"`
	TuitionFee    decimal.Decimal `db:"tuition_fee" json:"tuition_fee"`
}

// InvoiceFilter scopes invoice listings. An empty StudentID means all students.
type InvoiceFilter struct {
	StudentID string
}

// Payment is an append-only ledger entry against an invoice.
type Payment struct {
	ID            string          `db:"id" json:"id"`
	StudentFeeID  string          `db:"student_fee_id" json:"student_fee_id"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	PaymentMethod *string         `db:"payment_method" json:"payment_method"`
	Notes         *string         `db:"notes" json:"notes"`
	ProcessedBy   *string         `db:"processed_by" json:"processed_by"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// PaymentResult carries the recorded payment and the invoice state after it was applied.
type PaymentResult struct {
	Payment Payment `json:"payment"`
	Invoice Invoice `json:"invoice"`
}
