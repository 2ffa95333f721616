package dto

import "github.com/shopspring/decimal"

// CreateFeeStructureRequest defines the payload for a new fee structure.
type CreateFeeStructureRequest struct {
	DepartmentID    *string         `json:"department_id" validate:"omitempty,uuid"`
	AcademicYear    string          `json:"academic_year" validate:"required,max=16"`
	Semester        int             `json:"semester" validate:"required,min=1,max=3"`
	TuitionFee      decimal.Decimal `json:"tuition_fee"`
	RegistrationFee decimal.Decimal `json:"registration_fee"`
}

// AssignFeeRequest binds a fee structure to a student. DueDate is YYYY-MM-DD.
type AssignFeeRequest struct {
	StudentID      string  `json:"student_id" validate:"required"`
	FeeStructureID string  `json:"fee_structure_id" validate:"required"`
	DueDate        *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

// RecordPaymentRequest records money received against an invoice.
type RecordPaymentRequest struct {
	StudentFeeID  string          `json:"student_fee_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod *string         `json:"payment_method" validate:"omitempty,max=32"`
	Notes         *string         `json:"notes" validate:"omitempty,max=1000"`
}

// InvoiceQuery carries list filters for student fees.
type InvoiceQuery struct {
	StudentID string
}
