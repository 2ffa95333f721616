package models

import "time"

// Audit actions recorded for ledger and enrollment mutations.
const (
	AuditActionFeeStructureCreate = "FEE_STRUCTURE_CREATE"
	AuditActionFeeAssign          = "FEE_ASSIGN"
	AuditActionPaymentRecord      = "PAYMENT_RECORD"
	AuditActionEnrollmentCreate   = "ENROLLMENT_CREATE"
	AuditActionEnrollmentUpdate   = "ENROLLMENT_UPDATE"
	AuditActionEnrollmentDelete   = "ENROLLMENT_DELETE"
	AuditActionGradeUpdate        = "GRADE_UPDATE"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
