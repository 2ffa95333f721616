package dto

// CreateEnrollmentRequest enrolls a student in an offering. StudentID is ignored for student callers.
type CreateEnrollmentRequest struct {
	StudentID  string `json:"student_id"`
	OfferingID string `json:"offering_id" validate:"required"`
}

// UpdateEnrollmentStatusRequest sets an enrollment status.
type UpdateEnrollmentStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// EnrollmentQuery carries list filters for enrollments.
type EnrollmentQuery struct {
	StudentID string
	PeriodID  string
}
