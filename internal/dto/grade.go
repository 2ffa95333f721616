package dto

// UpdateGradeRequest overwrites the three score components of a marks row. Omitted scores become zero.
type UpdateGradeRequest struct {
	AttendanceScore *float64 `json:"attendance_score" validate:"omitempty,gte=0,lte=10"`
	MidtermScore    *float64 `json:"midterm_score" validate:"omitempty,gte=0,lte=30"`
	FinalScore      *float64 `json:"final_score" validate:"omitempty,gte=0,lte=60"`
}

// GradeQuery carries list filters for grades.
type GradeQuery struct {
	OfferingID string
	StudentID  string
}
