package models

import "time"

// Score ceilings for each grade component.
const (
	MaxAttendanceScore = 10
	MaxMidtermScore    = 30
	MaxFinalScore      = 60
)

// Grade is the marks row attached 1:1 to an enrollment.
type Grade struct {
	ID              string    `db:"id" json:"id"`
	EnrollmentID    string    `db:"enrollment_id" json:"enrollment_id"`
	AttendanceScore float64   `db:"attendance_score" json:"attendance_score"`
	MidtermScore    float64   `db:"midterm_score" json:"midterm_score"`
	FinalScore      float64   `db:"final_score" json:"final_score"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// Total sums the components. It is never persisted.
func (g Grade) Total() float64 {
	return g.AttendanceScore + g.MidtermScore + g.FinalScore
}

// GradeDetail is a grade with enrollment, student and course context.
type GradeDetail struct {
	Grade
	StudentID     string  `db:"student_id" json:"student_id,omitempty"`
	OfferingID    string  `db:"offering_id" json:"offering_id,omitempty"`
	FirstName     string  `db:"first_name" json:"first_name,omitempty"`
	LastName      string  `db:"last_name" json:"last_name,omitempty"`
	StudentIDCard string  `db:"student_id_card" json:"student_id_card,omitempty"`
	CourseName    string  `db:"course_name" json:"course_name,omitempty"`
	CourseCode    string  `db:"course_code" json:"course_code,omitempty"`
	Credits       int     `db:"credits" json:"credits,omitempty"`
	TotalScore    float64 `db:"-" json:"total_score"`
}

// GradeFilter scopes grade listings.
type GradeFilter struct {
	OfferingID string
	StudentID  string
	LecturerID string
}
