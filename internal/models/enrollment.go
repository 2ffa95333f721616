package models

import "time"

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusDropped   EnrollmentStatus = "dropped"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
)

// Valid reports whether s is a known status.
func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentStatusActive, EnrollmentStatusDropped, EnrollmentStatusCompleted:
		return true
	}
	return false
}

// Enrollment captures a student's registration in a course offering.
type Enrollment struct {
	ID         string           `db:"id" json:"id"`
	StudentID  string           `db:"student_id" json:"student_id"`
	OfferingID string           `db:"offering_id" json:"offering_id"`
	Status     EnrollmentStatus `db:"status" json:"status"`
	EnrolledAt time.Time        `db:"enrolled_at" json:"enrolled_at"`
}

// EnrollmentDetail enriches Enrollment with student, course and period info.
type EnrollmentDetail struct {
	Enrollment
	StudentFirstName string  `db:"student_first_name" json:"student_first_name"`
	StudentLastName  string  `db:"student_last_name" json:"student_last_name"`
	StudentIDCard    string  `db:"student_id_card" json:"student_id_card"`
	CourseName       string  `db:"course_name" json:"course_name"`
	CourseCode       string  `db:"course_code" json:"course_code"`
	Credits          int     `db:"credits" json:"credits"`
	PeriodName       string  `db:"period_name" json:"period_name"`
	Semester         int     `db:"semester" json:"semester"`
	LecturerName     *string `db:"lecturer_name" json:"lecturer_name"`
}

// EnrollmentFilter provides filters for listing enrollments.
type EnrollmentFilter struct {
	StudentID string
	PeriodID  string
}
