package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleLecturer UserRole = "lecturer"
	RoleStudent  UserRole = "student"
)

// User represents an application account stored in the users table.
type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// StudentProfile is the students row bound to a user account.
type StudentProfile struct {
	ID            string  `db:"id" json:"id"`
	UserID        *string `db:"user_id" json:"user_id"`
	StudentIDCard string  `db:"student_id_card" json:"student_id_card"`
	FirstName     string  `db:"first_name" json:"first_name"`
	LastName      string  `db:"last_name" json:"last_name"`
	Gender        *string `db:"gender" json:"gender"`
	DepartmentID  *string `db:"department_id" json:"department_id"`
	Generation    *string `db:"generation" json:"generation"`
}

// Department is an academic department.
type Department struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Code string `db:"code" json:"code"`
}
