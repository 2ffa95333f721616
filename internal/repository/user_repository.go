package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-ledger-api/internal/models"
)

// UserRepository provides access to accounts and the profiles bound to them.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByUsername returns a user by username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	const query = `SELECT id, username, email, password_hash, role, created_at FROM users WHERE username = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return &user, nil
}

// Create inserts a new user record.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO users (id, username, email, password_hash, role, created_at)
        VALUES (:id, :username, :email, :password_hash, :role, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// FindStudentByUserID resolves the student profile bound to an account.
func (r *UserRepository) FindStudentByUserID(ctx context.Context, userID string) (*models.StudentProfile, error) {
	const query = `SELECT id, user_id, student_id_card, first_name, last_name, gender, department_id, generation
        FROM students WHERE user_id = $1 LIMIT 1`
	var profile models.StudentProfile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student by user: %w", err)
	}
	return &profile, nil
}

// FindLecturerIDByUserID resolves the lecturer id bound to an account.
func (r *UserRepository) FindLecturerIDByUserID(ctx context.Context, userID string) (string, error) {
	const query = `SELECT id FROM lecturers WHERE user_id = $1 LIMIT 1`
	var id string
	if err := r.db.GetContext(ctx, &id, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return "", err
		}
		return "", fmt.Errorf("find lecturer by user: %w", err)
	}
	return id, nil
}

// CreateStudentProfile inserts a students row.
func (r *UserRepository) CreateStudentProfile(ctx context.Context, profile *models.StudentProfile) error {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	const query = `INSERT INTO students (id, user_id, student_id_card, first_name, last_name, gender, department_id, generation)
        VALUES (:id, :user_id, :student_id_card, :first_name, :last_name, :gender, :department_id, :generation)`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("create student profile: %w", err)
	}
	return nil
}

// UpsertDepartment inserts a department or returns the id already stored for its code.
func (r *UserRepository) UpsertDepartment(ctx context.Context, dept *models.Department) error {
	if dept.ID == "" {
		dept.ID = uuid.NewString()
	}
	const query = `INSERT INTO departments (id, name, code) VALUES ($1, $2, $3)
        ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name
        RETURNING id`
	if err := r.db.GetContext(ctx, &dept.ID, query, dept.ID, dept.Name, dept.Code); err != nil {
		return fmt.Errorf("upsert department: %w", err)
	}
	return nil
}
