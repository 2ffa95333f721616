package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-ledger-api/internal/models"
)

const enrollmentColumns = `id, student_id, offering_id, status, enrolled_at`

// EnrollmentRepository handles persistence of enrollments and their marks rows.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// List returns enrollments joined with student, course, period and lecturer names.
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, error) {
	query := `SELECT e.id, e.student_id, e.offering_id, e.status, e.enrolled_at,
        s.first_name AS student_first_name, s.last_name AS student_last_name, s.student_id_card,
        c.name AS course_name, c.code AS course_code, c.credits,
        ap.name AS period_name, ap.semester,
        CASE WHEN l.id IS NULL THEN NULL ELSE l.first_name || ' ' || l.last_name END AS lecturer_name
        FROM enrollments e
        JOIN students s ON s.id = e.student_id
        JOIN course_offerings co ON co.id = e.offering_id
        JOIN courses c ON c.id = co.course_id
        JOIN academic_periods ap ON ap.id = co.period_id
        LEFT JOIN lecturers l ON l.id = co.lecturer_id`
	var conditions []string
	var args []interface{}
	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("e.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.PeriodID != "" {
		conditions = append(conditions, fmt.Sprintf("co.period_id = $%d", len(args)+1))
		args = append(args, filter.PeriodID)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY ap.name DESC, s.last_name, c.code"

	enrollments := []models.EnrollmentDetail{}
	if err := r.db.SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

// FindByID returns an enrollment by its ID.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE id = $1`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// Exists reports whether the student already holds an enrollment of any status in the offering.
func (r *EnrollmentRepository) Exists(ctx context.Context, studentID, offeringID string) (bool, error) {
	const query = `SELECT 1 FROM enrollments WHERE student_id = $1 AND offering_id = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, studentID, offeringID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return true, nil
}

// CreateWithGrade inserts the enrollment and its empty marks row in one transaction.
func (r *EnrollmentRepository) CreateWithGrade(ctx context.Context, enrollment *models.Enrollment) (err error) {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = time.Now().UTC()
	}
	enrollment.Status = models.EnrollmentStatusActive

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin enrollment tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertEnrollment = `INSERT INTO enrollments (id, student_id, offering_id, status, enrolled_at)
        VALUES ($1, $2, $3, $4, $5)`
	if _, err = tx.ExecContext(ctx, insertEnrollment, enrollment.ID, enrollment.StudentID, enrollment.OfferingID, enrollment.Status, enrollment.EnrolledAt); err != nil {
		return fmt.Errorf("insert enrollment: %w", err)
	}

	const insertMarks = `INSERT INTO marks (id, enrollment_id) VALUES ($1, $2)`
	if _, err = tx.ExecContext(ctx, insertMarks, uuid.NewString(), enrollment.ID); err != nil {
		return fmt.Errorf("insert marks: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit enrollment: %w", err)
	}
	return nil
}

// UpdateStatus sets the status and returns the updated row. A missing id yields sql.ErrNoRows.
func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus) (*models.Enrollment, error) {
	query := `UPDATE enrollments SET status = $2 WHERE id = $1 RETURNING ` + enrollmentColumns
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id, status); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("update enrollment status: %w", err)
	}
	return &enrollment, nil
}

// Delete removes the marks row and the enrollment together. A missing id yields sql.ErrNoRows.
func (r *EnrollmentRepository) Delete(ctx context.Context, id string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin enrollment delete tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM marks WHERE enrollment_id = $1`, id); err != nil {
		return fmt.Errorf("delete marks: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete enrollment rows affected: %w", err)
	}
	if affected == 0 {
		err = sql.ErrNoRows
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit enrollment delete: %w", err)
	}
	return nil
}
