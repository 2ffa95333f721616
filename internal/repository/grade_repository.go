package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-ledger-api/internal/models"
)

const gradeColumns = `id, enrollment_id, attendance_score, midterm_score, final_score, updated_at`

// GradeRepository handles marks persistence.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository creates a new grade repository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// List returns marks rows matching the filter with enrollment and course context.
func (r *GradeRepository) List(ctx context.Context, filter models.GradeFilter) ([]models.GradeDetail, error) {
	query := `SELECT m.id, m.enrollment_id, m.attendance_score, m.midterm_score, m.final_score, m.updated_at,
        e.student_id, e.offering_id, s.first_name, s.last_name, s.student_id_card,
        c.name AS course_name, c.code AS course_code, c.credits
        FROM marks m
        JOIN enrollments e ON e.id = m.enrollment_id
        JOIN students s ON s.id = e.student_id
        JOIN course_offerings co ON co.id = e.offering_id
        JOIN courses c ON c.id = co.course_id
        WHERE 1=1`
	var args []interface{}
	if filter.OfferingID != "" {
		query += fmt.Sprintf(" AND e.offering_id = $%d", len(args)+1)
		args = append(args, filter.OfferingID)
	}
	if filter.StudentID != "" {
		query += fmt.Sprintf(" AND e.student_id = $%d", len(args)+1)
		args = append(args, filter.StudentID)
	}
	if filter.LecturerID != "" {
		query += fmt.Sprintf(" AND co.lecturer_id = $%d", len(args)+1)
		args = append(args, filter.LecturerID)
	}
	query += " ORDER BY s.last_name, s.first_name"

	grades := []models.GradeDetail{}
	if err := r.db.SelectContext(ctx, &grades, query, args...); err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}
	for i := range grades {
		grades[i].TotalScore = grades[i].Total()
	}
	return grades, nil
}

// FindByID returns a marks row by id.
func (r *GradeRepository) FindByID(ctx context.Context, id string) (*models.Grade, error) {
	query := `SELECT ` + gradeColumns + ` FROM marks WHERE id = $1`
	var grade models.Grade
	if err := r.db.GetContext(ctx, &grade, query, id); err != nil {
		return nil, err
	}
	return &grade, nil
}

// LecturerOwns reports whether the marks row belongs to an offering taught by the lecturer.
func (r *GradeRepository) LecturerOwns(ctx context.Context, gradeID, lecturerID string) (bool, error) {
	const query = `SELECT 1 FROM marks m
        JOIN enrollments e ON e.id = m.enrollment_id
        JOIN course_offerings co ON co.id = e.offering_id
        WHERE m.id = $1 AND co.lecturer_id = $2`
	var owns int
	if err := r.db.GetContext(ctx, &owns, query, gradeID, lecturerID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check grade ownership: %w", err)
	}
	return true, nil
}

// UpdateScores overwrites the three score components. A missing id yields sql.ErrNoRows.
func (r *GradeRepository) UpdateScores(ctx context.Context, grade *models.Grade) error {
	query := `UPDATE marks SET attendance_score = $2, midterm_score = $3, final_score = $4, updated_at = NOW()
        WHERE id = $1 RETURNING ` + gradeColumns
	args := []interface{}{grade.ID, grade.AttendanceScore, grade.MidtermScore, grade.FinalScore}
	if err := r.db.GetContext(ctx, grade, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("update grade: %w", err)
	}
	return nil
}
