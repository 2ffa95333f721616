package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-ledger-api/internal/models"
)

func TestEnrollmentRepositoryCreateWithGrade(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO enrollments (id, student_id, offering_id, status, enrolled_at)")).
		WithArgs(sqlmock.AnyArg(), "stu-1", "off-1", models.EnrollmentStatusActive, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO marks (id, enrollment_id) VALUES ($1, $2)")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	enrollment := &models.Enrollment{StudentID: "stu-1", OfferingID: "off-1", Status: models.EnrollmentStatusDropped}
	require.NoError(t, repo.CreateWithGrade(context.Background(), enrollment))
	assert.NotEmpty(t, enrollment.ID)
	assert.Equal(t, models.EnrollmentStatusActive, enrollment.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCreateWithGradeRollsBackWhenMarksFail(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO enrollments")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO marks")).
		WillReturnError(errors.New("marks table locked"))
	mock.ExpectRollback()

	err := repo.CreateWithGrade(context.Background(), &models.Enrollment{StudentID: "stu-1", OfferingID: "off-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert marks")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryExists(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	query := regexp.QuoteMeta("SELECT 1 FROM enrollments WHERE student_id = $1 AND offering_id = $2 LIMIT 1")
	mock.ExpectQuery(query).WithArgs("stu-1", "off-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(1))
	mock.ExpectQuery(query).WithArgs("stu-1", "off-2").
		WillReturnError(sql.ErrNoRows)

	exists, err := repo.Exists(context.Background(), "stu-1", "off-1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(context.Background(), "stu-1", "off-2")
	require.NoError(t, err)
	assert.False(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "offering_id", "status", "enrolled_at",
		"student_first_name", "student_last_name", "student_id_card", "course_name", "course_code", "credits",
		"period_name", "semester", "lecturer_name"}).
		AddRow("enr-1", "stu-1", "off-1", "active", time.Now(), "Sok", "Dara", "e20200001", "Databases", "GIC301", 3, "2024-2025 S1", 1, nil)
	mock.ExpectQuery(`WHERE e\.student_id = \$1 AND co\.period_id = \$2 ORDER BY ap\.name DESC, s\.last_name, c\.code`).
		WithArgs("stu-1", "per-1").
		WillReturnRows(rows)

	list, err := repo.List(context.Background(), models.EnrollmentFilter{StudentID: "stu-1", PeriodID: "per-1"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "GIC301", list[0].CourseCode)
	assert.Nil(t, list[0].LecturerName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryUpdateStatusMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE enrollments SET status = $2 WHERE id = $1 RETURNING")).
		WithArgs("missing", models.EnrollmentStatusDropped).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.UpdateStatus(context.Background(), "missing", models.EnrollmentStatusDropped)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM marks WHERE enrollment_id = $1")).WithArgs("enr-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM enrollments WHERE id = $1")).WithArgs("enr-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), "enr-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryDeleteMissingRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM marks")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM enrollments")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
