package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-ledger-api/internal/models"
)

func TestUserRepositoryFindStudentByUserID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	userID := "user-1"
	rows := sqlmock.NewRows([]string{"id", "user_id", "student_id_card", "first_name", "last_name", "gender", "department_id", "generation"}).
		AddRow("stu-1", userID, "e20200001", "Sok", "Dara", "Male", nil, "G20")
	mock.ExpectQuery(regexp.QuoteMeta("FROM students WHERE user_id = $1 LIMIT 1")).
		WithArgs(userID).
		WillReturnRows(rows)

	profile, err := repo.FindStudentByUserID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "stu-1", profile.ID)
	assert.Equal(t, "e20200001", profile.StudentIDCard)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindLecturerMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM lecturers WHERE user_id = $1")).
		WithArgs("user-9").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindLecturerIDByUserID(context.Background(), "user-9")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUserRepositoryUpsertDepartmentKeepsStoredID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name")).
		WithArgs(sqlmock.AnyArg(), "Computer Engineering", "GIC").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("dep-existing"))

	dept := &models.Department{Name: "Computer Engineering", Code: "GIC"}
	require.NoError(t, repo.UpsertDepartment(context.Background(), dept))
	assert.Equal(t, "dep-existing", dept.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (id, username, email, password_hash, role, created_at)")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	user := &models.User{Username: "admin", Email: "admin@university.edu", PasswordHash: "hash", Role: models.RoleAdmin}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.NotEmpty(t, user.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_logs")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	entry := &models.AuditLog{Action: models.AuditActionPaymentRecord, Resource: "student_fees"}
	require.NoError(t, repo.Create(context.Background(), entry))
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}
